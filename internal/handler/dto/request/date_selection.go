package request

import (
	"booking-orchestrator/internal/usecase/commands"

	"github.com/google/uuid"
)

const (
	ActionSendOptions = "send_options"
	ActionPreview     = "preview"
	ActionConfirm     = "confirm"
	ActionCheckout    = "checkout"
)

// DateSelectionRequest is the single body shape of the trip date selection endpoint.
// Which fields are read depends on Action.
type DateSelectionRequest struct {
	Action string `json:"action" binding:"required,oneof=send_options preview confirm checkout"`

	// send_options
	FulfillmentID *uuid.UUID `json:"fulfillment_id"`
	BookingID     *uuid.UUID `json:"booking_id"`
	Dates         []string   `json:"dates" binding:"omitempty,max=10,dive,max=40"`
	PreferredDate string     `json:"preferred_date" binding:"max=40"`

	// preview, confirm, checkout
	Token        string `json:"token" binding:"max=256"`
	SelectedDate string `json:"selected_date" binding:"max=40"`

	Lang string `json:"lang" binding:"max=10"`
}

func (r *DateSelectionRequest) ToSendOptionsInput() commands.SendOptionsInput {
	return commands.SendOptionsInput{
		FulfillmentID: r.FulfillmentID,
		BookingID:     r.BookingID,
		Dates:         r.Dates,
		PreferredDate: r.PreferredDate,
		Lang:          r.Lang,
	}
}
