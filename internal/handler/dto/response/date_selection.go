package response

import (
	"time"

	"booking-orchestrator/internal/domain/selection"
	"booking-orchestrator/internal/usecase/commands"

	"github.com/google/uuid"
)

type SendOptionsResponse struct {
	BookingID     uuid.UUID `json:"booking_id"`
	FulfillmentID uuid.UUID `json:"fulfillment_id"`
	RequestID     uuid.UUID `json:"request_id"`
	Status        string    `json:"status"`
	OptionsCount  int       `json:"options_count"`
	ExpiresAt     time.Time `json:"expires_at"`
}

type WindowResponse struct {
	From *string `json:"from"`
	To   *string `json:"to"`
}

type DepositSummaryResponse struct {
	ID          uuid.UUID `json:"id"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	CheckoutURL string    `json:"checkout_url,omitempty"`
}

type PreviewResponse struct {
	RequestID       uuid.UUID               `json:"request_id"`
	BookingID       uuid.UUID               `json:"booking_id"`
	FulfillmentID   uuid.UUID               `json:"fulfillment_id"`
	Label           string                  `json:"label"`
	Lang            string                  `json:"lang"`
	Window          WindowResponse          `json:"window"`
	ProposedDates   []string                `json:"proposed_dates"`
	PreferredDate   *string                 `json:"preferred_date"`
	SelectedDate    *string                 `json:"selected_date"`
	Status          string                  `json:"status"`
	ExpiresAt       time.Time               `json:"expires_at"`
	CanConfirm      bool                    `json:"can_confirm"`
	SelectionLocked bool                    `json:"selection_locked"`
	Deposit         *DepositSummaryResponse `json:"deposit,omitempty"`
}

type ConfirmResponse struct {
	BookingID          uuid.UUID  `json:"booking_id"`
	FulfillmentID      uuid.UUID  `json:"fulfillment_id"`
	SelectedDate       *string    `json:"selected_date"`
	Status             string     `json:"status"`
	AlreadySelected    bool       `json:"already_selected"`
	LockedAfterPayment bool       `json:"locked_after_payment"`
	DepositRequestID   *uuid.UUID `json:"deposit_request_id"`
	PaymentLinkReady   bool       `json:"payment_link_ready"`
	CheckoutURL        *string    `json:"checkout_url"`
	PaymentLinkError   *string    `json:"payment_link_error"`
}

func FromSendOptionsResult(r *commands.SendOptionsResult) SendOptionsResponse {
	return SendOptionsResponse{
		BookingID:     r.BookingID,
		FulfillmentID: r.FulfillmentID,
		RequestID:     r.RequestID,
		Status:        r.Status.String(),
		OptionsCount:  r.OptionsCount,
		ExpiresAt:     r.ExpiresAt,
	}
}

func FromPreviewResult(r *commands.PreviewResult) PreviewResponse {
	resp := PreviewResponse{
		RequestID:       r.RequestID,
		BookingID:       r.BookingID,
		FulfillmentID:   r.FulfillmentID,
		Label:           r.Label,
		Lang:            r.Lang,
		Window:          WindowResponse{From: dateString(r.Window.From), To: dateString(r.Window.To)},
		ProposedDates:   selection.DateStrings(r.ProposedDates),
		PreferredDate:   dateString(r.PreferredDate),
		SelectedDate:    dateString(r.SelectedDate),
		Status:          r.Status.String(),
		ExpiresAt:       r.ExpiresAt,
		CanConfirm:      r.CanConfirm,
		SelectionLocked: r.SelectionLocked,
	}
	if d := r.Deposit; d != nil {
		resp.Deposit = &DepositSummaryResponse{
			ID:          d.ID,
			Amount:      d.Amount.Major(),
			Currency:    d.Amount.Currency(),
			Status:      d.Status.String(),
			CheckoutURL: d.CheckoutURL,
		}
	}
	return resp
}

func FromConfirmResult(r *commands.ConfirmResult) ConfirmResponse {
	return ConfirmResponse{
		BookingID:          r.BookingID,
		FulfillmentID:      r.FulfillmentID,
		SelectedDate:       dateString(r.SelectedDate),
		Status:             r.Status.String(),
		AlreadySelected:    r.AlreadySelected,
		LockedAfterPayment: r.LockedAfterPayment,
		DepositRequestID:   r.DepositRequestID,
		PaymentLinkReady:   r.PaymentLinkReady,
		CheckoutURL:        nonEmpty(r.CheckoutURL),
		PaymentLinkError:   nonEmpty(r.PaymentLinkError),
	}
}

func dateString(d *selection.Date) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
