package shared

import (
	"time"

	"github.com/google/uuid"
)

const (
	TopicDateOptionsReady = "trip_date_options_ready"
	TopicDepositRequested = "deposit_customer_requested"
	TopicDepositPaid      = "deposit_paid_partner"

	NotificationKindEmail = "email"
)

type DateOptionsReadyPayload struct {
	RequestID     uuid.UUID `json:"request_id"`
	BookingID     uuid.UUID `json:"booking_id"`
	FulfillmentID uuid.UUID `json:"fulfillment_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	Lang          string    `json:"lang"`
	Dates         []string  `json:"dates"`
	PreferredDate *string   `json:"preferred_date,omitempty"`
	// SelectionURL carries the raw token; this payload is the only place it is written.
	SelectionURL string    `json:"selection_url"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type DepositRequestedPayload struct {
	DepositRequestID     uuid.UUID `json:"deposit_request_id"`
	BookingID            uuid.UUID `json:"booking_id"`
	FulfillmentID        uuid.UUID `json:"fulfillment_id"`
	CustomerName         string    `json:"customer_name"`
	CustomerEmail        string    `json:"customer_email"`
	CustomerPhone        string    `json:"customer_phone,omitempty"`
	FulfillmentReference string    `json:"fulfillment_reference,omitempty"`
	FulfillmentSummary   string    `json:"fulfillment_summary,omitempty"`
	Lang                 string    `json:"lang"`
	Amount               string    `json:"amount"`
	Currency             string    `json:"currency"`
	CheckoutURL          string    `json:"checkout_url"`
	SelectedDate         string    `json:"selected_date,omitempty"`
}

type DepositPaidPayload struct {
	DepositRequestID uuid.UUID `json:"deposit_request_id"`
	BookingID        uuid.UUID `json:"booking_id"`
	FulfillmentID    uuid.UUID `json:"fulfillment_id"`
	PartnerID        uuid.UUID `json:"partner_id"`
	Amount           string    `json:"amount"`
	Currency         string    `json:"currency"`
	PaidAt           time.Time `json:"paid_at"`
}
