package deposit

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

func (s Status) String() string {
	return string(s)
}

// CustomerSnapshot is frozen at creation so notifications do not follow later booking edits.
type CustomerSnapshot struct {
	Name                 string
	Email                string
	Phone                string
	FulfillmentReference string
	FulfillmentSummary   string
	Lang                 string
}

// Request is the single deposit row of a fulfillment.
type Request struct {
	ID                 uuid.UUID
	FulfillmentID      uuid.UUID
	PartnerID          uuid.UUID
	BookingID          uuid.UUID
	ResourceType       string
	ResourceID         uuid.UUID
	Amount             Money
	Status             Status
	CheckoutSessionID  string
	CheckoutURL        string
	ProviderCustomerID string
	Customer           CustomerSnapshot
	PaidAt             *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (r *Request) IsPaid() bool {
	return r.Status == StatusPaid
}

// CanReuse reports whether an open checkout already charges exactly this amount.
func (r *Request) CanReuse(amount Money) bool {
	return r.Status == StatusPending && r.CheckoutURL != "" && r.Amount.Equal(amount)
}
