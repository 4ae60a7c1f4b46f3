//go:build unit || e2e

package builder

import (
	"time"

	"booking-orchestrator/internal/domain/fulfillment"

	"github.com/google/uuid"
)

// TripBuilder produces a booking with one trip fulfillment covering 2030-06-01..2030-06-05.
type TripBuilder struct {
	BookingID       uuid.UUID
	FulfillmentID   uuid.UUID
	PartnerID       uuid.UUID
	ResourceType    string
	ResourceID      uuid.UUID
	Status          fulfillment.Status
	ContactRevealed bool
	Label           string
	Reference       string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	Lang            string
	StartDate       *time.Time
	EndDate         *time.Time
	PickupAt        *time.Time
	ReturnAt        *time.Time
	Adults          int
	Children        int
	TotalPrice      *int64
	Currency        string
}

func NewTripBuilder() *TripBuilder {
	start := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2030, 6, 5, 0, 0, 0, 0, time.UTC)
	total := int64(80000)
	return &TripBuilder{
		BookingID:     uuid.New(),
		FulfillmentID: uuid.New(),
		PartnerID:     uuid.New(),
		ResourceType:  "trip",
		ResourceID:    uuid.New(),
		Status:        fulfillment.StatusPending,
		Label:         "Lake Bled day trip",
		Reference:     "TRIP-1042",
		CustomerName:  "Ana Novak",
		CustomerEmail: "ana@example.com",
		CustomerPhone: "+38640111222",
		Lang:          "en",
		StartDate:     &start,
		EndDate:       &end,
		Adults:        2,
		Children:      1,
		TotalPrice:    &total,
		Currency:      "EUR",
	}
}

func (b *TripBuilder) With(mutate func(*TripBuilder)) *TripBuilder {
	mutate(b)
	return b
}

func (b *TripBuilder) WithoutWindow() *TripBuilder {
	b.StartDate, b.EndDate, b.PickupAt, b.ReturnAt = nil, nil, nil, nil
	return b
}

func (b *TripBuilder) Accepted() *TripBuilder {
	b.Status = fulfillment.StatusAccepted
	return b
}

func (b *TripBuilder) BuildBooking() fulfillment.Booking {
	return fulfillment.Booking{
		ID:            b.BookingID,
		Label:         b.Label,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		CustomerPhone: b.CustomerPhone,
		Lang:          b.Lang,
		StartDate:     b.StartDate,
		EndDate:       b.EndDate,
		PickupAt:      b.PickupAt,
		ReturnAt:      b.ReturnAt,
		Adults:        b.Adults,
		Children:      b.Children,
		TotalPrice:    b.TotalPrice,
		Currency:      b.Currency,
	}
}

func (b *TripBuilder) BuildFulfillment() fulfillment.Fulfillment {
	return fulfillment.Fulfillment{
		ID:              b.FulfillmentID,
		BookingID:       b.BookingID,
		PartnerID:       b.PartnerID,
		ResourceType:    b.ResourceType,
		ResourceID:      b.ResourceID,
		Status:          b.Status,
		ContactRevealed: b.ContactRevealed,
		Reference:       b.Reference,
		Summary:         b.Label,
	}
}
