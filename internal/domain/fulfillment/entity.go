package fulfillment

import (
	"time"

	"booking-orchestrator/internal/domain/deposit"
	"booking-orchestrator/internal/domain/selection"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusDeclined  Status = "declined"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

// Fulfillment is the partner-side work item backing a booking.
type Fulfillment struct {
	ID              uuid.UUID
	BookingID       uuid.UUID
	PartnerID       uuid.UUID
	ResourceType    string
	ResourceID      uuid.UUID
	Status          Status
	ContactRevealed bool
	Reference       string
	Summary         string
	StayFrom        *time.Time
	StayTo          *time.Time
	UpdatedAt       time.Time
}

// Booking is the customer-side record, read-only here apart from the selected date mirror.
type Booking struct {
	ID            uuid.UUID
	Label         string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Lang          string
	StartDate     *time.Time
	EndDate       *time.Time
	PickupAt      *time.Time
	ReturnAt      *time.Time
	Adults        int
	Children      int
	// TotalPrice in minor units.
	TotalPrice   *int64
	Currency     string
	SelectedDate *time.Time
}

// IsSelectionLocked reports whether the date can no longer change.
// dep is nil when no deposit request exists.
func (f *Fulfillment) IsSelectionLocked(dep *deposit.Request) bool {
	if dep != nil && dep.IsPaid() {
		return true
	}
	if f.ContactRevealed {
		return true
	}
	return dep == nil && f.Status == StatusAccepted
}

// Accept moves a pending fulfillment to accepted and reveals the customer contact.
// Returns false when nothing changed.
func (f *Fulfillment) Accept() bool {
	if f.Status == StatusAccepted && f.ContactRevealed {
		return false
	}
	if f.Status != StatusPending && f.Status != StatusAccepted {
		return false
	}
	f.Status = StatusAccepted
	f.ContactRevealed = true
	return true
}

// StayWindow resolves the window from fulfillment stay dates, then booking dates, then pickup/return.
func (f *Fulfillment) StayWindow(b Booking) selection.StayWindow {
	return selection.ResolveStayWindow(
		selection.BoundCandidate{From: f.StayFrom, To: f.StayTo},
		selection.BoundCandidate{From: b.StartDate, To: b.EndDate},
		selection.BoundCandidate{From: b.PickupAt, To: b.ReturnAt},
	)
}

// DepositFacts gathers what deposit rules price against.
func (f *Fulfillment) DepositFacts(b Booking) deposit.Facts {
	return deposit.Facts{
		Days: deposit.DaySpan(
			deposit.Span{Start: f.StayFrom, End: f.StayTo},
			deposit.Span{Start: b.StartDate, End: b.EndDate},
			deposit.Span{Start: b.PickupAt, End: b.ReturnAt},
		),
		Hours: deposit.HourSpan(
			deposit.Span{Start: b.PickupAt, End: b.ReturnAt},
			deposit.Span{Start: f.StayFrom, End: f.StayTo},
			deposit.Span{Start: b.StartDate, End: b.EndDate},
		),
		Adults:       b.Adults,
		Children:     b.Children,
		BookingTotal: b.TotalPrice,
	}
}

// CustomerSnapshot freezes booking contact data for deposit notifications.
func (f *Fulfillment) CustomerSnapshot(b Booking, lang string) deposit.CustomerSnapshot {
	if lang == "" {
		lang = b.Lang
	}
	return deposit.CustomerSnapshot{
		Name:                 b.CustomerName,
		Email:                b.CustomerEmail,
		Phone:                b.CustomerPhone,
		FulfillmentReference: f.Reference,
		FulfillmentSummary:   f.Summary,
		Lang:                 lang,
	}
}
