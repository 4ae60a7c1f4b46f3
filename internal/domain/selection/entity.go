package selection

import (
	"time"

	"github.com/google/uuid"
)

// DefaultMaxOptions is also the ceiling: proposed_dates holds at most three entries.
const DefaultMaxOptions = 3

// Request governs one round of "partner proposes dates, customer picks one" for a fulfillment.
type Request struct {
	ID            uuid.UUID
	BookingID     uuid.UUID
	FulfillmentID uuid.UUID
	PartnerID     uuid.UUID
	ProposedDates []Date
	PreferredDate *Date
	SelectedDate  *Date
	Status        Status
	TokenHash     string
	ExpiresAt     time.Time
	SelectedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewOptions normalizes partner input: parse, dedupe preserving order, cap, window check.
func NewOptions(raw []string, window StayWindow, maxOptions int) ([]Date, error) {
	if maxOptions <= 0 || maxOptions > DefaultMaxOptions {
		maxOptions = DefaultMaxOptions
	}

	seen := make(map[string]struct{}, len(raw))
	dates := make([]Date, 0, len(raw))
	for _, s := range raw {
		d, err := ParseDate(s)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[d.String()]; dup {
			continue
		}
		seen[d.String()] = struct{}{}

		if !window.Contains(d) {
			return nil, &DateError{Value: d.String(), Cause: ErrDateOutsideWindow}
		}
		dates = append(dates, d)
	}

	if len(dates) == 0 {
		return nil, ErrNoDates
	}
	if len(dates) > maxOptions {
		return nil, ErrTooManyDates
	}
	return dates, nil
}

// Reissue resets the request for a new round; any earlier token stops matching.
func (r *Request) Reissue(dates []Date, preferred *Date, tokenHash string, now time.Time, ttl time.Duration) {
	r.ProposedDates = dates
	r.PreferredDate = preferred
	r.SelectedDate = nil
	r.SelectedAt = nil
	r.Status = StatusSentToCustomer
	r.TokenHash = tokenHash
	r.ExpiresAt = now.Add(ttl)
	r.UpdatedAt = now
}

// IsExpiredAt is true once the TTL passed for a request that was never selected.
func (r *Request) IsExpiredAt(now time.Time) bool {
	if r.Status == StatusExpired {
		return true
	}
	return r.Status != StatusSelected && now.After(r.ExpiresAt)
}

func (r *Request) Offers(d Date) bool {
	for _, p := range r.ProposedDates {
		if p.Equal(d) {
			return true
		}
	}
	return false
}

func (r *Request) HasSelected(d Date) bool {
	return r.Status == StatusSelected && r.SelectedDate != nil && r.SelectedDate.Equal(d)
}

func (r *Request) CanConfirm(locked bool) bool {
	if locked {
		return false
	}
	return r.Status == StatusSentToCustomer || r.Status == StatusSelected
}
