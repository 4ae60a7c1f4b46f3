package fulfillment

import (
	"time"

	"booking-orchestrator/internal/domain/deposit"
	"booking-orchestrator/internal/domain/selection"

	"github.com/google/uuid"
)

// SelectionView mirrors selection state into fulfillment details for the dashboards.
// It is written alongside the selection request and never read back as the source of truth.
type SelectionView struct {
	RequestID        uuid.UUID  `json:"request_id"`
	Status           string     `json:"status"`
	ProposedDates    []string   `json:"proposed_dates"`
	PreferredDate    *string    `json:"preferred_date"`
	SelectedDate     *string    `json:"selected_date"`
	ExpiresAt        time.Time  `json:"expires_at"`
	SelectedAt       *time.Time `json:"selected_at"`
	DepositRequestID *uuid.UUID `json:"deposit_request_id,omitempty"`
	DepositStatus    string     `json:"deposit_status,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func NewSelectionView(r *selection.Request, dep *deposit.Request, now time.Time) SelectionView {
	v := SelectionView{
		RequestID:     r.ID,
		Status:        r.Status.String(),
		ProposedDates: selection.DateStrings(r.ProposedDates),
		PreferredDate: dateString(r.PreferredDate),
		SelectedDate:  dateString(r.SelectedDate),
		ExpiresAt:     r.ExpiresAt,
		SelectedAt:    r.SelectedAt,
		UpdatedAt:     now,
	}
	if dep != nil {
		id := dep.ID
		v.DepositRequestID = &id
		v.DepositStatus = dep.Status.String()
	}
	return v
}

func dateString(d *selection.Date) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
