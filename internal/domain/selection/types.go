package selection

import (
	"errors"
	"fmt"
)

var (
	ErrNoDates           = errors.New("at least one date option is required")
	ErrTooManyDates      = errors.New("too many date options")
	ErrInvalidDate       = errors.New("invalid calendar date")
	ErrDateOutsideWindow = errors.New("date is outside the stay window")
	ErrDateNotOffered    = errors.New("date is not one of the proposed options")
)

// DateError names the offending input alongside the reason.
type DateError struct {
	Value string
	Cause error
}

func (e *DateError) Error() string {
	return fmt.Sprintf("%s: %q", e.Cause.Error(), e.Value)
}

func (e *DateError) Unwrap() error {
	return e.Cause
}

type Status string

const (
	StatusSentToCustomer Status = "sent_to_customer"
	StatusSelected       Status = "selected"
	StatusExpired        Status = "expired"
	// StatusPendingAdmin is a legacy state still accepted as a predecessor of selected.
	// Nothing in this service produces it.
	StatusPendingAdmin Status = "pending_admin"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusSentToCustomer, StatusSelected, StatusExpired, StatusPendingAdmin:
		return true
	default:
		return false
	}
}

// ConfirmableStatuses are the states the conditional update may move to selected.
func ConfirmableStatuses() []Status {
	return []Status{StatusSentToCustomer, StatusPendingAdmin, StatusSelected}
}

func (s Status) IsConfirmable() bool {
	for _, c := range ConfirmableStatuses() {
		if s == c {
			return true
		}
	}
	return false
}
