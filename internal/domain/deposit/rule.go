package deposit

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrUnknownMode = errors.New("unknown deposit mode")

type ModeKind string

const (
	ModePerDay       ModeKind = "per_day"
	ModePerHour      ModeKind = "per_hour"
	ModePerPerson    ModeKind = "per_person"
	ModeFlat         ModeKind = "flat"
	ModePercentTotal ModeKind = "percent_total"
)

// Mode is a closed set: the unexported compute method keeps variants inside this package,
// and every variant must implement it.
type Mode interface {
	Kind() ModeKind
	compute(f Facts) (int64, error)
}

// Flat charges Amount (minor units) as-is.
type Flat struct {
	Amount int64
}

// PerDay charges Rate (minor units) per started day.
type PerDay struct {
	Rate int64
}

// PerHour charges Rate (minor units) per rounded hour.
type PerHour struct {
	Rate int64
}

// PerPerson charges Rate (minor units) per adult, plus children when IncludeChildren.
type PerPerson struct {
	Rate            int64
	IncludeChildren bool
}

// PercentTotal charges Basis hundredths of a percent of the booking total (1500 = 15%).
type PercentTotal struct {
	Basis int64
}

func (Flat) Kind() ModeKind         { return ModeFlat }
func (PerDay) Kind() ModeKind       { return ModePerDay }
func (PerHour) Kind() ModeKind      { return ModePerHour }
func (PerPerson) Kind() ModeKind    { return ModePerPerson }
func (PercentTotal) Kind() ModeKind { return ModePercentTotal }

// NewMode rebuilds a variant from its stored form; amount is hundredths of the rule's unit.
func NewMode(kind string, amount int64, includeChildren bool) (Mode, error) {
	switch ModeKind(kind) {
	case ModeFlat:
		return Flat{Amount: amount}, nil
	case ModePerDay:
		return PerDay{Rate: amount}, nil
	case ModePerHour:
		return PerHour{Rate: amount}, nil
	case ModePerPerson:
		return PerPerson{Rate: amount, IncludeChildren: includeChildren}, nil
	case ModePercentTotal:
		return PercentTotal{Basis: amount}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, kind)
	}
}

// StoredAmount is the inverse of NewMode's amount argument.
func StoredAmount(m Mode) int64 {
	switch v := m.(type) {
	case Flat:
		return v.Amount
	case PerDay:
		return v.Rate
	case PerHour:
		return v.Rate
	case PerPerson:
		return v.Rate
	case PercentTotal:
		return v.Basis
	default:
		return 0
	}
}

type RuleSource string

const (
	SourceResourceOverride RuleSource = "resource_override"
	SourceTypeDefault      RuleSource = "type_default"
)

type Rule struct {
	ID           uuid.UUID
	ResourceType string
	ResourceID   *uuid.UUID
	Mode         Mode
	Currency     string
	Enabled      bool
	Source       RuleSource
}

func (r Rule) IncludeChildren() bool {
	if p, ok := r.Mode.(PerPerson); ok {
		return p.IncludeChildren
	}
	return false
}
