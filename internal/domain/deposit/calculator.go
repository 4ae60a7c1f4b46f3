package deposit

import (
	"errors"
	"math"
	"time"
)

var (
	ErrInvalidDeposit      = errors.New("computed deposit must be strictly positive")
	ErrMissingBookingTotal = errors.New("booking total is unknown")
	ErrMissingCurrency     = errors.New("deposit currency is missing")
)

// Facts are the booking measurements a rule may price against.
type Facts struct {
	Days     *float64
	Hours    *float64
	Adults   int
	Children int
	// BookingTotal in minor units, used by percent_total only.
	BookingTotal *int64
}

// Span is one candidate (start, end) pair.
type Span struct {
	Start *time.Time
	End   *time.Time
}

// DaySpan measures the first complete pair, in days.
func DaySpan(pairs ...Span) *float64 {
	d := firstDuration(pairs)
	if d == nil {
		return nil
	}
	days := d.Hours() / 24
	return &days
}

// HourSpan measures the first complete pair, in hours.
func HourSpan(pairs ...Span) *float64 {
	d := firstDuration(pairs)
	if d == nil {
		return nil
	}
	hours := d.Hours()
	return &hours
}

func firstDuration(pairs []Span) *time.Duration {
	for _, p := range pairs {
		if p.Start == nil || p.End == nil {
			continue
		}
		d := p.End.Sub(*p.Start)
		if d < 0 {
			d = -d
		}
		return &d
	}
	return nil
}

// Amount prices a rule against facts. Deterministic; result rounded half-up to 2 decimals.
func Amount(rule Rule, facts Facts) (Money, error) {
	currency := NormalizeCurrency(rule.Currency)
	if currency == "" {
		return Money{}, ErrMissingCurrency
	}
	if rule.Mode == nil {
		return Money{}, ErrUnknownMode
	}

	minor, err := rule.Mode.compute(facts)
	if err != nil {
		return Money{}, err
	}
	if minor <= 0 {
		return Money{}, ErrInvalidDeposit
	}
	return NewMoney(minor, currency), nil
}

func (m Flat) compute(_ Facts) (int64, error) {
	return m.Amount, nil
}

func (m PerDay) compute(f Facts) (int64, error) {
	units := int64(1)
	if f.Days != nil {
		units = atLeastOne(int64(math.Ceil(*f.Days)))
	}
	return m.Rate * units, nil
}

func (m PerHour) compute(f Facts) (int64, error) {
	units := int64(1)
	if f.Hours != nil {
		units = atLeastOne(int64(math.Round(*f.Hours)))
	}
	return m.Rate * units, nil
}

func (m PerPerson) compute(f Facts) (int64, error) {
	people := int64(f.Adults)
	if m.IncludeChildren {
		people += int64(f.Children)
	}
	return m.Rate * atLeastOne(people), nil
}

func (m PercentTotal) compute(f Facts) (int64, error) {
	if f.BookingTotal == nil || *f.BookingTotal == 0 {
		return 0, ErrMissingBookingTotal
	}
	if m.Basis == 0 {
		return 0, ErrInvalidDeposit
	}
	// total (minor) * basis (percent x100) / 100 (percent) / 100 (basis scale)
	return divRoundHalfUp(*f.BookingTotal*m.Basis, 10000), nil
}

func atLeastOne(n int64) int64 {
	if n < 1 {
		return 1
	}
	return n
}
