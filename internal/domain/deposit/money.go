package deposit

import (
	"fmt"
	"strings"
)

// Money is an amount in minor units (2 decimal places) of an ISO currency.
type Money struct {
	minor    int64
	currency string
}

func NewMoney(minor int64, currency string) Money {
	return Money{minor: minor, currency: NormalizeCurrency(currency)}
}

func NormalizeCurrency(c string) string {
	return strings.ToUpper(strings.TrimSpace(c))
}

func (m Money) Minor() int64      { return m.minor }
func (m Money) Currency() string  { return m.currency }
func (m Money) IsPositive() bool  { return m.minor > 0 }
func (m Money) Major() float64    { return float64(m.minor) / 100 }
func (m Money) Equal(o Money) bool { return m.minor == o.minor && m.currency == o.currency }

// Decimal renders the amount with exactly two decimals, e.g. "80.00".
func (m Money) Decimal() string {
	sign := ""
	v := m.minor
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func (m Money) String() string {
	return m.Decimal() + " " + m.currency
}

// divRoundHalfUp divides non-negative numerators rounding .5 away from zero.
func divRoundHalfUp(num, den int64) int64 {
	if den == 0 {
		return 0
	}
	if num < 0 {
		return -divRoundHalfUp(-num, den)
	}
	return (num + den/2) / den
}
