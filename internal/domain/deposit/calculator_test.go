//go:build unit

package deposit_test

import (
	"testing"
	"time"

	"booking-orchestrator/internal/domain/deposit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }

func TestAmount(t *testing.T) {
	cases := []struct {
		name    string
		mode    deposit.Mode
		facts   deposit.Facts
		want    string
		wantErr error
	}{
		{
			name:  "per_day multiplies by whole days",
			mode:  deposit.PerDay{Rate: 2000},
			facts: deposit.Facts{Days: f64(4)},
			want:  "80.00",
		},
		{
			name:  "per_day rounds partial days up",
			mode:  deposit.PerDay{Rate: 2000},
			facts: deposit.Facts{Days: f64(2.1)},
			want:  "60.00",
		},
		{
			name:  "per_day charges at least one day",
			mode:  deposit.PerDay{Rate: 2000},
			facts: deposit.Facts{},
			want:  "20.00",
		},
		{
			name:  "per_hour rounds to nearest hour",
			mode:  deposit.PerHour{Rate: 550},
			facts: deposit.Facts{Hours: f64(2.5)},
			want:  "16.50",
		},
		{
			name:  "per_hour charges at least one hour",
			mode:  deposit.PerHour{Rate: 550},
			facts: deposit.Facts{Hours: f64(0.2)},
			want:  "5.50",
		},
		{
			name:  "per_person excludes children",
			mode:  deposit.PerPerson{Rate: 1000},
			facts: deposit.Facts{Adults: 2, Children: 1},
			want:  "20.00",
		},
		{
			name:  "per_person includes children",
			mode:  deposit.PerPerson{Rate: 1000, IncludeChildren: true},
			facts: deposit.Facts{Adults: 2, Children: 1},
			want:  "30.00",
		},
		{
			name:  "per_person charges at least one person",
			mode:  deposit.PerPerson{Rate: 1000},
			facts: deposit.Facts{},
			want:  "10.00",
		},
		{
			name:  "flat ignores facts",
			mode:  deposit.Flat{Amount: 4999},
			facts: deposit.Facts{Days: f64(10), Adults: 5},
			want:  "49.99",
		},
		{
			name:  "percent_total of booking total",
			mode:  deposit.PercentTotal{Basis: 1500},
			facts: deposit.Facts{BookingTotal: i64(20000)},
			want:  "30.00",
		},
		{
			name:  "percent_total rounds half up",
			mode:  deposit.PercentTotal{Basis: 1250},
			facts: deposit.Facts{BookingTotal: i64(1004)},
			want:  "1.26",
		},
		{
			name:    "percent_total without total",
			mode:    deposit.PercentTotal{Basis: 1500},
			facts:   deposit.Facts{},
			wantErr: deposit.ErrMissingBookingTotal,
		},
		{
			name:    "percent_total with zero total",
			mode:    deposit.PercentTotal{Basis: 1500},
			facts:   deposit.Facts{BookingTotal: i64(0)},
			wantErr: deposit.ErrMissingBookingTotal,
		},
		{
			name:    "percent_total with zero percent",
			mode:    deposit.PercentTotal{Basis: 0},
			facts:   deposit.Facts{BookingTotal: i64(20000)},
			wantErr: deposit.ErrInvalidDeposit,
		},
		{
			name:    "zero flat amount is invalid",
			mode:    deposit.Flat{Amount: 0},
			wantErr: deposit.ErrInvalidDeposit,
		},
		{
			name:    "negative rate is invalid",
			mode:    deposit.PerDay{Rate: -100},
			facts:   deposit.Facts{Days: f64(3)},
			wantErr: deposit.ErrInvalidDeposit,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rule := deposit.Rule{Mode: tc.mode, Currency: "eur"}

			got, err := deposit.Amount(rule, tc.facts)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Decimal())
			assert.Equal(t, "EUR", got.Currency())
		})
	}
}

func TestAmount_IsDeterministic(t *testing.T) {
	rule := deposit.Rule{Mode: deposit.PercentTotal{Basis: 333}, Currency: "USD"}
	facts := deposit.Facts{BookingTotal: i64(12345)}

	first, err := deposit.Amount(rule, facts)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := deposit.Amount(rule, facts)
		require.NoError(t, err)
		assert.True(t, first.Equal(again))
	}
}

func TestAmount_RequiresCurrency(t *testing.T) {
	_, err := deposit.Amount(deposit.Rule{Mode: deposit.Flat{Amount: 100}}, deposit.Facts{})
	assert.ErrorIs(t, err, deposit.ErrMissingCurrency)
}

func TestNewMode(t *testing.T) {
	m, err := deposit.NewMode("per_person", 1000, true)
	require.NoError(t, err)
	assert.Equal(t, deposit.PerPerson{Rate: 1000, IncludeChildren: true}, m)
	assert.Equal(t, int64(1000), deposit.StoredAmount(m))

	m, err = deposit.NewMode("percent_total", 1500, true)
	require.NoError(t, err)
	assert.Equal(t, deposit.PercentTotal{Basis: 1500}, m)

	_, err = deposit.NewMode("per_week", 1000, false)
	assert.ErrorIs(t, err, deposit.ErrUnknownMode)
}

func TestDaySpan(t *testing.T) {
	start := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, 7, 4, 10, 0, 0, 0, time.UTC)
	later := time.Date(2026, 7, 10, 10, 0, 0, 0, time.UTC)

	t.Run("first complete pair wins", func(t *testing.T) {
		got := deposit.DaySpan(
			deposit.Span{Start: &start},
			deposit.Span{Start: &start, End: &end},
			deposit.Span{Start: &start, End: &later},
		)
		require.NotNil(t, got)
		assert.InDelta(t, 3.0, *got, 1e-9)
	})

	t.Run("inverted pair measures absolute span", func(t *testing.T) {
		got := deposit.DaySpan(deposit.Span{Start: &end, End: &start})
		require.NotNil(t, got)
		assert.InDelta(t, 3.0, *got, 1e-9)
	})

	t.Run("no complete pair", func(t *testing.T) {
		assert.Nil(t, deposit.DaySpan(deposit.Span{End: &end}))
	})

	t.Run("hours", func(t *testing.T) {
		got := deposit.HourSpan(deposit.Span{Start: &start, End: &end})
		require.NotNil(t, got)
		assert.InDelta(t, 72.0, *got, 1e-9)
	})
}

func TestRequest_CanReuse(t *testing.T) {
	amount := deposit.NewMoney(8000, "EUR")
	r := deposit.Request{Status: deposit.StatusPending, CheckoutURL: "https://pay.test/s/1", Amount: amount}

	assert.True(t, r.CanReuse(deposit.NewMoney(8000, "eur")))
	assert.False(t, r.CanReuse(deposit.NewMoney(8001, "EUR")))
	assert.False(t, r.CanReuse(deposit.NewMoney(8000, "USD")))

	r.CheckoutURL = ""
	assert.False(t, r.CanReuse(amount))

	r.CheckoutURL = "https://pay.test/s/1"
	r.Status = deposit.StatusPaid
	assert.False(t, r.CanReuse(amount))
	assert.True(t, r.IsPaid())
}
