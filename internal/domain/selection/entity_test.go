//go:build unit

package selection_test

import (
	"testing"
	"time"

	"booking-orchestrator/internal/domain/selection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) selection.Date {
	t.Helper()
	d, err := selection.ParseDate(s)
	require.NoError(t, err)
	return d
}

func timePtr(s string) *time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return &t
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
		errIs error
	}{
		{name: "bare date", input: "2026-11-02", want: "2026-11-02"},
		{name: "timestamp keeps its own calendar day", input: "2026-11-02T23:30:00+09:00", want: "2026-11-02"},
		{name: "surrounding whitespace", input: " 2026-11-02 ", want: "2026-11-02"},
		{name: "empty", input: "", errIs: selection.ErrInvalidDate},
		{name: "garbage", input: "next tuesday", errIs: selection.ErrInvalidDate},
		{name: "impossible day", input: "2026-02-30", errIs: selection.ErrInvalidDate},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d, err := selection.ParseDate(c.input)
			if c.errIs != nil {
				require.ErrorIs(t, err, c.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.want, d.String())
		})
	}
}

func TestResolveStayWindow(t *testing.T) {
	t.Run("first non-null source wins per bound", func(t *testing.T) {
		w := selection.ResolveStayWindow(
			selection.BoundCandidate{From: nil, To: timePtr("2026-11-10T00:00:00Z")},
			selection.BoundCandidate{From: timePtr("2026-11-01T00:00:00Z"), To: timePtr("2026-12-31T00:00:00Z")},
		)
		require.NotNil(t, w.From)
		require.NotNil(t, w.To)
		assert.Equal(t, "2026-11-01", w.From.String())
		assert.Equal(t, "2026-11-10", w.To.String())
	})

	t.Run("inverted bounds are swapped", func(t *testing.T) {
		w := selection.ResolveStayWindow(selection.BoundCandidate{
			From: timePtr("2026-11-10T00:00:00Z"),
			To:   timePtr("2026-11-01T00:00:00Z"),
		})
		assert.Equal(t, "2026-11-01", w.From.String())
		assert.Equal(t, "2026-11-10", w.To.String())
	})

	t.Run("unknown window accepts anything", func(t *testing.T) {
		w := selection.ResolveStayWindow()
		assert.False(t, w.IsKnown())
		assert.True(t, w.Contains(mustDate(t, "1999-01-01")))
	})
}

func TestNewOptions(t *testing.T) {
	window := selection.ResolveStayWindow(selection.BoundCandidate{
		From: timePtr("2026-11-01T00:00:00Z"),
		To:   timePtr("2026-11-10T00:00:00Z"),
	})

	t.Run("dedupes while preserving order", func(t *testing.T) {
		dates, err := selection.NewOptions([]string{"2026-11-03", "2026-11-02", "2026-11-03T10:00:00Z"}, window, 3)
		require.NoError(t, err)
		assert.Equal(t, []string{"2026-11-03", "2026-11-02"}, selection.DateStrings(dates))
	})

	t.Run("window bounds are inclusive", func(t *testing.T) {
		dates, err := selection.NewOptions([]string{"2026-11-01", "2026-11-10"}, window, 3)
		require.NoError(t, err)
		assert.Len(t, dates, 2)
	})

	t.Run("names the offending date outside the window", func(t *testing.T) {
		_, err := selection.NewOptions([]string{"2026-11-02", "2026-11-11"}, window, 3)
		require.ErrorIs(t, err, selection.ErrDateOutsideWindow)
		var dateErr *selection.DateError
		require.ErrorAs(t, err, &dateErr)
		assert.Equal(t, "2026-11-11", dateErr.Value)
	})

	t.Run("more than the cap after dedupe is rejected", func(t *testing.T) {
		_, err := selection.NewOptions([]string{"2026-11-02", "2026-11-03", "2026-11-04", "2026-11-05"}, window, 3)
		require.ErrorIs(t, err, selection.ErrTooManyDates)
	})

	t.Run("a configured cap above three is clamped", func(t *testing.T) {
		_, err := selection.NewOptions([]string{"2026-11-02", "2026-11-03", "2026-11-04", "2026-11-05"}, window, 10)
		require.ErrorIs(t, err, selection.ErrTooManyDates)

		dates, err := selection.NewOptions([]string{"2026-11-02", "2026-11-03", "2026-11-04"}, window, 10)
		require.NoError(t, err)
		assert.Len(t, dates, selection.DefaultMaxOptions)
	})

	t.Run("a lower cap is honored", func(t *testing.T) {
		_, err := selection.NewOptions([]string{"2026-11-02", "2026-11-03"}, window, 1)
		require.ErrorIs(t, err, selection.ErrTooManyDates)
	})

	t.Run("duplicates do not count toward the cap", func(t *testing.T) {
		dates, err := selection.NewOptions([]string{"2026-11-02", "2026-11-03", "2026-11-04", "2026-11-02"}, window, 3)
		require.NoError(t, err)
		assert.Len(t, dates, 3)
	})

	t.Run("empty input is rejected", func(t *testing.T) {
		_, err := selection.NewOptions(nil, window, 3)
		require.ErrorIs(t, err, selection.ErrNoDates)
	})

	t.Run("malformed entry is rejected", func(t *testing.T) {
		_, err := selection.NewOptions([]string{"2026-11-02", "soon"}, window, 3)
		require.ErrorIs(t, err, selection.ErrInvalidDate)
	})
}

func TestRequest(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	req := &selection.Request{
		ProposedDates: []selection.Date{mustDate(t, "2026-11-02"), mustDate(t, "2026-11-03")},
		Status:        selection.StatusSentToCustomer,
		ExpiresAt:     now.Add(time.Hour),
	}

	assert.True(t, req.Offers(mustDate(t, "2026-11-03")))
	assert.False(t, req.Offers(mustDate(t, "2026-11-04")))
	assert.False(t, req.IsExpiredAt(now))
	assert.True(t, req.IsExpiredAt(now.Add(2*time.Hour)))
	assert.True(t, req.CanConfirm(false))
	assert.False(t, req.CanConfirm(true))

	selected := mustDate(t, "2026-11-03")
	req.Status = selection.StatusSelected
	req.SelectedDate = &selected
	assert.False(t, req.IsExpiredAt(now.Add(2*time.Hour)), "a selected request never expires")
	assert.True(t, req.HasSelected(selected))

	req.Reissue([]selection.Date{mustDate(t, "2026-11-05")}, nil, "hash", now, 72*time.Hour)
	assert.Equal(t, selection.StatusSentToCustomer, req.Status)
	assert.Nil(t, req.SelectedDate)
	assert.Equal(t, now.Add(72*time.Hour), req.ExpiresAt)
}

func TestStatus(t *testing.T) {
	assert.True(t, selection.StatusPendingAdmin.IsConfirmable())
	assert.True(t, selection.StatusSelected.IsConfirmable())
	assert.False(t, selection.StatusExpired.IsConfirmable())
	assert.False(t, selection.Status("bogus").IsValid())
}
