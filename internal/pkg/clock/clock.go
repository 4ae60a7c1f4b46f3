package clock

import (
	"sync/atomic"
	"time"
)

// Clock is the only time source use cases read, so expiry can be driven from tests.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func NewRealClock() Clock {
	return RealClock{}
}

// Now is UTC at microsecond precision, matching what timestamptz round-trips.
func (RealClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// MockClock only moves when told to. Safe across goroutines.
type MockClock struct {
	nanos atomic.Int64
}

func NewMockClock(t time.Time) *MockClock {
	c := &MockClock{}
	c.Set(t)
	return c
}

func (c *MockClock) Now() time.Time {
	return time.Unix(0, c.nanos.Load()).UTC()
}

func (c *MockClock) Set(t time.Time) {
	c.nanos.Store(t.UnixNano())
}

func (c *MockClock) Add(d time.Duration) {
	c.nanos.Add(int64(d))
}
