package selection

import "time"

// StayWindow bounds acceptable options. Either end may be unknown.
type StayWindow struct {
	From *Date
	To   *Date
}

// BoundCandidate is one (from, to) source; sources are given in precedence order.
type BoundCandidate struct {
	From *time.Time
	To   *time.Time
}

// ResolveStayWindow picks the first non-null value per bound and swaps inverted bounds.
func ResolveStayWindow(candidates ...BoundCandidate) StayWindow {
	var w StayWindow
	for _, c := range candidates {
		if w.From == nil && c.From != nil {
			w.From = DatePtr(c.From)
		}
		if w.To == nil && c.To != nil {
			w.To = DatePtr(c.To)
		}
	}
	if w.From != nil && w.To != nil && w.From.After(*w.To) {
		w.From, w.To = w.To, w.From
	}
	return w
}

func (w StayWindow) IsKnown() bool {
	return w.From != nil || w.To != nil
}

func (w StayWindow) Contains(d Date) bool {
	if w.From != nil && d.Before(*w.From) {
		return false
	}
	if w.To != nil && d.After(*w.To) {
		return false
	}
	return true
}
