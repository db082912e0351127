package rate

import (
	"sync"
	"time"
)

// Keeping more than this per type buys nothing: estimates only ever read the
// trailing window.
const maxArrivals = 10000

// History is one record type's append-only log of arrival instants. Arrival
// order is the ordering key (the source log's own clock may skew), so
// appends never reorder. Oldest entries are dropped once the cap is hit.
type History struct {
	mu       sync.Mutex
	arrivals []time.Time
}

// Add appends one arrival.
func (h *History) Add(t time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.arrivals = append(h.arrivals, t)
	if len(h.arrivals) > maxArrivals {
		h.arrivals = h.arrivals[len(h.arrivals)-maxArrivals:]
	}
}

// Count returns the total retained arrivals.
func (h *History) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.arrivals)
}

// Window returns the arrivals within [now-window, now], in arrival order.
func (h *History) Window(window time.Duration, now time.Time) []time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()

	cutoff := now.Add(-window)
	out := make([]time.Time, 0, len(h.arrivals))
	for _, t := range h.arrivals {
		if !t.Before(cutoff) && !t.After(now) {
			out = append(out, t)
		}
	}
	return out
}
