package rate

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/MindsetIO/log-stream/internal/parser"
)

// AggregateType keys the estimate computed across all record types merged.
const AggregateType parser.RecordType = "ALL"

// Estimate is the rolling events-per-minute estimate for one record type.
// RatePerMin is nil when the window holds too few samples or a degenerate
// span; Count is still meaningful then.
type Estimate struct {
	RatePerMin *float64      `json:"rate_min"`
	Count      int           `json:"count"`
	Window     time.Duration `json:"-"`
}

// String renders the rate for display, "n/a" when unavailable.
func (e Estimate) String() string {
	if e.RatePerMin == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", *e.RatePerMin)
}

// estimateAt fits an exponential distribution to the inter-arrival gaps
// inside the window by maximum likelihood, which reduces to the reciprocal
// of the mean gap. That models bursty, Poisson-like event streams better
// than count/duration when gaps are irregular.
func estimateAt(arrivals []time.Time, window time.Duration, now time.Time) Estimate {
	cutoff := now.Add(-window)
	in := arrivals[:0:0]
	for _, t := range arrivals {
		if !t.Before(cutoff) && !t.After(now) {
			in = append(in, t)
		}
	}

	est := Estimate{Count: len(in), Window: window}

	gaps := len(in) - 1
	if gaps < 2 {
		return est
	}

	var span float64 // minutes, sum of consecutive gaps
	for i := 1; i < len(in); i++ {
		span += in[i].Sub(in[i-1]).Minutes()
	}
	if span <= 0 {
		// All events share one instant; the fit would divide by zero.
		return est
	}

	rate := float64(gaps) / span
	est.RatePerMin = &rate
	return est
}

// Set tracks one History per record type and serves their estimates, plus an
// aggregate over every type merged. It is the only state shared between
// pipelines, guarded accordingly.
type Set struct {
	mu        sync.RWMutex
	window    time.Duration
	histories map[parser.RecordType]*History
}

// NewSet creates a Set with the given trailing window.
func NewSet(window time.Duration) *Set {
	return &Set{
		window:    window,
		histories: make(map[parser.RecordType]*History),
	}
}

// Record appends an arrival to its type's history and returns the refreshed
// estimate for that type.
func (s *Set) Record(recordType parser.RecordType, arrival time.Time) Estimate {
	s.history(recordType).Add(arrival)
	return s.Estimate(recordType, time.Now())
}

// Estimate returns the current estimate for one record type.
func (s *Set) Estimate(recordType parser.RecordType, now time.Time) Estimate {
	return estimateAt(s.history(recordType).Window(s.window, now), s.window, now)
}

// EstimateAll returns the aggregate estimate across all types. Arrivals are
// merged and re-sorted since each type's history is ordered independently.
func (s *Set) EstimateAll(now time.Time) Estimate {
	s.mu.RLock()
	var merged []time.Time
	for _, h := range s.histories {
		merged = append(merged, h.Window(s.window, now)...)
	}
	s.mu.RUnlock()

	sort.Slice(merged, func(i, j int) bool { return merged[i].Before(merged[j]) })
	return estimateAt(merged, s.window, now)
}

// Snapshot returns current estimates for every known type plus the
// aggregate under AggregateType.
func (s *Set) Snapshot(now time.Time) map[parser.RecordType]Estimate {
	s.mu.RLock()
	types := make([]parser.RecordType, 0, len(s.histories))
	for rt := range s.histories {
		types = append(types, rt)
	}
	s.mu.RUnlock()

	out := make(map[parser.RecordType]Estimate, len(types)+1)
	for _, rt := range types {
		out[rt] = s.Estimate(rt, now)
	}
	out[AggregateType] = s.EstimateAll(now)
	return out
}

func (s *Set) history(recordType parser.RecordType) *History {
	s.mu.RLock()
	h, ok := s.histories[recordType]
	s.mu.RUnlock()
	if ok {
		return h
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok = s.histories[recordType]; !ok {
		h = &History{}
		s.histories[recordType] = h
	}
	return h
}
