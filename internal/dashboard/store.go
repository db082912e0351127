package dashboard

import (
	"sync"

	"github.com/MindsetIO/log-stream/internal/pipeline"
)

// Store keeps the most recent outputs for display, newest first, capped at
// the configured table length. History proper lives with the rate
// estimator; this is presentation state only.
type Store struct {
	mu       sync.RWMutex
	tableLen int
	rows     []pipeline.Output
}

// NewStore creates a store showing at most tableLen rows.
func NewStore(tableLen int) *Store {
	return &Store{tableLen: tableLen}
}

// Add inserts an output at the front, evicting the oldest row past the cap.
func (s *Store) Add(out pipeline.Output) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows = append([]pipeline.Output{out}, s.rows...)
	if len(s.rows) > s.tableLen {
		s.rows = s.rows[:s.tableLen]
	}
}

// Rows returns a copy of the current rows, newest first.
func (s *Store) Rows() []pipeline.Output {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]pipeline.Output, len(s.rows))
	copy(out, s.rows)
	return out
}
