package faillog

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"
)

// Kind classifies a non-fatal pipeline failure.
type Kind string

const (
	KindParse    Kind = "parse"
	KindEnrich   Kind = "enrich"
	KindTransmit Kind = "transmit"
)

// Failure is one reported non-fatal event, with enough context to debug a
// bad pattern or format.
type Failure struct {
	Time   time.Time `json:"time"`
	Kind   Kind      `json:"kind"`
	Source string    `json:"source"`
	Type   string    `json:"type"`
	Raw    string    `json:"raw,omitempty"`
	Error  string    `json:"error"`
}

// Logger appends failures to a JSONL file in a thread-safe manner. With no
// path configured it degrades to the process log.
type Logger struct {
	mu       sync.Mutex
	filePath string
}

// NewLogger creates a new failure logger
func NewLogger(filePath string) *Logger {
	return &Logger{
		filePath: filePath,
	}
}

// Report writes one failure. Reporting errors are themselves non-fatal.
func (l *Logger) Report(kind Kind, source, recordType, raw string, cause error) {
	f := Failure{
		Time:   time.Now(),
		Kind:   kind,
		Source: source,
		Type:   recordType,
		Raw:    raw,
		Error:  cause.Error(),
	}

	log.Printf("[%s] %s failure on %s: %v", recordType, kind, source, cause)

	if l.filePath == "" {
		return
	}
	if err := l.append(f); err != nil {
		log.Printf("[FAILLOG] %v", err)
	}
}

func (l *Logger) append(f Failure) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	fh, err := os.OpenFile(l.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open failure log: %w", err)
	}
	defer fh.Close()

	encoder := json.NewEncoder(fh)
	if err := encoder.Encode(f); err != nil {
		return fmt.Errorf("failed to encode failure: %w", err)
	}
	return nil
}
