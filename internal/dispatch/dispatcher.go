package dispatch

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/MindsetIO/log-stream/internal/parser"
)

// Sink receives one trimmed line per pattern match.
type Sink func(recordType parser.RecordType, line string)

// Dispatcher classifies lines from a single source against that source's
// pattern set. Matchers are pure functions of line content and the
// dispatcher keeps no cross-line state, so lines flow through in arrival
// order and re-dispatching a line always yields the same result.
type Dispatcher struct {
	recordType parser.RecordType
	patterns   []*regexp.Regexp
	sink       Sink
}

// New compiles the configured patterns. A pattern that does not compile is a
// configuration error, caught at startup rather than per line.
func New(recordType parser.RecordType, patterns []string, sink Sink) (*Dispatcher, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q for type %s: %w", p, recordType, err)
		}
		compiled = append(compiled, re)
	}
	return &Dispatcher{
		recordType: recordType,
		patterns:   compiled,
		sink:       sink,
	}, nil
}

// Dispatch tests the line against every pattern, no short-circuit, and
// invokes the sink once per match. Matching is an unanchored search unless a
// pattern anchors itself. Returns the number of matches.
func (d *Dispatcher) Dispatch(line string) int {
	trimmed := strings.TrimSpace(line)
	matches := 0
	for _, re := range d.patterns {
		if re.FindStringIndex(trimmed) != nil {
			matches++
			d.sink(d.recordType, trimmed)
		}
	}
	return matches
}
