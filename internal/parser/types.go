package parser

import (
	"errors"
	"fmt"
	"time"

	"github.com/MindsetIO/log-stream/internal/geo"
)

// RecordType is the closed set of log message categories this system knows
// how to parse. Dispatch is a fixed table keyed by these constants, so an
// unknown type is rejected up front instead of failing on a name lookup at
// parse time.
type RecordType string

const (
	TypeUFWBlock   RecordType = "ufw_block"
	TypeSSHInvalid RecordType = "ssh_invalid"
)

// ErrUnparsable marks content that matched a pattern but fits none of the
// known sub-formats for its declared type. Always recovered: the record is
// dropped and reported, never fatal.
var ErrUnparsable = errors.New("unparsable record")

// ParsedRecord is the structured form of one matched log line. Immutable
// after parsing, except for Geo which is attached by the enricher afterwards.
type ParsedRecord struct {
	Type      RecordType         `json:"type"`
	Content   string             `json:"content"`
	Host      string             `json:"host"`
	EventTime time.Time          `json:"event_time"` // from the log's own date fields
	Arrival   time.Time          `json:"timestamp"`  // wall clock at observation
	Fields    map[string]*string `json:"fields"`     // nil value = key present, value empty
	IP        string             `json:"ip"`         // extracted source address, "" if absent
	Geo       *geo.Info          `json:"geoip"`
}

// Field returns the value for a payload key, or "" when absent or empty.
func (r *ParsedRecord) Field(key string) string {
	if v, ok := r.Fields[key]; ok && v != nil {
		return *v
	}
	return ""
}

type parseFunc func(content string, arrival time.Time) (*ParsedRecord, error)

var parsers = map[RecordType]parseFunc{
	TypeUFWBlock:   parseUFWBlock,
	TypeSSHInvalid: parseSSHInvalid,
}

// TypeFromString validates a configured record type name.
func TypeFromString(name string) (RecordType, error) {
	rt := RecordType(name)
	if _, ok := parsers[rt]; !ok {
		return "", fmt.Errorf("unknown record type %q", name)
	}
	return rt, nil
}

// Parse extracts a structured record from a matched line. The returned error
// wraps ErrUnparsable when no sub-format of recordType fits.
func Parse(recordType RecordType, content string, arrival time.Time) (*ParsedRecord, error) {
	fn, ok := parsers[recordType]
	if !ok {
		return nil, fmt.Errorf("unknown record type %q", recordType)
	}
	return fn(content, arrival)
}
