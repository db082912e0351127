package parser

import (
	"strings"
	"time"
)

const ufwDelim = " [UFW BLOCK] "

// ipKey is the payload field carrying the source address used for
// geolocation, for every record type currently known.
const ipKey = "SRC"

// parseUFWBlock handles kernel firewall block lines. The payload is a run of
// KEY=VALUE tokens; an empty VALUE is kept as a present-but-nil field and
// tokens without '=' are ignored.
func parseUFWBlock(content string, arrival time.Time) (*ParsedRecord, error) {
	meta, payload, err := splitRecord(content, ufwDelim, arrival)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]*string)
	for _, tok := range strings.Fields(payload) {
		key, val, ok := strings.Cut(tok, "=")
		if !ok || key == "" {
			continue
		}
		if val == "" {
			fields[key] = nil
			continue
		}
		v := val
		fields[key] = &v
	}

	rec := &ParsedRecord{
		Type:      TypeUFWBlock,
		Content:   content,
		Host:      meta.Host,
		EventTime: meta.EventTime,
		Arrival:   arrival,
		Fields:    fields,
	}
	rec.IP = rec.Field(ipKey)
	return rec, nil
}
