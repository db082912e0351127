package parser

import (
	"fmt"
	"strings"
	"time"
)

// recordMeta is the syslog-style prefix shared by every record type:
// "Mon DD HH:MM:SS host ...".
type recordMeta struct {
	Host      string
	EventTime time.Time
}

// splitRecord cuts a line into its metadata prefix and type-specific payload
// at the first occurrence of delim. Absence of the delimiter means the line
// does not belong to the sub-format being tried.
func splitRecord(content, delim string, arrival time.Time) (recordMeta, string, error) {
	head, payload, found := strings.Cut(content, delim)
	if !found {
		return recordMeta{}, "", fmt.Errorf("%w: delimiter %q not found", ErrUnparsable, delim)
	}

	fields := strings.Fields(head)
	if len(fields) < 4 {
		return recordMeta{}, "", fmt.Errorf("%w: short metadata %q", ErrUnparsable, head)
	}

	ts, err := parseLogTime(fields[0], fields[1], fields[2], arrival)
	if err != nil {
		return recordMeta{}, "", fmt.Errorf("%w: %v", ErrUnparsable, err)
	}

	return recordMeta{Host: fields[3], EventTime: ts}, payload, nil
}

// parseLogTime rebuilds a calendar timestamp from the log's year-less
// month/day/time fields, assuming the current year. Records from a prior
// year parsed after a year boundary are misdated; that precision loss is
// accepted, no smarter inference is attempted.
func parseLogTime(month, day, clock string, arrival time.Time) (time.Time, error) {
	stamp := fmt.Sprintf("%d %s %s %s", arrival.Year(), month, day, clock)
	return time.ParseInLocation("2006 Jan 2 15:04:05", stamp, time.Local)
}
