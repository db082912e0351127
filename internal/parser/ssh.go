package parser

import (
	"fmt"
	"strings"
	"time"
)

// sshVariant describes one historical sshd message layout: the delimiter
// separating metadata from payload, and the payload token indexes for the
// destination port, source address and attempted username.
type sshVariant struct {
	delim string
	dpt   int
	src   int
	user  int
}

// Tried in order; the first variant whose delimiter and token layout fit
// wins. Order matters: these are distinct messages, not refinements.
var sshVariants = []sshVariant{
	// "... sshd[123]: Invalid user admin from 10.0.0.5 port 51515"
	{delim: ": Invalid user ", dpt: 4, src: 2, user: 0},
	// "... sshd[123]: Connection closed by authenticating user root 1.2.3.4 port 51234 [preauth]"
	{delim: ": Connection closed by authenticating user ", dpt: 3, src: 1, user: 0},
}

// parseSSHInvalid handles failed ssh authentication lines across their
// known message variants.
func parseSSHInvalid(content string, arrival time.Time) (*ParsedRecord, error) {
	for _, v := range sshVariants {
		meta, payload, err := splitRecord(content, v.delim, arrival)
		if err != nil {
			continue
		}

		toks := strings.Fields(payload)
		if v.dpt >= len(toks) {
			continue
		}

		dpt, src, user := toks[v.dpt], toks[v.src], toks[v.user]
		rec := &ParsedRecord{
			Type:      TypeSSHInvalid,
			Content:   content,
			Host:      meta.Host,
			EventTime: meta.EventTime,
			Arrival:   arrival,
			Fields: map[string]*string{
				"DPT":      &dpt,
				ipKey:      &src,
				"USERNAME": &user,
			},
			IP: src,
		}
		return rec, nil
	}
	return nil, fmt.Errorf("%w: no ssh variant matched %q", ErrUnparsable, content)
}
