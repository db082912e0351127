package ingest

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/nxadm/tail"
)

// LogLine represents a raw line from a log source
type LogLine struct {
	Source    string
	Timestamp time.Time // wall clock arrival
	Content   string
}

// Ingester defines the interface for log sources
type Ingester interface {
	Start() (<-chan LogLine, error)
	Stop() error
}

// FileTailer implements Ingester for a single growing file. Tailing starts at
// the current end of file, so content already present is never delivered.
// When the file is rotated the handle is reopened on the same path; lines
// written to the rotated-away file between exhaustion and reopen can be
// skipped. That loss window is accepted rather than papered over with
// rotation heuristics.
type FileTailer struct {
	path string
	t    *tail.Tail
}

// NewFileTailer creates a new tailer for a path
func NewFileTailer(path string) *FileTailer {
	return &FileTailer{
		path: path,
	}
}

// Start begins tailing the file and returns a channel of lines. A missing
// path is a startup error; after that, read failures are retried by the
// poll loop and never close the channel.
func (f *FileTailer) Start() (<-chan LogLine, error) {
	config := tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		Poll:      true, // fixed-interval polling, works on all filesystems
		Location:  &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
		Logger:    tail.DiscardingLogger,
	}

	log.Printf("[INGEST] Tailing %s from end of file", f.path)

	t, err := tail.TailFile(f.path, config)
	if err != nil {
		return nil, fmt.Errorf("failed to tail file %s: %w", f.path, err)
	}
	f.t = t

	out := make(chan LogLine)

	go func() {
		defer close(out)
		for line := range t.Lines {
			if line.Err != nil {
				// Transient read error; the library retries, we just skip.
				continue
			}
			out <- LogLine{
				Source:    f.path,
				Timestamp: line.Time,
				Content:   line.Text,
			}
		}
	}()

	return out, nil
}

// Stop stops the tailing
func (f *FileTailer) Stop() error {
	if f.t != nil {
		return f.t.Stop()
	}
	return nil
}
