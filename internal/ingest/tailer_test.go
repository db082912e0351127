package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func appendLines(t *testing.T, path string, lines ...string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("Failed to open log file: %v", err)
	}
	defer f.Close()
	for _, l := range lines {
		fmt.Fprintln(f, l)
	}
}

// Lines present before the tailer starts are never delivered; lines appended
// afterwards arrive in append order.
func TestFileTailer_SkipsExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	appendLines(t, path, "old line 1", "old line 2", "old line 3")

	tailer := NewFileTailer(path)
	lines, err := tailer.Start()
	if err != nil {
		t.Fatalf("Failed to start tailer: %v", err)
	}
	defer tailer.Stop()

	// Give the tailer time to open and seek before appending.
	time.Sleep(500 * time.Millisecond)
	appendLines(t, path, "new line 1", "new line 2")

	for _, want := range []string{"new line 1", "new line 2"} {
		select {
		case got := <-lines:
			if got.Content != want {
				t.Fatalf("Expected %q, got %q", want, got.Content)
			}
			if got.Source != path {
				t.Errorf("Expected source %q, got %q", path, got.Source)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("Timed out waiting for %q", want)
		}
	}

	// Nothing else pending: the pre-existing lines must not show up.
	select {
	case got := <-lines:
		t.Errorf("Unexpected extra line %q", got.Content)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestFileTailer_MissingFileFatal(t *testing.T) {
	tailer := NewFileTailer(filepath.Join(t.TempDir(), "absent.log"))
	if _, err := tailer.Start(); err == nil {
		t.Error("Expected error for missing file at open")
	}
}

func TestFileTailer_StopClosesChannel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	appendLines(t, path, "seed")

	tailer := NewFileTailer(path)
	lines, err := tailer.Start()
	if err != nil {
		t.Fatalf("Failed to start tailer: %v", err)
	}

	if err := tailer.Stop(); err != nil {
		t.Errorf("Stop returned error: %v", err)
	}

	select {
	case _, open := <-lines:
		if open {
			t.Error("Expected channel drained and closed after Stop")
		}
	case <-time.After(5 * time.Second):
		t.Error("Timed out waiting for channel close")
	}
}
