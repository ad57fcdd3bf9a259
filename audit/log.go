package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Outcome classifies how an audited operation ended.
type Outcome string

const (
	OutcomeSuccess Outcome = "SUCCESS"
	OutcomeWarning Outcome = "WARNING"
	OutcomeFailure Outcome = "FAILURE"
	OutcomeDenied  Outcome = "DENIED"
)

// Event is one line of the audit trail, matching the JSONL schema: one
// JSON object per event with keys timestamp, eventType, outcome, user,
// source, details. ID is an additional correlation field, not part of the
// wire-compatibility surface.
type Event struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	EventType string         `json:"eventType"`
	Outcome   Outcome        `json:"outcome"`
	User      string         `json:"user"`
	Source    string         `json:"source"`
	Details   map[string]any `json:"details,omitempty"`
}

// Logger appends Events to an underlying io.Writer as newline-delimited
// JSON. It never seeks or rewrites; a line, once flushed, is permanent.
type Logger struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
}

// NewLogger wraps an already-open writer (e.g. an os.File opened for
// append, or a test buffer). The caller owns closing w.
func NewLogger(w io.Writer) *Logger {
	return &Logger{w: w}
}

// OpenFileLogger opens (creating if needed) path for append-only writing
// and returns a Logger backed by it. Close releases the file handle.
func OpenFileLogger(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, fmt.Errorf("audit: open %s: %w", path, err)
	}
	return &Logger{w: f, closer: f}, nil
}

// Log appends evt as one JSON line. Timestamp and ID are filled in when
// zero/empty so callers can construct an Event with just the fields they
// care about.
func (l *Logger) Log(evt Event) error {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}
	line, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("audit: marshal event: %w", err)
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, err = l.w.Write(line)
	return err
}

// Close releases the underlying file handle, if this Logger owns one.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// ReadAll parses every JSONL line from r into Events, in file order. It is
// meant for tests and offline audit review, not for the hot write path.
func ReadAll(r io.Reader) ([]Event, error) {
	var events []Event
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var evt Event
		if err := json.Unmarshal(line, &evt); err != nil {
			return nil, fmt.Errorf("audit: parse line: %w", err)
		}
		events = append(events, evt)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
