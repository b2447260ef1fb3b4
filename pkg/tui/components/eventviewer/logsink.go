package eventviewer

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// LogSink is an io.Writer for zerolog's JSON output. Log lines arrive from
// any goroutine and wait in a bounded queue until the UI loop drains them
// into the viewer.
type LogSink struct {
	mu      sync.Mutex
	pending []Entry
	limit   int
	dropped int
}

// NewLogSink returns a sink that keeps at most limit undrained entries,
// dropping the oldest.
func NewLogSink(limit int) *LogSink {
	if limit <= 0 {
		limit = 200
	}
	return &LogSink{limit: limit}
}

// Write implements io.Writer. Lines that are not JSON objects are ignored.
func (s *LogSink) Write(p []byte) (int, error) {
	var decoded []Entry
	for _, line := range bytes.Split(p, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		if e, ok := decodeLogLine(line); ok {
			decoded = append(decoded, e)
		}
	}
	if len(decoded) == 0 {
		return len(p), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, decoded...)
	if over := len(s.pending) - s.limit; over > 0 {
		s.pending = append([]Entry(nil), s.pending[over:]...)
		s.dropped += over
	}
	return len(p), nil
}

// Drain returns queued entries, oldest first, and empties the queue.
func (s *LogSink) Drain() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.pending
	s.pending = nil
	return out
}

// Dropped is the number of entries discarded because nobody drained them.
func (s *LogSink) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// reserved fields are rendered on their own; everything else becomes detail.
var reserved = map[string]bool{"level": true, "time": true, "message": true, "component": true, "error": true}

func decodeLogLine(line []byte) (Entry, bool) {
	var fields map[string]interface{}
	if err := json.Unmarshal(line, &fields); err != nil {
		return Entry{}, false
	}

	e := Entry{Source: "log", Level: levelFor(fields["level"])}
	if c, ok := fields["component"].(string); ok && c != "" {
		e.Source = "log:" + c
	}
	if msg, ok := fields["message"].(string); ok {
		e.Summary = msg
	}
	if ts, ok := fields["time"].(string); ok {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			e.Timestamp = t
		}
	}

	var detail []string
	if errText, ok := fields["error"].(string); ok && errText != "" {
		detail = append(detail, errText)
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if !reserved[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		detail = append(detail, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	e.Detail = strings.Join(detail, " ")
	return e, true
}

func levelFor(v interface{}) Level {
	s, _ := v.(string)
	switch s {
	case "warn":
		return LevelWarn
	case "error", "fatal", "panic":
		return LevelError
	default:
		return LevelInfo
	}
}
