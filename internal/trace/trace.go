// Package trace provides structured tracing for the evaluator's
// scope-frame and procedure call lifecycle (SPEC_FULL.md §6.5). Errors
// are rendered by verror.FormatErrorWithContext, not here; this package
// only records an "error" event when the evaluator annotates one.
package trace

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Session manages trace event collection and output: stderr by default,
// or a size-rotated file sink when a trace file path is configured.
type Session struct {
	mu      sync.Mutex
	enabled atomic.Bool
	sink    io.Writer
	logger  *lumberjack.Logger
}

// Event is one structured trace record. Only the fields relevant to the
// event's Kind are populated.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"` // frame-push, frame-pop, call-enter, call-exit, capture-refresh, error
	Depth     int       `json:"depth,omitempty"`
	FrameIdx  int       `json:"frame_index,omitempty"`
	Procedure string    `json:"procedure,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// Global is the process-wide active session, set by Init. A nil Global
// (before Init is ever called) makes Emit a safe no-op, so callers never
// need to nil-check before emitting.
var Global *Session

// NewSession builds a session writing to an arbitrary sink, bypassing the
// stderr/lumberjack file selection Init performs — e.g. an in-memory
// buffer a test can inspect, or a consumer composing its own sink.
func NewSession(sink io.Writer) *Session {
	return &Session{sink: sink}
}

// Init creates the global session. An empty traceFile sends events to
// stderr; otherwise it is opened (and rotated) through lumberjack.
func Init(traceFile string, maxSizeMB int) {
	var sink io.Writer = os.Stderr
	var logger *lumberjack.Logger
	if traceFile != "" {
		logger = &lumberjack.Logger{
			Filename:   traceFile,
			MaxSize:    maxSizeMB,
			MaxBackups: 5,
			Compress:   true,
		}
		sink = logger
	}
	Global = &Session{sink: sink, logger: logger}
}

// Enable activates event emission.
func (s *Session) Enable() { s.enabled.Store(true) }

// Disable stops event emission.
func (s *Session) Disable() { s.enabled.Store(false) }

// IsEnabled reports whether tracing is currently active.
func (s *Session) IsEnabled() bool { return s != nil && s.enabled.Load() }

// Emit writes event as a JSON line if tracing is enabled. Safe to call
// on a nil Session.
func (s *Session) Emit(event Event) {
	if s == nil || !s.enabled.Load() {
		return
	}
	event.Timestamp = time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	enc := json.NewEncoder(s.sink)
	_ = enc.Encode(event)
}

// Close flushes and closes the rotating file sink, if any.
func (s *Session) Close() error {
	if s == nil || s.logger == nil {
		return nil
	}
	return s.logger.Close()
}
