// Package monitor provides per-mod logging on top of log/slog.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/zyedidia/generic/mapset"
)

// Monitor encapsulates logging for a single mod. It is only used from the host
// tick thread, so the once-only set needs no locking.
type Monitor struct {
	logger *slog.Logger
	once   mapset.Set[string]
}

// New creates a monitor that tags every record with the mod's unique ID.
// A nil logger falls back to slog.Default().
func New(logger *slog.Logger, modID string) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	if modID != "" {
		logger = logger.With("mod", modID)
	}
	return &Monitor{
		logger: logger,
		once:   mapset.New[string](),
	}
}

// Discard returns a monitor that drops everything. Handy in tests.
func Discard() *Monitor {
	return New(slog.New(discardHandler{}), "")
}

// Logger returns the underlying structured logger.
func (m *Monitor) Logger() *slog.Logger {
	return m.logger
}

// Log writes a message at the given level.
func (m *Monitor) Log(level slog.Level, msg string, args ...any) {
	m.logger.Log(context.Background(), level, msg, args...)
}

// Debug logs at debug level.
func (m *Monitor) Debug(msg string, args ...any) { m.Log(slog.LevelDebug, msg, args...) }

// Info logs at info level.
func (m *Monitor) Info(msg string, args ...any) { m.Log(slog.LevelInfo, msg, args...) }

// Warn logs at warn level.
func (m *Monitor) Warn(msg string, args ...any) { m.Log(slog.LevelWarn, msg, args...) }

// Error logs at error level.
func (m *Monitor) Error(msg string, args ...any) { m.Log(slog.LevelError, msg, args...) }

// LogOnce logs msg only the first time this exact text is seen by the monitor.
// Attributes are not part of the key, so callers should keep per-tick details
// (positions, counters) out of msg.
func (m *Monitor) LogOnce(level slog.Level, msg string, args ...any) bool {
	if m.once.Has(msg) {
		return false
	}
	m.once.Put(msg)
	m.Log(level, msg, args...)
	return true
}

// InterceptErrors runs fn and recovers any panic, logging it as an error
// against the given verb ("handling your input"). Returns false if fn panicked.
func (m *Monitor) InterceptErrors(verb string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			m.Error(fmt.Sprintf("Something went wrong %s.", verb), "panic", r, "stack", string(debug.Stack()))
			ok = false
		}
	}()
	fn()
	return true
}

// Recover converts a panic from fn into an error, for integration boundaries
// that treat failures as "no data".
func Recover(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }
