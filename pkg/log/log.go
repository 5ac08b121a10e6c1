package log

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"log/slog"
)

// LoggerConfig is a minimal, convenient set of options.
type LoggerConfig struct {
	Version string

	// If Out is nil, stderr is used.
	Out io.Writer

	Level slog.Level
	JSON  bool // true => JSON output, false => text
}

// NewLogger creates a configured *slog.Logger and a shutdown func (no-op here).
// Call the shutdown func on process exit if you add async/file writers later.
func NewLogger(cfg LoggerConfig) (*slog.Logger, func() error, error) {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(
			out,
			&slog.HandlerOptions{Level: cfg.Level, AddSource: true})
	} else {
		handler = slog.NewTextHandler(
			out,
			&slog.HandlerOptions{Level: cfg.Level, AddSource: true})
	}

	hn, _ := os.Hostname()
	logger := slog.New(handler).With(
		slog.String("version", cfg.Version),
		slog.String("host", hn),
		slog.Int("pid", os.Getpid()),
	)

	// shutdown noop for now
	return logger, func() error { return nil }, nil
}

// nopHandler is a tiny no-op slog.Handler.
type nopHandler struct{}

func (n *nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (n *nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (n *nopHandler) WithAttrs(attrs []slog.Attr) slog.Handler  { return n }
func (n *nopHandler) WithGroup(name string) slog.Handler        { return n }

// NewNopLogger returns a logger that discards all log events.
func NewNopLogger() *slog.Logger {
	return slog.New(&nopHandler{})
}

var _ slog.Handler = (*nopHandler)(nil)

///////////////////////////////////////////////////////////////////////////////
// Context helpers
///////////////////////////////////////////////////////////////////////////////

type ctxKeyType struct{}

var ctxKey ctxKeyType

// ContextWithLogger stores lg on ctx.
func ContextWithLogger(ctx context.Context, lg *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey, lg)
}

// InContext reports whether ctx carries an explicitly attached logger.
func InContext(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	lg, ok := ctx.Value(ctxKey).(*slog.Logger)
	return ok && lg != nil
}

// FromContext returns logger from ctx or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	if v := ctx.Value(ctxKey); v != nil {
		if lg, ok := v.(*slog.Logger); ok && lg != nil {
			return lg
		}
	}
	return slog.Default()
}

///////////////////////////////////////////////////////////////////////////////
// Test handler (simple, thread-safe)
///////////////////////////////////////////////////////////////////////////////

type LoggedEntry struct {
	Time  time.Time
	Level slog.Level
	Msg   string
}

// testingT is a tiny subset of *testing.T used for optional logging.
type testingT interface {
	Logf(format string, args ...any)
}

// TestHandler captures structured entries for assertions.
type TestHandler struct {
	mu      sync.Mutex
	Entries []LoggedEntry
	Level   slog.Level
	T       testingT
}

func NewTestHandler(t testingT) *TestHandler {
	return &TestHandler{T: t}
}

func (h *TestHandler) Enabled(_ context.Context, l slog.Level) bool { return l >= h.Level }

func (h *TestHandler) Handle(_ context.Context, r slog.Record) error {
	e := LoggedEntry{Time: r.Time, Level: r.Level, Msg: r.Message}
	h.mu.Lock()
	h.Entries = append(h.Entries, e)
	h.mu.Unlock()

	if h.T != nil {
		h.T.Logf("LOG %s %v", e.Msg, e.Level)
	}
	return nil
}

func (h *TestHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }
func (h *TestHandler) WithGroup(_ string) slog.Handler      { return h }

// NewTestLogger returns a logger that writes to a TestHandler (and the
// handler). Records below level are dropped.
func NewTestLogger(t testingT, level slog.Level) (*slog.Logger, *TestHandler) {
	th := NewTestHandler(t)
	th.Level = level
	logger := slog.New(th)
	return logger, th
}

// FindEntries copies entries that match pred.
func FindEntries(th *TestHandler, pred func(LoggedEntry) bool) []LoggedEntry {
	th.mu.Lock()
	entries := append([]LoggedEntry(nil), th.Entries...)
	th.mu.Unlock()

	out := make([]LoggedEntry, 0)
	for _, e := range entries {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}

var _ slog.Handler = (*TestHandler)(nil)
