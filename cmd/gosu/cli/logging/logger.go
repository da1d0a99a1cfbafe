// Package logging is the structured logger shared by every gosu command.
//
// Hook commands answer Claude Code on stdout, so nothing here ever writes
// there. A hook that knows its session calls Init, after which JSON records
// are appended to .gosu/logs/<session-id>.log under the repository root.
// Without a session log, records at WARN and above are printed to stderr as
// text.
//
//	if err := logging.Init(sessionID); err == nil {
//	    defer logging.Close()
//	}
//	ctx = logging.WithHook(logging.WithComponent(ctx, "hooks"), "guard")
//	logging.Debug(ctx, "decision made", slog.String("decision", "deny"))
package logging

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/paths"
	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/validation"
)

// LogLevelEnvVar overrides the log level from settings.
const LogLevelEnvVar = "GOSU_LOG_LEVEL"

const logBufferSize = 8 << 10

// sessionLog is the open log file of the current session.
type sessionLog struct {
	file *os.File
	buf  *bufio.Writer
}

func (s *sessionLog) Write(p []byte) (int, error) { return s.buf.Write(p) }

func (s *sessionLog) Close() error {
	flushErr := s.buf.Flush()
	if err := s.file.Close(); err != nil {
		return err //nolint:wrapcheck // surfaced only to Close callers that ignore it
	}
	return flushErr //nolint:wrapcheck // see above
}

var (
	// mu guards logger, out and sessionID.
	mu        sync.RWMutex
	logger    *slog.Logger
	out       io.Closer
	sessionID string

	levelFromSettings func() string

	stderrLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
)

// SetLogLevelGetter registers where the configured level comes from when
// GOSU_LOG_LEVEL is unset. Pass nil to clear it.
func SetLogLevelGetter(getter func() string) {
	mu.Lock()
	levelFromSettings = getter
	mu.Unlock()
}

// Init opens the session log for sessionID and routes every later record
// there. A log file that cannot be opened leaves records on stderr, at the
// configured level, and is not an error.
func Init(id string) error {
	if err := validation.ValidateSessionID(id); err != nil {
		return fmt.Errorf("invalid session ID for logging: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	closeLocked()

	raw := os.Getenv(LogLevelEnvVar)
	if raw == "" && levelFromSettings != nil {
		raw = levelFromSettings()
	}
	level, ok := lookupLevel(raw)
	if !ok {
		fmt.Fprintf(os.Stderr, "[gosu] Warning: invalid log level %q, defaulting to INFO\n", raw)
	}

	w, err := openSessionLog(id)
	if err != nil {
		logger = createLogger(os.Stderr, level)
		return nil
	}
	out = w
	logger = createLogger(w, level)
	sessionID = id
	return nil
}

func openSessionLog(id string) (*sessionLog, error) {
	dir := filepath.Join(paths.RepoRootOr("."), paths.LogsDir)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, id+".log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) //nolint:gosec // id is a validated session id
	if err != nil {
		return nil, fmt.Errorf("opening session log: %w", err)
	}
	return &sessionLog{file: f, buf: bufio.NewWriterSize(f, logBufferSize)}, nil
}

// Close flushes the session log and returns to stderr logging. It can be
// called any number of times.
func Close() {
	mu.Lock()
	closeLocked()
	logger = nil
	mu.Unlock()
}

func closeLocked() {
	if out != nil {
		_ = out.Close() //nolint:errcheck // nothing left to report the failure to
		out = nil
	}
	sessionID = ""
}

func current() (*slog.Logger, string) {
	mu.RLock()
	defer mu.RUnlock()
	if logger == nil {
		return stderrLogger, sessionID
	}
	return logger, sessionID
}

func createLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// lookupLevel maps a level name to a slog.Level. Unknown names give INFO
// and ok=false; the empty string is INFO and ok.
func lookupLevel(s string) (level slog.Level, ok bool) {
	name := strings.ToUpper(strings.TrimSpace(s))
	switch name {
	case "":
		return slog.LevelInfo, true
	case "WARNING":
		return slog.LevelWarn, true
	case "DEBUG", "INFO", "WARN", "ERROR":
		if err := level.UnmarshalText([]byte(name)); err == nil {
			return level, true
		}
	}
	return slog.LevelInfo, false
}

// Debug logs at DEBUG with the values carried by ctx.
func Debug(ctx context.Context, msg string, attrs ...any) {
	emit(ctx, slog.LevelDebug, msg, attrs)
}

// Info logs at INFO with the values carried by ctx.
func Info(ctx context.Context, msg string, attrs ...any) {
	emit(ctx, slog.LevelInfo, msg, attrs)
}

// Warn logs at WARN with the values carried by ctx.
func Warn(ctx context.Context, msg string, attrs ...any) {
	emit(ctx, slog.LevelWarn, msg, attrs)
}

// Error logs at ERROR with the values carried by ctx.
func Error(ctx context.Context, msg string, attrs ...any) {
	emit(ctx, slog.LevelError, msg, attrs)
}

// LogDuration logs msg with duration_ms measured from start.
//
//	defer logging.LogDuration(ctx, slog.LevelDebug, "hook completed", time.Now())
func LogDuration(ctx context.Context, level slog.Level, msg string, start time.Time, attrs ...any) {
	emit(ctx, level, msg, append([]any{slog.Int64("duration_ms", time.Since(start).Milliseconds())}, attrs...))
}

func emit(ctx context.Context, level slog.Level, msg string, attrs []any) {
	l, sid := current()
	if !l.Enabled(context.Background(), level) {
		return
	}

	args := make([]any, 0, len(attrs)+5)
	if sid != "" {
		args = append(args, slog.String("session_id", sid))
	}
	for _, a := range attrsFromContext(ctx, sid) {
		args = append(args, a)
	}
	args = append(args, attrs...)
	l.Log(context.Background(), level, msg, args...)
}

// attrsFromContext returns the values ctx carries as attributes. The
// context session id is left out when the session log already names one.
func attrsFromContext(ctx context.Context, logSessionID string) []slog.Attr {
	if ctx == nil {
		return nil
	}
	keys := []struct {
		key  contextKey
		name string
	}{
		{sessionIDKey, "session_id"},
		{componentKey, "component"},
		{hookKey, "hook"},
		{toolKey, "tool"},
	}

	var attrs []slog.Attr
	for _, k := range keys {
		if k.key == sessionIDKey && logSessionID != "" {
			continue
		}
		if s := stringValue(ctx, k.key); s != "" {
			attrs = append(attrs, slog.String(k.name, s))
		}
	}
	return attrs
}
