package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// EnvLevel names the environment variable that overrides the default level.
const EnvLevel = "DDFMT_LOG"

var (
	mu         sync.Mutex
	logger     zerolog.Logger
	loggerOnce sync.Once
)

// initLogger initializes the global logger to write compact lines to stderr.
func initLogger() {
	loggerOnce.Do(func() {
		minLevel := LevelInfo
		if env := os.Getenv(EnvLevel); env != "" {
			if l, err := ParseLevel(env); err == nil {
				minLevel = l
			}
		}
		logger = newLogger(os.Stderr, minLevel)
	})
}

func newLogger(w io.Writer, l Level) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	return zerolog.New(out).With().Timestamp().Logger().Level(zerologLevel(l))
}

// ParseLevel accepts level names case-insensitively ("debug", "INFO", ...).
func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToUpper(strings.TrimSpace(s))); l {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return l, nil
	case "WARNING":
		return LevelWarn, nil
	default:
		return "", fmt.Errorf("unknown log level %q", s)
	}
}

func SetLevel(l Level) {
	initLogger()
	mu.Lock()
	defer mu.Unlock()
	logger = logger.Level(zerologLevel(l))
}

// SetOutput redirects logging, keeping the current level. Used by tests.
func SetOutput(w io.Writer) {
	initLogger()
	mu.Lock()
	defer mu.Unlock()
	logger = newLogger(w, levelOf(logger.GetLevel()))
}

// DebugEnabled reports whether debug messages are written, for callers that
// would otherwise build large values for nothing.
func DebugEnabled() bool {
	initLogger()
	mu.Lock()
	defer mu.Unlock()
	return logger.GetLevel() <= zerolog.DebugLevel
}

func Debug(msg string, kv ...any) {
	logWithLevel(LevelDebug, msg, kv...)
}

func Info(msg string, kv ...any) {
	logWithLevel(LevelInfo, msg, kv...)
}

func Warn(msg string, kv ...any) {
	logWithLevel(LevelWarn, msg, kv...)
}

func Error(msg string, err error, kv ...any) {
	// Prepend error into key-value list.
	extended := append([]any{"err", err}, kv...)
	logWithLevel(LevelError, msg, extended...)
}

func logWithLevel(level Level, msg string, kv ...any) {
	initLogger()
	mu.Lock()
	l := logger
	mu.Unlock()

	ev := l.WithLevel(zerologLevel(level))
	if ev == nil {
		return
	}
	// Expect kv as pairs: key, value, key, value, ...
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, kvValue(kv[i+1]))
	}
	ev.Msg(msg)
}

// kvValue keeps errors and Stringers readable instead of marshaling them
// as empty objects.
func kvValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case error:
		return t.Error()
	case fmt.Stringer:
		return t.String()
	default:
		return v
	}
}

func zerologLevel(l Level) zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func levelOf(l zerolog.Level) Level {
	switch l {
	case zerolog.DebugLevel, zerolog.TraceLevel:
		return LevelDebug
	case zerolog.WarnLevel:
		return LevelWarn
	case zerolog.ErrorLevel:
		return LevelError
	default:
		return LevelInfo
	}
}
