package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"

	scierrors "github.com/YuminosukeSato/winequality/pkg/errors"
)

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

var global atomic.Pointer[loggerHolder]

type loggerHolder struct{ l Logger }

func init() {
	global.Store(&loggerHolder{l: NewZerologLogger(os.Stderr, LevelInfo)})
}

// GetLogger returns the process-wide logger.
func GetLogger() Logger {
	return global.Load().l
}

// SetLogger replaces the process-wide logger. A nil logger is ignored.
func SetLogger(l Logger) {
	if l == nil {
		return
	}
	global.Store(&loggerHolder{l: l})
}

// SetupLogger installs a zerolog JSON logger writing to w at the given level
// and routes library warnings through it.
func SetupLogger(loglevel string, w io.Writer) error {
	level, err := ToLogLevel(loglevel)
	if err != nil {
		return err
	}
	if w == nil {
		w = os.Stderr
	}
	l := NewZerologLogger(w, level)
	SetLogger(l)

	zl := l.zl
	scierrors.SetZerologWarnFunc(func(w error) {
		ev := zl.Warn()
		var m zerolog.LogObjectMarshaler
		if scierrors.As(w, &m) {
			ev = ev.EmbedObject(m)
		}
		ev.Msg(w.Error())
	})
	return nil
}

// ToLogLevel parses a level name ("debug", "info", "warn", "error").
func ToLogLevel(level string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, scierrors.NewValueError("SetupLogger", fmt.Sprintf("invalid log level %q", level))
	}
}

func toZerologLevel(l Level) zerolog.Level {
	switch {
	case l <= LevelDebug:
		return zerolog.DebugLevel
	case l <= LevelInfo:
		return zerolog.InfoLevel
	case l <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}
