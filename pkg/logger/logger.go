package logger

import (
	"fmt"
	"strings"

	charm "github.com/charmbracelet/log"

	errUtils "github.com/cloudposse/sketch/errors"
)

// LogLevel is the user-facing level name accepted in settings and flags.
type LogLevel string

const (
	LogLevelOff     LogLevel = "Off"
	LogLevelTrace   LogLevel = "Trace"
	LogLevelDebug   LogLevel = "Debug"
	LogLevelInfo    LogLevel = "Info"
	LogLevelWarning LogLevel = "Warning"
)

// TraceLevel sits one step below charm's Debug level.
const TraceLevel = charm.DebugLevel - 1

// Re-exported charm levels.
const (
	DebugLevel = charm.DebugLevel
	InfoLevel  = charm.InfoLevel
	WarnLevel  = charm.WarnLevel
	ErrorLevel = charm.ErrorLevel
	// offLevel is above every level a message is written at.
	offLevel = charm.FatalLevel + 1
)

// ParseLogLevel converts a level name to a LogLevel. An empty name means Info.
func ParseLogLevel(logLevel string) (LogLevel, error) {
	if logLevel == "" {
		return LogLevelInfo, nil
	}

	switch LogLevel(logLevel) {
	case LogLevelTrace, LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelOff:
		return LogLevel(logLevel), nil
	default:
		return "", fmt.Errorf("%w '%s'. Supported log levels are Trace, Debug, Info, Warning, Off",
			errUtils.ErrInvalidLogLevel, logLevel)
	}
}

// CharmLevel maps a LogLevel to the charm level that filters it.
func (l LogLevel) CharmLevel() charm.Level {
	switch l {
	case LogLevelTrace:
		return TraceLevel
	case LogLevelDebug:
		return DebugLevel
	case LogLevelInfo:
		return InfoLevel
	case LogLevelOff:
		return offLevel
	default:
		return WarnLevel
	}
}

// SketchLogger wraps a charm logger and adds the Trace level.
type SketchLogger struct {
	*charm.Logger
}

// NewSketchLogger wraps an existing charm logger.
func NewSketchLogger(l *charm.Logger) *SketchLogger {
	return &SketchLogger{Logger: l}
}

func (l *SketchLogger) Trace(msg any, keyvals ...any) {
	l.Log(TraceLevel, msg, keyvals...)
}

func (l *SketchLogger) Tracef(format string, args ...any) {
	l.Logf(TraceLevel, format, args...)
}

// GetLevelString returns the lowercase name of the current level, including "trace".
func (l *SketchLogger) GetLevelString() string {
	level := l.GetLevel()
	switch {
	case level == TraceLevel:
		return "trace"
	case level > charm.FatalLevel:
		return "off"
	default:
		return strings.ToLower(level.String())
	}
}
