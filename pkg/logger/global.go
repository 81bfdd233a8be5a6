package logger

import (
	"os"
	"sync/atomic"

	charm "github.com/charmbracelet/log"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var defaultLogger atomic.Value

func init() {
	defaultLogger.Store(New())
}

// Default returns the process-wide logger.
func Default() *SketchLogger {
	return defaultLogger.Load().(*SketchLogger)
}

// SetDefault replaces the process-wide logger. A nil logger is ignored.
func SetDefault(logger *SketchLogger) {
	if logger != nil {
		defaultLogger.Store(logger)
	}
}

// New returns a stderr logger at Warning level, without timestamps.
func New() *SketchLogger {
	l := charm.NewWithOptions(os.Stderr, charm.Options{
		Level:           WarnLevel,
		ReportTimestamp: false,
	})
	styles := charm.DefaultStyles()
	styles.Levels[TraceLevel] = lipgloss.NewStyle().
		SetString("TRCE").
		Bold(true).
		MaxWidth(4).
		Foreground(lipgloss.Color("61"))
	l.SetStyles(styles)
	return NewSketchLogger(l)
}

func Trace(msg any, keyvals ...any) {
	Default().Trace(msg, keyvals...)
}

func Tracef(format string, args ...any) {
	Default().Tracef(format, args...)
}

func Debug(msg any, keyvals ...any) {
	Default().Debug(msg, keyvals...)
}

func Info(msg any, keyvals ...any) {
	Default().Info(msg, keyvals...)
}

func Warn(msg any, keyvals ...any) {
	Default().Warn(msg, keyvals...)
}

func Error(msg any, keyvals ...any) {
	Default().Error(msg, keyvals...)
}

// SetLevel sets the level of the process-wide logger.
func SetLevel(level LogLevel) {
	Default().SetLevel(level.CharmLevel())
}

// DisableColor strips colors from the process-wide logger and from lipgloss output.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
	Default().SetColorProfile(termenv.Ascii)
}
