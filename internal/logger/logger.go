package logger

import (
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/rs/zerolog"
)

type Logger interface {
	Log(msg string)
	Logf(format string, v ...any)

	Warn(msg string)
	Warnf(format string, v ...any)

	Debug(msg string)
	Debugf(format string, v ...any)

	Error(msg string)
	Errorf(format string, v ...any)
}

// ZeroLogger writes through zerolog. Debug output is enabled with DEBUG=true
// and SAFE_LOGS=true redacts URLs, which may carry feed API keys.
type ZeroLogger struct {
	logger   zerolog.Logger
	debug    bool
	safeLogs bool
}

var Default Logger = New(os.Stdout)

var urlPattern = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9+.-]*:\/\/[a-zA-Z0-9+%/.\-:_?&=#@+]+`)

func New(out io.Writer) *ZeroLogger {
	return &ZeroLogger{
		logger:   zerolog.New(zerolog.ConsoleWriter{Out: out}).With().Timestamp().Logger(),
		debug:    os.Getenv("DEBUG") == "true",
		safeLogs: os.Getenv("SAFE_LOGS") == "true",
	}
}

// With returns a logger tagging every line with component=name.
func (zl *ZeroLogger) With(component string) *ZeroLogger {
	return &ZeroLogger{
		logger:   zl.logger.With().Str("component", component).Logger(),
		debug:    zl.debug,
		safeLogs: zl.safeLogs,
	}
}

func (zl *ZeroLogger) clean(text string) string {
	if zl.safeLogs {
		return urlPattern.ReplaceAllString(text, "[redacted url]")
	}
	return text
}

func (zl *ZeroLogger) Log(msg string) {
	zl.logger.Info().Msg(zl.clean(msg))
}

func (zl *ZeroLogger) Logf(format string, v ...any) {
	zl.Log(fmt.Sprintf(format, v...))
}

func (zl *ZeroLogger) Warn(msg string) {
	zl.logger.Warn().Msg(zl.clean(msg))
}

func (zl *ZeroLogger) Warnf(format string, v ...any) {
	zl.Warn(fmt.Sprintf(format, v...))
}

func (zl *ZeroLogger) Debug(msg string) {
	if zl.debug {
		zl.logger.Debug().Msg(zl.clean(msg))
	}
}

func (zl *ZeroLogger) Debugf(format string, v ...any) {
	if zl.debug {
		zl.Debug(fmt.Sprintf(format, v...))
	}
}

func (zl *ZeroLogger) Error(msg string) {
	zl.logger.Error().Msg(zl.clean(msg))
}

func (zl *ZeroLogger) Errorf(format string, v ...any) {
	zl.Error(fmt.Sprintf(format, v...))
}

// Component returns Default tagged with a component name when possible.
func Component(name string) Logger {
	if zl, ok := Default.(*ZeroLogger); ok {
		return zl.With(name)
	}
	return Default
}
