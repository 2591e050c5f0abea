package ulogger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

var levels = []struct {
	name  string
	level zerolog.Level
	value int
}{
	{"DEBUG", zerolog.DebugLevel, LevelDebug},
	{"INFO", zerolog.InfoLevel, LevelInfo},
	{"WARN", zerolog.WarnLevel, LevelWarn},
	{"ERROR", zerolog.ErrorLevel, LevelError},
	{"FATAL", zerolog.FatalLevel, LevelFatal},
}

var levelColors = map[string]int{
	"debug": colorBlue,
	"info":  colorGreen,
	"warn":  colorYellow,
	"error": colorRed,
	"fatal": colorRed,
	"panic": colorRed,
}

// ZLoggerWrapper is the zerolog backed Logger. Each service gets its own instance
// sharing the parent's writer and format.
type ZLoggerWrapper struct {
	zerolog.Logger
	service string
	w       io.Writer
	pretty  bool
}

func NewZeroLogger(service string, options ...Option) *ZLoggerWrapper {
	if service == "" {
		service = "ritcoin"
	}

	opts := DefaultOptions()
	for _, o := range options {
		o(opts)
	}

	z := &ZLoggerWrapper{
		service: service,
		w:       opts.writer,
		pretty:  opts.pretty,
	}

	if opts.pretty {
		z.Logger = zerolog.New(consoleWriter(opts.writer, service)).With().Timestamp().Logger()
	} else {
		z.Logger = zerolog.New(opts.writer).With().Str("service", service).Timestamp().Logger()
	}

	z.SetLogLevel(opts.logLevel)

	return z
}

// consoleWriter renders "15:04:05 | INFO  | service   | message", colored only on a terminal.
func consoleWriter(writer io.Writer, service string) zerolog.ConsoleWriter {
	noColor := true
	if f, ok := writer.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		noColor = os.Getenv("NO_COLOR") != ""
	}

	return zerolog.ConsoleWriter{
		Out:        writer,
		NoColor:    noColor,
		TimeFormat: time.RFC3339,
		FormatTimestamp: func(i interface{}) string {
			s, _ := i.(string)
			if parsed, err := time.Parse(time.RFC3339, s); err == nil {
				return parsed.Format("15:04:05")
			}

			return s
		},
		FormatLevel: func(i interface{}) string {
			name, _ := i.(string)
			return "| " + colorize(strings.ToUpper(fmt.Sprintf("%-6s", name)), levelColors[name], noColor) + "|"
		},
		FormatMessage: func(i interface{}) string {
			return fmt.Sprintf("| %-10s| %v", colorize(service, colorBold, noColor), i)
		},
		FormatFieldName: func(i interface{}) string {
			return fmt.Sprintf("%s:", i)
		},
	}
}

func (z *ZLoggerWrapper) New(service string, options ...Option) Logger {
	inherited := []Option{
		WithWriter(z.w),
		WithPretty(z.pretty),
		WithLevel(strings.ToUpper(z.Logger.GetLevel().String())),
	}

	return NewZeroLogger(service, append(inherited, options...)...)
}

func (z *ZLoggerWrapper) Duplicate(options ...Option) Logger {
	return z.New(z.service, options...)
}

// SetLogLevel accepts DEBUG, INFO, WARN, ERROR or FATAL in any case; anything else means INFO.
func (z *ZLoggerWrapper) SetLogLevel(logLevel string) {
	level := zerolog.InfoLevel

	for _, l := range levels {
		if strings.EqualFold(l.name, logLevel) {
			level = l.level
			break
		}
	}

	z.Logger = z.Logger.Level(level)
}

func (z *ZLoggerWrapper) LogLevel() int {
	current := z.Logger.GetLevel()

	for _, l := range levels {
		if l.level == current {
			return l.value
		}
	}

	return LevelInfo
}

func (z *ZLoggerWrapper) Debugf(format string, args ...interface{}) {
	z.Logger.Debug().Msgf(format, args...)
}

func (z *ZLoggerWrapper) Infof(format string, args ...interface{}) {
	z.Logger.Info().Msgf(format, args...)
}

func (z *ZLoggerWrapper) Warnf(format string, args ...interface{}) {
	z.Logger.Warn().Msgf(format, args...)
}

func (z *ZLoggerWrapper) Errorf(format string, args ...interface{}) {
	z.Logger.Error().Msgf(format, args...)
}

func (z *ZLoggerWrapper) Fatalf(format string, args ...interface{}) {
	z.Logger.Fatal().Msgf(format, args...)
}

func colorize(s string, c int, disabled bool) string {
	if disabled || c == 0 {
		return s
	}

	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", c, s)
}
