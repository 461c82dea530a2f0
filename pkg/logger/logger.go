package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is a thin structured logger over zerolog.
type Logger struct {
	zl zerolog.Logger
}

type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json or console
	Output     string // stdout, stderr, or file path
	TimeFormat string
}

func New(cfg *Config) (*Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	var output io.Writer
	switch cfg.Output {
	case "", "stdout":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		file, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("could not open log file: %w", err)
		}
		output = file
	}

	timeFormat := cfg.TimeFormat
	if timeFormat == "" {
		timeFormat = time.RFC3339Nano
	}
	zerolog.TimeFieldFormat = timeFormat

	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: timeFormat}
	}

	return NewWithWriter(output, level), nil
}

// NewWithWriter builds a JSON logger on w, mostly for tests.
func NewWithWriter(w io.Writer, level zerolog.Level) *Logger {
	zl := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// With returns a child logger carrying fields on every entry.
func (l *Logger) With(fields ...Field) *Logger {
	ctx := l.zl.With()
	for _, f := range fields {
		ctx = ctx.Interface(f.key, f.value)
	}
	return &Logger{zl: ctx.Logger()}
}

func (l *Logger) Debug(msg string, fields ...Field) { l.emit(l.zl.Debug(), msg, fields) }
func (l *Logger) Info(msg string, fields ...Field)  { l.emit(l.zl.Info(), msg, fields) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.emit(l.zl.Warn(), msg, fields) }
func (l *Logger) Error(msg string, fields ...Field) { l.emit(l.zl.Error(), msg, fields) }

func (l *Logger) emit(ev *zerolog.Event, msg string, fields []Field) {
	if ev == nil {
		return
	}
	for _, f := range fields {
		f.addTo(ev)
	}
	ev.Msg(msg)
}

// Field is a typed key/value pair.
type Field struct {
	key   string
	value interface{}
	kind  fieldKind
}

type fieldKind uint8

const (
	kindAny fieldKind = iota
	kindString
	kindInt
	kindFloat
	kindBool
	kindErr
)

func (f Field) addTo(ev *zerolog.Event) {
	switch f.kind {
	case kindString:
		ev.Str(f.key, f.value.(string))
	case kindInt:
		ev.Int(f.key, f.value.(int))
	case kindFloat:
		ev.Float64(f.key, f.value.(float64))
	case kindBool:
		ev.Bool(f.key, f.value.(bool))
	case kindErr:
		if err, ok := f.value.(error); ok {
			ev.Err(err)
		}
	default:
		ev.Interface(f.key, f.value)
	}
}

func String(key, value string) Field   { return Field{key: key, value: value, kind: kindString} }
func Int(key string, value int) Field  { return Field{key: key, value: value, kind: kindInt} }
func Float64(key string, v float64) Field {
	return Field{key: key, value: v, kind: kindFloat}
}
func Bool(key string, value bool) Field { return Field{key: key, value: value, kind: kindBool} }
func Any(key string, value interface{}) Field {
	return Field{key: key, value: value, kind: kindAny}
}
func Error(err error) Field { return Field{key: "error", value: err, kind: kindErr} }

// Duration logs d in milliseconds.
func Duration(key string, d time.Duration) Field {
	return Int(key, int(d/time.Millisecond))
}

func Strings(key string, value []string) Field {
	return String(key, strings.Join(value, ", "))
}
