package utilities

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employee-directory/internal"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type logger struct {
	sync.RWMutex
	zerolog.Logger
	writer io.Writer
	file   *os.File
	config struct {
		Level  Level
		Format string
		Output string
	}
}

type Level int

const (
	Error Level = 1
	Info  Level = 2
	Debug Level = 3
	Trace Level = 4
)

func (l Level) String() string {
	switch l {
	default:
		return ""
	case Error:
		return "error"
	case Info:
		return "info"
	case Debug:
		return "debug"
	case Trace:
		return "trace"
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	default:
		return zerolog.ErrorLevel
	case Info:
		return zerolog.InfoLevel
	case Debug:
		return zerolog.DebugLevel
	case Trace:
		return zerolog.TraceLevel
	}
}

type Logger interface {
	Error(ctx context.Context, format string, v ...any)
	Info(ctx context.Context, format string, v ...any)
	Debug(ctx context.Context, format string, v ...any)
	Trace(ctx context.Context, format string, v ...any)
}

// the level is filtered per logger, the global level would otherwise drop
// trace events
func init() {
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
}

func atoLogLevel(a string) Level {
	switch strings.ToLower(a) {
	default:
		return Error
	case "info":
		return Info
	case "debug":
		return Debug
	case "trace":
		return Trace
	}
}

// NewLogger creates a logger writing to stdout; an io.Writer parameter
// replaces the output (LOG_OUTPUT is then ignored).
func NewLogger(parameters ...any) interface {
	internal.Configurer
	internal.Closer
	Logger
} {
	l := &logger{}
	for _, p := range parameters {
		switch p := p.(type) {
		case io.Writer:
			l.writer = p
		}
	}
	l.config.Level = Error
	l.Logger = l.newLogger(os.Stdout)
	return l
}

func (l *logger) newLogger(w io.Writer) zerolog.Logger {
	if l.writer != nil {
		w = l.writer
	}
	if l.config.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}
	return zerolog.New(w).Level(l.config.Level.zerolog()).
		With().Timestamp().Logger()
}

func (l *logger) Configure(envs map[string]string) error {
	l.Lock()
	defer l.Unlock()

	l.config.Level = Error
	if logLevel, ok := envs["LOG_LEVEL"]; ok {
		l.config.Level = atoLogLevel(logLevel)
	}
	l.config.Format = "json"
	if logFormat, ok := envs["LOG_FORMAT"]; ok && logFormat != "" {
		l.config.Format = strings.ToLower(logFormat)
	}
	l.config.Output = "stdout"
	if logOutput, ok := envs["LOG_OUTPUT"]; ok && logOutput != "" {
		l.config.Output = logOutput
	}
	var w io.Writer
	switch l.config.Output {
	case "stdout":
		w = os.Stdout
	case "stderr":
		w = os.Stderr
	default:
		if l.writer != nil {
			break
		}
		file, err := os.OpenFile(l.config.Output,
			os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return errors.Wrapf(err, "unable to open log output %s", l.config.Output)
		}
		if l.file != nil {
			_ = l.file.Close()
		}
		l.file, w = file, file
	}
	l.Logger = l.newLogger(w)
	return nil
}

func (l *logger) Close(ctx context.Context) error {
	l.Lock()
	defer l.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func (l *logger) log(ctx context.Context, level zerolog.Level, format string, v ...any) {
	l.RLock()
	defer l.RUnlock()

	event := l.WithLevel(level)
	if correlationId := internal.CorrelationIdFromCtx(ctx); correlationId != "" {
		event = event.Str("correlation_id", correlationId)
	}
	event.Msgf(format, v...)
}

func (l *logger) Error(ctx context.Context, format string, v ...any) {
	l.log(ctx, zerolog.ErrorLevel, format, v...)
}

func (l *logger) Info(ctx context.Context, format string, v ...any) {
	l.log(ctx, zerolog.InfoLevel, format, v...)
}

func (l *logger) Debug(ctx context.Context, format string, v ...any) {
	l.log(ctx, zerolog.DebugLevel, format, v...)
}

func (l *logger) Trace(ctx context.Context, format string, v ...any) {
	l.log(ctx, zerolog.TraceLevel, format, v...)
}
