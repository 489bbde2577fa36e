package logging

import (
	"bytes"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tstelemetry/server/pkg/scs"
)

// gameWriter renders zerolog events as plain text lines and hands them to
// the engine's log callback.
type gameWriter struct {
	mu      sync.Mutex
	buf     bytes.Buffer
	console zerolog.ConsoleWriter
	log     scs.LogFunc
}

// NewGameLogger returns a logger that writes into the engine's own log at
// info level and above. A nil fn yields a disabled logger.
func NewGameLogger(fn scs.LogFunc) zerolog.Logger {
	if fn == nil {
		return zerolog.Nop()
	}
	w := &gameWriter{log: fn}
	w.console = zerolog.ConsoleWriter{
		Out:          &w.buf,
		NoColor:      true,
		PartsExclude: []string{zerolog.TimestampFieldName, zerolog.LevelFieldName},
	}
	return zerolog.New(w).Level(zerolog.InfoLevel)
}

func logType(level zerolog.Level) scs.LogType {
	switch {
	case level >= zerolog.ErrorLevel && level <= zerolog.PanicLevel:
		return scs.LogError
	case level == zerolog.WarnLevel:
		return scs.LogWarning
	default:
		return scs.LogMessage
	}
}

func (w *gameWriter) Write(p []byte) (int, error) {
	return w.WriteLevel(zerolog.NoLevel, p)
}

func (w *gameWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Reset()
	if _, err := w.console.Write(p); err != nil {
		return 0, err
	}
	w.log(logType(level), strings.TrimSpace(w.buf.String()))
	return len(p), nil
}

// DispatcherLogger lets the event dispatcher report into a zerolog logger,
// usually the game logger, so handler failures land in the engine's log.
type DispatcherLogger struct {
	logger zerolog.Logger
}

func NewDispatcherLogger(logger zerolog.Logger) *DispatcherLogger {
	return &DispatcherLogger{logger: logger}
}

func (l *DispatcherLogger) Debug(msg string, keysAndValues ...any) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l *DispatcherLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Info().Fields(keysAndValues).Msg(msg)
}

func (l *DispatcherLogger) Error(msg string, keysAndValues ...any) {
	l.logger.Error().Fields(keysAndValues).Msg(msg)
}
