package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// ServiceName identifies this process to the OTel and Graylog sinks.
const ServiceName = "tstelemetry"

// SlogManager manages slog-based logging with optional OTel and Graylog
// sinks.
type SlogManager struct {
	logger *slog.Logger

	logProvider *sdklog.LoggerProvider
	graylog     *gelf.Writer
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// SetupOption adds an optional sink or decoration to Setup.
type SetupOption func(*setupConfig)

type setupConfig struct {
	console     io.Writer
	graylogAddr string
	context     ContextProvider
}

// WithConsole overrides where console output goes when no file is given.
func WithConsole(w io.Writer) SetupOption {
	return func(c *setupConfig) { c.console = w }
}

// WithGraylog ships every record as a GELF message over UDP to addr.
func WithGraylog(addr string) SetupOption {
	return func(c *setupConfig) { c.graylogAddr = addr }
}

// WithContext stamps every record with the attributes p returns.
func WithContext(p ContextProvider) SetupOption {
	return func(c *setupConfig) { c.context = p }
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup initializes the logging system. Records go to file, or to the
// console when file is nil, plus the OTel provider if one is given.
// Setup may be called again; the previous Graylog connection is closed.
func (m *SlogManager) Setup(file io.Writer, level string, provider *sdklog.LoggerProvider, opts ...SetupOption) error {
	cfg := setupConfig{console: os.Stdout}
	for _, opt := range opts {
		opt(&cfg)
	}

	lvl := parseLevel(level)

	handlerOpts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	var handlers []slog.Handler

	if file != nil {
		handlers = append(handlers, slog.NewTextHandler(file, handlerOpts))
	} else if cfg.console != nil {
		handlers = append(handlers, slog.NewTextHandler(cfg.console, handlerOpts))
	}

	if provider != nil {
		handlers = append(handlers, otelslog.NewHandler(ServiceName, otelslog.WithLoggerProvider(provider)))
	}

	var graylog *gelf.Writer
	if cfg.graylogAddr != "" {
		w, err := gelf.NewWriter(cfg.graylogAddr)
		if err != nil {
			return fmt.Errorf("failed to connect to graylog at %s: %w", cfg.graylogAddr, err)
		}
		w.Facility = ServiceName
		graylog = w
		handlers = append(handlers, slog.NewTextHandler(w, handlerOpts))
	}

	var root slog.Handler = NewMultiHandler(handlers...)
	if cfg.context != nil {
		root = NewContextHandler(root, cfg.context)
	}

	if m.graylog != nil {
		_ = m.graylog.Close()
	}
	m.graylog = graylog
	m.logProvider = provider
	m.logger = slog.New(root)
	m.logger.Info("Logging initialized", "level", lvl.String(), "graylog", graylog != nil, "otel", provider != nil)
	return nil
}

// Logger returns the configured slog.Logger.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Flush forces a flush of OTel logs if available.
func (m *SlogManager) Flush(ctx context.Context) error {
	if m.logProvider != nil {
		return m.logProvider.ForceFlush(ctx)
	}
	return nil
}

// Close flushes pending records and releases the Graylog connection.
func (m *SlogManager) Close(ctx context.Context) error {
	err := m.Flush(ctx)
	if m.graylog != nil {
		err = errors.Join(err, m.graylog.Close())
		m.graylog = nil
	}
	return err
}
