package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/tstelemetry/server/internal/config"
	"github.com/tstelemetry/server/internal/logging"
	intOtel "github.com/tstelemetry/server/internal/otel"
)

const ExtensionName = "tstelemetry"

var (
	// Version and BuildDate are set at link time.
	Version   = "dev"
	BuildDate = "unknown"

	SessionStartTime = time.Now()

	SlogManager  *logging.SlogManager
	Logger       *slog.Logger
	OTelProvider *intOtel.Provider
	LogFile      *os.File
)

const usage = `usage: tstelemetry <command> [args]

commands:
  serve               serve telemetry from a simulated game session
  listen MODE [ADDR]  print what a running server publishes (MODE: tcp, udp, ws)
  version             print the build version
`

// setupLogging loads the config and builds the process loggers. Every
// failure past the console logger is downgraded to a warning.
func setupLogging(ctx context.Context, contextAttrs logging.ContextProvider) {
	SlogManager = logging.NewSlogManager()
	_ = SlogManager.Setup(nil, "info", nil, logging.WithConsole(os.Stderr))
	Logger = SlogManager.Logger()

	configDir := os.Getenv("TSTELEMETRY_CONFIG_DIR")
	if configDir == "" {
		configDir = "."
	}
	if err := config.Load(configDir); err != nil {
		Logger.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		Logger.Info("Loaded config", "dir", configDir)
	}

	var err error
	LogFile, err = logging.OpenLogFile(config.GetString("logsDir"), ExtensionName, SessionStartTime)
	if err != nil {
		Logger.Error("Failed to create/open log file!", "error", err)
	}

	otelCfg := config.GetOTelConfig()
	otelCfg.ServiceVersion = Version
	if LogFile != nil {
		otelCfg.LogWriter = LogFile
	}
	OTelProvider, err = intOtel.New(ctx, otelCfg)
	if err != nil {
		Logger.Error("Failed to initialize OTel provider", "error", err)
		OTelProvider, _ = intOtel.New(ctx, intOtel.Config{})
	}

	var out io.Writer = os.Stderr
	if LogFile != nil {
		out = io.MultiWriter(os.Stderr, LogFile)
	}
	opts := []logging.SetupOption{}
	if contextAttrs != nil {
		opts = append(opts, logging.WithContext(contextAttrs))
	}
	if gl := config.GetGraylogConfig(); gl.Enabled {
		opts = append(opts, logging.WithGraylog(gl.Address))
	}
	if err := SlogManager.Setup(out, config.GetString("logLevel"), OTelProvider.LoggerProvider(), opts...); err != nil {
		Logger.Warn("Logging sink unavailable, continuing without it", "error", err)
		_ = SlogManager.Setup(out, config.GetString("logLevel"), OTelProvider.LoggerProvider())
	}
	Logger = SlogManager.Logger()
	if LogFile != nil {
		Logger.Info("Logging to file", "path", LogFile.Name())
	}
}

func closeLogging() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := SlogManager.Close(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "failed to flush logs:", err)
	}
	if err := OTelProvider.Shutdown(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "failed to shut down OTel:", err)
	}
	if LogFile != nil {
		_ = LogFile.Close()
	}
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch strings.ToLower(args[0]) {
	case "serve":
		err = serve()
	case "listen":
		err = listen(args[1:])
	case "version":
		fmt.Println(ExtensionName, Version, BuildDate)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "tstelemetry:", err)
		os.Exit(1)
	}
}
