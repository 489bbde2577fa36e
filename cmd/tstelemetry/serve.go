package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tstelemetry/server/internal/config"
	"github.com/tstelemetry/server/internal/plugin"
	"github.com/tstelemetry/server/pkg/scs"
)

func serve() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	game := newSimGame(nil)
	setupLogging(ctx, game.contextAttrs)
	defer closeLogging()
	game.logger = Logger

	p := plugin.New(plugin.Config{
		Network: config.GetNetworkConfig(),
		Queue:   config.GetQueueConfig(),
		Status:  config.GetStatusConfig(),
	}, Logger)

	Logger.Info("Starting up...", "version", Version, "build", BuildDate)
	if err := p.Init(scs.TelemetryVersion1_01, game.params()); err != nil {
		return err
	}
	defer p.Shutdown()

	game.run(ctx)
	Logger.Info("Shutting down", "frames", game.frames.Load())
	return nil
}
