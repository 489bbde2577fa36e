package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/tstelemetry/server/internal/client"
	"github.com/tstelemetry/server/internal/config"
	"github.com/tstelemetry/server/internal/network"
	"github.com/tstelemetry/server/pkg/wire"
)

// listen prints every message a running server publishes, one per line.
func listen(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	setupLogging(ctx, nil)
	defer closeLogging()

	cfg := config.GetNetworkConfig()
	mode := cfg.Mode
	if len(args) > 0 {
		mode = network.Mode(strings.ToLower(args[0]))
	}
	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(cfg.Port))
	if len(args) > 1 {
		addr = args[1]
	}

	Logger.Info("Listening", "mode", mode, "address", addr)
	return client.Listen(ctx, mode, addr, func(env wire.Envelope) {
		fmt.Printf("%s %s\n", env.PayloadType, env.Payload)
	}, client.Options{Logger: Logger, WSPath: cfg.WSPath})
}
