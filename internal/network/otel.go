package network

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/tstelemetry/server/internal/network"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

type instruments struct {
	sent        metric.Int64Counter
	subscribers metric.Int64UpDownCounter
	dropped     metric.Int64Counter
	requests    metric.Int64Counter
}

func newInstruments() (*instruments, error) {
	m := meter()
	var (
		in  instruments
		err error
	)

	in.sent, err = m.Int64Counter(
		"tstelemetry.network.messages.sent",
		metric.WithDescription("Payloads handed to subscribers"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sent counter: %w", err)
	}

	in.subscribers, err = m.Int64UpDownCounter(
		"tstelemetry.network.subscribers",
		metric.WithDescription("Currently connected subscribers"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating subscribers counter: %w", err)
	}

	in.dropped, err = m.Int64Counter(
		"tstelemetry.network.subscribers.dropped",
		metric.WithDescription("Subscribers removed or rejected"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dropped counter: %w", err)
	}

	in.requests, err = m.Int64Counter(
		"tstelemetry.network.requests",
		metric.WithDescription("Datagram requests received"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating requests counter: %w", err)
	}

	return &in, nil
}
