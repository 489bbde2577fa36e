package network

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Mode selects the subscriber topology of a deployment.
type Mode string

const (
	// ModeTCP pushes every payload to up to MaxSubscribers stream clients.
	ModeTCP Mode = "tcp"
	// ModeUDP serves a single datagram peer that pulls frames on request.
	ModeUDP Mode = "udp"
	// ModeWebSocket is ModeTCP over WebSocket text messages.
	ModeWebSocket Mode = "ws"
)

// Pushes reports whether the mode sends payloads without being asked.
func (m Mode) Pushes() bool {
	return m == ModeTCP || m == ModeWebSocket
}

// Config holds network engine settings
type Config struct {
	Mode                 Mode          `json:"mode" mapstructure:"mode"`
	Host                 string        `json:"host" mapstructure:"host"`
	Port                 int           `json:"port" mapstructure:"port"`
	MaxSubscribers       int           `json:"maxSubscribers" mapstructure:"maxSubscribers"`
	SendTimeout          time.Duration `json:"sendTimeout" mapstructure:"sendTimeout"`
	OutboxSize           int           `json:"outboxSize" mapstructure:"outboxSize"`
	IdleSleep            time.Duration `json:"idleSleep" mapstructure:"idleSleep"`
	ReadTimeout          time.Duration `json:"readTimeout" mapstructure:"readTimeout"`
	ClientTimeout        time.Duration `json:"clientTimeout" mapstructure:"clientTimeout"`
	TimeoutCheckInterval time.Duration `json:"timeoutCheckInterval" mapstructure:"timeoutCheckInterval"`
	WSPath               string        `json:"wsPath" mapstructure:"wsPath"`
}

// Defaults used when a value is left unset.
const (
	DefaultPort                 = 3101
	DefaultMaxSubscribers       = 8
	DefaultSendTimeout          = 5 * time.Second
	DefaultOutboxSize           = 64
	DefaultIdleSleep            = time.Millisecond
	DefaultReadTimeout          = 10 * time.Millisecond
	DefaultClientTimeout        = 30 * time.Second
	DefaultTimeoutCheckInterval = 5 * time.Second
	DefaultWSPath               = "/telemetry"
)

// DefaultConfig returns the stock TCP configuration.
func DefaultConfig() Config {
	return Config{
		Mode:                 ModeTCP,
		Port:                 DefaultPort,
		MaxSubscribers:       DefaultMaxSubscribers,
		SendTimeout:          DefaultSendTimeout,
		OutboxSize:           DefaultOutboxSize,
		IdleSleep:            DefaultIdleSleep,
		ReadTimeout:          DefaultReadTimeout,
		ClientTimeout:        DefaultClientTimeout,
		TimeoutCheckInterval: DefaultTimeoutCheckInterval,
		WSPath:               DefaultWSPath,
	}
}

// withDefaults fills zero durations and sizes.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SendTimeout <= 0 {
		c.SendTimeout = d.SendTimeout
	}
	if c.OutboxSize <= 0 {
		c.OutboxSize = d.OutboxSize
	}
	if c.IdleSleep <= 0 {
		c.IdleSleep = d.IdleSleep
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.ClientTimeout <= 0 {
		c.ClientTimeout = d.ClientTimeout
	}
	if c.TimeoutCheckInterval <= 0 {
		c.TimeoutCheckInterval = d.TimeoutCheckInterval
	}
	if c.WSPath == "" {
		c.WSPath = d.WSPath
	}
	return c
}

// Validate checks the settings that have no sensible fallback.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeTCP, ModeUDP, ModeWebSocket:
	default:
		return fmt.Errorf("unknown network mode %q", c.Mode)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Mode.Pushes() && c.MaxSubscribers <= 0 {
		return fmt.Errorf("maxSubscribers must be positive, got %d", c.MaxSubscribers)
	}
	if c.Mode == ModeWebSocket && c.WSPath != "" && !strings.HasPrefix(c.WSPath, "/") {
		return fmt.Errorf("wsPath must start with /, got %q", c.WSPath)
	}
	return nil
}

// Address returns the host:port to bind.
func (c Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
