package network

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"udp", func(c *Config) { c.Mode = ModeUDP }, false},
		{"ws", func(c *Config) { c.Mode = ModeWebSocket }, false},
		{"unknown mode", func(c *Config) { c.Mode = "serial" }, true},
		{"empty mode", func(c *Config) { c.Mode = "" }, true},
		{"negative port", func(c *Config) { c.Port = -1 }, true},
		{"port too big", func(c *Config) { c.Port = 65536 }, true},
		{"ephemeral port", func(c *Config) { c.Port = 0 }, false},
		{"no subscribers", func(c *Config) { c.MaxSubscribers = 0 }, true},
		{"udp ignores subscriber cap", func(c *Config) { c.Mode = ModeUDP; c.MaxSubscribers = 0 }, false},
		{"ws path without slash", func(c *Config) { c.Mode = ModeWebSocket; c.WSPath = "telemetry" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{Mode: ModeUDP, SendTimeout: time.Second}.withDefaults()
	assert.Equal(t, time.Second, cfg.SendTimeout)
	assert.Equal(t, DefaultReadTimeout, cfg.ReadTimeout)
	assert.Equal(t, DefaultClientTimeout, cfg.ClientTimeout)
	assert.Equal(t, DefaultTimeoutCheckInterval, cfg.TimeoutCheckInterval)
	assert.Equal(t, DefaultOutboxSize, cfg.OutboxSize)
	assert.Equal(t, DefaultWSPath, cfg.WSPath)
}

func TestConfigAddress(t *testing.T) {
	assert.Equal(t, ":3101", DefaultConfig().Address())
	assert.Equal(t, "127.0.0.1:9000", Config{Host: "127.0.0.1", Port: 9000}.Address())
	assert.Equal(t, "[::1]:9000", Config{Host: "::1", Port: 9000}.Address())
}

func TestModePushes(t *testing.T) {
	assert.True(t, ModeTCP.Pushes())
	assert.True(t, ModeWebSocket.Pushes())
	assert.False(t, ModeUDP.Pushes())
}
