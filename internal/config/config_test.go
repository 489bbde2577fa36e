package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tstelemetry/server/internal/network"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0644))
	return dir
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"logLevel": "debug",
		"network": { "mode": "udp", "port": 4000 }
	}`)

	require.NoError(t, Load(dir))

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, "udp", viper.GetString("network.mode"))
	assert.Equal(t, 4000, viper.GetInt("network.port"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{}`)))

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./tstelemetry-logs", viper.GetString("logsDir"))
	assert.Equal(t, "tcp", viper.GetString("network.mode"))
	assert.Equal(t, 3101, viper.GetInt("network.port"))
	assert.Equal(t, 8, viper.GetInt("network.maxSubscribers"))
	assert.Equal(t, "/telemetry", viper.GetString("network.wsPath"))
	assert.Equal(t, 1024, viper.GetInt("queue.maxEvents"))
	assert.Equal(t, false, viper.GetBool("status.enabled"))
	assert.Equal(t, "status.json", viper.GetString("status.file"))
	assert.Equal(t, false, viper.GetBool("graylog.enabled"))
	assert.Equal(t, "localhost:12201", viper.GetString("graylog.address"))
	assert.Equal(t, false, viper.GetBool("otel.enabled"))
	assert.Equal(t, "tstelemetry", viper.GetString("otel.serviceName"))
	assert.Equal(t, "5s", viper.GetString("otel.batchTimeout"))
	assert.Equal(t, "", viper.GetString("otel.endpoint"))
	assert.Equal(t, true, viper.GetBool("otel.insecure"))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load("/nonexistent/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")

	// Defaults still apply.
	assert.Equal(t, network.DefaultConfig(), GetNetworkConfig())
}

func TestGetString(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testKey", "testValue")
	assert.Equal(t, "testValue", GetString("testKey"))
}

func TestGetInt(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testInt", 42)
	assert.Equal(t, 42, GetInt("testInt"))
}

func TestGetBool(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testBool", true)
	assert.Equal(t, true, GetBool("testBool"))
}

func TestGetNetworkConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{}`)))

	cfg := GetNetworkConfig()
	assert.Equal(t, network.DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestGetNetworkConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{
		"network": {
			"mode": "WS",
			"host": "127.0.0.1",
			"port": 25555,
			"maxSubscribers": 2,
			"sendTimeout": "250ms",
			"outboxSize": 8,
			"idleSleep": "2ms",
			"readTimeout": "20ms",
			"clientTimeout": "1m",
			"timeoutCheckInterval": "10s",
			"wsPath": "/ws"
		}
	}`)))

	cfg := GetNetworkConfig()
	assert.Equal(t, network.Config{
		Mode:                 network.ModeWebSocket,
		Host:                 "127.0.0.1",
		Port:                 25555,
		MaxSubscribers:       2,
		SendTimeout:          250 * time.Millisecond,
		OutboxSize:           8,
		IdleSleep:            2 * time.Millisecond,
		ReadTimeout:          20 * time.Millisecond,
		ClientTimeout:        time.Minute,
		TimeoutCheckInterval: 10 * time.Second,
		WSPath:               "/ws",
	}, cfg)
}

func TestGetNetworkConfig_EnvOverride(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("TSTELEMETRY_NETWORK_MODE", "udp")
	t.Setenv("TSTELEMETRY_NETWORK_PORT", "4100")
	require.NoError(t, Load(writeConfig(t, `{"network": {"mode": "tcp"}}`)))

	cfg := GetNetworkConfig()
	assert.Equal(t, network.ModeUDP, cfg.Mode)
	assert.Equal(t, 4100, cfg.Port)
}

func TestGetQueueAndStatusConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{
		"queue": { "maxEvents": 16 },
		"status": { "enabled": true, "file": "/tmp/ts.json", "interval": "250ms" }
	}`)))

	assert.Equal(t, QueueConfig{MaxEvents: 16}, GetQueueConfig())
	assert.Equal(t, StatusConfig{Enabled: true, File: "/tmp/ts.json", Interval: 250 * time.Millisecond}, GetStatusConfig())
}

func TestGetGraylogConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{"graylog": {"enabled": true, "address": "gl:12201"}}`)))

	assert.Equal(t, GraylogConfig{Enabled: true, Address: "gl:12201"}, GetGraylogConfig())
}

func TestGetOTelConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{}`)))

	cfg := GetOTelConfig()
	assert.Equal(t, false, cfg.Enabled)
	assert.Equal(t, "tstelemetry", cfg.ServiceName)
	assert.Equal(t, 5*time.Second, cfg.BatchTimeout)
	assert.Equal(t, "", cfg.Endpoint)
	assert.Equal(t, true, cfg.Insecure)
}

func TestGetOTelConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{
		"otel": {
			"enabled": true,
			"serviceName": "my-service",
			"batchTimeout": "30s",
			"endpoint": "localhost:4318",
			"insecure": false
		}
	}`)))

	oc := GetOTelConfig()
	assert.Equal(t, true, oc.Enabled)
	assert.Equal(t, "my-service", oc.ServiceName)
	assert.Equal(t, 30*time.Second, oc.BatchTimeout)
	assert.Equal(t, "localhost:4318", oc.Endpoint)
	assert.Equal(t, false, oc.Insecure)
}
