// Package config loads tstelemetry.cfg.json through viper and exposes typed
// views of it.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tstelemetry/server/internal/network"
	"github.com/tstelemetry/server/internal/otel"
)

// FileName is the configuration file looked up in the config directory.
const FileName = "tstelemetry.cfg.json"

// EnvPrefix prefixes environment overrides, e.g. TSTELEMETRY_NETWORK_MODE.
const EnvPrefix = "TSTELEMETRY"

// QueueConfig holds event queue settings
type QueueConfig struct {
	MaxEvents int `json:"maxEvents" mapstructure:"maxEvents"`
}

// StatusConfig holds status monitor settings
type StatusConfig struct {
	Enabled  bool          `json:"enabled" mapstructure:"enabled"`
	File     string        `json:"file" mapstructure:"file"`
	Interval time.Duration `json:"interval" mapstructure:"interval"`
}

// GraylogConfig holds GELF sink settings
type GraylogConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Address string `json:"address" mapstructure:"address"`
}

// SetDefaults registers the default for every known key.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./tstelemetry-logs")

	net := network.DefaultConfig()
	viper.SetDefault("network.mode", string(net.Mode))
	viper.SetDefault("network.host", net.Host)
	viper.SetDefault("network.port", net.Port)
	viper.SetDefault("network.maxSubscribers", net.MaxSubscribers)
	viper.SetDefault("network.sendTimeout", net.SendTimeout)
	viper.SetDefault("network.outboxSize", net.OutboxSize)
	viper.SetDefault("network.idleSleep", net.IdleSleep)
	viper.SetDefault("network.readTimeout", net.ReadTimeout)
	viper.SetDefault("network.clientTimeout", net.ClientTimeout)
	viper.SetDefault("network.timeoutCheckInterval", net.TimeoutCheckInterval)
	viper.SetDefault("network.wsPath", net.WSPath)

	viper.SetDefault("queue.maxEvents", 1024)

	viper.SetDefault("status.enabled", false)
	viper.SetDefault("status.file", "status.json")
	viper.SetDefault("status.interval", time.Second)

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "tstelemetry")
	viper.SetDefault("otel.batchTimeout", 5*time.Second)
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file. Defaults stay in
// effect when the file is missing; the error says so.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetNetworkConfig returns the network engine settings. Values are read
// key by key so environment overrides apply.
func GetNetworkConfig() network.Config {
	return network.Config{
		Mode:                 network.Mode(strings.ToLower(viper.GetString("network.mode"))),
		Host:                 viper.GetString("network.host"),
		Port:                 viper.GetInt("network.port"),
		MaxSubscribers:       viper.GetInt("network.maxSubscribers"),
		SendTimeout:          viper.GetDuration("network.sendTimeout"),
		OutboxSize:           viper.GetInt("network.outboxSize"),
		IdleSleep:            viper.GetDuration("network.idleSleep"),
		ReadTimeout:          viper.GetDuration("network.readTimeout"),
		ClientTimeout:        viper.GetDuration("network.clientTimeout"),
		TimeoutCheckInterval: viper.GetDuration("network.timeoutCheckInterval"),
		WSPath:               viper.GetString("network.wsPath"),
	}
}

// GetQueueConfig returns the event queue settings.
func GetQueueConfig() QueueConfig {
	return QueueConfig{MaxEvents: viper.GetInt("queue.maxEvents")}
}

// GetStatusConfig returns the status monitor settings.
func GetStatusConfig() StatusConfig {
	return StatusConfig{
		Enabled:  viper.GetBool("status.enabled"),
		File:     viper.GetString("status.file"),
		Interval: viper.GetDuration("status.interval"),
	}
}

// GetGraylogConfig returns the GELF sink settings.
func GetGraylogConfig() GraylogConfig {
	return GraylogConfig{
		Enabled: viper.GetBool("graylog.enabled"),
		Address: viper.GetString("graylog.address"),
	}
}

// GetOTelConfig returns the OTel settings. The caller supplies LogWriter.
func GetOTelConfig() otel.Config {
	return otel.Config{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}
