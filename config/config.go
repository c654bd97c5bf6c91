// Package config loads nextappd's runtime configuration with Viper, the way
// teranos-QNTX's am package does: defaults, then a project config file
// (nextappd.toml, searched upward from the working directory), then
// environment variables, in increasing precedence.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/nextapp/nextappd/errors"
)

// Config is nextappd's full runtime configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Pubsub   PubsubConfig   `mapstructure:"pubsub"`
	LogLevel int            `mapstructure:"log_level"`
	LogJSON  bool           `mapstructure:"log_json"`
}

// ServerConfig configures the gRPC listener and graceful-shutdown behavior.
type ServerConfig struct {
	ListenAddr      string `mapstructure:"listen_addr" toml:"listen_addr"`
	ShutdownTimeout string `mapstructure:"shutdown_timeout" toml:"shutdown_timeout"`
}

// DatabaseConfig configures the SQLite datastore.
type DatabaseConfig struct {
	Path string `mapstructure:"path" toml:"path"`
}

// PubsubConfig configures subscription fan-out behavior.
type PubsubConfig struct {
	QueueDepth        int     `mapstructure:"queue_depth" toml:"queue_depth"`
	RateLimitPerSecond float64 `mapstructure:"rate_limit_per_second" toml:"rate_limit_per_second"`
	RateLimitBurst    int     `mapstructure:"rate_limit_burst" toml:"rate_limit_burst"`
}

const (
	DefaultListenAddr      = ":8877"
	DefaultShutdownTimeout = "30s"
	DefaultDBPath          = "nextappd.db"
	DefaultQueueDepth      = 64
)

var (
	globalConfig  *Config
	viperInstance *viper.Viper
)

// Load reads nextappd's configuration, caching the result for subsequent
// calls.
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v := initViper()
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal configuration")
	}

	globalConfig = &cfg
	return globalConfig, nil
}

// Reset clears the cached configuration; test code uses this to load a
// fresh config per test.
func Reset() {
	globalConfig = nil
	viperInstance = nil
}

func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()
	v.SetEnvPrefix("NEXTAPPD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path := findProjectConfig(); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		// A malformed project file isn't fatal; fall back to defaults+env.
		_ = v.MergeInConfig()
	}

	viperInstance = v
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.listen_addr", DefaultListenAddr)
	v.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)
	v.SetDefault("database.path", DefaultDBPath)
	v.SetDefault("pubsub.queue_depth", DefaultQueueDepth)
	v.SetDefault("pubsub.rate_limit_per_second", 0.0)
	v.SetDefault("pubsub.rate_limit_burst", 0)
	v.SetDefault("log_level", 1)
	v.SetDefault("log_json", false)
}
