package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Feed   FeedConfig   `mapstructure:"feed"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
}

// FeedConfig points at the upstream tick WebSocket. AuthJSON, when set, is
// sent verbatim right after the connection is established.
type FeedConfig struct {
	URL           string        `mapstructure:"url"`
	AuthJSON      string        `mapstructure:"auth_json"`
	ReconnectWait time.Duration `mapstructure:"reconnect_wait"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LogConfig defines the logger configuration options.
type LogConfig struct {
	Level       string `mapstructure:"level"`       // log level: "debug", "info", "warn", "error"
	Format      string `mapstructure:"format"`      // log format: "json" or "console"
	OutputFile  string `mapstructure:"output_file"` // file path to store logs (optional)
	Environment string `mapstructure:"environment"` // environment: "dev" or "prod"
}

// Load loads application configuration using Viper.
// It reads from config.yaml and overrides with environment variables
// (dot notation mapped to underscores, e.g. FEED_URL, SERVER_ADDR).
// A missing config file is fine: the feed URL may be absent entirely, in
// which case the server runs with no live feed.
func Load() *Config {
	v := viper.New()

	v.SetConfigName("config") // config.yaml
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Defaults double as env-var bindings for AutomaticEnv + Unmarshal.
	v.SetDefault("feed.url", "")
	v.SetDefault("feed.auth_json", "")
	v.SetDefault("feed.reconnect_wait", 3*time.Second)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output_file", "")
	v.SetDefault("log.environment", "prod")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			log.Fatalf("failed to read config: %v", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("failed to unmarshal config: %v", err)
	}

	return &cfg
}
