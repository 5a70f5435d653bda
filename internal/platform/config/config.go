package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	Port      string `env:"PORT" default:"8080"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL" default:"10s"`
	PublishTimeout    time.Duration `env:"PUBLISH_TIMEOUT" default:"2s"`

	CORSAllowOrigins   string `env:"CORS_ALLOW_ORIGINS" default:"*"`
	RateLimitPerSecond int    `env:"RATE_LIMIT_PER_SECOND" default:"20"`
	RateLimitBurst     int    `env:"RATE_LIMIT_BURST" default:"40"`

	// Optional mirrors. Empty URLs disable them.
	RedisURL           string `env:"REDIS_URL"`
	RedisChannelPrefix string `env:"REDIS_CHANNEL_PREFIX" default:"statuspulse"`
	MQTTBrokerURL      string `env:"MQTT_BROKER_URL"`
	MQTTClientID       string `env:"MQTT_CLIENT_ID" default:"statuspulse"`
	MQTTTopicPrefix    string `env:"MQTT_TOPIC_PREFIX" default:"statuspulse"`
	MQTTQoS            int    `env:"MQTT_QOS" default:"0"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// AllowedOrigins splits CORS_ALLOW_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func validate(cfg *Config) error {
	if cfg.HeartbeatInterval <= 0 {
		return errors.New("HEARTBEAT_INTERVAL must be positive")
	}
	if cfg.PublishTimeout <= 0 {
		return errors.New("PUBLISH_TIMEOUT must be positive")
	}
	if cfg.RateLimitPerSecond <= 0 || cfg.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_PER_SECOND and RATE_LIMIT_BURST must be positive")
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	if cfg.MQTTQoS < 0 || cfg.MQTTQoS > 2 {
		return fmt.Errorf("MQTT_QOS must be 0, 1 or 2, got %d", cfg.MQTTQoS)
	}

	if cfg.RedisURL != "" {
		if _, err := goredis.ParseURL(cfg.RedisURL); err != nil {
			return fmt.Errorf("REDIS_URL is invalid: %w", err)
		}
	}

	return nil
}
