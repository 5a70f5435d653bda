package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, 2*time.Second, cfg.PublishTimeout)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins())
	assert.Empty(t, cfg.RedisURL)
	assert.Empty(t, cfg.MQTTBrokerURL)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("HEARTBEAT_INTERVAL", "250ms")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("MQTT_BROKER_URL", "tcp://localhost:1883")
	t.Setenv("MQTT_QOS", "1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 250*time.Millisecond, cfg.HeartbeatInterval)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins())
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTTBrokerURL)
	assert.Equal(t, 1, cfg.MQTTQoS)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"zero heartbeat", "HEARTBEAT_INTERVAL", "0s", "HEARTBEAT_INTERVAL must be positive"},
		{"negative publish timeout", "PUBLISH_TIMEOUT", "-1s", "PUBLISH_TIMEOUT must be positive"},
		{"zero rate limit", "RATE_LIMIT_PER_SECOND", "0", "RATE_LIMIT_PER_SECOND and RATE_LIMIT_BURST must be positive"},
		{"bad log level", "LOG_LEVEL", "trace", `LOG_LEVEL must be one of debug, info, warn, error, got "trace"`},
		{"bad log format", "LOG_FORMAT", "xml", `LOG_FORMAT must be text or json, got "xml"`},
		{"bad qos", "MQTT_QOS", "3", "MQTT_QOS must be 0, 1 or 2, got 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestLoad_InvalidRedisURL(t *testing.T) {
	t.Setenv("REDIS_URL", "http://not-redis")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_URL is invalid")
}
