package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8012, cfg.HTTPPort)
	assert.Equal(t, "file", cfg.SessionStore)
	assert.Equal(t, "http://localhost:8001", cfg.CatalogServiceURL)
	assert.True(t, cfg.CircuitBreakerEnabled)
	assert.False(t, cfg.KafkaEnabled)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STOREFRONT_HTTP_PORT", "9090")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "redis", cfg.SessionStore)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("STOREFRONT_HTTP_PORT", "70000")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP port")
}

func TestLoad_InvalidSessionStore(t *testing.T) {
	t.Setenv("SESSION_STORE", "cookie")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid session store")
}

func TestLoad_InvalidSampleRate(t *testing.T) {
	t.Setenv("OTEL_SAMPLE_RATE", "1.5")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "sample rate")
}
