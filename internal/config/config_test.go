package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("REQUEST_TIMEOUT_SEC", "")
	t.Setenv("USE_KAFKA", "")

	cfg := Load()

	assert.Equal(t, "https://dashboard.3strands.co", cfg.APIBaseURL)
	assert.Equal(t, "/api/public", cfg.APIPathPrefix)
	assert.Equal(t, 15, cfg.RequestTimeoutSec)
	assert.Equal(t, 30, cfg.ResourceTimeoutSec)
	assert.False(t, cfg.UseKafka)
	assert.Equal(t, 3, cfg.MaxRetries)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://localhost:9000/")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092")
	t.Setenv("USE_CACHE", "1")
	t.Setenv("POLL_INTERVAL_SEC", "not-a-number")

	cfg := Load()

	assert.Equal(t, "http://localhost:9000", cfg.APIBaseURL)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.UseCache)
	assert.Equal(t, 300, cfg.PollIntervalSec)
}

func TestBackendURL(t *testing.T) {
	cfg := &Config{APIBaseURL: "http://api", APIPathPrefix: "/api/public"}

	assert.Equal(t, "http://api/api/public/flash-sales", cfg.BackendURL("/flash-sales"))
}
