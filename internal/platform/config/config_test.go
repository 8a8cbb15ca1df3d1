package config

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"WQ_ADDR", "MODEL_BUNDLE_PATH", "REFERENCE_CSV_PATH", "REFERENCE_DSN", "REDIS_URL", "KAFKA_BROKERS", "TRUSTED_PROXIES", "RATE_LIMIT_REQUESTS", "RATE_LIMIT_WINDOW"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "water_quality_model.json", cfg.Model.BundlePath)
	assert.Equal(t, "Cities1.csv", cfg.Reference.CSVPath)
	assert.Empty(t, cfg.Reference.DSN)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Empty(t, cfg.TrustedProxies)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 60, cfg.RateLimit.RequestsPerWindow)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("WQ_ADDR", ":9090")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_REQUESTS", "5")
	t.Setenv("WQ_ENV", "production")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.0.2.7,fd00::/8")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, 5, cfg.RateLimit.RequestsPerWindow)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("192.0.2.7/32"),
		netip.MustParsePrefix("fd00::/8"),
	}, cfg.TrustedProxies)
}

func TestFromEnvRejectsMalformedValues(t *testing.T) {
	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_WINDOW", "soon")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "RATE_LIMIT_WINDOW")
	})

	t.Run("bad trusted proxy", func(t *testing.T) {
		t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8,proxy.internal")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "TRUSTED_PROXIES")
	})

	t.Run("non-positive limit", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_REQUESTS", "0")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "must be positive")
	})
}
