package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testMapboxToken = "pk.test-token"
	testFIRMSKey    = "abc123firms"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.FIRMSKey)
	assert.Equal(t, "https://firms.modaps.eosdis.nasa.gov/api/country/csv", cfg.FIRMSBaseURL)
	assert.Equal(t, "VIIRS_SNPP_NRT", cfg.FIRMSSource)
	assert.Equal(t, "IND", cfg.FIRMSCountry)
	assert.Equal(t, 1, cfg.FIRMSDayRange)
	assert.Equal(t, 30*time.Second, cfg.FIRMSTimeout)
	assert.Zero(t, cfg.IngestInterval)
	assert.Equal(t, "https://api.anthropic.com", cfg.LLMBaseURL)
	assert.Equal(t, 1024, cfg.LLMMaxTokens)
	assert.False(t, cfg.MapboxEnabled)
	assert.Equal(t, 5*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 1000, cfg.MapboxCacheSize)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "disaster-events", cfg.KafkaEventsTopic)
	assert.Equal(t, "disaster-alerts", cfg.KafkaAlertsTopic)
	assert.Equal(t, "rakshak", cfg.MQTTTopicPrefix)
	assert.Equal(t, 10*time.Second, cfg.MQTTConnectTimeout)
	assert.Equal(t, time.Hour, cfg.PlanCacheTTL)
	assert.Equal(t, 8*time.Second, cfg.DemoInterval)
	assert.Equal(t, "disaster-events", cfg.ElasticsearchIndex)
	assert.Equal(t, "disaster-alerts", cfg.ElasticsearchAlertsIndex)

	for name, on := range cfg.Integrations() {
		assert.False(t, on, name)
	}
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("DATABASE_URL", "postgres://rakshak:secret@db:5432/rakshak")
	t.Setenv("NASA_FIRMS_API_KEY", testFIRMSKey)
	t.Setenv("FIRMS_BASE_URL", "http://firms.local/api/country/csv/")
	t.Setenv("FIRMS_DAY_RANGE", "3")
	t.Setenv("INGEST_INTERVAL", "15m")
	t.Setenv("LLM_API_KEY", "sk-test")
	t.Setenv("LLM_MAX_TOKENS", "2048")
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_TIMEOUT", "10s")
	t.Setenv("MAPBOX_CACHE_SIZE", "500")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("MQTT_BROKER_URL", "tcp://mqtt:1883")
	t.Setenv("MQTT_TOPIC_PREFIX", "/india/")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("ELASTICSEARCH_URL", "http://es:9200")
	t.Setenv("DEMO_INTERVAL", "2s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "http://firms.local/api/country/csv", cfg.FIRMSBaseURL)
	assert.Equal(t, 3, cfg.FIRMSDayRange)
	assert.Equal(t, 15*time.Minute, cfg.IngestInterval)
	assert.Equal(t, 2048, cfg.LLMMaxTokens)
	assert.True(t, cfg.MapboxEnabled)
	assert.Equal(t, 10*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 500, cfg.MapboxCacheSize)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "india", cfg.MQTTTopicPrefix)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 2*time.Second, cfg.DemoInterval)

	for name, on := range cfg.Integrations() {
		assert.True(t, on, name)
	}
}

func TestLoad_PlaceholderCredentialsAreUnset(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://placeholder")
	t.Setenv("NASA_FIRMS_API_KEY", "your-firms-key")
	t.Setenv("LLM_API_KEY", "YOUR-API-KEY")
	t.Setenv("MQTT_BROKER_URL", "tcp://placeholder.example:1883")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.FIRMSKey)
	assert.Empty(t, cfg.LLMKey)
	assert.Empty(t, cfg.MQTTBrokerURL)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidDurations(t *testing.T) {
	for _, key := range []string{"FIRMS_TIMEOUT", "LLM_TIMEOUT", "MAPBOX_TIMEOUT", "MQTT_CONNECT_TIMEOUT", "PLAN_CACHE_TTL", "DEMO_INTERVAL"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "bad")
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_ZeroDemoInterval(t *testing.T) {
	t.Setenv("DEMO_INTERVAL", "0s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEMO_INTERVAL")
}

func TestLoad_InvalidIntegers(t *testing.T) {
	tests := map[string]string{
		"FIRMS_DAY_RANGE": "11",
		"LLM_MAX_TOKENS":  "0",
		"REDIS_DB":        "abc",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_IngestIntervalRequiresKey(t *testing.T) {
	t.Setenv("INGEST_INTERVAL", "10m")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NASA_FIRMS_API_KEY")
}

func TestLoad_NegativeIngestInterval(t *testing.T) {
	t.Setenv("INGEST_INTERVAL", "-1m")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INGEST_INTERVAL")
}

func TestLoad_MapboxEnabledWithoutToken(t *testing.T) {
	t.Setenv("MAPBOX_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAPBOX_TOKEN")
}

func TestLoad_MapboxExplicitlyDisabled(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.MapboxEnabled)
}

func TestIsPlaceholder(t *testing.T) {
	assert.True(t, IsPlaceholder("https://placeholder.supabase.co"))
	assert.True(t, IsPlaceholder("your-anon-key"))
	assert.False(t, IsPlaceholder("tcp://broker:1883"))
	assert.False(t, IsPlaceholder(""))
}
