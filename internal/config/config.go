package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
// Every integration is optional; an empty credential disables it.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Backing store. Empty selects the in-memory demo store.
	DatabaseURL string

	// NASA FIRMS feed.
	FIRMSKey       string
	FIRMSBaseURL   string
	FIRMSSource    string
	FIRMSCountry   string
	FIRMSDayRange  int
	FIRMSTimeout   time.Duration
	IngestInterval time.Duration // 0 disables scheduled ingestion

	// Text generation for action plans.
	LLMKey       string
	LLMBaseURL   string
	LLMModel     string
	LLMMaxTokens int
	LLMTimeout   time.Duration

	// Mapbox reverse geocoding.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	// Kafka publishing of created events and alerts.
	KafkaBrokers     []string
	KafkaEventsTopic string
	KafkaAlertsTopic string

	// MQTT live channel.
	MQTTBrokerURL      string
	MQTTTopicPrefix    string
	MQTTConnectTimeout time.Duration

	// Redis action-plan cache.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	PlanCacheTTL  time.Duration

	// Elasticsearch search index.
	ElasticsearchURL         string
	ElasticsearchIndex       string
	ElasticsearchAlertsIndex string

	// Demo simulator tick.
	DemoInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DatabaseURL: credential("DATABASE_URL"),

		FIRMSKey:     credential("NASA_FIRMS_API_KEY"),
		FIRMSBaseURL: strings.TrimRight(sharedcfg.EnvOrDefault("FIRMS_BASE_URL", "https://firms.modaps.eosdis.nasa.gov/api/country/csv"), "/"),
		FIRMSSource:  sharedcfg.EnvOrDefault("FIRMS_SOURCE", "VIIRS_SNPP_NRT"),
		FIRMSCountry: sharedcfg.EnvOrDefault("FIRMS_COUNTRY", "IND"),

		LLMKey:     credential("LLM_API_KEY"),
		LLMBaseURL: strings.TrimRight(sharedcfg.EnvOrDefault("LLM_BASE_URL", "https://api.anthropic.com"), "/"),
		LLMModel:   sharedcfg.EnvOrDefault("LLM_MODEL", "claude-3-5-sonnet-20241022"),

		MapboxToken: credential("MAPBOX_TOKEN"),

		KafkaBrokers:     parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaEventsTopic: sharedcfg.EnvOrDefault("KAFKA_EVENTS_TOPIC", "disaster-events"),
		KafkaAlertsTopic: sharedcfg.EnvOrDefault("KAFKA_ALERTS_TOPIC", "disaster-alerts"),

		MQTTBrokerURL:   credential("MQTT_BROKER_URL"),
		MQTTTopicPrefix: strings.Trim(sharedcfg.EnvOrDefault("MQTT_TOPIC_PREFIX", "rakshak"), "/"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		ElasticsearchURL:         os.Getenv("ELASTICSEARCH_URL"),
		ElasticsearchIndex:       sharedcfg.EnvOrDefault("ELASTICSEARCH_INDEX", "disaster-events"),
		ElasticsearchAlertsIndex: sharedcfg.EnvOrDefault("ELASTICSEARCH_ALERTS_INDEX", "disaster-alerts"),
	}

	for _, d := range []struct {
		key string
		def string
		dst *time.Duration
	}{
		{"FIRMS_TIMEOUT", "30s", &cfg.FIRMSTimeout},
		{"LLM_TIMEOUT", "30s", &cfg.LLMTimeout},
		{"MAPBOX_TIMEOUT", "5s", &cfg.MapboxTimeout},
		{"MQTT_CONNECT_TIMEOUT", "10s", &cfg.MQTTConnectTimeout},
		{"PLAN_CACHE_TTL", "1h", &cfg.PlanCacheTTL},
		{"DEMO_INTERVAL", "8s", &cfg.DemoInterval},
	} {
		v, err := parsePositiveDuration(d.key, d.def)
		if err != nil {
			return nil, err
		}
		*d.dst = v
	}

	interval, err := time.ParseDuration(sharedcfg.EnvOrDefault("INGEST_INTERVAL", "0s"))
	if err != nil || interval < 0 {
		return nil, errors.New("invalid INGEST_INTERVAL")
	}
	cfg.IngestInterval = interval

	if cfg.FIRMSDayRange, err = parseIntInRange("FIRMS_DAY_RANGE", 1, 1, 10); err != nil {
		return nil, err
	}
	if cfg.LLMMaxTokens, err = parseIntInRange("LLM_MAX_TOKENS", 1024, 1, 8192); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = parseIntInRange("REDIS_DB", 0, 0, 15); err != nil {
		return nil, err
	}
	cfg.MapboxCacheSize = parseMapboxCacheSize()

	cfg.MapboxEnabled = cfg.MapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		cfg.MapboxEnabled = v == "true"
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("HTTP_ADDR is required")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if len(cfg.KafkaBrokers) > 0 && (cfg.KafkaEventsTopic == "" || cfg.KafkaAlertsTopic == "") {
		return nil, errors.New("KAFKA_EVENTS_TOPIC and KAFKA_ALERTS_TOPIC are required when KAFKA_BROKERS is set")
	}
	if cfg.IngestInterval > 0 && cfg.FIRMSKey == "" {
		return nil, errors.New("INGEST_INTERVAL is set but NASA_FIRMS_API_KEY is not")
	}

	return cfg, nil
}

// Integrations reports which optional integrations are configured, keyed by
// the names used on the ingestion status endpoint.
func (c *Config) Integrations() map[string]bool {
	return map[string]bool{
		"firms":         c.FIRMSKey != "",
		"database":      c.DatabaseURL != "",
		"llm":           c.LLMKey != "",
		"kafka":         len(c.KafkaBrokers) > 0,
		"mqtt":          c.MQTTBrokerURL != "",
		"redis":         c.RedisAddr != "",
		"elasticsearch": c.ElasticsearchURL != "",
		"mapbox":        c.MapboxEnabled,
	}
}

// IsPlaceholder reports whether a credential is a template value copied from
// an example env file rather than a real secret.
func IsPlaceholder(v string) bool {
	lower := strings.ToLower(v)
	return strings.Contains(lower, "placeholder") || strings.Contains(lower, "your-")
}

// credential reads key and treats placeholder values as unset.
func credential(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if IsPlaceholder(v) {
		return ""
	}
	return v
}

// parseBrokers returns nil for an unset broker list so Kafka stays disabled.
func parseBrokers(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return sharedcfg.ParseBrokers(s)
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseIntInRange(key string, def, lo, hi int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("invalid %s: must be an integer between %d and %d", key, lo, hi)
	}
	return n, nil
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
