package main

import (
	"context"
	"log/slog"

	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/adapter/database"
	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/adapter/elasticsearch"
	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/adapter/firms"
	kafkaadapter "github.com/Shubhupadhyay23/RAKSHAK-AI/internal/adapter/kafka"
	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/adapter/llm"
	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/adapter/mapbox"
	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/adapter/memory"
	mqttadapter "github.com/Shubhupadhyay23/RAKSHAK-AI/internal/adapter/mqtt"
	redisadapter "github.com/Shubhupadhyay23/RAKSHAK-AI/internal/adapter/redis"
	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/config"
	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/domain"
	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/observability"
	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/pipeline"
	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/planner"
	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/service"
)

// planMemoryCacheSize bounds the in-process plan cache used without Redis.
const planMemoryCacheSize = 256

// app holds the wired components shared by the subcommands. Optional
// integrations are nil when unconfigured.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics

	store     domain.Store
	publisher *pipeline.MultiPublisher
	ingestor  *pipeline.Ingestor
	service   *service.Service

	closers []func()
}

// loadApp reads configuration and builds the logger and metrics.
func loadApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:     cfg,
		logger:  observability.NewLogger(cfg.LogLevel, cfg.LogFormat),
		metrics: observability.NewMetrics(),
	}, nil
}

// wire connects every configured integration. Failures of optional
// integrations are logged and the integration stays disabled; only the
// database is fatal when configured.
func (a *app) wire(ctx context.Context) error {
	if err := a.wireStore(ctx); err != nil {
		return err
	}
	a.wirePublishers(ctx)

	var geocoder domain.Geocoder
	if a.cfg.MapboxEnabled {
		client := mapbox.NewClient(a.cfg.MapboxToken, a.cfg.MapboxTimeout, a.metrics, a.logger)
		geocoder = mapbox.NewCachedGeocoder(client, a.cfg.MapboxCacheSize, a.metrics)
		a.metrics.GeocodeEnabled.Set(1)
		a.logger.Info("mapbox geocoding enabled", "cache_size", a.cfg.MapboxCacheSize, "timeout", a.cfg.MapboxTimeout)
	} else {
		a.metrics.GeocodeEnabled.Set(0)
		a.logger.Info("mapbox geocoding disabled")
	}

	if a.cfg.FIRMSKey != "" {
		feed := firms.NewClient(firms.Options{
			Key:      a.cfg.FIRMSKey,
			BaseURL:  a.cfg.FIRMSBaseURL,
			Source:   a.cfg.FIRMSSource,
			Country:  a.cfg.FIRMSCountry,
			DayRange: a.cfg.FIRMSDayRange,
			Timeout:  a.cfg.FIRMSTimeout,
		}, a.logger)
		a.ingestor = pipeline.NewIngestor(pipeline.Options{
			Fetcher:   feed,
			Events:    a.store,
			Alerts:    a.store,
			Geocoder:  geocoder,
			Publisher: a.publisher,
			Metrics:   a.metrics,
			Logger:    a.logger,
		})
		a.logger.Info("firms ingestion enabled", "source", a.cfg.FIRMSSource, "country", a.cfg.FIRMSCountry)
	} else {
		a.logger.Info("firms ingestion disabled")
	}

	a.service = service.New(a.store, a.planGenerator(ctx), a.publisher, a.metrics, a.logger)
	return nil
}

func (a *app) wireStore(ctx context.Context) error {
	if a.cfg.DatabaseURL == "" {
		a.logger.Info("database disabled, serving the in-memory demo dataset")
		a.store = memory.NewDemo()
		return nil
	}
	db, err := database.Open(ctx, a.cfg.DatabaseURL, a.logger)
	if err != nil {
		return err
	}
	a.store = db
	a.onClose("database", func() error { return db.Close() })
	a.logger.Info("database connected")
	return nil
}

func (a *app) wirePublishers(ctx context.Context) {
	a.publisher = pipeline.NewMultiPublisher(a.metrics, a.logger)

	if len(a.cfg.KafkaBrokers) > 0 {
		w := kafkaadapter.NewWriter(a.cfg.KafkaBrokers, a.cfg.KafkaEventsTopic, a.cfg.KafkaAlertsTopic, a.logger)
		a.publisher.Add("kafka", w)
		a.onClose("kafka writer", w.Close)
		a.logger.Info("kafka publishing enabled", "brokers", a.cfg.KafkaBrokers)
	} else {
		a.logger.Info("kafka disabled")
	}

	if a.cfg.MQTTBrokerURL != "" {
		p, err := mqttadapter.NewPublisher(a.mqttOptions(), a.logger)
		if err != nil {
			a.logger.Warn("mqtt publisher unavailable, continuing without it", "error", err)
		} else {
			a.publisher.Add("mqtt", p)
			a.onClose("mqtt publisher", func() error { p.Close(); return nil })
			a.logger.Info("mqtt publishing enabled", "broker", a.cfg.MQTTBrokerURL)
		}
	} else {
		a.logger.Info("mqtt disabled")
	}

	if a.cfg.ElasticsearchURL != "" {
		ix, err := elasticsearch.NewIndexer(a.cfg.ElasticsearchURL, a.cfg.ElasticsearchIndex, a.cfg.ElasticsearchAlertsIndex, a.logger)
		if err != nil {
			a.logger.Warn("elasticsearch unavailable, continuing without it", "error", err)
		} else {
			a.publisher.Add("elasticsearch", ix)
			a.logger.Info("elasticsearch indexing enabled", "events_index", a.cfg.ElasticsearchIndex)
		}
	} else {
		a.logger.Info("elasticsearch disabled")
	}
}

func (a *app) planGenerator(ctx context.Context) *planner.Generator {
	var text planner.TextGenerator
	if a.cfg.LLMKey != "" {
		text = llm.NewClient(llm.Options{
			Key:       a.cfg.LLMKey,
			BaseURL:   a.cfg.LLMBaseURL,
			Model:     a.cfg.LLMModel,
			MaxTokens: a.cfg.LLMMaxTokens,
			Timeout:   a.cfg.LLMTimeout,
		}, a.metrics, a.logger)
		a.logger.Info("llm plan generation enabled", "model", a.cfg.LLMModel)
	} else {
		a.logger.Info("llm disabled, using fallback plans")
	}

	var cache planner.PlanCache
	if a.cfg.RedisAddr != "" {
		rc, err := redisadapter.NewPlanCache(ctx, a.cfg.RedisAddr, a.cfg.RedisPassword, a.cfg.RedisDB, a.cfg.PlanCacheTTL)
		if err != nil {
			a.logger.Warn("redis unavailable, caching plans in memory", "error", err)
		} else {
			cache = rc
			a.onClose("redis", rc.Close)
			a.logger.Info("redis plan cache enabled", "addr", a.cfg.RedisAddr, "ttl", a.cfg.PlanCacheTTL)
		}
	} else {
		a.logger.Info("redis disabled, caching plans in memory")
	}
	if cache == nil {
		cache = planner.NewMemoryCache(planMemoryCacheSize)
	}

	return planner.NewGenerator(text, cache, a.metrics, a.logger)
}

func (a *app) mqttOptions() mqttadapter.Options {
	return mqttadapter.Options{
		BrokerURL:      a.cfg.MQTTBrokerURL,
		TopicPrefix:    a.cfg.MQTTTopicPrefix,
		ConnectTimeout: a.cfg.MQTTConnectTimeout,
	}
}

func (a *app) onClose(name string, fn func() error) {
	a.closers = append(a.closers, func() {
		if err := fn(); err != nil {
			a.logger.Error("close failed", "component", name, "error", err)
		}
	})
}

// close releases resources in reverse order of acquisition.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
