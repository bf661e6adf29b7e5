// Package pipeline runs FIRMS ingestion: fetch the feed, turn detections into
// events, persist them, open alerts for confident detections and fan the new
// records out to downstream sinks.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/domain"
	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/observability"
)

var (
	// ErrFetch wraps failures to download the feed.
	ErrFetch = errors.New("fetch feed")

	// ErrIngestionRunning is returned when a run is requested while another
	// is still in progress.
	ErrIngestionRunning = errors.New("ingestion already running")
)

// FeedFetcher downloads the raw feed body.
type FeedFetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// RunResult summarises one finished ingestion run.
type RunResult struct {
	Outcome        string    `json:"outcome"`
	EventsIngested int       `json:"events_ingested"`
	AlertsCreated  int       `json:"alerts_created"`
	FinishedAt     time.Time `json:"finished_at"`
}

// Options configures an Ingestor. Geocoder and Publisher may be nil.
type Options struct {
	Fetcher   FeedFetcher
	Events    domain.EventStore
	Alerts    domain.AlertStore
	Geocoder  domain.Geocoder
	Publisher domain.Publisher
	Metrics   *observability.Metrics
	Logger    *slog.Logger
}

// Ingestor orchestrates the fetch-parse-persist-alert-publish run.
type Ingestor struct {
	fetcher     FeedFetcher
	events      domain.EventStore
	alerts      domain.AlertStore
	transformer *FeedTransformer
	publisher   domain.Publisher
	metrics     *observability.Metrics
	logger      *slog.Logger

	running atomic.Bool
	lastRun atomic.Pointer[RunResult]
}

// NewIngestor creates an Ingestor.
func NewIngestor(opts Options) *Ingestor {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = observability.NewMetricsForTesting()
	}
	return &Ingestor{
		fetcher:     opts.Fetcher,
		events:      opts.Events,
		alerts:      opts.Alerts,
		transformer: NewTransformer(opts.Geocoder, logger),
		publisher:   opts.Publisher,
		metrics:     metrics,
		logger:      logger,
	}
}

// Ingest performs one run and returns the number of newly persisted events.
// Overlapping calls fail fast with ErrIngestionRunning.
func (in *Ingestor) Ingest(ctx context.Context) (int, error) {
	if !in.running.CompareAndSwap(false, true) {
		in.metrics.IngestRuns.WithLabelValues("skipped").Inc()
		return 0, ErrIngestionRunning
	}
	defer in.running.Store(false)

	start := time.Now()
	res, err := in.run(ctx)
	in.metrics.IngestRuns.WithLabelValues(res.Outcome).Inc()
	in.metrics.IngestDuration.Observe(time.Since(start).Seconds())

	res.FinishedAt = domain.Now()
	in.lastRun.Store(&res)
	return res.EventsIngested, err
}

// LastRun returns the result of the most recent completed run.
func (in *Ingestor) LastRun() (RunResult, bool) {
	r := in.lastRun.Load()
	if r == nil {
		return RunResult{}, false
	}
	return *r, true
}

func (in *Ingestor) run(ctx context.Context) (RunResult, error) {
	body, err := in.fetcher.Fetch(ctx)
	if err != nil {
		in.logger.Error("feed fetch failed", "error", err)
		return RunResult{Outcome: "fetch_error"}, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	detections, err := domain.ParseFeed(bytes.NewReader(body))
	if err != nil {
		in.logger.Warn("feed unreadable, treating as empty", "error", err, "bytes", len(body))
		return RunResult{Outcome: "parse_error"}, nil
	}
	if len(detections) == 0 {
		in.logger.Info("feed contained no detections")
		return RunResult{Outcome: "empty"}, nil
	}

	events, duplicates := in.transformer.Transform(ctx, detections)
	if duplicates > 0 {
		in.metrics.DetectionsDuplicate.Add(float64(duplicates))
	}

	inserted, err := in.events.InsertEvents(ctx, events)
	if err != nil {
		in.logger.Error("store events failed", "error", err, "batch_size", len(events))
		return RunResult{Outcome: "store_error"}, fmt.Errorf("store events: %w", err)
	}
	in.metrics.EventsIngested.Add(float64(len(inserted)))

	alerts := in.openAlerts(ctx, inserted)
	in.publish(ctx, inserted, alerts)

	in.logger.Info("ingestion complete",
		"detections", len(detections),
		"duplicates", duplicates,
		"events_new", len(inserted),
		"alerts_created", len(alerts),
	)
	return RunResult{Outcome: "success", EventsIngested: len(inserted), AlertsCreated: len(alerts)}, nil
}

// openAlerts creates alerts for confident events. A failed write is logged
// and yields no alerts; the run itself still succeeds.
func (in *Ingestor) openAlerts(ctx context.Context, events []domain.Event) []domain.Alert {
	var alerts []domain.Alert
	for _, e := range events {
		if domain.RaisesAlert(e) {
			alerts = append(alerts, domain.NewFeedAlert(e))
		}
	}
	if len(alerts) == 0 {
		return nil
	}

	if err := in.alerts.InsertAlerts(ctx, alerts); err != nil {
		in.logger.Error("store alerts failed", "error", err, "batch_size", len(alerts))
		in.metrics.AlertWriteErrors.Inc()
		return nil
	}
	in.metrics.AlertsCreated.WithLabelValues("ingestion").Add(float64(len(alerts)))
	return alerts
}

func (in *Ingestor) publish(ctx context.Context, events []domain.Event, alerts []domain.Alert) {
	if in.publisher == nil {
		return
	}
	if len(events) > 0 {
		if err := in.publisher.PublishEvents(ctx, events); err != nil {
			in.logger.Warn("publish events failed", "error", err, "count", len(events))
		}
	}
	if len(alerts) > 0 {
		if err := in.publisher.PublishAlerts(ctx, alerts); err != nil {
			in.logger.Warn("publish alerts failed", "error", err, "count", len(alerts))
		}
	}
}
