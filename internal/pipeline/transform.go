package pipeline

import (
	"context"
	"log/slog"

	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/domain"
	"golang.org/x/sync/errgroup"
)

// geocodeConcurrency bounds in-flight reverse geocoding lookups per run.
const geocodeConcurrency = 8

// FeedTransformer converts feed detections into events with optional
// reverse-geocoding enrichment.
type FeedTransformer struct {
	geocoder domain.Geocoder
	logger   *slog.Logger
}

// NewTransformer creates a FeedTransformer. Pass a nil geocoder to disable
// geocoding enrichment.
func NewTransformer(geocoder domain.Geocoder, logger *slog.Logger) *FeedTransformer {
	return &FeedTransformer{
		geocoder: geocoder,
		logger:   logger,
	}
}

// Transform builds one event per distinct detection, in feed order. The
// second return value counts detections collapsed into an earlier row with
// the same ID.
func (t *FeedTransformer) Transform(ctx context.Context, detections []domain.Detection) ([]domain.Event, int) {
	seen := make(map[string]struct{}, len(detections))
	events := make([]domain.Event, 0, len(detections))
	for _, d := range detections {
		e := domain.NewFeedEvent(d)
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		events = append(events, e)
	}
	duplicates := len(detections) - len(events)

	if t.geocoder == nil {
		return events, duplicates
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(geocodeConcurrency)
	for i := range events {
		g.Go(func() error {
			events[i] = domain.EnrichWithPlace(gctx, events[i], t.geocoder, t.logger)
			return nil
		})
	}
	_ = g.Wait()
	return events, duplicates
}
