// Package service holds the event and alert use cases behind the REST API.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/domain"
	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/observability"
	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/planner"
)

var (
	// ErrInvalid marks input that fails domain validation.
	ErrInvalid = errors.New("invalid input")

	// ErrNoEvent is returned when a plan is requested without any way to
	// resolve the event it is for.
	ErrNoEvent = errors.New("event_id or alert id is required")
)

// PlanGenerator drafts action plans.
type PlanGenerator interface {
	Generate(ctx context.Context, req planner.Request) (domain.ActionPlan, planner.Source)
}

// Service implements the API operations on top of a store.
type Service struct {
	store     domain.Store
	plans     PlanGenerator
	publisher domain.Publisher
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// New creates a Service. publisher may be nil.
func New(store domain.Store, plans PlanGenerator, publisher domain.Publisher, metrics *observability.Metrics, logger *slog.Logger) *Service {
	return &Service{
		store:     store,
		plans:     plans,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// CheckReadiness reports whether the backing store is reachable.
func (s *Service) CheckReadiness(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("store unreachable: %w", err)
	}
	return nil
}

func (s *Service) publishEvents(ctx context.Context, events ...domain.Event) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.PublishEvents(ctx, events); err != nil {
		s.logger.Warn("publish events failed", "error", err, "count", len(events))
	}
}

func (s *Service) publishAlerts(ctx context.Context, alerts ...domain.Alert) {
	if s.publisher == nil || len(alerts) == 0 {
		return
	}
	if err := s.publisher.PublishAlerts(ctx, alerts); err != nil {
		s.logger.Warn("publish alerts failed", "error", err, "count", len(alerts))
	}
}
