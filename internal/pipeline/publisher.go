package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/domain"
	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/observability"
)

// Sink is a named downstream publisher.
type Sink struct {
	Name      string
	Publisher domain.Publisher
}

// MultiPublisher delivers every batch to all configured sinks. A failing
// sink does not stop delivery to the others.
type MultiPublisher struct {
	sinks   []Sink
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewMultiPublisher creates a fan-out over sinks. Nil publishers are ignored.
func NewMultiPublisher(metrics *observability.Metrics, logger *slog.Logger, sinks ...Sink) *MultiPublisher {
	m := &MultiPublisher{metrics: metrics, logger: logger}
	for _, s := range sinks {
		m.Add(s.Name, s.Publisher)
	}
	return m
}

// Add registers another sink.
func (m *MultiPublisher) Add(name string, p domain.Publisher) {
	if p == nil {
		return
	}
	m.sinks = append(m.sinks, Sink{Name: name, Publisher: p})
}

// Len returns the number of registered sinks.
func (m *MultiPublisher) Len() int {
	return len(m.sinks)
}

func (m *MultiPublisher) PublishEvents(ctx context.Context, events []domain.Event) error {
	return m.each("events", func(p domain.Publisher) error {
		return p.PublishEvents(ctx, events)
	})
}

func (m *MultiPublisher) PublishAlerts(ctx context.Context, alerts []domain.Alert) error {
	return m.each("alerts", func(p domain.Publisher) error {
		return p.PublishAlerts(ctx, alerts)
	})
}

func (m *MultiPublisher) each(kind string, fn func(domain.Publisher) error) error {
	var errs []error
	for _, s := range m.sinks {
		if err := fn(s.Publisher); err != nil {
			m.logger.Warn("publish failed", "sink", s.Name, "kind", kind, "error", err)
			m.metrics.PublishErrors.WithLabelValues(s.Name).Inc()
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
		}
	}
	return errors.Join(errs...)
}
