package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Runner performs one ingestion run.
type Runner interface {
	Ingest(ctx context.Context) (int, error)
}

// Scheduler runs ingestion on a fixed interval.
type Scheduler struct {
	runner   Runner
	interval time.Duration
	logger   *slog.Logger
}

// NewScheduler creates a Scheduler. The interval must be positive.
func NewScheduler(runner Runner, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{runner: runner, interval: interval, logger: logger}
}

// Run schedules ingestion and blocks until ctx is cancelled. A run still in
// progress when the next tick fires is not overlapped; the tick is skipped.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.interval <= 0 {
		return fmt.Errorf("invalid ingest interval %s", s.interval)
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			n, err := s.runner.Ingest(ctx)
			switch {
			case errors.Is(err, ErrIngestionRunning):
				s.logger.Info("scheduled ingestion skipped, run in progress")
			case err != nil:
				s.logger.Error("scheduled ingestion failed", "error", err)
			default:
				s.logger.Info("scheduled ingestion finished", "events_processed", n)
			}
		}),
		gocron.WithName("firms-ingest"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return fmt.Errorf("schedule ingestion: %w", err)
	}

	s.logger.Info("ingestion scheduler started", "interval", s.interval)
	scheduler.Start()

	<-ctx.Done()
	s.logger.Info("ingestion scheduler stopping")
	return scheduler.Shutdown()
}
