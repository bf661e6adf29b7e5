package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	httpadapter "github.com/Shubhupadhyay23/RAKSHAK-AI/internal/adapter/http"
	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/pipeline"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API and scheduled ingestion",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), a)
		},
	}
}

func runServe(parent context.Context, a *app) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.wire(ctx); err != nil {
		return err
	}
	defer a.close()

	deps := httpadapter.Deps{
		Service:      a.service,
		Ready:        a.service,
		Integrations: a.cfg.Integrations(),
		Metrics:      a.metrics,
		Logger:       a.logger,
	}
	if a.ingestor != nil {
		deps.Ingester = a.ingestor
	}
	srv := httpadapter.NewServer(a.cfg.HTTPAddr, deps)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if a.ingestor != nil && a.cfg.IngestInterval > 0 {
		sched := pipeline.NewScheduler(a.ingestor, a.cfg.IngestInterval, a.logger)
		g.Go(func() error {
			return sched.Run(gctx)
		})
	} else {
		a.logger.Info("scheduled ingestion disabled")
	}

	err := g.Wait()
	a.logger.Info("shutdown complete")
	return err
}
