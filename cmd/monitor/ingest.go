package main

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Run one FIRMS ingestion and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			if a.cfg.FIRMSKey == "" {
				return errors.New("NASA_FIRMS_API_KEY is required for ingest")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := a.wire(ctx); err != nil {
				return err
			}
			defer a.close()

			n, err := a.ingestor.Ingest(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ingested %d new events\n", n)
			return nil
		},
	}
}
