package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/domain"
	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

// fixtureTime stamps generated records so fixtures are reproducible.
var fixtureTime = time.Date(2026, time.April, 12, 6, 0, 0, 0, time.UTC)

// fixture is the JSON document written by the fixture command.
type fixture struct {
	Detections int            `json:"detections"`
	Duplicates int            `json:"duplicates"`
	Events     []domain.Event `json:"events"`
	Alerts     []domain.Alert `json:"alerts"`
}

func newFixtureCmd() *cobra.Command {
	var in, out string

	cmd := &cobra.Command{
		Use:   "fixture",
		Short: "Convert a saved FIRMS CSV into the events and alerts ingestion would produce",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if in == "" {
				return errors.New("--csv is required")
			}
			f, err := os.Open(in)
			if err != nil {
				return err
			}
			defer f.Close()

			w := cmd.OutOrStdout()
			if out != "" {
				o, err := os.Create(out)
				if err != nil {
					return err
				}
				defer o.Close()
				w = o
			}

			fx, err := buildFixture(cmd.Context(), f)
			if err != nil {
				return fmt.Errorf("processing %s: %w", in, err)
			}
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			if err := enc.Encode(fx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d detections: %d events, %d alerts, %d duplicates\n",
				fx.Detections, len(fx.Events), len(fx.Alerts), fx.Duplicates)
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "csv", "", "FIRMS area CSV to convert")
	cmd.Flags().StringVar(&out, "out", "", "output path (default stdout)")
	return cmd
}

// buildFixture runs the ingestion transform on r under a fixed clock and
// without geocoding.
func buildFixture(ctx context.Context, r io.Reader) (fixture, error) {
	domain.SetClock(clockwork.NewFakeClockAt(fixtureTime))
	defer domain.SetClock(nil)

	detections, err := domain.ParseFeed(r)
	if err != nil {
		return fixture{}, err
	}

	t := pipeline.NewTransformer(nil, slog.New(slog.DiscardHandler))
	events, duplicates := t.Transform(ctx, detections)

	fx := fixture{
		Detections: len(detections),
		Duplicates: duplicates,
		Events:     events,
		Alerts:     []domain.Alert{},
	}
	for _, e := range events {
		if domain.RaisesAlert(e) {
			fx.Alerts = append(fx.Alerts, domain.NewFeedAlert(e))
		}
	}
	return fx, nil
}
