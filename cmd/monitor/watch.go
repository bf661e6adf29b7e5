package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"sync"
	"syscall"

	mqttadapter "github.com/Shubhupadhyay23/RAKSHAK-AI/internal/adapter/mqtt"
	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/realtime"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var table string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream inserts for a table as JSON lines, falling back to simulated data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := realtime.ParseTable(table)
			if err != nil {
				return err
			}
			a, err := loadApp()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var channel realtime.Channel
			if a.cfg.MQTTBrokerURL != "" {
				channel = mqttadapter.NewChannel(a.mqttOptions(), a.logger)
			} else {
				a.logger.Info("mqtt disabled, watching simulated data")
			}

			ctrl, err := realtime.New(realtime.Options{
				Table:   t,
				Channel: channel,
				Simulator: realtime.NewSimulator(realtime.SimulatorOptions{
					Interval: a.cfg.DemoInterval,
					Logger:   a.logger,
				}),
				Handler: printInserts(cmd.OutOrStdout()),
				Metrics: a.metrics,
				Logger:  a.logger,
			})
			if err != nil {
				return err
			}

			ctrl.Start()
			<-ctx.Done()
			ctrl.Stop()
			return nil
		},
	}
	cmd.Flags().StringVar(&table, "table", string(realtime.TableEvents), "table to watch: events or alerts")
	return cmd
}

// printInserts writes each insert to w as one JSON line.
func printInserts(w io.Writer) func(realtime.Insert) {
	var mu sync.Mutex
	enc := json.NewEncoder(w)
	return func(ins realtime.Insert) {
		mu.Lock()
		defer mu.Unlock()
		if err := enc.Encode(ins); err != nil {
			fmt.Fprintln(w, `{"error":"encode insert"}`)
		}
	}
}
