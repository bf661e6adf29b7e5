package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:          "disaster-monitor",
		Short:        "Environmental disaster monitoring backend",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadEnvFile(envFile, cmd.Flags().Changed("env-file"))
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "environment file to load before reading configuration")

	root.AddCommand(
		newServeCmd(),
		newIngestCmd(),
		newWatchCmd(),
		newFixtureCmd(),
	)
	return root
}

// loadEnvFile loads variables from path without overriding ones already set.
// A missing default file is fine; a missing file named on the command line
// is an error.
func loadEnvFile(path string, explicit bool) error {
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}
