package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xinkaiwang/solvercore/klogging"
	"github.com/xinkaiwang/solvercore/kmetrics"
)

var (
	// injected with -ldflags
	Version   = "dev"
	GitCommit = "none"

	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "solverdemo",
	Short: "Local search demo: builds and solves a random shift roster",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		logger := klogging.NewLogrusLogger(ctx).WithMetricsReporter(kmetrics.NewLogMetricsReporter())
		if err := logger.SetConfig(ctx, logLevel, logFormat); err != nil {
			return err
		}
		klogging.SetDefaultLogger(logger)
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "fatal, error, warn, info, debug or verbose")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "simple", "text, json or simple")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(resultsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
