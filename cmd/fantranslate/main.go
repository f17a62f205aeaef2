// Package main provides the entry point for the fantranslate CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	version         = "0.1.0-dev"
	globalVerbosity int
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:     "fantranslate",
		Short:   "A translation assistant that tracks characters across book chapters",
		Version: version,
	}

	rootCmd.PersistentFlags().CountVarP(&globalVerbosity, "verbose", "v", "Increase verbosity (-v for info, -vv for debug)")

	rootCmd.AddCommand(
		newInitCmd(),
		newExtractCmd(),
		newCharacterCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
