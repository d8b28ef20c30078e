// Package main provides the entry point for the zasdict CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version        = "0.1.0-dev"
	globalDictPath string
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
	rootCmd := &cobra.Command{
		Use:           "zasdict",
		Short:         "A dictionary manager for constructed languages",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&globalDictPath, "dict", "d", "", "Dictionary document (overrides dictionary.path)")

	rootCmd.AddCommand(
		newInitCmd(),
		newSearchCmd(),
		newShowCmd(),
		newAddCmd(),
		newEditCmd(),
		newDeleteCmd(),
		newRelationsCmd(),
		newHistoryCmd(),
		newImportCmd(),
		newExportCmd(),
		newShellCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
