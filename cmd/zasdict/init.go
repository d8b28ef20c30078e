package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/zasdict/internal/application/handlers"
	"github.com/ersonp/zasdict/internal/domain/ports"
	"github.com/ersonp/zasdict/internal/infrastructure/document/jsonfile"
	"github.com/ersonp/zasdict/internal/infrastructure/journal/sqlite"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a zasdict workspace",
		Long:  "Creates a .zasdict directory with default configuration, an empty dictionary document and the change journal.",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, _ []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	handler := handlers.NewInitHandler(
		func(path string) handlers.DocumentCreator { return jsonfile.NewStore(path) },
		func(path string) (ports.Journal, error) { return sqlite.Open(path) },
	)

	result, err := handler.Handle(cmd.Context(), cwd, globalDictPath)
	if err != nil {
		return err
	}

	fmt.Printf("Created %s\n", result.ConfigPath)
	if result.DocumentCreated {
		fmt.Printf("Created dictionary: %s\n", result.DictionaryPath)
	} else {
		fmt.Printf("Using existing dictionary: %s\n", result.DictionaryPath)
	}
	if result.JournalPath != "" {
		fmt.Printf("Journal: %s\n", result.JournalPath)
	}
	fmt.Println("zasdict initialized successfully!")

	return nil
}
