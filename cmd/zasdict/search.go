package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/zasdict/internal/application/handlers"
)

type searchFlags struct {
	mode   string
	scope  string
	limit  int
	asJSON bool
}

func newSearchCmd() *cobra.Command {
	var flags searchFlags

	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search the dictionary",
		Long: `Searches headwords, or every field with --scope fulltext.

Examples:
  zasdict search zas
  zasdict search --mode prefix kas
  zasdict search --mode exact --scope fulltext language`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), joinArgs(args), flags)
		},
	}

	cmd.Flags().StringVarP(&flags.mode, "mode", "m", "", "Match mode: partial, prefix, suffix, exact (default from config)")
	cmd.Flags().StringVarP(&flags.scope, "scope", "s", "", "Search scope: headword, fulltext (default from config)")
	cmd.Flags().IntVarP(&flags.limit, "limit", "l", DefaultSearchLimit, "Maximum number of results (0 for all)")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "Output as JSON")

	return cmd
}

func runSearch(ctx context.Context, keyword string, flags searchFlags) error {
	return withDeps(ctx, func(ctx context.Context, d *Deps) error {
		mode := orDefault(flags.mode, d.Config.Search.Mode)
		scope := orDefault(flags.scope, d.Config.Search.Scope)

		result, err := d.QueryHandler.Handle(ctx, mode, scope, keyword)
		if err != nil {
			return err
		}

		if flags.limit > 0 && len(result.Entries) > flags.limit {
			result.Entries = result.Entries[:flags.limit]
			result.Labels = result.Labels[:flags.limit]
		}

		if flags.asJSON {
			return writeJSON(os.Stdout, result.Entries)
		}
		printResults(result)
		return nil
	})
}

func printResults(result *handlers.QueryResult) {
	if len(result.Entries) == 0 {
		fmt.Println("No entries found.")
		return
	}

	tbl := newTable(os.Stdout, "ID", "Headword", "Translations")
	for i, e := range result.Entries {
		tbl.AddRow(e.Ref.ID, result.Labels[i], summary(e))
	}
	tbl.Print()
	fmt.Printf("\n%d entries\n", len(result.Entries))
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
