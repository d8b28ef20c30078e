package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/zasdict/internal/domain/entities"
)

type historyFlags struct {
	limit  int
	asJSON bool
}

func newHistoryCmd() *cobra.Command {
	var flags historyFlags

	cmd := &cobra.Command{
		Use:   "history [id]",
		Short: "Show the change journal",
		Long:  "Lists recent additions, edits and deletions, or the history of one entry.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id entities.EntryID
			if len(args) > 0 {
				parsed, err := entities.ParseEntryID(args[0])
				if err != nil {
					return err
				}
				id = parsed
			}
			return runHistory(cmd.Context(), id, flags)
		},
	}

	cmd.Flags().IntVarP(&flags.limit, "limit", "l", DefaultHistoryLimit, "Maximum number of records")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "Output as JSON")

	return cmd
}

func runHistory(ctx context.Context, id entities.EntryID, flags historyFlags) error {
	return withDeps(ctx, func(ctx context.Context, d *Deps) error {
		records, err := d.HistoryHandler.Handle(ctx, id, flags.limit)
		if err != nil {
			return err
		}

		if flags.asJSON {
			return writeJSON(os.Stdout, records)
		}

		if len(records) == 0 {
			fmt.Println("No history.")
			return nil
		}

		tbl := newTable(os.Stdout, "Time", "Action", "ID", "Headword", "Details")
		for _, r := range records {
			tbl.AddRow(r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Action, r.EntryID, r.Form, formatDetails(r.Details))
		}
		tbl.Print()
		return nil
	})
}
