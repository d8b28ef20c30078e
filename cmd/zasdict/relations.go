package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/zasdict/internal/domain/entities"
)

func newRelationsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "relations <id>",
		Short: "List the relations of an entry",
		Long: `Shows every relation of an entry with the target's current headword.
Targets that no longer exist are marked and shown with their cached form.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := entities.ParseEntryID(args[0])
			if err != nil {
				return err
			}
			return withDeps(cmd.Context(), func(ctx context.Context, d *Deps) error {
				infos, err := d.EntryHandler.HandleRelations(ctx, id)
				if err != nil {
					return err
				}

				if asJSON {
					return writeJSON(os.Stdout, infos)
				}

				if len(infos) == 0 {
					fmt.Printf("No relations for entry %d\n", id)
					return nil
				}

				tbl := newTable(os.Stdout, "Kind", "Target", "Headword", "")
				for _, info := range infos {
					note := ""
					if info.Dangling {
						note = "(missing)"
					}
					tbl.AddRow(info.Kind, info.TargetID, info.Form(), note)
				}
				tbl.Print()
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}
