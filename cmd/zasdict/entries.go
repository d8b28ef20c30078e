package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/zasdict/internal/application/handlers"
	"github.com/ersonp/zasdict/internal/domain/entities"
	"github.com/ersonp/zasdict/internal/domain/services"
)

type draftFlags struct {
	form         string
	translations []string
	tags         []string
	usage        string
	etymology    string
	variations   []string
	relations    []string
	unrelate     []string
}

func (f *draftFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.translations, "translation", "t", nil, `Translation as "title:form, form" (repeatable)`)
	cmd.Flags().StringArrayVar(&f.tags, "tag", nil, "Tag (repeatable)")
	cmd.Flags().StringVar(&f.usage, "usage", "", "Usage note")
	cmd.Flags().StringVar(&f.etymology, "etymology", "", "Etymology note")
	cmd.Flags().StringArrayVar(&f.variations, "variation", nil, `Variation as "title:form" (repeatable)`)
	cmd.Flags().StringArrayVarP(&f.relations, "relate", "r", nil, `Relation as "kind:id" (repeatable)`)
}

func (f *draftFlags) input() (handlers.DraftInput, error) {
	unrelate := make([]entities.EntryID, 0, len(f.unrelate))
	for _, raw := range f.unrelate {
		id, err := entities.ParseEntryID(raw)
		if err != nil {
			return handlers.DraftInput{}, err
		}
		unrelate = append(unrelate, id)
	}
	return handlers.DraftInput{
		Form:         f.form,
		Translations: f.translations,
		Tags:         f.tags,
		Usage:        f.usage,
		Etymology:    f.etymology,
		Variations:   f.variations,
		Relations:    f.relations,
		Unrelate:     unrelate,
	}, nil
}

func newShowCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := entities.ParseEntryID(args[0])
			if err != nil {
				return err
			}
			return withDeps(cmd.Context(), func(ctx context.Context, d *Deps) error {
				detail, err := d.EntryHandler.HandleShow(ctx, id)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(os.Stdout, detail.Entry)
				}
				fmt.Println(detail.Detail)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the OTM-JSON entry")

	return cmd
}

func newAddCmd() *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "add <headword>",
		Short: "Add an entry",
		Long: `Adds an entry. Translation forms are split at the dictionary's punctuation.
Relations are mirrored onto their targets.

Examples:
  zasdict add zas -t "noun:language, tongue"
  zasdict add kasaz -t "verb:speak" -r "関連:1" --usage "Takes a dative object."`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.form = joinArgs(args)
			in, err := flags.input()
			if err != nil {
				return err
			}
			return withDeps(cmd.Context(), func(ctx context.Context, d *Deps) error {
				m, err := d.EntryHandler.HandleAdd(ctx, in)
				if m != nil {
					printMutation("Added", m)
				}
				return err
			})
		},
	}

	flags.register(cmd)

	return cmd
}

func newEditCmd() *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an entry",
		Long: `Edits an entry. Only the given fields change; list flags replace the
whole list. Relations given with --relate are added, --unrelate removes them.

Examples:
  zasdict edit 3 --form zasik
  zasdict edit 3 -t "noun:dialect" --unrelate 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := entities.ParseEntryID(args[0])
			if err != nil {
				return err
			}
			in, err := flags.input()
			if err != nil {
				return err
			}
			return withDeps(cmd.Context(), func(ctx context.Context, d *Deps) error {
				m, err := d.EntryHandler.HandleEdit(ctx, id, in)
				if m != nil {
					printMutation("Updated", m)
				}
				return err
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&flags.form, "form", "", "New headword")
	cmd.Flags().StringArrayVar(&flags.unrelate, "unrelate", nil, "Remove relations to this id (repeatable)")

	return cmd
}

func newDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entry",
		Long:  "Deletes an entry and every relation pointing at it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := entities.ParseEntryID(args[0])
			if err != nil {
				return err
			}
			return withDeps(cmd.Context(), func(ctx context.Context, d *Deps) error {
				if !force {
					detail, err := d.EntryHandler.HandleShow(ctx, id)
					if err != nil {
						return err
					}
					if !confirmAction(fmt.Sprintf("Delete %q (%d)?", detail.Entry.Ref.Form, id)) {
						fmt.Println("Cancelled.")
						return nil
					}
				}

				m, err := d.EntryHandler.HandleDelete(ctx, id)
				if m != nil {
					fmt.Printf("Deleted %s (%d)", m.Entry.Ref.Form, m.Entry.Ref.ID)
					if m.Scrubbed > 0 {
						fmt.Printf(", removed %d relations pointing at it", m.Scrubbed)
					}
					fmt.Println()
				}
				return err
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

func printMutation(verb string, m *services.Mutation) {
	fmt.Printf("%s %s (%d)", verb, m.Entry.Ref.Form, m.Entry.Ref.ID)
	if m.Reciprocals > 0 {
		fmt.Printf(", mirrored %d relations", m.Reciprocals)
	}
	fmt.Println()
}

func confirmAction(prompt string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/N]: ", prompt)
	response, _ := reader.ReadString('\n') // Error ignored: EOF/error treated as "no"
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
