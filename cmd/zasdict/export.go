package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/zasdict/internal/domain/entities"
	"github.com/ersonp/zasdict/internal/infrastructure/document/jsonfile"
)

type exportFlags struct {
	format string
	output string
}

func newExportCmd() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the dictionary to file",
		Long: `Exports every entry in dictionary order to OTM-JSON, CSV, or markdown.
The CSV layout can be read back by import.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "json", "Output format (json, csv, markdown)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runExport(ctx context.Context, flags exportFlags) error {
	if !slices.Contains(validFormats, flags.format) {
		return fmt.Errorf("invalid format %q, valid formats: %v", flags.format, validFormats)
	}

	return withInternalDeps(ctx, func(_ context.Context, d *internalDeps) error {
		dict := d.dictionary.Document()
		d.Collator.SortEntries(dict.Words)
		return export(dict, flags.format, flags.output)
	})
}

func export(dict *entities.Dictionary, format, output string) (err error) {
	var w io.Writer
	var f *os.File

	if output != "" {
		f, err = os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("creating file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing file: %w", cerr)
			}
		}()
		w = f
	} else {
		w = os.Stdout
	}

	if err := formatDictionary(w, dict, format); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if output != "" {
		fmt.Printf("Exported %d entries to %s\n", len(dict.Words), output)
	}

	return nil
}

func formatDictionary(w io.Writer, dict *entities.Dictionary, format string) error {
	switch format {
	case "json":
		return formatJSON(w, dict)
	case "csv":
		return formatCSV(w, dict.Words)
	case "markdown":
		return formatMarkdown(w, dict.Words)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func formatJSON(w io.Writer, dict *entities.Dictionary) error {
	data, err := jsonfile.Encode(dict)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// formatCSV writes one row per translation, or one row for an entry
// without translations.
func formatCSV(w io.Writer, words []entities.Entry) error {
	writer := csv.NewWriter(w)

	header := []string{"id", "form", "title", "translations", "usage", "etymology", "tags"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, e := range words {
		translations := e.Translations
		if len(translations) == 0 {
			translations = []entities.Translation{{}}
		}
		for _, t := range translations {
			row := []string{
				e.Ref.ID.String(),
				e.Ref.Form,
				t.Title,
				strings.Join(t.Forms, ", "),
				contentText(e, entities.ContentUsage),
				contentText(e, entities.ContentEtymology),
				strings.Join(e.Tags, ", "),
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatMarkdown(w io.Writer, words []entities.Entry) error {
	if _, err := fmt.Fprintf(w, "# Dictionary\n\nTotal: %d entries\n\n", len(words)); err != nil {
		return err
	}

	if _, err := fmt.Fprint(w, "| Headword | Translations | Tags |\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, "|----------|--------------|------|\n"); err != nil {
		return err
	}

	for _, e := range words {
		if _, err := fmt.Fprintf(w, "| %s | %s | %s |\n",
			escapeMarkdown(e.Ref.Form),
			escapeMarkdown(summary(e)),
			escapeMarkdown(strings.Join(e.Tags, ", ")),
		); err != nil {
			return err
		}
	}

	return nil
}

func contentText(e entities.Entry, title string) string {
	for _, c := range e.Contents {
		if c.Title == title {
			return c.Text
		}
	}
	return ""
}

func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
