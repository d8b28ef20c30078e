package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/rodaine/table"
	"github.com/samber/lo"

	"github.com/ersonp/zasdict/internal/domain/entities"
)

// newTable returns a table that writes to w.
func newTable(w io.Writer, headers ...any) table.Table {
	return table.New(headers...).WithWriter(w)
}

// summary returns the translation forms of an entry on one line.
func summary(e entities.Entry) string {
	parts := lo.Map(e.Translations, func(t entities.Translation, _ int) string {
		forms := strings.Join(t.Forms, ", ")
		if t.Title == "" {
			return forms
		}
		return "【" + t.Title + "】" + forms
	})
	return strings.Join(parts, " ")
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}

// formatDetails renders journal details as sorted key=value pairs.
func formatDetails(details map[string]any) string {
	keys := lo.Keys(details)
	slices.Sort(keys)
	return strings.Join(lo.Map(keys, func(k string, _ int) string {
		return fmt.Sprintf("%s=%v", k, details[k])
	}), " ")
}
