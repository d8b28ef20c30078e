package handlers

import (
	"fmt"
	"strings"

	"github.com/ersonp/zasdict/internal/domain/entities"
)

// DisplayLabels returns the list label of each entry. Repeated headwords
// are numbered from the second occurrence on: "zas", "zas (2)", "zas (3)".
func DisplayLabels(entries []entities.Entry) []string {
	seen := make(map[string]int, len(entries))
	labels := make([]string, len(entries))
	for i := range entries {
		form := entries[i].Form()
		seen[form]++
		if n := seen[form]; n > 1 {
			labels[i] = fmt.Sprintf("%s (%d)", form, n)
		} else {
			labels[i] = form
		}
	}
	return labels
}

// FormLookup returns the live form of an entry, or false if it is gone.
type FormLookup func(id entities.EntryID) (string, bool)

// FormatDetail renders an entry as plain text. Relation targets are shown
// with their live form when lookup finds them and with the cached form
// otherwise.
func FormatDetail(e entities.Entry, lookup FormLookup) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Word: %s\n", e.Form())

	for _, t := range e.Translations {
		fmt.Fprintf(&b, "Part of speech: %s\n", t.Title)
		fmt.Fprintf(&b, "Translations: %s\n", strings.Join(t.Forms, ", "))
	}
	if len(e.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(e.Tags, ", "))
	}
	for _, c := range e.Contents {
		fmt.Fprintf(&b, "%s: %s\n", c.Title, c.Text)
	}
	for _, v := range e.Variations {
		fmt.Fprintf(&b, "%s: %s\n", v.Title, v.Form)
	}
	for _, r := range e.Relations {
		form := r.Entry.Form
		if lookup != nil {
			if live, ok := lookup(r.Entry.ID); ok {
				form = live
			}
		}
		fmt.Fprintf(&b, "%s: %s\n", r.Title, form)
	}

	return strings.TrimSuffix(b.String(), "\n")
}
