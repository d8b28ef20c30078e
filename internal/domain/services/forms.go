package services

import (
	"strings"

	"github.com/samber/lo"
)

// SplitForms splits user input into forms at any of the punctuation
// strings. Forms are trimmed and empty ones dropped. With no punctuation
// the whole trimmed input is one form.
func SplitForms(input string, punctuations []string) []string {
	parts := []string{input}
	for _, p := range punctuations {
		if p == "" {
			continue
		}
		parts = lo.FlatMap(parts, func(s string, _ int) []string {
			return strings.Split(s, p)
		})
	}
	return lo.Compact(lo.Map(parts, func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
}
