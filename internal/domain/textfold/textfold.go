// Package textfold provides the case folding and tokenization shared by the
// index and the collator.
package textfold

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Lower returns the NFC-normalized lowercase form of s.
func Lower(s string) string {
	// A Caser keeps state between calls and is not safe to share.
	return cases.Lower(language.Und).String(norm.NFC.String(s))
}

// Compose returns the NFC form of s without changing its case.
func Compose(s string) string {
	return norm.NFC.String(s)
}

// Words splits lowercased text on whitespace.
func Words(s string) []string {
	return strings.Fields(Lower(s))
}
