// Package collation implements the headword order used to rank search
// results and listings.
//
// Two headwords are compared by an ordered list of rules. Each rule either
// decides the order or reports that it cannot (zero), in which case the next
// rule is consulted. The first rule compares normalized forms against a
// custom alphabet; the rest are tie-breakers on the spelling. Every rule
// compares a key derived from each headword alone, so the combined order is
// a strict weak ordering.
package collation

import (
	"slices"
	"strings"
	"unicode"

	"github.com/ersonp/zasdict/internal/domain/entities"
	"github.com/ersonp/zasdict/internal/domain/textfold"
)

// DefaultAlphabet is the letter order of the language. Runes that are not
// listed sort after every listed rune.
const DefaultAlphabet = "eaoiuhkstcnrmpfgzdbv- "

// noPosition stands for a missing marker in position comparisons.
const noPosition = 1 << 30

const (
	fullWidthOpen  = '（'
	fullWidthClose = '）'
	apostrophe     = '\''
)

// operand holds the per-headword keys the rules compare.
type operand struct {
	ranks      []int
	apostrophe bool
	upper      []int
	symbol     bool
	hyphen     int
	open       int
	close      int
}

// rule decides the order of a and b, or returns 0 when undecided.
type rule struct {
	name   string
	decide func(c *Collator, a, b *operand) int
}

// Collator compares headwords under the language order.
type Collator struct {
	rank  map[rune]int
	rules []rule
}

// New creates a collator for the given alphabet. An empty alphabet selects
// DefaultAlphabet.
func New(alphabet string) *Collator {
	if alphabet == "" {
		alphabet = DefaultAlphabet
	}
	rank := make(map[rune]int, len(alphabet))
	for _, r := range alphabet {
		if _, ok := rank[r]; !ok {
			rank[r] = len(rank)
		}
	}
	return &Collator{
		rank: rank,
		rules: []rule{
			{"alphabet", compareAlphabet},
			{"length", compareLength},
			{"apostrophe", compareApostrophe},
			{"case", compareCase},
			{"symbol", compareSymbol},
			{"hyphen", compareHyphen},
			{"parenthesis", compareParenthesis},
		},
	}
}

var defaultCollator = New(DefaultAlphabet)

// Default returns the collator for DefaultAlphabet.
func Default() *Collator {
	return defaultCollator
}

// Compare returns -1 if a sorts before b, 1 if after and 0 if no rule can
// tell them apart.
func (c *Collator) Compare(a, b string) int {
	oa, ob := c.prepare(a), c.prepare(b)
	for _, r := range c.rules {
		if d := r.decide(c, &oa, &ob); d != 0 {
			return sign(d)
		}
	}
	return 0
}

// Decisive returns the name of the first rule that orders a and b, or an
// empty string when they compare equal.
func (c *Collator) Decisive(a, b string) string {
	oa, ob := c.prepare(a), c.prepare(b)
	for _, r := range c.rules {
		if r.decide(c, &oa, &ob) != 0 {
			return r.name
		}
	}
	return ""
}

// Sort sorts headwords in place, keeping the input order of equal words.
func (c *Collator) Sort(words []string) {
	slices.SortStableFunc(words, c.Compare)
}

// SortEntries sorts entries in place by headword, keeping the input order
// of equal headwords.
func (c *Collator) SortEntries(entries []entities.Entry) {
	slices.SortStableFunc(entries, func(a, b entities.Entry) int {
		return c.Compare(a.Ref.Form, b.Ref.Form)
	})
}

// Normalize strips leading and trailing hyphens, removes full-width
// parentheses and apostrophes, and lowercases the result.
func Normalize(s string) string {
	return textfold.Lower(strip(s))
}

// strip applies the removals of Normalize but keeps the case, so that its
// runes line up with the normalized form.
func strip(s string) string {
	s = strings.Trim(s, "-")
	return removals.Replace(s)
}

var removals = strings.NewReplacer(string(fullWidthOpen), "", string(fullWidthClose), "", string(apostrophe), "")

func (c *Collator) prepare(s string) operand {
	orig := []rune(s)
	norm := []rune(Normalize(s))
	stripped := []rune(textfold.Compose(strip(s)))

	op := operand{
		ranks:      make([]int, len(norm)),
		apostrophe: slices.Contains(orig, apostrophe),
		upper:      make([]int, len(stripped)),
		symbol:     hasSymbol(orig),
		open:       position(orig, fullWidthOpen),
		close:      position(orig, fullWidthClose),
	}
	for i, r := range norm {
		op.ranks[i] = c.runeRank(r)
	}
	for i, r := range stripped {
		if !unicode.IsUpper(r) {
			op.upper[i] = 1
		}
	}
	if i := lastIndex(orig, '-'); i >= 0 {
		op.hyphen = len(orig) - i
	}
	return op
}

func (c *Collator) runeRank(r rune) int {
	if i, ok := c.rank[r]; ok {
		return i
	}
	return len(c.rank) + int(r)
}

// compareAlphabet decides at the first differing normalized rune.
func compareAlphabet(_ *Collator, a, b *operand) int {
	for i := 0; i < len(a.ranks) && i < len(b.ranks); i++ {
		if a.ranks[i] != b.ranks[i] {
			return a.ranks[i] - b.ranks[i]
		}
	}
	return 0
}

func compareLength(_ *Collator, a, b *operand) int {
	return len(a.ranks) - len(b.ranks)
}

func compareApostrophe(_ *Collator, a, b *operand) int {
	return presence(a.apostrophe, b.apostrophe)
}

// compareCase puts the uppercase side first at the first position where
// the case differs. Positions are those of the stripped spelling, which
// line up whenever the alphabet rules tie.
func compareCase(_ *Collator, a, b *operand) int {
	return slices.Compare(a.upper, b.upper)
}

func compareSymbol(_ *Collator, a, b *operand) int {
	return presence(a.symbol, b.symbol)
}

// compareHyphen orders by the distance from the last hyphen to the end.
// A headword without a hyphen has distance zero.
func compareHyphen(_ *Collator, a, b *operand) int {
	return a.hyphen - b.hyphen
}

func compareParenthesis(_ *Collator, a, b *operand) int {
	if d := a.open - b.open; d != 0 {
		return d
	}
	return a.close - b.close
}

// presence orders the side without a feature first.
func presence(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func hasSymbol(rs []rune) bool {
	return slices.ContainsFunc(rs, func(r rune) bool {
		return r == '-' || r == '(' || r == ')'
	})
}

func lastIndex(rs []rune, target rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == target {
			return i
		}
	}
	return -1
}

func position(rs []rune, target rune) int {
	if i := slices.Index(rs, target); i >= 0 {
		return i
	}
	return noPosition
}

func sign(d int) int {
	switch {
	case d < 0:
		return -1
	case d > 0:
		return 1
	default:
		return 0
	}
}
