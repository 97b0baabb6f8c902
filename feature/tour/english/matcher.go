package english

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Candidate is a record considered for matching.
type Candidate struct {
	ContentID string `json:"content_id"`
	Title     string `json:"title"`
	Addr      string `json:"addr"`
}

// Matcher finds the English counterpart of a Korean record.
type Matcher interface {
	// Match returns the chosen candidate, or false when the rule cannot decide.
	Match(ko Candidate, candidates []Candidate) (Candidate, bool)
}

// MatcherFunc adapts a function to Matcher.
type MatcherFunc func(ko Candidate, candidates []Candidate) (Candidate, bool)

// Match implements Matcher.
func (f MatcherFunc) Match(ko Candidate, candidates []Candidate) (Candidate, bool) {
	return f(ko, candidates)
}

// Chain tries each matcher in order and returns the first match.
type Chain []Matcher

// Match implements Matcher.
func (c Chain) Match(ko Candidate, candidates []Candidate) (Candidate, bool) {
	for _, m := range c {
		if found, ok := m.Match(ko, candidates); ok {
			return found, true
		}
	}
	return Candidate{}, false
}

// DefaultChain is exact, then equivalence, then substring.
func DefaultChain(equivalences map[string]string) Chain {
	return Chain{
		Exact(),
		NewEquivalence(equivalences),
		Substring(minSubstringRunes),
	}
}

// Normalize lowercases s, keeps letters and digits and collapses everything
// else into single spaces.
func Normalize(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))

	prevSpace := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			prevSpace = false
			continue
		}
		if !prevSpace {
			b.WriteRune(' ')
			prevSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// Exact matches when both normalized titles are equal. The first equal
// candidate wins.
func Exact() Matcher {
	return MatcherFunc(func(ko Candidate, candidates []Candidate) (Candidate, bool) {
		key := Normalize(ko.Title)
		if key == "" {
			return Candidate{}, false
		}
		for _, c := range candidates {
			if Normalize(c.Title) == key {
				return c, true
			}
		}
		return Candidate{}, false
	})
}

const minSubstringRunes = 3

// Substring matches when one normalized title contains the other. The shorter
// title must have at least minRunes runes and exactly one candidate may match.
func Substring(minRunes int) Matcher {
	return MatcherFunc(func(ko Candidate, candidates []Candidate) (Candidate, bool) {
		key := Normalize(ko.Title)
		if key == "" {
			return Candidate{}, false
		}

		var found []Candidate
		for _, c := range candidates {
			other := Normalize(c.Title)
			if other == "" {
				continue
			}
			shorter := key
			if utf8.RuneCountInString(other) < utf8.RuneCountInString(key) {
				shorter = other
			}
			if utf8.RuneCountInString(shorter) < minRunes {
				continue
			}
			if strings.Contains(key, other) || strings.Contains(other, key) {
				found = append(found, c)
			}
		}
		if len(found) != 1 {
			return Candidate{}, false
		}
		return found[0], true
	})
}

// Equivalence matches through an explicit Korean title to English title table.
type Equivalence struct {
	table map[string]string
}

// NewEquivalence creates an equivalence rule. Keys and values are normalized.
func NewEquivalence(table map[string]string) *Equivalence {
	normalized := make(map[string]string, len(table))
	for ko, en := range table {
		normalized[Normalize(ko)] = Normalize(en)
	}
	return &Equivalence{table: normalized}
}

// Match implements Matcher.
func (e *Equivalence) Match(ko Candidate, candidates []Candidate) (Candidate, bool) {
	want, ok := e.table[Normalize(ko.Title)]
	if !ok || want == "" {
		return Candidate{}, false
	}
	for _, c := range candidates {
		if Normalize(c.Title) == want {
			return c, true
		}
	}
	return Candidate{}, false
}
