// Package match implements the allergen term engine: normalization, term
// compilation and boundary-aware matching over recognized text lines.
//
// Everything here is pure. Functions never fail and hold no shared state, so
// a Matcher can be used from any number of goroutines.
package match

import (
	"sort"
	"strings"
)

// Match is one flagged occurrence. Two matches with the same Key, Term and
// Line are the same match.
type Match struct {
	Key  string `json:"match_key"`
	Term string `json:"matched_term"`
	Line string `json:"context_line"`
}

// Custom reports whether the match came from a user-entered term.
func (m Match) Custom() bool {
	return IsCustomKey(m.Key)
}

// FindMatches scans lines for every compiled term and returns the distinct
// matches sorted by Key. Matches sharing a Key keep the order in which they
// were found (line by line, then in compiled term order).
//
// Lines are handled by position: two lines that normalize to the same text
// still report their own original text as Line.
func FindMatches(lines []string, terms []CompiledTerm) []Match {
	results := []Match{}
	if len(lines) == 0 || len(terms) == 0 {
		return results
	}

	seen := make(map[Match]struct{})
	for idx, norm := range NormalizeAll(lines) {
		if norm == "" {
			continue
		}
		padded := " " + norm + " "
		for _, ct := range terms {
			if !containsTerm(norm, padded, ct.Term) {
				continue
			}
			m := Match{Key: ct.Key, Term: ct.Term, Line: lines[idx]}
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			results = append(results, m)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Key < results[j].Key
	})
	return results
}

// containsTerm tests a normalized line for term. Single tokens must sit
// between word edges; phrases only need to be a substring, so "brazil nut"
// also matches "brazil nuts".
func containsTerm(line, paddedLine, term string) bool {
	if strings.Contains(term, " ") {
		return strings.Contains(line, term)
	}
	return strings.Contains(paddedLine, " "+term+" ")
}

// Matcher holds one compiled term list. It is immutable once built.
type Matcher struct {
	terms []CompiledTerm
}

// NewMatcher compiles categories and customTerms into a Matcher.
func NewMatcher(categories map[string][]string, customTerms []string) *Matcher {
	return &Matcher{terms: Compile(categories, customTerms)}
}

// Terms returns a copy of the compiled terms in scan order.
func (m *Matcher) Terms() []CompiledTerm {
	out := make([]CompiledTerm, len(m.terms))
	copy(out, m.terms)
	return out
}

// Empty reports whether the matcher has nothing to look for.
func (m *Matcher) Empty() bool {
	return len(m.terms) == 0
}

// FindMatches runs FindMatches with the matcher's terms.
func (m *Matcher) FindMatches(lines []string) []Match {
	return FindMatches(lines, m.terms)
}
