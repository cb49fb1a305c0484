package match

import (
	"sort"
	"strings"
)

// CustomKeyPrefix marks match keys that come from user-entered terms.
const CustomKeyPrefix = "custom:"

// CompiledTerm is one normalized term ready for scanning, with the key it
// reports under: a catalog category ID or a custom key.
type CompiledTerm struct {
	Key  string `json:"key"`
	Term string `json:"term"`
}

// CustomKey returns the match key for a custom term. The term is normalized
// first, so "Almond" and "almond " share a key.
func CustomKey(term string) string {
	return CustomKeyPrefix + Normalize(term)
}

// IsCustomKey reports whether key was built by CustomKey.
func IsCustomKey(key string) bool {
	return strings.HasPrefix(key, CustomKeyPrefix)
}

// CustomTerm returns the normalized term embedded in a custom key, or "" if
// key is a category ID.
func CustomTerm(key string) string {
	if !IsCustomKey(key) {
		return ""
	}
	return strings.TrimPrefix(key, CustomKeyPrefix)
}

// Compile builds the term list for one scan from the selected categories
// (category ID -> synonyms, already filtered by the caller) and the user's
// custom terms.
//
// Terms that normalize to "" are dropped and repeated (key, term) pairs are
// kept once. The result is ordered by term length, longest first. Categories
// are visited in ID order and custom terms in input order, so equal-length
// terms always come out in the same order.
func Compile(categories map[string][]string, customTerms []string) []CompiledTerm {
	ids := make([]string, 0, len(categories))
	for id := range categories {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	terms := make([]CompiledTerm, 0)
	seen := make(map[CompiledTerm]struct{})
	add := func(ct CompiledTerm) {
		if _, dup := seen[ct]; dup {
			return
		}
		seen[ct] = struct{}{}
		terms = append(terms, ct)
	}

	for _, id := range ids {
		for _, syn := range categories[id] {
			nt := Normalize(syn)
			if nt == "" {
				continue
			}
			add(CompiledTerm{Key: id, Term: nt})
		}
	}

	for _, c := range customTerms {
		nc := Normalize(c)
		if nc == "" {
			continue
		}
		add(CompiledTerm{Key: CustomKeyPrefix + nc, Term: nc})
	}

	sort.SliceStable(terms, func(i, j int) bool {
		return len(terms[i].Term) > len(terms[j].Term)
	})
	return terms
}
