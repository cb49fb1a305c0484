// Package prefs stores which allergen categories a user flags and the custom
// keywords they added. Callers load a snapshot, edit it and save it back;
// there is no change notification.
package prefs

import (
	"context"
	"sort"
	"strings"
)

// Preferences is a snapshot of the user's selection.
type Preferences struct {
	SelectedIDs []string `json:"selected_ids"`
	CustomTerms []string `json:"custom_terms"`
}

// Store persists Preferences across process restarts. Load on a store that
// never saw a Save returns empty preferences.
//
// Update runs fn on the current preferences and saves the result as one
// step: concurrent Updates on the same store never lose each other's edits.
// When fn returns an error nothing is saved and the error is returned.
type Store interface {
	Load(ctx context.Context) (Preferences, error)
	Save(ctx context.Context, p Preferences) error
	Update(ctx context.Context, fn func(p *Preferences) error) (Preferences, error)
}

// Clean returns the persisted form of p: selected IDs sorted and unique,
// custom terms trimmed with blanks dropped. Duplicate custom terms are kept;
// the matcher collapses them.
func (p Preferences) Clean() Preferences {
	out := Preferences{
		SelectedIDs: make([]string, 0, len(p.SelectedIDs)),
		CustomTerms: make([]string, 0, len(p.CustomTerms)),
	}
	seen := make(map[string]struct{}, len(p.SelectedIDs))
	for _, id := range p.SelectedIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out.SelectedIDs = append(out.SelectedIDs, id)
	}
	sort.Strings(out.SelectedIDs)

	for _, term := range p.CustomTerms {
		if term = strings.TrimSpace(term); term != "" {
			out.CustomTerms = append(out.CustomTerms, term)
		}
	}
	return out
}

// IsSelected reports whether the category id is selected.
func (p Preferences) IsSelected(id string) bool {
	for _, s := range p.SelectedIDs {
		if s == id {
			return true
		}
	}
	return false
}

// Select turns the category id on or off.
func (p *Preferences) Select(id string, on bool) {
	if on {
		if !p.IsSelected(id) {
			p.SelectedIDs = append(p.SelectedIDs, id)
		}
		return
	}
	kept := p.SelectedIDs[:0]
	for _, s := range p.SelectedIDs {
		if s != id {
			kept = append(kept, s)
		}
	}
	p.SelectedIDs = kept
}

// AddCustomTerm appends term after trimming it. Blank terms and terms that
// already exist ignoring case are rejected.
func (p *Preferences) AddCustomTerm(term string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return false
	}
	for _, existing := range p.CustomTerms {
		if strings.EqualFold(existing, term) {
			return false
		}
	}
	p.CustomTerms = append(p.CustomTerms, term)
	return true
}

// RemoveCustomTerm deletes term (compared ignoring case and surrounding
// whitespace) and reports whether it was present.
func (p *Preferences) RemoveCustomTerm(term string) bool {
	term = strings.TrimSpace(term)
	for i, existing := range p.CustomTerms {
		if strings.EqualFold(strings.TrimSpace(existing), term) {
			p.CustomTerms = append(p.CustomTerms[:i], p.CustomTerms[i+1:]...)
			return true
		}
	}
	return false
}
