// Package catalog holds the allergen categories that users can select, each
// with the synonym terms the matcher looks for.
package catalog

import (
	"fmt"
	"strings"
)

// Definition is one allergen category.
type Definition struct {
	ID          string   `yaml:"id" json:"id"`
	DisplayName string   `yaml:"display_name" json:"display_name"`
	Terms       []string `yaml:"terms" json:"terms"`
}

// Catalog is an immutable, ordered set of definitions.
type Catalog struct {
	ID      string
	Version string
	defs    []Definition
	byID    map[string]int
}

// New builds a catalog from defs, keeping their order. IDs must be unique and
// non-empty, and every definition needs at least one term.
func New(id, version string, defs []Definition) (*Catalog, error) {
	c := &Catalog{
		ID:      id,
		Version: version,
		defs:    make([]Definition, 0, len(defs)),
		byID:    make(map[string]int, len(defs)),
	}
	for i, d := range defs {
		d.ID = strings.TrimSpace(d.ID)
		if d.ID == "" {
			return nil, fmt.Errorf("category %d: missing id", i)
		}
		if _, dup := c.byID[d.ID]; dup {
			return nil, fmt.Errorf("category %q: duplicate id", d.ID)
		}
		if len(d.Terms) == 0 {
			return nil, fmt.Errorf("category %q: no terms", d.ID)
		}
		if d.DisplayName == "" {
			d.DisplayName = d.ID
		}
		d.Terms = append([]string(nil), d.Terms...)
		c.byID[d.ID] = len(c.defs)
		c.defs = append(c.defs, d)
	}
	return c, nil
}

// All returns every definition in catalog order.
func (c *Catalog) All() []Definition {
	out := make([]Definition, len(c.defs))
	for i, d := range c.defs {
		d.Terms = append([]string(nil), d.Terms...)
		out[i] = d
	}
	return out
}

// Lookup returns the definition with the given ID.
func (c *Catalog) Lookup(id string) (Definition, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Definition{}, false
	}
	d := c.defs[i]
	d.Terms = append([]string(nil), d.Terms...)
	return d, true
}

// Len returns the number of categories.
func (c *Catalog) Len() int {
	return len(c.defs)
}

// TermCount returns the number of synonym terms across all categories.
func (c *Catalog) TermCount() int {
	n := 0
	for _, d := range c.defs {
		n += len(d.Terms)
	}
	return n
}

// Select returns the synonym lists of the categories named in ids, keyed by
// category ID. Unknown IDs are skipped.
func (c *Catalog) Select(ids []string) map[string][]string {
	out := make(map[string][]string, len(ids))
	for _, id := range ids {
		i, ok := c.byID[id]
		if !ok {
			continue
		}
		out[id] = append([]string(nil), c.defs[i].Terms...)
	}
	return out
}

// DisplayName returns the label for a category ID, or the ID itself when the
// catalog does not know it.
func (c *Catalog) DisplayName(id string) string {
	if i, ok := c.byID[id]; ok {
		return c.defs[i].DisplayName
	}
	return id
}

// previewTerms is how many synonyms Preview shows.
const previewTerms = 4

// Preview lists the first few terms of d, with an ellipsis when more exist.
func Preview(d Definition) string {
	if len(d.Terms) <= previewTerms {
		return strings.Join(d.Terms, ", ")
	}
	return strings.Join(d.Terms[:previewTerms], ", ") + "…"
}
