// Package report renders scan results for people: category labels, a one-line
// summary and a coloured terminal listing.
package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/hazyhaar/labelscan/pkg/catalog"
	"github.com/hazyhaar/labelscan/pkg/match"
	"github.com/hazyhaar/labelscan/pkg/scan"
)

// Label returns the human label for a match key: "Custom (term)" for custom
// keys, the category display name for known IDs, the key itself otherwise.
func Label(cat *catalog.Catalog, key string) string {
	if match.IsCustomKey(key) {
		return "Custom (" + match.CustomTerm(key) + ")"
	}
	if cat == nil {
		return key
	}
	return cat.DisplayName(key)
}

// Summary lists the distinct labels of matches, sorted: "Found: Milk, Soy".
// It returns "" when there are no matches.
func Summary(cat *catalog.Catalog, matches []match.Match) string {
	if len(matches) == 0 {
		return ""
	}
	set := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		set[Label(cat, m.Key)] = struct{}{}
	}
	labels := make([]string, 0, len(set))
	for l := range set {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return "Found: " + strings.Join(labels, ", ")
}

// Options controls Render.
type Options struct {
	NoColor  bool
	ShowText bool // append the full recognized text
}

// Render writes a human-readable report of res to w.
func Render(w io.Writer, cat *catalog.Catalog, res *scan.Result, opts Options) error {
	var (
		warn   = color.New(color.FgYellow, color.Bold)
		ok     = color.New(color.FgGreen, color.Bold)
		header = color.New(color.FgWhite, color.Bold)
		dim    = color.New(color.FgHiBlack)
	)
	if opts.NoColor || !isTerminal(w) {
		for _, c := range []*color.Color{warn, ok, header, dim} {
			c.DisableColor()
		}
	}

	var b strings.Builder
	if len(res.Matches) > 0 {
		warn.Fprintln(&b, "⚠ Flagged")
		fmt.Fprintln(&b, Summary(cat, res.Matches))
	} else {
		ok.Fprintln(&b, "✓ No matches found")
		fmt.Fprintln(&b, "Based on recognized text from the label.")
	}

	if len(res.Matches) > 0 {
		fmt.Fprintln(&b)
		for _, m := range res.Matches {
			header.Fprintln(&b, Label(cat, m.Key))
			fmt.Fprintf(&b, "  Matched: %s\n", m.Term)
			dim.Fprintf(&b, "  %s\n", m.Line)
		}
	}

	if opts.ShowText {
		fmt.Fprintln(&b)
		header.Fprintln(&b, "Recognized text")
		for _, l := range res.Lines {
			fmt.Fprintf(&b, "  %s\n", l)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
