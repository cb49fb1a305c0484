package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hazyhaar/labelscan/pkg/catalog"
	"github.com/hazyhaar/labelscan/pkg/match"
	"github.com/hazyhaar/labelscan/pkg/scan"
)

func TestLabel(t *testing.T) {
	cat := catalog.Default()
	tests := []struct {
		key, want string
	}{
		{"custom:carmine", "Custom (carmine)"},
		{"tree_nut", "Tree Nuts"},
		{"retired_category", "retired_category"},
	}
	for _, tt := range tests {
		if got := Label(cat, tt.key); got != tt.want {
			t.Errorf("Label(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
	if got := Label(nil, "milk"); got != "milk" {
		t.Errorf("Label(nil, milk) = %q, want milk", got)
	}
}

func TestSummary(t *testing.T) {
	cat := catalog.Default()
	matches := []match.Match{
		{Key: "soy", Term: "soy", Line: "a"},
		{Key: "custom:carmine", Term: "carmine", Line: "b"},
		{Key: "milk", Term: "whey", Line: "c"},
		{Key: "milk", Term: "milk", Line: "c"},
	}
	want := "Found: Custom (carmine), Milk, Soy"
	if got := Summary(cat, matches); got != want {
		t.Errorf("Summary = %q, want %q", got, want)
	}
	if got := Summary(cat, nil); got != "" {
		t.Errorf("Summary(nil) = %q, want empty", got)
	}
}

func TestRender_Flagged(t *testing.T) {
	res := &scan.Result{
		Lines:   []string{"Whey powder", "Salt"},
		Matches: []match.Match{{Key: "milk", Term: "whey", Line: "Whey powder"}},
		Flagged: true,
	}
	var buf bytes.Buffer
	if err := Render(&buf, catalog.Default(), res, Options{ShowText: true}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Flagged", "Found: Milk", "Matched: whey", "Whey powder", "Recognized text", "Salt"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("colour codes written to a non-terminal")
	}
}

func TestRender_NoMatches(t *testing.T) {
	var buf bytes.Buffer
	res := &scan.Result{Lines: []string{"Water"}, Matches: []match.Match{}}
	if err := Render(&buf, catalog.Default(), res, Options{NoColor: true}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "No matches found") {
		t.Errorf("output = %q", out)
	}
	if strings.Contains(out, "Recognized text") {
		t.Error("recognized text shown without ShowText")
	}
}
