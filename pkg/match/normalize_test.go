package match

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"Milk!", "milk"},
		{"milk", "milk"},
		{"gluten-free", "gluten free"},
		{"  Contains:  WHEAT,   Soy.  ", "contains wheat soy"},
		{"E-322 (soy lecithin)", "e 322 soy lecithin"},
		{"tab\tand\nnewline", "tab and newline"},
		{"café", "caf"},
		{"crème fraîche", "cr me fra che"},
		{"***", ""},
		{"", ""},
		{"100% Pure", "100 pure"},
	}
	for _, tt := range tests {
		got := Normalize(tt.input)
		if got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Milk!", "gluten-free", "  a  b  ", "Ñoño", "INGREDIENTS: Peanut (Arachis), Salt",
		"", "...", "Brazil-Nuts & Pine_nuts", "x y", "K",
	}
	for _, s := range inputs {
		once := Normalize(s)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q then %q", s, once, twice)
		}
	}
}

func TestNormalize_CaseAndPunctuation(t *testing.T) {
	if Normalize("Milk!") != Normalize("milk") {
		t.Errorf("Normalize(%q) != Normalize(%q)", "Milk!", "milk")
	}
	if got := Normalize("milk"); got != "milk" {
		t.Errorf("Normalize(milk) = %q, want milk", got)
	}
}

func TestNormalizeAll(t *testing.T) {
	got := NormalizeAll([]string{"A-B", "", "C"})
	want := []string{"a b", "", "c"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("NormalizeAll[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
