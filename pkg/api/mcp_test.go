package api

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/server"

	"github.com/hazyhaar/labelscan/pkg/prefs"
	"github.com/hazyhaar/labelscan/pkg/scan"
)

func callTool(t *testing.T, srv *server.MCPServer, name string, args map[string]any) string {
	t.Helper()
	msg, _ := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params":  map[string]any{"name": name, "arguments": args},
	})
	resp := srv.HandleMessage(context.Background(), msg)
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestMCP_ScanText(t *testing.T) {
	s := scan.New(scan.Config{Prefs: prefs.NewMemoryStore(prefs.Preferences{SelectedIDs: []string{"egg"}})})
	srv := NewMCPServer(s, nil, "test")

	tests := []struct {
		name string
		args map[string]any
		want []string
		not  []string
	}{
		{
			name: "stored preferences",
			args: map[string]any{"lines": "Pasta\nfree-range EGG"},
			want: []string{`\"match_key\":\"egg\"`},
		},
		{
			name: "explicit categories",
			args: map[string]any{"lines": []any{"Whey", "Egg"}, "categories": "milk"},
			want: []string{`\"matched_term\":\"whey\"`},
			not:  []string{`\"match_key\":\"egg\"`},
		},
		{
			name: "custom terms only",
			args: map[string]any{"lines": "Natural colour: annatto", "custom_terms": "Annatto"},
			want: []string{`custom:annatto`},
		},
		{
			name: "original line text kept",
			args: map[string]any{"lines": "  Contains: MILK  \r\nwater", "categories": "milk"},
			want: []string{`\"context_line\":\"  Contains: MILK  \"`, `\"lines\":[\"  Contains: MILK  \",\"water\"]`},
		},
		{
			name: "no matches",
			args: map[string]any{"lines": "Water", "categories": "milk"},
			want: []string{`\"matches\":[]`, `\"flagged\":false`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := callTool(t, srv, "scan_text", tt.args)
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("missing %s in %s", w, out)
				}
			}
			for _, n := range tt.not {
				if strings.Contains(out, n) {
					t.Errorf("unexpected %s in %s", n, out)
				}
			}
		})
	}
}

func TestMCP_ScanText_MissingLines(t *testing.T) {
	srv := NewMCPServer(scan.New(scan.Config{}), nil, "test")
	out := callTool(t, srv, "scan_text", map[string]any{})
	if !strings.Contains(out, `"isError":true`) {
		t.Errorf("expected tool error, got %s", out)
	}
}

func TestMCP_ListAllergensAndPreferences(t *testing.T) {
	s := scan.New(scan.Config{Prefs: prefs.NewMemoryStore(prefs.Preferences{
		SelectedIDs: []string{"sesame"},
		CustomTerms: []string{"carmine"},
	})})
	srv := NewMCPServer(s, nil, "test")

	out := callTool(t, srv, "list_allergens", nil)
	for _, w := range []string{"Tree Nuts", "coconut", "brazil nut"} {
		if !strings.Contains(out, w) {
			t.Errorf("list_allergens missing %q", w)
		}
	}

	out = callTool(t, srv, "get_preferences", nil)
	if !strings.Contains(out, `\"selected_ids\":[\"sesame\"]`) || !strings.Contains(out, "carmine") {
		t.Errorf("get_preferences = %s", out)
	}
}
