package kit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPDecoder builds the typed Endpoint request from MCP tool arguments.
type MCPDecoder func(args map[string]any) (any, error)

// RegisterMCPTool exposes an Endpoint as an MCP tool. The endpoint response is
// returned to the client as JSON text; decode and endpoint errors become tool
// errors rather than protocol errors.
func RegisterMCPTool(srv *server.MCPServer, tool mcp.Tool, endpoint Endpoint, decode MCPDecoder) {
	srv.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		request, err := decode(req.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if _, ok := ctx.Value(TransportKey).(string); !ok {
			ctx = WithTransport(ctx, "mcp")
		}

		resp, err := endpoint(ctx, request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		data, err := json.Marshal(resp)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("marshal: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}

// StringArg returns the string argument name, or "".
func StringArg(args map[string]any, name string) string {
	v, _ := args[name].(string)
	return v
}

// ListArg reads a list argument given either as a JSON array of strings or as
// a single string split on sep. Items are trimmed and blanks dropped.
func ListArg(args map[string]any, name, sep string) []string {
	var raw []string
	switch v := args[name].(type) {
	case string:
		if v != "" {
			raw = strings.Split(v, sep)
		}
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	case []string:
		raw = v
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// LinesArg reads a text argument given either as one newline-separated
// string or as a JSON array of lines. Line content is kept as sent: only a
// trailing carriage return is stripped and lines that are entirely blank are
// dropped.
func LinesArg(args map[string]any, name string) []string {
	var raw []string
	if s := StringArg(args, name); s != "" {
		raw = strings.Split(s, "\n")
	} else {
		switch v := args[name].(type) {
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok {
					raw = append(raw, s)
				}
			}
		case []string:
			raw = v
		}
	}

	out := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSuffix(l, "\r")
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}
