package kit

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestChain_Order(t *testing.T) {
	var calls []string
	mw := func(name string) Middleware {
		return func(next Endpoint) Endpoint {
			return func(ctx context.Context, req any) (any, error) {
				calls = append(calls, name)
				return next(ctx, req)
			}
		}
	}
	ep := Chain(mw("a"), mw("b"), mw("c"))(func(context.Context, any) (any, error) {
		calls = append(calls, "endpoint")
		return "ok", nil
	})
	resp, err := ep(context.Background(), nil)
	if err != nil || resp != "ok" {
		t.Fatalf("resp = %v, err = %v", resp, err)
	}
	want := []string{"a", "b", "c", "endpoint"}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	ep := RequestID()(func(ctx context.Context, _ any) (any, error) {
		seen = GetRequestID(ctx)
		return nil, nil
	})

	ep(context.Background(), nil)
	if len(seen) != 36 {
		t.Errorf("generated request id = %q, want a UUID", seen)
	}

	ep(WithRequestID(context.Background(), "fixed"), nil)
	if seen != "fixed" {
		t.Errorf("request id = %q, want fixed", seen)
	}
}

func TestLogging_PassesThrough(t *testing.T) {
	boom := errors.New("boom")
	ep := Logging(nil, "test")(func(context.Context, any) (any, error) {
		return 42, boom
	})
	resp, err := ep(context.Background(), nil)
	if resp != 42 || !errors.Is(err, boom) {
		t.Errorf("resp = %v, err = %v", resp, err)
	}
}

func TestTransport(t *testing.T) {
	if got := GetTransport(context.Background()); got != "http" {
		t.Errorf("default transport = %q, want http", got)
	}
	ctx := WithTransport(context.Background(), "mcp_quic")
	if got := GetTransport(ctx); got != "mcp_quic" {
		t.Errorf("transport = %q, want mcp_quic", got)
	}
}

func TestListArg(t *testing.T) {
	tests := []struct {
		args map[string]any
		want []string
	}{
		{map[string]any{"x": "milk, soy ,,egg"}, []string{"milk", "soy", "egg"}},
		{map[string]any{"x": []any{"milk", 3, " soy "}}, []string{"milk", "soy"}},
		{map[string]any{"x": []string{"a", ""}}, []string{"a"}},
		{map[string]any{"x": ""}, []string{}},
		{map[string]any{}, []string{}},
	}
	for _, tt := range tests {
		if got := ListArg(tt.args, "x", ","); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ListArg(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
	if got := StringArg(map[string]any{"s": "v", "n": 1}, "s"); got != "v" {
		t.Errorf("StringArg = %q, want v", got)
	}
	if got := StringArg(map[string]any{"n": 1}, "n"); got != "" {
		t.Errorf("StringArg(non-string) = %q, want empty", got)
	}
}

func TestLinesArg(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want []string
	}{
		{"string keeps padding", map[string]any{"x": "  Contains: MILK  \r\n\n \t\nwater"}, []string{"  Contains: MILK  ", "water"}},
		{"array keeps padding", map[string]any{"x": []any{" soy, ", "", 7, "egg\r"}}, []string{" soy, ", "egg"}},
		{"string slice", map[string]any{"x": []string{"a ", "   "}}, []string{"a "}},
		{"missing", map[string]any{}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LinesArg(tt.args, "x"); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("LinesArg = %q, want %q", got, tt.want)
			}
		})
	}
}
