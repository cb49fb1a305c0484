package mcpquic

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/hazyhaar/labelscan/pkg/api"
	"github.com/hazyhaar/labelscan/pkg/scan"
)

func TestMagicRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMagic(&buf); err != nil {
		t.Fatalf("WriteMagic: %v", err)
	}
	buf.WriteString("{}\n")
	if err := ReadMagic(&buf); err != nil {
		t.Fatalf("ReadMagic: %v", err)
	}
	if buf.String() != "{}\n" {
		t.Errorf("remaining = %q, want the first message intact", buf.String())
	}
}

func TestReadMagic_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"wrong bytes", "HTTP/1.1"},
		{"short", "MC"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ReadMagic(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.name == "wrong bytes" && !errors.Is(err, ErrInvalidMagicBytes) {
				t.Errorf("err = %v, want ErrInvalidMagicBytes", err)
			}
		})
	}
}

func TestServeStream_ScanText(t *testing.T) {
	srv := api.NewMCPServer(scan.New(scan.Config{}), nil, "test")
	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"0"}}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"scan_text","arguments":{"lines":"Sugar\nWhey powder","categories":"milk"}}}`,
	}, "\n") + "\n"

	var out bytes.Buffer
	rw := struct {
		io.Reader
		io.Writer
	}{strings.NewReader(input), &out}
	NewHandler(srv, nil).ServeStream(context.Background(), rw, "test")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d responses, want 2:\n%s", len(lines), out.String())
	}
	if !strings.Contains(lines[0], `"id":1`) || !strings.Contains(lines[0], "labelscan") {
		t.Errorf("initialize response = %s", lines[0])
	}
	if !strings.Contains(lines[1], `"id":2`) {
		t.Errorf("call response = %s", lines[1])
	}
	for _, want := range []string{`\"match_key\":\"milk\"`, `\"matched_term\":\"whey\"`, `\"flagged\":true`} {
		if !strings.Contains(lines[1], want) {
			t.Errorf("call response missing %s: %s", want, lines[1])
		}
	}
}

func TestServerTLS_SelfSigned(t *testing.T) {
	cfg, err := ServerTLS("", "")
	if err != nil {
		t.Fatalf("ServerTLS: %v", err)
	}
	if len(cfg.Certificates) != 1 {
		t.Errorf("certificates = %d, want 1", len(cfg.Certificates))
	}
	if len(cfg.NextProtos) != 1 || cfg.NextProtos[0] != ALPNProtocol {
		t.Errorf("NextProtos = %v", cfg.NextProtos)
	}
	if _, err := ServerTLS("missing.crt", "missing.key"); err == nil {
		t.Error("expected error for missing key pair")
	}
}
