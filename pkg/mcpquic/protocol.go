// Package mcpquic carries MCP JSON-RPC sessions over a single QUIC stream.
//
// A client dials with ALPN ALPNProtocol, opens one bidirectional stream and
// writes the four magic bytes "MCP1" before any message. After that each
// direction is newline-delimited JSON.
package mcpquic

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/quic-go/quic-go"
)

const (
	ALPNProtocol      = "labelscan-mcp-v1"
	MagicBytes        = "MCP1"
	MaxMessageSize    = 4 << 20
	HandshakeTimeout  = 10 * time.Second
	IdleTimeout       = 5 * time.Minute
	KeepAlivePeriod   = 30 * time.Second
	notificationQueue = 64
)

// Stream-level error codes.
const (
	StreamErrorProtocolConfusion quic.StreamErrorCode = 0x02
)

// Connection-level error codes.
const (
	ConnErrorNoError           quic.ApplicationErrorCode = 0x00
	ConnErrorUnsupportedALPN   quic.ApplicationErrorCode = 0x01
	ConnErrorProtocolViolation quic.ApplicationErrorCode = 0x03
)

var (
	ErrInvalidMagicBytes = errors.New("invalid magic bytes")
	ErrUnsupportedALPN   = errors.New("ALPN " + ALPNProtocol + " not negotiated")
	ErrNotConnected      = errors.New("client not connected")
)

// QUICConfig returns the transport settings shared by Listener and Client.
func QUICConfig() *quic.Config {
	return &quic.Config{
		HandshakeIdleTimeout:       HandshakeTimeout,
		MaxIdleTimeout:             IdleTimeout,
		KeepAlivePeriod:            KeepAlivePeriod,
		MaxStreamReceiveWindow:     MaxMessageSize * 2,
		MaxConnectionReceiveWindow: MaxMessageSize * 8,
	}
}

// ReadMagic consumes the stream preamble and checks it.
func ReadMagic(r io.Reader) error {
	got := make([]byte, len(MagicBytes))
	if _, err := io.ReadFull(r, got); err != nil {
		return fmt.Errorf("read magic bytes: %w", err)
	}
	if !bytes.Equal(got, []byte(MagicBytes)) {
		return fmt.Errorf("%w: got %q", ErrInvalidMagicBytes, got)
	}
	return nil
}

// WriteMagic writes the stream preamble. Clients call it right after opening
// the stream.
func WriteMagic(w io.Writer) error {
	if _, err := io.WriteString(w, MagicBytes); err != nil {
		return fmt.Errorf("write magic bytes: %w", err)
	}
	return nil
}
