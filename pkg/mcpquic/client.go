package mcpquic

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/quic-go/quic-go"
)

// Client is an MCP client speaking to a Listener.
type Client struct {
	conn   *quic.Conn
	stream *quic.Stream
	mcp    *client.Client
}

// Dial connects to addr, sends the preamble and performs the MCP initialize
// handshake. A nil tlsCfg trusts any server certificate.
func Dial(ctx context.Context, addr string, tlsCfg *tls.Config, clientVersion string) (*Client, error) {
	if tlsCfg == nil {
		tlsCfg = ClientTLS(true)
	}
	conn, err := quic.DialAddr(ctx, addr, tlsCfg, QUICConfig())
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	if alpn := conn.ConnectionState().TLS.NegotiatedProtocol; alpn != ALPNProtocol {
		conn.CloseWithError(ConnErrorUnsupportedALPN, "bad ALPN")
		return nil, fmt.Errorf("%w: got %q", ErrUnsupportedALPN, alpn)
	}

	stream, err := conn.OpenStreamSync(ctx)
	if err != nil {
		conn.CloseWithError(ConnErrorProtocolViolation, "open stream")
		return nil, fmt.Errorf("open stream: %w", err)
	}
	c := &Client{conn: conn, stream: stream}
	if err := WriteMagic(stream); err != nil {
		c.closeTransport()
		return nil, err
	}

	mc := client.NewClient(transport.NewIO(stream, streamWriter{stream}, io.NopCloser(eofReader{})))
	if err := mc.Start(ctx); err != nil {
		c.closeTransport()
		return nil, fmt.Errorf("mcp start: %w", err)
	}

	initCtx, cancel := context.WithTimeout(ctx, HandshakeTimeout)
	defer cancel()
	init := mcp.InitializeRequest{}
	init.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	init.Params.ClientInfo = mcp.Implementation{Name: "labelscan-query", Version: clientVersion}
	if _, err := mc.Initialize(initCtx, init); err != nil {
		mc.Close()
		c.closeTransport()
		return nil, fmt.Errorf("mcp initialize: %w", err)
	}
	c.mcp = mc
	return c, nil
}

func (c *Client) ListTools(ctx context.Context) (*mcp.ListToolsResult, error) {
	if c.mcp == nil {
		return nil, ErrNotConnected
	}
	return c.mcp.ListTools(ctx, mcp.ListToolsRequest{})
}

// CallTool invokes a tool and returns its concatenated text content. A tool
// error result is returned as an error.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	if c.mcp == nil {
		return "", ErrNotConnected
	}
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	res, err := c.mcp.CallTool(ctx, req)
	if err != nil {
		return "", err
	}
	text := ToolText(res)
	if res.IsError {
		return "", fmt.Errorf("%s: %s", name, text)
	}
	return text, nil
}

func (c *Client) Close() error {
	if c.mcp != nil {
		c.mcp.Close()
	}
	return c.closeTransport()
}

func (c *Client) closeTransport() error {
	if c.stream != nil {
		c.stream.Close()
	}
	if c.conn != nil {
		return c.conn.CloseWithError(ConnErrorNoError, "client closing")
	}
	return nil
}

// ToolText joins the text content items of a tool result.
func ToolText(res *mcp.CallToolResult) string {
	var out string
	for _, c := range res.Content {
		if tc, ok := mcp.AsTextContent(c); ok {
			out += tc.Text
		}
	}
	return out
}

type streamWriter struct{ s *quic.Stream }

func (w streamWriter) Write(p []byte) (int, error) { return w.s.Write(p) }
func (w streamWriter) Close() error                { return w.s.Close() }

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }
