package mcpquic

import (
	"bufio"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/quic-go/quic-go"

	"github.com/hazyhaar/labelscan/pkg/kit"
)

// Handler runs MCP sessions on accepted QUIC connections.
type Handler struct {
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

func NewHandler(mcpSrv *server.MCPServer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{mcpServer: mcpSrv, logger: logger}
}

// ServeConn serves the first stream of conn as one MCP session and returns
// when the peer closes it or ctx ends.
func (h *Handler) ServeConn(ctx context.Context, conn *quic.Conn) {
	remote := conn.RemoteAddr().String()

	stream, err := conn.AcceptStream(ctx)
	if err != nil {
		h.logger.Warn("mcp: accept stream", "remote", remote, "error", err)
		conn.CloseWithError(ConnErrorProtocolViolation, "no stream")
		return
	}
	if err := ReadMagic(stream); err != nil {
		h.logger.Warn("mcp: bad preamble", "remote", remote, "error", err)
		stream.CancelRead(StreamErrorProtocolConfusion)
		stream.CancelWrite(StreamErrorProtocolConfusion)
		conn.CloseWithError(ConnErrorProtocolViolation, "invalid magic bytes")
		return
	}

	h.ServeStream(ctx, stream, remote)
	stream.Close()
	conn.CloseWithError(ConnErrorNoError, "session ended")
}

// ServeStream runs an MCP session over rw once the preamble has been
// consumed. Requests are handled in order; responses and server
// notifications share one writer.
func (h *Handler) ServeStream(ctx context.Context, rw io.ReadWriter, remote string) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sess := newSession("quic_"+uuid.NewString()[:8], rw)
	if err := h.mcpServer.RegisterSession(ctx, sess); err != nil {
		h.logger.Error("mcp: register session", "error", err)
		return
	}
	defer h.mcpServer.UnregisterSession(ctx, sess.id)

	h.logger.Info("mcp session started", "session", sess.id, "remote", remote)
	ctx = kit.WithTransport(ctx, "mcp_quic")
	ctx = h.mcpServer.WithContext(ctx, sess)
	go sess.forwardNotifications(ctx)

	sc := bufio.NewScanner(rw)
	sc.Buffer(make([]byte, 0, 64<<10), MaxMessageSize)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		resp := h.mcpServer.HandleMessage(ctx, json.RawMessage(line))
		if resp == nil {
			continue
		}
		if err := sess.send(resp); err != nil {
			h.logger.Warn("mcp: write", "session", sess.id, "error", err)
			break
		}
	}
	if err := sc.Err(); err != nil && ctx.Err() == nil {
		h.logger.Warn("mcp: read", "session", sess.id, "error", err)
	}
	h.logger.Info("mcp session ended", "session", sess.id)
}

// Listener accepts MCP-over-QUIC connections for one MCPServer.
type Listener struct {
	ql      *quic.Listener
	handler *Handler
	logger  *slog.Logger
}

func Listen(addr string, tlsCfg *tls.Config, mcpSrv *server.MCPServer, logger *slog.Logger) (*Listener, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ql, err := quic.ListenAddr(addr, tlsCfg, QUICConfig())
	if err != nil {
		return nil, err
	}
	return &Listener{ql: ql, handler: NewHandler(mcpSrv, logger), logger: logger}, nil
}

// Addr returns the bound UDP address.
func (l *Listener) Addr() net.Addr { return l.ql.Addr() }

// Serve accepts connections until ctx is cancelled or the listener closes.
func (l *Listener) Serve(ctx context.Context) error {
	l.logger.Info("mcp quic listening", "addr", l.ql.Addr().String())
	for {
		conn, err := l.ql.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, quic.ErrServerClosed) {
				return nil
			}
			l.logger.Warn("mcp: accept", "error", err)
			continue
		}
		if alpn := conn.ConnectionState().TLS.NegotiatedProtocol; alpn != ALPNProtocol {
			conn.CloseWithError(ConnErrorUnsupportedALPN, "unsupported ALPN: "+alpn)
			continue
		}
		go l.handler.ServeConn(ctx, conn)
	}
}

func (l *Listener) Close() error {
	return l.ql.Close()
}

// session implements server.ClientSession for one stream.
type session struct {
	id            string
	notifications chan mcp.JSONRPCNotification
	initialized   atomic.Bool

	mu sync.Mutex // serializes writes to w
	w  io.Writer
}

func newSession(id string, w io.Writer) *session {
	return &session{
		id:            id,
		notifications: make(chan mcp.JSONRPCNotification, notificationQueue),
		w:             w,
	}
}

func (s *session) SessionID() string                                   { return s.id }
func (s *session) NotificationChannel() chan<- mcp.JSONRPCNotification { return s.notifications }
func (s *session) Initialize()                                         { s.initialized.Store(true) }
func (s *session) Initialized() bool                                   { return s.initialized.Load() }

func (s *session) send(msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.w.Write(data)
	return err
}

func (s *session) forwardNotifications(ctx context.Context) {
	for {
		select {
		case n := <-s.notifications:
			_ = s.send(n)
		case <-ctx.Done():
			return
		}
	}
}
