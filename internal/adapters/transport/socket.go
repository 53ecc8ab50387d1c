package transport

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kamal-hamza/assetwatch/internal/core/domain"
	"github.com/kamal-hamza/assetwatch/internal/core/ports"
)

const defaultWriteTimeout = 5 * time.Second

// SocketOptions configures a SocketTransport
type SocketOptions struct {
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	Header           http.Header
}

// SocketTransport dials the WebSocket endpoint. Messages are JSON
// envelopes; see DecodeEnvelope.
type SocketTransport struct {
	url          string
	dialer       *websocket.Dialer
	header       http.Header
	writeTimeout time.Duration
}

var _ ports.Transport = (*SocketTransport)(nil)

// NewSocketTransport creates a transport for a ws:// or wss:// url
func NewSocketTransport(url string, opts SocketOptions) *SocketTransport {
	handshake := opts.HandshakeTimeout
	if handshake <= 0 {
		handshake = 10 * time.Second
	}
	writeTimeout := opts.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	return &SocketTransport{
		url: url,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: handshake,
		},
		header:       opts.Header,
		writeTimeout: writeTimeout,
	}
}

func (t *SocketTransport) Kind() domain.TransportKind {
	return domain.TransportWebSocket
}

func (t *SocketTransport) Endpoint() string {
	return t.url
}

// Dial performs the WebSocket handshake
func (t *SocketTransport) Dial(ctx context.Context) (ports.Stream, error) {
	conn, resp, err := t.dialer.DialContext(ctx, t.url, t.header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("failed to dial %s (%s): %w", t.url, resp.Status, err)
		}
		return nil, fmt.Errorf("failed to dial %s: %w", t.url, err)
	}
	return &socketStream{conn: conn, writeTimeout: t.writeTimeout}, nil
}

func (t *SocketTransport) Decode(payload []byte) (domain.Snapshot, bool, error) {
	return DecodeEnvelope(payload)
}

// socketStream adapts a websocket.Conn. gorilla allows one concurrent
// reader and one concurrent writer, so writes are serialized.
type socketStream struct {
	conn         *websocket.Conn
	writeTimeout time.Duration

	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

func (s *socketStream) Recv() ([]byte, error) {
	_, data, err := s.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *socketStream) Send(payload []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}

// Close sends a close frame, best effort, and releases the connection
func (s *socketStream) Close() error {
	s.closeOnce.Do(func() {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		s.closeErr = s.conn.Close()
	})
	return s.closeErr
}
