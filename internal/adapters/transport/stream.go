package transport

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"sync"

	"github.com/kamal-hamza/assetwatch/internal/core/domain"
	"github.com/kamal-hamza/assetwatch/internal/core/ports"
)

// StreamTransport opens the Server-Sent Events endpoint. Every event's data
// is a bare asset array. Reconnection is left to the caller; the server's
// retry hint is ignored.
type StreamTransport struct {
	url    string
	client *http.Client

	mu          sync.Mutex
	lastEventID string
}

var _ ports.Transport = (*StreamTransport)(nil)

// NewStreamTransport creates a transport for an http(s) url. A nil client
// falls back to a plain http.Client.
func NewStreamTransport(url string, client *http.Client) *StreamTransport {
	if client == nil {
		client = &http.Client{}
	}
	return &StreamTransport{url: url, client: client}
}

func (t *StreamTransport) Kind() domain.TransportKind {
	return domain.TransportSSE
}

func (t *StreamTransport) Endpoint() string {
	return t.url
}

// LastEventID returns the id of the last event seen on any stream
func (t *StreamTransport) LastEventID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastEventID
}

func (t *StreamTransport) setLastEventID(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastEventID = id
}

// Dial issues the GET and checks that the server answered with an event
// stream. The body stays open until the stream is closed or ctx is done.
func (t *StreamTransport) Dial(ctx context.Context) (ports.Stream, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if id := t.LastEventID(); id != "" {
		req.Header.Set("Last-Event-ID", id)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to open stream %s: %w", t.url, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to open stream %s: unexpected status %s", t.url, resp.Status)
	}
	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || mediaType != "text/event-stream" {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to open stream %s: unexpected content type %q", t.url, resp.Header.Get("Content-Type"))
	}

	return &eventStream{
		transport: t,
		body:      resp.Body,
		reader:    NewEventReader(resp.Body),
	}, nil
}

func (t *StreamTransport) Decode(payload []byte) (domain.Snapshot, bool, error) {
	snapshot, err := DecodeSnapshot(payload)
	if err != nil {
		return nil, false, err
	}
	return snapshot, true, nil
}

type eventStream struct {
	transport *StreamTransport
	body      io.ReadCloser
	reader    *EventReader
	closeOnce sync.Once
}

// Recv returns the data of the next "message" event. A clean end of the
// body is reported as io.ErrUnexpectedEOF since the stream never ends on
// its own.
func (s *eventStream) Recv() ([]byte, error) {
	for {
		ev, err := s.reader.Next()
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		if err != nil {
			return nil, err
		}
		if ev.ID != "" {
			s.transport.setLastEventID(ev.ID)
		}
		if ev.Event != "" && ev.Event != "message" {
			continue
		}
		return []byte(ev.Data), nil
	}
}

func (s *eventStream) Send([]byte) error {
	return ErrSendUnsupported
}

func (s *eventStream) Close() error {
	var err error
	s.closeOnce.Do(func() { err = s.body.Close() })
	return err
}
