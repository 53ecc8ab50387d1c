package mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/kamal-hamza/assetwatch/internal/core/domain"
	"github.com/kamal-hamza/assetwatch/internal/core/ports"
)

// ErrMockDialFailed is the default dial failure
var ErrMockDialFailed = errors.New("mock dial failed")

// EventLog records connection lifecycle events across several transports,
// so tests can assert on ordering
type EventLog struct {
	mu     sync.Mutex
	events []string
}

// NewEventLog creates an empty log
func NewEventLog() *EventLog {
	return &EventLog{}
}

func (l *EventLog) add(event string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

// Events returns a copy of the recorded events
func (l *EventLog) Events() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.events))
	copy(out, l.events)
	return out
}

// --- MockTransport ---

// MockTransport is a Transport whose connections are driven by the test.
// Payloads are bare JSON arrays; the literal "pong" carries no snapshot.
type MockTransport struct {
	mu       sync.Mutex
	kind     domain.TransportKind
	dialErrs []error
	streams  []*MockStream
	dials    int
	log      *EventLog
}

// NewMockTransport creates a transport of the given kind
func NewMockTransport(kind domain.TransportKind) *MockTransport {
	return &MockTransport{kind: kind}
}

// WithLog attaches a shared event log
func (m *MockTransport) WithLog(log *EventLog) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log = log
	return m
}

// FailNextDials makes the next n dials return err (ErrMockDialFailed if nil)
func (m *MockTransport) FailNextDials(n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		err = ErrMockDialFailed
	}
	for i := 0; i < n; i++ {
		m.dialErrs = append(m.dialErrs, err)
	}
}

func (m *MockTransport) Kind() domain.TransportKind {
	return m.kind
}

func (m *MockTransport) Endpoint() string {
	return "mock://" + string(m.kind)
}

func (m *MockTransport) Dial(ctx context.Context) (ports.Stream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dials++
	m.log.add(fmt.Sprintf("dial %s", m.kind))
	if len(m.dialErrs) > 0 {
		err := m.dialErrs[0]
		m.dialErrs = m.dialErrs[1:]
		return nil, err
	}

	s := newMockStream(ctx, string(m.kind), m.log)
	m.streams = append(m.streams, s)
	return s, nil
}

func (m *MockTransport) Decode(payload []byte) (domain.Snapshot, bool, error) {
	if string(payload) == "pong" {
		return nil, false, nil
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, false, fmt.Errorf("mock decode: %w", err)
	}
	if err := snap.Validate(); err != nil {
		return nil, false, err
	}
	return snap, true, nil
}

// Dials returns the number of Dial calls
func (m *MockTransport) Dials() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dials
}

// Streams returns every stream handed out so far
func (m *MockTransport) Streams() []*MockStream {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*MockStream, len(m.streams))
	copy(out, m.streams)
	return out
}

// LastStream returns the most recent stream, or nil
func (m *MockTransport) LastStream() *MockStream {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.streams) == 0 {
		return nil
	}
	return m.streams[len(m.streams)-1]
}

// OpenStreams counts streams that have not been closed
func (m *MockTransport) OpenStreams() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.streams {
		if !s.IsClosed() {
			n++
		}
	}
	return n
}

// --- MockStream ---

// MockStream is a Stream fed by Push and terminated by Fail or Close
type MockStream struct {
	ctx      context.Context
	name     string
	log      *EventLog
	incoming chan []byte
	failures chan error
	closed   chan struct{}
	once     sync.Once

	mu   sync.Mutex
	sent [][]byte
}

func newMockStream(ctx context.Context, name string, log *EventLog) *MockStream {
	return &MockStream{
		ctx:      ctx,
		name:     name,
		log:      log,
		incoming: make(chan []byte, 64),
		failures: make(chan error, 1),
		closed:   make(chan struct{}),
	}
}

func (s *MockStream) Recv() ([]byte, error) {
	select {
	case p := <-s.incoming:
		return p, nil
	case err := <-s.failures:
		return nil, err
	case <-s.closed:
		return nil, io.EOF
	case <-s.ctx.Done():
		return nil, s.ctx.Err()
	}
}

func (s *MockStream) Send(payload []byte) error {
	select {
	case <-s.closed:
		return io.ErrClosedPipe
	default:
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, payload)
	return nil
}

func (s *MockStream) Close() error {
	s.once.Do(func() {
		close(s.closed)
		s.log.add(fmt.Sprintf("close %s", s.name))
	})
	return nil
}

// Push delivers a raw payload to the reader
func (s *MockStream) Push(payload string) {
	s.incoming <- []byte(payload)
}

// PushSnapshot delivers a snapshot encoded as a JSON array
func (s *MockStream) PushSnapshot(snap domain.Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		panic(err)
	}
	s.incoming <- data
}

// Fail makes the pending Recv return err, simulating a dropped connection
func (s *MockStream) Fail(err error) {
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	s.failures <- err
}

// IsClosed reports whether Close was called
func (s *MockStream) IsClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

// Sent returns the payloads written with Send
func (s *MockStream) Sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.sent))
	for i, p := range s.sent {
		out[i] = string(p)
	}
	return out
}
