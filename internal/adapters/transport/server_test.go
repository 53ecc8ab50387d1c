package transport

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	xwebsocket "golang.org/x/net/websocket"
)

// assetServer is an in-process stand-in for the asset backend. Frames and
// events queued by the test are written to whichever connection is live.
type assetServer struct {
	srv *httptest.Server

	frames   chan string // socket text frames
	events   chan string // raw SSE event blocks
	received chan string // frames sent by the client
	kick     chan struct{}
	done     chan struct{}

	socketConns  atomic.Int32
	streamConns  atomic.Int32
	failStreams  atomic.Int32
	lastEventIDs chan string
}

func newAssetServer(t *testing.T) *assetServer {
	t.Helper()
	s := &assetServer{
		frames:       make(chan string, 16),
		events:       make(chan string, 16),
		received:     make(chan string, 16),
		kick:         make(chan struct{}),
		done:         make(chan struct{}),
		lastEventIDs: make(chan string, 16),
	}

	r := chi.NewRouter()
	r.Handle("/ws", xwebsocket.Server{Handler: s.handleSocket})
	r.Get("/api/assets/stream", s.handleStream)
	r.Get("/plain", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, "[]")
	})

	s.srv = httptest.NewServer(r)
	t.Cleanup(func() {
		close(s.done)
		s.srv.Close()
	})
	return s
}

func (s *assetServer) socketURL(t *testing.T) string {
	t.Helper()
	u, err := SocketURL(s.srv.URL, DefaultSocketPath)
	if err != nil {
		t.Fatalf("SocketURL() error: %v", err)
	}
	return u
}

func (s *assetServer) streamURL(t *testing.T) string {
	t.Helper()
	u, err := StreamURL(s.srv.URL, DefaultStreamPath)
	if err != nil {
		t.Fatalf("StreamURL() error: %v", err)
	}
	return u
}

func (s *assetServer) handleSocket(ws *xwebsocket.Conn) {
	s.socketConns.Add(1)
	defer ws.Close()

	go func() {
		for {
			var msg string
			if err := xwebsocket.Message.Receive(ws, &msg); err != nil {
				return
			}
			s.received <- msg
		}
	}()

	for {
		select {
		case frame := <-s.frames:
			if err := xwebsocket.Message.Send(ws, frame); err != nil {
				return
			}
		case <-s.kick:
			return
		case <-s.done:
			return
		}
	}
}

func (s *assetServer) handleStream(w http.ResponseWriter, r *http.Request) {
	select {
	case s.lastEventIDs <- r.Header.Get("Last-Event-ID"):
	default:
	}

	if s.failStreams.Load() > 0 {
		s.failStreams.Add(-1)
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	s.streamConns.Add(1)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case ev := <-s.events:
			fmt.Fprint(w, ev)
			flusher.Flush()
		case <-s.kick:
			return
		case <-r.Context().Done():
			return
		case <-s.done:
			return
		}
	}
}

// drop ends the live connection from the server side
func (s *assetServer) drop(t *testing.T) {
	t.Helper()
	select {
	case s.kick <- struct{}{}:
	case <-time.After(2 * time.Second):
		t.Fatal("no live connection to drop")
	}
}

func assetsJSON(a1Modified string) string {
	return fmt.Sprintf(`[{"id":"a1","name":"Tree_Model","type":"glb","last_modified":%q},`+
		`{"id":"a2","name":"Rock_Formation","type":"gltf","last_modified":"2025-11-19T10:00:00"}]`, a1Modified)
}

func envelope(typ, data string) string {
	if data == "" {
		return fmt.Sprintf(`{"type":%q,"message":"pong"}`, typ)
	}
	return fmt.Sprintf(`{"type":%q,"data":%s}`, typ, data)
}

func sseEvent(lines ...string) string {
	out := ""
	for _, l := range lines {
		out += l + "\n"
	}
	return out + "\n"
}

// waitFor polls cond in real time
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
