package transport

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/kamal-hamza/assetwatch/internal/core/domain"
	"github.com/kamal-hamza/assetwatch/internal/core/ports/mocks"
	"github.com/kamal-hamza/assetwatch/internal/core/services"
	"github.com/kamal-hamza/assetwatch/pkg/eventloop"
)

func TestStreamTransportDial(t *testing.T) {
	srv := newAssetServer(t)
	tr := NewStreamTransport(srv.streamURL(t), srv.srv.Client())

	if tr.Kind() != domain.TransportSSE {
		t.Errorf("Kind() = %v", tr.Kind())
	}

	stream, err := tr.Dial(context.Background())
	if err != nil {
		t.Fatalf("Dial() error: %v", err)
	}
	defer stream.Close()

	srv.events <- sseEvent("event: heartbeat", "data: {}")
	srv.events <- sseEvent("id: 41", "data: "+assetsJSON("t1"))

	payload, err := stream.Recv()
	if err != nil {
		t.Fatalf("Recv() error: %v", err)
	}
	snapshot, ok, err := tr.Decode(payload)
	if err != nil || !ok || snapshot[0].LastModified != "t1" {
		t.Fatalf("Decode() = %v, %v, %v", snapshot, ok, err)
	}
	if tr.LastEventID() != "41" {
		t.Errorf("LastEventID() = %q", tr.LastEventID())
	}

	if err := stream.Send([]byte("ping")); !errors.Is(err, ErrSendUnsupported) {
		t.Errorf("Send() = %v, want ErrSendUnsupported", err)
	}
}

func TestStreamTransportRejectsBadResponses(t *testing.T) {
	srv := newAssetServer(t)

	srv.failStreams.Store(1)
	tr := NewStreamTransport(srv.streamURL(t), srv.srv.Client())
	if _, err := tr.Dial(context.Background()); err == nil {
		t.Error("expected error for 503")
	}

	plain := NewStreamTransport(srv.srv.URL+"/plain", srv.srv.Client())
	if _, err := plain.Dial(context.Background()); err == nil {
		t.Error("expected error for non event-stream content type")
	}
}

func TestStreamTransportDecodeMalformed(t *testing.T) {
	tr := NewStreamTransport("http://unused", nil)
	if _, _, err := tr.Decode([]byte("{bad")); !errors.Is(err, ErrMalformed) {
		t.Errorf("Decode() = %v, want ErrMalformed", err)
	}
}

func TestStreamClientPublishesInOrder(t *testing.T) {
	srv := newAssetServer(t)
	loop := startLoop(t)
	listener := mocks.NewRecordingListener()

	tr := NewStreamTransport(srv.streamURL(t), srv.srv.Client())
	client := services.NewClient(tr, loop, listener, services.ClientOptions{})
	loop.Do(client.Open)
	defer loop.Do(client.Close)
	waitFor(t, "connected", func() bool { return listener.LastState() == domain.StateConnected })

	srv.events <- sseEvent("data: " + assetsJSON("t1"))
	srv.events <- sseEvent("data: {not json")
	srv.events <- sseEvent("data: " + assetsJSON("t2"))
	srv.events <- sseEvent("data: " + assetsJSON("t3"))

	waitFor(t, "three snapshots", func() bool { return len(listener.Snapshots()) == 3 })
	var got []string
	for _, s := range listener.Snapshots() {
		got = append(got, s[0].LastModified)
	}
	if !reflect.DeepEqual(got, []string{"t1", "t2", "t3"}) {
		t.Errorf("order = %v", got)
	}
}

func TestStreamClientResendsLastEventID(t *testing.T) {
	srv := newAssetServer(t)
	loop := startLoop(t)
	listener := mocks.NewRecordingListener()

	tr := NewStreamTransport(srv.streamURL(t), srv.srv.Client())
	client := services.NewClient(tr, loop, listener, services.ClientOptions{
		Backoff: services.Backoff{Floor: 20 * time.Millisecond, Ceiling: 40 * time.Millisecond},
	})
	loop.Do(client.Open)
	defer loop.Do(client.Close)

	if id := <-srv.lastEventIDs; id != "" {
		t.Errorf("first request carried Last-Event-ID %q", id)
	}
	waitFor(t, "connected", func() bool { return listener.LastState() == domain.StateConnected })

	srv.events <- sseEvent("id: 42", "data: "+assetsJSON("t1"))
	waitFor(t, "snapshot", func() bool { return len(listener.Snapshots()) == 1 })

	srv.drop(t)
	select {
	case id := <-srv.lastEventIDs:
		if id != "42" {
			t.Errorf("Last-Event-ID = %q, want 42", id)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("client did not redial")
	}
}

// Three failed attempts in a row wait 3s, 6s and 12s before dialing again
func TestStreamClientConsecutiveFailures(t *testing.T) {
	srv := newAssetServer(t)
	sched := eventloop.NewManual()
	listener := mocks.NewRecordingListener()

	srv.failStreams.Store(3)
	tr := NewStreamTransport(srv.streamURL(t), srv.srv.Client())
	client := services.NewClient(tr, sched, listener, services.ClientOptions{})
	client.Open()
	defer client.Close()

	drain := func(what string, cond func() bool) {
		t.Helper()
		waitFor(t, what, func() bool {
			sched.RunPending()
			return cond()
		})
	}

	var waits []time.Duration
	for i := 0; i < 3; i++ {
		drain("waiting", func() bool {
			return client.Controller().State() == services.ReconnectWaiting && sched.Pending() == 1
		})
		delays := sched.Delays()
		waits = append(waits, delays[len(delays)-1])
		sched.FireNext()
	}

	if want := []time.Duration{3 * time.Second, 6 * time.Second, 12 * time.Second}; !reflect.DeepEqual(waits, want) {
		t.Errorf("waits = %v, want %v", waits, want)
	}

	drain("connected", func() bool { return client.State() == domain.StateConnected })
	if client.Controller().Delay() != services.DefaultBackoffFloor {
		t.Errorf("budget after success = %v", client.Controller().Delay())
	}
}
