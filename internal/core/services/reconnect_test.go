package services

import (
	"reflect"
	"testing"
	"time"

	"github.com/kamal-hamza/assetwatch/pkg/eventloop"
)

func newTestController(sched eventloop.Scheduler) (*ReconnectController, *int) {
	connects := 0
	r := NewReconnectController(sched, DefaultBackoff, func() { connects++ }, nil)
	return r, &connects
}

func TestReconnectBackoffSequence(t *testing.T) {
	sched := eventloop.NewManual()
	r, connects := newTestController(sched)

	if !r.Start() {
		t.Fatal("Start() from idle should succeed")
	}
	if r.State() != ReconnectConnecting || *connects != 1 {
		t.Fatalf("after Start: state=%v connects=%d", r.State(), *connects)
	}

	expected := []time.Duration{
		3 * time.Second,
		6 * time.Second,
		12 * time.Second,
		24 * time.Second,
		30 * time.Second,
		30 * time.Second,
	}

	var waits []time.Duration
	for range expected {
		waits = append(waits, r.Disconnected())
		if r.State() != ReconnectWaiting {
			t.Fatalf("expected waiting, got %v", r.State())
		}
		if !sched.FireNext() {
			t.Fatal("no retry timer scheduled")
		}
		if r.State() != ReconnectConnecting {
			t.Fatalf("expected connecting after retry, got %v", r.State())
		}
	}

	if !reflect.DeepEqual(waits, expected) {
		t.Errorf("waits = %v, want %v", waits, expected)
	}
	if !reflect.DeepEqual(sched.Delays(), expected) {
		t.Errorf("scheduled delays = %v, want %v", sched.Delays(), expected)
	}
	if *connects != len(expected)+1 {
		t.Errorf("connects = %d, want %d", *connects, len(expected)+1)
	}
	if r.Attempts() != len(expected) {
		t.Errorf("Attempts() = %d", r.Attempts())
	}
}

func TestReconnectSuccessResetsBudget(t *testing.T) {
	sched := eventloop.NewManual()
	r, _ := newTestController(sched)

	r.Start()
	r.Disconnected()
	sched.FireNext()
	r.Disconnected()
	sched.FireNext()
	if r.Delay() != 12*time.Second {
		t.Fatalf("budget = %v before success, want 12s", r.Delay())
	}

	r.Connected()
	if r.State() != ReconnectConnected {
		t.Fatalf("state = %v", r.State())
	}
	if r.Delay() != 3*time.Second {
		t.Errorf("budget = %v after success, want 3s", r.Delay())
	}
	if r.Attempts() != 0 {
		t.Errorf("Attempts() = %d after success", r.Attempts())
	}
	if got := r.Disconnected(); got != 3*time.Second {
		t.Errorf("next wait = %v, want 3s", got)
	}
}

func TestReconnectDisconnectWhileWaitingIsIgnored(t *testing.T) {
	sched := eventloop.NewManual()
	r, _ := newTestController(sched)

	r.Start()
	r.Connected()
	r.Disconnected()
	if got := r.Disconnected(); got != 0 {
		t.Errorf("second Disconnected() scheduled %v", got)
	}
	if sched.Pending() != 1 {
		t.Errorf("expected one pending timer, got %d", sched.Pending())
	}
	if r.Delay() != 3*time.Second {
		t.Errorf("budget changed while waiting: %v", r.Delay())
	}
}

func TestReconnectConnectedIgnoredOutsideConnecting(t *testing.T) {
	sched := eventloop.NewManual()
	r, _ := newTestController(sched)

	r.Connected()
	if r.State() != ReconnectIdle {
		t.Errorf("Connected() from idle moved to %v", r.State())
	}
}

func TestReconnectStopCancelsPendingRetry(t *testing.T) {
	sched := eventloop.NewManual()
	r, connects := newTestController(sched)

	r.Start()
	r.Disconnected()
	r.Stop()

	if r.State() != ReconnectIdle {
		t.Errorf("state = %v after Stop", r.State())
	}
	sched.Advance(time.Minute)
	if *connects != 1 {
		t.Errorf("retry ran after Stop: connects = %d", *connects)
	}

	// Everything after Stop is suppressed
	if r.Start() {
		t.Error("Start() after Stop() should fail")
	}
	r.Connected()
	if r.Disconnected() != 0 {
		t.Error("Disconnected() after Stop() should not schedule")
	}
	if r.State() != ReconnectIdle {
		t.Errorf("state = %v", r.State())
	}
	r.Stop()
}

func TestReconnectStopWinsOverFiredTimer(t *testing.T) {
	sched := eventloop.NewManual()
	connects := 0
	var r *ReconnectController
	r = NewReconnectController(sched, DefaultBackoff, func() { connects++ }, nil)

	r.Start()
	r.Disconnected()

	// Teardown queued ahead of the retry on the same loop
	sched.Post(r.Stop)
	sched.FireNext()

	if connects != 1 {
		t.Errorf("connect attempted after teardown: connects = %d", connects)
	}
}

func TestBackoffNormalize(t *testing.T) {
	b := Backoff{}.normalize()
	if b.Floor != DefaultBackoffFloor || b.Ceiling != DefaultBackoffCeiling {
		t.Errorf("zero backoff normalized to %+v", b)
	}

	b = Backoff{Floor: time.Minute, Ceiling: time.Second}.normalize()
	if b.Ceiling != time.Minute {
		t.Errorf("ceiling below floor normalized to %v", b.Ceiling)
	}

	b = Backoff{Floor: time.Second, Ceiling: 4 * time.Second}.normalize()
	got := []time.Duration{b.Next(time.Second), b.Next(2 * time.Second), b.Next(4 * time.Second)}
	want := []time.Duration{2 * time.Second, 4 * time.Second, 4 * time.Second}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Next() = %v, want %v", got, want)
	}
}

func TestReconnectStateString(t *testing.T) {
	states := map[ReconnectState]string{
		ReconnectIdle:       "idle",
		ReconnectConnecting: "connecting",
		ReconnectConnected:  "connected",
		ReconnectWaiting:    "waiting",
	}
	for s, want := range states {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", s, s.String(), want)
		}
	}
}

func TestReconnectZeroBackoffUsesDefaults(t *testing.T) {
	sched := eventloop.NewManual()
	controller := NewReconnectController(sched, Backoff{}, func() {}, nil)
	controller.Start()

	var waits []time.Duration
	for i := 0; i < 5; i++ {
		waits = append(waits, controller.Disconnected())
		sched.FireNext()
	}

	want := []time.Duration{3 * time.Second, 6 * time.Second, 12 * time.Second, 24 * time.Second, 30 * time.Second}
	if !reflect.DeepEqual(waits, want) {
		t.Errorf("waits = %v, want %v", waits, want)
	}
}
