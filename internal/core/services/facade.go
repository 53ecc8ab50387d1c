package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kamal-hamza/assetwatch/internal/core/domain"
	"github.com/kamal-hamza/assetwatch/internal/core/ports"
	"github.com/kamal-hamza/assetwatch/pkg/eventloop"
)

// View is the read-only picture handed to the UI on every change
type View struct {
	Kind       domain.TransportKind
	State      domain.ConnectionState
	Snapshot   domain.Snapshot
	Highlights domain.HighlightSet
	Live       bool          // Snapshot came from the active transport
	RetryIn    time.Duration // current retry budget while disconnected
	UpdatedAt  time.Time
}

// FacadeOptions configures a Facade
type FacadeOptions struct {
	Transports      []ports.Transport
	API             ports.AssetAPI // optional, seeds the view before the first push
	Backoff         Backoff
	HighlightWindow time.Duration
	Logger          *slog.Logger
}

// Facade binds exactly one transport client at a time and republishes its
// snapshots and state as a View. Switching transports closes the old client
// completely before the new one is created.
//
// Exported methods may be called from any goroutine except a loop callback;
// they hop onto the loop with Do. Subscribers run on the loop.
type Facade struct {
	sched       eventloop.Scheduler
	transports  map[domain.TransportKind]ports.Transport
	api         ports.AssetAPI
	backoff     Backoff
	logger      *slog.Logger
	highlighter *Highlighter

	kind      domain.TransportKind
	client    *Client
	state     domain.ConnectionState
	snapshot  domain.Snapshot
	live      bool
	updatedAt time.Time
	closed    bool
	applying  bool // snapshot in progress, publish once at the end

	subscribers []subscriber
	nextSubID   int
}

type subscriber struct {
	id int
	fn func(View)
}

// NewFacade creates a facade with no active transport. Call Select to connect.
func NewFacade(sched eventloop.Scheduler, opts FacadeOptions) (*Facade, error) {
	if len(opts.Transports) == 0 {
		return nil, fmt.Errorf("at least one transport is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	f := &Facade{
		sched:      sched,
		transports: make(map[domain.TransportKind]ports.Transport, len(opts.Transports)),
		api:        opts.API,
		backoff:    opts.Backoff,
		logger:     logger,
		state:      domain.StateDisconnected,
	}
	for _, t := range opts.Transports {
		if _, dup := f.transports[t.Kind()]; dup {
			return nil, fmt.Errorf("duplicate transport %q", t.Kind())
		}
		f.transports[t.Kind()] = t
	}
	f.highlighter = NewHighlighter(sched, opts.HighlightWindow, func(domain.HighlightSet) {
		if !f.applying {
			f.publish()
		}
	})
	return f, nil
}

// Select makes kind the active transport. Selecting the active transport
// again is a no-op.
func (f *Facade) Select(kind domain.TransportKind) error {
	var err error
	if doErr := f.sched.Do(func() { err = f.selectTransport(kind) }); doErr != nil {
		return doErr
	}
	return err
}

// Toggle switches to the other transport and returns it
func (f *Facade) Toggle() (domain.TransportKind, error) {
	var (
		next domain.TransportKind
		err  error
	)
	if doErr := f.sched.Do(func() {
		next = f.kind.Next()
		if f.kind == "" {
			next = domain.TransportWebSocket
		}
		err = f.selectTransport(next)
	}); doErr != nil {
		return "", doErr
	}
	return next, err
}

// Seed fetches the asset list from the API and shows it until the first
// real-time snapshot arrives. It does nothing without an API.
func (f *Facade) Seed(ctx context.Context) error {
	if f.api == nil {
		return nil
	}
	snapshot, err := f.api.ListAssets(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch initial assets: %w", err)
	}
	return f.sched.Do(func() {
		if f.closed || f.live {
			return
		}
		f.snapshot = snapshot
		f.updatedAt = time.Now()
		f.publish()
	})
}

// Send writes a raw text message on the active connection
func (f *Facade) Send(text string) error {
	var err error
	if doErr := f.sched.Do(func() {
		switch {
		case f.closed:
			err = ErrClosed
		case f.client == nil:
			err = ErrNotConnected
		default:
			err = f.client.Send(text)
		}
	}); doErr != nil {
		return doErr
	}
	return err
}

// View returns the current view
func (f *Facade) View() View {
	var v View
	_ = f.sched.Do(func() { v = f.view() })
	return v
}

// Subscribe registers fn for every view change and immediately calls it
// with the current view. The returned function unsubscribes.
func (f *Facade) Subscribe(fn func(View)) func() {
	var id int
	_ = f.sched.Do(func() {
		f.nextSubID++
		id = f.nextSubID
		f.subscribers = append(f.subscribers, subscriber{id: id, fn: fn})
		fn(f.view())
	})
	return func() {
		_ = f.sched.Do(func() {
			for i, s := range f.subscribers {
				if s.id == id {
					f.subscribers = append(f.subscribers[:i], f.subscribers[i+1:]...)
					return
				}
			}
		})
	}
}

// Close tears down the active client and drops all subscribers
func (f *Facade) Close() {
	_ = f.sched.Do(f.shutdown)
}

func (f *Facade) shutdown() {
	if f.closed {
		return
	}
	f.closed = true
	f.teardown()
	f.subscribers = nil
}

func (f *Facade) selectTransport(kind domain.TransportKind) error {
	if f.closed {
		return ErrClosed
	}
	transport, ok := f.transports[kind]
	if !ok {
		return fmt.Errorf("transport %q is not configured", kind)
	}
	if f.client != nil && f.kind == kind {
		return nil
	}

	if f.client != nil {
		f.logger.Info("switching transport", "from", string(f.kind), "to", string(kind))
	}
	f.teardown()

	f.kind = kind
	f.live = false
	f.state = domain.StateDisconnected

	l := &clientListener{facade: f}
	client := NewClient(transport, f.sched, l, ClientOptions{Backoff: f.backoff, Logger: f.logger})
	l.client = client
	f.client = client

	f.publish()
	client.Open()
	return nil
}

// teardown closes the active client and cancels the timers it caused
func (f *Facade) teardown() {
	if f.client == nil {
		return
	}
	f.client.Close()
	f.client = nil
	f.highlighter.Cancel()
}

func (f *Facade) onSnapshot(snapshot domain.Snapshot) {
	previous, wasLive := f.snapshot, f.live
	f.snapshot = snapshot
	f.live = true
	f.updatedAt = time.Now()

	// The first snapshot of a client replaces whatever was shown
	// without diffing; later ones are compared with their predecessor.
	if wasLive {
		f.applying = true
		f.highlighter.Apply(DetectChanges(previous, snapshot))
		f.applying = false
	}
	f.publish()
}

func (f *Facade) onStateChange(state domain.ConnectionState) {
	f.state = state
	f.publish()
}

func (f *Facade) view() View {
	v := View{
		Kind:       f.kind,
		State:      f.state,
		Snapshot:   f.snapshot,
		Highlights: f.highlighter.Current(),
		Live:       f.live,
		UpdatedAt:  f.updatedAt,
	}
	if f.client != nil && f.client.Controller().State() == ReconnectWaiting {
		v.RetryIn = f.client.Controller().Delay()
	}
	return v
}

func (f *Facade) publish() {
	if f.closed || len(f.subscribers) == 0 {
		return
	}
	v := f.view()
	for _, s := range f.subscribers {
		s.fn(v)
	}
}

// clientListener routes callbacks of one client into the facade and
// ignores them once that client is no longer the active one
type clientListener struct {
	facade *Facade
	client *Client
}

func (l *clientListener) OnSnapshot(snapshot domain.Snapshot) {
	if l.facade.client != l.client {
		return
	}
	l.facade.onSnapshot(snapshot)
}

func (l *clientListener) OnStateChange(state domain.ConnectionState) {
	if l.facade.client != l.client {
		return
	}
	l.facade.onStateChange(state)
}
