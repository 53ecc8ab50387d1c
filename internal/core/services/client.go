package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kamal-hamza/assetwatch/internal/core/domain"
	"github.com/kamal-hamza/assetwatch/internal/core/ports"
	"github.com/kamal-hamza/assetwatch/pkg/eventloop"
)

var (
	// ErrClosed is returned when using a client or facade after Close
	ErrClosed = errors.New("connection closed")

	// ErrNotConnected is returned by Send while no connection is live
	ErrNotConnected = errors.New("not connected")
)

// ClientOptions tunes a Client
type ClientOptions struct {
	Backoff Backoff
	Logger  *slog.Logger
}

// Client owns one live connection over a Transport, keeps it alive with a
// ReconnectController and publishes decoded snapshots to its listener.
//
// All methods must be called on the event loop. Network reads happen on a
// goroutine per connection and are posted back to the loop, so callbacks
// fire in arrival order. Each dial gets a generation number; results that
// belong to an older generation, or arrive after Close, are discarded.
type Client struct {
	transport  ports.Transport
	sched      eventloop.Scheduler
	listener   ports.Listener
	logger     *slog.Logger
	controller *ReconnectController

	state  domain.ConnectionState
	stream ports.Stream
	cancel context.CancelFunc
	gen    uint64
	opened bool
	closed bool
}

var _ ports.TransportClient = (*Client)(nil)

// NewClient creates a client in the idle state. Nothing is dialed until Open.
func NewClient(transport ports.Transport, sched eventloop.Scheduler, listener ports.Listener, opts ClientOptions) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		transport: transport,
		sched:     sched,
		listener:  listener,
		logger:    logger.With("transport", string(transport.Kind())),
		state:     domain.StateDisconnected,
	}
	c.controller = NewReconnectController(sched, opts.Backoff, c.connect, c.logger)
	return c
}

func (c *Client) Kind() domain.TransportKind {
	return c.transport.Kind()
}

// State returns the current connection state
func (c *Client) State() domain.ConnectionState {
	return c.state
}

// Controller exposes the reconnect controller for inspection
func (c *Client) Controller() *ReconnectController {
	return c.controller
}

// Open starts the first connection attempt
func (c *Client) Open() {
	if c.closed || c.opened {
		return
	}
	c.opened = true
	c.logger.Info("opening connection", "endpoint", c.transport.Endpoint())
	c.controller.Start()
}

// Close tears down the connection, cancels the pending retry and
// unregisters every callback. No listener call happens after Close returns.
func (c *Client) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.gen++
	c.controller.Stop()
	c.dropConnection()
	c.state = domain.StateDisconnected
	c.logger.Info("connection closed")
}

// Send writes a raw text message on the live connection
func (c *Client) Send(text string) error {
	if c.closed {
		return ErrClosed
	}
	if c.stream == nil {
		return ErrNotConnected
	}
	if err := c.stream.Send([]byte(text)); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// connect is the controller's hook for a new attempt
func (c *Client) connect() {
	if c.closed {
		return
	}
	c.dropConnection()
	c.gen++
	gen := c.gen

	if c.controller.Attempts() > 0 {
		c.setState(domain.StateReconnecting)
	} else {
		c.setState(domain.StateConnecting)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	go func() {
		stream, err := c.transport.Dial(ctx)
		posted := c.sched.Post(func() { c.handleDial(gen, stream, err) })
		if !posted && stream != nil {
			stream.Close()
		}
	}()
}

func (c *Client) handleDial(gen uint64, stream ports.Stream, err error) {
	if c.closed || gen != c.gen {
		if stream != nil {
			stream.Close()
		}
		return
	}

	if err != nil {
		c.logger.Warn("connection attempt failed", "error", err)
		c.dropConnection()
		c.controller.Disconnected()
		c.setState(domain.StateDisconnected)
		return
	}

	c.stream = stream
	c.controller.Connected()
	c.logger.Info("connected", "endpoint", c.transport.Endpoint())
	c.setState(domain.StateConnected)

	go c.readLoop(gen, stream)
}

func (c *Client) readLoop(gen uint64, stream ports.Stream) {
	for {
		payload, err := stream.Recv()
		if err != nil {
			if !c.sched.Post(func() { c.handleDrop(gen, err) }) {
				stream.Close()
			}
			return
		}
		if !c.sched.Post(func() { c.handlePayload(gen, payload) }) {
			stream.Close()
			return
		}
	}
}

func (c *Client) handlePayload(gen uint64, payload []byte) {
	if c.closed || gen != c.gen {
		return
	}

	snapshot, ok, err := c.transport.Decode(payload)
	if err != nil {
		c.logger.Warn("dropping malformed message", "error", err, "bytes", len(payload))
		return
	}
	if !ok {
		c.logger.Debug("ignoring message without snapshot")
		return
	}
	c.listener.OnSnapshot(snapshot)
}

func (c *Client) handleDrop(gen uint64, err error) {
	if c.closed || gen != c.gen {
		return
	}

	c.logger.Warn("connection lost", "error", err)
	c.dropConnection()
	c.controller.Disconnected()
	c.setState(domain.StateDisconnected)
}

// dropConnection releases the live stream and any in-flight dial
func (c *Client) dropConnection() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.stream != nil {
		c.stream.Close()
		c.stream = nil
	}
}

func (c *Client) setState(state domain.ConnectionState) {
	if c.closed || state == c.state {
		return
	}
	c.state = state
	c.listener.OnStateChange(state)
}
