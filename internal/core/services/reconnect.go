package services

import (
	"log/slog"
	"time"

	"github.com/kamal-hamza/assetwatch/pkg/eventloop"
)

const (
	DefaultBackoffFloor   = 3 * time.Second
	DefaultBackoffCeiling = 30 * time.Second
)

// Backoff bounds the retry budget of a reconnect controller
type Backoff struct {
	Floor   time.Duration
	Ceiling time.Duration
}

// DefaultBackoff starts at three seconds and caps at thirty
var DefaultBackoff = Backoff{Floor: DefaultBackoffFloor, Ceiling: DefaultBackoffCeiling}

func (b Backoff) normalize() Backoff {
	if b.Floor <= 0 {
		b.Floor = DefaultBackoffFloor
	}
	if b.Ceiling <= 0 {
		b.Ceiling = DefaultBackoffCeiling
	}
	if b.Ceiling < b.Floor {
		b.Ceiling = b.Floor
	}
	return b
}

// Next doubles delay, capped at the ceiling
func (b Backoff) Next(delay time.Duration) time.Duration {
	next := delay * 2
	if next > b.Ceiling || next <= 0 {
		return b.Ceiling
	}
	return next
}

// ReconnectState is the controller's own state, distinct from the
// user-facing connection state
type ReconnectState int

const (
	ReconnectIdle ReconnectState = iota
	ReconnectConnecting
	ReconnectConnected
	ReconnectWaiting
)

func (s ReconnectState) String() string {
	switch s {
	case ReconnectConnecting:
		return "connecting"
	case ReconnectConnected:
		return "connected"
	case ReconnectWaiting:
		return "waiting"
	default:
		return "idle"
	}
}

// ReconnectController decides when a client dials again after a drop.
// It owns the retry budget: the delay used for the next wait. Every method
// must be called on the event loop.
type ReconnectController struct {
	sched   eventloop.Scheduler
	backoff Backoff
	connect func()
	logger  *slog.Logger

	state    ReconnectState
	delay    time.Duration
	timer    eventloop.Timer
	attempts int
	stopped  bool
}

// NewReconnectController creates an idle controller. connect is called on
// the loop whenever a connection attempt should start.
func NewReconnectController(sched eventloop.Scheduler, backoff Backoff, connect func(), logger *slog.Logger) *ReconnectController {
	if logger == nil {
		logger = slog.Default()
	}
	backoff = backoff.normalize()
	return &ReconnectController{
		sched:   sched,
		backoff: backoff,
		connect: connect,
		logger:  logger,
		state:   ReconnectIdle,
		delay:   backoff.Floor,
	}
}

// Start moves idle to connecting and triggers the first attempt.
// It returns false if the controller is not idle or was stopped.
func (r *ReconnectController) Start() bool {
	if r.stopped || r.state != ReconnectIdle {
		return false
	}
	r.state = ReconnectConnecting
	r.connect()
	return true
}

// Connected records a successful open and resets the budget to the floor
func (r *ReconnectController) Connected() {
	if r.stopped || r.state != ReconnectConnecting {
		return
	}
	r.state = ReconnectConnected
	r.delay = r.backoff.Floor
	r.attempts = 0
}

// Disconnected records a drop or a failed attempt and schedules a retry
// after the current budget. It returns the scheduled delay, or zero when
// nothing was scheduled.
func (r *ReconnectController) Disconnected() time.Duration {
	if r.stopped {
		return 0
	}
	if r.state != ReconnectConnected && r.state != ReconnectConnecting {
		return 0
	}

	r.state = ReconnectWaiting
	wait := r.delay
	r.timer = r.sched.AfterFunc(wait, r.retry)
	r.logger.Debug("reconnect scheduled", "delay_ms", wait.Milliseconds(), "attempt", r.attempts+1)
	return wait
}

func (r *ReconnectController) retry() {
	if r.stopped || r.state != ReconnectWaiting {
		return
	}
	r.timer = nil
	r.state = ReconnectConnecting
	r.delay = r.backoff.Next(r.delay)
	r.attempts++
	r.connect()
}

// Stop cancels any pending retry and moves to idle for good
func (r *ReconnectController) Stop() {
	if r.stopped {
		return
	}
	r.stopped = true
	r.state = ReconnectIdle
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

// State returns the controller state
func (r *ReconnectController) State() ReconnectState {
	return r.state
}

// Delay returns the current retry budget
func (r *ReconnectController) Delay() time.Duration {
	return r.delay
}

// Attempts returns the number of retries since the last successful open
func (r *ReconnectController) Attempts() int {
	return r.attempts
}
