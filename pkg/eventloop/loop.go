// Package eventloop runs callbacks one at a time on a single goroutine.
//
// Network readers, timers and UI code never touch connection state directly;
// they post closures to a Loop, which executes them in queue order. Timers
// created with AfterFunc run on the loop too, and stopping a timer from the
// loop guarantees its callback will not run even if the underlying clock
// already fired.
package eventloop

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// ErrStopped is returned when work is submitted to a stopped loop
var ErrStopped = errors.New("event loop stopped")

// Timer is a cancellable scheduled callback
type Timer interface {
	// Stop prevents the callback from running. It returns false if the
	// callback already ran or the timer was already stopped.
	Stop() bool
}

// Scheduler is the contract shared by Loop and Manual
type Scheduler interface {
	// Post queues fn to run on the loop. It returns false if the loop is stopped.
	Post(fn func()) bool
	// AfterFunc runs fn on the loop once d has elapsed
	AfterFunc(d time.Duration, fn func()) Timer
	// Do runs fn on the loop and waits for it to finish.
	// It must not be called from a loop callback.
	Do(fn func()) error
}

// Loop is a serialized executor backed by one goroutine
type Loop struct {
	logger *slog.Logger

	mu      sync.Mutex
	queue   []func()
	stopped bool

	wake chan struct{}
	quit chan struct{}
	done chan struct{}

	startOnce sync.Once
	stopOnce  sync.Once
}

// New creates a loop. Call Start before posting work.
func New(logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		logger: logger,
		wake:   make(chan struct{}, 1),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start launches the loop goroutine. Calling it twice is a no-op.
func (l *Loop) Start() {
	l.startOnce.Do(func() {
		go l.run()
	})
}

// Stop ends the loop and waits for the current callback to return.
// Queued callbacks that have not started are dropped.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		l.mu.Lock()
		l.stopped = true
		l.queue = nil
		l.mu.Unlock()
		close(l.quit)
	})
	// Start may never have been called
	l.startOnce.Do(func() { close(l.done) })
	<-l.done
}

// Post implements Scheduler
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Do implements Scheduler
func (l *Loop) Do(fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrStopped
	}

	select {
	case <-finished:
		return nil
	case <-l.done:
		// The loop may have run fn just before exiting
		select {
		case <-finished:
			return nil
		default:
			return ErrStopped
		}
	}
}

// AfterFunc implements Scheduler
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.clock = time.AfterFunc(d, func() {
		l.Post(func() {
			if !t.fired.CompareAndSwap(false, true) {
				return
			}
			fn()
		})
	})
	return t
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		select {
		case <-l.quit:
			return
		case <-l.wake:
		}

		for {
			fn := l.pop()
			if fn == nil {
				break
			}
			l.exec(fn)

			select {
			case <-l.quit:
				return
			default:
			}
		}
	}
}

func (l *Loop) pop() func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn
}

func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("event loop callback panicked", "panic", fmt.Sprint(r))
		}
	}()
	fn()
}

// loopTimer marks itself fired (or stopped) exactly once. Whichever of the
// loop callback and Stop flips the flag first wins.
type loopTimer struct {
	clock *time.Timer
	fired atomic.Bool
}

func (t *loopTimer) Stop() bool {
	t.clock.Stop()
	return t.fired.CompareAndSwap(false, true)
}
