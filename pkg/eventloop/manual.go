package eventloop

import (
	"sort"
	"sync"
	"time"
)

// Manual is a Scheduler driven by hand. Time only moves when Advance or
// FireNext is called, which makes timer-heavy code deterministic in tests.
// Post may be called from any goroutine; queued work only runs inside
// RunPending, Advance, FireNext or Do.
type Manual struct {
	mu     sync.Mutex
	now    time.Duration
	queue  []func()
	timers []*manualTimer
	seq    int
	delays []time.Duration
}

type manualTimer struct {
	m       *Manual
	due     time.Duration
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

// NewManual creates a manual scheduler at time zero
func NewManual() *Manual {
	return &Manual{}
}

// Post implements Scheduler
func (m *Manual) Post(fn func()) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, fn)
	return true
}

// Do runs fn immediately on the calling goroutine
func (m *Manual) Do(fn func()) error {
	fn()
	return nil
}

// AfterFunc implements Scheduler
func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{m: m, due: m.now + d, seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	m.delays = append(m.delays, d)
	return t
}

func (t *manualTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Now returns the elapsed virtual time
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Delays returns every delay passed to AfterFunc, in call order
func (m *Manual) Delays() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Duration, len(m.delays))
	copy(out, m.delays)
	return out
}

// Pending returns the number of timers that can still fire
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// RunPending drains the posted queue, including work posted while draining.
// It returns the number of callbacks run.
func (m *Manual) RunPending() int {
	n := 0
	for {
		m.mu.Lock()
		if len(m.queue) == 0 {
			m.mu.Unlock()
			return n
		}
		fn := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()

		fn()
		n++
	}
}

// Advance moves virtual time forward by d, firing due timers in order
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	m.RunPending()
	for {
		t := m.nextDue(target)
		if t == nil {
			break
		}
		m.fire(t)
	}

	m.mu.Lock()
	m.now = target
	m.mu.Unlock()
}

// FireNext jumps to the earliest live timer and fires it.
// It returns false when no timer is pending.
func (m *Manual) FireNext() bool {
	m.RunPending()
	t := m.nextDue(-1)
	if t == nil {
		return false
	}
	m.fire(t)
	return true
}

// nextDue returns the earliest live timer due at or before limit.
// A negative limit means no limit.
func (m *Manual) nextDue(limit time.Duration) *manualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()

	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}
	m.timers = live

	sort.SliceStable(m.timers, func(i, j int) bool {
		if m.timers[i].due == m.timers[j].due {
			return m.timers[i].seq < m.timers[j].seq
		}
		return m.timers[i].due < m.timers[j].due
	})
	if len(m.timers) == 0 {
		return nil
	}
	if limit >= 0 && m.timers[0].due > limit {
		return nil
	}
	return m.timers[0]
}

func (m *Manual) fire(t *manualTimer) {
	m.mu.Lock()
	if t.stopped || t.fired {
		m.mu.Unlock()
		return
	}
	t.fired = true
	if t.due > m.now {
		m.now = t.due
	}
	fn := t.fn
	m.mu.Unlock()

	fn()
	m.RunPending()
}
