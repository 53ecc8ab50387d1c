package services

import (
	"time"

	"github.com/kamal-hamza/assetwatch/internal/core/domain"
	"github.com/kamal-hamza/assetwatch/pkg/eventloop"
)

// DefaultHighlightWindow is how long changed rows stay highlighted
const DefaultHighlightWindow = 3 * time.Second

// Highlighter holds the current highlight set and clears it once the
// display window passes. A new set replaces the old one and restarts the
// window. Every method must be called on the event loop.
type Highlighter struct {
	sched    eventloop.Scheduler
	window   time.Duration
	onChange func(domain.HighlightSet)

	set   domain.HighlightSet
	timer eventloop.Timer
}

// NewHighlighter creates a highlighter. onChange runs whenever the set is
// replaced or expires.
func NewHighlighter(sched eventloop.Scheduler, window time.Duration, onChange func(domain.HighlightSet)) *Highlighter {
	if window <= 0 {
		window = DefaultHighlightWindow
	}
	if onChange == nil {
		onChange = func(domain.HighlightSet) {}
	}
	return &Highlighter{sched: sched, window: window, onChange: onChange}
}

// Apply replaces the current set
func (h *Highlighter) Apply(set domain.HighlightSet) {
	h.stopTimer()
	if len(set) == 0 {
		if len(h.set) == 0 {
			return
		}
		h.set = nil
		h.onChange(nil)
		return
	}

	h.set = set
	h.timer = h.sched.AfterFunc(h.window, h.expire)
	h.onChange(set)
}

// Current returns the live set, nil when nothing is highlighted
func (h *Highlighter) Current() domain.HighlightSet {
	return h.set
}

// Cancel clears the set and stops the expiry timer without notifying
func (h *Highlighter) Cancel() {
	h.stopTimer()
	h.set = nil
}

func (h *Highlighter) expire() {
	h.timer = nil
	h.set = nil
	h.onChange(nil)
}

func (h *Highlighter) stopTimer() {
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
}
