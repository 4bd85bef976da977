package tracker

import (
	"sync"
	"time"
)

const (
	// DefaultCadence is the interval between emitted characters.
	DefaultCadence = 30 * time.Millisecond

	// DefaultAdvanceDelay is the pause after a fully emitted entry before
	// the auto-advance callback fires.
	DefaultAdvanceDelay = 2 * time.Second
)

// EmitFunc receives the emitted prefix after every character, plus a done
// flag once the full text is out.
type EmitFunc func(prefix string, done bool)

// Typewriter is the per-entry character-emission process behind the history
// narrative. It emits one character per cadence tick until the entry's text
// is exhausted, supports pause/resume at an exact character offset, and
// cancels cleanly when the entry changes so two emission loops can never
// interleave on shared display state.
type Typewriter struct {
	mu sync.Mutex

	text    []rune
	offset  int
	last    bool
	paused  bool
	closed  bool
	running bool

	// gen is bumped on every Set and Close. Timer callbacks carry the
	// generation they were armed under; a mismatch means the emission they
	// belonged to was cancelled, and they do nothing.
	gen int

	cadence      time.Duration
	advanceDelay time.Duration

	timer        *time.Timer
	advanceTimer *time.Timer

	emit      EmitFunc
	onAdvance func()
}

// TypewriterOption configures a Typewriter.
type TypewriterOption func(*Typewriter)

// WithCadence overrides the per-character interval.
func WithCadence(d time.Duration) TypewriterOption {
	return func(tw *Typewriter) { tw.cadence = d }
}

// WithAdvanceDelay overrides the delay between completion and auto-advance.
func WithAdvanceDelay(d time.Duration) TypewriterOption {
	return func(tw *Typewriter) { tw.advanceDelay = d }
}

// WithAdvance registers the callback fired after a completed entry's
// advance delay, when the entry is not the last and emission is not paused.
func WithAdvance(fn func()) TypewriterOption {
	return func(tw *Typewriter) { tw.onAdvance = fn }
}

// NewTypewriter creates a typewriter that reports emission through emit.
func NewTypewriter(emit EmitFunc, opts ...TypewriterOption) *Typewriter {
	tw := &Typewriter{
		cadence:      DefaultCadence,
		advanceDelay: DefaultAdvanceDelay,
		emit:         emit,
	}
	for _, opt := range opts {
		opt(tw)
	}
	return tw
}

// Set switches the typewriter to a new entry's text and starts emitting from
// offset zero. Any in-flight emission for the previous entry is cancelled,
// not merely ignored. last marks the final entry, which suppresses
// auto-advance on completion.
func (tw *Typewriter) Set(text string, last bool) {
	tw.mu.Lock()
	if tw.closed {
		tw.mu.Unlock()
		return
	}

	tw.gen++
	tw.stopTimersLocked()
	tw.text = []rune(text)
	tw.offset = 0
	tw.last = last
	tw.paused = false
	tw.running = len(tw.text) > 0

	if !tw.running {
		gen := tw.gen
		tw.mu.Unlock()
		// Empty text completes immediately.
		tw.emitSafe("", true)
		tw.scheduleAdvance(gen, last)
		return
	}

	tw.armLocked()
	tw.mu.Unlock()
}

// Pause suspends emission, preserving the current character offset.
func (tw *Typewriter) Pause() {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.closed || tw.paused {
		return
	}
	tw.paused = true
	tw.stopTimersLocked()
}

// Resume continues emission from the exact offset Pause left it at. No
// characters are repeated or skipped.
func (tw *Typewriter) Resume() {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.closed || !tw.paused {
		return
	}
	tw.paused = false
	if tw.running {
		tw.armLocked()
	}
}

// Offset reports the number of characters emitted for the current entry.
func (tw *Typewriter) Offset() int {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.offset
}

// Close cancels all pending work. Subsequent timer fires are no-ops.
func (tw *Typewriter) Close() {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.closed {
		return
	}
	tw.closed = true
	tw.gen++
	tw.stopTimersLocked()
}

func (tw *Typewriter) armLocked() {
	gen := tw.gen
	tw.timer = time.AfterFunc(tw.cadence, func() { tw.tick(gen) })
}

func (tw *Typewriter) stopTimersLocked() {
	if tw.timer != nil {
		tw.timer.Stop()
		tw.timer = nil
	}
	if tw.advanceTimer != nil {
		tw.advanceTimer.Stop()
		tw.advanceTimer = nil
	}
}

func (tw *Typewriter) tick(gen int) {
	tw.mu.Lock()
	if tw.closed || tw.paused || gen != tw.gen || !tw.running {
		tw.mu.Unlock()
		return
	}

	tw.offset++
	prefix := string(tw.text[:tw.offset])
	done := tw.offset >= len(tw.text)
	last := tw.last

	if done {
		tw.running = false
	} else {
		tw.armLocked()
	}
	tw.mu.Unlock()

	tw.emitSafe(prefix, done)

	if done {
		tw.scheduleAdvance(gen, last)
	}
}

// scheduleAdvance arms the post-completion delay that advances to the next
// entry, unless this entry is the last one.
func (tw *Typewriter) scheduleAdvance(gen int, last bool) {
	if last || tw.onAdvance == nil {
		return
	}

	tw.mu.Lock()
	if tw.closed || tw.paused || gen != tw.gen {
		tw.mu.Unlock()
		return
	}
	tw.advanceTimer = time.AfterFunc(tw.advanceDelay, func() {
		tw.mu.Lock()
		ok := !tw.closed && !tw.paused && gen == tw.gen
		tw.mu.Unlock()
		if ok {
			tw.onAdvance()
		}
	})
	tw.mu.Unlock()
}

func (tw *Typewriter) emitSafe(prefix string, done bool) {
	if tw.emit != nil {
		tw.emit(prefix, done)
	}
}
