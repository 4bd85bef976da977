// Package tracker implements the scroll progress and active-item state
// machine behind the About page's history narrative, year timeline, and
// testimonial carousel. One parameterized implementation serves every view
// variant: resolution policy, autoplay, and wrap behavior are configuration.
//
// The tracker is event-driven and single-writer: all mutation happens on
// discrete calls (observer callbacks, user actions, timer ticks) serialized
// by an internal mutex. No call blocks.
package tracker

import (
	"math"
	"sync"
	"time"
)

// Entry is one unit of content in an ordered sequence (a history year, a
// timeline year, a testimonial). Entries are immutable for the life of a
// tracker.
type Entry struct {
	// ID is the unique, ordered key for the entry (e.g. "2019").
	ID string
}

// ResolvePolicy selects how observer input maps to the active index.
type ResolvePolicy int

const (
	// PolicyProgress maps continuous scroll progress p in [0,1] to
	// floor(p*N) clamped to [0,N-1]. Deterministic; required wherever a
	// numeric progress bar is displayed alongside the entries so the two
	// stay consistent.
	PolicyProgress ResolvePolicy = iota

	// PolicyThreshold activates an entry when its viewport intersection
	// ratio exceeds the configured threshold. When several entries qualify
	// within one scroll gesture, the last callback to arrive wins. That
	// tie-break is accepted behavior, not a closest-to-center guarantee.
	PolicyThreshold
)

// AutoplayState is the autoplay half of the tracker state machine.
type AutoplayState string

const (
	// AutoplayRunning means a timer is advancing the active index.
	AutoplayRunning AutoplayState = "running"
	// AutoplayPausedByUser means an interaction suspended autoplay. Unless
	// the user explicitly disabled autoplay, it resumes after the
	// inactivity window elapses.
	AutoplayPausedByUser AutoplayState = "paused_by_user"
	// AutoplayPausedReducedMotion is entered at construction when the
	// visitor prefers reduced motion. It is terminal: autoplay never starts
	// automatically, though manual navigation still works.
	AutoplayPausedReducedMotion AutoplayState = "paused_reduced_motion"
	// AutoplayDisabled means autoplay is off for this tracker (configured
	// off, or fewer than two entries).
	AutoplayDisabled AutoplayState = "disabled"
)

// Snapshot is the tracker's externally visible state, consumed by progress
// bars, dot indicators, and jump controls.
type Snapshot struct {
	ActiveIndex int           `json:"active_index"`
	ActiveID    string        `json:"active_id"`
	Progress    float64       `json:"progress"` // 0..100
	Paused      bool          `json:"paused"`
	Autoplay    AutoplayState `json:"autoplay"`
}

// Listener receives a snapshot after every observable state change.
type Listener func(Snapshot)

// Tracker is the canonical active-item state machine.
type Tracker struct {
	mu sync.Mutex

	entries []Entry
	opts    options

	activeIndex int
	progress    float64 // 0..100
	autoplay    AutoplayState

	// userDisabled records an explicit autoplay toggle-off; inactivity never
	// resumes past it.
	userDisabled bool

	lastInteraction time.Time
	// debounceUntil suppresses observer-driven updates while a programmatic
	// smooth-scroll triggered by Jump is still animating. The scroll
	// primitive offers no completion signal, so this is a fixed window.
	debounceUntil time.Time

	autoplayTimer *time.Timer
	resumeTimer   *time.Timer

	closed bool
}

// New creates a tracker over the given entries. Zero or one entry disables
// autoplay and clamps the active index to 0; that is a working tracker, not
// an error.
func New(entries []Entry, opts ...Option) *Tracker {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	t := &Tracker{
		entries:  entries,
		opts:     o,
		autoplay: AutoplayDisabled,
	}

	switch {
	case !o.autoplayEnabled || len(entries) < 2:
		t.autoplay = AutoplayDisabled
	case o.reducedMotion:
		t.autoplay = AutoplayPausedReducedMotion
	default:
		t.autoplay = AutoplayRunning
		t.armAutoplayLocked()
	}

	return t
}

// Len returns the number of entries.
func (t *Tracker) Len() int { return len(t.entries) }

// Snapshot returns the current externally visible state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() Snapshot {
	id := ""
	if len(t.entries) > 0 {
		id = t.entries[t.activeIndex].ID
	}
	return Snapshot{
		ActiveIndex: t.activeIndex,
		ActiveID:    id,
		Progress:    t.progress,
		Paused:      t.autoplay == AutoplayPausedByUser || t.autoplay == AutoplayPausedReducedMotion,
		Autoplay:    t.autoplay,
	}
}

// ResolveProgress maps progress p in [0,1] to an entry index for n entries:
// floor(p*n) clamped to [0,n-1]. Exposed for view code that needs the same
// mapping without a tracker instance.
func ResolveProgress(p float64, n int) int {
	if n <= 0 {
		return 0
	}
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	idx := int(math.Floor(p * float64(n)))
	if idx > n-1 {
		idx = n - 1
	}
	return idx
}

// ObserveProgress feeds a scroll-progress callback (p in [0,1]) into the
// tracker. Under PolicyProgress it also resolves the active index; under
// PolicyThreshold it only updates the progress percentage. Stale or
// out-of-order callbacks are harmless: the resolution is a pure function of
// the latest value.
func (t *Tracker) ObserveProgress(p float64) {
	t.mu.Lock()
	if t.closed || len(t.entries) == 0 {
		t.mu.Unlock()
		return
	}

	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	t.progress = p * 100

	if t.opts.policy == PolicyProgress && !t.inDebounceLocked() {
		t.activeIndex = ResolveProgress(p, len(t.entries))
	}
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.notify(snap)
}

// ObserveIntersection feeds a viewport-intersection callback for one entry.
// Only meaningful under PolicyThreshold. The most recent qualifying callback
// wins; callbacks inside the jump debounce window are suppressed.
func (t *Tracker) ObserveIntersection(index int, ratio float64, visible bool) {
	t.mu.Lock()
	if t.closed || t.opts.policy != PolicyThreshold {
		t.mu.Unlock()
		return
	}
	if index < 0 || index >= len(t.entries) {
		t.mu.Unlock()
		return
	}
	if t.inDebounceLocked() || !visible || ratio < t.opts.threshold {
		t.mu.Unlock()
		return
	}

	t.activeIndex = index
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.notify(snap)
}

// Jump is an explicit user navigation (click or keyboard) to entry k. It
// takes effect immediately, counts as an interaction, and opens the debounce
// window so observer callbacks racing the smooth-scroll cannot override it.
func (t *Tracker) Jump(k int) {
	t.mu.Lock()
	if t.closed || len(t.entries) == 0 {
		t.mu.Unlock()
		return
	}

	if k < 0 {
		k = 0
	}
	if k > len(t.entries)-1 {
		k = len(t.entries) - 1
	}
	t.activeIndex = k
	t.debounceUntil = time.Now().Add(t.opts.jumpDebounce)
	t.interactLocked()
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.notify(snap)
}

// Advance moves to the next entry (manual "next" control), honoring the
// configured wrap behavior.
func (t *Tracker) Advance() {
	t.stepManual(1)
}

// Retreat moves to the previous entry (manual "previous" control).
func (t *Tracker) Retreat() {
	t.stepManual(-1)
}

func (t *Tracker) stepManual(delta int) {
	t.mu.Lock()
	if t.closed || len(t.entries) == 0 {
		t.mu.Unlock()
		return
	}

	n := len(t.entries)
	next := t.activeIndex + delta
	if t.opts.wrap {
		next = ((next % n) + n) % n
	} else {
		if next < 0 {
			next = 0
		}
		if next > n-1 {
			next = n - 1
		}
	}
	t.activeIndex = next
	t.debounceUntil = time.Now().Add(t.opts.jumpDebounce)
	t.interactLocked()
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.notify(snap)
}

// Interact records a user interaction (hover, focus, keypress). While
// autoplay is running it transitions to PAUSED_BY_USER; every interaction
// re-arms the inactivity window that eventually resumes it.
func (t *Tracker) Interact() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.interactLocked()
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.notify(snap)
}

func (t *Tracker) interactLocked() {
	t.lastInteraction = time.Now()

	switch t.autoplay {
	case AutoplayRunning:
		t.autoplay = AutoplayPausedByUser
		t.stopAutoplayTimerLocked()
		t.armResumeLocked()
	case AutoplayPausedByUser:
		// Still paused; push the resume window out.
		if !t.userDisabled {
			t.armResumeLocked()
		}
	}
}

// SetAutoplay is the explicit user toggle. Disabling parks the tracker in
// PAUSED_BY_USER indefinitely (no inactivity resume); enabling restarts it
// unless reduced motion forbids it.
func (t *Tracker) SetAutoplay(enabled bool) {
	t.mu.Lock()
	if t.closed || t.autoplay == AutoplayDisabled || t.autoplay == AutoplayPausedReducedMotion {
		t.mu.Unlock()
		return
	}

	if enabled {
		t.userDisabled = false
		t.autoplay = AutoplayRunning
		t.stopResumeTimerLocked()
		t.armAutoplayLocked()
	} else {
		t.userDisabled = true
		t.autoplay = AutoplayPausedByUser
		t.stopAutoplayTimerLocked()
		t.stopResumeTimerLocked()
	}
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.notify(snap)
}

// Close releases every timer. After Close, all callbacks and ticks are
// no-ops: a timer that already fired mutates nothing. Safe to call twice.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	t.stopAutoplayTimerLocked()
	t.stopResumeTimerLocked()
}

// --- timers ---

// armAutoplayLocked keeps the invariant of exactly one outstanding autoplay
// timer: the previous timer is always stopped before a new one is armed.
func (t *Tracker) armAutoplayLocked() {
	t.stopAutoplayTimerLocked()
	t.autoplayTimer = time.AfterFunc(t.opts.autoplayInterval, t.autoplayTick)
}

func (t *Tracker) stopAutoplayTimerLocked() {
	if t.autoplayTimer != nil {
		t.autoplayTimer.Stop()
		t.autoplayTimer = nil
	}
}

// armResumeLocked re-arms the inactivity timer, canceling the previous one
// so timers never compound.
func (t *Tracker) armResumeLocked() {
	t.stopResumeTimerLocked()
	t.resumeTimer = time.AfterFunc(t.opts.resumeDelay, t.resumeTick)
}

func (t *Tracker) stopResumeTimerLocked() {
	if t.resumeTimer != nil {
		t.resumeTimer.Stop()
		t.resumeTimer = nil
	}
}

func (t *Tracker) autoplayTick() {
	t.mu.Lock()
	if t.closed || t.autoplay != AutoplayRunning {
		t.mu.Unlock()
		return
	}

	n := len(t.entries)
	next := t.activeIndex + 1
	if next >= n {
		if !t.opts.wrap {
			// Stop at the last entry; the timer is simply not re-armed.
			t.autoplayTimer = nil
			t.mu.Unlock()
			return
		}
		next = 0
	}
	t.activeIndex = next
	t.armAutoplayLocked()
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.notify(snap)
}

func (t *Tracker) resumeTick() {
	t.mu.Lock()
	if t.closed || t.userDisabled || t.autoplay != AutoplayPausedByUser {
		t.mu.Unlock()
		return
	}

	// Timer.Stop cannot recall a tick that already fired and is waiting on
	// the mutex, so a fresh interaction may have re-armed the window while
	// this tick was blocked. The interaction timestamp is authoritative:
	// if the window has not elapsed, re-arm for the remainder.
	if elapsed := time.Since(t.lastInteraction); elapsed < t.opts.resumeDelay {
		t.stopResumeTimerLocked()
		t.resumeTimer = time.AfterFunc(t.opts.resumeDelay-elapsed, t.resumeTick)
		t.mu.Unlock()
		return
	}

	t.autoplay = AutoplayRunning
	t.resumeTimer = nil
	t.armAutoplayLocked()
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.notify(snap)
}

func (t *Tracker) inDebounceLocked() bool {
	return time.Now().Before(t.debounceUntil)
}

func (t *Tracker) notify(snap Snapshot) {
	if t.opts.listener != nil {
		t.opts.listener(snap)
	}
}
