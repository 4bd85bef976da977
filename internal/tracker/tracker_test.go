package tracker

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entries(ids ...string) []Entry {
	out := make([]Entry, len(ids))
	for i, id := range ids {
		out[i] = Entry{ID: id}
	}
	return out
}

// recorder collects snapshots from the tracker's listener.
type recorder struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (r *recorder) listen(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) indexes() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.snaps))
	for i, s := range r.snaps {
		out[i] = s.ActiveIndex
	}
	return out
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

func TestResolveProgress(t *testing.T) {
	const n = 5

	assert.Equal(t, 0, ResolveProgress(0, n))
	assert.Equal(t, n-1, ResolveProgress(0.999, n))
	assert.Equal(t, n-1, ResolveProgress(1.0, n))
	assert.Equal(t, 0, ResolveProgress(-0.5, n))
	assert.Equal(t, n-1, ResolveProgress(2.0, n))
	assert.Equal(t, 0, ResolveProgress(0.5, 0))
	assert.Equal(t, 0, ResolveProgress(0.5, 1))

	// Monotonic non-decreasing in p.
	prev := 0
	for p := 0.0; p <= 1.0; p += 0.01 {
		idx := ResolveProgress(p, n)
		assert.GreaterOrEqual(t, idx, prev)
		assert.Less(t, idx, n)
		prev = idx
	}
}

func TestObserveProgress_ResolvesIndexAndPercent(t *testing.T) {
	tr := New(entries("2016", "2018", "2020", "2022"))
	defer tr.Close()

	tr.ObserveProgress(0.5)
	snap := tr.Snapshot()
	assert.Equal(t, 2, snap.ActiveIndex)
	assert.Equal(t, "2020", snap.ActiveID)
	assert.InDelta(t, 50.0, snap.Progress, 0.001)

	tr.ObserveProgress(1.0)
	snap = tr.Snapshot()
	assert.Equal(t, 3, snap.ActiveIndex)
	assert.InDelta(t, 100.0, snap.Progress, 0.001)
}

func TestObserveIntersection_LastCallbackWins(t *testing.T) {
	tr := New(entries("a", "b", "c"), WithPolicy(PolicyThreshold))
	defer tr.Close()

	tr.ObserveIntersection(1, 0.7, true)
	assert.Equal(t, 1, tr.Snapshot().ActiveIndex)

	// A later qualifying callback wins, even if it is "further" away.
	tr.ObserveIntersection(0, 0.6, true)
	assert.Equal(t, 0, tr.Snapshot().ActiveIndex)

	// Below threshold or invisible callbacks change nothing.
	tr.ObserveIntersection(2, 0.3, true)
	tr.ObserveIntersection(2, 0.9, false)
	assert.Equal(t, 0, tr.Snapshot().ActiveIndex)

	// Out-of-range indexes are ignored rather than panicking.
	tr.ObserveIntersection(-1, 0.9, true)
	tr.ObserveIntersection(3, 0.9, true)
	assert.Equal(t, 0, tr.Snapshot().ActiveIndex)
}

func TestJump_SuppressesObserversDuringDebounce(t *testing.T) {
	tr := New(entries("a", "b", "c", "d"),
		WithPolicy(PolicyThreshold),
		WithJumpDebounce(150*time.Millisecond))
	defer tr.Close()

	tr.Jump(3)
	assert.Equal(t, 3, tr.Snapshot().ActiveIndex)

	// Observer callbacks racing the programmatic smooth-scroll are ignored.
	tr.ObserveIntersection(0, 0.9, true)
	tr.ObserveIntersection(1, 0.9, true)
	assert.Equal(t, 3, tr.Snapshot().ActiveIndex)

	// After the debounce window, observers drive the index again.
	time.Sleep(200 * time.Millisecond)
	tr.ObserveIntersection(1, 0.9, true)
	assert.Equal(t, 1, tr.Snapshot().ActiveIndex)
}

func TestJump_ClampsOutOfRange(t *testing.T) {
	tr := New(entries("a", "b", "c"))
	defer tr.Close()

	tr.Jump(99)
	assert.Equal(t, 2, tr.Snapshot().ActiveIndex)
	tr.Jump(-4)
	assert.Equal(t, 0, tr.Snapshot().ActiveIndex)
}

func TestAutoplay_WrapsToStart(t *testing.T) {
	rec := &recorder{}
	tr := New(entries("a", "b", "c", "d", "e"),
		WithAutoplay(true),
		WithAutoplayInterval(25*time.Millisecond),
		WithListener(rec.listen))
	defer tr.Close()

	// Five ticks with wraparound bring the index back to the start.
	require.Eventually(t, func() bool {
		idxs := rec.indexes()
		return len(idxs) >= 5
	}, 2*time.Second, 5*time.Millisecond)

	idxs := rec.indexes()[:5]
	assert.Equal(t, []int{1, 2, 3, 4, 0}, idxs)
}

func TestAutoplay_StopsAtLastWithoutWrap(t *testing.T) {
	tr := New(entries("a", "b", "c"),
		WithAutoplay(true),
		WithWrap(false),
		WithAutoplayInterval(20*time.Millisecond))
	defer tr.Close()

	require.Eventually(t, func() bool {
		return tr.Snapshot().ActiveIndex == 2
	}, 2*time.Second, 5*time.Millisecond)

	// The timer has stopped: the index stays clamped at N-1.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 2, tr.Snapshot().ActiveIndex)
}

func TestAutoplay_PauseOnInteractionThenResume(t *testing.T) {
	tr := New(entries("a", "b", "c", "d", "e"),
		WithAutoplay(true),
		WithAutoplayInterval(30*time.Millisecond),
		WithResumeDelay(80*time.Millisecond))
	defer tr.Close()

	tr.Interact()
	snap := tr.Snapshot()
	assert.Equal(t, AutoplayPausedByUser, snap.Autoplay)
	assert.True(t, snap.Paused)

	// No auto-advance while paused.
	idx := tr.Snapshot().ActiveIndex
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, idx, tr.Snapshot().ActiveIndex)

	// After the inactivity window, autoplay resumes and advances again.
	require.Eventually(t, func() bool {
		s := tr.Snapshot()
		return s.Autoplay == AutoplayRunning && s.ActiveIndex > idx
	}, 2*time.Second, 5*time.Millisecond)
}

func TestAutoplay_RepeatedInteractionReArmsResume(t *testing.T) {
	tr := New(entries("a", "b", "c"),
		WithAutoplay(true),
		WithAutoplayInterval(25*time.Millisecond),
		WithResumeDelay(100*time.Millisecond))
	defer tr.Close()

	tr.Interact()
	// Keep interacting before the window elapses; resume must not fire.
	for i := 0; i < 4; i++ {
		time.Sleep(50 * time.Millisecond)
		tr.Interact()
	}
	assert.Equal(t, AutoplayPausedByUser, tr.Snapshot().Autoplay)
}

func TestAutoplay_StaleResumeTickDoesNotResumeEarly(t *testing.T) {
	tr := New(entries("a", "b", "c"),
		WithAutoplay(true),
		WithAutoplayInterval(20*time.Millisecond),
		WithResumeDelay(200*time.Millisecond))
	defer tr.Close()

	// Deliver a tick as if it had fired just before a fresh interaction
	// re-armed the window. Timer.Stop cannot recall a tick whose goroutine
	// is already running, so the tick itself must notice the window moved.
	tr.Interact()
	tr.resumeTick()
	assert.Equal(t, AutoplayPausedByUser, tr.Snapshot().Autoplay)

	// The stale tick re-arms the remainder; resume still happens once the
	// full window elapses.
	require.Eventually(t, func() bool {
		return tr.Snapshot().Autoplay == AutoplayRunning
	}, 2*time.Second, 5*time.Millisecond)
}

func TestAutoplay_ExplicitToggleOffIsSticky(t *testing.T) {
	tr := New(entries("a", "b", "c"),
		WithAutoplay(true),
		WithAutoplayInterval(20*time.Millisecond),
		WithResumeDelay(40*time.Millisecond))
	defer tr.Close()

	tr.SetAutoplay(false)
	assert.Equal(t, AutoplayPausedByUser, tr.Snapshot().Autoplay)

	// Well past the inactivity window, still paused.
	time.Sleep(150 * time.Millisecond)
	idx := tr.Snapshot().ActiveIndex
	assert.Equal(t, AutoplayPausedByUser, tr.Snapshot().Autoplay)

	// Explicit re-enable restarts the timer.
	tr.SetAutoplay(true)
	require.Eventually(t, func() bool {
		return tr.Snapshot().ActiveIndex != idx
	}, 2*time.Second, 5*time.Millisecond)
}

func TestReducedMotion_IsTerminalForAutoplay(t *testing.T) {
	tr := New(entries("a", "b", "c"),
		WithAutoplay(true),
		WithReducedMotion(true),
		WithAutoplayInterval(20*time.Millisecond))
	defer tr.Close()

	assert.Equal(t, AutoplayPausedReducedMotion, tr.Snapshot().Autoplay)

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 0, tr.Snapshot().ActiveIndex)

	// The toggle cannot override the preference.
	tr.SetAutoplay(true)
	assert.Equal(t, AutoplayPausedReducedMotion, tr.Snapshot().Autoplay)

	// Manual navigation still works.
	tr.Jump(2)
	assert.Equal(t, 2, tr.Snapshot().ActiveIndex)
}

func TestDegenerateEntryCounts(t *testing.T) {
	t.Run("single entry disables autoplay and clamps", func(t *testing.T) {
		tr := New(entries("only"), WithAutoplay(true), WithAutoplayInterval(10*time.Millisecond))
		defer tr.Close()

		assert.Equal(t, AutoplayDisabled, tr.Snapshot().Autoplay)
		tr.Jump(7)
		assert.Equal(t, 0, tr.Snapshot().ActiveIndex)
		tr.ObserveProgress(0.9)
		assert.Equal(t, 0, tr.Snapshot().ActiveIndex)
	})

	t.Run("empty tracker is inert but safe", func(t *testing.T) {
		tr := New(nil, WithAutoplay(true))
		defer tr.Close()

		assert.Equal(t, AutoplayDisabled, tr.Snapshot().Autoplay)
		tr.Jump(0)
		tr.ObserveProgress(0.5)
		tr.Interact()
		assert.Equal(t, 0, tr.Snapshot().ActiveIndex)
		assert.Equal(t, "", tr.Snapshot().ActiveID)
	})
}

func TestManualAdvanceRetreat(t *testing.T) {
	tr := New(entries("a", "b", "c"))
	defer tr.Close()

	tr.Advance()
	assert.Equal(t, 1, tr.Snapshot().ActiveIndex)
	tr.Advance()
	tr.Advance()
	assert.Equal(t, 0, tr.Snapshot().ActiveIndex, "advance past the end wraps")

	tr.Retreat()
	assert.Equal(t, 2, tr.Snapshot().ActiveIndex, "retreat before the start wraps")
}

func TestManualAdvance_NoWrapClamps(t *testing.T) {
	tr := New(entries("a", "b"), WithWrap(false))
	defer tr.Close()

	tr.Advance()
	tr.Advance()
	assert.Equal(t, 1, tr.Snapshot().ActiveIndex)

	tr.Retreat()
	tr.Retreat()
	assert.Equal(t, 0, tr.Snapshot().ActiveIndex)
}

func TestClose_IsTerminalAndIdempotent(t *testing.T) {
	rec := &recorder{}
	tr := New(entries("a", "b", "c"),
		WithAutoplay(true),
		WithAutoplayInterval(15*time.Millisecond),
		WithListener(rec.listen))

	tr.Close()
	tr.Close() // double close is safe

	before := rec.count()
	tr.Jump(2)
	tr.ObserveProgress(0.9)
	tr.Interact()
	tr.SetAutoplay(true)

	// Any timer that fires after close mutates nothing.
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, before, rec.count())
	assert.Equal(t, 0, tr.Snapshot().ActiveIndex)
}

func TestActiveIndexAlwaysInRange(t *testing.T) {
	rec := &recorder{}
	tr := New(entries("a", "b", "c", "d"),
		WithAutoplay(true),
		WithAutoplayInterval(10*time.Millisecond),
		WithJumpDebounce(0),
		WithListener(rec.listen))
	defer tr.Close()

	for _, p := range []float64{0, 0.3, 1.2, -1, 0.99, 1.0} {
		tr.ObserveProgress(p)
	}
	tr.Jump(100)
	tr.Jump(-100)
	time.Sleep(50 * time.Millisecond)

	for _, idx := range rec.indexes() {
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, 4)
	}
}
