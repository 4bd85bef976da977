package tracker

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emitRecorder collects every emitted prefix plus the done flag.
type emitRecorder struct {
	mu       sync.Mutex
	prefixes []string
	done     int
}

func (e *emitRecorder) emit(prefix string, done bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.prefixes = append(e.prefixes, prefix)
	if done {
		e.done++
	}
}

func (e *emitRecorder) all() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.prefixes...)
}

func (e *emitRecorder) doneCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.done
}

func TestTypewriter_EmitsEveryPrefixInOrder(t *testing.T) {
	rec := &emitRecorder{}
	tw := NewTypewriter(rec.emit, WithCadence(5*time.Millisecond))
	defer tw.Close()

	tw.Set("hello", true)

	require.Eventually(t, func() bool {
		return rec.doneCount() == 1
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"h", "he", "hel", "hell", "hello"}, rec.all())
	assert.Equal(t, 5, tw.Offset())
}

func TestTypewriter_PauseResumeExactOffset(t *testing.T) {
	rec := &emitRecorder{}
	tw := NewTypewriter(rec.emit, WithCadence(10*time.Millisecond))
	defer tw.Close()

	tw.Set("abcdefgh", true)

	// Let a few characters out, then pause.
	require.Eventually(t, func() bool {
		return tw.Offset() >= 3
	}, 2*time.Second, 2*time.Millisecond)
	tw.Pause()

	frozen := tw.Offset()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, frozen, tw.Offset(), "no emission while paused")

	tw.Resume()
	require.Eventually(t, func() bool {
		return rec.doneCount() == 1
	}, 2*time.Second, 2*time.Millisecond)

	// Exactly one emission per character: nothing repeated, nothing skipped.
	prefixes := rec.all()
	assert.Len(t, prefixes, len("abcdefgh"))
	for i, p := range prefixes {
		assert.Equal(t, "abcdefgh"[:i+1], p)
	}
}

func TestTypewriter_SetCancelsInFlightEmission(t *testing.T) {
	rec := &emitRecorder{}
	tw := NewTypewriter(rec.emit, WithCadence(5*time.Millisecond))
	defer tw.Close()

	tw.Set(strings.Repeat("a", 50), false)
	require.Eventually(t, func() bool {
		return tw.Offset() >= 2
	}, 2*time.Second, 2*time.Millisecond)

	tw.Set("bb", true)
	require.Eventually(t, func() bool {
		return rec.doneCount() == 1
	}, 2*time.Second, 2*time.Millisecond)

	// After the switch, no prefix from the cancelled entry may appear.
	sawSwitch := false
	for _, p := range rec.all() {
		if strings.HasPrefix(p, "b") {
			sawSwitch = true
		}
		if sawSwitch {
			assert.NotContains(t, p, "a", "cancelled emission leaked past Set")
		}
	}
	assert.True(t, sawSwitch)
	assert.Equal(t, 2, tw.Offset(), "offset resets for the new entry")
}

func TestTypewriter_AutoAdvanceAfterDelay(t *testing.T) {
	advanced := make(chan struct{}, 1)
	tw := NewTypewriter(func(string, bool) {},
		WithCadence(5*time.Millisecond),
		WithAdvanceDelay(30*time.Millisecond),
		WithAdvance(func() { advanced <- struct{}{} }))
	defer tw.Close()

	tw.Set("hi", false)

	select {
	case <-advanced:
	case <-time.After(2 * time.Second):
		t.Fatal("advance callback never fired")
	}
}

func TestTypewriter_LastEntrySuppressesAdvance(t *testing.T) {
	advanced := make(chan struct{}, 1)
	rec := &emitRecorder{}
	tw := NewTypewriter(rec.emit,
		WithCadence(5*time.Millisecond),
		WithAdvanceDelay(20*time.Millisecond),
		WithAdvance(func() { advanced <- struct{}{} }))
	defer tw.Close()

	tw.Set("end", true)
	require.Eventually(t, func() bool {
		return rec.doneCount() == 1
	}, 2*time.Second, 2*time.Millisecond)

	select {
	case <-advanced:
		t.Fatal("last entry must not auto-advance")
	case <-time.After(80 * time.Millisecond):
	}
}

func TestTypewriter_EmptyTextCompletesImmediately(t *testing.T) {
	rec := &emitRecorder{}
	tw := NewTypewriter(rec.emit, WithCadence(5*time.Millisecond))
	defer tw.Close()

	tw.Set("", true)
	assert.Equal(t, 1, rec.doneCount())
	assert.Equal(t, []string{""}, rec.all())
	assert.Equal(t, 0, tw.Offset())
}

func TestTypewriter_CloseStopsEverything(t *testing.T) {
	rec := &emitRecorder{}
	advanced := make(chan struct{}, 1)
	tw := NewTypewriter(rec.emit,
		WithCadence(5*time.Millisecond),
		WithAdvanceDelay(10*time.Millisecond),
		WithAdvance(func() { advanced <- struct{}{} }))

	tw.Set("abcdef", false)
	require.Eventually(t, func() bool {
		return tw.Offset() >= 1
	}, 2*time.Second, 2*time.Millisecond)

	tw.Close()
	tw.Close() // idempotent

	n := len(rec.all())
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, n, len(rec.all()), "no emission after close")

	select {
	case <-advanced:
		t.Fatal("advance fired after close")
	default:
	}

	// Post-close calls are no-ops.
	tw.Set("ghi", false)
	tw.Resume()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, n, len(rec.all()))
}

func TestTypewriter_PauseBeforeCompletionSuppressesAdvance(t *testing.T) {
	advanced := make(chan struct{}, 1)
	rec := &emitRecorder{}
	tw := NewTypewriter(rec.emit,
		WithCadence(5*time.Millisecond),
		WithAdvanceDelay(20*time.Millisecond),
		WithAdvance(func() { advanced <- struct{}{} }))
	defer tw.Close()

	tw.Set("ab", false)
	require.Eventually(t, func() bool {
		return rec.doneCount() == 1
	}, 2*time.Second, 2*time.Millisecond)

	// Pause lands inside the advance delay and cancels it.
	tw.Pause()
	select {
	case <-advanced:
		t.Fatal("advance fired while paused")
	case <-time.After(60 * time.Millisecond):
	}
}
