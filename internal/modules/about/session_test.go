package about

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"maragu.dev/gomponents"

	"github.com/halcyonlabs/halcyon/internal/analytics"
	"github.com/halcyonlabs/halcyon/internal/content"
	"github.com/halcyonlabs/halcyon/internal/tracker"
)

func testDocument() *content.Document {
	return &content.Document{
		Company: content.Company{Name: "Halcyon Labs", Founded: 2014},
		Hero:    content.Hero{Title: "We build quiet machinery."},
		History: []content.History{
			{Year: "2014", Heading: "Start", Narrative: "It began small."},
			{Year: "2019", Heading: "Growth", Narrative: "Then it grew."},
			{Year: "2025", Heading: "Today", Narrative: "Here we are."},
		},
		Pillars: []content.Pillar{
			{Kind: content.PillarMission, Title: "Mission", Body: "Do the work."},
		},
		Timeline: []content.Milestone{
			{Year: "2014", Title: "Founded", Description: "One room."},
			{Year: "2019", Title: "Remote", Description: "Eight countries."},
			{Year: "2022", Title: "Scale", Description: "A trillion events."},
			{Year: "2025", Title: "Today", Description: "Four products."},
		},
		Testimonials: []content.Testimonial{
			{Quote: "Great.", Author: "A"},
			{Quote: "Solid.", Author: "B"},
			{Quote: "Calm.", Author: "C"},
		},
	}
}

// fragmentSink collects rendered fragments pushed by a session.
type fragmentSink struct {
	mu    sync.Mutex
	nodes []gomponents.Node
}

func (f *fragmentSink) push(node gomponents.Node) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nodes = append(f.nodes, node)
}

func (f *fragmentSink) rendered(t *testing.T) []string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.nodes))
	for _, node := range f.nodes {
		var sb strings.Builder
		require.NoError(t, node.Render(&sb))
		out = append(out, sb.String())
	}
	return out
}

func (f *fragmentSink) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.nodes)
}

func quietSessionConfig() sessionConfig {
	// Long typewriter cadence and autoplay interval so tests control when
	// things move.
	return sessionConfig{
		autoplayOpts: []tracker.Option{tracker.WithAutoplayInterval(time.Hour)},
		typerOpts:    []tracker.TypewriterOption{tracker.WithCadence(time.Hour)},
	}
}

func TestSession_JumpUpdatesCarousel(t *testing.T) {
	sink := &fragmentSink{}
	collector := analytics.NewMemoryCollector()
	s := newSession("v1", testDocument(), collector, sink.push, quietSessionConfig())
	defer s.Close()

	before := sink.count()
	s.HandleJump(SectionTestimonials, 2, "")

	assert.Greater(t, sink.count(), before)
	assert.Equal(t, 2, s.testimonials.Snapshot().ActiveIndex)

	var jump *analytics.Event
	for _, e := range collector.Events() {
		if e.Kind == analytics.EventJump {
			e := e
			jump = &e
		}
	}
	require.NotNil(t, jump, "jump recorded")
	assert.Equal(t, SectionTestimonials, jump.Section)
	assert.Equal(t, 2, jump.Index)
}

func TestSession_JumpDirections(t *testing.T) {
	sink := &fragmentSink{}
	s := newSession("v1", testDocument(), analytics.NopCollector{}, sink.push, quietSessionConfig())
	defer s.Close()

	s.HandleJump(SectionTestimonials, 0, "next")
	assert.Equal(t, 1, s.testimonials.Snapshot().ActiveIndex)
	s.HandleJump(SectionTestimonials, 0, "prev")
	assert.Equal(t, 0, s.testimonials.Snapshot().ActiveIndex)
}

func TestSession_TimelineProgressDrivesIndicator(t *testing.T) {
	sink := &fragmentSink{}
	s := newSession("v1", testDocument(), analytics.NopCollector{}, sink.push, quietSessionConfig())
	defer s.Close()

	s.HandleProgress(SectionTimeline, 0.6)
	assert.Equal(t, 2, s.timeline.Snapshot().ActiveIndex)
	assert.InDelta(t, 60.0, s.timeline.Snapshot().Progress, 0.001)

	fragments := sink.rendered(t)
	require.NotEmpty(t, fragments)
	last := fragments[len(fragments)-1]
	assert.Contains(t, last, "timeline-indicator")
	assert.Contains(t, last, "width: 60.0%")
}

func TestSession_HistoryIntersectionRetargetsTypewriter(t *testing.T) {
	sink := &fragmentSink{}
	s := newSession("v1", testDocument(), analytics.NopCollector{}, sink.push, sessionConfig{
		autoplayOpts: []tracker.Option{tracker.WithAutoplayInterval(time.Hour)},
		typerOpts:    []tracker.TypewriterOption{tracker.WithCadence(2 * time.Millisecond)},
	})
	defer s.Close()

	s.HandleIntersect(SectionHistory, 1, 0.9, true)
	assert.Equal(t, 1, s.history.Snapshot().ActiveIndex)

	// The typewriter switches to the new entry's narrative and emits it.
	require.Eventually(t, func() bool {
		for _, frag := range sink.rendered(t) {
			if strings.Contains(frag, "Then it grew.") {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSession_InteractPausesAndResumesTypewriter(t *testing.T) {
	sink := &fragmentSink{}
	s := newSession("v1", testDocument(), analytics.NopCollector{}, sink.push, sessionConfig{
		autoplayOpts: []tracker.Option{tracker.WithAutoplayInterval(time.Hour)},
		typerOpts:    []tracker.TypewriterOption{tracker.WithCadence(5 * time.Millisecond)},
	})
	defer s.Close()

	require.Eventually(t, func() bool {
		return s.typer.Offset() > 2
	}, 2*time.Second, 2*time.Millisecond)

	s.HandleInteract(SectionHistory, false)
	frozen := s.typer.Offset()
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, frozen, s.typer.Offset())

	s.HandleInteract(SectionHistory, true)
	require.Eventually(t, func() bool {
		return s.typer.Offset() > frozen
	}, 2*time.Second, 2*time.Millisecond)
}

func TestSession_AutoplayToggle(t *testing.T) {
	sink := &fragmentSink{}
	collector := analytics.NewMemoryCollector()
	s := newSession("v1", testDocument(), collector, sink.push, quietSessionConfig())
	defer s.Close()

	s.HandleAutoplay(SectionTestimonials, false)
	assert.Equal(t, tracker.AutoplayPausedByUser, s.testimonials.Snapshot().Autoplay)

	s.HandleAutoplay(SectionTestimonials, true)
	assert.Equal(t, tracker.AutoplayRunning, s.testimonials.Snapshot().Autoplay)

	assert.Contains(t, collector.Kinds(), analytics.EventAutoplayToggle)
}

func TestSession_ReducedMotionDisablesMotion(t *testing.T) {
	sink := &fragmentSink{}
	cfg := quietSessionConfig()
	cfg.reducedMotion = true
	s := newSession("v1", testDocument(), analytics.NopCollector{}, sink.push, cfg)
	defer s.Close()

	assert.Equal(t, tracker.AutoplayPausedReducedMotion, s.testimonials.Snapshot().Autoplay)
	assert.Equal(t, 0, s.typer.Offset(), "typewriter never starts under reduced motion")

	// Manual navigation still works.
	s.HandleJump(SectionTestimonials, 1, "")
	assert.Equal(t, 1, s.testimonials.Snapshot().ActiveIndex)
}

func TestSession_CloseIsTerminal(t *testing.T) {
	sink := &fragmentSink{}
	s := newSession("v1", testDocument(), analytics.NopCollector{}, sink.push, quietSessionConfig())

	s.Close()
	s.Close()

	n := sink.count()
	s.HandleJump(SectionTestimonials, 2, "")
	s.HandleProgress(SectionTimeline, 0.9)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, n, sink.count(), "no fragments after close")
}

func TestSessions_ReapsIdleSessions(t *testing.T) {
	sink := &fragmentSink{}
	mgr := NewSessions(testDocument(), analytics.NopCollector{},
		WithIdleTimeout(30*time.Millisecond),
		WithReapInterval(10*time.Millisecond),
		WithSessionConfig(quietSessionConfig()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mgr.Start(ctx)

	mgr.GetOrCreate("v1", sink.push)
	assert.Equal(t, 1, mgr.Count())

	require.Eventually(t, func() bool {
		return mgr.Count() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSessions_ReducedMotionRebuildsSession(t *testing.T) {
	sink := &fragmentSink{}
	mgr := NewSessions(testDocument(), analytics.NopCollector{},
		WithSessionConfig(quietSessionConfig()))
	defer mgr.CloseAll()

	first := mgr.GetOrCreate("v1", sink.push)
	assert.Equal(t, tracker.AutoplayRunning, first.testimonials.Snapshot().Autoplay)

	mgr.SetReducedMotion("v1", true)
	assert.Equal(t, 0, mgr.Count(), "old session torn down")

	second := mgr.GetOrCreate("v1", sink.push)
	assert.Equal(t, tracker.AutoplayPausedReducedMotion, second.testimonials.Snapshot().Autoplay)
}

func TestSessions_RepeatedMotionReportIsNoOp(t *testing.T) {
	sink := &fragmentSink{}
	mgr := NewSessions(testDocument(), analytics.NopCollector{},
		WithSessionConfig(quietSessionConfig()))
	defer mgr.CloseAll()

	mgr.SetReducedMotion("v1", true)
	first := mgr.GetOrCreate("v1", sink.push)

	// A reconnect replays the same preference; the live session survives.
	mgr.SetReducedMotion("v1", true)
	assert.Same(t, first, mgr.Get("v1"))

	// Same for the default preference when none was ever recorded.
	second := mgr.GetOrCreate("v2", sink.push)
	mgr.SetReducedMotion("v2", false)
	assert.Same(t, second, mgr.Get("v2"))
}
