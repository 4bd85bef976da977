package about

import (
	"context"
	"sync"
	"time"

	"maragu.dev/gomponents"

	"github.com/halcyonlabs/halcyon/internal/analytics"
	"github.com/halcyonlabs/halcyon/internal/content"
	"github.com/halcyonlabs/halcyon/internal/modules/about/components"
	"github.com/halcyonlabs/halcyon/internal/tracker"
)

// Section names as the client shim reports them.
const (
	SectionHistory      = "history"
	SectionTimeline     = "timeline"
	SectionTestimonials = "testimonials"
)

// pushFunc renders a fragment and delivers it to the session's visitor.
type pushFunc func(node gomponents.Node)

// Session holds one visitor's live page state: a tracker per animated
// section plus the history typewriter. All fragments the trackers produce go
// back to that visitor only.
type Session struct {
	visitorID string
	doc       *content.Document
	collector analytics.Collector
	push      pushFunc

	history      *tracker.Tracker
	typer        *tracker.Typewriter
	timeline     *tracker.Tracker
	testimonials *tracker.Tracker

	mu           sync.Mutex
	historyIndex int
	lastSeen     time.Time
	closed       bool
}

// sessionConfig carries the knobs tests shorten.
type sessionConfig struct {
	reducedMotion bool
	autoplayOpts  []tracker.Option
	typerOpts     []tracker.TypewriterOption
}

// newSession builds the three trackers for one visitor. The history and
// timeline sections are scroll-driven; the testimonial carousel autoplays.
func newSession(visitorID string, doc *content.Document, collector analytics.Collector, push pushFunc, cfg sessionConfig) *Session {
	s := &Session{
		visitorID: visitorID,
		doc:       doc,
		collector: collector,
		push:      push,
		lastSeen:  time.Now(),
	}

	s.history = tracker.New(doc.HistoryEntries(),
		tracker.WithPolicy(tracker.PolicyThreshold),
		tracker.WithWrap(false),
		tracker.WithReducedMotion(cfg.reducedMotion),
		tracker.WithListener(s.onHistoryChange),
	)

	typerOpts := append([]tracker.TypewriterOption{
		tracker.WithAdvance(s.onTypewriterAdvance),
	}, cfg.typerOpts...)
	s.typer = tracker.NewTypewriter(s.onTypewriterEmit, typerOpts...)

	s.timeline = tracker.New(doc.TimelineEntries(),
		tracker.WithPolicy(tracker.PolicyProgress),
		tracker.WithWrap(false),
		tracker.WithReducedMotion(cfg.reducedMotion),
		tracker.WithListener(s.onTimelineChange),
	)

	autoplayOpts := append([]tracker.Option{
		tracker.WithAutoplay(true),
		tracker.WithReducedMotion(cfg.reducedMotion),
		tracker.WithListener(s.onTestimonialChange),
	}, cfg.autoplayOpts...)
	s.testimonials = tracker.New(doc.TestimonialEntries(), autoplayOpts...)

	if !cfg.reducedMotion && len(doc.History) > 0 {
		s.typer.Set(doc.History[0].Narrative, len(doc.History) == 1)
	}

	return s
}

// Touch records activity so the reaper keeps the session alive.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
}

// LastSeen returns the time of the session's most recent client event.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// HandleProgress routes a scroll-progress sample to the section's tracker.
func (s *Session) HandleProgress(section string, p float64) {
	s.Touch()
	if t := s.trackerFor(section); t != nil {
		t.ObserveProgress(p)
	}
}

// HandleIntersect routes an intersection callback to the section's tracker.
func (s *Session) HandleIntersect(section string, index int, ratio float64, visible bool) {
	s.Touch()
	if t := s.trackerFor(section); t != nil {
		t.ObserveIntersection(index, ratio, visible)
	}
}

// HandleJump routes explicit navigation. direction is "prev", "next", or
// empty for an absolute index.
func (s *Session) HandleJump(section string, index int, direction string) {
	s.Touch()
	t := s.trackerFor(section)
	if t == nil {
		return
	}
	switch direction {
	case "prev":
		t.Retreat()
	case "next":
		t.Advance()
	default:
		t.Jump(index)
	}
	snap := t.Snapshot()
	s.collector.Record(context.Background(), analytics.Event{
		Kind:      analytics.EventJump,
		VisitorID: s.visitorID,
		Section:   section,
		EntryID:   snap.ActiveID,
		Index:     snap.ActiveIndex,
	})
}

// HandleInteract records user presence within a section. For the carousel it
// pauses autoplay; for the history narrative, visible=false (section left the
// viewport or the tab was hidden) pauses the typewriter and visible=true
// resumes it at the same character.
func (s *Session) HandleInteract(section string, visible bool) {
	s.Touch()
	switch section {
	case SectionHistory:
		if visible {
			s.typer.Resume()
		} else {
			s.typer.Pause()
		}
	case SectionTestimonials:
		s.testimonials.Interact()
	}
}

// HandleAutoplay is the explicit carousel play/pause toggle.
func (s *Session) HandleAutoplay(section string, enabled bool) {
	s.Touch()
	if section != SectionTestimonials {
		return
	}
	s.testimonials.SetAutoplay(enabled)
	s.collector.Record(context.Background(), analytics.Event{
		Kind:      analytics.EventAutoplayToggle,
		VisitorID: s.visitorID,
		Section:   section,
	})
}

// Close tears down every tracker and timer. Events arriving afterwards are
// no-ops.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.history.Close()
	s.typer.Close()
	s.timeline.Close()
	s.testimonials.Close()
}

func (s *Session) trackerFor(section string) *tracker.Tracker {
	switch section {
	case SectionHistory:
		return s.history
	case SectionTimeline:
		return s.timeline
	case SectionTestimonials:
		return s.testimonials
	default:
		return nil
	}
}

// onHistoryChange pushes the indicator and retargets the typewriter when the
// active entry actually changed.
func (s *Session) onHistoryChange(snap tracker.Snapshot) {
	s.mu.Lock()
	changed := snap.ActiveIndex != s.historyIndex
	s.historyIndex = snap.ActiveIndex
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}

	s.push(components.HistoryIndicator(snap.ActiveIndex, len(s.doc.History)))

	if changed && snap.ActiveIndex >= 0 && snap.ActiveIndex < len(s.doc.History) {
		entry := s.doc.History[snap.ActiveIndex]
		s.typer.Set(entry.Narrative, snap.ActiveIndex == len(s.doc.History)-1)
		s.collector.Record(context.Background(), analytics.Event{
			Kind:      analytics.EventSectionView,
			VisitorID: s.visitorID,
			Section:   SectionHistory,
			EntryID:   entry.Year,
			Index:     snap.ActiveIndex,
		})
	}
}

func (s *Session) onTypewriterEmit(prefix string, done bool) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}
	s.push(components.TypewriterLine(prefix, done))
}

// onTypewriterAdvance moves the history narrative forward after a completed
// entry has rested on screen.
func (s *Session) onTypewriterAdvance() {
	s.history.Advance()
}

func (s *Session) onTimelineChange(snap tracker.Snapshot) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}
	s.push(components.TimelineIndicator(s.doc, snap))
}

func (s *Session) onTestimonialChange(snap tracker.Snapshot) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}
	s.push(components.CarouselSlide(s.doc, snap))
}
