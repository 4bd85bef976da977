// Package content holds the About page's static data: company facts, hero
// copy, the history narrative, the mission/vision/values/goals grid, the year
// timeline, and testimonials. The canonical document ships embedded in the
// binary; an external YAML file can override it for previews and tests.
package content

import (
	"github.com/halcyonlabs/halcyon/internal/tracker"
)

// Document is the full About page content set.
type Document struct {
	Company      Company       `yaml:"company" validate:"required"`
	Hero         Hero          `yaml:"hero" validate:"required"`
	History      []History     `yaml:"history" validate:"required,min=1,dive"`
	Pillars      []Pillar      `yaml:"pillars" validate:"required,min=1,dive"`
	Timeline     []Milestone   `yaml:"timeline" validate:"required,min=1,dive"`
	Testimonials []Testimonial `yaml:"testimonials" validate:"required,min=1,dive"`
	KPIs         []KPI         `yaml:"kpis" validate:"dive"`

	// Derived is computed after load by the rule engine; it is never read
	// from the YAML document.
	Derived Derived `yaml:"-"`
}

// Company identifies the organization the page is about.
type Company struct {
	Name    string `yaml:"name" validate:"required"`
	Founded int    `yaml:"founded" validate:"required,gt=1900"`
	Tagline string `yaml:"tagline"`
}

// Hero is the top-of-page section.
type Hero struct {
	Title    string `yaml:"title" validate:"required"`
	Subtitle string `yaml:"subtitle"`
	ImageURL string `yaml:"image_url" validate:"omitempty,url"`
	CTALabel string `yaml:"cta_label"`
	CTAHref  string `yaml:"cta_href" validate:"omitempty,uri"`
}

// History is one entry of the scroll-animated company-history narrative. The
// narrative text is what the typewriter emits character by character.
type History struct {
	Year      string `yaml:"year" validate:"required"`
	Heading   string `yaml:"heading" validate:"required"`
	Narrative string `yaml:"narrative" validate:"required"`
	ImageURL  string `yaml:"image_url" validate:"omitempty,url"`
}

// PillarKind enumerates the four cards of the pillar grid.
type PillarKind string

const (
	PillarMission PillarKind = "mission"
	PillarVision  PillarKind = "vision"
	PillarValues  PillarKind = "values"
	PillarGoals   PillarKind = "goals"
)

// Pillar is one card of the mission/vision/values/goals grid.
type Pillar struct {
	Kind   PillarKind `yaml:"kind" validate:"required,oneof=mission vision values goals"`
	Title  string     `yaml:"title" validate:"required"`
	Body   string     `yaml:"body" validate:"required"`
	Points []string   `yaml:"points"`
}

// Milestone is one entry of the interactive year timeline.
type Milestone struct {
	Year        string `yaml:"year" validate:"required"`
	Title       string `yaml:"title" validate:"required"`
	Description string `yaml:"description" validate:"required"`
	ImageURL    string `yaml:"image_url" validate:"omitempty,url"`
}

// Testimonial is one quote of the carousel.
type Testimonial struct {
	Quote     string `yaml:"quote" validate:"required"`
	Author    string `yaml:"author" validate:"required"`
	Role      string `yaml:"role"`
	Company   string `yaml:"company"`
	AvatarURL string `yaml:"avatar_url" validate:"omitempty,url"`
}

// KPI is a headline figure shown in the hero strip.
type KPI struct {
	Label string `yaml:"label" validate:"required"`
	Value string `yaml:"value" validate:"required"`
}

// Derived holds values computed from the document by rules at load time.
// Rule failures leave the zero value; views fall back to raw content.
type Derived struct {
	// YearsActive is the company age computed from the founding year.
	YearsActive int
	// Attributions is the formatted byline per testimonial, indexed like
	// Testimonials.
	Attributions []string
}

// HistoryEntries adapts the history list for the tracker.
func (d *Document) HistoryEntries() []tracker.Entry {
	out := make([]tracker.Entry, len(d.History))
	for i, h := range d.History {
		out[i] = tracker.Entry{ID: h.Year}
	}
	return out
}

// TimelineEntries adapts the timeline for the tracker.
func (d *Document) TimelineEntries() []tracker.Entry {
	out := make([]tracker.Entry, len(d.Timeline))
	for i, m := range d.Timeline {
		out[i] = tracker.Entry{ID: m.Year}
	}
	return out
}

// TestimonialEntries adapts the testimonial list for the tracker. Quotes have
// no natural key, so the index serves as the ID.
func (d *Document) TestimonialEntries() []tracker.Entry {
	out := make([]tracker.Entry, len(d.Testimonials))
	for i := range d.Testimonials {
		out[i] = tracker.Entry{ID: d.Testimonials[i].Author}
	}
	return out
}

// Attribution returns the derived byline for testimonial i, falling back to
// the raw author name when derivation was unavailable.
func (d *Document) Attribution(i int) string {
	if i >= 0 && i < len(d.Derived.Attributions) && d.Derived.Attributions[i] != "" {
		return d.Derived.Attributions[i]
	}
	if i >= 0 && i < len(d.Testimonials) {
		return d.Testimonials[i].Author
	}
	return ""
}
