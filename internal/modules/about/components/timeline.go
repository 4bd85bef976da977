package components

import (
	"fmt"

	"maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	. "maragu.dev/gomponents/html"

	"github.com/halcyonlabs/halcyon/internal/content"
	"github.com/halcyonlabs/halcyon/internal/tracker"
)

// TimelineSection renders the interactive year timeline with a progress bar.
// The progress policy keeps the bar and the highlighted year consistent: both
// derive from the same scroll-progress value.
func TimelineSection(doc *content.Document) gomponents.Node {
	milestones := make([]gomponents.Node, 0, len(doc.Timeline))
	for i, m := range doc.Timeline {
		milestones = append(milestones, milestoneCard(i, m))
	}
	return Section(
		ID("timeline"),
		Class("bg-white px-8 py-16"),
		Data("track", "timeline"),
		H2(Class("text-3xl font-semibold"), gomponents.Text("Milestones")),
		TimelineIndicator(doc, tracker.Snapshot{}),
		Div(
			ID("timeline-entries"),
			Class("mt-10 space-y-12"),
			gomponents.Group(milestones),
		),
	)
}

func milestoneCard(index int, m content.Milestone) gomponents.Node {
	return Article(
		ID(fmt.Sprintf("milestone-%s", m.Year)),
		Class("flex gap-6"),
		Data("track-index", fmt.Sprint(index)),
		Button(
			Type("button"),
			Class("text-2xl font-bold text-stone-400 hover:text-stone-900"),
			Data("jump-section", "timeline"),
			Data("jump-index", fmt.Sprint(index)),
			gomponents.Text(m.Year),
		),
		Div(
			H3(Class("text-lg font-semibold"), gomponents.Text(m.Title)),
			P(Class("mt-1 text-stone-600"), gomponents.Text(m.Description)),
			gomponents.If(m.ImageURL != "",
				Img(Src(m.ImageURL), Alt(m.Title), Class("mt-3 rounded-lg"), Loading("lazy")),
			),
		),
	)
}

// TimelineIndicator is the fragment carrying the year rail and progress bar.
func TimelineIndicator(doc *content.Document, snap tracker.Snapshot) gomponents.Node {
	years := make([]gomponents.Node, 0, len(doc.Timeline))
	for i, m := range doc.Timeline {
		cls := "text-sm text-stone-400"
		if i == snap.ActiveIndex {
			cls = "text-sm font-bold text-stone-900"
		}
		years = append(years, Button(
			Type("button"),
			Class(cls),
			Data("jump-section", "timeline"),
			Data("jump-index", fmt.Sprint(i)),
			gomponents.Text(m.Year),
		))
	}
	return Div(
		ID("timeline-indicator"),
		hx.SwapOOB("true"),
		Class("sticky top-0 z-10 bg-white py-4"),
		Div(Class("flex justify-between"), gomponents.Group(years)),
		Div(
			Class("mt-2 h-1 rounded bg-stone-200"),
			Div(
				Class("h-1 rounded bg-stone-900 transition-all"),
				StyleAttr(fmt.Sprintf("width: %.1f%%", snap.Progress)),
			),
		),
	)
}
