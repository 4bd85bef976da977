package components

import (
	"fmt"

	"maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	. "maragu.dev/gomponents/html"

	"github.com/halcyonlabs/halcyon/internal/content"
	"github.com/halcyonlabs/halcyon/internal/tracker"
)

// HistorySection renders the scroll-animated company-history narrative. The
// full narrative of every entry is present in the markup; the shim only adds
// the typewriter effect on top.
func HistorySection(doc *content.Document) gomponents.Node {
	entries := make([]gomponents.Node, 0, len(doc.History))
	for i, h := range doc.History {
		entries = append(entries, historyEntry(i, h))
	}
	return Section(
		ID("history"),
		Class("px-8 py-16"),
		Data("track", "history"),
		H2(Class("text-3xl font-semibold"), gomponents.Text("Our story")),
		Div(
			ID("history-typewriter"),
			Class("mt-4 min-h-16 font-mono text-lg text-stone-700"),
			Data("noscript-hide", "true"),
		),
		HistoryIndicator(0, len(doc.History)),
		Div(
			ID("history-entries"),
			Class("mt-8 space-y-16"),
			gomponents.Group(entries),
		),
	)
}

func historyEntry(index int, h content.History) gomponents.Node {
	return Article(
		ID(fmt.Sprintf("history-%s", h.Year)),
		Class("grid gap-6 md:grid-cols-[8rem_1fr]"),
		Data("track-index", fmt.Sprint(index)),
		Data("reveal", "fade"),
		Div(Class("text-4xl font-bold text-stone-300"), gomponents.Text(h.Year)),
		Div(
			H3(Class("text-xl font-semibold"), gomponents.Text(h.Heading)),
			P(Class("mt-2 text-stone-600"), Data("narrative", "true"), gomponents.Text(h.Narrative)),
			gomponents.If(h.ImageURL != "",
				Img(Src(h.ImageURL), Alt(h.Heading), Class("mt-4 rounded-lg"), Loading("lazy")),
			),
		),
	)
}

// HistoryIndicator renders the active-entry dots for the history narrative.
// Pushed as a fragment whenever the active entry changes.
func HistoryIndicator(activeIndex, n int) gomponents.Node {
	return Div(
		ID("history-indicator"),
		hx.SwapOOB("true"),
		Class("mt-6 flex gap-2"),
		Role("tablist"),
		indicatorDots("history", activeIndex, n),
	)
}

// TypewriterLine is the fragment carrying the typewriter's current prefix.
func TypewriterLine(prefix string, done bool) gomponents.Node {
	var caret gomponents.Node
	if !done {
		caret = Span(Class("animate-pulse"), gomponents.Text("|"))
	}
	return Div(
		ID("history-typewriter"),
		hx.SwapOOB("true"),
		Class("mt-4 min-h-16 font-mono text-lg text-stone-700"),
		gomponents.Text(prefix),
		caret,
	)
}

// indicatorDots renders n jump dots with the active one highlighted. Each dot
// is a real button so keyboard users can navigate without the shim.
func indicatorDots(section string, activeIndex, n int) gomponents.Node {
	dots := make([]gomponents.Node, 0, n)
	for i := 0; i < n; i++ {
		cls := "h-2 w-2 rounded-full bg-stone-300"
		current := "false"
		if i == activeIndex {
			cls = "h-2 w-2 rounded-full bg-stone-900"
			current = "true"
		}
		dots = append(dots, Button(
			Type("button"),
			Class(cls),
			Role("tab"),
			Aria("selected", current),
			Data("jump-section", section),
			Data("jump-index", fmt.Sprint(i)),
		))
	}
	return gomponents.Group(dots)
}

// HistoryActiveID returns the year of the snapshot's active history entry.
func HistoryActiveID(doc *content.Document, snap tracker.Snapshot) string {
	if snap.ActiveIndex >= 0 && snap.ActiveIndex < len(doc.History) {
		return doc.History[snap.ActiveIndex].Year
	}
	return ""
}
