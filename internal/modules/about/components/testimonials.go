package components

import (
	"fmt"

	"maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	. "maragu.dev/gomponents/html"

	"github.com/halcyonlabs/halcyon/internal/content"
	"github.com/halcyonlabs/halcyon/internal/tracker"
)

// TestimonialSection renders the carousel container plus the static grid
// fallback. The grid is what no-script clients see; the shim hides it and
// reveals the carousel once the WebSocket is up.
func TestimonialSection(doc *content.Document) gomponents.Node {
	return Section(
		ID("testimonials"),
		Class("px-8 py-16"),
		Data("track", "testimonials"),
		H2(Class("text-3xl font-semibold"), gomponents.Text("What partners say")),
		Div(
			ID("carousel"),
			Class("mt-8 hidden"),
			Data("carousel", "true"),
			CarouselSlide(doc, tracker.Snapshot{Autoplay: tracker.AutoplayRunning}),
		),
		testimonialGrid(doc),
	)
}

// testimonialGrid is the static fallback: every quote visible, no controls.
func testimonialGrid(doc *content.Document) gomponents.Node {
	cards := make([]gomponents.Node, 0, len(doc.Testimonials))
	for i, tm := range doc.Testimonials {
		cards = append(cards, testimonialCard(doc, i, tm))
	}
	return Div(
		ID("testimonial-grid"),
		Class("mt-8 grid gap-6 md:grid-cols-2"),
		Data("carousel-fallback", "true"),
		gomponents.Group(cards),
	)
}

func testimonialCard(doc *content.Document, i int, tm content.Testimonial) gomponents.Node {
	return Figure(
		Class("rounded-xl border border-stone-200 bg-white p-6"),
		BlockQuote(Class("text-stone-700"), gomponents.Text(tm.Quote)),
		FigCaption(
			Class("mt-4 flex items-center gap-3 text-sm text-stone-500"),
			gomponents.If(tm.AvatarURL != "",
				Img(Src(tm.AvatarURL), Alt(tm.Author), Class("h-8 w-8 rounded-full"), Loading("lazy")),
			),
			gomponents.Text(doc.Attribution(i)),
		),
	)
}

// CarouselSlide is the fragment carrying the active testimonial, the dots,
// and the autoplay toggle. Replaced wholesale on every tracker change.
func CarouselSlide(doc *content.Document, snap tracker.Snapshot) gomponents.Node {
	if len(doc.Testimonials) == 0 {
		return Div(ID("carousel-slide"), hx.SwapOOB("true"))
	}

	idx := snap.ActiveIndex
	if idx < 0 || idx >= len(doc.Testimonials) {
		idx = 0
	}
	tm := doc.Testimonials[idx]

	toggleLabel := "Pause"
	if snap.Autoplay != tracker.AutoplayRunning {
		toggleLabel = "Play"
	}

	return Div(
		ID("carousel-slide"),
		hx.SwapOOB("true"),
		Data("interact-section", "testimonials"),
		testimonialCard(doc, idx, tm),
		Div(
			Class("mt-6 flex items-center justify-between"),
			Button(
				Type("button"),
				Class("text-stone-500 hover:text-stone-900"),
				Aria("label", "Previous testimonial"),
				Data("jump-section", "testimonials"),
				Data("jump-direction", "prev"),
				gomponents.Text("<"),
			),
			Div(
				Class("flex gap-2"),
				Role("tablist"),
				indicatorDots("testimonials", idx, len(doc.Testimonials)),
			),
			Button(
				Type("button"),
				Class("text-stone-500 hover:text-stone-900"),
				Aria("label", "Next testimonial"),
				Data("jump-section", "testimonials"),
				Data("jump-direction", "next"),
				gomponents.Text(">"),
			),
		),
		gomponents.If(snap.Autoplay != tracker.AutoplayDisabled,
			Button(
				Type("button"),
				Class("mt-4 text-sm text-stone-500 underline"),
				Data("autoplay-section", "testimonials"),
				Data("autoplay-enabled", fmt.Sprint(snap.Autoplay == tracker.AutoplayRunning)),
				gomponents.Text(toggleLabel),
			),
		),
	)
}
