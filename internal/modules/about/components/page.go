// Package components renders the About page and its live fragments with
// gomponents. The full page is server-rendered with every entry visible, so
// clients without the script shim still get complete content; the fragments
// are pushed over the WebSocket bridge to animate the page for everyone else.
package components

import (
	"fmt"

	"maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	. "maragu.dev/gomponents/html"

	"github.com/halcyonlabs/halcyon/internal/content"
)

// Page renders the complete About page document.
func Page(doc *content.Document) gomponents.Node {
	return Doctype(
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
				TitleEl(gomponents.Text(pageTitle(doc))),
				Script(Src("https://cdn.tailwindcss.com")),
				Link(Rel("stylesheet"), Href("/static/css/site.css")),
				Script(Src("/static/js/about.js"), Defer()),
			),
			Body(
				hx.Boost("true"),
				Class("bg-stone-50 text-stone-900 antialiased"),
				Hero(doc),
				KPIStrip(doc),
				HistorySection(doc),
				PillarGrid(doc),
				TimelineSection(doc),
				TestimonialSection(doc),
				pageFooter(doc),
			),
		),
	)
}

func pageTitle(doc *content.Document) string {
	return "About - " + doc.Company.Name
}

// Hero renders the top section with the company tagline and call to action.
func Hero(doc *content.Document) gomponents.Node {
	return Section(
		ID("hero"),
		Class("relative overflow-hidden px-8 py-24 text-center"),
		Data("parallax", "0.4"),
		gomponents.If(doc.Hero.ImageURL != "",
			Img(
				Src(doc.Hero.ImageURL),
				Alt(""),
				Class("absolute inset-0 h-full w-full object-cover opacity-20"),
				Data("kenburns", "true"),
			),
		),
		Div(
			Class("relative mx-auto max-w-3xl"),
			H1(Class("text-5xl font-bold tracking-tight"), gomponents.Text(doc.Hero.Title)),
			gomponents.If(doc.Hero.Subtitle != "",
				P(Class("mt-6 text-xl text-stone-600"), gomponents.Text(doc.Hero.Subtitle)),
			),
			gomponents.If(doc.Derived.YearsActive > 0,
				P(Class("mt-2 text-sm uppercase tracking-widest text-stone-500"),
					gomponents.Text(fmt.Sprintf("%d years and counting", doc.Derived.YearsActive)),
				),
			),
			gomponents.If(doc.Hero.CTALabel != "",
				A(
					Href(doc.Hero.CTAHref),
					Class("mt-8 inline-block rounded-lg bg-stone-900 px-6 py-3 text-white"),
					gomponents.Text(doc.Hero.CTALabel),
				),
			),
		),
	)
}

// KPIStrip renders the headline-figure band under the hero.
func KPIStrip(doc *content.Document) gomponents.Node {
	if len(doc.KPIs) == 0 {
		return nil
	}
	items := make([]gomponents.Node, 0, len(doc.KPIs))
	for _, kpi := range doc.KPIs {
		items = append(items, Div(
			Class("text-center"),
			Div(Class("text-3xl font-bold"), gomponents.Text(kpi.Value)),
			Div(Class("mt-1 text-sm text-stone-500"), gomponents.Text(kpi.Label)),
		))
	}
	return Section(
		ID("kpis"),
		Class("grid grid-cols-2 gap-8 border-y border-stone-200 px-8 py-10 md:grid-cols-4"),
		gomponents.Group(items),
	)
}

// PillarGrid renders the mission/vision/values/goals cards.
func PillarGrid(doc *content.Document) gomponents.Node {
	cards := make([]gomponents.Node, 0, len(doc.Pillars))
	for _, pillar := range doc.Pillars {
		cards = append(cards, pillarCard(pillar))
	}
	return Section(
		ID("pillars"),
		Class("grid gap-6 px-8 py-16 md:grid-cols-2"),
		Data("reveal", "stagger"),
		gomponents.Group(cards),
	)
}

func pillarCard(pillar content.Pillar) gomponents.Node {
	var points gomponents.Node
	if len(pillar.Points) > 0 {
		items := make([]gomponents.Node, 0, len(pillar.Points))
		for _, p := range pillar.Points {
			items = append(items, Li(Class("mt-2"), gomponents.Text(p)))
		}
		points = Ul(Class("mt-4 list-disc pl-5 text-stone-600"), gomponents.Group(items))
	}
	return Div(
		Class("rounded-xl border border-stone-200 bg-white p-8 shadow-sm"),
		Data("pillar", string(pillar.Kind)),
		H2(Class("text-2xl font-semibold"), gomponents.Text(pillar.Title)),
		P(Class("mt-3 text-stone-600"), gomponents.Text(pillar.Body)),
		points,
	)
}

func pageFooter(doc *content.Document) gomponents.Node {
	return Footer(
		Class("border-t border-stone-200 px-8 py-10 text-center text-sm text-stone-500"),
		gomponents.Text(doc.Company.Name),
		gomponents.If(doc.Company.Tagline != "",
			gomponents.Text(" - "+doc.Company.Tagline),
		),
	)
}
