package view

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"maragu.dev/gomponents"
)

// GomponentToTemplAdapter wraps a gomponents.Node to satisfy the
// templ.Component interface, so gomponents content can be rendered inside
// templ layouts when a module prefers them.
type GomponentToTemplAdapter struct {
	node gomponents.Node
}

// AdaptGomponentToTempl wraps a gomponents.Node as a templ.Component.
func AdaptGomponentToTempl(node gomponents.Node) templ.Component {
	return GomponentToTemplAdapter{node: node}
}

// Render implements templ.Component.
func (a GomponentToTemplAdapter) Render(ctx context.Context, w io.Writer) error {
	return a.node.Render(w)
}

// TemplToGomponentAdapter wraps a templ.Component so it can sit inside a
// gomponents tree.
type TemplToGomponentAdapter struct {
	component templ.Component
}

// AdaptTemplToGomponent wraps a templ.Component as a gomponents.Node.
func AdaptTemplToGomponent(component templ.Component) gomponents.Node {
	return TemplToGomponentAdapter{component: component}
}

// Render implements gomponents.Node.
func (a TemplToGomponentAdapter) Render(w io.Writer) error {
	return a.component.Render(context.Background(), w)
}
