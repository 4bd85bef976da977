package rendering

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Renderer defines the contract for rendering any supported component (templ,
// gomponents, etc.). It uses interface{} for the component input to support
// heterogeneous types.
type Renderer interface {
	// RenderComponent renders a component to a slice of bytes. Useful for
	// HTMX fragments or WebSocket pushes.
	RenderComponent(ctx context.Context, component interface{}) ([]byte, error)

	// RenderPage handles full-page rendering for Echo's context.Render() method.
	RenderPage(c echo.Context, status int, component interface{}) error
}

// UniversalRenderer is the concrete implementation that handles rendering for
// multiple component types.
type UniversalRenderer struct{}

// NewUniversalRenderer creates a new UniversalRenderer instance.
func NewUniversalRenderer() *UniversalRenderer {
	return &UniversalRenderer{}
}

// gomponentNode is the structural interface satisfied by gomponents.Node,
// which only requires an io.Writer.
type gomponentNode interface {
	Render(w io.Writer) error
}

// render inspects the component type and calls the appropriate render method.
func (tr *UniversalRenderer) render(ctx context.Context, component interface{}, w io.Writer) error {
	switch c := component.(type) {
	case templ.Component:
		return c.Render(ctx, w)

	case gomponentNode:
		return c.Render(w)

	default:
		return fmt.Errorf("unsupported component type: %T (must be templ.Component or implement Render(io.Writer) error)", component)
	}
}

// RenderComponent implements the Renderer interface.
func (tr *UniversalRenderer) RenderComponent(ctx context.Context, component interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := tr.render(ctx, component, &buf); err != nil {
		return nil, fmt.Errorf("failed to render component to bytes: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPage implements the Renderer interface for full HTTP responses.
func (tr *UniversalRenderer) RenderPage(c echo.Context, status int, component interface{}) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTML)
	c.Response().Writer.WriteHeader(status)

	if err := tr.render(c.Request().Context(), component, c.Response().Writer); err != nil {
		c.Logger().Error("Failed to stream component to response writer:", err)
		return err
	}
	return nil
}

// Render implements the echo.Renderer interface for use with
// c.Render(status, name, component). The name parameter is ignored; the
// component object is passed in the 'data' parameter.
func (tr *UniversalRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	if c.Response().Header().Get(echo.HeaderContentType) == "" {
		c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTML)
	}
	return tr.render(c.Request().Context(), data, w)
}
