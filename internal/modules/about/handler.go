package about

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/halcyonlabs/halcyon/internal/analytics"
	"github.com/halcyonlabs/halcyon/internal/content"
	"github.com/halcyonlabs/halcyon/internal/middleware"
	"github.com/halcyonlabs/halcyon/internal/modules/about/components"
	"github.com/halcyonlabs/halcyon/internal/rendering"
)

// Handler serves the About page.
type Handler struct {
	doc       *content.Document
	renderer  rendering.Renderer
	collector analytics.Collector
}

// NewHandler creates the page handler.
func NewHandler(doc *content.Document, renderer rendering.Renderer, collector analytics.Collector) *Handler {
	return &Handler{doc: doc, renderer: renderer, collector: collector}
}

// AboutGet renders the full page. Every section is complete in the response;
// the WebSocket layer only adds motion on top.
func (h *Handler) AboutGet(c echo.Context) error {
	visitorID := middleware.VisitorID(c)
	h.collector.Record(c.Request().Context(), analytics.Event{
		Kind:      analytics.EventPageView,
		VisitorID: visitorID,
	})
	return h.renderer.RenderPage(c, http.StatusOK, components.Page(h.doc))
}
