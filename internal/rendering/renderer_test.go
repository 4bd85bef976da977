package rendering

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

func TestRenderComponent_Gomponents(t *testing.T) {
	r := NewUniversalRenderer()

	node := h.Div(h.ID("hero"), g.Text("Our Story"))
	out, err := r.RenderComponent(context.Background(), node)
	require.NoError(t, err)
	assert.Contains(t, string(out), `<div id="hero">Our Story</div>`)
}

func TestRenderComponent_UnsupportedType(t *testing.T) {
	r := NewUniversalRenderer()

	_, err := r.RenderComponent(context.Background(), 42)
	assert.Error(t, err)
}

func TestRenderPage_WritesHTML(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/about", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	r := NewUniversalRenderer()
	err := r.RenderPage(c, http.StatusOK, h.P(g.Text("hello")))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, echo.MIMETextHTML, rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Body.String(), "<p>hello</p>")
}
