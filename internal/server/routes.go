package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/halcyonlabs/halcyon/internal/middleware"
)

// RegisterRoutes sets up the framework-level routes. Module routes are
// registered by each module during Boot.
func (s *Server) RegisterRoutes() {
	s.E.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// The about page is the site root.
	s.E.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/about")
	})

	s.E.GET("/ws", s.bridge.Handler(), middleware.RateLimiter())
}
