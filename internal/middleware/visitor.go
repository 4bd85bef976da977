package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	visitorSessionName = "halcyon-visitor"
	visitorIDKey       = "visitor_id"

	// VisitorContextKey is the echo.Context key under which the visitor ID is
	// stored for downstream handlers (page views, WebSocket upgrades).
	VisitorContextKey = "visitor"
)

// Visitor assigns every browser a stable anonymous identifier, stored in the
// session cookie. The About page uses it to key per-visitor tracker sessions
// and to attribute analytics events without collecting any personal data.
func Visitor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := session.Get(visitorSessionName, c)
		if err != nil {
			// A corrupt cookie should not take the page down; fall back to a
			// fresh per-request identity.
			c.Set(VisitorContextKey, uuid.NewString())
			return next(c)
		}

		id, ok := sess.Values[visitorIDKey].(string)
		if !ok || id == "" {
			id = uuid.NewString()
			sess.Values[visitorIDKey] = id
			if err := sess.Save(c.Request(), c.Response()); err != nil {
				c.Logger().Warn("failed to persist visitor session: ", err)
			}
		}

		c.Set(VisitorContextKey, id)
		return next(c)
	}
}

// VisitorID extracts the visitor identifier set by the Visitor middleware.
// It returns an empty string when the middleware did not run.
func VisitorID(c echo.Context) string {
	if id, ok := c.Get(VisitorContextKey).(string); ok {
		return id
	}
	return ""
}
