package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const resolverKey = "auth_resolver"

// SessionMiddleware constructs the per-request resolver from the session
// cookie and stashes it in request locals. Every DAL operation downstream
// shares this one resolver, which is what makes identity resolution a
// once-per-request round-trip.
type SessionMiddleware struct {
	manager *SessionManager
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(manager *SessionManager) *SessionMiddleware {
	return &SessionMiddleware{manager: manager}
}

// Handle attaches a resolver for the current request.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	resolver := m.manager.NewResolver(c.Cookies(SessionCookieName), fiberCookieSink{ctx: c})
	c.Locals(resolverKey, resolver)
	return c.Next()
}

// ResolverFromContext retrieves the request's resolver. The second return is
// false on routes that skipped the session middleware.
func ResolverFromContext(c *fiber.Ctx) (*Resolver, bool) {
	val := c.Locals(resolverKey)
	if val == nil {
		return nil, false
	}
	resolver, ok := val.(*Resolver)
	return resolver, ok
}

// fiberCookieSink writes the session cookie onto the fiber response.
type fiberCookieSink struct {
	ctx *fiber.Ctx
}

func (s fiberCookieSink) WriteSessionCookie(value string, expiresAt time.Time) error {
	s.ctx.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Expires:  expiresAt,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	return nil
}

// ClearSessionCookie expires the session cookie on the response.
func ClearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}
