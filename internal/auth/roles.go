package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/creator-platform/internal/domain"
)

// RequireAuthenticated stops unauthenticated requests by redirecting to the
// login path. Unlike the accessors, which return nil/false sentinels, this
// guard exists precisely to halt execution at the boundary.
func RequireAuthenticated(loginPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resolver, ok := ResolverFromContext(c)
		if !ok || resolver.Resolve(c.UserContext()) == nil {
			return c.Redirect(loginPath, fiber.StatusFound)
		}
		return c.Next()
	}
}

// RequireRole additionally redirects callers whose role does not match.
// Unauthenticated callers go to the login path; authenticated callers with
// the wrong role go to the forbidden path.
func RequireRole(expected domain.Role, loginPath, forbiddenPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resolver, ok := ResolverFromContext(c)
		if !ok {
			return c.Redirect(loginPath, fiber.StatusFound)
		}
		ident := resolver.Resolve(c.UserContext())
		if ident == nil {
			return c.Redirect(loginPath, fiber.StatusFound)
		}
		if ident.Role != expected {
			return c.Redirect(forbiddenPath, fiber.StatusFound)
		}
		return c.Next()
	}
}
