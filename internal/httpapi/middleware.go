package httpapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"autoboard/internal/auth"
)

// AuthRequired validates the access token and stores the claims on the
// request. The token is taken from the Authorization header when present,
// falling back to the access_token cookie so browser sessions work without
// client-side token plumbing.
func AuthRequired(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			token = c.Cookies("access_token")
		}
		if token == "" {
			return UnauthorizedError("Missing auth token")
		}

		claims, err := auth.ParseAccessToken(token, secret)
		if err != nil {
			return UnauthorizedError("Invalid or expired token")
		}

		c.Locals("claims", claims)
		return c.Next()
	}
}

// CurrentClaims extracts the authenticated claims from a request context.
func CurrentClaims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals("claims").(*auth.Claims)
	return claims
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
