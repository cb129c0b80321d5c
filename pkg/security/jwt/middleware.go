package jwt

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Anaswara-jk/Careerly/api/http/presenter"
)

// NewAuthMiddleware returns a Fiber middleware that validates Bearer JWT (HS256).
// On success sets the token subject into c.Locals("subject").
func NewAuthMiddleware(secret, expectedIssuer string) fiber.Handler {
	secretBytes := []byte(secret)
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return presenter.Error(c, http.StatusUnauthorized, "missing Authorization header")
		}
		tokenStr := bearerToken(authHeader)
		if tokenStr == "" {
			return presenter.Error(c, http.StatusUnauthorized, "empty token")
		}
		token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.ErrUnauthorized
			}
			return secretBytes, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
		if err != nil || !token.Valid {
			return presenter.Error(c, http.StatusUnauthorized, "invalid or expired token")
		}
		claims, ok := token.Claims.(*Claims)
		if !ok {
			return presenter.Error(c, http.StatusUnauthorized, "invalid token claims")
		}
		if expectedIssuer != "" && claims.RegisteredClaims.Issuer != expectedIssuer {
			return presenter.Error(c, http.StatusUnauthorized, "invalid token issuer")
		}
		c.Locals("subject", claims.RegisteredClaims.Subject)
		return c.Next()
	}
}

// bearerToken accepts both "Bearer <token>" and a bare token.
func bearerToken(header string) string {
	if scheme, tok, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(tok)
	}
	return strings.TrimSpace(header)
}
