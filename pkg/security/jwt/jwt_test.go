package jwt

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_TokenIsCached(t *testing.T) {
	g := NewGenerator("secret", "careerly", "cli", 10*time.Minute)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }

	first, err := g.Token(context.Background())
	require.NoError(t, err)
	again, err := g.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, again)

	now = now.Add(9*time.Minute + 30*time.Second)
	renewed, err := g.Token(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first, renewed)
}

func newProtectedApp(secret, issuer string) *fiber.App {
	app := fiber.New()
	app.Use(NewAuthMiddleware(secret, issuer))
	app.Get("/me", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("subject").(string))
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	valid, _, err := NewGenerator("secret", "careerly", "web", time.Hour).Generate(context.Background(), time.Now())
	require.NoError(t, err)
	otherIssuer, _, err := NewGenerator("secret", "someone", "web", time.Hour).Generate(context.Background(), time.Now())
	require.NoError(t, err)
	expired, _, err := NewGenerator("secret", "careerly", "web", time.Minute).Generate(context.Background(), time.Now().Add(-time.Hour))
	require.NoError(t, err)
	wrongKey, _, err := NewGenerator("other", "careerly", "web", time.Hour).Generate(context.Background(), time.Now())
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"bearer", "Bearer " + valid, http.StatusOK},
		{"bare token", valid, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"issuer mismatch", "Bearer " + otherIssuer, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong key", "Bearer " + wrongKey, http.StatusUnauthorized},
	}
	app := newProtectedApp("secret", "careerly")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.status == http.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, "web", string(body))
			}
		})
	}
}
