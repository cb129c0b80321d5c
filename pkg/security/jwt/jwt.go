package jwt

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// renewBefore is how long before expiry a cached token is replaced.
const renewBefore = time.Minute

// Generator mints HS256 tokens for one subject and caches them until they
// are close to expiry.
type Generator struct {
	secret  []byte
	issuer  string
	subject string
	ttl     time.Duration
	now     func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

func NewGenerator(secret, issuer, subject string, ttl time.Duration) *Generator {
	return &Generator{secret: []byte(secret), issuer: issuer, subject: subject, ttl: ttl, now: time.Now}
}

// Claims are the registered claims plus the client kind.
type Claims struct {
	jwt.RegisteredClaims
	Client string `json:"client,omitempty"`
}

// Token returns a valid bearer token, minting a new one when needed.
func (g *Generator) Token(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now().UTC()
	if g.token != "" && now.Add(renewBefore).Before(g.expires) {
		return g.token, nil
	}
	tok, exp, err := g.Generate(ctx, now)
	if err != nil {
		return "", err
	}
	g.token, g.expires = tok, exp
	return tok, nil
}

// Generate signs a fresh token issued at now.
func (g *Generator) Generate(_ context.Context, now time.Time) (string, time.Time, error) {
	exp := now.Add(g.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    g.issuer,
			Subject:   g.subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Client: "careerly",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(g.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return s, exp, nil
}
