package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hainam0320/EXE201-sub000/apperr"
	"github.com/hainam0320/EXE201-sub000/models"
)

// Identity is the authenticated caller: resolved once per request and
// passed to services for ownership checks.
type Identity struct {
	ID   string
	Role models.Role
}

// Guard answers the two questions every mutation asks: who is calling, and
// may they act. Injected into middleware and services instead of re-parsing
// tokens per handler.
type Guard interface {
	Authenticate(token string) (Identity, error)
	Authorize(id Identity, roles ...models.Role) bool
}

type JWTGuard struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewJWTGuard(secret, issuer string, ttl time.Duration) *JWTGuard {
	return &JWTGuard{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// Authenticate parses an HMAC-signed bearer token and returns the caller's
// identity. A "Bearer " prefix is tolerated.
func (g *JWTGuard) Authenticate(raw string) (Identity, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
	if raw == "" {
		return Identity{}, apperr.New(apperr.KindUnauthorized, "missing bearer token")
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return g.secret, nil
	}, jwt.WithLeeway(30*time.Second))
	if err != nil || !token.Valid {
		return Identity{}, apperr.Wrap(apperr.KindUnauthorized, "invalid or expired token", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, apperr.New(apperr.KindUnauthorized, "invalid token claims")
	}
	if g.issuer != "" {
		if iss, _ := claims.GetIssuer(); iss != g.issuer {
			return Identity{}, apperr.New(apperr.KindUnauthorized, "issuer mismatch")
		}
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return Identity{}, apperr.New(apperr.KindUnauthorized, "token missing subject or role")
	}
	return Identity{ID: sub, Role: models.Role(role)}, nil
}

func (g *JWTGuard) Authorize(id Identity, roles ...models.Role) bool {
	for _, r := range roles {
		if id.Role == r {
			return true
		}
	}
	return false
}

// IssueToken signs a token for the given identity. Used by dev tooling and
// tests; real session issuance lives in the identity service.
func (g *JWTGuard) IssueToken(id Identity) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  id.ID,
		"role": string(id.Role),
		"iss":  g.issuer,
		"iat":  now.Unix(),
		"exp":  now.Add(g.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
}
