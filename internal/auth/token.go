// Package auth issues and verifies the API's bearer tokens.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"lisadocs/internal/model"
)

// ErrUnauthorized covers every token failure: expired, malformed, bad
// signature, wrong algorithm. Callers get no more detail than that.
var ErrUnauthorized = errors.New("unauthorized")

// Claims is the token payload: registered claims plus the role and home
// workspace the authorization layer needs on every request.
type Claims struct {
	Role      model.Role      `json:"role"`
	Workspace model.Workspace `json:"workspace"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 tokens with a shared secret.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager constructs a TokenManager.
func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("jwt secret cannot be empty")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}, nil
}

// Issue signs a token for an active user.
func (m *TokenManager) Issue(u *model.User) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Role:      u.Role,
		Workspace: u.Workspace,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify validates a token string and projects its claims to a principal.
func (m *TokenManager) Verify(tokenString string) (*model.Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		// Pin the algorithm; a key lookup that ignores the header invites
		// algorithm confusion.
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrUnauthorized
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return nil, ErrUnauthorized
	}
	if !claims.Role.Valid() || !claims.Workspace.Valid() {
		return nil, ErrUnauthorized
	}

	return &model.Principal{
		ID:        claims.Subject,
		Role:      claims.Role,
		Workspace: claims.Workspace,
	}, nil
}
