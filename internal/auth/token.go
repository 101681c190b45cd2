// Package auth implements the stateless session token used by the API.
// Tokens are HS256-signed JWTs carrying the subject username plus
// issued/expiry timestamps; no server-side session record exists.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every failure mode of token verification:
// malformed structure or encoding, bad signature, and expiry.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenManager issues and verifies signed session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager creates a token manager with the given HMAC secret
// and validity window.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// TTL returns the validity window tokens are issued with.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue produces a signed token for the username, valid from now for
// the configured window.
func (m *TokenManager) Issue(username string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ExtractSubject parses and verifies the token and returns its subject
// username. Any parse, signature, or expiry failure maps to
// ErrInvalidToken; the underlying cause is wrapped for logging.
func (m *TokenManager) ExtractSubject(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Validate reports whether the token is correctly signed, unexpired,
// and bound to the expected username.
func (m *TokenManager) Validate(tokenString, expectedUser string) bool {
	subject, err := m.ExtractSubject(tokenString)
	if err != nil {
		return false
	}
	return subject == expectedUser
}
