// Package auth implements token verification and principal resolution for
// the request pipeline. It owns no routes; the gin middlewares compose it.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformedHeader is returned before any verification when the
	// Authorization header does not carry a "Bearer <token>" value.
	ErrMalformedHeader = errors.New("malformed authorization header")

	// ErrInvalidToken covers every verification failure: bad signature,
	// expired, malformed payload. Callers get no finer distinction.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the verified token payload.
type Claims struct {
	UserID    int64  `json:"user_id"`
	Role      string `json:"role,omitempty"`
	ProjectID int64  `json:"project_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenVerifier checks token signatures against the shared HS256 secret.
type TokenVerifier struct {
	Secret []byte
}

// BearerToken extracts the raw token from an Authorization header value.
// The literal "Bearer " prefix is required.
func BearerToken(header string) (string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", ErrMalformedHeader
	}
	return parts[1], nil
}

// Verify parses and validates tokenString. Any failure collapses to
// ErrInvalidToken so clients cannot probe which check failed.
func (v TokenVerifier) Verify(tokenString string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.Secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	if claims.UserID <= 0 {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

// Issue signs a token for the given user. Used by the login handler; the
// verifier never calls it.
func (v TokenVerifier) Issue(userID int64, role string, projectID int64, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		Role:      role,
		ProjectID: projectID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.Secret)
}
