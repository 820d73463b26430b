package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformedToken = errors.New("malformed access token")
	ErrTokenExpired   = errors.New("access token expired")
)

// Inspect decodes the access token without verifying its signature and checks exp
// against now. Tokens without an exp claim are accepted; the remote API stays the
// authority and answers 401 for anything it rejects.
func Inspect(tokenString string, now time.Time) (*TokenClaims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrMalformedToken
	}

	claims := &TokenClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	if claims.ExpiresAt != nil && !now.Before(claims.ExpiresAt.Time) {
		return claims, ErrTokenExpired
	}
	return claims, nil
}

// Expired reports whether the token carries an exp claim at or before now.
// Opaque tokens that cannot be decoded are not considered expired.
func Expired(tokenString string, now time.Time) bool {
	_, err := Inspect(tokenString, now)
	return errors.Is(err, ErrTokenExpired)
}

// LoginPath is where a shopper is sent after the remote API rejects their token.
const LoginPath = "/auth/login"
