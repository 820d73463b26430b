package auth

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the subset of the remote API's access token this service reads.
// The remote API signs the token; this service never verifies the signature.
type TokenClaims struct {
	UserID    any    `json:"user_id,omitempty"`
	Email     string `json:"email,omitempty"`
	TokenType string `json:"token_type,omitempty"`
	jwt.RegisteredClaims
}

// Subject returns the user identifier as a string, preferring user_id over sub.
func (c *TokenClaims) Subject() string {
	if c == nil {
		return ""
	}
	switch v := c.UserID.(type) {
	case string:
		if strings.TrimSpace(v) != "" {
			return v
		}
	case float64:
		return fmt.Sprintf("%.0f", v)
	}
	return c.RegisteredClaims.Subject
}
