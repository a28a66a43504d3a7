package sessionauth

import (
	"github.com/golang-jwt/jwt/v5"
)

// idTokenClaims is the subset of identity claims the client reads.
type idTokenClaims struct {
	Email string
	Role  string
}

// parseIDTokenClaims extracts display claims from an id token without
// verifying its signature. Verification is the API server's job; the client
// holds no provider keys and nothing security-relevant is derived from these
// values. Returns zero claims on any parse failure.
func parseIDTokenClaims(raw string) idTokenClaims {
	if raw == "" {
		return idTokenClaims{}
	}

	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return idTokenClaims{}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return idTokenClaims{}
	}

	out := idTokenClaims{}
	if email, ok := claims["email"].(string); ok {
		out.Email = email
	}
	if role, ok := claims["custom:role"].(string); ok {
		out.Role = role
	} else if role, ok := claims["role"].(string); ok {
		out.Role = role
	}
	return out
}
