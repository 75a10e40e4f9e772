package utils

import (
	"errors"
	"fmt"

	"carenow/config"

	"github.com/golang-jwt/jwt"
)

// CallerClaims identifies the authenticated account making a request.
// Tokens are issued by the external identity provider; this service only
// verifies them.
type CallerClaims struct {
	AccountID string
	Role      string // "client" or "partner"
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(config.AppConfig.JWTSecret), nil
	})
}

// ExtractCallerFromToken validates a token and extracts the caller identity
// from its "sub" and "role" claims.
func ExtractCallerFromToken(tokenString string) (*CallerClaims, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" {
		return nil, errors.New("token missing subject")
	}
	if role != "client" && role != "partner" {
		return nil, fmt.Errorf("unknown role %q in token", role)
	}
	return &CallerClaims{AccountID: sub, Role: role}, nil
}
