package auth

import (
	"errors"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Role identifies the caller class encoded in access tokens.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

// TokenManager validates JWT access tokens. Tokens are issued by the external
// identity service; this service never mints them.
type TokenManager struct {
	secret []byte
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// Claims describes the JWT payload this service relies on.
type Claims struct {
	SubjectID string `json:"sub"`
	TokenRole Role   `json:"role"`
	Email     string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// ParseToken validates and returns claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.TokenRole != RoleCustomer && claims.TokenRole != RoleAdmin {
		return nil, errors.New("unknown role claim")
	}
	return claims, nil
}
