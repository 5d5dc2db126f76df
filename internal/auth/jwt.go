package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "appointment-backend"

var ErrInvalidToken = errors.New("invalid token")

// Claims is the token payload: the principal's fields plus the registered claims.
// Subject always equals ID.
type Claims struct {
	ID       string   `json:"id"`
	Phone    string   `json:"phone,omitempty"`
	Email    string   `json:"email,omitempty"`
	UserType UserType `json:"userType"`
	jwt.RegisteredClaims
}

// JWTManager signs and verifies HS256 access tokens for every principal type.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	parser *jwt.Parser
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		ttl:    ttl,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(30*time.Second),
		),
	}
}

func (m *JWTManager) Generate(p Principal) (string, error) {
	claims, err := toClaims(p)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   p.Subject(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseAndValidate checks signature, issuer and expiry and rebuilds the principal.
func (m *JWTManager) ParseAndValidate(tokenStr string) (Principal, error) {
	var claims Claims
	if _, err := m.parser.ParseWithClaims(tokenStr, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.Subject != claims.ID {
		return nil, fmt.Errorf("%w: subject does not match id", ErrInvalidToken)
	}
	return claims.principal()
}
