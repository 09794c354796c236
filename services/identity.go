package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "volleyball-scoretracker"

var (
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidSignature = errors.New("invalid token signature")
)

// IdentityProvider issues and verifies account bearer tokens (HS256).
type IdentityProvider struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIdentityProvider(secret string, ttl time.Duration) *IdentityProvider {
	return &IdentityProvider{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// IssueToken signs a token whose subject is accountID.
func (p *IdentityProvider) IssueToken(accountID string) (string, error) {
	now := p.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    tokenIssuer,
		Subject:   accountID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// AccountID verifies token and returns its subject. Every failure wraps
// ErrInvalidCredential.
func (p *IdentityProvider) AccountID(token string) (string, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", fmt.Errorf("%w: %w", ErrInvalidCredential, ErrExpiredToken)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", fmt.Errorf("%w: %w", ErrInvalidCredential, ErrInvalidSignature)
		}
		return "", fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidCredential
	}
	return claims.Subject, nil
}
