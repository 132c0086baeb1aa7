package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/S-Stepanov-1/contacts-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Purpose restricts a token to a single endpoint class. Verification rejects
// a cryptographically valid token presented for the wrong purpose.
type Purpose string

const (
	PurposeAccess        Purpose = "access"
	PurposeRefresh       Purpose = "refresh"
	PurposeEmailVerify   Purpose = "email_verify"
	PurposePasswordReset Purpose = "password_reset"
)

// TTLs holds the per-purpose token lifetimes.
type TTLs struct {
	Access        time.Duration
	Refresh       time.Duration
	EmailVerify   time.Duration
	PasswordReset time.Duration
}

// Claims holds the JWT payload fields.
type Claims struct {
	Purpose Purpose `json:"purpose"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 JWTs scoped by purpose.
type Provider struct {
	secret []byte
	ttls   TTLs
}

func NewProvider(secret string, ttls TTLs) (*Provider, error) {
	if secret == "" {
		return nil, errors.New("signing secret is not configured")
	}
	return &Provider{secret: []byte(secret), ttls: ttls}, nil
}

// Issue creates a signed token for subject with the purpose's configured TTL.
// The jti nonce makes two tokens for the same subject distinct even when
// issued within the same second.
func (p *Provider) Issue(subject string, purpose Purpose) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl(purpose))),
			ID:        uuid.NewString(),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", purpose, err)
	}
	return signed, nil
}

// Verify checks signature, expiry and purpose, returning the subject.
// All failure modes collapse into domain.ErrInvalidToken so callers cannot
// distinguish a forged token from an expired one.
func (p *Provider) Verify(tokenStr string, expected Purpose) (string, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse token: %w", domain.ErrInvalidToken)
	}
	claims, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return "", fmt.Errorf("invalid token claims: %w", domain.ErrInvalidToken)
	}
	if claims.Purpose != expected {
		return "", fmt.Errorf("token purpose %q: %w", claims.Purpose, domain.ErrInvalidToken)
	}
	return claims.Subject, nil
}

func (p *Provider) ttl(purpose Purpose) time.Duration {
	switch purpose {
	case PurposeRefresh:
		return p.ttls.Refresh
	case PurposeEmailVerify:
		return p.ttls.EmailVerify
	case PurposePasswordReset:
		return p.ttls.PasswordReset
	default:
		return p.ttls.Access
	}
}
