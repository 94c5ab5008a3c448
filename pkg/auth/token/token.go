// Package token issues and verifies the signed, time-bounded bearer
// tokens that stand in for server-side session state. Tokens are HS256
// JWTs carrying subject, issued-at, and expiry claims; validity is
// solely signature plus expiry at verification time (no revocation).
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLen is the minimum signing secret length in bytes for HS256.
const MinSecretLen = 32

// Verification failure taxonomy. Verify returns exactly one of these;
// signature failures take precedence over expiry.
var (
	ErrMalformed        = errors.New("token malformed")
	ErrInvalidSignature = errors.New("token signature invalid")
	ErrExpired          = errors.New("token expired")
)

// Codec issues and verifies tokens under a single shared secret. The
// secret is fixed at construction and the codec is safe for concurrent
// use without synchronization.
type Codec struct {
	secret []byte
}

// NewCodec creates a codec signing with the given secret. The secret
// must be at least MinSecretLen bytes.
func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) < MinSecretLen {
		return nil, fmt.Errorf("signing secret must be at least %d bytes, got %d", MinSecretLen, len(secret))
	}
	return &Codec{secret: secret}, nil
}

// Issue creates a signed token for the subject with the given time to
// live. issuedAt is now, expiry is now+ttl.
func (c *Codec) Issue(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its subject. Failures
// map onto the sentinel taxonomy: ErrMalformed for unparsable input,
// ErrInvalidSignature for a signature mismatch, ErrExpired for a
// well-signed token past its expiry.
func (c *Codec) Verify(tok string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		// Check signature before expiry so a tampered-but-stale token
		// reports the signature failure.
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", ErrMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrExpired
		default:
			return "", ErrMalformed
		}
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", ErrMalformed
	}
	return claims.Subject, nil
}
