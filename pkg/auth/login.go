package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jameswoodtech/rigsheet/pkg/api"
	"github.com/jameswoodtech/rigsheet/pkg/observability"
	"github.com/jameswoodtech/rigsheet/pkg/storage"
)

// DefaultTokenTTL is the time to live of tokens issued by the login flow.
const DefaultTokenTTL = 24 * time.Hour

// Login failure sentinels. ErrInvalidCredentials is deliberately uniform
// across "unknown user", "no credential set", and "wrong password" so a
// caller cannot enumerate usernames.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLoginThrottled     = errors.New("too many failed login attempts")
)

// TokenIssuer issues a signed token for a subject.
type TokenIssuer interface {
	Issue(subject string, ttl time.Duration) (string, error)
}

// LoginService verifies passwords against stored bcrypt hashes and
// issues tokens. It never derives or stores a new hash.
type LoginService struct {
	profiles ProfileLookup
	issuer   TokenIssuer
	ttl      time.Duration
	limiter  *LoginLimiter // nil disables throttling
}

// NewLoginService creates a login service. A nil limiter disables
// failed-attempt throttling.
func NewLoginService(profiles ProfileLookup, issuer TokenIssuer, ttl time.Duration, limiter *LoginLimiter) *LoginService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &LoginService{
		profiles: profiles,
		issuer:   issuer,
		ttl:      ttl,
		limiter:  limiter,
	}
}

// Login authenticates a username/password pair and returns a fresh token
// together with the public projection of the profile.
func (s *LoginService) Login(ctx context.Context, username, password string) (string, api.PublicProfile, error) {
	if s.limiter != nil && !s.limiter.Allow(username) {
		observability.LoginsTotal.WithLabelValues("throttled").Inc()
		return "", api.PublicProfile{}, ErrLoginThrottled
	}

	profile, err := s.profiles.GetProfileByUsername(ctx, username)
	if err != nil {
		// Only a definitive "no such user" is a credential failure. A
		// store outage must not read as bad credentials or count
		// against the username's limiter window.
		if !errors.Is(err, storage.ErrNotFound) {
			observability.LoginsTotal.WithLabelValues("error").Inc()
			return "", api.PublicProfile{}, fmt.Errorf("looking up profile: %w", err)
		}
		return "", api.PublicProfile{}, s.fail(username)
	}
	if profile.PasswordHash == "" {
		return "", api.PublicProfile{}, s.fail(username)
	}
	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)) != nil {
		return "", api.PublicProfile{}, s.fail(username)
	}

	tok, err := s.issuer.Issue(profile.Username, s.ttl)
	if err != nil {
		observability.LoginsTotal.WithLabelValues("error").Inc()
		return "", api.PublicProfile{}, err
	}

	if s.limiter != nil {
		s.limiter.Reset(username)
	}
	observability.LoginsTotal.WithLabelValues("ok").Inc()
	slog.Info("login succeeded", "username", profile.Username)

	return tok, profile.Public(), nil
}

// fail records a failed attempt and returns the uniform credential error.
func (s *LoginService) fail(username string) error {
	if s.limiter != nil {
		s.limiter.RecordFailure(username)
	}
	observability.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
	return ErrInvalidCredentials
}
