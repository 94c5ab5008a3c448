package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jameswoodtech/rigsheet/pkg/api"
	"github.com/jameswoodtech/rigsheet/pkg/observability"
	"github.com/jameswoodtech/rigsheet/pkg/storage"
)

// TokenVerifier verifies a bearer token and returns its subject.
type TokenVerifier interface {
	Verify(tok string) (string, error)
}

// ProfileLookup is the slice of the credential store the gate needs.
type ProfileLookup interface {
	GetProfileByUsername(ctx context.Context, username string) (*api.Profile, error)
}

// Gate creates the per-request authentication middleware. It reads the
// Authorization header, verifies the bearer token, resolves the subject
// against the profile store, and attaches the identity to the request
// context. Every failure mode is swallowed into "no identity": the gate
// never writes a response. Each outcome is counted so the absorbed
// failures remain observable.
func Gate(codec TokenVerifier, profiles ProfileLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, outcome := resolveIdentity(r, codec, profiles)
			observability.AuthGateTotal.WithLabelValues(outcome).Inc()

			if id == nil {
				next.ServeHTTP(w, r)
				return
			}

			slog.Debug("request authenticated",
				"subject", id.Subject,
				"path", r.URL.Path,
			)
			next.ServeHTTP(w, r.WithContext(SetIdentity(r.Context(), id)))
		})
	}
}

// Gate outcome labels.
const (
	outcomeOK             = "ok"
	outcomeNoCredential   = "no_credential"
	outcomeInvalidToken   = "invalid_token"
	outcomeUnknownSubject = "unknown_subject"
)

// resolveIdentity performs the best-effort identity resolution for one
// request and reports which path it took.
func resolveIdentity(r *http.Request, codec TokenVerifier, profiles ProfileLookup) (*Identity, string) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return nil, outcomeNoCredential
	}

	tok := strings.TrimPrefix(header, "Bearer ")
	if tok == "" {
		return nil, outcomeNoCredential
	}

	subject, err := codec.Verify(tok)
	if err != nil {
		slog.Debug("bearer token rejected", "path", r.URL.Path, "error", err)
		return nil, outcomeInvalidToken
	}

	profile, err := profiles.GetProfileByUsername(r.Context(), subject)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Warn("profile lookup failed during authentication",
				"subject", subject,
				"error", err,
			)
		}
		return nil, outcomeUnknownSubject
	}

	return &Identity{
		Subject: subject,
		Roles:   api.ParseRoles(profile.Roles),
	}, outcomeOK
}
