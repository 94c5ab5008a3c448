package auth

import (
	"log/slog"
	"net/http"
	"strings"
)

// Rule maps a path prefix to an "accessible without identity" flag.
type Rule struct {
	// Prefix matches the request path exactly or as a leading segment.
	Prefix string

	// Public marks the paths that need no identity.
	Public bool
}

// DefaultRules is the static policy table for the rigsheet API: the
// documentation, health, metrics, and auth endpoints are open, as are
// the designated public catalog reads. Everything else requires an
// authenticated identity.
var DefaultRules = []Rule{
	{Prefix: "/docs/", Public: true},
	{Prefix: "/healthz", Public: true},
	{Prefix: "/metrics", Public: true},
	{Prefix: "/api/auth/", Public: true},
	{Prefix: "/api/user-profiles/", Public: true},
	{Prefix: "/api/vehicles/user/", Public: true},
	{Prefix: "/api/mods/vehicle/", Public: true},
}

// matches reports whether the rule covers the path.
func (r Rule) matches(path string) bool {
	if strings.HasSuffix(r.Prefix, "/") {
		return path == strings.TrimSuffix(r.Prefix, "/") || strings.HasPrefix(path, r.Prefix)
	}
	return path == r.Prefix
}

// Policy creates the authorization middleware. Rules are evaluated in
// order and the first match wins; a request matching a public rule is
// permitted unconditionally, any other request is permitted only when
// the gate attached an identity. Unmatched paths default to
// deny-unless-authenticated. Roles are carried for handlers but not
// enforced here.
func Policy(rules []Rule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, rule := range rules {
				if !rule.matches(r.URL.Path) {
					continue
				}
				if rule.Public {
					next.ServeHTTP(w, r)
					return
				}
				break
			}

			if IdentityFromContext(r.Context()) == nil {
				slog.Debug("access denied", "path", r.URL.Path, "remote_addr", r.RemoteAddr)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":{"type":"access_denied","message":"authentication required"}}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
