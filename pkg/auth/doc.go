// Package auth provides the authentication gate, authorization policy,
// and login flow for the rigsheet API.
//
// The gate is best-effort HTTP middleware: it resolves a bearer token to
// an identity and attaches it to the request context, but never rejects
// a request itself. Missing headers, bad tokens, and unknown subjects
// all degrade to "no identity". Enforcement happens afterwards in the
// policy middleware, which evaluates a static ordered rule table and
// denies any non-public path that reaches it without an identity.
//
// Keeping the two stages separate means the gate's swallowed failures
// stay independently testable, and handlers can still serve public
// routes differently for authenticated callers.
package auth
