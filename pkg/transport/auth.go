package transport

import (
	"errors"
	"net/http"

	"github.com/jameswoodtech/rigsheet/pkg/api"
	"github.com/jameswoodtech/rigsheet/pkg/auth"
)

// loginRequest is the POST /api/auth/login body.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse is the success body of the login flow: a bearer token
// and the public projection of the authenticated profile.
type loginResponse struct {
	Token string            `json:"token"`
	User  api.PublicProfile `json:"user"`
}

// handleLogin handles POST /api/auth/login.
func (a *Adapter) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if apiErr := a.decodeBody(w, r, &req); apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}
	if req.Username == "" || req.Password == "" {
		WriteAPIError(w, api.NewInvalidCredentialsError())
		return
	}

	tok, user, err := a.login.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			WriteAPIError(w, api.NewInvalidCredentialsError())
		case errors.Is(err, auth.ErrLoginThrottled):
			WriteAPIError(w, api.NewTooManyRequestsError("too many failed login attempts"))
		default:
			WriteAPIError(w, api.NewServerError("login failed"))
		}
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: tok, User: user})
}

// handleMe handles GET /api/auth/me. The route sits under the public
// auth prefix, so the identity check happens here rather than in the
// policy middleware.
func (a *Adapter) handleMe(w http.ResponseWriter, r *http.Request) {
	id := auth.IdentityFromContext(r.Context())
	if id == nil {
		WriteAPIError(w, api.NewAccessDeniedError())
		return
	}

	profile, err := a.store.GetProfileByUsername(r.Context(), id.Subject)
	if err != nil {
		writeStoreError(w, err, "profile")
		return
	}

	writeJSON(w, http.StatusOK, profile.Public())
}
