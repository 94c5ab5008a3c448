package transport

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/jameswoodtech/rigsheet/pkg/api"
)

// profilePayload is the write body for profile endpoints. Password is
// accepted in plain text and stored only as a bcrypt hash; the hash
// itself is never accepted or returned over the wire.
type profilePayload struct {
	api.Profile
	Password string `json:"password,omitempty"`
}

// apply hashes the password, when one was supplied, into the profile.
func (p *profilePayload) apply() (api.Profile, error) {
	profile := p.Profile
	if p.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
		if err != nil {
			return api.Profile{}, err
		}
		profile.PasswordHash = string(hash)
	}
	return profile, nil
}

// handleListProfiles handles GET /api/user-profiles.
func (a *Adapter) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := a.store.ListProfiles(r.Context())
	if err != nil {
		writeStoreError(w, err, "profiles")
		return
	}
	if profiles == nil {
		profiles = []*api.Profile{}
	}
	writeJSON(w, http.StatusOK, profiles)
}

// handleGetProfile handles GET /api/user-profiles/{id}.
func (a *Adapter) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	profile, err := a.store.GetProfile(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "profile")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// handleGetProfileByUsername handles GET /api/user-profiles/username/{username}.
func (a *Adapter) handleGetProfileByUsername(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if username == "" {
		WriteErrorResponse(w,
			api.NewInvalidRequestError("username", "must not be empty"),
			http.StatusBadRequest,
		)
		return
	}
	profile, err := a.store.GetProfileByUsername(r.Context(), username)
	if err != nil {
		writeStoreError(w, err, "profile")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// handleCreateProfile handles POST /api/user-profiles.
func (a *Adapter) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var payload profilePayload
	if apiErr := a.decodeBody(w, r, &payload); apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}
	if payload.Username == "" {
		WriteAPIError(w, api.NewInvalidRequestError("username", "must not be empty"))
		return
	}

	profile, err := payload.apply()
	if err != nil {
		WriteAPIError(w, api.NewServerError("hashing password"))
		return
	}
	profile.ID = 0

	saved, err := a.store.SaveProfile(r.Context(), &profile)
	if err != nil {
		writeStoreError(w, err, "profile")
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// handleUpdateProfile handles PUT /api/user-profiles/{id}.
func (a *Adapter) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	existing, err := a.store.GetProfile(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "profile")
		return
	}

	var payload profilePayload
	if apiErr := a.decodeBody(w, r, &payload); apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}

	incoming, err := payload.apply()
	if err != nil {
		WriteAPIError(w, api.NewServerError("hashing password"))
		return
	}

	merged := api.UpdateProfile(*existing, incoming)
	saved, err := a.store.SaveProfile(r.Context(), &merged)
	if err != nil {
		writeStoreError(w, err, "profile")
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// handleDeleteProfile handles DELETE /api/user-profiles/{id}.
func (a *Adapter) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := a.store.DeleteProfile(r.Context(), id); err != nil {
		writeStoreError(w, err, "profile")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
