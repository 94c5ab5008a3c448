package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/jameswoodtech/rigsheet/pkg/api"
	"github.com/jameswoodtech/rigsheet/pkg/auth"
	"github.com/jameswoodtech/rigsheet/pkg/storage"
)

// Adapter serves the catalog API over HTTP. It routes requests to the
// appropriate handler and serializes responses.
type Adapter struct {
	store storage.Store
	login *auth.LoginService
	mux   *http.ServeMux
	cfg   Config
}

// Config holds configuration for the HTTP adapter.
type Config struct {
	MaxBodySize int64
}

// DefaultConfig returns the default adapter configuration.
func DefaultConfig() Config {
	return Config{
		MaxBodySize: 1 << 20, // 1 MB
	}
}

// NewAdapter creates an HTTP adapter over the given store and login
// service and registers the full route table.
func NewAdapter(store storage.Store, login *auth.LoginService, cfg Config) *Adapter {
	if cfg.MaxBodySize == 0 {
		cfg.MaxBodySize = DefaultConfig().MaxBodySize
	}

	a := &Adapter{
		store: store,
		login: login,
		mux:   http.NewServeMux(),
		cfg:   cfg,
	}

	a.mux.HandleFunc("POST /api/auth/login", a.handleLogin)
	a.mux.HandleFunc("GET /api/auth/me", a.handleMe)

	a.mux.HandleFunc("GET /api/user-profiles", a.handleListProfiles)
	a.mux.HandleFunc("POST /api/user-profiles", a.handleCreateProfile)
	a.mux.HandleFunc("GET /api/user-profiles/{id}", a.handleGetProfile)
	a.mux.HandleFunc("GET /api/user-profiles/username/{username}", a.handleGetProfileByUsername)
	a.mux.HandleFunc("PUT /api/user-profiles/{id}", a.handleUpdateProfile)
	a.mux.HandleFunc("DELETE /api/user-profiles/{id}", a.handleDeleteProfile)

	a.mux.HandleFunc("GET /api/vehicles", a.handleListVehicles)
	a.mux.HandleFunc("POST /api/vehicles", a.handleCreateVehicle)
	a.mux.HandleFunc("GET /api/vehicles/{id}", a.handleGetVehicle)
	a.mux.HandleFunc("PUT /api/vehicles/{id}", a.handleUpdateVehicle)
	a.mux.HandleFunc("DELETE /api/vehicles/{id}", a.handleDeleteVehicle)
	a.mux.HandleFunc("GET /api/vehicles/user/{profileID}", a.handleGetVehicleByProfile)

	a.mux.HandleFunc("GET /api/mods", a.handleListMods)
	a.mux.HandleFunc("POST /api/mods", a.handleCreateMod)
	a.mux.HandleFunc("GET /api/mods/{id}", a.handleGetMod)
	a.mux.HandleFunc("PUT /api/mods/{id}", a.handleUpdateMod)
	a.mux.HandleFunc("DELETE /api/mods/{id}", a.handleDeleteMod)
	a.mux.HandleFunc("GET /api/mods/user/{profileID}", a.handleListModsByProfile)
	a.mux.HandleFunc("GET /api/mods/vehicle/{vehicleID}", a.handleListModsByVehicle)
	a.mux.HandleFunc("GET /api/mods/category/{category}", a.handleListModsByCategory)
	a.mux.HandleFunc("GET /api/mods/brand/{brand}", a.handleListModsByBrand)
	a.mux.HandleFunc("GET /api/mods/sponsored", a.handleListSponsoredMods)

	a.mux.HandleFunc("GET /docs/openapi.yaml", handleOpenAPISpec)

	a.mux.HandleFunc("GET /healthz", a.handleHealth)

	return a
}

// Handler returns the http.Handler for this adapter. Use this to
// integrate with an http.Server or test with httptest.
func (a *Adapter) Handler() http.Handler {
	return a.mux
}

// handleHealth handles GET /healthz and reports store connectivity.
func (a *Adapter) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := a.store.HealthCheck(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeBody decodes a JSON request body into v with the configured size
// limit. It returns an APIError suitable for the response on failure.
func (a *Adapter) decodeBody(w http.ResponseWriter, r *http.Request, v any) *api.APIError {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		// Parameters like charset are fine; only the media type matters.
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != "application/json" {
			return api.NewInvalidRequestError("content_type", "Content-Type must be application/json")
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, a.cfg.MaxBodySize)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return api.NewInvalidRequestError("body", fmt.Sprintf("request body too large (max %d bytes)", a.cfg.MaxBodySize))
		}
		return api.NewInvalidRequestError("body", "invalid JSON: "+err.Error())
	}
	return nil
}

// pathID parses a numeric path value. The second return is false when
// the value is not a positive integer, after an error has been written.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		WriteErrorResponse(w,
			api.NewInvalidRequestError(name, "must be a positive integer"),
			http.StatusBadRequest,
		)
		return 0, false
	}
	return id, true
}
