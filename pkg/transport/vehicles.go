package transport

import (
	"net/http"

	"github.com/jameswoodtech/rigsheet/pkg/api"
)

// handleListVehicles handles GET /api/vehicles.
func (a *Adapter) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := a.store.ListVehicles(r.Context())
	if err != nil {
		writeStoreError(w, err, "vehicles")
		return
	}
	if vehicles == nil {
		vehicles = []*api.Vehicle{}
	}
	writeJSON(w, http.StatusOK, vehicles)
}

// handleGetVehicle handles GET /api/vehicles/{id}.
func (a *Adapter) handleGetVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	vehicle, err := a.store.GetVehicle(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "vehicle")
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

// handleGetVehicleByProfile handles GET /api/vehicles/user/{profileID}.
func (a *Adapter) handleGetVehicleByProfile(w http.ResponseWriter, r *http.Request) {
	profileID, ok := pathID(w, r, "profileID")
	if !ok {
		return
	}
	vehicle, err := a.store.GetVehicleByProfile(r.Context(), profileID)
	if err != nil {
		writeStoreError(w, err, "vehicle")
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

// handleCreateVehicle handles POST /api/vehicles.
func (a *Adapter) handleCreateVehicle(w http.ResponseWriter, r *http.Request) {
	var vehicle api.Vehicle
	if apiErr := a.decodeBody(w, r, &vehicle); apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}
	if vehicle.ProfileID == 0 {
		WriteAPIError(w, api.NewInvalidRequestError("profileId", "must reference an existing profile"))
		return
	}
	vehicle.ID = 0

	saved, err := a.store.SaveVehicle(r.Context(), &vehicle)
	if err != nil {
		writeStoreError(w, err, "vehicle")
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// handleUpdateVehicle handles PUT /api/vehicles/{id}.
func (a *Adapter) handleUpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	existing, err := a.store.GetVehicle(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "vehicle")
		return
	}

	var incoming api.Vehicle
	if apiErr := a.decodeBody(w, r, &incoming); apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}

	merged := api.UpdateVehicle(*existing, incoming)
	saved, err := a.store.SaveVehicle(r.Context(), &merged)
	if err != nil {
		writeStoreError(w, err, "vehicle")
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// handleDeleteVehicle handles DELETE /api/vehicles/{id}.
func (a *Adapter) handleDeleteVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := a.store.DeleteVehicle(r.Context(), id); err != nil {
		writeStoreError(w, err, "vehicle")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
