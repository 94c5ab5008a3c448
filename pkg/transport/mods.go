package transport

import (
	"net/http"

	"github.com/jameswoodtech/rigsheet/pkg/api"
)

// handleListMods handles GET /api/mods.
func (a *Adapter) handleListMods(w http.ResponseWriter, r *http.Request) {
	mods, err := a.store.ListModifications(r.Context())
	a.writeModList(w, r, mods, err)
}

// handleListModsByProfile handles GET /api/mods/user/{profileID}.
func (a *Adapter) handleListModsByProfile(w http.ResponseWriter, r *http.Request) {
	profileID, ok := pathID(w, r, "profileID")
	if !ok {
		return
	}
	mods, err := a.store.ListModificationsByProfile(r.Context(), profileID)
	a.writeModList(w, r, mods, err)
}

// handleListModsByVehicle handles GET /api/mods/vehicle/{vehicleID}.
func (a *Adapter) handleListModsByVehicle(w http.ResponseWriter, r *http.Request) {
	vehicleID, ok := pathID(w, r, "vehicleID")
	if !ok {
		return
	}
	mods, err := a.store.ListModificationsByVehicle(r.Context(), vehicleID)
	a.writeModList(w, r, mods, err)
}

// handleListModsByCategory handles GET /api/mods/category/{category}.
func (a *Adapter) handleListModsByCategory(w http.ResponseWriter, r *http.Request) {
	mods, err := a.store.ListModificationsByCategory(r.Context(), r.PathValue("category"))
	a.writeModList(w, r, mods, err)
}

// handleListModsByBrand handles GET /api/mods/brand/{brand}.
func (a *Adapter) handleListModsByBrand(w http.ResponseWriter, r *http.Request) {
	mods, err := a.store.ListModificationsByBrand(r.Context(), r.PathValue("brand"))
	a.writeModList(w, r, mods, err)
}

// handleListSponsoredMods handles GET /api/mods/sponsored.
func (a *Adapter) handleListSponsoredMods(w http.ResponseWriter, r *http.Request) {
	mods, err := a.store.ListSponsoredModifications(r.Context())
	a.writeModList(w, r, mods, err)
}

// writeModList serializes a modification list query result.
func (a *Adapter) writeModList(w http.ResponseWriter, _ *http.Request, mods []*api.Modification, err error) {
	if err != nil {
		writeStoreError(w, err, "modifications")
		return
	}
	if mods == nil {
		mods = []*api.Modification{}
	}
	writeJSON(w, http.StatusOK, mods)
}

// handleGetMod handles GET /api/mods/{id}.
func (a *Adapter) handleGetMod(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	mod, err := a.store.GetModification(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "modification")
		return
	}
	writeJSON(w, http.StatusOK, mod)
}

// handleCreateMod handles POST /api/mods.
func (a *Adapter) handleCreateMod(w http.ResponseWriter, r *http.Request) {
	var mod api.Modification
	if apiErr := a.decodeBody(w, r, &mod); apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}
	if mod.VehicleID == 0 {
		WriteAPIError(w, api.NewInvalidRequestError("vehicleId", "must reference an existing vehicle"))
		return
	}
	mod.ID = 0

	saved, err := a.store.SaveModification(r.Context(), &mod)
	if err != nil {
		writeStoreError(w, err, "modification")
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// handleUpdateMod handles PUT /api/mods/{id}.
func (a *Adapter) handleUpdateMod(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	existing, err := a.store.GetModification(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "modification")
		return
	}

	var incoming api.Modification
	if apiErr := a.decodeBody(w, r, &incoming); apiErr != nil {
		WriteAPIError(w, apiErr)
		return
	}

	merged := api.UpdateModification(*existing, incoming)
	saved, err := a.store.SaveModification(r.Context(), &merged)
	if err != nil {
		writeStoreError(w, err, "modification")
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// handleDeleteMod handles DELETE /api/mods/{id}.
func (a *Adapter) handleDeleteMod(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := a.store.DeleteModification(r.Context(), id); err != nil {
		writeStoreError(w, err, "modification")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
