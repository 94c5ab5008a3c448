// Package memory provides an in-memory implementation of storage.Store
// for testing and lightweight deployments. Records are lost when the
// process restarts.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jameswoodtech/rigsheet/pkg/api"
	"github.com/jameswoodtech/rigsheet/pkg/storage"
)

// Store is an in-memory catalog store guarded by a single RWMutex.
type Store struct {
	mu sync.RWMutex

	profiles map[int64]api.Profile
	vehicles map[int64]api.Vehicle
	mods     map[int64]api.Modification

	nextProfileID int64
	nextVehicleID int64
	nextModID     int64
}

// Ensure Store implements storage.Store at compile time.
var _ storage.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		profiles: make(map[int64]api.Profile),
		vehicles: make(map[int64]api.Vehicle),
		mods:     make(map[int64]api.Modification),
	}
}

// GetProfile returns a profile by ID.
func (s *Store) GetProfile(_ context.Context, id int64) (*api.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

// GetProfileByUsername returns a profile by its unique username.
func (s *Store) GetProfileByUsername(_ context.Context, username string) (*api.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.profiles {
		if p.Username == username {
			p := p
			return &p, nil
		}
	}
	return nil, storage.ErrNotFound
}

// ListProfiles returns all profiles ordered by ID.
func (s *Store) ListProfiles(_ context.Context) ([]*api.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*api.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SaveProfile inserts (ID zero) or updates a profile. Inserting a
// duplicate username returns ErrConflict.
func (s *Store) SaveProfile(_ context.Context, p *api.Profile) (*api.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.profiles {
		if existing.Username == p.Username && id != p.ID {
			return nil, storage.ErrConflict
		}
	}

	saved := *p
	if saved.ID == 0 {
		s.nextProfileID++
		saved.ID = s.nextProfileID
	} else if _, ok := s.profiles[saved.ID]; !ok {
		return nil, storage.ErrNotFound
	}

	s.profiles[saved.ID] = saved
	return &saved, nil
}

// DeleteProfile removes a profile and everything it owns.
func (s *Store) DeleteProfile(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.profiles, id)

	for vid, v := range s.vehicles {
		if v.ProfileID == id {
			delete(s.vehicles, vid)
		}
	}
	for mid, m := range s.mods {
		if m.ProfileID == id {
			delete(s.mods, mid)
		}
	}
	return nil
}

// GetVehicle returns a vehicle by ID.
func (s *Store) GetVehicle(_ context.Context, id int64) (*api.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.vehicles[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &v, nil
}

// GetVehicleByProfile returns the vehicle owned by the profile.
func (s *Store) GetVehicleByProfile(_ context.Context, profileID int64) (*api.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, v := range s.vehicles {
		if v.ProfileID == profileID {
			v := v
			return &v, nil
		}
	}
	return nil, storage.ErrNotFound
}

// ListVehicles returns all vehicles ordered by ID.
func (s *Store) ListVehicles(_ context.Context) ([]*api.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*api.Vehicle, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		v := v
		out = append(out, &v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SaveVehicle inserts (ID zero) or updates a vehicle. A second vehicle
// for the same profile returns ErrConflict.
func (s *Store) SaveVehicle(_ context.Context, v *api.Vehicle) (*api.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[v.ProfileID]; !ok {
		return nil, storage.ErrNotFound
	}

	for id, existing := range s.vehicles {
		if existing.ProfileID == v.ProfileID && id != v.ID {
			return nil, storage.ErrConflict
		}
	}

	saved := *v
	if saved.ID == 0 {
		s.nextVehicleID++
		saved.ID = s.nextVehicleID
	} else if _, ok := s.vehicles[saved.ID]; !ok {
		return nil, storage.ErrNotFound
	}

	s.vehicles[saved.ID] = saved
	return &saved, nil
}

// DeleteVehicle removes a vehicle and its modifications.
func (s *Store) DeleteVehicle(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.vehicles[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.vehicles, id)

	for mid, m := range s.mods {
		if m.VehicleID == id {
			delete(s.mods, mid)
		}
	}
	return nil
}

// GetModification returns a modification by ID.
func (s *Store) GetModification(_ context.Context, id int64) (*api.Modification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.mods[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &m, nil
}

// ListModifications returns all modifications ordered by ID.
func (s *Store) ListModifications(ctx context.Context) ([]*api.Modification, error) {
	return s.listMods(func(api.Modification) bool { return true })
}

// ListModificationsByProfile returns the modifications owned by a profile.
func (s *Store) ListModificationsByProfile(_ context.Context, profileID int64) ([]*api.Modification, error) {
	return s.listMods(func(m api.Modification) bool { return m.ProfileID == profileID })
}

// ListModificationsByVehicle returns the modifications on a vehicle.
func (s *Store) ListModificationsByVehicle(_ context.Context, vehicleID int64) ([]*api.Modification, error) {
	return s.listMods(func(m api.Modification) bool { return m.VehicleID == vehicleID })
}

// ListModificationsByCategory returns the modifications in a category.
func (s *Store) ListModificationsByCategory(_ context.Context, category string) ([]*api.Modification, error) {
	return s.listMods(func(m api.Modification) bool { return m.Category == category })
}

// ListModificationsByBrand returns the modifications of a brand.
func (s *Store) ListModificationsByBrand(_ context.Context, brand string) ([]*api.Modification, error) {
	return s.listMods(func(m api.Modification) bool { return m.Brand == brand })
}

// ListSponsoredModifications returns the sponsored modifications.
func (s *Store) ListSponsoredModifications(_ context.Context) ([]*api.Modification, error) {
	return s.listMods(func(m api.Modification) bool { return m.Sponsored })
}

func (s *Store) listMods(keep func(api.Modification) bool) ([]*api.Modification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*api.Modification
	for _, m := range s.mods {
		if keep(m) {
			m := m
			out = append(out, &m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SaveModification inserts (ID zero) or updates a modification. The
// referenced vehicle must exist; the owner is backfilled from the
// vehicle when omitted.
func (s *Store) SaveModification(_ context.Context, m *api.Modification) (*api.Modification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	vehicle, ok := s.vehicles[m.VehicleID]
	if !ok {
		return nil, storage.ErrNotFound
	}

	saved := *m
	if saved.ProfileID == 0 {
		saved.ProfileID = vehicle.ProfileID
	}

	if saved.ID == 0 {
		s.nextModID++
		saved.ID = s.nextModID
	} else if _, ok := s.mods[saved.ID]; !ok {
		return nil, storage.ErrNotFound
	}

	s.mods[saved.ID] = saved
	return &saved, nil
}

// DeleteModification removes a modification.
func (s *Store) DeleteModification(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.mods[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.mods, id)
	return nil
}

// HealthCheck always returns nil for the in-memory store.
func (s *Store) HealthCheck(_ context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
