package storage

import (
	"context"

	"github.com/jameswoodtech/rigsheet/pkg/api"
)

// ProfileStore persists user profiles. Save inserts when the ID is zero
// and updates otherwise; inserts assign the ID on the returned value.
type ProfileStore interface {
	GetProfile(ctx context.Context, id int64) (*api.Profile, error)
	GetProfileByUsername(ctx context.Context, username string) (*api.Profile, error)
	ListProfiles(ctx context.Context) ([]*api.Profile, error)
	SaveProfile(ctx context.Context, p *api.Profile) (*api.Profile, error)
	DeleteProfile(ctx context.Context, id int64) error
}

// VehicleStore persists vehicles. A profile owns at most one vehicle;
// Save returns ErrConflict when an insert would violate that.
type VehicleStore interface {
	GetVehicle(ctx context.Context, id int64) (*api.Vehicle, error)
	GetVehicleByProfile(ctx context.Context, profileID int64) (*api.Vehicle, error)
	ListVehicles(ctx context.Context) ([]*api.Vehicle, error)
	SaveVehicle(ctx context.Context, v *api.Vehicle) (*api.Vehicle, error)
	DeleteVehicle(ctx context.Context, id int64) error
}

// ModificationStore persists build modifications.
type ModificationStore interface {
	GetModification(ctx context.Context, id int64) (*api.Modification, error)
	ListModifications(ctx context.Context) ([]*api.Modification, error)
	ListModificationsByProfile(ctx context.Context, profileID int64) ([]*api.Modification, error)
	ListModificationsByVehicle(ctx context.Context, vehicleID int64) ([]*api.Modification, error)
	ListModificationsByCategory(ctx context.Context, category string) ([]*api.Modification, error)
	ListModificationsByBrand(ctx context.Context, brand string) ([]*api.Modification, error)
	ListSponsoredModifications(ctx context.Context) ([]*api.Modification, error)
	SaveModification(ctx context.Context, m *api.Modification) (*api.Modification, error)
	DeleteModification(ctx context.Context, id int64) error
}

// Store is the full catalog store implemented by the adapters.
type Store interface {
	ProfileStore
	VehicleStore
	ModificationStore

	HealthCheck(ctx context.Context) error
	Close() error
}
