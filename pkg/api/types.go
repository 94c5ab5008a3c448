package api

import "strings"

// RoleUser is the base role every authenticated profile carries when no
// explicit roles are stored.
const RoleUser = "ROLE_USER"

// Profile is a user account record. PasswordHash is write-only state:
// it is never serialized in responses and is set only at identity
// creation time (or by an explicit password change), never by the login
// flow.
type Profile struct {
	ID              int64  `json:"id"`
	Username        string `json:"username"`
	DisplayName     string `json:"displayName"`
	Bio             string `json:"bio,omitempty"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
	Location        string `json:"location,omitempty"`

	// PasswordHash is a bcrypt hash, or empty when no credential is set.
	PasswordHash string `json:"-"`

	// Roles is the canonical comma-delimited storage form,
	// e.g. "ROLE_USER,ROLE_ADMIN". Use ParseRoles to read it.
	Roles string `json:"roles,omitempty"`
}

// PublicProfile is the minimal projection returned by the login flow.
type PublicProfile struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	DisplayName string   `json:"displayName"`
	Roles       []string `json:"roles"`
}

// Public returns the login-response projection of a profile.
func (p *Profile) Public() PublicProfile {
	return PublicProfile{
		ID:          p.ID,
		Username:    p.Username,
		DisplayName: p.DisplayName,
		Roles:       ParseRoles(p.Roles),
	}
}

// ParseRoles splits a comma-delimited role string, trimming whitespace
// and dropping empty segments. An empty or absent role string yields the
// single base role.
func ParseRoles(s string) []string {
	var roles []string
	for _, part := range strings.Split(s, ",") {
		if r := strings.TrimSpace(part); r != "" {
			roles = append(roles, r)
		}
	}
	if len(roles) == 0 {
		return []string{RoleUser}
	}
	return roles
}

// Vehicle is a rig record owned by exactly one profile. A profile has at
// most one vehicle; the store enforces the uniqueness.
type Vehicle struct {
	ID          int64  `json:"id"`
	VehicleYear string `json:"vehicleYear"`
	Make        string `json:"make"`
	Model       string `json:"model"`
	Trim        string `json:"trim,omitempty"`
	Color       string `json:"color,omitempty"`
	Nickname    string `json:"nickname,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	ProfileID   int64  `json:"profileId"`
}

// Modification is a build part or gear item attached to a vehicle.
// ProfileID and VehicleID are the canonical ownership references.
type Modification struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category,omitempty"`
	Brand     string  `json:"brand,omitempty"`
	Sponsored bool    `json:"sponsored"`
	ReviewURL string  `json:"reviewUrl,omitempty"`
	Cost      float64 `json:"cost,omitempty"`
	Weight    float64 `json:"weight,omitempty"`
	ImageURL  string  `json:"imageUrl,omitempty"`
	ProfileID int64   `json:"profileId"`
	VehicleID int64   `json:"vehicleId"`
}

// UpdateProfile merges an incoming profile into an existing one for a
// PUT-style update. The existing ID always wins, and the stored password
// hash is preserved unless the incoming value explicitly carries one.
func UpdateProfile(existing, incoming Profile) Profile {
	incoming.ID = existing.ID
	if incoming.PasswordHash == "" {
		incoming.PasswordHash = existing.PasswordHash
	}
	return incoming
}

// UpdateVehicle merges an incoming vehicle into an existing one. The
// existing ID wins, and ownership is preserved when the update omits it.
func UpdateVehicle(existing, incoming Vehicle) Vehicle {
	incoming.ID = existing.ID
	if incoming.ProfileID == 0 {
		incoming.ProfileID = existing.ProfileID
	}
	return incoming
}

// UpdateModification merges an incoming modification into an existing
// one, preserving the vehicle and owner references when omitted.
func UpdateModification(existing, incoming Modification) Modification {
	incoming.ID = existing.ID
	if incoming.VehicleID == 0 {
		incoming.VehicleID = existing.VehicleID
	}
	if incoming.ProfileID == 0 {
		incoming.ProfileID = existing.ProfileID
	}
	return incoming
}
