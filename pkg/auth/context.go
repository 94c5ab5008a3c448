package auth

import "context"

// Identity is the per-request authorization context: the verified token
// subject and the role set resolved from the profile store. It is
// derived per request and never persisted.
type Identity struct {
	Subject string
	Roles   []string
}

// HasRole reports whether the identity carries the given role tag.
func (id *Identity) HasRole(role string) bool {
	if id == nil {
		return false
	}
	for _, r := range id.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// identityKey is a private type for the identity context key.
type identityKey struct{}

// SetIdentity stores the resolved identity in the context.
func SetIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext retrieves the resolved identity.
// Returns nil when the request carried no usable credential.
func IdentityFromContext(ctx context.Context) *Identity {
	if v, ok := ctx.Value(identityKey{}).(*Identity); ok {
		return v
	}
	return nil
}
