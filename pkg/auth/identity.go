package auth

import "context"

// Account roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Identity is the authenticated caller resolved from a bearer token.
type Identity struct {
	AccountID string
	Role      string
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }
func (i Identity) IsUser() bool  { return i.Role == RoleUser }

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity stored by WithIdentity.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
