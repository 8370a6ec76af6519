package auth

import "context"

// Identity is the authenticated caller. It can only be obtained from a
// verified token, so handlers never build one from request input.
type Identity struct {
	userID string
}

// UserID returns the id of the user the token was issued to.
func (i Identity) UserID() string { return i.userID }

// IsZero reports whether i carries no user.
func (i Identity) IsZero() bool { return i.userID == "" }

type identityKey struct{}

// ContextWithIdentity returns a copy of ctx carrying id.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity stored by the access guard.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || id.IsZero() {
		return Identity{}, false
	}
	return id, true
}
