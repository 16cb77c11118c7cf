package middleware

import "context"

type identityKey struct{}

// Identity is the caller extracted from a verified access token.
type Identity struct {
	UserID      string
	Permissions []string
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the caller's identity, if the request passed
// through the auth middleware.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
