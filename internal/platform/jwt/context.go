package jwtmw

import (
	"context"

	"blog_backend/internal/feature/auth/domain/entity"
)

// Identity is the authenticated caller attached to a request by AuthRequired.
type Identity struct {
	User   entity.PublicUser
	Claims *Claims
	Token  string
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity stored in ctx, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// CurrentUser returns the authenticated user's public view stored in ctx.
func CurrentUser(ctx context.Context) (entity.PublicUser, bool) {
	id, ok := IdentityFrom(ctx)
	if !ok {
		return entity.PublicUser{}, false
	}
	return id.User, true
}
