package auth

import (
	"context"

	"github.com/otwartedane/mcod/pkg/model"
)

type contextKey struct{}

// WithUser returns a context carrying the authenticated user
func WithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

// UserFromContext returns the authenticated user, if any
func UserFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(contextKey{}).(*model.User)
	return u, ok && u != nil
}
