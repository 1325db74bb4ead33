package auth

import (
	"context"

	"github.com/zulqarnainhdr514/storage-management/internal/profile"
)

type userContextKey struct{}

// SetUserToContext stores the authenticated profile in context for
// middleware chain access.
func SetUserToContext(ctx context.Context, rec *profile.Record) context.Context {
	return context.WithValue(ctx, userContextKey{}, rec)
}

// GetUserFromContext retrieves the authenticated profile from context.
// Returns nil if no profile was previously stored.
func GetUserFromContext(ctx context.Context) *profile.Record {
	rec, _ := ctx.Value(userContextKey{}).(*profile.Record)
	return rec
}
