package auth

import (
	"context"
	"net/http"

	"github.com/zulqarnainhdr514/storage-management/internal/profile"
)

// UserResolver resolves a session secret to a profile record.
type UserResolver interface {
	CurrentUser(ctx context.Context, secret string) (*profile.Record, error)
}

// SecretReader extracts the session secret from a request.
type SecretReader interface {
	Read(r *http.Request) (string, error)
}

// Middleware resolves the current user from the session carrier and stores
// it in the request context. Requests without a valid session pass through
// unauthenticated; enforcement is left to the route groups.
func Middleware(svc UserResolver, carrier SecretReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			secret, err := carrier.Read(r)
			if err == nil {
				if rec, err := svc.CurrentUser(r.Context(), secret); err == nil && rec != nil {
					r = r.WithContext(SetUserToContext(r.Context(), rec))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
