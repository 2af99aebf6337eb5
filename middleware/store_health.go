package middleware

import (
	"context"
	"net/http"

	"collegedir/utils"
)

type HealthChecker interface {
	EnsureHealthy(ctx context.Context) error
}

// StoreHealth rejects requests with a 500 envelope while the store is
// unreachable.
func StoreHealth(store HealthChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := store.EnsureHealthy(r.Context()); err != nil {
				utils.RespondWithAppError(w, r, err, "Database unavailable.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
