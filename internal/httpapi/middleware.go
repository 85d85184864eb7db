package httpapi

import (
	"context"
	"net/http"

	"github.com/inkpost/inkpost/internal/service"
)

type contextKey string

const identityKey = contextKey("identity")

// identityMiddleware lifts the identity resolved by the upstream
// authenticating proxy (X-User-Id / X-User-Name) into the request context.
// Absent headers mean an anonymous caller; authentication itself lives
// outside this service.
func identityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := service.Identity{
			UserID: r.Header.Get("X-User-Id"),
			Name:   r.Header.Get("X-User-Name"),
		}
		ctx := context.WithValue(r.Context(), identityKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func callerIdentity(ctx context.Context) service.Identity {
	id, _ := ctx.Value(identityKey).(service.Identity)
	return id
}
