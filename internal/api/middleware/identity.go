package middleware

import (
	"net/http"

	"github.com/grouptaskmanager/taskflow/internal/api/shared"
	"github.com/grouptaskmanager/taskflow/internal/service"
)

// IdentityHeader carries the authenticated caller's login, set by the API
// gateway after it validates the session. Services behind the gateway
// trust it; the gateway strips any client-supplied value.
const IdentityHeader = "X-User-Login"

// IdentityMiddleware reads the gateway's identity header into the request
// context. Requests without the header still pass through: whether an
// operation needs an acting user is the service layer's call, and it
// answers ErrMissingIdentity there.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident := service.Identity{Login: r.Header.Get(IdentityHeader)}
		next.ServeHTTP(w, r.WithContext(shared.SetIdentity(r.Context(), ident)))
	})
}
