package middleware

import (
	"net/http"

	"orgtodo/internal/apperror"
	"orgtodo/internal/permission/domain"
	"orgtodo/internal/server/respond"
)

// RequirePermission refuses the request with 403 unless the actor's
// capability set contains action:resource. It must run after Authenticate.
// This is the coarse check only; org ownership is re-verified inside the
// use cases.
func RequirePermission(action domain.Action, resource domain.Resource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := GetActor(r.Context())
			if !ok {
				respond.Error(w, r, apperror.Unauthorized("missing bearer token"))
				return
			}
			if !actor.HasPermission(action, resource) {
				respond.Error(w, r, apperror.Forbidden("missing permission "+string(domain.Make(action, resource))))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
