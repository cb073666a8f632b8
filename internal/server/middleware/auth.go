package middleware

import (
	"context"
	"net/http"
	"strings"

	"orgtodo/internal/account/domain"
	"orgtodo/internal/apperror"
	permissiondomain "orgtodo/internal/permission/domain"
	"orgtodo/internal/platform/authz"
	"orgtodo/internal/security"
	"orgtodo/internal/server/respond"
)

// PermissionSource resolves the capability set for a role.
type PermissionSource interface {
	GetPermissions(ctx context.Context, role domain.Role) ([]permissiondomain.Permission, error)
}

// Authenticate validates the Bearer access token, resolves the role's
// permission set, and stores the resulting actor in the request context.
// The actor is rebuilt on every request; permissions are never read from
// the token itself.
func Authenticate(tokens *security.TokenProvider, perms PermissionSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				respond.Error(w, r, apperror.Unauthorized("missing bearer token"))
				return
			}
			identity, err := tokens.ValidateAccess(raw)
			if err != nil {
				respond.Error(w, r, apperror.Unauthorized("invalid or expired access token"))
				return
			}
			role, err := domain.ParseRole(identity.Role)
			if err != nil {
				respond.Error(w, r, apperror.Unauthorized("invalid or expired access token"))
				return
			}
			permissions, err := perms.GetPermissions(r.Context(), role)
			if err != nil {
				respond.Error(w, r, err)
				return
			}
			actor := &authz.Actor{
				AccountID:   identity.AccountID,
				OrgID:       identity.OrgID,
				Role:        role,
				Permissions: permissions,
			}
			ctx := WithActor(r.Context(), actor)
			ctx = WithClientIP(ctx, r.RemoteAddr)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
