// Package authz holds the request actor and the organization access policy.
//
// Authorization is two layers: the permission middleware tests the actor's
// capability set (can this role ever perform action on resource), and every
// org-scoped use case re-checks CanAccessOrganization (can this actor touch
// this row). Neither layer may assume the other already passed.
package authz

import (
	accountdomain "orgtodo/internal/account/domain"
	permissiondomain "orgtodo/internal/permission/domain"
)

// Actor is the authenticated caller for one request: account identity from
// the verified JWT plus the permission set resolved for its role. Built
// per-request; never cached across requests.
type Actor struct {
	AccountID   string
	OrgID       string // empty for superadmins
	Role        accountdomain.Role
	Permissions []permissiondomain.Permission
}

// HasPermission reports whether the actor's capability set contains
// action:resource.
func (a *Actor) HasPermission(action permissiondomain.Action, resource permissiondomain.Resource) bool {
	want := permissiondomain.Make(action, resource)
	for _, p := range a.Permissions {
		if p == want {
			return true
		}
	}
	return false
}

// CanAccessOrganization is the single ownership policy for org-scoped data.
// Superadmins may touch any organization; managers and operators only their
// own. Unknown roles are denied.
func CanAccessOrganization(a *Actor, orgID string) bool {
	if a == nil {
		return false
	}
	switch a.Role {
	case accountdomain.RoleSuperAdmin:
		return true
	case accountdomain.RoleManager, accountdomain.RoleOperator:
		return a.OrgID != "" && a.OrgID == orgID
	default:
		return false
	}
}
