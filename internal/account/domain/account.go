package domain

import (
	"errors"
	"fmt"
	"time"
)

// Role is the closed set of account roles. Authorization logic must match on
// it exhaustively; there is no fallthrough role.
type Role string

const (
	// RoleSuperAdmin operates across all organizations and has no org of its own.
	RoleSuperAdmin Role = "superadmin"
	// RoleManager manages accounts and todos within a single organization.
	RoleManager Role = "manager"
	// RoleOperator works todos within a single organization.
	RoleOperator Role = "operator"
)

// ParseRole returns the Role for s, or an error for an unknown value.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleSuperAdmin, RoleManager, RoleOperator:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// Account is a user account. OrgID is empty only for superadmins.
type Account struct {
	ID           string
	UserID       string // unique login handle
	Name         string
	PasswordHash string
	OrgID        string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewAccount constructs a validated account. Returns an error describing the
// first validation failure. Non-superadmin accounts must belong to an
// organization.
func NewAccount(id, userID, name, passwordHash, orgID string, role Role) (*Account, error) {
	if id == "" {
		return nil, errors.New("id is required")
	}
	if userID == "" {
		return nil, errors.New("user id is required")
	}
	if name == "" {
		return nil, errors.New("name is required")
	}
	if passwordHash == "" {
		return nil, errors.New("password hash is required")
	}
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	if role != RoleSuperAdmin && orgID == "" {
		return nil, errors.New("organization is required for non-superadmin accounts")
	}
	now := time.Now().UTC()
	return &Account{
		ID:           id,
		UserID:       userID,
		Name:         name,
		PasswordHash: passwordHash,
		OrgID:        orgID,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
