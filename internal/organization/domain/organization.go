package domain

import (
	"errors"
	"time"
)

// Organization represents a tenant. All accounts except superadmins and all
// todo items belong to exactly one organization.
type Organization struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewOrganization constructs a validated organization. Returns an error
// describing the first validation failure.
func NewOrganization(id, name string) (*Organization, error) {
	if id == "" {
		return nil, errors.New("id is required")
	}
	if name == "" {
		return nil, errors.New("name is required")
	}
	now := time.Now().UTC()
	return &Organization{ID: id, Name: name, CreatedAt: now, UpdatedAt: now}, nil
}
