package domain

import "testing"

func TestNewOrganization(t *testing.T) {
	org, err := NewOrganization("org-1", "Acme")
	if err != nil {
		t.Fatalf("NewOrganization: %v", err)
	}
	if org.Name != "Acme" {
		t.Errorf("name = %q, want Acme", org.Name)
	}
	if org.CreatedAt.IsZero() {
		t.Error("CreatedAt must be set")
	}
}

func TestNewOrganization_Invalid(t *testing.T) {
	if _, err := NewOrganization("", "Acme"); err == nil {
		t.Error("expected error for empty id")
	}
	if _, err := NewOrganization("org-1", ""); err == nil {
		t.Error("expected error for empty name")
	}
}
