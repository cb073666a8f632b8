package domain

import "time"

// AuditLog records one mutating operation: who did what to which resource.
type AuditLog struct {
	ID        string
	OrgID     string
	AccountID string
	Action    string
	Resource  string
	IP        string
	Metadata  string
	CreatedAt time.Time
}
