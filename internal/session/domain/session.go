package domain

import "time"

// Session is a server-side login session. The refresh jti binds the session
// to the most recently issued refresh token; a mismatch on refresh means the
// token was reused after rotation.
type Session struct {
	ID               string
	AccountID        string
	OrgID            string // empty for superadmin sessions
	RefreshJti       string
	RefreshTokenHash string
	ExpiresAt        time.Time
	RevokedAt        *time.Time
	CreatedAt        time.Time
	LastSeenAt       *time.Time
}
