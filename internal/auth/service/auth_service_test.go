package service

import (
	"context"
	"sync"
	"testing"
	"time"

	accountdomain "orgtodo/internal/account/domain"
	"orgtodo/internal/apperror"
	"orgtodo/internal/security"
	sessiondomain "orgtodo/internal/session/domain"
)

type memAccountRepo struct {
	mu       sync.Mutex
	byUserID map[string]*accountdomain.Account
}

func (r *memAccountRepo) GetByUserID(ctx context.Context, userID string) (*accountdomain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byUserID[userID]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*sessiondomain.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: map[string]*sessiondomain.Session{}}
}

func (r *memSessionRepo) GetByID(ctx context.Context, id string) (*sessiondomain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *memSessionRepo) Create(ctx context.Context, s *sessiondomain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *memSessionRepo) Revoke(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok && s.RevokedAt == nil {
		now := time.Now().UTC()
		s.RevokedAt = &now
	}
	return nil
}

func (r *memSessionRepo) RevokeAllByAccount(ctx context.Context, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	for _, s := range r.sessions {
		if s.AccountID == accountID && s.RevokedAt == nil {
			s.RevokedAt = &now
		}
	}
	return nil
}

func (r *memSessionRepo) UpdateRefreshToken(ctx context.Context, sessionID, jti, refreshTokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[sessionID]; ok {
		s.RefreshJti = jti
		s.RefreshTokenHash = refreshTokenHash
	}
	return nil
}

func (r *memSessionRepo) UpdateLastSeen(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		s.LastSeenAt = &at
	}
	return nil
}

func newAuthFixture(t *testing.T) (*AuthService, *memSessionRepo) {
	t.Helper()
	hasher := security.NewHasher(4)
	hash, err := hasher.Hash([]byte("s3cret"))
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	accounts := &memAccountRepo{byUserID: map[string]*accountdomain.Account{
		"alice": {
			ID:           "acct-1",
			UserID:       "alice",
			Name:         "Alice",
			PasswordHash: hash,
			OrgID:        "org-1",
			Role:         accountdomain.RoleManager,
		},
	}}
	sessions := newMemSessionRepo()
	tokens, err := security.NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	return NewAuthService(accounts, sessions, hasher, tokens, 24*time.Hour, nil), sessions
}

func TestLogin(t *testing.T) {
	svc, sessions := newAuthFixture(t)

	res, err := svc.Login(context.Background(), "alice", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.AccessToken == "" || res.RefreshToken == "" {
		t.Fatal("expected both tokens to be issued")
	}
	if res.AccountID != "acct-1" || res.OrgID != "org-1" || res.Role != "manager" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(sessions.sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions.sessions))
	}
	for _, s := range sessions.sessions {
		if s.RefreshTokenHash == "" || s.RefreshJti == "" {
			t.Fatal("expected session to record refresh jti and hash")
		}
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc, sessions := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "mallory", "s3cret")
	if !apperror.IsKind(err, apperror.KindUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if len(sessions.sessions) != 0 {
		t.Fatal("expected no session for failed login")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "alice", "wrong")
	if !apperror.IsKind(err, apperror.KindUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, sessions := newAuthFixture(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Fatal("expected a new refresh token after rotation")
	}
	if refreshed.AccountID != "acct-1" {
		t.Fatalf("unexpected account: %q", refreshed.AccountID)
	}

	// The old token's jti no longer matches the session; replaying it must
	// revoke everything the account has.
	_, err = svc.Refresh(ctx, login.RefreshToken)
	if !apperror.IsKind(err, apperror.KindUnauthorized) {
		t.Fatalf("expected unauthorized on reuse, got %v", err)
	}
	for _, s := range sessions.sessions {
		if s.AccountID == "acct-1" && s.RevokedAt == nil {
			t.Fatal("expected all account sessions to be revoked after reuse")
		}
	}

	// The rotated token was issued for a now revoked session.
	_, err = svc.Refresh(ctx, refreshed.RefreshToken)
	if !apperror.IsKind(err, apperror.KindUnauthorized) {
		t.Fatalf("expected unauthorized for revoked session, got %v", err)
	}
}

func TestRefreshReuseRevokesAllSessions(t *testing.T) {
	svc, sessions := newAuthFixture(t)
	ctx := context.Background()

	// Two concurrent sessions for the same account, e.g. two devices.
	first, err := svc.Login(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("Login first: %v", err)
	}
	second, err := svc.Login(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("Login second: %v", err)
	}
	if len(sessions.sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions.sessions))
	}

	if _, err := svc.Refresh(ctx, first.RefreshToken); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	// Replaying the rotated-out token is treated as theft; the other
	// device's session must go down with it.
	_, err = svc.Refresh(ctx, first.RefreshToken)
	if !apperror.IsKind(err, apperror.KindUnauthorized) {
		t.Fatalf("expected unauthorized on reuse, got %v", err)
	}
	if len(sessions.sessions) != 2 {
		t.Fatalf("expected sessions to be revoked, not deleted, got %d", len(sessions.sessions))
	}
	for id, s := range sessions.sessions {
		if s.RevokedAt == nil {
			t.Fatalf("expected session %s to be revoked after reuse", id)
		}
	}

	_, err = svc.Refresh(ctx, second.RefreshToken)
	if !apperror.IsKind(err, apperror.KindUnauthorized) {
		t.Fatalf("expected unauthorized for the second device after reuse, got %v", err)
	}
}

func TestRefreshGarbageToken(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	if !apperror.IsKind(err, apperror.KindUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, sessions := newAuthFixture(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := svc.Logout(ctx, login.RefreshToken, ""); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	for _, s := range sessions.sessions {
		if s.RevokedAt == nil {
			t.Fatal("expected session to be revoked")
		}
	}

	_, err = svc.Refresh(ctx, login.RefreshToken)
	if !apperror.IsKind(err, apperror.KindUnauthorized) {
		t.Fatalf("expected unauthorized after logout, got %v", err)
	}
}

func TestLogoutInvalidTokenIsNoop(t *testing.T) {
	svc, _ := newAuthFixture(t)

	if err := svc.Logout(context.Background(), "garbage", ""); err != nil {
		t.Fatalf("Logout: %v", err)
	}
}
