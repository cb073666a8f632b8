package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountdomain "orgtodo/internal/account/domain"
	"orgtodo/internal/auth/service"
	"orgtodo/internal/security"
	sessiondomain "orgtodo/internal/session/domain"
)

type memAccountRepo struct {
	byUserID map[string]*accountdomain.Account
}

func (r *memAccountRepo) GetByUserID(ctx context.Context, userID string) (*accountdomain.Account, error) {
	a, ok := r.byUserID[userID]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

type memSessionRepo struct {
	sessions map[string]*sessiondomain.Session
}

func (r *memSessionRepo) GetByID(ctx context.Context, id string) (*sessiondomain.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *memSessionRepo) Create(ctx context.Context, s *sessiondomain.Session) error {
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *memSessionRepo) Revoke(ctx context.Context, id string) error {
	if s, ok := r.sessions[id]; ok && s.RevokedAt == nil {
		now := time.Now().UTC()
		s.RevokedAt = &now
	}
	return nil
}

func (r *memSessionRepo) RevokeAllByAccount(ctx context.Context, accountID string) error {
	now := time.Now().UTC()
	for _, s := range r.sessions {
		if s.AccountID == accountID && s.RevokedAt == nil {
			s.RevokedAt = &now
		}
	}
	return nil
}

func (r *memSessionRepo) UpdateRefreshToken(ctx context.Context, sessionID, jti, refreshTokenHash string) error {
	if s, ok := r.sessions[sessionID]; ok {
		s.RefreshJti = jti
		s.RefreshTokenHash = refreshTokenHash
	}
	return nil
}

func (r *memSessionRepo) UpdateLastSeen(ctx context.Context, id string, at time.Time) error {
	if s, ok := r.sessions[id]; ok {
		s.LastSeenAt = &at
	}
	return nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	hasher := security.NewHasher(4)
	hash, err := hasher.Hash([]byte("s3cret"))
	require.NoError(t, err)
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
	sessions := &memSessionRepo{sessions: map[string]*sessiondomain.Session{}}
	tokens, err := security.NewTestTokenProvider()
	require.NoError(t, err)

	h := NewHandler(service.NewAuthService(accounts, sessions, hasher, tokens, 24*time.Hour, nil))
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func TestLoginHandler(t *testing.T) {
	router := newTestRouter(t)

	body := bytes.NewBufferString(`{"userId":"alice","password":"s3cret"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", body))

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.NotEmpty(t, got["accessToken"])
	assert.NotEmpty(t, got["refreshToken"])
	assert.Equal(t, "manager", got["role"])
	assert.Equal(t, "org-1", got["orgId"])
}

func TestLoginHandlerUnknownUser(t *testing.T) {
	router := newTestRouter(t)

	body := bytes.NewBufferString(`{"userId":"mallory","password":"s3cret"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", body))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"user not found"}`, rec.Body.String())
}

func TestLoginHandlerWrongPassword(t *testing.T) {
	router := newTestRouter(t)

	body := bytes.NewBufferString(`{"userId":"alice","password":"wrong"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", body))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"invalid password"}`, rec.Body.String())
}

func TestLoginHandlerMissingFields(t *testing.T) {
	router := newTestRouter(t)

	body := bytes.NewBufferString(`{"userId":"alice"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefreshHandlerRotation(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login",
		bytes.NewBufferString(`{"userId":"alice","password":"s3cret"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	var login map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	refresh := login["refreshToken"].(string)

	refreshBody, err := json.Marshal(map[string]string{"refreshToken": refresh})
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewReader(refreshBody)))
	require.Equal(t, http.StatusOK, rec.Code)
	var rotated map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rotated))
	assert.NotEqual(t, refresh, rotated["refreshToken"])

	// Replaying the pre-rotation token must be refused.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewReader(refreshBody)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutHandler(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login",
		bytes.NewBufferString(`{"userId":"alice","password":"s3cret"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	var login map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))

	logoutBody, err := json.Marshal(map[string]string{"refreshToken": login["refreshToken"].(string)})
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", bytes.NewReader(logoutBody)))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
