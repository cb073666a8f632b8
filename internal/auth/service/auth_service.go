package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	accountdomain "orgtodo/internal/account/domain"
	"orgtodo/internal/apperror"
	"orgtodo/internal/audit"
	"orgtodo/internal/security"
	sessiondomain "orgtodo/internal/session/domain"
)

// AuthResult holds the outcome of Login or Refresh.
type AuthResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	AccountID    string
	OrgID        string
	Role         string
}

// AccountRepo is the minimal account repository needed by the auth service.
type AccountRepo interface {
	GetByUserID(ctx context.Context, userID string) (*accountdomain.Account, error)
}

// SessionRepo is the minimal session repository needed by the auth service.
type SessionRepo interface {
	GetByID(ctx context.Context, id string) (*sessiondomain.Session, error)
	Create(ctx context.Context, s *sessiondomain.Session) error
	Revoke(ctx context.Context, id string) error
	RevokeAllByAccount(ctx context.Context, accountID string) error
	UpdateRefreshToken(ctx context.Context, sessionID, jti, refreshTokenHash string) error
	UpdateLastSeen(ctx context.Context, id string, at time.Time) error
}

// AuthService implements password login, refresh token rotation, and logout.
type AuthService struct {
	accountRepo AccountRepo
	sessionRepo SessionRepo
	hasher      *security.Hasher
	tokens      *security.TokenProvider
	refreshTTL  time.Duration
	audit       *audit.Logger
}

// NewAuthService returns an AuthService with the given dependencies.
// auditLogger may be nil.
func NewAuthService(
	accountRepo AccountRepo,
	sessionRepo SessionRepo,
	hasher *security.Hasher,
	tokens *security.TokenProvider,
	refreshTTL time.Duration,
	auditLogger *audit.Logger,
) *AuthService {
	return &AuthService{
		accountRepo: accountRepo,
		sessionRepo: sessionRepo,
		hasher:      hasher,
		tokens:      tokens,
		refreshTTL:  refreshTTL,
		audit:       auditLogger,
	}
}

// Login authenticates with user id and password, creates a session, and
// returns tokens. A missing account and a wrong password both map to 401;
// password verification goes through the bcrypt compare, never raw equality.
func (s *AuthService) Login(ctx context.Context, userID, password string) (*AuthResult, error) {
	if userID == "" || password == "" {
		return nil, apperror.Unauthorized("invalid credentials")
	}
	acct, err := s.accountRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	if acct == nil {
		return nil, apperror.Unauthorized("user not found")
	}
	if err := s.hasher.Compare(acct.PasswordHash, []byte(password)); err != nil {
		return nil, apperror.Unauthorized("invalid password")
	}
	sessionID := uuid.New().String()
	identity := security.Identity{
		AccountID: acct.ID,
		OrgID:     acct.OrgID,
		Role:      string(acct.Role),
		SessionID: sessionID,
	}
	refreshToken, jti, _, err := s.tokens.IssueRefresh(identity)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	accessToken, _, accessExp, err := s.tokens.IssueAccess(identity)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	sess := &sessiondomain.Session{
		ID:               sessionID,
		AccountID:        acct.ID,
		OrgID:            acct.OrgID,
		RefreshJti:       jti,
		RefreshTokenHash: security.HashRefreshToken(refreshToken),
		ExpiresAt:        time.Now().UTC().Add(s.refreshTTL),
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.sessionRepo.Create(ctx, sess); err != nil {
		return nil, apperror.Unexpected(err)
	}
	s.audit.LogEvent(ctx, acct.OrgID, acct.ID, "login", "Session", sessionID)
	return &AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    accessExp,
		AccountID:    acct.ID,
		OrgID:        acct.OrgID,
		Role:         string(acct.Role),
	}, nil
}

// Refresh validates the refresh token, rotates it, and returns new tokens.
// A jti mismatch means the token was already rotated and is being replayed;
// every session of the account is revoked.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, apperror.Unauthorized("invalid or expired refresh token")
	}
	identity, jti, err := s.tokens.ValidateRefresh(refreshToken)
	if err != nil {
		return nil, apperror.Unauthorized("invalid or expired refresh token")
	}
	sess, err := s.sessionRepo.GetByID(ctx, identity.SessionID)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	if sess == nil || sess.RevokedAt != nil || time.Now().UTC().After(sess.ExpiresAt) {
		return nil, apperror.Unauthorized("invalid or expired refresh token")
	}
	if sess.RefreshJti != jti {
		_ = s.sessionRepo.RevokeAllByAccount(ctx, identity.AccountID)
		s.audit.LogEvent(ctx, identity.OrgID, identity.AccountID, "token_reuse", "Session", sess.ID)
		return nil, apperror.Unauthorized("refresh token reuse detected; all sessions revoked")
	}
	if sess.RefreshTokenHash != "" && !security.RefreshTokenHashEqual(refreshToken, sess.RefreshTokenHash) {
		return nil, apperror.Unauthorized("invalid or expired refresh token")
	}
	now := time.Now().UTC()
	_ = s.sessionRepo.UpdateLastSeen(ctx, sess.ID, now)
	newRefresh, newJti, _, err := s.tokens.IssueRefresh(identity)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	if err := s.sessionRepo.UpdateRefreshToken(ctx, sess.ID, newJti, security.HashRefreshToken(newRefresh)); err != nil {
		return nil, apperror.Unexpected(err)
	}
	accessToken, _, accessExp, err := s.tokens.IssueAccess(identity)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	return &AuthResult{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		ExpiresAt:    accessExp,
		AccountID:    identity.AccountID,
		OrgID:        identity.OrgID,
		Role:         identity.Role,
	}, nil
}

// Logout revokes the session named by the refresh token, or the sessionID
// resolved from the access token when no refresh token is given. An invalid
// token is a no-op.
func (s *AuthService) Logout(ctx context.Context, refreshToken, sessionID string) error {
	if refreshToken != "" {
		identity, _, err := s.tokens.ValidateRefresh(refreshToken)
		if err != nil {
			return nil
		}
		sessionID = identity.SessionID
	}
	if sessionID == "" {
		return nil
	}
	if err := s.sessionRepo.Revoke(ctx, sessionID); err != nil {
		return apperror.Unexpected(err)
	}
	return nil
}
