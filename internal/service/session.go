package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bingeboard/bingeboard-server/internal/auth"
	"github.com/bingeboard/bingeboard-server/internal/domain"
	domainerrors "github.com/bingeboard/bingeboard-server/internal/errors"
	"github.com/bingeboard/bingeboard-server/internal/id"
	"github.com/bingeboard/bingeboard-server/internal/store"
)

// SessionService manages refresh-token sessions and token issuance.
type SessionService struct {
	store        store.Store
	tokenService *auth.TokenService
	logger       *slog.Logger
}

// NewSessionService creates a new session service.
func NewSessionService(store store.Store, tokenService *auth.TokenService, logger *slog.Logger) *SessionService {
	return &SessionService{
		store:        store,
		tokenService: tokenService,
		logger:       logger,
	}
}

// SessionResponse contains the token pair issued for a session.
type SessionResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// CreateSession issues a new token pair and persists the session record.
func (s *SessionService) CreateSession(ctx context.Context, user *domain.User) (*SessionResponse, error) {
	accessToken, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.tokenService.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	sessionID, err := id.Generate("session")
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}

	now := time.Now()
	session := &domain.Session{
		ID:               sessionID,
		UserID:           user.ID,
		RefreshTokenHash: auth.HashRefreshToken(refreshToken),
		ExpiresAt:        now.Add(s.tokenService.RefreshTokenDuration()),
		CreatedAt:        now,
		LastUsedAt:       now,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &SessionResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(s.tokenService.AccessTokenDuration()),
	}, nil
}

// RefreshSession rotates a refresh token: the presented token's session is
// deleted and a fresh session with a new token pair replaces it.
func (s *SessionService) RefreshSession(ctx context.Context, refreshToken string) (*SessionResponse, *domain.User, error) {
	session, err := s.store.GetSessionByTokenHash(ctx, auth.HashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, domainerrors.Unauthorized("invalid refresh token")
		}
		return nil, nil, fmt.Errorf("lookup session: %w", err)
	}

	if session.Expired() {
		// Expired sessions are dead weight, remove eagerly.
		if err := s.store.DeleteSession(ctx, session.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("failed to delete expired session", "session_id", session.ID, "error", err)
		}
		return nil, nil, domainerrors.TokenExpired("refresh token expired")
	}

	user, err := s.store.GetUser(ctx, session.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	// Rotation: invalidate the old token before issuing a new pair.
	if err := s.store.DeleteSession(ctx, session.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, nil, fmt.Errorf("rotate session: %w", err)
	}

	resp, err := s.CreateSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return resp, user, nil
}

// RevokeSession deletes the session matching a refresh token. Unknown tokens
// are not an error; logout is idempotent.
func (s *SessionService) RevokeSession(ctx context.Context, refreshToken string) error {
	session, err := s.store.GetSessionByTokenHash(ctx, auth.HashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("lookup session: %w", err)
	}

	if err := s.store.DeleteSession(ctx, session.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PurgeExpiredSessions removes sessions past their expiry.
func (s *SessionService) PurgeExpiredSessions(ctx context.Context) error {
	n, err := s.store.DeleteExpiredSessions(ctx)
	if err != nil {
		return fmt.Errorf("delete expired sessions: %w", err)
	}
	if n > 0 {
		s.logger.Debug("purged expired sessions", "count", n)
	}
	return nil
}
