package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bingeboard/bingeboard-server/internal/domain"
	"github.com/bingeboard/bingeboard-server/internal/store"
)

// IdentityService resolves login identifiers (email or username) to the
// email address the credential check runs against.
type IdentityService struct {
	store  store.Store
	logger *slog.Logger
}

// NewIdentityService creates a new identity service.
func NewIdentityService(store store.Store, logger *slog.Logger) *IdentityService {
	return &IdentityService{store: store, logger: logger}
}

// ResolveIdentifier maps a login identifier to an email address.
//
// Anything shaped like an email is returned lowercased without a lookup.
// Anything else is treated as a username and resolved through the profile.
// An unknown username returns the same ("", nil) shape as an unknown email
// would at login, so this endpoint cannot be used to enumerate accounts.
func (s *IdentityService) ResolveIdentifier(ctx context.Context, identifier string) (string, error) {
	if domain.LooksLikeEmail(identifier) {
		return domain.NormalizeEmail(identifier), nil
	}

	profile, err := s.store.GetProfileByUsername(ctx, identifier)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("lookup profile: %w", err)
	}

	user, err := s.store.GetUser(ctx, profile.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Profile without an account should not happen; treat as unknown.
			return "", nil
		}
		return "", fmt.Errorf("get user: %w", err)
	}

	return user.Email, nil
}
