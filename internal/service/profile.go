package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bingeboard/bingeboard-server/internal/domain"
	domainerrors "github.com/bingeboard/bingeboard-server/internal/errors"
	"github.com/bingeboard/bingeboard-server/internal/store"
)

// ProfileService manages the owner's side of profiles: bootstrap, reads and
// settings updates. Public reads live in VisibilityService.
type ProfileService struct {
	store  store.Store
	logger *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(store store.Store, logger *slog.Logger) *ProfileService {
	return &ProfileService{store: store, logger: logger}
}

// BootstrapResult says what Bootstrap did for the account.
type BootstrapResult string

const (
	// BootstrapCreated means a fresh profile was created from the signup metadata.
	BootstrapCreated BootstrapResult = "created"
	// BootstrapAlreadyExists means the account already had a profile.
	BootstrapAlreadyExists BootstrapResult = "already_exists"
	// BootstrapSkippedInvalidMetadata means the stashed signup metadata was
	// unusable (bad username, empty display name, or username taken). The
	// account stays profile-less until the owner creates one explicitly.
	BootstrapSkippedInvalidMetadata BootstrapResult = "skipped_invalid_metadata"
)

// Bootstrap creates the account's profile from the metadata stashed at
// signup. It never fails the request over bad metadata: a signup with a
// malformed username still yields a working account, just without a profile.
func (s *ProfileService) Bootstrap(ctx context.Context, userID string) (BootstrapResult, *domain.Profile, error) {
	existing, err := s.store.GetProfile(ctx, userID)
	if err == nil {
		return BootstrapAlreadyExists, existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return "", nil, fmt.Errorf("get profile: %w", err)
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return "", nil, fmt.Errorf("get user: %w", err)
	}

	if !domain.ValidUsername(user.PendingUsername) || !domain.ValidDisplayName(user.PendingDisplayName) {
		s.logger.Info("profile bootstrap skipped, invalid signup metadata", "user_id", userID)
		return BootstrapSkippedInvalidMetadata, nil, nil
	}

	profile := domain.NewProfile(userID, user.PendingUsername, user.PendingDisplayName)
	if err := s.store.CreateProfile(ctx, profile); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Username was taken between signup and bootstrap. Soft skip.
			s.logger.Info("profile bootstrap skipped, username taken", "user_id", userID)
			return BootstrapSkippedInvalidMetadata, nil, nil
		}
		return "", nil, fmt.Errorf("create profile: %w", err)
	}

	// Clear the consumed metadata. Non-fatal: the unique profile row already
	// guards against double bootstrap.
	user.PendingUsername = ""
	user.PendingDisplayName = ""
	user.UpdatedAt = time.Now()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		s.logger.Warn("failed to clear pending profile metadata", "user_id", userID, "error", err)
	}

	s.logger.Info("profile bootstrapped", "user_id", userID, "username", profile.Username)
	return BootstrapCreated, profile, nil
}

// CreateProfileRequest contains explicit profile creation data, for accounts
// whose bootstrap was skipped.
type CreateProfileRequest struct {
	Username    string `json:"username" validate:"required"`
	DisplayName string `json:"display_name" validate:"required"`
}

// Create makes a profile for an account that has none.
func (s *ProfileService) Create(ctx context.Context, userID string, req CreateProfileRequest) (*domain.Profile, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}
	if !domain.ValidUsername(req.Username) {
		return nil, domainerrors.Validation("username must be 3-24 characters of letters, digits or underscore")
	}
	if !domain.ValidDisplayName(req.DisplayName) {
		return nil, domainerrors.Validationf("display_name must be 1-%d characters", domain.MaxDisplayNameLength)
	}

	profile := domain.NewProfile(userID, req.Username, req.DisplayName)
	if err := s.store.CreateProfile(ctx, profile); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("profile or username already exists")
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}

	return profile, nil
}

// Get returns the owner's profile.
func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("profile not found")
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

// UpdateProfileRequest contains a partial profile update. Nil fields are
// left unchanged.
type UpdateProfileRequest struct {
	Username            *string `json:"username,omitempty"`
	DisplayName         *string `json:"display_name,omitempty"`
	ProfilePublic       *bool   `json:"profile_public,omitempty"`
	DefaultItemPublic   *bool   `json:"default_item_public,omitempty"`
	DefaultReviewPublic *bool   `json:"default_review_public,omitempty"`
}

// Update applies a partial update to the owner's profile.
func (s *ProfileService) Update(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.Profile, error) {
	profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		if !domain.ValidUsername(*req.Username) {
			return nil, domainerrors.Validation("username must be 3-24 characters of letters, digits or underscore")
		}
		profile.Username = strings.ToLower(*req.Username)
	}
	if req.DisplayName != nil {
		if !domain.ValidDisplayName(*req.DisplayName) {
			return nil, domainerrors.Validationf("display_name must be 1-%d characters", domain.MaxDisplayNameLength)
		}
		profile.DisplayName = domain.NormalizeDisplayName(*req.DisplayName)
	}
	if req.ProfilePublic != nil {
		profile.ProfilePublic = *req.ProfilePublic
	}
	if req.DefaultItemPublic != nil {
		profile.DefaultItemPublic = *req.DefaultItemPublic
	}
	if req.DefaultReviewPublic != nil {
		profile.DefaultReviewPublic = *req.DefaultReviewPublic
	}
	profile.UpdatedAt = time.Now()

	if err := s.store.UpdateProfile(ctx, profile); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("username already taken")
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return profile, nil
}
