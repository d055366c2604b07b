package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bingeboard/bingeboard-server/internal/domain"
	domainerrors "github.com/bingeboard/bingeboard-server/internal/errors"
	"github.com/bingeboard/bingeboard-server/internal/store"
)

// VisibilityService serves every read that crosses a privacy boundary: the
// user directory, public profile pages and public reviews. Everything it
// returns has already passed the visibility rules, so handlers can hand its
// output straight to any caller.
type VisibilityService struct {
	store  store.Store
	logger *slog.Logger
}

// NewVisibilityService creates a new visibility service.
func NewVisibilityService(store store.Store, logger *slog.Logger) *VisibilityService {
	return &VisibilityService{store: store, logger: logger}
}

// PublicProfileView is a public profile page: identity, public collection
// items and public reviews.
type PublicProfileView struct {
	Username    string                   `json:"username"`
	DisplayName string                   `json:"display_name"`
	Items       []*domain.CollectionItem `json:"items"`
	Reviews     []*domain.PublicReview   `json:"reviews"`
}

// PublicProfile returns a user's public page. A private profile and a
// nonexistent username both come back as not found; the response never says
// which, so usernames cannot be probed.
func (s *VisibilityService) PublicProfile(ctx context.Context, username string) (*PublicProfileView, error) {
	profile, err := s.store.GetProfileByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("profile not found")
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if !profile.ProfilePublic {
		return nil, domainerrors.NotFound("profile not found")
	}

	items, err := s.store.ListPublicCollectionItems(ctx, profile.UserID)
	if err != nil {
		return nil, fmt.Errorf("list public items: %w", err)
	}

	reviews, err := s.store.ListPublicReviewsByUser(ctx, profile.UserID)
	if err != nil {
		return nil, fmt.Errorf("list public reviews: %w", err)
	}

	return &PublicProfileView{
		Username:    profile.Username,
		DisplayName: profile.DisplayName,
		Items:       items,
		Reviews:     reviews,
	}, nil
}

// ReviewsForTitle returns a title's reviews that pass the double visibility
// filter: review public AND author's profile public.
func (s *VisibilityService) ReviewsForTitle(ctx context.Context, tmdbID int64, mediaType domain.MediaType) ([]*domain.PublicReview, error) {
	if tmdbID <= 0 {
		return nil, domainerrors.Validation("tmdb_id must be positive")
	}
	if !mediaType.Valid() {
		return nil, domainerrors.Validation("media_type must be movie or tv")
	}

	reviews, err := s.store.ListPublicReviewsForTitle(ctx, tmdbID, mediaType)
	if err != nil {
		return nil, fmt.Errorf("list public reviews: %w", err)
	}
	return reviews, nil
}

// ListUsers returns the public user directory, optionally narrowed to
// profiles whose username or display name contains query.
func (s *VisibilityService) ListUsers(ctx context.Context, query string) ([]*domain.PublicListing, error) {
	profiles, err := s.store.ListPublicProfiles(ctx, domain.NormalizeDisplayName(query))
	if err != nil {
		return nil, fmt.Errorf("list public profiles: %w", err)
	}

	listings := make([]*domain.PublicListing, 0, len(profiles))
	for _, p := range profiles {
		listings = append(listings, &domain.PublicListing{
			Username:    p.Username,
			DisplayName: p.DisplayName,
		})
	}
	return listings, nil
}
