package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bingeboard/bingeboard-server/internal/domain"
	domainerrors "github.com/bingeboard/bingeboard-server/internal/errors"
	"github.com/bingeboard/bingeboard-server/internal/id"
	"github.com/bingeboard/bingeboard-server/internal/store"
)

// ReviewService manages the owner's reviews. Public review reads live in
// VisibilityService.
type ReviewService struct {
	store  store.Store
	logger *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(store store.Store, logger *slog.Logger) *ReviewService {
	return &ReviewService{store: store, logger: logger}
}

// UpsertReviewRequest contains a review write. A second write for the same
// title replaces the first.
type UpsertReviewRequest struct {
	TMDBID    int64  `json:"tmdb_id" validate:"required,gt=0"`
	MediaType string `json:"media_type" validate:"required,oneof=movie tv"`
	Rating    int    `json:"rating" validate:"required,gte=1,lte=5"`
	Text      string `json:"text" validate:"required,max=2000"`
	// IsPublic defaults to the profile's default_review_public when omitted.
	IsPublic *bool `json:"is_public,omitempty"`
}

// Upsert writes the user's review of a title, replacing any previous one.
func (s *ReviewService) Upsert(ctx context.Context, userID string, req UpsertReviewRequest) (*domain.ItemReview, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	} else {
		profile, err := s.store.GetProfile(ctx, userID)
		switch {
		case err == nil:
			isPublic = profile.DefaultReviewPublic
		case errors.Is(err, store.ErrNotFound):
			// No profile keeps the default, same as a bootstrapped profile.
		default:
			return nil, fmt.Errorf("get profile: %w", err)
		}
	}

	reviewID, err := id.Generate("review")
	if err != nil {
		return nil, fmt.Errorf("generate review ID: %w", err)
	}

	now := time.Now()
	review := &domain.ItemReview{
		ID:        reviewID,
		UserID:    userID,
		TMDBID:    req.TMDBID,
		MediaType: domain.MediaType(req.MediaType),
		Rating:    req.Rating,
		Text:      req.Text,
		IsPublic:  isPublic,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.UpsertReview(ctx, review); err != nil {
		return nil, fmt.Errorf("upsert review: %w", err)
	}

	// Re-read so replacements return the surviving row's id and created_at.
	stored, err := s.store.GetReview(ctx, userID, review.TMDBID, review.MediaType)
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	return stored, nil
}

// ListMine returns all of the user's reviews, public and private.
func (s *ReviewService) ListMine(ctx context.Context, userID string) ([]*domain.ItemReview, error) {
	reviews, err := s.store.ListReviewsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// Delete removes the user's review of a title.
func (s *ReviewService) Delete(ctx context.Context, userID string, tmdbID int64, mediaType domain.MediaType) error {
	if !mediaType.Valid() {
		return domainerrors.Validation("media_type must be movie or tv")
	}
	if err := s.store.DeleteReview(ctx, userID, tmdbID, mediaType); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("review not found")
		}
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}
