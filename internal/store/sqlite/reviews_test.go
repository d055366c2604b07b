package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bingeboard/bingeboard-server/internal/domain"
	"github.com/bingeboard/bingeboard-server/internal/store"
)

// makeTestReview creates a review with sensible defaults for testing.
func makeTestReview(id, userID string, tmdbID int64) *domain.ItemReview {
	now := time.Now()
	return &domain.ItemReview{
		ID:        id,
		UserID:    userID,
		TMDBID:    tmdbID,
		MediaType: domain.MediaTypeMovie,
		Rating:    4,
		Text:      "solid",
		IsPublic:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestUpsertReview_OneReviewPerTitle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	createTestUserWithProfile(t, s, "user-1", "alice")

	first := makeTestReview("review-1", "user-1", 550)
	if err := s.UpsertReview(ctx, first); err != nil {
		t.Fatalf("UpsertReview: %v", err)
	}

	// Writing again for the same title replaces rating and text, not adds.
	second := makeTestReview("review-2", "user-1", 550)
	second.Rating = 2
	second.Text = "worse on rewatch"
	second.UpdatedAt = first.UpdatedAt.Add(time.Second)
	if err := s.UpsertReview(ctx, second); err != nil {
		t.Fatalf("UpsertReview second: %v", err)
	}

	got, err := s.GetReview(ctx, "user-1", 550, domain.MediaTypeMovie)
	if err != nil {
		t.Fatalf("GetReview: %v", err)
	}
	if got.Rating != 2 {
		t.Errorf("Rating: got %d, want 2", got.Rating)
	}
	if got.Text != "worse on rewatch" {
		t.Errorf("Text: got %q", got.Text)
	}
	// The original row survives the overwrite.
	if got.ID != "review-1" {
		t.Errorf("ID: got %q, want review-1", got.ID)
	}

	reviews, err := s.ListReviewsByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListReviewsByUser: %v", err)
	}
	if len(reviews) != 1 {
		t.Fatalf("got %d reviews, want 1", len(reviews))
	}
}

func TestGetReview_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	createTestUserWithProfile(t, s, "user-1", "alice")

	_, err := s.GetReview(ctx, "user-1", 550, domain.MediaTypeMovie)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListPublicReviewsForTitle_DoubleVisibilityFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// alice: public profile, public review. Visible.
	createTestUserWithProfile(t, s, "user-1", "alice")
	if err := s.UpsertReview(ctx, makeTestReview("review-1", "user-1", 550)); err != nil {
		t.Fatalf("UpsertReview: %v", err)
	}

	// bob: private profile, public review. Hidden.
	bob := createTestUserWithProfile(t, s, "user-2", "bob")
	bob.ProfilePublic = false
	if err := s.UpdateProfile(ctx, bob); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if err := s.UpsertReview(ctx, makeTestReview("review-2", "user-2", 550)); err != nil {
		t.Fatalf("UpsertReview: %v", err)
	}

	// carol: public profile, private review. Hidden.
	createTestUserWithProfile(t, s, "user-3", "carol")
	private := makeTestReview("review-3", "user-3", 550)
	private.IsPublic = false
	if err := s.UpsertReview(ctx, private); err != nil {
		t.Fatalf("UpsertReview: %v", err)
	}

	reviews, err := s.ListPublicReviewsForTitle(ctx, 550, domain.MediaTypeMovie)
	if err != nil {
		t.Fatalf("ListPublicReviewsForTitle: %v", err)
	}
	if len(reviews) != 1 {
		t.Fatalf("got %d reviews, want 1", len(reviews))
	}
	if reviews[0].Username != "alice" {
		t.Errorf("Username: got %q, want alice", reviews[0].Username)
	}
}

func TestListPublicReviewsByUser_PrivateProfileLooksEmpty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	bob := createTestUserWithProfile(t, s, "user-1", "bob")
	bob.ProfilePublic = false
	if err := s.UpdateProfile(ctx, bob); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if err := s.UpsertReview(ctx, makeTestReview("review-1", "user-1", 550)); err != nil {
		t.Fatalf("UpsertReview: %v", err)
	}

	reviews, err := s.ListPublicReviewsByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListPublicReviewsByUser: %v", err)
	}
	if len(reviews) != 0 {
		t.Fatalf("got %d reviews, want 0 for private profile", len(reviews))
	}
}

func TestDeleteReview(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	createTestUserWithProfile(t, s, "user-1", "alice")

	if err := s.UpsertReview(ctx, makeTestReview("review-1", "user-1", 550)); err != nil {
		t.Fatalf("UpsertReview: %v", err)
	}
	if err := s.DeleteReview(ctx, "user-1", 550, domain.MediaTypeMovie); err != nil {
		t.Fatalf("DeleteReview: %v", err)
	}
	if err := s.DeleteReview(ctx, "user-1", 550, domain.MediaTypeMovie); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
