package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/bingeboard/bingeboard-server/internal/domain"
	"github.com/bingeboard/bingeboard-server/internal/store"
)

// createTestUserWithProfile seeds a user and profile pair.
func createTestUserWithProfile(t *testing.T, s *Store, userID, username string) *domain.Profile {
	t.Helper()
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser(userID, userID+"@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	profile := domain.NewProfile(userID, username, "Display "+username)
	if err := s.CreateProfile(ctx, profile); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	return profile
}

func TestCreateAndGetProfile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createTestUserWithProfile(t, s, "user-1", "Alice_99")

	got, err := s.GetProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if got.Username != "alice_99" {
		t.Errorf("Username: got %q, want lowercase alice_99", got.Username)
	}
	if !got.ProfilePublic || !got.DefaultItemPublic || !got.DefaultReviewPublic {
		t.Error("new profiles should default to fully public")
	}
}

func TestGetProfileByUsername_CaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createTestUserWithProfile(t, s, "user-1", "alice")

	got, err := s.GetProfileByUsername(ctx, "ALICE")
	if err != nil {
		t.Fatalf("GetProfileByUsername: %v", err)
	}
	if got.UserID != "user-1" {
		t.Errorf("UserID: got %q, want user-1", got.UserID)
	}
}

func TestCreateProfile_DuplicateUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createTestUserWithProfile(t, s, "user-1", "alice")

	if err := s.CreateUser(ctx, makeTestUser("user-2", "bob@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	err := s.CreateProfile(ctx, domain.NewProfile("user-2", "ALICE", "Bob"))
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	profile := createTestUserWithProfile(t, s, "user-1", "alice")

	profile.DisplayName = "New Name"
	profile.ProfilePublic = false
	if err := s.UpdateProfile(ctx, profile); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	got, err := s.GetProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if got.DisplayName != "New Name" {
		t.Errorf("DisplayName: got %q, want New Name", got.DisplayName)
	}
	if got.ProfilePublic {
		t.Error("ProfilePublic: expected false after update")
	}
}

func TestListPublicProfiles_ExcludesPrivate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createTestUserWithProfile(t, s, "user-1", "alice")
	private := createTestUserWithProfile(t, s, "user-2", "bob")
	private.ProfilePublic = false
	if err := s.UpdateProfile(ctx, private); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	profiles, err := s.ListPublicProfiles(ctx, "")
	if err != nil {
		t.Fatalf("ListPublicProfiles: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("got %d profiles, want 1", len(profiles))
	}
	if profiles[0].Username != "alice" {
		t.Errorf("Username: got %q, want alice", profiles[0].Username)
	}
}

func TestListPublicProfiles_SubstringQuery(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createTestUserWithProfile(t, s, "user-1", "alice")
	createTestUserWithProfile(t, s, "user-2", "bob")
	createTestUserWithProfile(t, s, "user-3", "malice")

	profiles, err := s.ListPublicProfiles(ctx, "LIC")
	if err != nil {
		t.Fatalf("ListPublicProfiles: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("got %d profiles, want 2", len(profiles))
	}
	if profiles[0].Username != "alice" || profiles[1].Username != "malice" {
		t.Errorf("got %q, %q, want alice then malice", profiles[0].Username, profiles[1].Username)
	}
}
