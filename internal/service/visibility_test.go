package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bingeboard/bingeboard-server/internal/domain"
	domainerrors "github.com/bingeboard/bingeboard-server/internal/errors"
)

func TestPublicProfile_ShowsOnlyPublicContent(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := signupWithProfile(t, env, "alice@example.com", "alice", "Alice")

	public := true
	private := false
	_, err := env.collections.AddItem(ctx, alice.User.ID, AddItemRequest{
		TMDBID: 550, MediaType: "movie", Status: "completed", IsPublic: &public,
	})
	require.NoError(t, err)
	_, err = env.collections.AddItem(ctx, alice.User.ID, AddItemRequest{
		TMDBID: 1396, MediaType: "tv", Status: "currently_watching", IsPublic: &private,
	})
	require.NoError(t, err)

	_, err = env.reviews.Upsert(ctx, alice.User.ID, UpsertReviewRequest{
		TMDBID: 550, MediaType: "movie", Rating: 5, Text: "public take", IsPublic: &public,
	})
	require.NoError(t, err)
	_, err = env.reviews.Upsert(ctx, alice.User.ID, UpsertReviewRequest{
		TMDBID: 1396, MediaType: "tv", Rating: 2, Text: "private take", IsPublic: &private,
	})
	require.NoError(t, err)

	view, err := env.visibility.PublicProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", view.Username)
	require.Len(t, view.Items, 1)
	assert.Equal(t, int64(550), view.Items[0].TMDBID)
	require.Len(t, view.Reviews, 1)
	assert.Equal(t, "public take", view.Reviews[0].Text)
}

func TestPublicProfile_PrivateIndistinguishableFromMissing(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := signupWithProfile(t, env, "alice@example.com", "alice", "Alice")

	hidden := false
	_, err := env.profiles.Update(ctx, alice.User.ID, UpdateProfileRequest{ProfilePublic: &hidden})
	require.NoError(t, err)

	_, privateErr := env.visibility.PublicProfile(ctx, "alice")
	_, missingErr := env.visibility.PublicProfile(ctx, "nobody")

	var domainErr *domainerrors.Error
	require.ErrorAs(t, privateErr, &domainErr)
	assert.Equal(t, domainerrors.CodeNotFound, domainErr.Code)
	require.Error(t, missingErr)
	assert.Equal(t, missingErr.Error(), privateErr.Error())
}

func TestReviewsForTitle_DoubleVisibilityFilter(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	alice := signupWithProfile(t, env, "alice@example.com", "alice", "Alice")
	bob := signupWithProfile(t, env, "bob@example.com", "bob", "Bob")
	carol := signupWithProfile(t, env, "carol@example.com", "carol", "Carol")

	public := true
	private := false

	// Alice: public review, public profile. Visible.
	_, err := env.reviews.Upsert(ctx, alice.User.ID, UpsertReviewRequest{
		TMDBID: 550, MediaType: "movie", Rating: 5, Text: "alice says yes", IsPublic: &public,
	})
	require.NoError(t, err)

	// Bob: private review, public profile. Hidden.
	_, err = env.reviews.Upsert(ctx, bob.User.ID, UpsertReviewRequest{
		TMDBID: 550, MediaType: "movie", Rating: 1, Text: "bob in secret", IsPublic: &private,
	})
	require.NoError(t, err)

	// Carol: public review, private profile. Hidden.
	_, err = env.reviews.Upsert(ctx, carol.User.ID, UpsertReviewRequest{
		TMDBID: 550, MediaType: "movie", Rating: 3, Text: "carol out loud", IsPublic: &public,
	})
	require.NoError(t, err)
	hidden := false
	_, err = env.profiles.Update(ctx, carol.User.ID, UpdateProfileRequest{ProfilePublic: &hidden})
	require.NoError(t, err)

	reviews, err := env.visibility.ReviewsForTitle(ctx, 550, domain.MediaTypeMovie)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "alice", reviews[0].Username)
	assert.Equal(t, "alice says yes", reviews[0].Text)
}

func TestListUsers_DirectoryOmitsPrivateProfiles(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	signupWithProfile(t, env, "alice@example.com", "alice", "Alice")
	bob := signupWithProfile(t, env, "bob@example.com", "bob", "Bob")

	hidden := false
	_, err := env.profiles.Update(ctx, bob.User.ID, UpdateProfileRequest{ProfilePublic: &hidden})
	require.NoError(t, err)

	listings, err := env.visibility.ListUsers(ctx, "")
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "alice", listings[0].Username)
}

func TestListUsers_QueryMatchesUsernameAndDisplayName(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	signupWithProfile(t, env, "alice@example.com", "alice", "Alice Ansel")
	signupWithProfile(t, env, "bob@example.com", "bob", "Robert")
	signupWithProfile(t, env, "carol@example.com", "carol", "Caroline Alvarez")

	listings, err := env.visibility.ListUsers(ctx, "  Al ")
	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, "alice", listings[0].Username)
	assert.Equal(t, "carol", listings[1].Username)

	listings, err = env.visibility.ListUsers(ctx, "robert")
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "bob", listings[0].Username)
}
