package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/bingeboard/bingeboard-server/internal/errors"
)

func TestBootstrap_CreatesProfileFromSignupMetadata(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	signup := signupUser(t, env, "alice@example.com", "Alice_99", "  Alice A  ")

	result, profile, err := env.profiles.Bootstrap(ctx, signup.User.ID)
	require.NoError(t, err)
	assert.Equal(t, BootstrapCreated, result)
	require.NotNil(t, profile)

	// Username lowercased, display name trimmed, everything public.
	assert.Equal(t, "alice_99", profile.Username)
	assert.Equal(t, "Alice A", profile.DisplayName)
	assert.True(t, profile.ProfilePublic)
	assert.True(t, profile.DefaultItemPublic)
	assert.True(t, profile.DefaultReviewPublic)

	// The consumed metadata is cleared from the account.
	user, err := env.store.GetUser(ctx, signup.User.ID)
	require.NoError(t, err)
	assert.Empty(t, user.PendingUsername)
	assert.Empty(t, user.PendingDisplayName)
}

func TestBootstrap_SecondCallReportsAlreadyExists(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	signup := signupWithProfile(t, env, "alice@example.com", "alice", "Alice")

	result, profile, err := env.profiles.Bootstrap(ctx, signup.User.ID)
	require.NoError(t, err)
	assert.Equal(t, BootstrapAlreadyExists, result)
	require.NotNil(t, profile)
	assert.Equal(t, "alice", profile.Username)
}

func TestBootstrap_SkipsInvalidMetadataWithoutError(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	// Username too short: metadata is unusable, account unharmed.
	signup := signupUser(t, env, "bob@example.com", "x", "Bob")

	result, profile, err := env.profiles.Bootstrap(ctx, signup.User.ID)
	require.NoError(t, err)
	assert.Equal(t, BootstrapSkippedInvalidMetadata, result)
	assert.Nil(t, profile)
}

func TestBootstrap_SkipsTakenUsernameWithoutError(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	signupWithProfile(t, env, "alice@example.com", "alice", "Alice")
	second := signupUser(t, env, "imposter@example.com", "ALICE", "Imposter")

	result, profile, err := env.profiles.Bootstrap(ctx, second.User.ID)
	require.NoError(t, err)
	assert.Equal(t, BootstrapSkippedInvalidMetadata, result)
	assert.Nil(t, profile)
}

func TestCreateProfile_AfterSkippedBootstrap(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	signup := signupUser(t, env, "bob@example.com", "x", "Bob")

	result, _, err := env.profiles.Bootstrap(ctx, signup.User.ID)
	require.NoError(t, err)
	require.Equal(t, BootstrapSkippedInvalidMetadata, result)

	profile, err := env.profiles.Create(ctx, signup.User.ID, CreateProfileRequest{
		Username:    "bob_proper",
		DisplayName: "Bob",
	})
	require.NoError(t, err)
	assert.Equal(t, "bob_proper", profile.Username)
}

func TestUpdateProfile_PartialUpdate(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	signup := signupWithProfile(t, env, "alice@example.com", "alice", "Alice")

	public := false
	updated, err := env.profiles.Update(ctx, signup.User.ID, UpdateProfileRequest{
		ProfilePublic: &public,
	})
	require.NoError(t, err)

	// Untouched fields survive.
	assert.Equal(t, "alice", updated.Username)
	assert.Equal(t, "Alice", updated.DisplayName)
	assert.False(t, updated.ProfilePublic)
	assert.True(t, updated.DefaultItemPublic)
}

func TestUpdateProfile_RejectsBadUsername(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	signup := signupWithProfile(t, env, "alice@example.com", "alice", "Alice")

	bad := "no spaces allowed"
	_, err := env.profiles.Update(ctx, signup.User.ID, UpdateProfileRequest{Username: &bad})
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)
}

func TestUpdateProfile_UsernameConflict(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	signupWithProfile(t, env, "alice@example.com", "alice", "Alice")
	bob := signupWithProfile(t, env, "bob@example.com", "bob", "Bob")

	taken := "alice"
	_, err := env.profiles.Update(ctx, bob.User.ID, UpdateProfileRequest{Username: &taken})
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeAlreadyExists, domainErr.Code)
}
