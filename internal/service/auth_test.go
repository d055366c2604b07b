package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/bingeboard/bingeboard-server/internal/errors"
)

func TestSignup_Success(t *testing.T) {
	env := setupTestEnv(t)

	resp := signupUser(t, env, "Alice@Example.com", "alice", "Alice A")

	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	// Signup stashes the metadata; it does not create the profile.
	_, err := env.profiles.Get(context.Background(), resp.User.ID)
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeNotFound, domainErr.Code)
}

func TestSignup_InvalidUsernameStillSucceeds(t *testing.T) {
	env := setupTestEnv(t)

	// Bad username must not block account creation.
	resp := signupUser(t, env, "bob@example.com", "x", "Bob")
	assert.NotEmpty(t, resp.User.ID)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	env := setupTestEnv(t)

	signupUser(t, env, "alice@example.com", "alice", "Alice")

	_, err := env.auth.Signup(context.Background(), SignupRequest{
		Email:    "ALICE@example.com",
		Password: "another password 123",
	})
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeAlreadyExists, domainErr.Code)
}

func TestSignup_RejectsShortPassword(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.auth.Signup(context.Background(), SignupRequest{
		Email:    "alice@example.com",
		Password: "short",
	})
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)
}

func TestLogin_Success(t *testing.T) {
	env := setupTestEnv(t)
	signupUser(t, env, "alice@example.com", "alice", "Alice")

	resp, err := env.auth.Login(context.Background(), LoginRequest{
		Email:    "alice@example.com",
		Password: "correct horse battery staple",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := setupTestEnv(t)
	signupUser(t, env, "alice@example.com", "alice", "Alice")

	_, err := env.auth.Login(context.Background(), LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong password entirely",
	})
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeInvalidCredentials, domainErr.Code)
}

func TestLogin_UnknownEmailSameErrorAsWrongPassword(t *testing.T) {
	env := setupTestEnv(t)
	signupUser(t, env, "alice@example.com", "alice", "Alice")

	_, unknownErr := env.auth.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "correct horse battery staple",
	})
	_, wrongErr := env.auth.Login(context.Background(), LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong password entirely",
	})

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Equal(t, wrongErr.Error(), unknownErr.Error())
}

func TestRefreshTokens_RotatesRefreshToken(t *testing.T) {
	env := setupTestEnv(t)
	signup := signupUser(t, env, "alice@example.com", "alice", "Alice")
	ctx := context.Background()

	refreshed, err := env.auth.RefreshTokens(ctx, RefreshRequest{RefreshToken: signup.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, signup.RefreshToken, refreshed.RefreshToken)

	// The old token is dead after rotation.
	_, err = env.auth.RefreshTokens(ctx, RefreshRequest{RefreshToken: signup.RefreshToken})
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeUnauthorized, domainErr.Code)

	// The new token works.
	_, err = env.auth.RefreshTokens(ctx, RefreshRequest{RefreshToken: refreshed.RefreshToken})
	assert.NoError(t, err)
}

func TestLogout_RevokesSessionIdempotently(t *testing.T) {
	env := setupTestEnv(t)
	signup := signupUser(t, env, "alice@example.com", "alice", "Alice")
	ctx := context.Background()

	require.NoError(t, env.auth.Logout(ctx, LogoutRequest{RefreshToken: signup.RefreshToken}))

	_, err := env.auth.RefreshTokens(ctx, RefreshRequest{RefreshToken: signup.RefreshToken})
	require.Error(t, err)

	// Logging out again is not an error.
	assert.NoError(t, env.auth.Logout(ctx, LogoutRequest{RefreshToken: signup.RefreshToken}))
}

func TestVerifyAccessToken(t *testing.T) {
	env := setupTestEnv(t)
	signup := signupUser(t, env, "alice@example.com", "alice", "Alice")
	ctx := context.Background()

	user, claims, err := env.auth.VerifyAccessToken(ctx, signup.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, signup.User.ID, user.ID)
	assert.Equal(t, signup.User.ID, claims.UserID)

	_, _, err = env.auth.VerifyAccessToken(ctx, "v4.local.garbage")
	require.Error(t, err)
}
