package service

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bingeboard/bingeboard-server/internal/auth"
	"github.com/bingeboard/bingeboard-server/internal/domain"
	"github.com/bingeboard/bingeboard-server/internal/store"
	"github.com/bingeboard/bingeboard-server/internal/store/sqlite"
)

// brokenProfileStore wraps a Store so profile reads fail with a storage
// error rather than not-found.
type brokenProfileStore struct {
	store.Store
}

func (s *brokenProfileStore) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	return nil, fmt.Errorf("profiles table unavailable")
}

// testEnv bundles the services under test over one temporary database.
type testEnv struct {
	store       store.Store
	auth        *AuthService
	sessions    *SessionService
	identity    *IdentityService
	profiles    *ProfileService
	collections *CollectionService
	reviews     *ReviewService
	visibility  *VisibilityService
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// setupTestEnv creates services with temporary storage for testing.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	logger := testLogger()

	s, err := sqlite.Open(filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	authKey, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(
		hex.EncodeToString(authKey),
		15*time.Minute,
		30*24*time.Hour,
	)
	require.NoError(t, err)

	sessionService := NewSessionService(s, tokenService, logger)

	return &testEnv{
		store:       s,
		auth:        NewAuthService(s, tokenService, sessionService, logger),
		sessions:    sessionService,
		identity:    NewIdentityService(s, logger),
		profiles:    NewProfileService(s, logger),
		collections: NewCollectionService(s, logger),
		reviews:     NewReviewService(s, logger),
		visibility:  NewVisibilityService(s, logger),
	}
}

// signupUser registers an account and returns its response.
func signupUser(t *testing.T, env *testEnv, email, username, displayName string) *AuthResponse {
	t.Helper()
	resp, err := env.auth.Signup(context.Background(), SignupRequest{
		Email:       email,
		Password:    "correct horse battery staple",
		Username:    username,
		DisplayName: displayName,
	})
	require.NoError(t, err)
	return resp
}

// signupWithProfile registers an account and bootstraps its profile.
func signupWithProfile(t *testing.T, env *testEnv, email, username, displayName string) *AuthResponse {
	t.Helper()
	resp := signupUser(t, env, email, username, displayName)
	result, _, err := env.profiles.Bootstrap(context.Background(), resp.User.ID)
	require.NoError(t, err)
	require.Equal(t, BootstrapCreated, result)
	return resp
}
