package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/bingeboard/bingeboard-server/internal/errors"
	"github.com/bingeboard/bingeboard-server/internal/ratelimit"
	"github.com/bingeboard/bingeboard-server/internal/recommend"
)

// newRecommendationEnv wires a recommendation service over the shared test
// store. The generator has no API key, so it returns empty sets without any
// network traffic, which is all these tests need.
func newRecommendationEnv(t *testing.T, env *testEnv, maxPerWindow int) (*RecommendationService, *fakeClock) {
	t.Helper()

	clock := &fakeClock{now: time.Now()}
	window := ratelimit.NewFixedWindow(time.Minute, maxPerWindow)
	window.SetClock(clock.Now)
	cache := recommend.NewCache(5 * time.Minute)
	cache.SetClock(clock.Now)
	generator := recommend.NewClient("", "gpt-4o-mini", "http://unused.invalid", testLogger())

	return NewRecommendationService(env.store, generator, cache, window, testLogger()), clock
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestRecommend_CachesWithinBudget(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := signupWithProfile(t, env, "alice@example.com", "alice", "Alice")
	svc, _ := newRecommendationEnv(t, env, 6)

	first, err := svc.Recommend(ctx, alice.User.ID)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.NotNil(t, first.Recommendations)

	second, err := svc.Recommend(ctx, alice.User.ID)
	require.NoError(t, err)
	assert.True(t, second.Cached)
}

func TestRecommend_RateLimitGateRunsBeforeCache(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := signupWithProfile(t, env, "alice@example.com", "alice", "Alice")
	svc, clock := newRecommendationEnv(t, env, 2)

	_, err := svc.Recommend(ctx, alice.User.ID)
	require.NoError(t, err)
	second, err := svc.Recommend(ctx, alice.User.ID)
	require.NoError(t, err)
	require.True(t, second.Cached)

	// The cache is warm, but the third call in the window is still refused.
	_, err = svc.Recommend(ctx, alice.User.ID)
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeRateLimited, domainErr.Code)

	// The next window serves the cached set again.
	clock.Advance(time.Minute + time.Millisecond)
	resp, err := svc.Recommend(ctx, alice.User.ID)
	require.NoError(t, err)
	assert.True(t, resp.Cached)
}

func TestRecommend_CacheExpiryTriggersRegeneration(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := signupWithProfile(t, env, "alice@example.com", "alice", "Alice")
	svc, clock := newRecommendationEnv(t, env, 100)

	first, err := svc.Recommend(ctx, alice.User.ID)
	require.NoError(t, err)
	require.False(t, first.Cached)

	clock.Advance(5*time.Minute + time.Second)

	regenerated, err := svc.Recommend(ctx, alice.User.ID)
	require.NoError(t, err)
	assert.False(t, regenerated.Cached)
}

func TestRecommend_BudgetsArePerUser(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := signupWithProfile(t, env, "alice@example.com", "alice", "Alice")
	bob := signupWithProfile(t, env, "bob@example.com", "bob", "Bob")
	svc, _ := newRecommendationEnv(t, env, 1)

	_, err := svc.Recommend(ctx, alice.User.ID)
	require.NoError(t, err)

	_, err = svc.Recommend(ctx, alice.User.ID)
	require.Error(t, err)

	// Alice exhausting her budget does not touch Bob's.
	_, err = svc.Recommend(ctx, bob.User.ID)
	assert.NoError(t, err)
}
