package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bingeboard/bingeboard-server/internal/domain"
	domainerrors "github.com/bingeboard/bingeboard-server/internal/errors"
	"github.com/bingeboard/bingeboard-server/internal/ratelimit"
	"github.com/bingeboard/bingeboard-server/internal/recommend"
	"github.com/bingeboard/bingeboard-server/internal/store"
)

// maxTasteSignals caps how much of the collection goes into the prompt.
const maxTasteSignals = 50

// sweepInterval is how often expired limiter and cache entries are reaped.
const sweepInterval = 10 * time.Minute

// RecommendationService produces AI title recommendations with per-user
// throttling and short-lived caching.
type RecommendationService struct {
	store     store.Store
	generator *recommend.Client
	cache     *recommend.Cache
	window    *ratelimit.FixedWindow
	logger    *slog.Logger

	// inflight serializes generation per user so concurrent requests after a
	// cache miss produce one upstream call, not several.
	mu       sync.Mutex
	inflight map[string]*sync.Mutex
}

// NewRecommendationService creates a new recommendation service.
func NewRecommendationService(
	store store.Store,
	generator *recommend.Client,
	cache *recommend.Cache,
	window *ratelimit.FixedWindow,
	logger *slog.Logger,
) *RecommendationService {
	return &RecommendationService{
		store:     store,
		generator: generator,
		cache:     cache,
		window:    window,
		logger:    logger,
		inflight:  make(map[string]*sync.Mutex),
	}
}

// RecommendationResponse carries a recommendation set and whether it was
// served from cache.
type RecommendationResponse struct {
	Recommendations []domain.Recommendation `json:"recommendations"`
	Cached          bool                    `json:"cached"`
}

// Recommend returns up to five suggested titles for the user.
//
// The rate limit gate runs before the cache lookup, so hammering the
// endpoint burns the request budget even when every response would have been
// a cache hit. Within the budget, a cached set is served until its TTL runs
// out; only a miss reaches the model.
func (s *RecommendationService) Recommend(ctx context.Context, userID string) (*RecommendationResponse, error) {
	if !s.window.Allow(userID) {
		return nil, domainerrors.RateLimited("too many recommendation requests, slow down")
	}

	if recs, ok := s.cache.Get(userID); ok {
		return &RecommendationResponse{Recommendations: recs, Cached: true}, nil
	}

	// Serialize generation per user.
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	// A concurrent request may have filled the cache while we waited.
	if recs, ok := s.cache.Get(userID); ok {
		return &RecommendationResponse{Recommendations: recs, Cached: true}, nil
	}

	items, err := s.store.ListRecentCollectionItems(ctx, userID, maxTasteSignals)
	if err != nil {
		return nil, fmt.Errorf("load collection: %w", err)
	}

	signals := make([]domain.TasteSignal, 0, len(items))
	for _, item := range items {
		signals = append(signals, domain.TasteSignal{
			TMDBID:    item.TMDBID,
			MediaType: item.MediaType,
			Status:    item.Status,
		})
	}

	recs, err := s.generator.Generate(ctx, signals)
	if err != nil {
		return nil, domainerrors.Upstream("recommendation generation failed").WithCause(err)
	}

	s.cache.Set(userID, recs)
	return &RecommendationResponse{Recommendations: recs, Cached: false}, nil
}

// userLock returns the per-user generation mutex, creating it on first use.
func (s *RecommendationService) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.inflight[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.inflight[userID] = lock
	}
	return lock
}

// StartSweeper reaps expired limiter windows and cache entries until the
// context is done. Run it as a goroutine from startup.
func (s *RecommendationService) StartSweeper(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			windows := s.window.Sweep()
			cached := s.cache.Sweep()
			if windows > 0 || cached > 0 {
				s.logger.Debug("recommendation sweep",
					"windows_removed", windows,
					"cache_removed", cached,
				)
			}
		}
	}
}
