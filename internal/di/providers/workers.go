package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/bingeboard/bingeboard-server/internal/logger"
	"github.com/bingeboard/bingeboard-server/internal/service"
)

// SessionCleanupJob runs periodic session cleanup.
type SessionCleanupJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *SessionCleanupJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideSessionCleanupJob provides the periodic session cleanup job.
func ProvideSessionCleanupJob(i do.Injector) (*SessionCleanupJob, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		// Initial cleanup on startup
		if count, err := storeHandle.DeleteExpiredSessions(ctx); err != nil {
			log.Warn("Initial session cleanup failed", "error", err)
		} else if count > 0 {
			log.Info("Initial session cleanup completed", "deleted", count)
		}

		for {
			select {
			case <-ticker.C:
				if count, err := storeHandle.DeleteExpiredSessions(ctx); err != nil {
					log.Warn("Session cleanup failed", "error", err)
				} else if count > 0 {
					log.Info("Session cleanup completed", "deleted", count)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Session cleanup job started")

	return &SessionCleanupJob{cancel: cancel}, nil
}

// RecommendationSweeper reaps expired rate limit windows and cache entries.
type RecommendationSweeper struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *RecommendationSweeper) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideRecommendationSweeper provides the recommendation sweep job.
func ProvideRecommendationSweeper(i do.Injector) (*RecommendationSweeper, error) {
	recommendationService := do.MustInvoke[*service.RecommendationService](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())
	go recommendationService.StartSweeper(ctx)

	log.Info("Recommendation sweeper started")

	return &RecommendationSweeper{cancel: cancel}, nil
}
