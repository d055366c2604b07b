package providers

import (
	"github.com/samber/do/v2"

	"github.com/bingeboard/bingeboard-server/internal/catalog/tmdb"
	"github.com/bingeboard/bingeboard-server/internal/config"
	"github.com/bingeboard/bingeboard-server/internal/logger"
	"github.com/bingeboard/bingeboard-server/internal/ratelimit"
	"github.com/bingeboard/bingeboard-server/internal/recommend"
)

// CatalogClientHandle wraps the TMDB catalog client.
type CatalogClientHandle struct {
	*tmdb.Client
}

// ProvideCatalogClient provides the TMDB catalog client.
func ProvideCatalogClient(i do.Injector) (*CatalogClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.TMDB.APIKey == "" {
		log.Warn("TMDB_API_KEY not set - catalog endpoints will fail upstream")
	}

	client := tmdb.NewClient(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, log.Logger)
	return &CatalogClientHandle{Client: client}, nil
}

// RecommendClientHandle bundles the recommendation generator with its cache
// and per-user rate limit window.
type RecommendClientHandle struct {
	Client *recommend.Client
	Cache  *recommend.Cache
	Window *ratelimit.FixedWindow
}

// ProvideRecommendClient provides the recommendation generator stack.
func ProvideRecommendClient(i do.Injector) (*RecommendClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := recommend.NewClient(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.BaseURL, log.Logger)
	if !client.Enabled() {
		log.Warn("AI_API_KEY not set - recommendations will be empty")
	}

	return &RecommendClientHandle{
		Client: client,
		Cache:  recommend.NewCache(cfg.Recommend.CacheTTL),
		Window: ratelimit.NewFixedWindow(cfg.Recommend.Window, cfg.Recommend.MaxPerWindow),
	}, nil
}
