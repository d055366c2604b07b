// Package di provides dependency injection configuration for the BingeBoard server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/bingeboard/bingeboard-server/internal/auth"
	"github.com/bingeboard/bingeboard-server/internal/config"
	"github.com/bingeboard/bingeboard-server/internal/di/providers"
	"github.com/bingeboard/bingeboard-server/internal/logger"
	"github.com/bingeboard/bingeboard-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Upstream clients
	do.Provide(injector, providers.ProvideCatalogClient)
	do.Provide(injector, providers.ProvideRecommendClient)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideIdentityService)
	do.Provide(injector, providers.ProvideProfileService)
	do.Provide(injector, providers.ProvideCollectionService)
	do.Provide(injector, providers.ProvideReviewService)
	do.Provide(injector, providers.ProvideVisibilityService)
	do.Provide(injector, providers.ProvideRecommendationService)

	// Workers
	do.Provide(injector, providers.ProvideSessionCleanupJob)
	do.Provide(injector, providers.ProvideRecommendationSweeper)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.CatalogClientHandle](injector)
	_ = do.MustInvoke[*providers.RecommendClientHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.SessionService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.IdentityService](injector)
	_ = do.MustInvoke[*service.ProfileService](injector)
	_ = do.MustInvoke[*service.CollectionService](injector)
	_ = do.MustInvoke[*service.ReviewService](injector)
	_ = do.MustInvoke[*service.VisibilityService](injector)
	_ = do.MustInvoke[*service.RecommendationService](injector)

	// Workers
	_ = do.MustInvoke[*providers.SessionCleanupJob](injector)
	_ = do.MustInvoke[*providers.RecommendationSweeper](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
