package providers

import (
	"github.com/samber/do/v2"

	"github.com/bingeboard/bingeboard-server/internal/auth"
	"github.com/bingeboard/bingeboard-server/internal/logger"
	"github.com/bingeboard/bingeboard-server/internal/service"
)

// ProvideSessionService provides the session management service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, sessionService, log.Logger), nil
}

// ProvideIdentityService provides the login identifier resolution service.
func ProvideIdentityService(i do.Injector) (*service.IdentityService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewIdentityService(storeHandle.Store, log.Logger), nil
}

// ProvideProfileService provides the user profile service.
func ProvideProfileService(i do.Injector) (*service.ProfileService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewProfileService(storeHandle.Store, log.Logger), nil
}

// ProvideCollectionService provides the collection service.
func ProvideCollectionService(i do.Injector) (*service.CollectionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCollectionService(storeHandle.Store, log.Logger), nil
}

// ProvideReviewService provides the review service.
func ProvideReviewService(i do.Injector) (*service.ReviewService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewReviewService(storeHandle.Store, log.Logger), nil
}

// ProvideVisibilityService provides the public read service.
func ProvideVisibilityService(i do.Injector) (*service.VisibilityService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewVisibilityService(storeHandle.Store, log.Logger), nil
}

// ProvideRecommendationService provides the AI recommendation service.
func ProvideRecommendationService(i do.Injector) (*service.RecommendationService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	recommendHandle := do.MustInvoke[*RecommendClientHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewRecommendationService(
		storeHandle.Store,
		recommendHandle.Client,
		recommendHandle.Cache,
		recommendHandle.Window,
		log.Logger,
	), nil
}
