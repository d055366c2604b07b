// Package api provides the HTTP API server and handlers for the BingeBoard application.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/bingeboard/bingeboard-server/internal/catalog/tmdb"
	"github.com/bingeboard/bingeboard-server/internal/http/response"
	"github.com/bingeboard/bingeboard-server/internal/ratelimit"
	"github.com/bingeboard/bingeboard-server/internal/service"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	authService           *service.AuthService
	identityService       *service.IdentityService
	profileService        *service.ProfileService
	collectionService     *service.CollectionService
	reviewService         *service.ReviewService
	visibilityService     *service.VisibilityService
	recommendationService *service.RecommendationService
	catalog               *tmdb.Client
	ipLimiter             *ratelimit.KeyedRateLimiter
	router                *chi.Mux
	logger                *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	authService *service.AuthService,
	identityService *service.IdentityService,
	profileService *service.ProfileService,
	collectionService *service.CollectionService,
	reviewService *service.ReviewService,
	visibilityService *service.VisibilityService,
	recommendationService *service.RecommendationService,
	catalog *tmdb.Client,
	logger *slog.Logger,
) *Server {
	s := &Server{
		authService:           authService,
		identityService:       identityService,
		profileService:        profileService,
		collectionService:     collectionService,
		reviewService:         reviewService,
		visibilityService:     visibilityService,
		recommendationService: recommendationService,
		catalog:               catalog,
		ipLimiter:             NewRateLimiter(120, time.Minute, 30),
		router:                chi.NewRouter(),
		logger:                logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	s.router.Use(RateLimitMiddleware(s.ipLimiter, s.logger))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth endpoints (public).
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", s.handleSignup)
			r.Post("/login", s.handleLogin)
			r.Post("/refresh", s.handleRefresh)
			r.Post("/logout", s.handleLogout)
			r.Post("/resolve", s.handleResolveIdentifier)
		})

		// Catalog endpoints (public, proxied to TMDB).
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/search", s.handleCatalogSearch)
			r.Get("/{mediaType}/{tmdbID}", s.handleCatalogDetails)
			r.Get("/{mediaType}/{tmdbID}/credits", s.handleCatalogCredits)
		})

		// Public reviews for a title.
		r.Get("/titles/{mediaType}/{tmdbID}/reviews", s.handleTitleReviews)

		// Public user directory and profile pages.
		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.handleListUsers)
			r.Get("/{username}", s.handlePublicProfile)
		})

		// Own profile (require auth).
		r.Route("/profile", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleGetProfile)
			r.Post("/", s.handleCreateProfile)
			r.Patch("/", s.handleUpdateProfile)
			r.Post("/bootstrap", s.handleBootstrapProfile)
		})

		// Collection (require auth).
		r.Route("/collection", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListCollection)
			r.Post("/", s.handleAddCollectionItem)
			r.Patch("/{id}", s.handleUpdateCollectionItem)
			r.Delete("/{id}", s.handleDeleteCollectionItem)
		})

		// Own reviews (require auth).
		r.Route("/reviews", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListMyReviews)
			r.Put("/", s.handleUpsertReview)
			r.Delete("/{mediaType}/{tmdbID}", s.handleDeleteReview)
		})

		// Recommendations (require auth).
		r.With(s.requireAuth).Get("/recommendations", s.handleRecommendations)
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
