package store

import (
	"context"
	"time"

	"github.com/bingeboard/bingeboard-server/internal/domain"
)

// CollectionFilter narrows a collection listing. Zero-value fields are not
// applied; set fields are ANDed together.
type CollectionFilter struct {
	Status    domain.CollectionStatus
	MediaType domain.MediaType
}

// Store is the persistence interface the services depend on.
// The SQLite implementation lives in the sqlite subpackage.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error

	// Sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	TouchSession(ctx context.Context, id string, usedAt time.Time) error
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)

	// Profiles
	CreateProfile(ctx context.Context, profile *domain.Profile) error
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	GetProfileByUsername(ctx context.Context, username string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, profile *domain.Profile) error
	ListPublicProfiles(ctx context.Context, query string) ([]*domain.Profile, error)

	// Collection items
	CreateCollectionItem(ctx context.Context, item *domain.CollectionItem) error
	GetCollectionItem(ctx context.Context, userID, itemID string) (*domain.CollectionItem, error)
	GetCollectionItemByTitle(ctx context.Context, userID string, tmdbID int64, mediaType domain.MediaType) (*domain.CollectionItem, error)
	UpdateCollectionItem(ctx context.Context, item *domain.CollectionItem) error
	DeleteCollectionItem(ctx context.Context, userID, itemID string) error
	ListCollectionEntries(ctx context.Context, userID string, filter CollectionFilter) ([]*domain.CollectionEntry, error)
	UpsertItemNote(ctx context.Context, note *domain.ItemNote) error
	UpsertItemOverride(ctx context.Context, override *domain.ItemOverride) error
	ListPublicCollectionItems(ctx context.Context, userID string) ([]*domain.CollectionItem, error)
	ListRecentCollectionItems(ctx context.Context, userID string, limit int) ([]*domain.CollectionItem, error)

	// Reviews
	UpsertReview(ctx context.Context, review *domain.ItemReview) error
	GetReview(ctx context.Context, userID string, tmdbID int64, mediaType domain.MediaType) (*domain.ItemReview, error)
	ListReviewsByUser(ctx context.Context, userID string) ([]*domain.ItemReview, error)
	DeleteReview(ctx context.Context, userID string, tmdbID int64, mediaType domain.MediaType) error
	ListPublicReviewsForTitle(ctx context.Context, tmdbID int64, mediaType domain.MediaType) ([]*domain.PublicReview, error)
	ListPublicReviewsByUser(ctx context.Context, userID string) ([]*domain.PublicReview, error)

	Close() error
}
