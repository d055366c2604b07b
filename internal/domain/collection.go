package domain

import "time"

// CollectionStatus tracks where a title sits in the owner's watch lifecycle.
type CollectionStatus string

const (
	// StatusWishlist marks a title the user intends to watch.
	StatusWishlist CollectionStatus = "wishlist"
	// StatusCurrentlyWatching marks a title in progress.
	StatusCurrentlyWatching CollectionStatus = "currently_watching"
	// StatusCompleted marks a finished title.
	StatusCompleted CollectionStatus = "completed"
)

// Valid reports whether the status is one of the supported values.
func (s CollectionStatus) Valid() bool {
	switch s {
	case StatusWishlist, StatusCurrentlyWatching, StatusCompleted:
		return true
	}
	return false
}

// CollectionItem is a (user, title) membership record with a status.
type CollectionItem struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	TMDBID    int64            `json:"tmdb_id"`
	MediaType MediaType        `json:"media_type"`
	Status    CollectionStatus `json:"status"`
	IsPublic  bool             `json:"is_public"`
	AddedAt   time.Time        `json:"added_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// ItemNote holds the owner's private annotations for one collection item.
// All fields are optional; absent fields stay nil.
type ItemNote struct {
	CollectionItemID string    `json:"collection_item_id"`
	Rating           *int      `json:"rating,omitempty"` // 1-5
	Tags             []string  `json:"tags,omitempty"`
	Notes            *string   `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ItemOverride holds optional display overrides that mask catalog data for
// one collection item, for when the catalog gets a title's details wrong.
type ItemOverride struct {
	CollectionItemID  string    `json:"collection_item_id"`
	CustomTitle       *string   `json:"custom_title,omitempty"`
	CustomCreator     *string   `json:"custom_creator,omitempty"`
	CustomReleaseDate *string   `json:"custom_release_date,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CollectionEntry is a collection item joined with its optional note and
// override rows, the shape returned by owner-scoped listings.
type CollectionEntry struct {
	CollectionItem
	Note     *ItemNote     `json:"note,omitempty"`
	Override *ItemOverride `json:"override,omitempty"`
}
