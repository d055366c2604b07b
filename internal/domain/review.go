package domain

import "time"

// Review constraints.
const (
	MinReviewRating     = 1
	MaxReviewRating     = 5
	MaxReviewTextLength = 2000
)

// ItemReview is a user's single review of a title. One review per
// (user, title); writing again replaces the previous text and rating.
type ItemReview struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TMDBID    int64     `json:"tmdb_id"`
	MediaType MediaType `json:"media_type"`
	Rating    int       `json:"rating"` // 1-5
	Text      string    `json:"text,omitempty"`
	IsPublic  bool      `json:"is_public"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PublicReview is a review joined with its author's username, the shape
// returned by public per-title listings. Only reviews passing the double
// visibility filter ever reach this type.
type PublicReview struct {
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	TMDBID      int64     `json:"tmdb_id"`
	MediaType   MediaType `json:"media_type"`
	Rating      int       `json:"rating"`
	Text        string    `json:"text,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}
