package sqlite

import (
	"context"
	"database/sql"

	"github.com/bingeboard/bingeboard-server/internal/domain"
	"github.com/bingeboard/bingeboard-server/internal/store"
)

// reviewColumns is the ordered list of columns selected in review queries.
// Must match the scan order in scanReview.
const reviewColumns = `id, user_id, tmdb_id, media_type, rating, text, is_public, created_at, updated_at`

// scanReview scans a sql.Row (or sql.Rows via its Scan method) into a domain.ItemReview.
func scanReview(scanner interface{ Scan(dest ...any) error }) (*domain.ItemReview, error) {
	var r domain.ItemReview

	var (
		mediaType string
		isPublic  int
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&r.ID,
		&r.UserID,
		&r.TMDBID,
		&mediaType,
		&r.Rating,
		&r.Text,
		&isPublic,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.MediaType = domain.MediaType(mediaType)
	r.IsPublic = isPublic != 0

	r.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	r.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// UpsertReview creates or replaces a user's review of a title. The conflict
// target is (user_id, tmdb_id, media_type): one review per user per title,
// writing again overwrites rating, text and visibility. The original row's
// id and created_at survive the overwrite.
func (s *Store) UpsertReview(ctx context.Context, review *domain.ItemReview) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO item_reviews (
			id, user_id, tmdb_id, media_type, rating, text, is_public, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, tmdb_id, media_type) DO UPDATE SET
			rating = excluded.rating,
			text = excluded.text,
			is_public = excluded.is_public,
			updated_at = excluded.updated_at`,
		review.ID,
		review.UserID,
		review.TMDBID,
		string(review.MediaType),
		review.Rating,
		review.Text,
		boolToInt(review.IsPublic),
		formatTime(review.CreatedAt),
		formatTime(review.UpdatedAt),
	)
	return err
}

// GetReview retrieves a user's review of one title.
// Returns store.ErrNotFound if the user has not reviewed the title.
func (s *Store) GetReview(ctx context.Context, userID string, tmdbID int64, mediaType domain.MediaType) (*domain.ItemReview, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM item_reviews
		WHERE user_id = ? AND tmdb_id = ? AND media_type = ?`,
		userID, tmdbID, string(mediaType))

	r, err := scanReview(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListReviewsByUser returns all of a user's reviews, newest first. Owner view
// only; public reads go through ListPublicReviewsByUser.
func (s *Store) ListReviewsByUser(ctx context.Context, userID string) ([]*domain.ItemReview, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+reviewColumns+` FROM item_reviews
		WHERE user_id = ?
		ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*domain.ItemReview
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

// DeleteReview removes a user's review of one title.
// Returns store.ErrNotFound if the review does not exist.
func (s *Store) DeleteReview(ctx context.Context, userID string, tmdbID int64, mediaType domain.MediaType) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM item_reviews WHERE user_id = ? AND tmdb_id = ? AND media_type = ?`,
		userID, tmdbID, string(mediaType))
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListPublicReviewsForTitle returns reviews of one title that pass the double
// visibility filter: the review is public AND the author's profile is public.
// Both conditions live in the query so a private profile hides its reviews
// even when the review rows themselves are public.
func (s *Store) ListPublicReviewsForTitle(ctx context.Context, tmdbID int64, mediaType domain.MediaType) ([]*domain.PublicReview, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.username, p.display_name, r.tmdb_id, r.media_type, r.rating, r.text, r.updated_at
		FROM item_reviews r
		JOIN profiles p ON p.user_id = r.user_id
		WHERE r.tmdb_id = ? AND r.media_type = ?
		  AND r.is_public = 1 AND p.profile_public = 1
		ORDER BY r.updated_at DESC`,
		tmdbID, string(mediaType))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPublicReviews(rows)
}

// ListPublicReviewsByUser returns one user's reviews that pass the double
// visibility filter. An empty result for a private profile is
// indistinguishable from a user with no reviews.
func (s *Store) ListPublicReviewsByUser(ctx context.Context, userID string) ([]*domain.PublicReview, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.username, p.display_name, r.tmdb_id, r.media_type, r.rating, r.text, r.updated_at
		FROM item_reviews r
		JOIN profiles p ON p.user_id = r.user_id
		WHERE r.user_id = ?
		  AND r.is_public = 1 AND p.profile_public = 1
		ORDER BY r.updated_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPublicReviews(rows)
}

func scanPublicReviews(rows *sql.Rows) ([]*domain.PublicReview, error) {
	var reviews []*domain.PublicReview
	for rows.Next() {
		var r domain.PublicReview
		var mediaType string
		var updatedAt string

		if err := rows.Scan(&r.Username, &r.DisplayName, &r.TMDBID, &mediaType, &r.Rating, &r.Text, &updatedAt); err != nil {
			return nil, err
		}

		r.MediaType = domain.MediaType(mediaType)
		var err error
		r.UpdatedAt, err = parseTime(updatedAt)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}
