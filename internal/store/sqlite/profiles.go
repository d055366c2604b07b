package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/bingeboard/bingeboard-server/internal/domain"
	"github.com/bingeboard/bingeboard-server/internal/store"
)

// publicListingLimit caps the user directory so it stays a discovery surface,
// not a scrape target.
const publicListingLimit = 25

// profileColumns is the ordered list of columns selected in profile queries.
// Must match the scan order in scanProfile.
const profileColumns = `user_id, username, display_name, profile_public,
	default_item_public, default_review_public, created_at, updated_at`

// scanProfile scans a sql.Row (or sql.Rows via its Scan method) into a domain.Profile.
func scanProfile(scanner interface{ Scan(dest ...any) error }) (*domain.Profile, error) {
	var p domain.Profile

	var (
		profilePublic       int
		defaultItemPublic   int
		defaultReviewPublic int
		createdAt           string
		updatedAt           string
	)

	err := scanner.Scan(
		&p.UserID,
		&p.Username,
		&p.DisplayName,
		&profilePublic,
		&defaultItemPublic,
		&defaultReviewPublic,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.ProfilePublic = profilePublic != 0
	p.DefaultItemPublic = defaultItemPublic != 0
	p.DefaultReviewPublic = defaultReviewPublic != 0

	p.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// CreateProfile inserts a new profile into the database.
// Returns store.ErrAlreadyExists if the user already has a profile or the
// username is taken.
func (s *Store) CreateProfile(ctx context.Context, profile *domain.Profile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (
			user_id, username, display_name, profile_public,
			default_item_public, default_review_public, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		profile.UserID,
		profile.Username,
		profile.DisplayName,
		boolToInt(profile.ProfilePublic),
		boolToInt(profile.DefaultItemPublic),
		boolToInt(profile.DefaultReviewPublic),
		formatTime(profile.CreatedAt),
		formatTime(profile.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetProfile retrieves a profile by the owner's user ID.
// Returns store.ErrNotFound if the profile does not exist.
func (s *Store) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = ?`, userID)

	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetProfileByUsername retrieves a profile by username. Usernames are stored
// lowercase, so the lookup lowercases its argument.
// Returns store.ErrNotFound if the profile does not exist.
func (s *Store) GetProfileByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE username = ?`,
		strings.ToLower(username))

	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProfile performs a full row update on an existing profile.
// Returns store.ErrNotFound if the profile does not exist, or
// store.ErrAlreadyExists if the new username is taken.
func (s *Store) UpdateProfile(ctx context.Context, profile *domain.Profile) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE profiles SET
			username = ?,
			display_name = ?,
			profile_public = ?,
			default_item_public = ?,
			default_review_public = ?,
			updated_at = ?
		WHERE user_id = ?`,
		profile.Username,
		profile.DisplayName,
		boolToInt(profile.ProfilePublic),
		boolToInt(profile.DefaultItemPublic),
		boolToInt(profile.DefaultReviewPublic),
		formatTime(profile.UpdatedAt),
		profile.UserID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
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

// ListPublicProfiles returns public profiles for the user directory, ordered
// by username and capped at publicListingLimit. A non-empty query keeps only
// profiles whose username or display name contains it, case-insensitively.
func (s *Store) ListPublicProfiles(ctx context.Context, query string) ([]*domain.Profile, error) {
	q := `SELECT ` + profileColumns + ` FROM profiles WHERE profile_public = 1`
	args := []any{}
	if query != "" {
		q += ` AND (username LIKE ? OR lower(display_name) LIKE ?)`
		pattern := "%" + strings.ToLower(query) + "%"
		args = append(args, pattern, pattern)
	}
	q += ` ORDER BY username LIMIT ?`
	args = append(args, publicListingLimit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*domain.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}
