package sqlite

import (
	"context"
	"database/sql"
	"encoding/json/v2"
	"fmt"
	"strings"

	"github.com/bingeboard/bingeboard-server/internal/domain"
	"github.com/bingeboard/bingeboard-server/internal/store"
)

// collectionItemColumns is the ordered list of columns selected in collection
// item queries. Must match the scan order in scanCollectionItem.
const collectionItemColumns = `id, user_id, tmdb_id, media_type, status, is_public, added_at, updated_at`

// scanCollectionItem scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.CollectionItem.
func scanCollectionItem(scanner interface{ Scan(dest ...any) error }) (*domain.CollectionItem, error) {
	var item domain.CollectionItem

	var (
		mediaType string
		status    string
		isPublic  int
		addedAt   string
		updatedAt string
	)

	err := scanner.Scan(
		&item.ID,
		&item.UserID,
		&item.TMDBID,
		&mediaType,
		&status,
		&isPublic,
		&addedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.MediaType = domain.MediaType(mediaType)
	item.Status = domain.CollectionStatus(status)
	item.IsPublic = isPublic != 0

	item.AddedAt, err = parseTime(addedAt)
	if err != nil {
		return nil, err
	}
	item.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &item, nil
}

// encodeTags serializes a tag list as a JSON array for storage.
func encodeTags(tags []string) (sql.NullString, error) {
	if len(tags) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode tags: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

// decodeTags deserializes a stored JSON tag array.
func decodeTags(s sql.NullString) ([]string, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(s.String), &tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	return tags, nil
}

// CreateCollectionItem inserts a new collection item.
// Returns store.ErrAlreadyExists if the user already tracks this title.
func (s *Store) CreateCollectionItem(ctx context.Context, item *domain.CollectionItem) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collection_items (
			id, user_id, tmdb_id, media_type, status, is_public, added_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.UserID,
		item.TMDBID,
		string(item.MediaType),
		string(item.Status),
		boolToInt(item.IsPublic),
		formatTime(item.AddedAt),
		formatTime(item.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetCollectionItem retrieves a collection item by ID, scoped to its owner.
// Returns store.ErrNotFound if the item does not exist or belongs to another user.
func (s *Store) GetCollectionItem(ctx context.Context, userID, itemID string) (*domain.CollectionItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+collectionItemColumns+` FROM collection_items WHERE id = ? AND user_id = ?`,
		itemID, userID)

	item, err := scanCollectionItem(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// GetCollectionItemByTitle retrieves a user's collection item for one title.
// Returns store.ErrNotFound if the user does not track the title.
func (s *Store) GetCollectionItemByTitle(ctx context.Context, userID string, tmdbID int64, mediaType domain.MediaType) (*domain.CollectionItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+collectionItemColumns+` FROM collection_items
		WHERE user_id = ? AND tmdb_id = ? AND media_type = ?`,
		userID, tmdbID, string(mediaType))

	item, err := scanCollectionItem(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateCollectionItem performs a full row update on an existing item, scoped
// to its owner.
// Returns store.ErrNotFound if the item does not exist or belongs to another user.
func (s *Store) UpdateCollectionItem(ctx context.Context, item *domain.CollectionItem) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE collection_items SET
			status = ?,
			is_public = ?,
			updated_at = ?
		WHERE id = ? AND user_id = ?`,
		string(item.Status),
		boolToInt(item.IsPublic),
		formatTime(item.UpdatedAt),
		item.ID,
		item.UserID,
	)
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

// DeleteCollectionItem removes an item and, via cascade, its note and
// override rows. Scoped to the owner.
// Returns store.ErrNotFound if the item does not exist or belongs to another user.
func (s *Store) DeleteCollectionItem(ctx context.Context, userID, itemID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM collection_items WHERE id = ? AND user_id = ?`,
		itemID, userID)
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

// ListCollectionEntries returns a user's collection items joined with their
// optional note and override rows, newest additions first. Set filter fields
// are applied as additional WHERE clauses.
func (s *Store) ListCollectionEntries(ctx context.Context, userID string, filter store.CollectionFilter) ([]*domain.CollectionEntry, error) {
	q := `
		SELECT
			ci.id, ci.user_id, ci.tmdb_id, ci.media_type, ci.status, ci.is_public,
			ci.added_at, ci.updated_at,
			n.rating, n.tags, n.notes, n.created_at, n.updated_at,
			o.custom_title, o.custom_creator, o.custom_release_date, o.created_at, o.updated_at
		FROM collection_items ci
		LEFT JOIN item_notes n ON n.collection_item_id = ci.id
		LEFT JOIN item_overrides o ON o.collection_item_id = ci.id
		WHERE ci.user_id = ?`
	args := []any{userID}
	if filter.Status != "" {
		q += ` AND ci.status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.MediaType != "" {
		q += ` AND ci.media_type = ?`
		args = append(args, string(filter.MediaType))
	}
	q += ` ORDER BY ci.added_at DESC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.CollectionEntry
	for rows.Next() {
		entry, err := scanCollectionEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// scanCollectionEntry scans a joined collection item row with nullable note
// and override columns.
func scanCollectionEntry(scanner interface{ Scan(dest ...any) error }) (*domain.CollectionEntry, error) {
	var entry domain.CollectionEntry

	var (
		mediaType string
		status    string
		isPublic  int
		addedAt   string
		updatedAt string

		noteRating    sql.NullInt64
		noteTags      sql.NullString
		noteText      sql.NullString
		noteCreatedAt sql.NullString
		noteUpdatedAt sql.NullString

		ovTitle       sql.NullString
		ovCreator     sql.NullString
		ovReleaseDate sql.NullString
		ovCreatedAt   sql.NullString
		ovUpdatedAt   sql.NullString
	)

	err := scanner.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.TMDBID,
		&mediaType,
		&status,
		&isPublic,
		&addedAt,
		&updatedAt,
		&noteRating,
		&noteTags,
		&noteText,
		&noteCreatedAt,
		&noteUpdatedAt,
		&ovTitle,
		&ovCreator,
		&ovReleaseDate,
		&ovCreatedAt,
		&ovUpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.MediaType = domain.MediaType(mediaType)
	entry.Status = domain.CollectionStatus(status)
	entry.IsPublic = isPublic != 0

	entry.AddedAt, err = parseTime(addedAt)
	if err != nil {
		return nil, err
	}
	entry.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	// A note row exists when its created_at came back non-null.
	if noteCreatedAt.Valid {
		note := &domain.ItemNote{CollectionItemID: entry.ID}
		if noteRating.Valid {
			rating := int(noteRating.Int64)
			note.Rating = &rating
		}
		note.Tags, err = decodeTags(noteTags)
		if err != nil {
			return nil, err
		}
		if noteText.Valid {
			note.Notes = &noteText.String
		}
		note.CreatedAt, err = parseTime(noteCreatedAt.String)
		if err != nil {
			return nil, err
		}
		note.UpdatedAt, err = parseTime(noteUpdatedAt.String)
		if err != nil {
			return nil, err
		}
		entry.Note = note
	}

	if ovCreatedAt.Valid {
		override := &domain.ItemOverride{CollectionItemID: entry.ID}
		if ovTitle.Valid {
			override.CustomTitle = &ovTitle.String
		}
		if ovCreator.Valid {
			override.CustomCreator = &ovCreator.String
		}
		if ovReleaseDate.Valid {
			override.CustomReleaseDate = &ovReleaseDate.String
		}
		override.CreatedAt, err = parseTime(ovCreatedAt.String)
		if err != nil {
			return nil, err
		}
		override.UpdatedAt, err = parseTime(ovUpdatedAt.String)
		if err != nil {
			return nil, err
		}
		entry.Override = override
	}

	return &entry, nil
}

// UpsertItemNote creates or replaces the note row for a collection item.
func (s *Store) UpsertItemNote(ctx context.Context, note *domain.ItemNote) error {
	tags, err := encodeTags(note.Tags)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO item_notes (
			collection_item_id, rating, tags, notes, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (collection_item_id) DO UPDATE SET
			rating = excluded.rating,
			tags = excluded.tags,
			notes = excluded.notes,
			updated_at = excluded.updated_at`,
		note.CollectionItemID,
		nullableInt(note.Rating),
		tags,
		nullableString(note.Notes),
		formatTime(note.CreatedAt),
		formatTime(note.UpdatedAt),
	)
	return err
}

// UpsertItemOverride creates or replaces the override row for a collection item.
func (s *Store) UpsertItemOverride(ctx context.Context, override *domain.ItemOverride) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO item_overrides (
			collection_item_id, custom_title, custom_creator, custom_release_date,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (collection_item_id) DO UPDATE SET
			custom_title = excluded.custom_title,
			custom_creator = excluded.custom_creator,
			custom_release_date = excluded.custom_release_date,
			updated_at = excluded.updated_at`,
		override.CollectionItemID,
		nullableString(override.CustomTitle),
		nullableString(override.CustomCreator),
		nullableString(override.CustomReleaseDate),
		formatTime(override.CreatedAt),
		formatTime(override.UpdatedAt),
	)
	return err
}

// ListPublicCollectionItems returns a user's public collection items, newest
// activity first. Notes and overrides stay private and are never joined here.
func (s *Store) ListPublicCollectionItems(ctx context.Context, userID string) ([]*domain.CollectionItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+collectionItemColumns+` FROM collection_items
		WHERE user_id = ? AND is_public = 1
		ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.CollectionItem
	for rows.Next() {
		item, err := scanCollectionItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ListRecentCollectionItems returns up to limit of a user's most recently
// updated collection items, public or not. Used as the taste signal for
// recommendations, which only ever reach the owner.
func (s *Store) ListRecentCollectionItems(ctx context.Context, userID string, limit int) ([]*domain.CollectionItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+collectionItemColumns+` FROM collection_items
		WHERE user_id = ?
		ORDER BY updated_at DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.CollectionItem
	for rows.Next() {
		item, err := scanCollectionItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
