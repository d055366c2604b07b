package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bingeboard/bingeboard-server/internal/domain"
	domainerrors "github.com/bingeboard/bingeboard-server/internal/errors"
	"github.com/bingeboard/bingeboard-server/internal/id"
	"github.com/bingeboard/bingeboard-server/internal/store"
)

// CollectionService manages a user's tracked titles with their notes and
// display overrides. All operations are owner-scoped.
type CollectionService struct {
	store  store.Store
	logger *slog.Logger
}

// NewCollectionService creates a new collection service.
func NewCollectionService(store store.Store, logger *slog.Logger) *CollectionService {
	return &CollectionService{store: store, logger: logger}
}

// AddItemRequest contains the data to start tracking a title.
type AddItemRequest struct {
	TMDBID    int64  `json:"tmdb_id" validate:"required,gt=0"`
	MediaType string `json:"media_type" validate:"required,oneof=movie tv"`
	Status    string `json:"status" validate:"required,oneof=wishlist currently_watching completed"`
	// IsPublic defaults to the profile's default_item_public when omitted.
	IsPublic *bool `json:"is_public,omitempty"`
}

// AddItem starts tracking a title for the user.
func (s *CollectionService) AddItem(ctx context.Context, userID string, req AddItemRequest) (*domain.CollectionItem, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	} else {
		profile, err := s.store.GetProfile(ctx, userID)
		switch {
		case err == nil:
			isPublic = profile.DefaultItemPublic
		case errors.Is(err, store.ErrNotFound):
			// No profile means the visibility default stays true, matching
			// the defaults a bootstrapped profile would carry.
		default:
			return nil, fmt.Errorf("get profile: %w", err)
		}
	}

	itemID, err := id.Generate("item")
	if err != nil {
		return nil, fmt.Errorf("generate item ID: %w", err)
	}

	now := time.Now()
	item := &domain.CollectionItem{
		ID:        itemID,
		UserID:    userID,
		TMDBID:    req.TMDBID,
		MediaType: domain.MediaType(req.MediaType),
		Status:    domain.CollectionStatus(req.Status),
		IsPublic:  isPublic,
		AddedAt:   now,
		UpdatedAt: now,
	}

	if err := s.store.CreateCollectionItem(ctx, item); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("title is already in your collection")
		}
		return nil, fmt.Errorf("create collection item: %w", err)
	}

	return item, nil
}

// ListFilter narrows a collection listing. Empty fields match everything.
type ListFilter struct {
	Status    string
	MediaType string
}

// List returns the user's collection with notes and overrides, optionally
// narrowed by status and media type.
func (s *CollectionService) List(ctx context.Context, userID string, filter ListFilter) ([]*domain.CollectionEntry, error) {
	storeFilter := store.CollectionFilter{}
	if filter.Status != "" {
		status := domain.CollectionStatus(filter.Status)
		if !status.Valid() {
			return nil, domainerrors.Validation("status must be wishlist, currently_watching or completed")
		}
		storeFilter.Status = status
	}
	if filter.MediaType != "" {
		mediaType := domain.MediaType(filter.MediaType)
		if !mediaType.Valid() {
			return nil, domainerrors.Validation("media_type must be movie or tv")
		}
		storeFilter.MediaType = mediaType
	}

	entries, err := s.store.ListCollectionEntries(ctx, userID, storeFilter)
	if err != nil {
		return nil, fmt.Errorf("list collection: %w", err)
	}
	return entries, nil
}

// NoteInput is the note portion of an item update.
type NoteInput struct {
	Rating *int     `json:"rating,omitempty" validate:"omitempty,gte=1,lte=5"`
	Tags   []string `json:"tags,omitempty"`
	Notes  *string  `json:"notes,omitempty"`
}

// OverrideInput is the display-override portion of an item update.
type OverrideInput struct {
	CustomTitle       *string `json:"custom_title,omitempty"`
	CustomCreator     *string `json:"custom_creator,omitempty"`
	CustomReleaseDate *string `json:"custom_release_date,omitempty"`
}

// UpdateItemRequest contains a partial item update. Status, visibility, note
// and override sections are independent; each is applied only when present.
type UpdateItemRequest struct {
	Status   *string        `json:"status,omitempty" validate:"omitempty,oneof=wishlist currently_watching completed"`
	IsPublic *bool          `json:"is_public,omitempty"`
	Note     *NoteInput     `json:"note,omitempty"`
	Override *OverrideInput `json:"override,omitempty"`
}

// UpdateItem applies a partial update to a collection item. The note and
// override writes are separate statements, not a transaction: a failure
// partway leaves earlier sections applied, which is acceptable for
// user-facing annotations that the owner can simply resubmit.
func (s *CollectionService) UpdateItem(ctx context.Context, userID, itemID string, req UpdateItemRequest) (*domain.CollectionItem, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	item, err := s.store.GetCollectionItem(ctx, userID, itemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("collection item not found")
		}
		return nil, fmt.Errorf("get collection item: %w", err)
	}

	now := time.Now()

	if req.Status != nil || req.IsPublic != nil {
		if req.Status != nil {
			item.Status = domain.CollectionStatus(*req.Status)
		}
		if req.IsPublic != nil {
			item.IsPublic = *req.IsPublic
		}
		item.UpdatedAt = now
		if err := s.store.UpdateCollectionItem(ctx, item); err != nil {
			return nil, fmt.Errorf("update collection item: %w", err)
		}
	}

	if req.Note != nil {
		note := &domain.ItemNote{
			CollectionItemID: item.ID,
			Rating:           req.Note.Rating,
			Tags:             req.Note.Tags,
			Notes:            req.Note.Notes,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := s.store.UpsertItemNote(ctx, note); err != nil {
			return nil, fmt.Errorf("upsert item note: %w", err)
		}
	}

	if req.Override != nil {
		override := &domain.ItemOverride{
			CollectionItemID:  item.ID,
			CustomTitle:       req.Override.CustomTitle,
			CustomCreator:     req.Override.CustomCreator,
			CustomReleaseDate: req.Override.CustomReleaseDate,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := s.store.UpsertItemOverride(ctx, override); err != nil {
			return nil, fmt.Errorf("upsert item override: %w", err)
		}
	}

	return item, nil
}

// DeleteItem stops tracking a title. Its note and override rows go with it.
func (s *CollectionService) DeleteItem(ctx context.Context, userID, itemID string) error {
	if err := s.store.DeleteCollectionItem(ctx, userID, itemID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("collection item not found")
		}
		return fmt.Errorf("delete collection item: %w", err)
	}
	return nil
}
