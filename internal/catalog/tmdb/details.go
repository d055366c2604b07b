package tmdb

import (
	"context"
	"encoding/json/v2"
	"fmt"

	"github.com/bingeboard/bingeboard-server/internal/domain"
)

// Details fetches one title's full record and returns it normalized. Detail
// responses embed full genre objects, so no genre table lookup is needed.
func (c *Client) Details(ctx context.Context, tmdbID int64, mediaType domain.MediaType) (*domain.NormalizedMediaItem, error) {
	if !mediaType.Valid() {
		return nil, wrapError("details", "", ErrBadRequest)
	}

	path := fmt.Sprintf("/%s/%d", mediaType, tmdbID)
	body, err := c.doRequest(ctx, path, nil)
	if err != nil {
		return nil, wrapError("details", path, err)
	}

	switch mediaType {
	case domain.MediaTypeMovie:
		var m rawMovie
		if err := json.Unmarshal(body, &m); err != nil {
			return nil, wrapError("details", path, fmt.Errorf("parse response: %w", err))
		}
		item := normalizeMovie(&m, nil)
		return &item, nil
	default:
		var tv rawTV
		if err := json.Unmarshal(body, &tv); err != nil {
			return nil, wrapError("details", path, fmt.Errorf("parse response: %w", err))
		}
		item := normalizeTV(&tv, nil)
		return &item, nil
	}
}
