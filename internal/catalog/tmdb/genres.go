package tmdb

import (
	"context"
	"encoding/json/v2"
	"fmt"

	"github.com/bingeboard/bingeboard-server/internal/domain"
)

// genreNames returns the id-to-name genre table for a media type, fetching it
// from the API on first use.
func (c *Client) genreNames(ctx context.Context, mediaType domain.MediaType) (map[int64]string, error) {
	c.genreMu.Lock()
	defer c.genreMu.Unlock()

	if names, ok := c.genresByTyp[string(mediaType)]; ok {
		return names, nil
	}

	path := fmt.Sprintf("/genre/%s/list", mediaType)
	body, err := c.doRequest(ctx, path, nil)
	if err != nil {
		return nil, wrapError("genres", path, err)
	}

	var resp struct {
		Genres []rawGenre `json:"genres"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, wrapError("genres", path, fmt.Errorf("parse response: %w", err))
	}

	names := make(map[int64]string, len(resp.Genres))
	for _, g := range resp.Genres {
		names[g.ID] = g.Name
	}
	c.genresByTyp[string(mediaType)] = names

	return names, nil
}
