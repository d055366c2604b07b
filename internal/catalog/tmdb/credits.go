package tmdb

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"strings"

	"github.com/bingeboard/bingeboard-server/internal/domain"
)

// Creator resolves a title's primary creative credit: the director for
// movies, the comma-joined creator list for series. Returns "" when the
// catalog lists nobody.
func (c *Client) Creator(ctx context.Context, tmdbID int64, mediaType domain.MediaType) (string, error) {
	if !mediaType.Valid() {
		return "", wrapError("credits", "", ErrBadRequest)
	}

	if mediaType == domain.MediaTypeMovie {
		return c.movieDirector(ctx, tmdbID)
	}
	return c.tvCreators(ctx, tmdbID)
}

// movieDirector finds the first crew member with the Director job.
func (c *Client) movieDirector(ctx context.Context, tmdbID int64) (string, error) {
	path := fmt.Sprintf("/movie/%d/credits", tmdbID)
	body, err := c.doRequest(ctx, path, nil)
	if err != nil {
		return "", wrapError("credits", path, err)
	}

	var credits rawCredits
	if err := json.Unmarshal(body, &credits); err != nil {
		return "", wrapError("credits", path, fmt.Errorf("parse response: %w", err))
	}

	for _, person := range credits.Crew {
		if person.Job == "Director" {
			return person.Name, nil
		}
	}
	return "", nil
}

// tvCreators joins the created_by names from the series detail record.
func (c *Client) tvCreators(ctx context.Context, tmdbID int64) (string, error) {
	path := fmt.Sprintf("/tv/%d", tmdbID)
	body, err := c.doRequest(ctx, path, nil)
	if err != nil {
		return "", wrapError("credits", path, err)
	}

	var tv rawTV
	if err := json.Unmarshal(body, &tv); err != nil {
		return "", wrapError("credits", path, fmt.Errorf("parse response: %w", err))
	}

	names := make([]string, 0, len(tv.CreatedBy))
	for _, person := range tv.CreatedBy {
		names = append(names, person.Name)
	}
	return strings.Join(names, ", "), nil
}
