package tmdb

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/url"

	"github.com/bingeboard/bingeboard-server/internal/domain"
)

// SearchParams narrows a catalog search. MediaType and Year are optional;
// an empty MediaType searches movies and series together.
type SearchParams struct {
	Query     string
	MediaType domain.MediaType
	Year      string
}

// Search searches the catalog and returns normalized results. When no media
// type filter is set, movie and series results are merged with movies first.
func (c *Client) Search(ctx context.Context, params SearchParams) ([]domain.NormalizedMediaItem, error) {
	if params.Query == "" {
		return nil, wrapError("search", "", ErrBadRequest)
	}

	var results []domain.NormalizedMediaItem

	if params.MediaType == "" || params.MediaType == domain.MediaTypeMovie {
		movies, err := c.searchMovies(ctx, params.Query, params.Year)
		if err != nil {
			return nil, err
		}
		results = append(results, movies...)
	}

	if params.MediaType == "" || params.MediaType == domain.MediaTypeTV {
		series, err := c.searchTV(ctx, params.Query, params.Year)
		if err != nil {
			return nil, err
		}
		results = append(results, series...)
	}

	return results, nil
}

func (c *Client) searchMovies(ctx context.Context, queryText, year string) ([]domain.NormalizedMediaItem, error) {
	names, err := c.genreNames(ctx, domain.MediaTypeMovie)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("query", queryText)
	if year != "" {
		query.Set("primary_release_year", year)
	}

	body, err := c.doRequest(ctx, "/search/movie", query)
	if err != nil {
		return nil, wrapError("search", "/search/movie", err)
	}

	var resp struct {
		Results []rawMovie `json:"results"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, wrapError("search", "/search/movie", fmt.Errorf("parse response: %w", err))
	}

	results := make([]domain.NormalizedMediaItem, 0, len(resp.Results))
	for i := range resp.Results {
		results = append(results, normalizeMovie(&resp.Results[i], names))
	}
	return results, nil
}

func (c *Client) searchTV(ctx context.Context, queryText, year string) ([]domain.NormalizedMediaItem, error) {
	names, err := c.genreNames(ctx, domain.MediaTypeTV)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("query", queryText)
	if year != "" {
		query.Set("first_air_date_year", year)
	}

	body, err := c.doRequest(ctx, "/search/tv", query)
	if err != nil {
		return nil, wrapError("search", "/search/tv", err)
	}

	var resp struct {
		Results []rawTV `json:"results"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, wrapError("search", "/search/tv", fmt.Errorf("parse response: %w", err))
	}

	results := make([]domain.NormalizedMediaItem, 0, len(resp.Results))
	for i := range resp.Results {
		results = append(results, normalizeTV(&resp.Results[i], names))
	}
	return results, nil
}
