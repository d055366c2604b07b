package api

import (
	"errors"
	"net/http"

	"github.com/bingeboard/bingeboard-server/internal/catalog/tmdb"
	"github.com/bingeboard/bingeboard-server/internal/domain"
	"github.com/bingeboard/bingeboard-server/internal/http/response"
)

// handleCatalogSearch searches TMDB for titles.
// Query params: q (required), type (movie|tv, optional), year (optional).
func (s *Server) handleCatalogSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		response.BadRequest(w, "Query parameter 'q' is required", s.logger)
		return
	}

	params := tmdb.SearchParams{
		Query: query,
		Year:  r.URL.Query().Get("year"),
	}
	if typeFilter := r.URL.Query().Get("type"); typeFilter != "" {
		mediaType, ok := domain.ParseMediaType(typeFilter)
		if !ok {
			response.BadRequest(w, "Type must be movie or tv", s.logger)
			return
		}
		params.MediaType = mediaType
	}

	items, err := s.catalog.Search(r.Context(), params)
	if err != nil {
		s.handleCatalogError(w, err)
		return
	}

	response.Success(w, items, s.logger)
}

// handleCatalogDetails returns one title's normalized details.
func (s *Server) handleCatalogDetails(w http.ResponseWriter, r *http.Request) {
	mediaType, ok := mediaTypeParam(r)
	if !ok {
		response.BadRequest(w, "Media type must be movie or tv", s.logger)
		return
	}
	tmdbID, ok := tmdbIDParam(r)
	if !ok {
		response.BadRequest(w, "Invalid TMDB ID", s.logger)
		return
	}

	item, err := s.catalog.Details(r.Context(), tmdbID, mediaType)
	if err != nil {
		s.handleCatalogError(w, err)
		return
	}

	response.Success(w, item, s.logger)
}

// handleCatalogCredits returns a title's creator credit: the director for a
// movie, the creators for a show.
func (s *Server) handleCatalogCredits(w http.ResponseWriter, r *http.Request) {
	mediaType, ok := mediaTypeParam(r)
	if !ok {
		response.BadRequest(w, "Media type must be movie or tv", s.logger)
		return
	}
	tmdbID, ok := tmdbIDParam(r)
	if !ok {
		response.BadRequest(w, "Invalid TMDB ID", s.logger)
		return
	}

	creator, err := s.catalog.Creator(r.Context(), tmdbID, mediaType)
	if err != nil {
		s.handleCatalogError(w, err)
		return
	}

	response.Success(w, map[string]string{"creator": creator}, s.logger)
}

// handleCatalogError maps TMDB client errors to HTTP responses. Upstream
// auth and server failures surface as 502 so clients can tell them apart
// from our own errors.
func (s *Server) handleCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tmdb.ErrNotFound):
		response.NotFound(w, "Title not found", s.logger)
	case errors.Is(err, tmdb.ErrBadRequest):
		response.BadRequest(w, "Invalid catalog request", s.logger)
	case errors.Is(err, tmdb.ErrRateLimited):
		response.TooManyRequests(w, "Catalog is busy, try again shortly", s.logger)
	default:
		s.logger.Error("Catalog request failed", "error", err)
		response.Error(w, http.StatusBadGateway, "Catalog unavailable", s.logger)
	}
}
