package api

import (
	"net/http"

	"github.com/bingeboard/bingeboard-server/internal/http/response"
	"github.com/bingeboard/bingeboard-server/internal/service"
)

// handleListMyReviews returns all of the user's reviews, public and private.
func (s *Server) handleListMyReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := s.reviewService.ListMine(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, reviews, s.logger)
}

// handleUpsertReview writes the user's review of a title, replacing any
// previous one. PUT because a rewrite is a replace, not a second review.
func (s *Server) handleUpsertReview(w http.ResponseWriter, r *http.Request) {
	var req service.UpsertReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	review, err := s.reviewService.Upsert(r.Context(), getUserID(r.Context()), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, review, s.logger)
}

// handleDeleteReview removes the user's review of a title.
func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
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

	if err := s.reviewService.Delete(r.Context(), getUserID(r.Context()), tmdbID, mediaType); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleTitleReviews returns a title's publicly visible reviews.
func (s *Server) handleTitleReviews(w http.ResponseWriter, r *http.Request) {
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

	reviews, err := s.visibilityService.ReviewsForTitle(r.Context(), tmdbID, mediaType)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, reviews, s.logger)
}
