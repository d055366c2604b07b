package api

import (
	"net/http"

	"github.com/bingeboard/bingeboard-server/internal/http/response"
)

// handleRecommendations returns AI title suggestions for the user. The
// per-user request budget is charged before the cache is consulted, so the
// 429 fires even when a cached set is sitting there.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	resp, err := s.recommendationService.Recommend(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, resp, s.logger)
}
