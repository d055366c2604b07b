package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bingeboard/bingeboard-server/internal/http/response"
)

// handleListUsers returns the public user directory, optionally narrowed by
// the q query parameter.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	listings, err := s.visibilityService.ListUsers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, listings, s.logger)
}

// handlePublicProfile returns a user's public page. Private and nonexistent
// profiles are both 404.
func (s *Server) handlePublicProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		response.BadRequest(w, "Username is required", s.logger)
		return
	}

	view, err := s.visibilityService.PublicProfile(r.Context(), username)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, view, s.logger)
}
