package api

import (
	"net/http"

	"github.com/bingeboard/bingeboard-server/internal/http/response"
	"github.com/bingeboard/bingeboard-server/internal/service"
)

// handleGetProfile returns the authenticated user's own profile.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.profileService.Get(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, profile, s.logger)
}

// handleCreateProfile explicitly creates a profile. Used by accounts whose
// signup metadata was unusable and bootstrap was skipped.
func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req service.CreateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	profile, err := s.profileService.Create(r.Context(), getUserID(r.Context()), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, profile, s.logger)
}

// handleUpdateProfile applies a partial profile update.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	profile, err := s.profileService.Update(r.Context(), getUserID(r.Context()), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, profile, s.logger)
}

// bootstrapResponse reports what profile bootstrap did.
type bootstrapResponse struct {
	Result  service.BootstrapResult `json:"result"`
	Profile any                     `json:"profile,omitempty"`
}

// handleBootstrapProfile creates the profile from signup metadata. Safe to
// call repeatedly; it reports created, already_exists or skipped.
func (s *Server) handleBootstrapProfile(w http.ResponseWriter, r *http.Request) {
	result, profile, err := s.profileService.Bootstrap(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	resp := bootstrapResponse{Result: result}
	if profile != nil {
		resp.Profile = profile
	}
	response.Success(w, resp, s.logger)
}
