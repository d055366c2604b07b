package api

import (
	"net/http"

	"github.com/bingeboard/bingeboard-server/internal/http/response"
	"github.com/bingeboard/bingeboard-server/internal/service"
)

// handleSignup creates a new account and returns its first session.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	resp, err := s.authService.Signup(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, resp, s.logger)
}

// handleLogin authenticates a user and returns tokens.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	resp, err := s.authService.Login(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, resp, s.logger)
}

// handleRefresh exchanges a refresh token for a new token pair.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req service.RefreshRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	resp, err := s.authService.RefreshTokens(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, resp, s.logger)
}

// handleLogout revokes the session behind a refresh token.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req service.LogoutRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	if err := s.authService.Logout(r.Context(), req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]string{"message": "Logged out successfully"}, s.logger)
}

// resolveRequest is the request body for identifier resolution.
type resolveRequest struct {
	Identifier string `json:"identifier"`
}

// handleResolveIdentifier maps a login identifier (email or username) to the
// email to authenticate with. An unknown username resolves to an empty email,
// so the endpoint reveals nothing about which usernames exist.
func (s *Server) handleResolveIdentifier(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if req.Identifier == "" {
		response.BadRequest(w, "Identifier is required", s.logger)
		return
	}

	email, err := s.identityService.ResolveIdentifier(r.Context(), req.Identifier)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]string{"email": email}, s.logger)
}
