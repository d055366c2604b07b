package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bingeboard/bingeboard-server/internal/http/response"
	"github.com/bingeboard/bingeboard-server/internal/service"
)

// handleListCollection returns the user's collection with notes and overrides.
// Optional status and type query parameters narrow the listing.
func (s *Server) handleListCollection(w http.ResponseWriter, r *http.Request) {
	filter := service.ListFilter{
		Status:    r.URL.Query().Get("status"),
		MediaType: r.URL.Query().Get("type"),
	}

	entries, err := s.collectionService.List(r.Context(), getUserID(r.Context()), filter)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, entries, s.logger)
}

// handleAddCollectionItem starts tracking a title.
func (s *Server) handleAddCollectionItem(w http.ResponseWriter, r *http.Request) {
	var req service.AddItemRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	item, err := s.collectionService.AddItem(r.Context(), getUserID(r.Context()), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, item, s.logger)
}

// handleUpdateCollectionItem applies a partial update to a collection item.
func (s *Server) handleUpdateCollectionItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")
	if itemID == "" {
		response.BadRequest(w, "Item ID is required", s.logger)
		return
	}

	var req service.UpdateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	item, err := s.collectionService.UpdateItem(r.Context(), getUserID(r.Context()), itemID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, item, s.logger)
}

// handleDeleteCollectionItem stops tracking a title.
func (s *Server) handleDeleteCollectionItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")
	if itemID == "" {
		response.BadRequest(w, "Item ID is required", s.logger)
		return
	}

	if err := s.collectionService.DeleteItem(r.Context(), getUserID(r.Context()), itemID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
