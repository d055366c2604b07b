package api

import (
	"encoding/json/v2"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bingeboard/bingeboard-server/internal/domain"
)

// maxRequestBody caps request bodies at 1 MiB.
const maxRequestBody = 1 << 20

// decodeJSON decodes a JSON request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	return json.UnmarshalRead(http.MaxBytesReader(nil, r.Body, maxRequestBody), dst)
}

// mediaTypeParam parses the {mediaType} URL parameter.
func mediaTypeParam(r *http.Request) (domain.MediaType, bool) {
	mediaType, ok := domain.ParseMediaType(chi.URLParam(r, "mediaType"))
	if !ok {
		return "", false
	}
	return mediaType, true
}

// tmdbIDParam parses the {tmdbID} URL parameter.
func tmdbIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "tmdbID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
