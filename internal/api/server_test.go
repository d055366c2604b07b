package api

import (
	"bytes"
	"encoding/hex"
	"encoding/json/jsontext"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bingeboard/bingeboard-server/internal/auth"
	"github.com/bingeboard/bingeboard-server/internal/catalog/tmdb"
	"github.com/bingeboard/bingeboard-server/internal/ratelimit"
	"github.com/bingeboard/bingeboard-server/internal/recommend"
	"github.com/bingeboard/bingeboard-server/internal/service"
	"github.com/bingeboard/bingeboard-server/internal/store/sqlite"
)

// testServer is a full HTTP stack over a temporary database and a stubbed
// TMDB upstream.
type testServer struct {
	server *Server
	tmdb   *httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	dir := t.TempDir()

	s, err := sqlite.Open(filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	authKey, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)
	tokenService, err := auth.NewTokenService(hex.EncodeToString(authKey), 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	upstream := httptest.NewServer(http.HandlerFunc(stubTMDB))
	t.Cleanup(upstream.Close)

	sessionService := service.NewSessionService(s, tokenService, logger)
	authService := service.NewAuthService(s, tokenService, sessionService, logger)

	window := ratelimit.NewFixedWindow(time.Minute, 6)
	recommendationService := service.NewRecommendationService(
		s,
		recommend.NewClient("", "gpt-4o-mini", "http://unused.invalid", logger),
		recommend.NewCache(5*time.Minute),
		window,
		logger,
	)

	server := NewServer(
		authService,
		service.NewIdentityService(s, logger),
		service.NewProfileService(s, logger),
		service.NewCollectionService(s, logger),
		service.NewReviewService(s, logger),
		service.NewVisibilityService(s, logger),
		recommendationService,
		tmdb.NewClient("test-key", upstream.URL, logger),
		logger,
	)

	return &testServer{server: server, tmdb: upstream}
}

// stubTMDB serves the handful of TMDB shapes the handler tests touch.
func stubTMDB(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/genre/movie/list", "/genre/tv/list":
		io.WriteString(w, `{"genres":[{"id":18,"name":"Drama"}]}`)
	case "/search/movie":
		io.WriteString(w, `{"results":[{"id":550,"title":"Fight Club","overview":"An insomniac.","release_date":"1999-10-15","genre_ids":[18],"poster_path":"/fc.jpg"}]}`)
	case "/search/tv":
		io.WriteString(w, `{"results":[]}`)
	case "/movie/550":
		io.WriteString(w, `{"id":550,"title":"Fight Club","overview":"An insomniac.","release_date":"1999-10-15","genres":[{"id":18,"name":"Drama"}],"poster_path":"/fc.jpg"}`)
	case "/movie/550/credits":
		io.WriteString(w, `{"crew":[{"name":"David Fincher","job":"Director"}]}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"status_message":"not found"}`)
	}
}

// doJSON performs a request with an optional JSON body and bearer token.
func (ts *testServer) doJSON(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.server.ServeHTTP(rec, req)
	return rec
}

// envelope mirrors the response wrapper for decoding in assertions.
type envelope struct {
	Data    jsontext.Value `json:"data"`
	Error   string         `json:"error"`
	Success bool           `json:"success"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

// signupAndBootstrap registers a user over HTTP and returns the access token.
func (ts *testServer) signupAndBootstrap(t *testing.T, email, username string) string {
	t.Helper()

	rec := ts.doJSON(t, http.MethodPost, "/api/v1/auth/signup", map[string]string{
		"email":        email,
		"password":     "correct horse battery staple",
		"username":     username,
		"display_name": "Test User",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var authResp struct {
		AccessToken string `json:"access_token"`
	}
	env := decodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(env.Data, &authResp))
	require.NotEmpty(t, authResp.AccessToken)

	boot := ts.doJSON(t, http.MethodPost, "/api/v1/profile/bootstrap", nil, authResp.AccessToken)
	require.Equal(t, http.StatusOK, boot.Code, boot.Body.String())

	return authResp.AccessToken
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.doJSON(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestSignupLoginFlow(t *testing.T) {
	ts := newTestServer(t)

	token := ts.signupAndBootstrap(t, "alice@example.com", "alice")

	// The token works against a protected endpoint.
	rec := ts.doJSON(t, http.MethodGet, "/api/v1/profile", nil, token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"alice"`)

	// Login with the same credentials.
	rec = ts.doJSON(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "correct horse battery staple",
	}, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	// Wrong password is a 401.
	rec = ts.doJSON(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "nope nope nope",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedEndpointsRejectMissingToken(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{
		"/api/v1/profile",
		"/api/v1/collection",
		"/api/v1/reviews",
		"/api/v1/recommendations",
	} {
		rec := ts.doJSON(t, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestResolveIdentifier(t *testing.T) {
	ts := newTestServer(t)
	ts.signupAndBootstrap(t, "alice@example.com", "alice")

	rec := ts.doJSON(t, http.MethodPost, "/api/v1/auth/resolve", map[string]string{
		"identifier": "alice",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice@example.com")

	// Unknown usernames resolve to empty, not an error.
	rec = ts.doJSON(t, http.MethodPost, "/api/v1/auth/resolve", map[string]string{
		"identifier": "ghost",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":""`)
}

func TestCollectionLifecycle(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signupAndBootstrap(t, "alice@example.com", "alice")

	rec := ts.doJSON(t, http.MethodPost, "/api/v1/collection", map[string]any{
		"tmdb_id":    550,
		"media_type": "movie",
		"status":     "wishlist",
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var item struct {
		ID string `json:"id"`
	}
	env := decodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(env.Data, &item))

	// Duplicate add conflicts.
	rec = ts.doJSON(t, http.MethodPost, "/api/v1/collection", map[string]any{
		"tmdb_id":    550,
		"media_type": "movie",
		"status":     "wishlist",
	}, token)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Patch status and attach a note.
	rec = ts.doJSON(t, http.MethodPatch, "/api/v1/collection/"+item.ID, map[string]any{
		"status": "completed",
		"note":   map[string]any{"rating": 5, "tags": []string{"rewatch"}},
	}, token)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.doJSON(t, http.MethodGet, "/api/v1/collection", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"completed"`)
	assert.Contains(t, rec.Body.String(), `"rewatch"`)

	// Delete, then the collection is empty.
	rec = ts.doJSON(t, http.MethodDelete, "/api/v1/collection/"+item.ID, nil, token)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestPublicProfileAndReviews(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signupAndBootstrap(t, "alice@example.com", "alice")

	rec := ts.doJSON(t, http.MethodPut, "/api/v1/reviews", map[string]any{
		"tmdb_id":    550,
		"media_type": "movie",
		"rating":     5,
		"text":       "still holds up",
	}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Anonymous readers see the public page and the title's reviews.
	rec = ts.doJSON(t, http.MethodGet, "/api/v1/users/alice", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "still holds up")

	rec = ts.doJSON(t, http.MethodGet, "/api/v1/titles/movie/550/reviews", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "still holds up")

	// Going private hides the page.
	rec = ts.doJSON(t, http.MethodPatch, "/api/v1/profile", map[string]any{
		"profile_public": false,
	}, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.doJSON(t, http.MethodGet, "/api/v1/users/alice", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.doJSON(t, http.MethodGet, "/api/v1/titles/movie/550/reviews", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "still holds up")
}

func TestCatalogEndpoints(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.doJSON(t, http.MethodGet, "/api/v1/catalog/search?q=fight+club&type=movie", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Fight Club")
	assert.Contains(t, rec.Body.String(), "Drama")

	rec = ts.doJSON(t, http.MethodGet, "/api/v1/catalog/movie/550", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Fight Club")

	rec = ts.doJSON(t, http.MethodGet, "/api/v1/catalog/movie/550/credits", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "David Fincher")

	// Missing query and unknown titles.
	rec = ts.doJSON(t, http.MethodGet, "/api/v1/catalog/search", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.doJSON(t, http.MethodGet, "/api/v1/catalog/movie/999999", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.doJSON(t, http.MethodGet, "/api/v1/catalog/book/550", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecommendationsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signupAndBootstrap(t, "alice@example.com", "alice")

	rec := ts.doJSON(t, http.MethodGet, "/api/v1/recommendations", nil, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"cached":false`)

	rec = ts.doJSON(t, http.MethodGet, "/api/v1/recommendations", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"cached":true`)

	// Burn the remaining window budget; the gate fires before the cache.
	for i := 0; i < 4; i++ {
		rec = ts.doJSON(t, http.MethodGet, "/api/v1/recommendations", nil, token)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec = ts.doJSON(t, http.MethodGet, "/api/v1/recommendations", nil, token)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
