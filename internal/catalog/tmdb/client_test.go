package tmdb

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/bingeboard/bingeboard-server/internal/domain"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	return NewClient("test-key", srv.URL, logger)
}

func TestSearch_NormalizesMoviesAndTV(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/genre/movie/list", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"genres":[{"id":18,"name":"Drama"},{"id":53,"name":"Thriller"}]}`))
	})
	mux.HandleFunc("/genre/tv/list", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"genres":[{"id":10765,"name":"Sci-Fi & Fantasy"}]}`))
	})
	mux.HandleFunc("/search/movie", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization: got %q", got)
		}
		w.Write([]byte(`{"results":[{
			"id":550,"title":"Fight Club","overview":"An insomniac...",
			"release_date":"1999-10-15","poster_path":"/fc.jpg","genre_ids":[18,53,99]
		}]}`))
	})
	mux.HandleFunc("/search/tv", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{
			"id":1396,"name":"Severance","overview":"Office workers...",
			"first_air_date":"2022-02-18","poster_path":"/sv.jpg","genre_ids":[10765]
		}]}`))
	})

	c := newTestClient(t, mux)
	results, err := c.Search(context.Background(), SearchParams{Query: "test"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	movie := results[0]
	if movie.MediaType != domain.MediaTypeMovie {
		t.Errorf("MediaType: got %q, want movie", movie.MediaType)
	}
	if movie.Title != "Fight Club" {
		t.Errorf("Title: got %q", movie.Title)
	}
	if movie.ReleaseDate != "1999-10-15" {
		t.Errorf("ReleaseDate: got %q", movie.ReleaseDate)
	}
	if movie.Year != "1999" {
		t.Errorf("Year: got %q, want 1999", movie.Year)
	}
	// Unknown genre id 99 is dropped.
	if len(movie.Genres) != 2 || movie.Genres[0] != "Drama" || movie.Genres[1] != "Thriller" {
		t.Errorf("Genres: got %v", movie.Genres)
	}

	// Series field names are normalized into the same shape.
	tv := results[1]
	if tv.MediaType != domain.MediaTypeTV {
		t.Errorf("MediaType: got %q, want tv", tv.MediaType)
	}
	if tv.Title != "Severance" {
		t.Errorf("Title: got %q", tv.Title)
	}
	if tv.Year != "2022" {
		t.Errorf("Year: got %q, want 2022", tv.Year)
	}
}

func TestSearch_MediaTypeFilter(t *testing.T) {
	var tvCalled atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("/genre/movie/list", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"genres":[]}`))
	})
	mux.HandleFunc("/search/movie", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("primary_release_year"); got != "1999" {
			t.Errorf("primary_release_year: got %q", got)
		}
		w.Write([]byte(`{"results":[]}`))
	})
	mux.HandleFunc("/search/tv", func(w http.ResponseWriter, r *http.Request) {
		tvCalled.Store(true)
		w.Write([]byte(`{"results":[]}`))
	})

	c := newTestClient(t, mux)
	_, err := c.Search(context.Background(), SearchParams{
		Query:     "test",
		MediaType: domain.MediaTypeMovie,
		Year:      "1999",
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if tvCalled.Load() {
		t.Error("tv search called despite movie filter")
	}
}

func TestGenreNames_FetchedOnce(t *testing.T) {
	var genreCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/genre/movie/list", func(w http.ResponseWriter, r *http.Request) {
		genreCalls.Add(1)
		w.Write([]byte(`{"genres":[{"id":18,"name":"Drama"}]}`))
	})
	mux.HandleFunc("/search/movie", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	})

	c := newTestClient(t, mux)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := c.Search(ctx, SearchParams{Query: "x", MediaType: domain.MediaTypeMovie}); err != nil {
			t.Fatalf("Search %d: %v", i, err)
		}
	}
	if n := genreCalls.Load(); n != 1 {
		t.Errorf("genre list fetched %d times, want 1", n)
	}
}

func TestCreator_MovieDirector(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/550/credits", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"crew":[
			{"id":1,"name":"Someone Else","job":"Producer"},
			{"id":2,"name":"David Fincher","job":"Director"},
			{"id":3,"name":"Second Unit","job":"Director"}
		]}`))
	})

	c := newTestClient(t, mux)
	creator, err := c.Creator(context.Background(), 550, domain.MediaTypeMovie)
	if err != nil {
		t.Fatalf("Creator: %v", err)
	}
	// First Director in crew order wins.
	if creator != "David Fincher" {
		t.Errorf("creator: got %q, want David Fincher", creator)
	}
}

func TestCreator_TVCreatedBy(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tv/1396", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":1396,"name":"Severance","created_by":[
			{"id":1,"name":"Dan Erickson"},{"id":2,"name":"Ben Stiller"}
		]}`))
	})

	c := newTestClient(t, mux)
	creator, err := c.Creator(context.Background(), 1396, domain.MediaTypeTV)
	if err != nil {
		t.Fatalf("Creator: %v", err)
	}
	if creator != "Dan Erickson, Ben Stiller" {
		t.Errorf("creator: got %q", creator)
	}
}

func TestDetails_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status_message":"not found"}`, http.StatusNotFound)
	})

	c := newTestClient(t, mux)
	_, err := c.Details(context.Background(), 999999, domain.MediaTypeMovie)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDetails_UsesEmbeddedGenres(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/movie/550", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"id":550,"title":"Fight Club","overview":"...",
			"release_date":"1999-10-15",
			"genres":[{"id":18,"name":"Drama"}]
		}`))
	})

	c := newTestClient(t, mux)
	item, err := c.Details(context.Background(), 550, domain.MediaTypeMovie)
	if err != nil {
		t.Fatalf("Details: %v", err)
	}
	if len(item.Genres) != 1 || item.Genres[0] != "Drama" {
		t.Errorf("Genres: got %v", item.Genres)
	}
}
