package tmdb

import (
	"github.com/bingeboard/bingeboard-server/internal/domain"
)

// Raw API response types (internal)

// rawMovie covers both search results (genre_ids) and detail responses
// (full genre objects).
type rawMovie struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Overview    string     `json:"overview"`
	ReleaseDate string     `json:"release_date"`
	PosterPath  string     `json:"poster_path"`
	GenreIDs    []int64    `json:"genre_ids"`
	Genres      []rawGenre `json:"genres"`
}

// rawTV uses the series naming the API returns: name instead of title,
// first_air_date instead of release_date.
type rawTV struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Overview     string      `json:"overview"`
	FirstAirDate string      `json:"first_air_date"`
	PosterPath   string      `json:"poster_path"`
	GenreIDs     []int64     `json:"genre_ids"`
	Genres       []rawGenre  `json:"genres"`
	CreatedBy    []rawPerson `json:"created_by"`
}

type rawGenre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type rawPerson struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Job  string `json:"job"`
}

type rawCredits struct {
	Crew []rawPerson `json:"crew"`
}

// yearFromDate returns the leading year of a YYYY-MM-DD date, or "" when the
// catalog lists no date.
func yearFromDate(date string) string {
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}

// normalizeMovie flattens a raw movie into the shared media item shape.
// genreNames resolves genre IDs for search results; detail responses carry
// full genre objects and skip the lookup.
func normalizeMovie(m *rawMovie, genreNames map[int64]string) domain.NormalizedMediaItem {
	return domain.NormalizedMediaItem{
		TMDBID:      m.ID,
		MediaType:   domain.MediaTypeMovie,
		Title:       m.Title,
		Overview:    m.Overview,
		ReleaseDate: m.ReleaseDate,
		Year:        yearFromDate(m.ReleaseDate),
		Genres:      resolveGenres(m.GenreIDs, m.Genres, genreNames),
		PosterPath:  m.PosterPath,
	}
}

// normalizeTV flattens a raw series into the shared media item shape.
func normalizeTV(tv *rawTV, genreNames map[int64]string) domain.NormalizedMediaItem {
	return domain.NormalizedMediaItem{
		TMDBID:      tv.ID,
		MediaType:   domain.MediaTypeTV,
		Title:       tv.Name,
		Overview:    tv.Overview,
		ReleaseDate: tv.FirstAirDate,
		Year:        yearFromDate(tv.FirstAirDate),
		Genres:      resolveGenres(tv.GenreIDs, tv.Genres, genreNames),
		PosterPath:  tv.PosterPath,
	}
}

// resolveGenres prefers embedded genre objects, falling back to the cached
// id-to-name table for search results. Unknown IDs are dropped.
func resolveGenres(ids []int64, embedded []rawGenre, names map[int64]string) []string {
	if len(embedded) > 0 {
		genres := make([]string, 0, len(embedded))
		for _, g := range embedded {
			genres = append(genres, g.Name)
		}
		return genres
	}

	genres := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := names[id]; ok {
			genres = append(genres, name)
		}
	}
	return genres
}
