package domain

// MediaType identifies which half of the catalog a title belongs to.
type MediaType string

const (
	// MediaTypeMovie is a feature film.
	MediaTypeMovie MediaType = "movie"
	// MediaTypeTV is a television series.
	MediaTypeTV MediaType = "tv"
)

// Valid reports whether the media type is one of the supported values.
func (m MediaType) Valid() bool {
	return m == MediaTypeMovie || m == MediaTypeTV
}

// ParseMediaType converts a string to a MediaType, reporting validity.
func ParseMediaType(s string) (MediaType, bool) {
	m := MediaType(s)
	return m, m.Valid()
}

// NormalizedMediaItem is the single shape both catalog media types are
// flattened into. Movies and series use different upstream field names for
// title and release date; normalization hides that from everything above
// the catalog client. It is derived data and never persisted.
type NormalizedMediaItem struct {
	TMDBID      int64     `json:"tmdb_id"`
	MediaType   MediaType `json:"media_type"`
	Title       string    `json:"title"`
	Overview    string    `json:"overview"`
	ReleaseDate string    `json:"release_date,omitempty"`
	// Year is the first four characters of the release date, empty when the
	// catalog lists no date.
	Year       string   `json:"year,omitempty"`
	Genres     []string `json:"genres"`
	PosterPath string   `json:"poster_path,omitempty"`
	// Creator is resolved separately via the credits endpoint: the director
	// for movies, the comma-joined creator list for series.
	Creator string `json:"creator,omitempty"`
}
