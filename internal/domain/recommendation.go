package domain

// Recommendation is one AI-suggested title. The model is asked for exactly
// five of these per request.
type Recommendation struct {
	TMDBID    int64     `json:"tmdb_id"`
	MediaType MediaType `json:"media_type"`
	Reason    string    `json:"reason"`
}

// TasteSignal is the reduced collection entry fed to the recommendation
// prompt. Notes, reviews and overrides are deliberately excluded.
type TasteSignal struct {
	TMDBID    int64            `json:"tmdb_id"`
	MediaType MediaType        `json:"media_type"`
	Status    CollectionStatus `json:"status"`
}
