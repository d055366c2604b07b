// Package recommend generates AI title recommendations from a user's collection.
package recommend

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/bingeboard/bingeboard-server/internal/domain"
)

const (
	defaultTimeout = 60 * time.Second

	// Low-ish temperature keeps the model on well-known titles with real
	// catalog IDs instead of inventing ones.
	modelTemperature = 0.5

	systemPrompt = "You are a movie and TV recommendation engine. " +
		"Respond only with valid JSON matching the requested schema. " +
		"Recommend well-known titles and use their real TMDB numeric IDs."
)

// Client calls a chat-completions API to generate recommendations.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	apiKey     string
	model      string
	baseURL    string
}

// NewClient creates a recommendation client. An empty apiKey disables
// generation: every call returns an empty list without a network request.
func NewClient(apiKey, model, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger:  logger,
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
	}
}

// Enabled reports whether the client has credentials to generate with.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// chat completions wire types

type chatRequest struct {
	Model          string        `json:"model"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *chatRespFmt  `json:"response_format,omitempty"`
	Messages       []chatMessage `json:"messages"`
}

type chatRespFmt struct {
	Type string `json:"type"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type recommendationPayload struct {
	Recommendations []domain.Recommendation `json:"recommendations"`
}

// Generate asks the model for exactly five recommendations based on the
// user's taste signals. Upstream refusals and malformed model output degrade
// to an empty list, not an error; only transport failures propagate.
func (c *Client) Generate(ctx context.Context, signals []domain.TasteSignal) ([]domain.Recommendation, error) {
	if !c.Enabled() {
		return []domain.Recommendation{}, nil
	}

	prompt, err := buildPrompt(signals)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	reqBody := chatRequest{
		Model:          c.model,
		Temperature:    modelTemperature,
		ResponseFormat: &chatRespFmt{Type: "json_object"},
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("recommendation upstream refused",
			"status", resp.StatusCode,
		)
		return []domain.Recommendation{}, nil
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil || len(chatResp.Choices) == 0 {
		c.logger.Warn("recommendation response unparseable")
		return []domain.Recommendation{}, nil
	}

	var parsed recommendationPayload
	if err := json.Unmarshal([]byte(chatResp.Choices[0].Message.Content), &parsed); err != nil {
		c.logger.Warn("recommendation content unparseable")
		return []domain.Recommendation{}, nil
	}

	// Drop entries the model mangled rather than failing the whole set.
	recs := make([]domain.Recommendation, 0, len(parsed.Recommendations))
	for _, rec := range parsed.Recommendations {
		if rec.TMDBID <= 0 || !rec.MediaType.Valid() {
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// buildPrompt renders the user's taste signals into the generation request.
// Only the compact {tmdb_id, media_type, status} triples go to the model.
func buildPrompt(signals []domain.TasteSignal) (string, error) {
	if signals == nil {
		signals = []domain.TasteSignal{}
	}
	encoded, err := json.Marshal(signals)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(
		"Here is a user's media collection as JSON: %s\n"+
			"Each entry has a TMDB id, a media type (movie or tv) and a watch status "+
			"(wishlist, currently_watching or completed).\n"+
			"Recommend exactly 5 titles the user does not already have. "+
			"Respond with JSON of the form "+
			`{"recommendations":[{"tmdb_id":number,"media_type":"movie"|"tv","reason":string}]}.`,
		string(encoded),
	), nil
}
