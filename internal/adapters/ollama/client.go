// Package ollama provides an adapter for the Ollama LLM service.
// It implements playlist recommendation by sending a batch's aggregate sonic
// profile to a local Ollama instance and parsing the structured JSON response
// into domain Suggestions.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
	"github.com/soundprint-labs/soundprint/internal/core/ports"
)

const defaultBaseURL = "http://localhost:11434"

const defaultModel = "llama3.1:8b"

const systemPrompt = "You are a music curator. You receive a statistical 'sonic fingerprint' of a listener's song batch (tempo, MFCC, chroma, spectral summaries), the songs they already know, and their like/dislike history.\n\nRules:\nSuggest 7 to 10 songs the listener does not already know, stylistically coherent with the fingerprint.\nNever suggest a song from the known list or the disliked list.\nOutput: Return ONLY a valid JSON object of the form {\"suggestions\": [{\"artist\": string, \"title\": string, \"reason\": string, \"search_query\": string}]}. No conversational text.\nsearch_query should be the text a video search engine needs to find the song."

type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// compile-time interface assertion
var _ ports.Recommender = (*Client)(nil)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   string        `json:"format,omitempty"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Error   string      `json:"error,omitempty"`
}

// recommendationPrompt is the user-message payload the model receives.
type recommendationPrompt struct {
	Fingerprint domain.AggregateProfile `json:"fingerprint"`
	KnownSongs  []domain.SongRef        `json:"known_songs"`
	Liked       []domain.SongRef        `json:"liked"`
	Disliked    []domain.SongRef        `json:"disliked"`
}

type suggestionsEnvelope struct {
	Suggestions []domain.Suggestion `json:"suggestions"`
}

func NewClient(baseURL, model string) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	return &Client{
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Recommend sends the profile and listening context to the model and parses
// its JSON reply. The model's output is treated as opaque: suggestions are
// returned as given, with no relevance judgment on our side.
func (c *Client) Recommend(ctx context.Context, profile domain.AggregateProfile, known []domain.SongRef, history domain.TasteHistory) ([]domain.Suggestion, error) {
	promptBody, err := json.Marshal(recommendationPrompt{
		Fingerprint: profile,
		KnownSongs:  known,
		Liked:       history.Liked,
		Disliked:    history.Disliked,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama: marshal prompt: %w", err)
	}

	payload := chatRequest{
		Model:  c.model,
		Stream: false,
		Format: "json",
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: string(promptBody)},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("ollama: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ollama: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("ollama: unexpected status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("ollama: decode response: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("ollama: %s", parsed.Error)
	}

	if strings.TrimSpace(parsed.Message.Content) == "" {
		return nil, fmt.Errorf("ollama: empty response")
	}

	var envelope suggestionsEnvelope
	if err := json.Unmarshal([]byte(parsed.Message.Content), &envelope); err != nil {
		return nil, fmt.Errorf("ollama: decode suggestions: %w", err)
	}

	return envelope.Suggestions, nil
}
