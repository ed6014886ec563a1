// Package youtube maps free-text search queries to playable video ids via the
// YouTube Data API. The suggestion flow treats its output as a black box:
// whatever ranks first in the music category wins, and absence just means "no
// playable match".
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/soundprint-labs/soundprint/internal/core/ports"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

// musicCategoryID narrows search to YouTube's music category.
const musicCategoryID = "10"

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// compile-time interface assertion
var _ ports.MediaFinder = (*Client)(nil)

func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

// FindMedia returns the first video id matching the query, or ports.ErrNotFound
// when the search comes back empty.
func (c *Client) FindMedia(ctx context.Context, query string) (string, error) {
	endpoint, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return "", fmt.Errorf("youtube: invalid search url: %w", err)
	}
	params := endpoint.Query()
	params.Set("part", "id")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("maxResults", "1")
	params.Set("videoCategoryId", musicCategoryID)
	params.Set("order", "relevance")
	params.Set("key", c.apiKey)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", fmt.Errorf("youtube: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("youtube: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("youtube: search status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("youtube: decode response: %w", err)
	}

	if len(body.Items) == 0 || body.Items[0].ID.VideoID == "" {
		return "", fmt.Errorf("youtube: query %q: %w", query, ports.ErrNotFound)
	}
	return body.Items[0].ID.VideoID, nil
}
