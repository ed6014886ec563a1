// Package acousticbrainz fetches raw low-level feature documents for resolved
// recordings.
//
// Unlike the resolver, a fetch is a single fire-and-forget attempt: a missing
// document just means "no features for this recording", which is a common and
// expected outcome rather than a transient fault worth retrying.
package acousticbrainz

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
	"github.com/soundprint-labs/soundprint/internal/core/ports"
)

const defaultBaseURL = "https://acousticbrainz.org"

// Client is an HTTP client for the feature store.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// compile-time interface assertion
var _ ports.FeatureStore = (*Client)(nil)

// NewClient constructs a Client. The timeout bounds each call the same way
// the resolver's per-call deadline does.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// GetFeatures fetches the low-level document for one recording id. A 404 maps
// to ports.ErrNotFound; any other failure is returned as-is. Either way the
// caller treats the song as contributing nothing.
func (c *Client) GetFeatures(ctx context.Context, recordingID string) (domain.RawFeatureDocument, error) {
	url := fmt.Sprintf("%s/api/v1/%s/low-level", c.baseURL, recordingID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.RawFeatureDocument{}, fmt.Errorf("acousticbrainz: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.RawFeatureDocument{}, fmt.Errorf("acousticbrainz: request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusNotFound:
		return domain.RawFeatureDocument{}, fmt.Errorf("acousticbrainz: recording %s: %w", recordingID, ports.ErrNotFound)
	default:
		return domain.RawFeatureDocument{}, fmt.Errorf("acousticbrainz: status %d", resp.StatusCode)
	}

	var doc domain.RawFeatureDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return domain.RawFeatureDocument{}, fmt.Errorf("acousticbrainz: decode document: %w", err)
	}
	return doc, nil
}
