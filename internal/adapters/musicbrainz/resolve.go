package musicbrainz

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
	"github.com/soundprint-labs/soundprint/internal/core/ports"
)

// ResolveRecording searches for a recording matching the song's artist and
// title and returns the id of the first candidate — the service ranks results
// by relevance, and we make no independent judgment.
//
// A successful search with zero results returns ports.ErrNoMatch immediately;
// transient failures are retried per the client's Config before the error is
// returned to the caller.
func (c *Client) ResolveRecording(ctx context.Context, song domain.SongRef) (string, error) {
	endpoint, err := url.Parse(c.baseURL + "/ws/2/recording")
	if err != nil {
		return "", fmt.Errorf("musicbrainz: invalid search url: %w", err)
	}
	query := endpoint.Query()
	query.Set("query", fmt.Sprintf("artist:%q AND recording:%q", song.Artist, song.Title))
	query.Set("fmt", "json")
	query.Set("limit", "5")
	endpoint.RawQuery = query.Encode()

	var body searchResponse
	attempt := 0

	op := func() error {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(fmt.Errorf("musicbrainz: rate wait: %w", err))
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("musicbrainz: build request: %w", err))
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("musicbrainz: search request: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			// fall through to decode
		case resp.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("musicbrainz: rate limited (429)")
		default:
			return fmt.Errorf("musicbrainz: search status %d", resp.StatusCode)
		}

		body = searchResponse{}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return fmt.Errorf("musicbrainz: search decode: %w", err)
		}
		return nil
	}

	notify := func(err error, next time.Duration) {
		c.log.WithField("artist", song.Artist).
			WithField("title", song.Title).
			WithField("attempt", attempt).
			WithField("retry_in", next.String()).
			WithError(err).
			Warn("recording search failed, retrying")
	}

	if err := backoff.RetryNotify(op, c.newBackOff(ctx), notify); err != nil {
		return "", fmt.Errorf("musicbrainz: resolution failed after %d attempts: %w", attempt, err)
	}

	if len(body.Recordings) == 0 {
		return "", ports.NoMatchError{Artist: song.Artist, Title: song.Title}
	}
	return body.Recordings[0].ID, nil
}

// newBackOff builds the per-resolution retry schedule: strictly increasing
// intervals (no jitter, so the schedule is deterministic and testable) capped
// at MaxAttempts total tries.
func (c *Client) newBackOff(ctx context.Context) backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.cfg.InitialBackoff
	bo.RandomizationFactor = 0
	bo.Multiplier = 2
	bo.MaxInterval = 30 * time.Second

	retries := uint64(0)
	if c.cfg.MaxAttempts > 1 {
		retries = uint64(c.cfg.MaxAttempts - 1)
	}
	return backoff.WithContext(backoff.WithMaxRetries(bo, retries), ctx)
}
