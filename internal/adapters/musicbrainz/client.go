// Package musicbrainz resolves (artist, title) song references to canonical
// recording ids through the MusicBrainz text search API.
//
// The external service enforces a strict request budget, so every call — the
// first attempt and every retry alike — first waits on a shared rate limiter.
// Transient failures (429, 5xx, transport errors, timeouts) are retried with
// an increasing backoff up to a small fixed attempt bound; an empty result set
// is a definitive miss and is never retried.
package musicbrainz

import (
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/soundprint-labs/soundprint/internal/core/ports"
	"github.com/soundprint-labs/soundprint/internal/logger"
)

const defaultBaseURL = "https://musicbrainz.org"

// userAgent identifies the service to MusicBrainz, which requires one.
const userAgent = "soundprint/1.0 (+https://github.com/soundprint-labs/soundprint)"

// Config names the resolver's retry and rate policy so it is testable
// independently of the client.
type Config struct {
	// MaxAttempts bounds how many times one resolution may hit the network,
	// counting the first attempt.
	MaxAttempts int
	// RateFloor is the minimum spacing between calls, applied before every
	// attempt including retries.
	RateFloor time.Duration
	// PerCallTimeout aborts a single in-flight call; the abort counts as a
	// failed attempt.
	PerCallTimeout time.Duration
	// InitialBackoff seeds the (strictly increasing) retry schedule.
	InitialBackoff time.Duration
}

// DefaultConfig returns the production policy.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    3,
		RateFloor:      time.Second,
		PerCallTimeout: 10 * time.Second,
		InitialBackoff: 2 * time.Second,
	}
}

// Client is an HTTP client for the MusicBrainz search API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	cfg        Config
	log        *logrus.Entry
}

// compile-time interface assertion
var _ ports.RecordingResolver = (*Client)(nil)

// NewClient constructs a Client. The limiter is owned by the client, so all
// resolutions issued through it share one request budget regardless of how
// many batches are in flight.
func NewClient(baseURL string, cfg Config) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if cfg.MaxAttempts < 1 {
		cfg = DefaultConfig()
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.PerCallTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		limiter:    rate.NewLimiter(rate.Every(cfg.RateFloor), 1),
		cfg:        cfg,
		log:        logger.New().WithField("module", "musicbrainz"),
	}
}
