package ports

import (
	"context"
	"errors"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
)

// ErrNotFound indicates the external service has no record for the requested
// id — an expected outcome, distinct from a transport failure.
var ErrNotFound = errors.New("not found")

// FeatureStore fetches the raw low-level feature document for a recording.
// A single attempt, no retry: a miss here is common and expected.
type FeatureStore interface {
	GetFeatures(ctx context.Context, recordingID string) (domain.RawFeatureDocument, error)
}
