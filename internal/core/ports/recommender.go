package ports

import (
	"context"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
)

// Recommender turns an aggregate sonic profile plus the user's known songs and
// taste history into a small set of playlist suggestions. Its output is opaque
// text from a generative model; callers do not validate it beyond shape.
type Recommender interface {
	Recommend(ctx context.Context, profile domain.AggregateProfile, known []domain.SongRef, history domain.TasteHistory) ([]domain.Suggestion, error)
}
