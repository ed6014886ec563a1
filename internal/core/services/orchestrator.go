package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
	"github.com/soundprint-labs/soundprint/internal/core/ports"
	"github.com/soundprint-labs/soundprint/internal/logger"
)

// ErrBatchNotReady indicates a recommendation was requested for a batch whose
// pipeline run has not completed yet.
var ErrBatchNotReady = errors.New("service: batch not complete")

// Orchestrator coordinates batch submission, polling, and recommendation
// generation around the pipeline's output.
type Orchestrator struct {
	repo        ports.BatchRepository
	recommender ports.Recommender
	media       ports.MediaFinder
	log         *logger.Logger
}

// NewOrchestrator constructs an Orchestrator.
func NewOrchestrator(repo ports.BatchRepository, recommender ports.Recommender, media ports.MediaFinder) *Orchestrator {
	return &Orchestrator{
		repo:        repo,
		recommender: recommender,
		media:       media,
		log:         logger.New(),
	}
}

// SubmitBatch records a new pending batch and returns it. Actually running the
// pipeline happens off the request path; callers poll GetBatch for completion.
func (o *Orchestrator) SubmitBatch(ctx context.Context, songs []domain.SongRef) (domain.Batch, error) {
	for i, song := range songs {
		if err := song.Validate(); err != nil {
			return domain.Batch{}, fmt.Errorf("service: song %d: %w", i, err)
		}
	}

	batch := domain.Batch{
		ID:        uuid.NewString(),
		Status:    domain.BatchPending,
		Songs:     songs,
		CreatedAt: time.Now().UTC(),
	}
	if err := o.repo.SaveBatch(ctx, batch); err != nil {
		return domain.Batch{}, fmt.Errorf("service: failed to save batch: %w", err)
	}
	return batch, nil
}

// GetBatch loads a batch by id.
func (o *Orchestrator) GetBatch(ctx context.Context, id string) (domain.Batch, error) {
	if id == "" {
		return domain.Batch{}, errors.New("service: batch id cannot be empty")
	}
	batch, err := o.repo.GetBatch(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Batch{}, err
		}
		return domain.Batch{}, fmt.Errorf("service: failed to load batch: %w", err)
	}
	return batch, nil
}

// Recommend asks the generative recommender for suggestions based on a
// completed batch's profile, then matches each suggestion to a playable video.
// A failed media lookup leaves the suggestion's VideoID empty rather than
// failing the request; absence is data here, not an error.
func (o *Orchestrator) Recommend(ctx context.Context, batchID string, history domain.TasteHistory) ([]domain.Suggestion, error) {
	batch, err := o.GetBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if batch.Status != domain.BatchComplete || batch.Profile == nil {
		return nil, fmt.Errorf("%w: batch %s is %s", ErrBatchNotReady, batch.ID, batch.Status)
	}

	suggestions, err := o.recommender.Recommend(ctx, *batch.Profile, batch.Songs, history)
	if err != nil {
		return nil, fmt.Errorf("service: recommendation failed: %w", err)
	}

	for i := range suggestions {
		query := suggestions[i].SearchQuery
		if query == "" {
			query = suggestions[i].Artist + " " + suggestions[i].Title
		}
		videoID, err := o.media.FindMedia(ctx, query)
		if err != nil {
			o.log.WithField("query", query).WithError(err).Debug("no media match for suggestion")
			continue
		}
		suggestions[i].VideoID = videoID
	}

	return suggestions, nil
}
