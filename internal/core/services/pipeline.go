package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
	"github.com/soundprint-labs/soundprint/internal/core/ports"
	"github.com/soundprint-labs/soundprint/internal/logger"
	"github.com/soundprint-labs/soundprint/internal/stats"
)

// PipelineConfig names the batch-level policy constants so they are testable
// independently of the pipeline itself.
type PipelineConfig struct {
	// MaxBatchSize caps how many songs one batch may attempt. Songs past the
	// cap are silently ignored — a capacity limit, not an error.
	MaxBatchSize int
}

// DefaultPipelineConfig returns the production policy.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{MaxBatchSize: 500}
}

// Pipeline drives resolution and feature fetching for a whole batch, then
// folds the recovered documents into one aggregate profile.
//
// Songs are processed strictly sequentially, one outstanding lookup at a
// time. That is what keeps the service under the external API's request
// budget; do not parallelize this loop.
type Pipeline struct {
	resolver ports.RecordingResolver
	features ports.FeatureStore
	cfg      PipelineConfig
	log      *logger.Logger
}

// NewPipeline constructs a Pipeline.
func NewPipeline(resolver ports.RecordingResolver, features ports.FeatureStore, cfg PipelineConfig) *Pipeline {
	if cfg.MaxBatchSize < 1 {
		cfg = DefaultPipelineConfig()
	}
	return &Pipeline{
		resolver: resolver,
		features: features,
		cfg:      cfg,
		log:      logger.New(),
	}
}

// Process runs the full batch and returns the aggregate profile plus the
// number of songs attempted. Per-song failures never abort the batch: the
// worst outcome for any one song is contributing zero features. The returned
// profile is always fully populated — an all-miss batch yields zero values,
// not an absent result.
//
// The only error Process returns is domain.ErrInvalidSong for a song that
// violates the input contract, detected before any network traffic.
func (p *Pipeline) Process(ctx context.Context, songs []domain.SongRef) (domain.PipelineResult, error) {
	if len(songs) > p.cfg.MaxBatchSize {
		songs = songs[:p.cfg.MaxBatchSize]
	}
	for i, song := range songs {
		if err := song.Validate(); err != nil {
			return domain.PipelineResult{}, fmt.Errorf("pipeline: song %d: %w", i, err)
		}
	}

	docs := make([]domain.RawFeatureDocument, 0, len(songs))
	processed := 0

	for _, song := range songs {
		processed++
		songLog := p.log.WithField("artist", song.Artist).WithField("title", song.Title)

		recordingID, err := p.resolver.ResolveRecording(ctx, song)
		if err != nil {
			if errors.Is(err, ports.ErrNoMatch) {
				songLog.Debug("no recording match")
			} else {
				songLog.WithError(err).Warn("recording resolution failed")
			}
			continue
		}

		doc, err := p.features.GetFeatures(ctx, recordingID)
		if err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				songLog.WithField("recording_id", recordingID).Debug("no feature document")
			} else {
				songLog.WithError(err).Warn("feature fetch failed")
			}
			continue
		}

		docs = append(docs, doc)
	}

	p.log.WithField("processed", processed).
		WithField("documents", len(docs)).
		Info("batch pipeline finished")

	return domain.PipelineResult{
		Features:       stats.BuildProfile(docs),
		ProcessedCount: processed,
	}, nil
}
