package ports

import (
	"context"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
)

// BatchRepository persists batches across the submit → process → poll cycle.
type BatchRepository interface {
	SaveBatch(ctx context.Context, b domain.Batch) error
	GetBatch(ctx context.Context, id string) (domain.Batch, error)
	MarkProcessing(ctx context.Context, id string) error
	CompleteBatch(ctx context.Context, id string, result domain.PipelineResult) error
	FailBatch(ctx context.Context, id string, reason string) error
}
