package domain

import "time"

// BatchStatus tracks a submitted batch through its lifecycle.
type BatchStatus string

const (
	BatchPending    BatchStatus = "pending"
	BatchProcessing BatchStatus = "processing"
	BatchComplete   BatchStatus = "complete"
	BatchFailed     BatchStatus = "failed"
)

// Batch is one submitted song list plus whatever the pipeline has produced
// for it so far. Profile stays nil until the batch completes.
type Batch struct {
	ID             string            `json:"id"`
	Status         BatchStatus       `json:"status"`
	Songs          []SongRef         `json:"songs"`
	ProcessedCount int               `json:"processed_count"`
	Profile        *AggregateProfile `json:"profile,omitempty"`
	Error          string            `json:"error,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	CompletedAt    *time.Time        `json:"completed_at,omitempty"`
}
