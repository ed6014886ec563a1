package worker

import (
	"context"
	"sync"
	"testing"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
	"github.com/soundprint-labs/soundprint/internal/core/ports"
	"github.com/soundprint-labs/soundprint/internal/core/services"
)

type stubResolver struct{}

func (stubResolver) ResolveRecording(ctx context.Context, song domain.SongRef) (string, error) {
	return "rec-" + song.Title, nil
}

type stubFeatureStore struct{}

func (stubFeatureStore) GetFeatures(ctx context.Context, id string) (domain.RawFeatureDocument, error) {
	bpm := 120.0
	return domain.RawFeatureDocument{Rhythm: &domain.RhythmSection{BPM: &bpm}}, nil
}

type recordingRepo struct {
	mu        sync.Mutex
	statuses  map[string]domain.BatchStatus
	completed map[string]domain.PipelineResult
	failures  map[string]string
}

var _ ports.BatchRepository = (*recordingRepo)(nil)

func newRecordingRepo() *recordingRepo {
	return &recordingRepo{
		statuses:  map[string]domain.BatchStatus{},
		completed: map[string]domain.PipelineResult{},
		failures:  map[string]string{},
	}
}

func (r *recordingRepo) SaveBatch(ctx context.Context, b domain.Batch) error { return nil }

func (r *recordingRepo) GetBatch(ctx context.Context, id string) (domain.Batch, error) {
	return domain.Batch{}, domain.ErrNotFound
}

func (r *recordingRepo) MarkProcessing(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses[id] = domain.BatchProcessing
	return nil
}

func (r *recordingRepo) CompleteBatch(ctx context.Context, id string, result domain.PipelineResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses[id] = domain.BatchComplete
	r.completed[id] = result
	return nil
}

func (r *recordingRepo) FailBatch(ctx context.Context, id string, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses[id] = domain.BatchFailed
	r.failures[id] = reason
	return nil
}

func newTestPipeline() *services.Pipeline {
	return services.NewPipeline(stubResolver{}, stubFeatureStore{}, services.DefaultPipelineConfig())
}

func TestPoolProcessesBatch(t *testing.T) {
	repo := newRecordingRepo()
	pool := NewPool(newTestPipeline(), repo, 10)
	pool.Start(1)

	err := pool.Submit(Job{
		BatchID: "b-1",
		Songs:   []domain.SongRef{{Artist: "A", Title: "x"}, {Artist: "B", Title: "y"}},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	pool.Stop() // drains the queue

	if repo.statuses["b-1"] != domain.BatchComplete {
		t.Fatalf("status = %s, want complete", repo.statuses["b-1"])
	}
	result := repo.completed["b-1"]
	if result.ProcessedCount != 2 {
		t.Errorf("processed = %d, want 2", result.ProcessedCount)
	}
	if result.Features.Tempo.Mean != 120 {
		t.Errorf("tempo mean = %v, want 120", result.Features.Tempo.Mean)
	}
}

func TestPoolMarksInvalidBatchFailed(t *testing.T) {
	repo := newRecordingRepo()
	pool := NewPool(newTestPipeline(), repo, 10)
	pool.Start(1)

	if err := pool.Submit(Job{BatchID: "b-2", Songs: []domain.SongRef{{Artist: "", Title: ""}}}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	pool.Stop()

	if repo.statuses["b-2"] != domain.BatchFailed {
		t.Fatalf("status = %s, want failed", repo.statuses["b-2"])
	}
	if repo.failures["b-2"] == "" {
		t.Error("failure reason not recorded")
	}
}

func TestPoolSubmitRejectsWhenFull(t *testing.T) {
	pool := NewPool(newTestPipeline(), newRecordingRepo(), 1)
	// workers never started, so the single slot fills and stays full

	if err := pool.Submit(Job{BatchID: "b-3"}); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if err := pool.Submit(Job{BatchID: "b-4"}); err != ErrQueueFull {
		t.Fatalf("second submit err = %v, want ErrQueueFull", err)
	}
}
