// Package worker provides background processing for batch pipeline jobs, so
// the submitting request can return immediately while callers poll for
// completion.
package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
	"github.com/soundprint-labs/soundprint/internal/core/ports"
	"github.com/soundprint-labs/soundprint/internal/core/services"
	"github.com/soundprint-labs/soundprint/internal/logger"
)

// ErrQueueFull indicates the job queue had no room; the batch stays pending
// and the client may resubmit.
var ErrQueueFull = errors.New("worker: job queue full")

// Job represents one submitted batch awaiting pipeline processing.
type Job struct {
	BatchID string
	Songs   []domain.SongRef
}

// Pool manages background workers for batch jobs. Each worker handles one
// batch end-to-end; inside a batch the pipeline stays strictly sequential,
// and the resolver's shared rate limiter keeps concurrent batches under the
// external request budget.
type Pool struct {
	pipeline *services.Pipeline
	repo     ports.BatchRepository
	jobs     chan Job
	wg       sync.WaitGroup
	log      *logger.Logger
}

// NewPool creates a worker pool with the given queue size.
func NewPool(pipeline *services.Pipeline, repo ports.BatchRepository, queueSize int) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Pool{
		pipeline: pipeline,
		repo:     repo,
		jobs:     make(chan Job, queueSize),
		log:      logger.New(),
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.processJob(job)
			}
		}()
	}
}

// Stop waits for workers to finish after closing the queue.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}

// Submit queues a job without blocking.
func (p *Pool) Submit(job Job) error {
	select {
	case p.jobs <- job:
		return nil
	default:
		p.log.WithField("batch_id", job.BatchID).Warn("dropping batch job, queue full")
		return ErrQueueFull
	}
}

func (p *Pool) processJob(job Job) {
	// Long batches are expected: hundreds of songs, each behind a ~1s rate
	// floor. The job carries no request deadline on purpose.
	ctx := context.Background()
	jobLog := p.log.WithField("batch_id", job.BatchID)

	if err := p.repo.MarkProcessing(ctx, job.BatchID); err != nil {
		jobLog.WithError(err).Error("failed to mark batch processing")
		return
	}

	result, err := p.pipeline.Process(ctx, job.Songs)
	if err != nil {
		jobLog.WithError(err).Warn("batch pipeline rejected input")
		if err := p.repo.FailBatch(ctx, job.BatchID, err.Error()); err != nil {
			jobLog.WithError(err).Error("failed to mark batch failed")
		}
		return
	}

	if err := p.repo.CompleteBatch(ctx, job.BatchID, result); err != nil {
		jobLog.WithError(err).Error("failed to store batch result")
		return
	}
	jobLog.WithField("processed", result.ProcessedCount).Info("batch complete")
}
