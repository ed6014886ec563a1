// Package sqlite provides a SQLite-backed implementation of the batch
// repository port.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/soundprint-labs/soundprint/internal/core/domain"
	"github.com/soundprint-labs/soundprint/internal/core/ports"
)

// Adapter implements the repository port for SQLite
type Adapter struct {
	db *sql.DB
}

// compile-time interface assertion
var _ ports.BatchRepository = (*Adapter)(nil)

// NewAdapter creates a connection and runs the schema migration
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}

	// Auto-migrate on startup for local dev
	if err := adapter.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully
func (a *Adapter) Close() error {
	return a.db.Close()
}

// SaveBatch inserts a freshly submitted batch.
func (a *Adapter) SaveBatch(ctx context.Context, b domain.Batch) error {
	songs, err := json.Marshal(b.Songs)
	if err != nil {
		return fmt.Errorf("failed to encode batch songs: %w", err)
	}

	query := `
		INSERT INTO batches (id, status, songs, processed_count, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status=excluded.status,
			songs=excluded.songs,
			processed_count=excluded.processed_count;
	`
	if _, err := a.db.ExecContext(ctx, query, b.ID, string(b.Status), string(songs), b.ProcessedCount, b.CreatedAt); err != nil {
		return fmt.Errorf("failed to save batch: %w", err)
	}
	return nil
}

// GetBatch loads a batch with its songs and, when present, its profile.
func (a *Adapter) GetBatch(ctx context.Context, id string) (domain.Batch, error) {
	row := a.db.QueryRowContext(ctx, `
		SELECT id, status, songs, processed_count, profile, error, created_at, completed_at
		FROM batches WHERE id = ?
	`, id)

	var (
		batch       domain.Batch
		status      string
		songs       string
		profile     sql.NullString
		failReason  sql.NullString
		completedAt sql.NullTime
	)
	if err := row.Scan(&batch.ID, &status, &songs, &batch.ProcessedCount, &profile, &failReason, &batch.CreatedAt, &completedAt); err != nil {
		if err == sql.ErrNoRows {
			return domain.Batch{}, domain.ErrNotFound
		}
		return domain.Batch{}, fmt.Errorf("failed to load batch: %w", err)
	}
	batch.Status = domain.BatchStatus(status)

	if err := json.Unmarshal([]byte(songs), &batch.Songs); err != nil {
		return domain.Batch{}, fmt.Errorf("failed to decode batch songs: %w", err)
	}
	if profile.Valid && profile.String != "" {
		var p domain.AggregateProfile
		if err := json.Unmarshal([]byte(profile.String), &p); err != nil {
			return domain.Batch{}, fmt.Errorf("failed to decode batch profile: %w", err)
		}
		batch.Profile = &p
	}
	if failReason.Valid {
		batch.Error = failReason.String
	}
	if completedAt.Valid {
		t := completedAt.Time
		batch.CompletedAt = &t
	}

	return batch, nil
}

// MarkProcessing flips a pending batch to processing.
func (a *Adapter) MarkProcessing(ctx context.Context, id string) error {
	return a.setStatus(ctx, id, domain.BatchProcessing)
}

// CompleteBatch stores the pipeline result and marks the batch complete.
func (a *Adapter) CompleteBatch(ctx context.Context, id string, result domain.PipelineResult) error {
	profile, err := json.Marshal(result.Features)
	if err != nil {
		return fmt.Errorf("failed to encode batch profile: %w", err)
	}

	res, err := a.db.ExecContext(ctx, `
		UPDATE batches
		SET status = ?, processed_count = ?, profile = ?, completed_at = ?
		WHERE id = ?
	`, string(domain.BatchComplete), result.ProcessedCount, string(profile), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to complete batch: %w", err)
	}
	return requireRow(res)
}

// FailBatch records a batch-level failure reason.
func (a *Adapter) FailBatch(ctx context.Context, id string, reason string) error {
	res, err := a.db.ExecContext(ctx, `
		UPDATE batches
		SET status = ?, error = ?, completed_at = ?
		WHERE id = ?
	`, string(domain.BatchFailed), reason, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark batch failed: %w", err)
	}
	return requireRow(res)
}

func (a *Adapter) setStatus(ctx context.Context, id string, status domain.BatchStatus) error {
	res, err := a.db.ExecContext(ctx, "UPDATE batches SET status = ? WHERE id = ?", string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update batch status: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS batches (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		songs TEXT NOT NULL,
		processed_count INTEGER NOT NULL DEFAULT 0,
		profile TEXT,
		error TEXT,
		created_at DATETIME NOT NULL,
		completed_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_batches_status ON batches(status);
	`
	if _, err := a.db.Exec(query); err != nil {
		return err
	}
	return nil
}
