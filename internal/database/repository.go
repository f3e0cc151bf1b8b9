package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/videoforge/videoforge/internal/jobs"
	"github.com/videoforge/videoforge/pkg/models"
)

// Repository provides database operations for render jobs. It satisfies
// jobs.Store.
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new job record
func (r *Repository) Create(ctx context.Context, job *models.Job) error {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}

	query := `
		INSERT INTO jobs (id, topic, status, progress, message, worker_id, config)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		job.ID, job.Topic, job.Status, job.Progress, job.Message, job.WorkerID, job.Config,
	).Scan(&job.CreatedAt, &job.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

// Get retrieves a job by ID
func (r *Repository) Get(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job

	query := `
		SELECT id, topic, status, progress, message, error_msg, output_path,
		       worker_id, started_at, completed_at, created_at, updated_at, config
		FROM jobs
		WHERE id = $1
	`

	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&job.ID, &job.Topic, &job.Status, &job.Progress, &job.Message,
		&job.ErrorMsg, &job.OutputPath, &job.WorkerID, &job.StartedAt,
		&job.CompletedAt, &job.CreatedAt, &job.UpdatedAt, &job.Config,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, jobs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return &job, nil
}

// Update updates a job record
func (r *Repository) Update(ctx context.Context, job *models.Job) error {
	query := `
		UPDATE jobs
		SET status = $2, progress = $3, message = $4, error_msg = $5,
		    output_path = $6, worker_id = $7, started_at = $8, completed_at = $9,
		    config = $10, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		job.ID, job.Status, job.Progress, job.Message, job.ErrorMsg,
		job.OutputPath, job.WorkerID, job.StartedAt, job.CompletedAt, job.Config,
	)

	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return jobs.ErrNotFound
	}

	return nil
}

// List retrieves jobs with pagination, newest first
func (r *Repository) List(ctx context.Context, limit, offset int) ([]*models.Job, error) {
	query := `
		SELECT id, topic, status, progress, message, error_msg, output_path,
		       worker_id, started_at, completed_at, created_at, updated_at, config
		FROM jobs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var result []*models.Job
	for rows.Next() {
		var job models.Job
		err := rows.Scan(
			&job.ID, &job.Topic, &job.Status, &job.Progress, &job.Message,
			&job.ErrorMsg, &job.OutputPath, &job.WorkerID, &job.StartedAt,
			&job.CompletedAt, &job.CreatedAt, &job.UpdatedAt, &job.Config,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		result = append(result, &job)
	}

	return result, nil
}

// SetProgress updates only the progress fields, cheap enough to call on
// every pipeline milestone
func (r *Repository) SetProgress(ctx context.Context, id string, progress int, message string) error {
	query := `
		UPDATE jobs
		SET progress = $2, message = $3, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Pool.Exec(ctx, query, id, progress, message)
	if err != nil {
		return fmt.Errorf("failed to set progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return jobs.ErrNotFound
	}

	return nil
}

// Health reports whether the underlying database is reachable.
func (r *Repository) Health(ctx context.Context) error {
	return r.db.Health(ctx)
}
