// Package jobs tracks render jobs from submission to completion.
package jobs

import (
	"context"
	"errors"

	"github.com/videoforge/videoforge/pkg/models"
)

// ErrNotFound is returned when a job ID is not known to the store.
var ErrNotFound = errors.New("job not found")

// Store persists render jobs. The API server and the workers share one
// store, so implementations must be safe for concurrent use.
type Store interface {
	Create(ctx context.Context, job *models.Job) error
	Get(ctx context.Context, id string) (*models.Job, error)
	Update(ctx context.Context, job *models.Job) error
	List(ctx context.Context, limit, offset int) ([]*models.Job, error)
	SetProgress(ctx context.Context, id string, progress int, message string) error
}
