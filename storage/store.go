package storage

import (
	"context"
	"time"

	"github.com/devyboy/scraper-plus-plus/models"
)

// Store is the job record collection. Jobs are created externally (or
// seeded from configuration); the pipeline only reads active jobs and
// updates status and scheduling fields.
type Store interface {
	ListActiveJobs(ctx context.Context) ([]models.Job, error)
	GetJob(ctx context.Context, id string) (*models.Job, error)

	// SeedJob inserts the job if no record with its id exists yet.
	SeedJob(ctx context.Context, job *models.Job) error

	SetStatus(ctx context.Context, id string, status models.JobStatus) error

	// CompleteRun records a successful run: status, last_run and the
	// rescheduled next_run in one update.
	CompleteRun(ctx context.Context, id string, lastRun, nextRun time.Time) error

	// UpdateSheetRef persists a destination created during a run.
	UpdateSheetRef(ctx context.Context, id, sheetRef string) error

	Close() error
}
