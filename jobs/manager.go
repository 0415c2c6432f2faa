package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/devyboy/scraper-plus-plus/models"
	"github.com/devyboy/scraper-plus-plus/sheets"
	"github.com/devyboy/scraper-plus-plus/storage"
)

// Runner produces a job's listing batch or a terminal scrape error.
type Runner interface {
	Run(ctx context.Context, jobID, sourceURL string) ([]models.Listing, error)
}

// Syncer records novel listings at the job's destination.
type Syncer interface {
	Sync(ctx context.Context, ref string, batch []models.Listing, mode models.SyncMode) (*sheets.Result, error)
}

// Notifier reports a job's terminal state to its owner. Implementations
// are best-effort and must never return control-flow errors into the
// sweep.
type Notifier interface {
	JobSucceeded(job *models.Job, newCount int)
	JobFailed(job *models.Job, runErr error)
}

// Manager walks every active job through one scrape-and-sync cycle,
// persisting the status machine at each phase boundary:
// idle/success/failed -> running -> success|failed.
type Manager struct {
	store      storage.Store
	runner     Runner
	syncer     Syncer
	notifier   Notifier
	reschedule time.Duration
}

func NewManager(store storage.Store, runner Runner, syncer Syncer, notifier Notifier, reschedule time.Duration) *Manager {
	return &Manager{
		store:      store,
		runner:     runner,
		syncer:     syncer,
		notifier:   notifier,
		reschedule: reschedule,
	}
}

// Sweep runs every active job once, strictly sequentially. One job's
// failure never aborts the sweep; the returned error is non-nil only
// when the job store itself cannot be read.
func (m *Manager) Sweep(ctx context.Context) (*models.SweepStats, error) {
	active, err := m.store.ListActiveJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active jobs: %w", err)
	}

	stats := &models.SweepStats{}
	log.Printf("Sweep: %d active jobs", len(active))

	for i := range active {
		job := active[i]
		stats.JobsRun++

		newCount, seen, err := m.runJob(ctx, &job)
		stats.ListingsSeen += seen
		if err != nil {
			stats.Failed++
			log.Printf("[job:%s] failed: %v", job.ID, err)
			continue
		}
		stats.Succeeded++
		stats.RowsAdded += newCount
	}

	log.Printf("Sweep complete: %d run, %d succeeded, %d failed, %d rows added",
		stats.JobsRun, stats.Succeeded, stats.Failed, stats.RowsAdded)
	return stats, nil
}

// runJob drives one job through scrape, sync, and the terminal status
// write. The running status is persisted before any scraping work so a
// crash mid-run is externally observable.
func (m *Manager) runJob(ctx context.Context, job *models.Job) (newCount, seen int, err error) {
	runStart := time.Now()

	if err := m.store.SetStatus(ctx, job.ID, models.JobStatusRunning); err != nil {
		return 0, 0, fmt.Errorf("mark running: %w", err)
	}
	job.Status = models.JobStatusRunning
	log.Printf("[job:%s] running (%s)", job.ID, job.SourceURL)

	batch, runErr := m.runner.Run(ctx, job.ID, job.SourceURL)
	if runErr == nil {
		seen = len(batch)
		var res *sheets.Result
		res, runErr = m.syncer.Sync(ctx, job.SheetRef, batch, job.SyncMode)
		if runErr == nil {
			newCount = res.NewCount
			m.persistSheetRef(ctx, job, res.SheetID)
		}
	}

	if runErr != nil {
		// Failure leaves last_run/next_run untouched.
		if err := m.store.SetStatus(ctx, job.ID, models.JobStatusFailed); err != nil {
			log.Printf("Warning: could not mark job %s failed: %v", job.ID, err)
		}
		job.Status = models.JobStatusFailed
		m.notifier.JobFailed(job, runErr)
		return 0, seen, runErr
	}

	now := time.Now()
	nextRun := runStart.Add(m.reschedule)
	if err := m.store.CompleteRun(ctx, job.ID, now, nextRun); err != nil {
		log.Printf("Warning: could not persist run completion for %s: %v", job.ID, err)
	}
	job.Status = models.JobStatusSuccess
	job.LastRun = &now
	job.NextRun = &nextRun

	log.Printf("[job:%s] success: %d listings, %d new rows, next run %s",
		job.ID, seen, newCount, nextRun.Format(time.RFC3339))
	m.notifier.JobSucceeded(job, newCount)
	return newCount, seen, nil
}

// persistSheetRef stores a destination minted during this run so later
// sweeps append to the same spreadsheet.
func (m *Manager) persistSheetRef(ctx context.Context, job *models.Job, sheetID string) {
	if sheetID == "" || sheets.SpreadsheetIDFromRef(job.SheetRef) == sheetID {
		return
	}
	if err := m.store.UpdateSheetRef(ctx, job.ID, sheetID); err != nil {
		log.Printf("Warning: could not persist sheet ref for %s: %v", job.ID, err)
		return
	}
	job.SheetRef = sheetID
}
