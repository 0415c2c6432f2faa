package storage

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/devyboy/scraper-plus-plus/models"
)

// SQLiteStore is the default single-node job store.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		source_url TEXT NOT NULL,
		sheet_ref TEXT DEFAULT '',
		active BOOLEAN DEFAULT TRUE,
		status TEXT DEFAULT 'idle',
		sync_mode TEXT DEFAULT 'append_only',
		last_run DATETIME,
		next_run DATETIME,
		owner_email TEXT DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_jobs_active ON jobs(active) WHERE active;
	CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const jobColumns = `id, source_url, sheet_ref, active, status, sync_mode, last_run, next_run, owner_email, created_at, updated_at`

func (s *SQLiteStore) ListActiveJobs(ctx context.Context) ([]models.Job, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+jobColumns+`
		FROM jobs WHERE active ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

func (s *SQLiteStore) GetJob(ctx context.Context, id string) (*models.Job, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+jobColumns+`
		FROM jobs WHERE id = ?`, id)

	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (s *SQLiteStore) SeedJob(ctx context.Context, job *models.Job) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (id, source_url, sheet_ref, active, status, sync_mode, owner_email)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
		job.ID, job.SourceURL, job.SheetRef, job.Active, job.Status, job.SyncMode, job.OwnerEmail)
	return err
}

func (s *SQLiteStore) SetStatus(ctx context.Context, id string, status models.JobStatus) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE jobs SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id)
	return err
}

func (s *SQLiteStore) CompleteRun(ctx context.Context, id string, lastRun, nextRun time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE jobs
		SET status = ?, last_run = ?, next_run = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		models.JobStatusSuccess, lastRun, nextRun, id)
	return err
}

func (s *SQLiteStore) UpdateSheetRef(ctx context.Context, id, sheetRef string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE jobs SET sheet_ref = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		sheetRef, id)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*models.Job, error) {
	var job models.Job
	var lastRun, nextRun sql.NullTime
	err := row.Scan(&job.ID, &job.SourceURL, &job.SheetRef, &job.Active, &job.Status,
		&job.SyncMode, &lastRun, &nextRun, &job.OwnerEmail, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if lastRun.Valid {
		job.LastRun = &lastRun.Time
	}
	if nextRun.Valid {
		job.NextRun = &nextRun.Time
	}
	return &job, nil
}
