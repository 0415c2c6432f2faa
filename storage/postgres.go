package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devyboy/scraper-plus-plus/models"
)

// PostgresStore backs the job store with a shared Postgres database, for
// deployments where jobs are provisioned by an external surface.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 5
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	store := &PostgresStore{pool: pool}
	if err := store.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS jobs (
			id TEXT PRIMARY KEY,
			source_url TEXT NOT NULL,
			sheet_ref TEXT NOT NULL DEFAULT '',
			active BOOLEAN NOT NULL DEFAULT TRUE,
			status TEXT NOT NULL DEFAULT 'idle',
			sync_mode TEXT NOT NULL DEFAULT 'append_only',
			last_run TIMESTAMPTZ,
			next_run TIMESTAMPTZ,
			owner_email TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_jobs_active ON jobs(active) WHERE active;
	`)
	return err
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const pgJobColumns = `id, source_url, sheet_ref, active, status, sync_mode, last_run, next_run, owner_email, created_at, updated_at`

func (s *PostgresStore) ListActiveJobs(ctx context.Context) ([]models.Job, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+pgJobColumns+`
		FROM jobs WHERE active ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		job, err := scanPgJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

func (s *PostgresStore) GetJob(ctx context.Context, id string) (*models.Job, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+pgJobColumns+`
		FROM jobs WHERE id = $1`, id)

	job, err := scanPgJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (s *PostgresStore) SeedJob(ctx context.Context, job *models.Job) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO jobs (id, source_url, sheet_ref, active, status, sync_mode, owner_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`,
		job.ID, job.SourceURL, job.SheetRef, job.Active, job.Status, job.SyncMode, job.OwnerEmail)
	return err
}

func (s *PostgresStore) SetStatus(ctx context.Context, id string, status models.JobStatus) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE jobs SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id)
	return err
}

func (s *PostgresStore) CompleteRun(ctx context.Context, id string, lastRun, nextRun time.Time) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE jobs
		SET status = $1, last_run = $2, next_run = $3, updated_at = NOW()
		WHERE id = $4`,
		models.JobStatusSuccess, lastRun, nextRun, id)
	return err
}

func (s *PostgresStore) UpdateSheetRef(ctx context.Context, id, sheetRef string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE jobs SET sheet_ref = $1, updated_at = NOW() WHERE id = $2`,
		sheetRef, id)
	return err
}

func scanPgJob(row pgx.Row) (*models.Job, error) {
	var job models.Job
	err := row.Scan(&job.ID, &job.SourceURL, &job.SheetRef, &job.Active, &job.Status,
		&job.SyncMode, &job.LastRun, &job.NextRun, &job.OwnerEmail, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &job, nil
}
