package models

import "time"

type JobStatus string

const (
	JobStatusIdle    JobStatus = "idle"
	JobStatusRunning JobStatus = "running"
	JobStatusSuccess JobStatus = "success"
	JobStatusFailed  JobStatus = "failed"
)

// SyncMode selects how a batch is written to the destination sheet.
// It is fixed at job-configuration time, never derived from the sheet
// contents at run time.
type SyncMode string

const (
	SyncModeAppendOnly  SyncMode = "append_only"
	SyncModeFullReplace SyncMode = "full_replace"
)

// Job is one tracked monitoring task: a source listing-search URL paired
// with a destination spreadsheet. Jobs are created externally and only
// mutated here through the lifecycle manager.
type Job struct {
	ID         string     `json:"id" db:"id"`
	SourceURL  string     `json:"source_url" db:"source_url"`
	SheetRef   string     `json:"sheet_ref" db:"sheet_ref"`
	Active     bool       `json:"active" db:"active"`
	Status     JobStatus  `json:"status" db:"status"`
	SyncMode   SyncMode   `json:"sync_mode" db:"sync_mode"`
	LastRun    *time.Time `json:"last_run" db:"last_run"`
	NextRun    *time.Time `json:"next_run" db:"next_run"`
	OwnerEmail string     `json:"owner_email" db:"owner_email"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// SweepStats summarizes one pass over all active jobs.
type SweepStats struct {
	JobsRun      int `json:"jobs_run"`
	Succeeded    int `json:"succeeded"`
	Failed       int `json:"failed"`
	RowsAdded    int `json:"rows_added"`
	ListingsSeen int `json:"listings_seen"`
}
