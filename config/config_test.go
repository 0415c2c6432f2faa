package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/devyboy/scraper-plus-plus/models"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Scraper.RetryCeiling != 3 {
		t.Fatalf("retry ceiling = %d", cfg.Scraper.RetryCeiling)
	}
	if cfg.Scraper.RetryDelay != 5*time.Second {
		t.Fatalf("retry delay = %s", cfg.Scraper.RetryDelay)
	}
	if cfg.RescheduleInterval != 30*time.Minute {
		t.Fatalf("reschedule interval = %s", cfg.RescheduleInterval)
	}
	if cfg.Store.Backend != "sqlite" {
		t.Fatalf("store backend = %s", cfg.Store.Backend)
	}
	if cfg.Scraper.UserAgent == "" {
		t.Fatal("expected a default user agent")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("RETRY_CEILING", "5")
	t.Setenv("RETRY_DELAY", "2s")
	t.Setenv("RESCHEDULE_INTERVAL", "1h")
	t.Setenv("JOB_STORE", "postgres")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Scraper.RetryCeiling != 5 {
		t.Fatalf("retry ceiling = %d", cfg.Scraper.RetryCeiling)
	}
	if cfg.Scraper.RetryDelay != 2*time.Second {
		t.Fatalf("retry delay = %s", cfg.Scraper.RetryDelay)
	}
	if cfg.RescheduleInterval != time.Hour {
		t.Fatalf("reschedule interval = %s", cfg.RescheduleInterval)
	}
	if cfg.Store.Backend != "postgres" {
		t.Fatalf("store backend = %s", cfg.Store.Backend)
	}
}

func TestLoadJobSeeds(t *testing.T) {
	dir := t.TempDir()
	seed := `
source_url: https://www.example.com/homes/springfield-il/
sheet_ref: https://docs.google.com/spreadsheets/d/1AbC/edit
owner_email: owner@example.com
`
	if err := os.WriteFile(filepath.Join(dir, "springfield.yaml"), []byte(seed), 0644); err != nil {
		t.Fatal(err)
	}

	seeds, err := LoadJobSeeds(dir)
	if err != nil {
		t.Fatalf("load seeds failed: %v", err)
	}
	if len(seeds) != 1 {
		t.Fatalf("expected 1 seed, got %d", len(seeds))
	}

	job := seeds[0]
	if job.ID == "" {
		t.Fatal("expected a minted id")
	}
	if !job.Active {
		t.Fatal("seeds default to active")
	}
	if job.Status != models.JobStatusIdle {
		t.Fatalf("status = %s", job.Status)
	}
	if job.SyncMode != models.SyncModeAppendOnly {
		t.Fatalf("sync mode = %s", job.SyncMode)
	}
	if job.OwnerEmail != "owner@example.com" {
		t.Fatalf("owner = %s", job.OwnerEmail)
	}
}

func TestLoadJobSeeds_MissingDir(t *testing.T) {
	seeds, err := LoadJobSeeds("does/not/exist")
	if err != nil {
		t.Fatalf("missing dir must not error: %v", err)
	}
	if seeds != nil {
		t.Fatalf("expected no seeds, got %d", len(seeds))
	}
}

func TestLoadJobSeeds_RejectsBadSyncMode(t *testing.T) {
	dir := t.TempDir()
	seed := "source_url: https://example.com\nsync_mode: merge\n"
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(seed), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadJobSeeds(dir); err == nil {
		t.Fatal("expected error for unknown sync_mode")
	}
}
