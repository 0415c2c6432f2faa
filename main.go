package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/devyboy/scraper-plus-plus/archive"
	"github.com/devyboy/scraper-plus-plus/config"
	"github.com/devyboy/scraper-plus-plus/extract"
	"github.com/devyboy/scraper-plus-plus/jobs"
	"github.com/devyboy/scraper-plus-plus/logging"
	"github.com/devyboy/scraper-plus-plus/notify"
	"github.com/devyboy/scraper-plus-plus/scheduler"
	"github.com/devyboy/scraper-plus-plus/scraper"
	"github.com/devyboy/scraper-plus-plus/sheets"
	"github.com/devyboy/scraper-plus-plus/storage"
)

var daemon = flag.Bool("daemon", false, "Run scheduled sweeps instead of a single pass")

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logFile, err := logging.Setup(cfg.LogPath)
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}

	log.Println("Starting scraper-plus-plus...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open job store: %v", err)
	}
	defer store.Close()

	seedJobs(ctx, cfg, store)

	api, err := sheets.NewGoogleAPI(ctx, cfg.Sheets.CredentialsFile)
	if err != nil {
		log.Fatalf("Failed to init sheets client: %v", err)
	}
	syncer := sheets.NewSynchronizer(api, cfg.Sheets.DefaultTitle)

	var sender notify.Sender
	if cfg.SMTP.Host != "" {
		sender = notify.NewMailer(cfg.SMTP)
	} else {
		log.Println("SMTP not configured, notifications disabled")
	}
	dispatcher := notify.NewDispatcher(sender)

	sessions := scraper.NewPlaywrightFactory(cfg.Scraper)
	defer sessions.Shutdown()

	orchestrator := scraper.NewOrchestrator(cfg.Scraper, sessions, extract.DefaultSelectors())
	if archiver, err := archive.NewS3Archiver(ctx, cfg.Archive); err != nil {
		log.Printf("Warning: snapshot archive disabled: %v", err)
	} else if archiver != nil {
		orchestrator.SetArchiver(archiver)
		log.Printf("Snapshot archive: s3://%s", cfg.Archive.Bucket)
	}

	manager := jobs.NewManager(store, orchestrator, syncer, dispatcher, cfg.RescheduleInterval)

	if !*daemon {
		if _, err := manager.Sweep(ctx); err != nil {
			log.Fatalf("Sweep failed: %v", err)
		}
		return
	}

	sched := scheduler.New(cfg.Scheduler, manager)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	log.Println("Daemon running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	sched.Stop()
	log.Println("Goodbye!")
}

func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	if cfg.Store.Backend == "postgres" {
		log.Println("Job store: postgres")
		return storage.NewPostgresStore(ctx, cfg.Store.PostgresURL)
	}
	log.Printf("Job store: sqlite (%s)", cfg.Store.SQLitePath)
	return storage.NewSQLiteStore(cfg.Store.SQLitePath)
}

func seedJobs(ctx context.Context, cfg *config.Config, store storage.Store) {
	seeds, err := config.LoadJobSeeds(cfg.JobsDir)
	if err != nil {
		log.Printf("Warning: could not load job seeds: %v", err)
		return
	}
	for i := range seeds {
		if err := store.SeedJob(ctx, &seeds[i]); err != nil {
			log.Printf("Warning: could not seed job %s: %v", seeds[i].ID, err)
		}
	}
	if len(seeds) > 0 {
		log.Printf("Seeded %d job definitions from %s", len(seeds), cfg.JobsDir)
	}
}
