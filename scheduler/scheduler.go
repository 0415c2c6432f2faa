package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/devyboy/scraper-plus-plus/config"
	"github.com/devyboy/scraper-plus-plus/jobs"
)

// Scheduler drives recurring sweeps in daemon mode, either on a cron
// expression or a fixed interval. The external cadence should line up
// with the next_run interval the manager persists.
type Scheduler struct {
	cfg     config.SchedulerConfig
	manager *jobs.Manager
	cron    *cron.Cron
	ticker  *time.Ticker
	stopCh  chan struct{}
}

func New(cfg config.SchedulerConfig, manager *jobs.Manager) *Scheduler {
	return &Scheduler{
		cfg:     cfg,
		manager: manager,
		cron:    cron.New(),
		stopCh:  make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	sweep := func() {
		if _, err := s.manager.Sweep(ctx); err != nil {
			log.Printf("Scheduled sweep error: %v", err)
		}
	}

	if s.cfg.Cron != "" {
		log.Printf("Starting scheduler with cron: %s", s.cfg.Cron)
		if _, err := s.cron.AddFunc(s.cfg.Cron, sweep); err != nil {
			return fmt.Errorf("invalid cron expression: %w", err)
		}
		s.cron.Start()
		return nil
	}

	if s.cfg.Interval > 0 {
		log.Printf("Starting scheduler with interval: %s", s.cfg.Interval)
		s.ticker = time.NewTicker(s.cfg.Interval)
		go func() {
			for {
				select {
				case <-s.ticker.C:
					sweep()
				case <-s.stopCh:
					return
				case <-ctx.Done():
					return
				}
			}
		}()
		return nil
	}

	return fmt.Errorf("no schedule configured: set SWEEP_CRON or SWEEP_INTERVAL")
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.stopCh)
}
