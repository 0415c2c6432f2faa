package scraper

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/devyboy/scraper-plus-plus/config"
	"github.com/devyboy/scraper-plus-plus/extract"
	"github.com/devyboy/scraper-plus-plus/models"
)

// Archiver receives the raw rendered snapshot of a successful scrape.
type Archiver interface {
	Archive(ctx context.Context, key string, html []byte) error
}

// Markers that identify a bot-interception challenge page. Detection is
// informational only: the page may still hold partial usable content, so
// it never short-circuits the retry loop on its own.
var challengeMarkers = []string{
	"verify you are human",
	"captcha",
	"unusual traffic",
	"access denied",
	"are you a robot",
}

// Orchestrator drives a rendering session against a job's source URL and
// turns the settled page into a deduplicated listing batch, retrying
// transient failures up to a fixed ceiling.
type Orchestrator struct {
	cfg      config.ScraperConfig
	sessions SessionFactory
	sel      extract.Selectors
	limiter  *hostLimiter
	archiver Archiver
}

func NewOrchestrator(cfg config.ScraperConfig, sessions SessionFactory, sel extract.Selectors) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		sessions: sessions,
		sel:      sel,
		limiter:  newHostLimiter(1, 1),
	}
}

// SetArchiver enables raw snapshot archival. Archive failures are logged,
// never propagated.
func (o *Orchestrator) SetArchiver(a Archiver) {
	o.archiver = a
}

// Run produces the deduplicated listing batch for one job, or a terminal
// error carrying the last underlying failure once retries are exhausted.
func (o *Orchestrator) Run(ctx context.Context, jobID, sourceURL string) ([]models.Listing, error) {
	var lastErr error

	for attempt := 1; attempt <= o.cfg.RetryCeiling; attempt++ {
		if attempt > 1 {
			log.Printf("[scrape:%s] retrying in %s (attempt %d/%d)", jobID, o.cfg.RetryDelay, attempt, o.cfg.RetryCeiling)
			select {
			case <-time.After(o.cfg.RetryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := o.limiter.Wait(ctx, sourceURL); err != nil {
			return nil, err
		}

		listings, html, err := o.attempt(ctx, sourceURL)
		if err != nil {
			log.Printf("[scrape:%s] attempt %d failed: %v", jobID, attempt, err)
			lastErr = err
			continue
		}

		log.Printf("[scrape:%s] attempt %d: %d listings", jobID, attempt, len(listings))
		o.archiveSnapshot(ctx, jobID, html)
		return listings, nil
	}

	return nil, fmt.Errorf("scrape failed after %d attempts: %w", o.cfg.RetryCeiling, lastErr)
}

// attempt runs one full session: navigate, auto-scroll until the page
// stops growing, snapshot, extract. The session is torn down on every
// path so a failed attempt cannot leak into the next one.
func (o *Orchestrator) attempt(ctx context.Context, sourceURL string) ([]models.Listing, string, error) {
	session, err := o.sessions.NewSession(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("session startup: %w", err)
	}
	defer session.Close()

	if err := session.Navigate(ctx, sourceURL); err != nil {
		return nil, "", err
	}
	if err := session.ScrollToBottom(ctx); err != nil {
		return nil, "", err
	}

	html, err := session.Content(ctx)
	if err != nil {
		return nil, "", err
	}

	if marker := detectChallenge(html); marker != "" {
		log.Printf("Warning: challenge page marker detected (%q), continuing with available content", marker)
	}

	cards, err := extract.CardsFromHTML(html, o.sel.Card)
	if err != nil {
		return nil, "", fmt.Errorf("parse snapshot: %w", err)
	}

	listings := extract.New(o.sel, sourceURL).Batch(cards, time.Now())
	if len(listings) == 0 {
		return nil, "", fmt.Errorf("no listings extracted from %s", sourceURL)
	}

	return listings, html, nil
}

func (o *Orchestrator) archiveSnapshot(ctx context.Context, jobID, html string) {
	if o.archiver == nil {
		return
	}
	key := fmt.Sprintf("snapshots/%s/%s.html", jobID, time.Now().UTC().Format("20060102T150405Z"))
	if err := o.archiver.Archive(ctx, key, []byte(html)); err != nil {
		log.Printf("Warning: snapshot archive failed for %s: %v", jobID, err)
	}
}

func detectChallenge(content string) string {
	lower := strings.ToLower(content)
	for _, marker := range challengeMarkers {
		if strings.Contains(lower, marker) {
			return marker
		}
	}
	return ""
}
