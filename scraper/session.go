package scraper

import (
	"context"
	"fmt"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/devyboy/scraper-plus-plus/config"
)

// Session is one isolated rendering pass against a target page. Every
// attempt gets a fresh session and must close it on both success and
// failure paths.
type Session interface {
	Navigate(ctx context.Context, url string) error
	ScrollToBottom(ctx context.Context) error
	Content(ctx context.Context) (string, error)
	Close()
}

// SessionFactory opens a new Session. The playwright-backed factory
// shares one browser process across attempts but gives each session its
// own browser context.
type SessionFactory interface {
	NewSession(ctx context.Context) (Session, error)
	Shutdown()
}

type playwrightFactory struct {
	cfg config.ScraperConfig

	mu      sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser
}

func NewPlaywrightFactory(cfg config.ScraperConfig) SessionFactory {
	return &playwrightFactory{cfg: cfg}
}

func (f *playwrightFactory) NewSession(ctx context.Context) (Session, error) {
	if err := f.ensureBrowser(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	bctx, err := f.browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(f.cfg.UserAgent),
	})
	if err != nil {
		return nil, fmt.Errorf("new browser context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		return nil, fmt.Errorf("new page: %w", err)
	}

	return &playwrightSession{cfg: f.cfg, bctx: bctx, page: page}, nil
}

func (f *playwrightFactory) ensureBrowser() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.browser != nil {
		return nil
	}

	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(f.cfg.Headless),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	})
	if err != nil {
		pw.Stop()
		return fmt.Errorf("launch browser: %w", err)
	}

	f.pw = pw
	f.browser = browser
	return nil
}

func (f *playwrightFactory) Shutdown() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.browser != nil {
		f.browser.Close()
		f.browser = nil
	}
	if f.pw != nil {
		f.pw.Stop()
		f.pw = nil
	}
}

type playwrightSession struct {
	cfg  config.ScraperConfig
	bctx playwright.BrowserContext
	page playwright.Page
}

func (s *playwrightSession) Navigate(ctx context.Context, url string) error {
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(s.cfg.NavTimeout.Milliseconds())),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

// ScrollToBottom advances the viewport in fixed increments until the
// measured scrollable height stops growing, which forces lazy-loaded
// cards to materialize, then pauses for final asynchronous rendering.
func (s *playwrightSession) ScrollToBottom(ctx context.Context) error {
	lastHeight := s.scrollHeight()

	for pass := 0; pass < s.cfg.MaxScrollPasses; pass++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if _, err := s.page.Evaluate(fmt.Sprintf(`window.scrollBy(0, %d)`, s.cfg.ScrollStep)); err != nil {
			return fmt.Errorf("scroll: %w", err)
		}
		s.page.WaitForTimeout(float64(s.cfg.ScrollPause.Milliseconds()))

		height := s.scrollHeight()
		atBottom, _ := s.page.Evaluate(`window.innerHeight + window.scrollY >= document.body.scrollHeight`)
		if height == lastHeight && atBottom == true {
			break
		}
		lastHeight = height
	}

	s.page.WaitForTimeout(float64(s.cfg.SettleDelay.Milliseconds()))
	return nil
}

func (s *playwrightSession) scrollHeight() float64 {
	result, err := s.page.Evaluate(`document.body.scrollHeight`)
	if err != nil {
		return 0
	}
	switch v := result.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func (s *playwrightSession) Content(ctx context.Context) (string, error) {
	content, err := s.page.Content()
	if err != nil {
		return "", fmt.Errorf("snapshot content: %w", err)
	}
	return content, nil
}

func (s *playwrightSession) Close() {
	if s.page != nil {
		s.page.Close()
	}
	if s.bctx != nil {
		s.bctx.Close()
	}
}
