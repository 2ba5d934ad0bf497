package browser

import (
	"context"
	"fmt"
	"os"

	"github.com/playwright-community/playwright-go"

	"contactuse/internal/logger"
)

type Options struct {
	// ProfileDir is the persistent user-data directory; cookies and logins
	// stored there are reused across runs.
	ProfileDir string
	Headless   bool
	// Log receives session events; nil falls back to a "Browser" logger.
	Log *logger.Logger
}

// Snapshot is the state of the active page at one point in time.
type Snapshot struct {
	URL   string
	Title string
	HTML  string
}

// Session is one browser window backed by a persistent profile.
type Session struct {
	pw      *playwright.Playwright
	context playwright.BrowserContext
	page    playwright.Page
	log     *logger.Logger
}

// Launch starts playwright and opens a persistent Chromium context. Only one
// process can hold a profile directory at a time, so concurrent sessions on
// the same profile fail here with Chromium's lock error.
func Launch(_ context.Context, opts Options) (*Session, error) {
	log := opts.Log
	if log == nil {
		log = logger.New("Browser")
	}

	if err := os.MkdirAll(opts.ProfileDir, 0o755); err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}

	pw, err := playwright.Run()
	if err != nil {
		log.LogErrorf("Failed to start Playwright: %v", err)
		return nil, fmt.Errorf("playwright initialization failed: %w", err)
	}

	bctx, err := pw.Chromium.LaunchPersistentContext(opts.ProfileDir, playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless: playwright.Bool(opts.Headless),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--no-first-run",
			"--disable-default-apps",
		},
		Viewport: &playwright.Size{Width: 1280, Height: 900},
	})
	if err != nil {
		_ = pw.Stop()
		log.LogErrorf("Failed to launch browser: %v", err)
		return nil, fmt.Errorf("browser launch failed: %w", err)
	}

	var page playwright.Page
	if pages := bctx.Pages(); len(pages) > 0 {
		page = pages[0]
	} else if page, err = bctx.NewPage(); err != nil {
		_ = bctx.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("open page: %w", err)
	}

	log.LogDebugf("browser session opened on profile %s (headless=%v)", opts.ProfileDir, opts.Headless)
	return &Session{pw: pw, context: bctx, page: page, log: log}, nil
}

// Goto navigates the active page. A slow full load falls back to
// DOMContentLoaded so that heavy pages are still usable.
func (s *Session) Goto(_ context.Context, url string) error {
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   playwright.Float(20000),
	})
	if err == nil {
		return nil
	}
	s.log.LogWarnf("full load of %s failed, retrying on DOMContentLoaded: %v", url, err)
	if _, err = s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		return fmt.Errorf("goto failed: %w", err)
	}
	return nil
}

func (s *Session) Snapshot(_ context.Context) (Snapshot, error) {
	html, err := s.page.Content()
	if err != nil {
		return Snapshot{}, fmt.Errorf("read page content: %w", err)
	}
	title, _ := s.page.Title()
	return Snapshot{URL: s.page.URL(), Title: title, HTML: html}, nil
}

func (s *Session) Close() error {
	cerr := s.context.Close()
	serr := s.pw.Stop()
	if cerr != nil {
		return cerr
	}
	return serr
}
