package scraper

import (
	"context"
	"fmt"
	"sync"
	"time"

	pw "github.com/playwright-community/playwright-go"
)

// BrowserOptions configures BrowserRenderer.
type BrowserOptions struct {
	Headless       bool
	UserAgent      string
	ExecutablePath string        // optional Chromium binary
	IdleTimeout    time.Duration // bound on the network-settle wait
	Install        bool          // download the driver and Chromium on first use
}

// BrowserRenderer renders pages in Chromium via Playwright. The driver is
// started once and shared; each Render call gets its own browser, closed
// before Render returns.
type BrowserRenderer struct {
	opts BrowserOptions

	mu     sync.Mutex
	driver *pw.Playwright
}

// NewBrowserRenderer creates a BrowserRenderer. The driver starts lazily.
func NewBrowserRenderer(opts BrowserOptions) *BrowserRenderer {
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = Timeout
	}
	return &BrowserRenderer{opts: opts}
}

func (b *BrowserRenderer) start() (*pw.Playwright, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.driver != nil {
		return b.driver, nil
	}
	if b.opts.Install {
		if err := pw.Install(&pw.RunOptions{Browsers: []string{"chromium"}}); err != nil {
			return nil, fmt.Errorf("installing playwright: %w", err)
		}
	}
	driver, err := pw.Run()
	if err != nil {
		return nil, fmt.Errorf("starting playwright: %w", err)
	}
	b.driver = driver
	return driver, nil
}

// Render implements Renderer. It navigates, waits for DOMContentLoaded and
// then for the network to go idle, and returns the rendered HTML.
func (b *BrowserRenderer) Render(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	driver, err := b.start()
	if err != nil {
		return "", err
	}

	launch := pw.BrowserTypeLaunchOptions{
		Headless: pw.Bool(b.opts.Headless),
		Args:     []string{"--disable-blink-features=AutomationControlled"},
	}
	if b.opts.ExecutablePath != "" {
		launch.ExecutablePath = pw.String(b.opts.ExecutablePath)
	}

	browser, err := driver.Chromium.Launch(launch)
	if err != nil {
		return "", fmt.Errorf("launching browser: %w", err)
	}
	defer browser.Close() //nolint:errcheck

	// Closing the browser aborts whatever the page is waiting on.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = browser.Close()
		case <-done:
		}
	}()

	pageOpts := pw.BrowserNewPageOptions{}
	if b.opts.UserAgent != "" {
		pageOpts.UserAgent = pw.String(b.opts.UserAgent)
	}
	page, err := browser.NewPage(pageOpts)
	if err != nil {
		return "", b.wrap(ctx, "opening page", err)
	}

	timeoutMS := float64(b.opts.IdleTimeout.Milliseconds())

	res, err := page.Goto(url, pw.PageGotoOptions{
		WaitUntil: pw.WaitUntilStateDomcontentloaded,
		Timeout:   pw.Float(timeoutMS),
	})
	if err != nil {
		return "", b.wrap(ctx, "navigating", err)
	}
	if res != nil && !res.Ok() {
		return "", fmt.Errorf("unexpected status code: %d", res.Status())
	}

	if err := page.WaitForLoadState(pw.PageWaitForLoadStateOptions{
		State:   pw.LoadStateNetworkidle,
		Timeout: pw.Float(timeoutMS),
	}); err != nil {
		return "", b.wrap(ctx, "waiting for network idle", err)
	}

	html, err := page.Content()
	if err != nil {
		return "", b.wrap(ctx, "reading content", err)
	}
	return html, nil
}

// wrap prefers the context error when cancellation caused the failure.
func (b *BrowserRenderer) wrap(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", op, ctxErr)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Close stops the Playwright driver.
func (b *BrowserRenderer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.driver == nil {
		return nil
	}
	err := b.driver.Stop()
	b.driver = nil
	return err
}
