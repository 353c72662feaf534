package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// Fetcher renders pages in a headless Chrome instance and returns the
// resulting HTML. It satisfies the same page-fetcher contract as the
// plain HTTP client and is the fallback transport for pages that only
// embed their data after client-side rendering.
//
// A Fetcher owns one browser process shared by all calls; each Fetch
// opens a fresh tab. Call Close when done to shut the browser down.
type Fetcher struct {
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	timeout       time.Duration
}

// Options configures a Fetcher.
type Options struct {
	// UserAgent overrides the browser's default User-Agent.
	UserAgent string

	// Timeout bounds each page render. Default 45s.
	Timeout time.Duration
}

// NewFetcher starts a headless browser.
//
// Returns an error if the browser binary cannot be launched.
func NewFetcher(opts Options) (*Fetcher, error) {
	if opts.Timeout == 0 {
		opts.Timeout = 45 * time.Second
	}

	chromeOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.DisableGPU,
		chromedp.Headless,
		chromedp.NoSandbox,
		// metadata extraction never needs images
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
	}
	if opts.UserAgent != "" {
		chromeOpts = append(chromeOpts, chromedp.UserAgent(opts.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), chromeOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// start the browser eagerly so launch failures surface here
	// instead of on the first Fetch
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	return &Fetcher{
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		timeout:       opts.Timeout,
	}, nil
}

// Fetch renders url in a new tab and returns the page HTML once the
// document body is ready.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	tabCtx, cancel := chromedp.NewContext(f.browserCtx)
	defer cancel()

	tabCtx, timeoutCancel := context.WithTimeout(tabCtx, f.timeout)
	defer timeoutCancel()

	// chromedp contexts descend from the browser, not the caller, so
	// caller cancellation is forwarded by hand.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-done:
		}
	}()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("rendering %s: %w", url, err)
	}
	return html, nil
}

// Close shuts the browser process down. The Fetcher is unusable
// afterwards.
func (f *Fetcher) Close() {
	f.browserCancel()
	f.allocCancel()
}
