// Package browser provides a headless-Chrome page fetcher.
//
// It is the alternative transport backend for the extraction pipeline,
// selected when the plain HTTP client receives pages whose data is
// only embedded after client-side rendering. Both backends satisfy the
// same Fetch contract, so the rest of the pipeline does not care which
// one is in use:
//
//	fetcher, err := browser.NewFetcher(browser.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer fetcher.Close()
//
//	html, err := fetcher.Fetch(ctx, "https://open.spotify.com/embed/track/abc")
//
// The browser process is started once per Fetcher and shared across
// calls; each Fetch renders in its own tab.
package browser
