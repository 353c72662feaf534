// Package http provides the HTTP transport used to fetch web player
// pages and download preview audio and cover art.
//
// The Client in this package handles:
//   - Browser-like User-Agent and Accept-Language headers
//   - Request rate limiting between consecutive calls
//   - Page fetching for the extraction pipeline
//   - File downloads with progress tracking
//   - File size retrieval via HEAD requests
//
// # Basic Usage
//
//	client := http.NewClient()
//
//	// Fetch an embed page for extraction
//	html, err := client.Fetch(ctx, "https://open.spotify.com/embed/track/abc")
//
//	// Download a preview clip with a progress callback
//	client.DownloadFile(ctx, previewURL, "/path/to/preview.mp3", func(written, total int64) {
//	    fmt.Printf("%.1f%%\n", float64(written)/float64(total)*100)
//	})
//
// Client satisfies the page-fetcher contract of the extraction
// pipeline: Fetch fails on transport problems and non-2xx statuses
// and leaves all judgment about page content to its caller.
//
// # Progress Tracking
//
// The ProgressWriter type can be used to wrap any io.Writer for progress tracking:
//
//	pw := &http.ProgressWriter{
//	    Writer:   file,
//	    Total:    contentLength,
//	    OnUpdate: func(written, total int64) { /* update UI */ },
//	}
package http
