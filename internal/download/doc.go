// Package download provides the orchestration logic for fetching the
// 30-second audio previews referenced by scraped records.
//
// # Manager
//
// The Manager coordinates the entire download process:
//
//  1. Expand queued records into preview jobs (re-scraping entries
//     whose preview URL the collection page omitted)
//  2. Download cover art
//  3. Download previews concurrently
//  4. Tag preview MP3s with ID3 metadata from the record
//  5. Generate playlists (optional)
//
// # Basic Usage
//
//	manager := download.NewManager(settings, scraper, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	album, _ := scraper.Album(ctx, "https://open.spotify.com/album/...")
//	if err := manager.AddAlbum(ctx, album); err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := manager.StartDownloads(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Concurrency
//
// Queued sets are processed one at a time; the previews within a set
// are downloaded in parallel, limited by settings.MaxConcurrentDownloads.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// # Retry Logic
//
// Failed downloads are automatically retried with exponential backoff,
// configurable via settings.DownloadMaxRetries and settings.DownloadRetryCooldown.
package download
