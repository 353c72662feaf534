package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"golang.org/x/time/rate"
)

// Client wraps HTTP operations with web-player-friendly configuration.
//
// Client provides:
//   - A browser-like User-Agent, which the web player requires before
//     serving fully rendered pages
//   - Request rate limiting so batch extractions stay polite
//   - Page fetching for the extraction pipeline (Fetch)
//   - File download with progress tracking for previews and covers
//
// Example usage:
//
//	client := NewClient()
//
//	// Fetch page HTML for extraction
//	html, err := client.Fetch(ctx, "https://open.spotify.com/embed/track/abc")
//
//	// Download a preview clip with progress
//	err = client.DownloadFile(ctx, previewURL, "/music/preview.mp3", func(written, total int64) {
//	    percent := float64(written) / float64(total) * 100
//	    fmt.Printf("%.1f%%\n", percent)
//	})
type Client struct {
	httpClient *http.Client
	userAgent  string
	limiter    *rate.Limiter
}

// Options configures a Client. Zero values select the defaults noted
// on each field.
type Options struct {
	// Timeout bounds each request. Default 30s.
	Timeout time.Duration

	// UserAgent overrides the default desktop-browser User-Agent.
	UserAgent string

	// RequestInterval is the minimum delay between requests. Default
	// 500ms; negative disables rate limiting.
	RequestInterval time.Duration
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"

// NewClient creates a client with default options.
func NewClient() *Client {
	return NewClientWithOptions(Options{})
}

// NewClientWithOptions creates a client with explicit options.
func NewClientWithOptions(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.RequestInterval == 0 {
		opts.RequestInterval = 500 * time.Millisecond
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.RequestInterval), 1)
	}

	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		userAgent:  opts.UserAgent,
		limiter:    limiter,
	}
}

// do issues one rate-limited request with the standing headers.
func (c *Client) do(ctx context.Context, method, url string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "en")

	return c.httpClient.Do(req)
}

// Fetch performs a GET request and returns the response body as a
// string. This is the page-fetcher contract the extraction pipeline
// consumes: it fails on connection problems, timeouts, and any
// non-2xx status, and makes no judgment about page content.
//
// Example:
//
//	html, err := client.Fetch(ctx, "https://open.spotify.com/embed/album/xyz")
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Get performs a GET request and returns the response body as bytes.
//
// Returns an error if:
//   - The request fails
//   - The response status is not in the 2xx range
//   - Reading the body fails
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// GetFileSize returns the size of a file at the given URL via HEAD
// request.
//
// Returns an error if:
//   - The request fails
//   - The server doesn't return a Content-Length header
func (c *Client) GetFileSize(ctx context.Context, url string) (int64, error) {
	resp, err := c.do(ctx, http.MethodHead, url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.ContentLength < 0 {
		return 0, fmt.Errorf("no Content-Length header for %s", url)
	}

	return resp.ContentLength, nil
}

// ProgressWriter wraps a writer to track download progress.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer: file,
//	    Total:  contentLength,
//	    OnUpdate: func(written, total int64) {
//	        fmt.Printf("%d / %d bytes\n", written, total)
//	    },
//	}
//	io.Copy(pw, response.Body)
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	// Parameters are (bytesWritten, totalExpected).
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// DownloadFile downloads a file to the specified path with optional
// progress callback. Content is streamed directly to disk.
//
// Parameters:
//   - ctx: Context for cancellation
//   - url: URL to download from
//   - destPath: Local file path to save to
//   - onProgress: Optional callback called with (bytesWritten, totalBytes).
//     Pass nil to disable progress tracking
//
// Example:
//
//	err := client.DownloadFile(ctx, previewURL, "/music/preview.mp3", func(written, total int64) {
//	    if total > 0 {
//	        fmt.Printf("%.1f%%\r", float64(written)/float64(total)*100)
//	    }
//	})
func (c *Client) DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) error {
	resp, err := c.do(ctx, http.MethodGet, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	file, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer file.Close()

	var writer io.Writer = file
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   file,
			Total:    resp.ContentLength,
			OnUpdate: onProgress,
		}
	}

	_, err = io.Copy(writer, resp.Body)
	return err
}

// DownloadBytes downloads a file and returns the bytes in memory.
//
// Use this for small files like cover art images. For larger files,
// use DownloadFile to stream directly to disk.
func (c *Client) DownloadBytes(ctx context.Context, url string) ([]byte, error) {
	return c.Get(ctx, url)
}
