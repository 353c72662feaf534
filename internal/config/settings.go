package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/handiism/spotify-scraper/internal/browser"
	"github.com/handiism/spotify-scraper/internal/http"
)

// Fetcher backend names accepted in Settings.FetcherBackend.
const (
	BackendHTTP    = "http"
	BackendBrowser = "browser"
)

// Settings holds all configuration options.
type Settings struct {
	// Transport settings
	FetcherBackend  string  `json:"fetcher_backend"` // http, browser
	UserAgent       string  `json:"user_agent"`
	RequestTimeout  float64 `json:"request_timeout"`  // seconds
	RequestInterval float64 `json:"request_interval"` // seconds between requests

	// Download settings
	DownloadsPath          string  `json:"downloads_path"`
	MaxConcurrentDownloads int     `json:"max_concurrent_downloads"`
	DownloadMaxRetries     int     `json:"download_max_retries"`
	DownloadRetryCooldown  float64 `json:"download_retry_cooldown"`
	DownloadRetryExponent  float64 `json:"download_retry_exponent"`

	// AllowedFileSizeDifference is the relative size tolerance used to
	// decide whether an already present preview file can be kept.
	AllowedFileSizeDifference float64 `json:"allowed_file_size_difference"`

	// File naming
	FileNameFormat      string `json:"file_name_format"`
	CoverFileNameFormat string `json:"cover_file_name_format"`

	// Cover art settings
	SaveCovers        bool `json:"save_covers"`
	EmbedCovers       bool `json:"embed_covers"`
	CoverResize       bool `json:"cover_resize"`
	CoverMaxSize      int  `json:"cover_max_size"`
	ConvertCoverToJPG bool `json:"convert_cover_to_jpg"`

	// Playlist settings
	CreatePlaylist bool   `json:"create_playlist"`
	PlaylistFormat string `json:"playlist_format"` // m3u, pls, wpl, zpl
	M3UExtended    bool   `json:"m3u_extended"`

	// Tag settings
	ModifyTags bool `json:"modify_tags"`

	// Logging
	LogLevel string `json:"log_level"` // debug, info, warn, error
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		FetcherBackend:  BackendHTTP,
		RequestTimeout:  30,
		RequestInterval: 0.5,

		DownloadsPath:          filepath.Join(homeDir, "Music", "Spotify"),
		MaxConcurrentDownloads: 4,
		DownloadMaxRetries:     5,
		DownloadRetryCooldown:  0.2,
		DownloadRetryExponent:  4.0,

		AllowedFileSizeDifference: 0.05,

		FileNameFormat:      "{artist} - {title}.mp3",
		CoverFileNameFormat: "{name}",

		SaveCovers:        false,
		EmbedCovers:       true,
		CoverResize:       true,
		CoverMaxSize:      1000,
		ConvertCoverToJPG: true,

		CreatePlaylist: false,
		PlaylistFormat: "m3u",
		M3UExtended:    true,

		ModifyTags: true,

		LogLevel: "info",
	}
}

// Load reads settings from a JSON file. A missing file yields the
// defaults rather than an error.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks settings combinations the rest of the toolchain
// cannot repair on its own.
func (s *Settings) Validate() error {
	if s.FetcherBackend != BackendHTTP && s.FetcherBackend != BackendBrowser {
		return fmt.Errorf("unknown fetcher backend %q", s.FetcherBackend)
	}
	if s.MaxConcurrentDownloads < 1 {
		return fmt.Errorf("max_concurrent_downloads must be at least 1")
	}
	switch s.PlaylistFormat {
	case "m3u", "pls", "wpl", "zpl":
	default:
		return fmt.Errorf("unknown playlist format %q", s.PlaylistFormat)
	}
	if _, err := logrus.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("unknown log level %q", s.LogLevel)
	}
	return nil
}

// Logger builds a logger honoring the configured level. An
// unparseable level falls back to info.
func (s *Settings) Logger() *logrus.Logger {
	log := logrus.New()
	level, err := logrus.ParseLevel(s.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

// ClientOptions converts settings to HTTP client options.
func (s *Settings) ClientOptions() http.Options {
	return http.Options{
		Timeout:         seconds(s.RequestTimeout),
		UserAgent:       s.UserAgent,
		RequestInterval: seconds(s.RequestInterval),
	}
}

// BrowserOptions converts settings to headless-browser options.
func (s *Settings) BrowserOptions() browser.Options {
	return browser.Options{
		UserAgent: s.UserAgent,
		Timeout:   seconds(s.RequestTimeout),
	}
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
