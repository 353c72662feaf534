// Package config provides configuration management for the scraper
// toolchain.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Conversion to transport options for the HTTP and browser fetchers
//   - Building a logger at the configured level
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// HTTP fetcher with a browser-like User-Agent
//	// 500ms pause between requests
//	// Downloads to ~/Music/Spotify
//	// ID3 tagging enabled
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Saving Settings
//
//	settings.DownloadsPath = "/custom/path"
//	err := settings.Save("/path/to/config.json")
//
// # Configuration Options
//
// Settings includes options for:
//   - Transport backend (plain HTTP or headless browser), timeouts,
//     and request pacing
//   - Download paths and file naming
//   - Concurrent download limits and retry behavior
//   - Cover art handling
//   - Playlist generation
//   - ID3 tag modification
//   - Log level
package config
