package model

import (
	"encoding/json"
	"time"
)

// Episode is the normalized record for a podcast episode.
type Episode struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`

	// Type is always "episode".
	Type string `json:"type"`

	// DurationMS is the episode length in milliseconds.
	DurationMS int `json:"duration_ms"`

	// Show references the parent show, when the page exposed it.
	Show *ShowRef `json:"show,omitempty"`

	// AudioPreviewURL is the preview clip URL, when available.
	AudioPreviewURL string `json:"audio_preview_url,omitempty"`

	// ReleaseDate is the publication date as the page reported it.
	ReleaseDate string `json:"release_date,omitempty"`

	// HasVideo reports whether the episode has a video variant.
	HasVideo *bool `json:"has_video,omitempty"`

	// IsTrailer reports whether the episode is a show trailer.
	IsTrailer *bool `json:"is_trailer,omitempty"`

	// Error is set instead of the data fields when extraction failed.
	Error string `json:"ERROR,omitempty"`
}

// ErrorEpisode builds the minimal error record for a failed episode
// extraction.
func ErrorEpisode(msg string) *Episode {
	return &Episode{Type: "episode", Error: msg}
}

// Failed reports whether this record represents a failed extraction.
func (e *Episode) Failed() bool { return e.Error != "" }

// Duration returns the episode length as a time.Duration.
func (e *Episode) Duration() time.Duration {
	return time.Duration(e.DurationMS) * time.Millisecond
}

// MarshalJSON keeps the uniform error-record contract.
func (e *Episode) MarshalJSON() ([]byte, error) {
	if e.Error != "" {
		return json.Marshal(errorRecord{Error: e.Error, Type: "episode"})
	}
	type plain Episode
	return json.Marshal((*plain)(e))
}
