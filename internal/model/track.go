package model

import (
	"encoding/json"
	"time"
)

// Track is the normalized record for a single track.
//
// Track contains everything downstream consumers need:
//   - Identity fields (ID, Name, URI, Type) for addressing the track
//   - Artist and album references for display and ID3 tagging
//   - PreviewURL for downloading the 30-second audio preview
//   - Lyrics lines when the page exposes them
//
// Field presence follows the package-level shape guarantees: Artists is
// never nil, Album is always a value (zero AlbumRef when unknown), and
// optional scalars are omitted from JSON when unavailable.
type Track struct {
	// ID is the track identifier, e.g. "6rqhFgbbKwnb9MLmUQDhG6".
	ID string `json:"id"`

	// Name is the track title.
	Name string `json:"name"`

	// URI is the canonical URI form, e.g. "spotify:track:<id>".
	URI string `json:"uri"`

	// Type is always "track".
	Type string `json:"type"`

	// DurationMS is the track length in milliseconds.
	DurationMS int `json:"duration_ms"`

	// IsExplicit reports whether the track carries the explicit marker.
	IsExplicit bool `json:"is_explicit"`

	// IsPlayable reports whether the track is playable in the web player.
	IsPlayable bool `json:"is_playable"`

	// Artists lists the credited artists. Never nil.
	Artists []ArtistRef `json:"artists"`

	// Album is the containing album. Zero value when the page did not
	// expose album data.
	Album AlbumRef `json:"album"`

	// PreviewURL is the 30-second MP3 preview URL, when available.
	PreviewURL string `json:"preview_url,omitempty"`

	// TrackNumber is the 1-based position on the album, when known.
	TrackNumber int `json:"track_number,omitempty"`

	// DiscNumber is the 1-based disc index, when known.
	DiscNumber int `json:"disc_number,omitempty"`

	// Lyrics holds the lyric lines, when the page exposes them.
	Lyrics []string `json:"lyrics,omitempty"`

	// Error is set instead of the data fields when extraction failed.
	Error string `json:"ERROR,omitempty"`
}

// ErrorTrack builds the minimal error record for a failed track extraction.
func ErrorTrack(msg string) *Track {
	return &Track{Type: "track", Artists: []ArtistRef{}, Error: msg}
}

// Failed reports whether this record represents a failed extraction.
// When true, Error is the only meaningful field.
func (t *Track) Failed() bool { return t.Error != "" }

// Duration returns the track length as a time.Duration.
func (t *Track) Duration() time.Duration {
	return time.Duration(t.DurationMS) * time.Millisecond
}

// ArtistNames returns the credited artists as a display string.
func (t *Track) ArtistNames() string { return joinArtists(t.Artists) }

// CoverURL returns the URL of the largest album cover rendition, or "".
func (t *Track) CoverURL() string { return LargestImage(t.Album.Images) }

// MarshalJSON keeps the uniform error-record contract: a failed record
// serializes to exactly the ERROR key plus the four identity keys.
func (t *Track) MarshalJSON() ([]byte, error) {
	if t.Error != "" {
		return json.Marshal(errorRecord{Error: t.Error, Type: "track"})
	}
	type plain Track
	return json.Marshal((*plain)(t))
}
