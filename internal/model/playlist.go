package model

import "encoding/json"

// Playlist is the normalized record for a playlist.
type Playlist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`

	// Type is always "playlist".
	Type string `json:"type"`

	// Owner identifies the curating user, when exposed.
	Owner *Owner `json:"owner,omitempty"`

	// Images holds the playlist cover renditions. Never nil.
	Images []Image `json:"images"`

	// Tracks lists the playlist entries the page exposed. Long playlists
	// are routinely truncated by the page itself. Never nil.
	Tracks []TrackRef `json:"tracks"`

	// Description is the curator-supplied description, when present.
	Description string `json:"description,omitempty"`

	// Collaborative reports whether the playlist is collaborative.
	Collaborative *bool `json:"collaborative,omitempty"`

	// Public reports the playlist's visibility, when exposed.
	Public *bool `json:"public,omitempty"`

	// Followers is the follower count, when exposed.
	Followers *int64 `json:"followers,omitempty"`

	// Error is set instead of the data fields when extraction failed.
	Error string `json:"ERROR,omitempty"`
}

// ErrorPlaylist builds the minimal error record for a failed playlist
// extraction.
func ErrorPlaylist(msg string) *Playlist {
	return &Playlist{
		Type:   "playlist",
		Images: []Image{},
		Tracks: []TrackRef{},
		Error:  msg,
	}
}

// Failed reports whether this record represents a failed extraction.
func (p *Playlist) Failed() bool { return p.Error != "" }

// CoverURL returns the URL of the largest cover rendition, or "".
func (p *Playlist) CoverURL() string { return LargestImage(p.Images) }

// MarshalJSON keeps the uniform error-record contract.
func (p *Playlist) MarshalJSON() ([]byte, error) {
	if p.Error != "" {
		return json.Marshal(errorRecord{Error: p.Error, Type: "playlist"})
	}
	type plain Playlist
	return json.Marshal((*plain)(p))
}
