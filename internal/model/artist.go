package model

import "encoding/json"

// Artist is the normalized record for an artist.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`

	// Type is always "artist".
	Type string `json:"type"`

	// Images holds avatar/header renditions. Never nil.
	Images []Image `json:"images"`

	// TopTracks lists the artist's most played tracks. Never nil.
	TopTracks []TrackRef `json:"top_tracks"`

	// Bio is the artist biography text, when exposed. May contain the
	// page's inline markup stripped to plain text.
	Bio string `json:"bio,omitempty"`

	// Followers is the follower count, when exposed.
	Followers *int64 `json:"followers,omitempty"`

	// MonthlyListeners is the monthly listener count, when exposed.
	MonthlyListeners *int64 `json:"monthly_listeners,omitempty"`

	// IsVerified reports the verified-artist badge. Pointer so that an
	// unreported badge is distinguishable from "not verified".
	IsVerified *bool `json:"is_verified,omitempty"`

	// Error is set instead of the data fields when extraction failed.
	Error string `json:"ERROR,omitempty"`
}

// ErrorArtist builds the minimal error record for a failed artist extraction.
func ErrorArtist(msg string) *Artist {
	return &Artist{
		Type:      "artist",
		Images:    []Image{},
		TopTracks: []TrackRef{},
		Error:     msg,
	}
}

// Failed reports whether this record represents a failed extraction.
func (a *Artist) Failed() bool { return a.Error != "" }

// CoverURL returns the URL of the largest avatar rendition, or "".
func (a *Artist) CoverURL() string { return LargestImage(a.Images) }

// MarshalJSON keeps the uniform error-record contract.
func (a *Artist) MarshalJSON() ([]byte, error) {
	if a.Error != "" {
		return json.Marshal(errorRecord{Error: a.Error, Type: "artist"})
	}
	type plain Artist
	return json.Marshal((*plain)(a))
}
