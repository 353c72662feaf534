package model

import "encoding/json"

// Album is the normalized record for an album.
type Album struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`

	// Type is always "album".
	Type string `json:"type"`

	// Artists lists the album artists. Never nil.
	Artists []ArtistRef `json:"artists"`

	// Images holds the cover renditions, largest usually last. Never nil.
	Images []Image `json:"images"`

	// Tracks is the album's track list in disc order. Never nil.
	Tracks []TrackRef `json:"tracks"`

	// ReleaseDate is the release date as the page reported it,
	// typically "2006-01-02" but sometimes just a year.
	ReleaseDate string `json:"release_date,omitempty"`

	// TotalTracks is the advertised track count, which can exceed
	// len(Tracks) when the page truncates the list.
	TotalTracks int `json:"total_tracks,omitempty"`

	// Label is the releasing record label, when exposed.
	Label string `json:"label,omitempty"`

	// Popularity is the 0-100 popularity score. Pointer because 0 is a
	// valid score distinct from "not reported".
	Popularity *int `json:"popularity,omitempty"`

	// Error is set instead of the data fields when extraction failed.
	Error string `json:"ERROR,omitempty"`
}

// ErrorAlbum builds the minimal error record for a failed album extraction.
func ErrorAlbum(msg string) *Album {
	return &Album{
		Type:    "album",
		Artists: []ArtistRef{},
		Images:  []Image{},
		Tracks:  []TrackRef{},
		Error:   msg,
	}
}

// Failed reports whether this record represents a failed extraction.
func (a *Album) Failed() bool { return a.Error != "" }

// ArtistNames returns the album artists as a display string.
func (a *Album) ArtistNames() string { return joinArtists(a.Artists) }

// CoverURL returns the URL of the largest cover rendition, or "".
func (a *Album) CoverURL() string { return LargestImage(a.Images) }

// MarshalJSON keeps the uniform error-record contract.
func (a *Album) MarshalJSON() ([]byte, error) {
	if a.Error != "" {
		return json.Marshal(errorRecord{Error: a.Error, Type: "album"})
	}
	type plain Album
	return json.Marshal((*plain)(a))
}
