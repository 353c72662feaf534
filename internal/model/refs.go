package model

import (
	"strings"
	"time"
)

// Image is one rendition of a cover or avatar image.
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// ArtistRef is the minimal artist shape embedded in other records.
// It always has at least ID, Name and URI populated with safe defaults.
type ArtistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// AlbumRef is the minimal album shape embedded in a Track.
type AlbumRef struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	URI         string  `json:"uri"`
	Images      []Image `json:"images"`
	ReleaseDate string  `json:"release_date,omitempty"`
}

// TrackRef is the reduced track shape used inside Album.Tracks,
// Artist.TopTracks and Playlist.Tracks.
type TrackRef struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	URI         string      `json:"uri"`
	DurationMS  int         `json:"duration_ms"`
	IsExplicit  bool        `json:"is_explicit"`
	IsPlayable  bool        `json:"is_playable"`
	Artists     []ArtistRef `json:"artists"`
	TrackNumber int         `json:"track_number,omitempty"`
	Playcount   int64       `json:"playcount,omitempty"`
	PreviewURL  string      `json:"preview_url,omitempty"`
}

// Duration returns the track length as a time.Duration.
func (t TrackRef) Duration() time.Duration {
	return time.Duration(t.DurationMS) * time.Millisecond
}

// EpisodeRef is the reduced episode shape used inside Show.Episodes.
type EpisodeRef struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	URI             string `json:"uri"`
	DurationMS      int    `json:"duration_ms"`
	ReleaseDate     string `json:"release_date,omitempty"`
	Description     string `json:"description,omitempty"`
	AudioPreviewURL string `json:"audio_preview_url,omitempty"`
}

// ShowRef is the minimal show shape embedded in an Episode.
type ShowRef struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	URI       string `json:"uri"`
	Publisher string `json:"publisher,omitempty"`
}

// Owner identifies the user or curator that owns a Playlist.
type Owner struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// LargestImage returns the URL of the image with the largest pixel area,
// or "" when the slice is empty. Renditions without dimensions are treated
// as smallest, so an explicitly sized image always wins over an unsized one.
func LargestImage(images []Image) string {
	best := ""
	bestArea := -1
	for _, img := range images {
		area := img.Width * img.Height
		if img.URL != "" && area > bestArea {
			best = img.URL
			bestArea = area
		}
	}
	return best
}

// joinArtists renders a list of artist references as a single display
// string, e.g. "Artist A, Artist B".
func joinArtists(artists []ArtistRef) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return strings.Join(names, ", ")
}

// errorRecord is the five-key JSON shape every failed extraction
// serializes to, regardless of entity type.
type errorRecord struct {
	Error string `json:"ERROR"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	URI   string `json:"uri"`
	Type  string `json:"type"`
}
