package model

import "encoding/json"

// Show is the normalized record for a podcast show.
//
// Show pages are served without an embed variant that carries the full
// episode list, so a Show extracted through an episode page only has
// the fields the episode JSON exposed about its parent. FromEpisode
// marks such records.
type Show struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`

	// Type is always "show".
	Type string `json:"type"`

	// Publisher is the publishing entity named on the page.
	Publisher string `json:"publisher"`

	// Categories lists the show's topic tags. Never nil on a
	// successful record.
	Categories []string `json:"categories"`

	// Episodes lists the episodes the page exposed. Never nil on a
	// successful record.
	Episodes []EpisodeRef `json:"episodes"`

	// TotalEpisodes is the episode count the page reported, which can
	// exceed len(Episodes).
	TotalEpisodes int `json:"total_episodes"`

	// Rating is the content rating label, when present.
	Rating string `json:"rating,omitempty"`

	// Description is the show blurb, when present.
	Description string `json:"description,omitempty"`

	// Images holds the show cover art in the sizes the page offered.
	Images []Image `json:"images,omitempty"`

	// Error is set instead of the data fields when extraction failed.
	Error string `json:"ERROR,omitempty"`

	// FromEpisode marks a record reconstructed from an episode page
	// rather than extracted from a show page.
	FromEpisode bool `json:"-"`
}

// ErrorShow builds the minimal error record for a failed show
// extraction.
func ErrorShow(msg string) *Show {
	return &Show{
		Type:       "show",
		Categories: []string{},
		Episodes:   []EpisodeRef{},
		Error:      msg,
	}
}

// Failed reports whether this record represents a failed extraction.
func (s *Show) Failed() bool { return s.Error != "" }

// CoverURL returns the URL of the largest show cover, or "" when the
// record has no images.
func (s *Show) CoverURL() string { return LargestImage(s.Images) }

// MarshalJSON keeps the uniform error-record contract.
func (s *Show) MarshalJSON() ([]byte, error) {
	if s.Error != "" {
		return json.Marshal(errorRecord{Error: s.Error, Type: "show"})
	}
	type plain Show
	return json.Marshal((*plain)(s))
}
