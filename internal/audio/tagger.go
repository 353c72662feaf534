package audio

import (
	"fmt"
	"os"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/handiism/spotify-scraper/internal/model"
)

// TagEditAction defines how to handle individual ID3 tags.
//
// Each tag field can be configured independently to determine whether
// it should be modified, cleared, or left unchanged.
type TagEditAction int

const (
	// TagEmpty clears the tag value (sets to empty string).
	TagEmpty TagEditAction = iota

	// TagModify updates the tag with the scraped metadata.
	TagModify

	// TagDoNotModify leaves the existing tag value unchanged.
	TagDoNotModify
)

// TagConfig holds tagging configuration for each ID3 field.
//
// This allows fine-grained control over which tags are modified
// when processing downloaded preview MP3 files.
//
// Example:
//
//	cfg := &TagConfig{
//	    ModifyTags:  true,
//	    Artist:      TagModify,      // Update artist from the scraped record
//	    Album:       TagModify,      // Update album from the scraped record
//	    TrackTitle:  TagModify,      // Update title from the scraped record
//	    Year:        TagModify,      // Update year from release date
//	    Lyrics:      TagModify,      // Add lyrics if the page exposed them
//	    Comments:    TagEmpty,       // Clear any existing comments
//	    AlbumArtist: TagDoNotModify, // Keep existing album artist
//	}
type TagConfig struct {
	// ModifyTags is a master switch. If false, no string tags are modified.
	ModifyTags bool

	// Artist controls the TPE1 (Lead artist) frame.
	Artist TagEditAction

	// AlbumArtist controls the TPE2 (Album artist) frame.
	AlbumArtist TagEditAction

	// Album controls the TALB (Album title) frame.
	Album TagEditAction

	// Year controls the TYER (Year) frame.
	Year TagEditAction

	// Date controls the TDRC (Recording time) frame (ID3v2.4).
	Date TagEditAction

	// TrackNumber controls the TRCK (Track number) frame.
	TrackNumber TagEditAction

	// DiscNumber controls the TPOS (Part of a set) frame.
	DiscNumber TagEditAction

	// TrackTitle controls the TIT2 (Title) frame.
	TrackTitle TagEditAction

	// Lyrics controls the USLT (Unsynchronized lyrics) frame.
	Lyrics TagEditAction

	// Comments controls the COMM (Comments) frame.
	Comments TagEditAction
}

// DefaultTagConfig returns the default tag configuration.
//
// By default, all tags except comments are set to TagModify,
// which updates them with scraped metadata. Comments are cleared.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		ModifyTags:  true,
		Artist:      TagModify,
		AlbumArtist: TagModify,
		Album:       TagModify,
		Year:        TagModify,
		Date:        TagModify,
		TrackNumber: TagModify,
		DiscNumber:  TagModify,
		TrackTitle:  TagModify,
		Lyrics:      TagModify,
		Comments:    TagEmpty,
	}
}

// Tagger writes ID3 tags to downloaded preview MP3 files.
//
// Preview files served from p.scdn.co carry no metadata at all, so
// without tagging a directory of previews is a directory of anonymous
// 30-second clips. Tagger uses the id3v2 library to write:
//   - Artist, Album Artist, Album, Title
//   - Track Number, Disc Number, Year, Recording Date
//   - Lyrics (unsynchronized), when the page exposed them
//   - Cover Art (attached picture)
//
// Example:
//
//	tagger := NewTagger(DefaultTagConfig())
//
//	// After downloading the preview
//	err := tagger.SaveTags(path, track, artworkBytes)
//	if err != nil {
//	    log.Printf("Failed to tag %s: %v", path, err)
//	}
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// SaveTags writes ID3 tags to the preview MP3 at path.
//
// This method:
//  1. Opens the existing MP3 file (or creates empty tags if none exist)
//  2. Updates string tags from the track record based on TagConfig
//  3. Embeds cover art if artwork bytes are provided
//  4. Saves the modified tags to the file
//
// Parameters:
//   - path: The MP3 file to tag
//   - track: The scraped track record (title, artists, album, lyrics)
//   - artwork: JPEG image bytes for cover art (nil to skip artwork)
//
// Returns an error if the file cannot be opened or saved.
//
// Example:
//
//	tagger := NewTagger(DefaultTagConfig())
//	err := tagger.SaveTags("/music/preview.mp3", track, jpegBytes)
func (t *Tagger) SaveTags(path string, track *model.Track, artwork []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		// If file doesn't have tags, create new
		if os.IsNotExist(err) {
			tag = id3v2.NewEmptyTag()
		} else {
			return err
		}
	}
	defer tag.Close()

	if t.config.ModifyTags {
		t.updateStringTags(tag, track)
	}

	if artwork != nil {
		t.updateArtwork(tag, artwork)
	}

	return tag.Save()
}

// updateStringTags updates text-based ID3 frames based on configuration.
func (t *Tagger) updateStringTags(tag *id3v2.Tag, track *model.Track) {
	// Artist (TPE1)
	switch t.config.Artist {
	case TagEmpty:
		tag.SetArtist("")
	case TagModify:
		tag.SetArtist(track.ArtistNames())
	}

	// Album (TALB)
	switch t.config.Album {
	case TagEmpty:
		tag.SetAlbum("")
	case TagModify:
		if track.Album.Name != "" {
			tag.SetAlbum(track.Album.Name)
		}
	}

	// Year (TYER) - ID3v2.3
	switch t.config.Year {
	case TagEmpty:
		tag.DeleteFrames("TYER")
	case TagModify:
		if year := releaseYear(track.Album.ReleaseDate); year != "" {
			tag.AddTextFrame("TYER", id3v2.EncodingUTF8, year)
		}
	}

	// Date (TDRC) - ID3v2.4
	switch t.config.Date {
	case TagEmpty:
		tag.DeleteFrames("TDRC")
	case TagModify:
		if track.Album.ReleaseDate != "" {
			tag.AddTextFrame("TDRC", id3v2.EncodingUTF8, track.Album.ReleaseDate)
		}
	}

	// Track Number (TRCK)
	switch t.config.TrackNumber {
	case TagEmpty:
		tag.DeleteFrames("TRCK")
	case TagModify:
		if track.TrackNumber > 0 {
			tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, fmt.Sprintf("%d", track.TrackNumber))
		}
	}

	// Disc Number (TPOS)
	switch t.config.DiscNumber {
	case TagEmpty:
		tag.DeleteFrames("TPOS")
	case TagModify:
		if track.DiscNumber > 0 {
			tag.AddTextFrame("TPOS", id3v2.EncodingUTF8, fmt.Sprintf("%d", track.DiscNumber))
		}
	}

	// Track Title (TIT2)
	switch t.config.TrackTitle {
	case TagEmpty:
		tag.SetTitle("")
	case TagModify:
		tag.SetTitle(track.Name)
	}

	// Album Artist (TPE2)
	switch t.config.AlbumArtist {
	case TagEmpty:
		tag.DeleteFrames("TPE2")
	case TagModify:
		if len(track.Artists) > 0 {
			tag.AddTextFrame("TPE2", id3v2.EncodingUTF8, track.Artists[0].Name)
		}
	}

	// Lyrics (USLT)
	switch t.config.Lyrics {
	case TagEmpty:
		tag.DeleteFrames(tag.CommonID("Unsynchronised lyrics/text transcription"))
	case TagModify:
		if len(track.Lyrics) > 0 {
			uslf := id3v2.UnsynchronisedLyricsFrame{
				Encoding:          id3v2.EncodingUTF8,
				Language:          "eng",
				ContentDescriptor: "",
				Lyrics:            strings.Join(track.Lyrics, "\n"),
			}
			tag.AddUnsynchronisedLyricsFrame(uslf)
		}
	}

	// Comments (COMM)
	if t.config.Comments == TagEmpty {
		tag.DeleteFrames(tag.CommonID("Comments"))
	}

	// Genre - always clear, the web player pages don't expose genre info
	tag.SetGenre("")
}

// updateArtwork embeds cover art as an attached picture frame.
func (t *Tagger) updateArtwork(tag *id3v2.Tag, artwork []byte) {
	// Remove any existing cover pictures
	tag.DeleteFrames(tag.CommonID("Attached picture"))

	// Add new artwork as front cover (APIC frame)
	pic := id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    "image/jpeg",
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     artwork,
	}
	tag.AddAttachedPicture(pic)
}

// releaseYear extracts the 4-digit year from a scraped release date.
// Dates arrive as "2006-01-02", "2006-01" or bare "2006" strings.
func releaseYear(date string) string {
	if len(date) < 4 {
		return ""
	}
	year := date[:4]
	for _, r := range year {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return year
}
