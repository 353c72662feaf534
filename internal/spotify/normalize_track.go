package spotify

import (
	"fmt"
	"strings"

	"github.com/handiism/spotify-scraper/internal/model"
)

// NormalizeTrack maps an extracted document to a Track record.
//
// Parameters:
//   - doc: the document a strategy produced
//   - path: dotted traversal to the track subtree, usually
//     doc.EntityPath()
//
// Never panics and never returns nil: any failure is contained in the
// returned record's ERROR field so one bad document cannot abort a
// batch of extractions.
func NormalizeTrack(doc *ExtractedJSON, path string) (track *model.Track) {
	defer func() {
		if r := recover(); r != nil {
			track = model.ErrorTrack(fmt.Sprintf("normalizing track: %v", r))
		}
	}()

	entity := getMap(doc.Data, path)
	if entity == nil {
		return model.ErrorTrack("no track data in document")
	}

	id, name, uri := identity(entity)
	track = &model.Track{
		ID:      id,
		Name:    name,
		URI:     uri,
		Type:    "track",
		Artists: normalizeArtistRefs(entity, "artists", "artists.items"),
		Album:   trackAlbum(entity),
	}

	if d, ok := getInt(entity, "duration_ms", "duration", "duration.totalMilliseconds"); ok {
		track.DurationMS = d
	}
	if v, ok := getBool(entity, "is_explicit", "isExplicit", "explicit"); ok {
		track.IsExplicit = v
	}
	if v, ok := getBool(entity, "is_playable", "isPlayable"); ok {
		track.IsPlayable = v
	}
	track.PreviewURL = getString(entity, "preview_url", "audioPreview.url")
	if n, ok := getInt(entity, "track_number", "trackNumber"); ok {
		track.TrackNumber = n
	}
	if n, ok := getInt(entity, "disc_number", "discNumber"); ok {
		track.DiscNumber = n
	}
	track.Lyrics = trackLyrics(entity)

	return track
}

// trackAlbum assembles the album reference. The embed page has no
// album object; it points at the album through relatedEntityUri and
// serves the album cover as the track's own coverArt.
func trackAlbum(entity map[string]any) model.AlbumRef {
	if obj := getMap(entity, "album"); obj != nil {
		uri := getString(obj, "uri")
		id := getString(obj, "id")
		if id == "" {
			id = idFromURI(uri)
		}
		return model.AlbumRef{
			ID:          id,
			Name:        getString(obj, "name", "title"),
			URI:         uri,
			Images:      normalizeImages(obj, "images", "coverArt.sources"),
			ReleaseDate: releaseDate(obj),
		}
	}

	ref := model.AlbumRef{Images: normalizeImages(entity, "coverArt.sources")}
	if uri := getString(entity, "relatedEntityUri"); strings.HasPrefix(uri, "spotify:album:") {
		ref.URI = uri
		ref.ID = idFromURI(uri)
	}
	ref.ReleaseDate = releaseDate(entity)
	return ref
}

// trackLyrics flattens the lyrics block to plain lines. Lines have
// been served both as bare strings and as objects with a words key.
func trackLyrics(entity map[string]any) []string {
	raw := getSlice(entity, "lyrics.lines", "lyrics")
	if raw == nil {
		return nil
	}
	lines := make([]string, 0, len(raw))
	for _, el := range raw {
		switch v := el.(type) {
		case string:
			lines = append(lines, v)
		case map[string]any:
			if words := getString(v, "words", "line"); words != "" {
				lines = append(lines, words)
			}
		}
	}
	if len(lines) == 0 {
		return nil
	}
	return lines
}
