package spotify

import (
	"strings"

	"github.com/handiism/spotify-scraper/internal/model"
)

// Shared building blocks for the six entity normalizers. Each helper
// consumes the raw JSON through the null-safe getters, so a null where
// a collection or object was expected degrades to an empty value
// instead of failing the record.

// idFromURI extracts the trailing ID from a spotify:<type>:<id> URI.
func idFromURI(uri string) string {
	if i := strings.LastIndex(uri, ":"); i >= 0 {
		return uri[i+1:]
	}
	return ""
}

// identity reads the four unconditional fields of an entity subtree.
// The ID falls back to the URI tail because several page generations
// omit a dedicated id key.
func identity(entity map[string]any) (id, name, uri string) {
	uri = getString(entity, "uri")
	id = getString(entity, "id")
	if id == "" {
		id = idFromURI(uri)
	}
	name = getString(entity, "name", "title")
	return id, name, uri
}

// normalizeImages converts an image source list to the output shape.
// Entries without a URL are dropped. Never returns nil.
func normalizeImages(entity map[string]any, aliases ...string) []model.Image {
	images := []model.Image{}
	for _, el := range getSlice(entity, aliases...) {
		src := asMap(el)
		if src == nil {
			continue
		}
		url := getString(src, "url")
		if url == "" {
			continue
		}
		width, _ := getInt(src, "width")
		height, _ := getInt(src, "height")
		images = append(images, model.Image{URL: url, Width: width, Height: height})
	}
	return images
}

// normalizeArtistRefs converts an artist list to minimal references.
// Never returns nil.
func normalizeArtistRefs(entity map[string]any, aliases ...string) []model.ArtistRef {
	artists := []model.ArtistRef{}
	for _, el := range getSlice(entity, aliases...) {
		obj := asMap(el)
		if obj == nil {
			continue
		}
		artists = append(artists, artistRef(obj))
	}
	return artists
}

func artistRef(obj map[string]any) model.ArtistRef {
	uri := getString(obj, "uri")
	id := getString(obj, "id")
	if id == "" {
		id = idFromURI(uri)
	}
	return model.ArtistRef{
		ID:   id,
		Name: getString(obj, "name", "profile.name", "title"),
		URI:  uri,
	}
}

// normalizeTrackRefs converts a track list (album tracks, playlist
// entries, artist top tracks) to reduced track references. Never
// returns nil.
func normalizeTrackRefs(entity map[string]any, aliases ...string) []model.TrackRef {
	tracks := []model.TrackRef{}
	for i, el := range getSlice(entity, aliases...) {
		obj := asMap(el)
		if obj == nil {
			continue
		}
		tracks = append(tracks, trackRef(obj, i+1))
	}
	return tracks
}

// trackRef builds one reduced track reference. Playlist pages wrap
// each entry one object deeper, so the wrapper is unwrapped first.
// position is the 1-based list position used when the JSON carries no
// track number of its own.
func trackRef(obj map[string]any, position int) model.TrackRef {
	if inner := getMap(obj, "track", "itemV2.data"); inner != nil {
		obj = inner
	}

	uri := getString(obj, "uri")
	id := getString(obj, "id")
	if id == "" {
		id = idFromURI(uri)
	}

	ref := model.TrackRef{
		ID:      id,
		Name:    getString(obj, "name", "title"),
		URI:     uri,
		Artists: normalizeArtistRefs(obj, "artists", "artists.items"),
	}

	if d, ok := getInt(obj, "duration_ms", "duration", "duration.totalMilliseconds"); ok {
		ref.DurationMS = d
	}
	if v, ok := getBool(obj, "is_explicit", "isExplicit", "explicit"); ok {
		ref.IsExplicit = v
	}
	if v, ok := getBool(obj, "is_playable", "isPlayable"); ok {
		ref.IsPlayable = v
	}
	if n, ok := getInt(obj, "track_number", "trackNumber"); ok {
		ref.TrackNumber = n
	} else {
		ref.TrackNumber = position
	}
	if n, ok := getInt64(obj, "playcount", "playCount"); ok {
		ref.Playcount = n
	}
	ref.PreviewURL = getString(obj, "preview_url", "audioPreview.url")

	return ref
}

// normalizeEpisodeRefs converts an episode list to reduced episode
// references. Never returns nil.
func normalizeEpisodeRefs(entity map[string]any, aliases ...string) []model.EpisodeRef {
	episodes := []model.EpisodeRef{}
	for _, el := range getSlice(entity, aliases...) {
		obj := asMap(el)
		if obj == nil {
			continue
		}
		episodes = append(episodes, episodeRef(obj))
	}
	return episodes
}

func episodeRef(obj map[string]any) model.EpisodeRef {
	uri := getString(obj, "uri")
	id := getString(obj, "id")
	if id == "" {
		id = idFromURI(uri)
	}
	ref := model.EpisodeRef{
		ID:              id,
		Name:            getString(obj, "name", "title"),
		URI:             uri,
		ReleaseDate:     releaseDate(obj),
		Description:     getString(obj, "description"),
		AudioPreviewURL: getString(obj, "audio_preview_url", "audioPreview.url"),
	}
	if d, ok := getInt(obj, "duration_ms", "duration", "duration.totalMilliseconds"); ok {
		ref.DurationMS = d
	}
	return ref
}

// releaseDate reads a release date in any of the shapes the site has
// served: a plain string, an object with an ISO timestamp, or an
// object carrying only a year.
func releaseDate(obj map[string]any) string {
	return getString(obj, "release_date", "releaseDate.isoString", "releaseDate", "releaseDate.year")
}
