package spotify

import (
	"fmt"

	"github.com/handiism/spotify-scraper/internal/model"
)

// NormalizePlaylist maps an extracted document to a Playlist record.
// The page truncates long playlists, so Tracks carries whatever subset
// was embedded.
func NormalizePlaylist(doc *ExtractedJSON, path string) (playlist *model.Playlist) {
	defer func() {
		if r := recover(); r != nil {
			playlist = model.ErrorPlaylist(fmt.Sprintf("normalizing playlist: %v", r))
		}
	}()

	entity := getMap(doc.Data, path)
	if entity == nil {
		return model.ErrorPlaylist("no playlist data in document")
	}

	id, name, uri := identity(entity)
	playlist = &model.Playlist{
		ID:     id,
		Name:   name,
		URI:    uri,
		Type:   "playlist",
		Images: normalizeImages(entity, "images", "coverArt.sources"),
		Tracks: normalizeTrackRefs(entity, "tracks.items", "trackList", "tracks"),
	}

	playlist.Owner = playlistOwner(entity)
	playlist.Description = getString(entity, "description")
	if v, ok := getBool(entity, "collaborative", "isCollaborative"); ok {
		playlist.Collaborative = &v
	}
	if v, ok := getBool(entity, "public", "isPublic"); ok {
		playlist.Public = &v
	}
	if n, ok := getInt64(entity, "followers.total", "followers"); ok {
		playlist.Followers = &n
	}

	return playlist
}

// playlistOwner reads the curator reference, served as either an owner
// object or the newer ownerV2 envelope. Returns nil when the page
// exposed nothing usable.
func playlistOwner(entity map[string]any) *model.Owner {
	obj := getMap(entity, "owner", "ownerV2.data")
	if obj == nil {
		return nil
	}
	uri := getString(obj, "uri")
	id := getString(obj, "id")
	if id == "" {
		id = idFromURI(uri)
	}
	name := getString(obj, "display_name", "displayName", "name")
	if id == "" && name == "" && uri == "" {
		return nil
	}
	return &model.Owner{ID: id, Name: name, URI: uri}
}
