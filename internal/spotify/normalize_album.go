package spotify

import (
	"fmt"

	"github.com/handiism/spotify-scraper/internal/model"
)

// NormalizeAlbum maps an extracted document to an Album record. Works
// for all three strategies, including the reduced application/ld+json
// shape used for enrichment when the primary paths fail.
func NormalizeAlbum(doc *ExtractedJSON, path string) (album *model.Album) {
	defer func() {
		if r := recover(); r != nil {
			album = model.ErrorAlbum(fmt.Sprintf("normalizing album: %v", r))
		}
	}()

	entity := getMap(doc.Data, path)
	if entity == nil {
		return model.ErrorAlbum("no album data in document")
	}

	id, name, uri := identity(entity)
	album = &model.Album{
		ID:          id,
		Name:        name,
		URI:         uri,
		Type:        "album",
		Artists:     normalizeArtistRefs(entity, "artists", "artists.items"),
		Images:      normalizeImages(entity, "images", "coverArt.sources"),
		Tracks:      normalizeTrackRefs(entity, "tracks.items", "trackList", "tracks"),
		ReleaseDate: releaseDate(entity),
	}

	if len(album.Artists) == 0 {
		album.Artists = jsonLDArtists(entity)
	}
	if album.ReleaseDate == "" {
		album.ReleaseDate = getString(entity, "datePublished")
	}
	if n, ok := getInt(entity, "total_tracks", "totalTracks", "trackCount", "numTracks"); ok {
		album.TotalTracks = n
	}
	album.Label = getString(entity, "label")
	if n, ok := getInt(entity, "popularity"); ok {
		album.Popularity = &n
	}

	return album
}

// jsonLDArtists reads the byArtist field of an application/ld+json
// document, which is served as either a single object or a list.
func jsonLDArtists(entity map[string]any) []model.ArtistRef {
	if obj := getMap(entity, "byArtist"); obj != nil {
		return []model.ArtistRef{artistRef(obj)}
	}
	return normalizeArtistRefs(entity, "byArtist")
}
