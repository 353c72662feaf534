package spotify

import (
	"fmt"

	"github.com/handiism/spotify-scraper/internal/model"
)

// NormalizeArtist maps an extracted document to an Artist record.
func NormalizeArtist(doc *ExtractedJSON, path string) (artist *model.Artist) {
	defer func() {
		if r := recover(); r != nil {
			artist = model.ErrorArtist(fmt.Sprintf("normalizing artist: %v", r))
		}
	}()

	entity := getMap(doc.Data, path)
	if entity == nil {
		return model.ErrorArtist("no artist data in document")
	}

	id, name, uri := identity(entity)
	artist = &model.Artist{
		ID:        id,
		Name:      name,
		URI:       uri,
		Type:      "artist",
		Images:    normalizeImages(entity, "images", "visuals.avatarImage.sources", "coverArt.sources"),
		TopTracks: normalizeTrackRefs(entity, "top_tracks", "topTracks.items", "topTracks", "trackList"),
	}

	artist.Bio = getString(entity, "bio", "profile.biography.text", "biography")
	if n, ok := getInt64(entity, "followers.total", "followers", "stats.followers"); ok {
		artist.Followers = &n
	}
	if n, ok := getInt64(entity, "monthly_listeners", "monthlyListeners", "stats.monthlyListeners"); ok {
		artist.MonthlyListeners = &n
	}
	if v, ok := getBool(entity, "is_verified", "isVerified", "verified"); ok {
		artist.IsVerified = &v
	}

	return artist
}
