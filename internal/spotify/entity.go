package spotify

import "fmt"

// EntityType identifies one of the six supported Spotify entity kinds.
type EntityType string

const (
	TypeTrack    EntityType = "track"
	TypeAlbum    EntityType = "album"
	TypeArtist   EntityType = "artist"
	TypePlaylist EntityType = "playlist"
	TypeEpisode  EntityType = "episode"
	TypeShow     EntityType = "show"
)

// entityTypes lists every recognized type. New entity kinds only need
// to be registered here for the URL classifier to accept them.
var entityTypes = map[EntityType]bool{
	TypeTrack:    true,
	TypeAlbum:    true,
	TypeArtist:   true,
	TypePlaylist: true,
	TypeEpisode:  true,
	TypeShow:     true,
}

// ParseEntityType converts a path segment to an EntityType.
//
// Returns an error if:
//   - s is not one of track, album, artist, playlist, episode, show
func ParseEntityType(s string) (EntityType, error) {
	et := EntityType(s)
	if !entityTypes[et] {
		return "", fmt.Errorf("unrecognized entity type %q", s)
	}
	return et, nil
}

// String returns the type's path segment form.
func (et EntityType) String() string { return string(et) }
