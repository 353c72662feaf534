package spotify

import (
	"fmt"
	"strings"

	"github.com/handiism/spotify-scraper/internal/model"
)

// NormalizeEpisode maps an extracted document to an Episode record.
func NormalizeEpisode(doc *ExtractedJSON, path string) (episode *model.Episode) {
	defer func() {
		if r := recover(); r != nil {
			episode = model.ErrorEpisode(fmt.Sprintf("normalizing episode: %v", r))
		}
	}()

	entity := getMap(doc.Data, path)
	if entity == nil {
		return model.ErrorEpisode("no episode data in document")
	}

	id, name, uri := identity(entity)
	episode = &model.Episode{
		ID:   id,
		Name: name,
		URI:  uri,
		Type: "episode",
	}

	if d, ok := getInt(entity, "duration_ms", "duration", "duration.totalMilliseconds"); ok {
		episode.DurationMS = d
	}
	episode.Show = episodeShow(entity)
	episode.AudioPreviewURL = getString(entity, "audio_preview_url", "audioPreview.url")
	episode.ReleaseDate = releaseDate(entity)
	if v, ok := getBool(entity, "has_video", "hasVideo", "isVideo"); ok {
		episode.HasVideo = &v
	}
	if v, ok := getBool(entity, "is_trailer", "isTrailer"); ok {
		episode.IsTrailer = &v
	}

	return episode
}

// episodeShow assembles the parent show reference. Embed pages carry
// it through relatedEntityUri plus the page subtitle instead of a
// dedicated show object.
func episodeShow(entity map[string]any) *model.ShowRef {
	if obj := getMap(entity, "show"); obj != nil {
		uri := getString(obj, "uri")
		id := getString(obj, "id")
		if id == "" {
			id = idFromURI(uri)
		}
		return &model.ShowRef{
			ID:        id,
			Name:      getString(obj, "name", "title"),
			URI:       uri,
			Publisher: getString(obj, "publisher"),
		}
	}

	uri := getString(entity, "relatedEntityUri")
	if !strings.HasPrefix(uri, "spotify:show:") {
		return nil
	}
	return &model.ShowRef{
		ID:   idFromURI(uri),
		Name: getString(entity, "subtitle"),
		URI:  uri,
	}
}
