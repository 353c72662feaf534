package spotify

import (
	"fmt"

	"github.com/handiism/spotify-scraper/internal/model"
)

// NormalizeShow maps an extracted document to a Show record.
//
// The show embed page sometimes answers with the latest episode
// instead of the show itself. That case is detected by the entity's
// own type tag and handled by reconstructing what the episode knows
// about its parent; the result carries the FromEpisode flag so the
// extractor can enrich it from the regular show page.
func NormalizeShow(doc *ExtractedJSON, path string) (show *model.Show) {
	defer func() {
		if r := recover(); r != nil {
			show = model.ErrorShow(fmt.Sprintf("normalizing show: %v", r))
		}
	}()

	entity := getMap(doc.Data, path)
	if entity == nil {
		return model.ErrorShow("no show data in document")
	}

	if getString(entity, "type") == "episode" {
		return showFromEpisode(entity)
	}

	id, name, uri := identity(entity)
	show = &model.Show{
		ID:          id,
		Name:        name,
		URI:         uri,
		Type:        "show",
		Publisher:   getString(entity, "publisher", "subtitle"),
		Categories:  showCategories(entity),
		Episodes:    normalizeEpisodeRefs(entity, "episodes.items", "episodeList", "trackList", "episodes"),
		Rating:      getString(entity, "rating", "contentRating.label"),
		Description: getString(entity, "description", "htmlDescription"),
		Images:      normalizeImages(entity, "images", "coverArt.sources"),
	}

	if n, ok := getInt(entity, "total_episodes", "totalEpisodes", "episodeCount"); ok {
		show.TotalEpisodes = n
	}

	return show
}

// showFromEpisode builds a best-effort show record from episode data.
// The episode's subtitle is the show name on embed pages, and
// relatedEntityUri points back at the show.
func showFromEpisode(entity map[string]any) *model.Show {
	uri := getString(entity, "relatedEntityUri")
	return &model.Show{
		ID:          idFromURI(uri),
		Name:        getString(entity, "subtitle"),
		URI:         uri,
		Type:        "show",
		Categories:  []string{},
		Episodes:    []model.EpisodeRef{episodeRef(entity)},
		Images:      normalizeImages(entity, "relatedEntityCoverArt.sources", "relatedEntityCoverArt"),
		FromEpisode: true,
	}
}

// showCategories flattens the category list, whose elements have been
// served both as bare strings and as objects with a name key.
func showCategories(entity map[string]any) []string {
	categories := []string{}
	for _, el := range getSlice(entity, "categories", "topics") {
		switch v := el.(type) {
		case string:
			if v != "" {
				categories = append(categories, v)
			}
		case map[string]any:
			if name := getString(v, "name", "title"); name != "" {
				categories = append(categories, name)
			}
		}
	}
	return categories
}
