package spotify

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/handiism/spotify-scraper/internal/model"
)

// Episode extracts an episode record from any supported identifier.
// Same error contract as Track.
func (s *Scraper) Episode(ctx context.Context, rawURL string) (*model.Episode, error) {
	c, err := s.resolve(rawURL, TypeEpisode)
	if err != nil {
		return model.ErrorEpisode(err.Error()), nil
	}
	return s.episode(ctx, c)
}

// EpisodeByID extracts an episode record from a bare episode ID.
func (s *Scraper) EpisodeByID(ctx context.Context, id string) (*model.Episode, error) {
	c, err := forID(TypeEpisode, id)
	if err != nil {
		return model.ErrorEpisode(err.Error()), nil
	}
	return s.episode(ctx, c)
}

func (s *Scraper) episode(ctx context.Context, c CanonicalURL) (*model.Episode, error) {
	text, err := s.page(ctx, c)
	if err != nil {
		return model.ErrorEpisode(err.Error()), err
	}
	doc, err := s.document(c, text)
	if err != nil {
		return model.ErrorEpisode(err.Error()), nil
	}
	episode := NormalizeEpisode(doc, doc.EntityPath())
	if episode.Failed() {
		return model.ErrorEpisode(failed(c, episode.Error)), nil
	}
	return episode, nil
}

// Show extracts a show record from any supported identifier. Same
// error contract as Track.
//
// When the embed page answered with episode data instead of show data,
// the reconstructed record is enriched with publisher and description
// parsed from the regular show page. Enrichment is best effort: its
// failures never downgrade an otherwise successful extraction.
func (s *Scraper) Show(ctx context.Context, rawURL string) (*model.Show, error) {
	c, err := s.resolve(rawURL, TypeShow)
	if err != nil {
		return model.ErrorShow(err.Error()), nil
	}
	return s.show(ctx, c)
}

// ShowByID extracts a show record from a bare show ID.
func (s *Scraper) ShowByID(ctx context.Context, id string) (*model.Show, error) {
	c, err := forID(TypeShow, id)
	if err != nil {
		return model.ErrorShow(err.Error()), nil
	}
	return s.show(ctx, c)
}

func (s *Scraper) show(ctx context.Context, c CanonicalURL) (*model.Show, error) {
	text, err := s.page(ctx, c)
	if err != nil {
		return model.ErrorShow(err.Error()), err
	}
	doc, err := s.document(c, text)
	if err != nil {
		return model.ErrorShow(err.Error()), nil
	}
	show := NormalizeShow(doc, doc.EntityPath())
	if show.Failed() {
		return model.ErrorShow(failed(c, show.Error)), nil
	}
	if show.FromEpisode && show.ID != "" {
		s.enrichShow(ctx, show)
	}
	return show, nil
}

// enrichShow merges fields parsed from the regular (non-embed) show
// page into a record reconstructed from episode data.
func (s *Scraper) enrichShow(ctx context.Context, show *model.Show) {
	pageURL := CanonicalURL{Type: TypeShow, ID: show.ID}.URL()
	text, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		s.log.WithField("id", show.ID).WithError(err).Debug("show enrichment fetch failed")
		return
	}

	page := parseShowPage(text)
	if show.Name == "" {
		show.Name = page.Name
	}
	if show.Publisher == "" {
		show.Publisher = page.Publisher
	}
	if show.Description == "" {
		show.Description = page.Description
	}
	if len(show.Images) == 0 && page.Image != "" {
		show.Images = []model.Image{{URL: page.Image}}
	}
}

// showPageData is what the regular show page exposes without an
// authenticated session.
type showPageData struct {
	Name        string
	Publisher   string
	Description string
	Image       string
}

// parseShowPage pulls show fields from a regular show page, preferring
// its JSON-LD block and falling back to OpenGraph meta tags.
func parseShowPage(text string) showPageData {
	var data showPageData
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return data
	}

	if ld, perr := extractJSONLD(doc); perr == nil {
		data.Name = getString(ld, "name")
		data.Description = getString(ld, "description")
		data.Publisher = getString(ld, "publisher.name", "publisher", "author.name", "author")
	}
	if data.Name == "" {
		data.Name = metaContent(doc, "og:title")
	}
	if data.Description == "" {
		data.Description = metaContent(doc, "og:description")
	}
	data.Image = metaContent(doc, "og:image")
	return data
}

func metaContent(doc *goquery.Document, property string) string {
	content, _ := doc.Find(fmt.Sprintf("meta[property='%s']", property)).First().Attr("content")
	return content
}
