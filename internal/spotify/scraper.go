package spotify

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/handiism/spotify-scraper/internal/model"
)

// Fetcher is the page transport contract the extractors consume. It
// returns the raw page text for a URL and fails only on transport
// problems (connection, timeout, non-2xx status). Headers, cookies,
// retries and proxies are entirely the fetcher's concern.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Scraper runs the full extraction pipeline for every entity type:
// classify the identifier, fetch the embed page, check the not-found
// state, extract the embedded JSON, and normalize it.
//
// A Scraper is stateless between calls and safe for concurrent use as
// long as its Fetcher is. Callers needing throughput parallelize at
// the method-call granularity; the scraper itself fetches one page at
// a time per call.
type Scraper struct {
	fetcher Fetcher
	log     *logrus.Logger
}

// NewScraper creates a Scraper using the given page fetcher. A nil
// logger disables logging.
func NewScraper(fetcher Fetcher, log *logrus.Logger) *Scraper {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Scraper{fetcher: fetcher, log: log}
}

// resolve classifies raw and checks it names an entity of the expected
// type, so mismatched URLs fail before any I/O.
func (s *Scraper) resolve(raw string, expected EntityType) (CanonicalURL, error) {
	c, err := Classify(raw)
	if err != nil {
		return CanonicalURL{}, err
	}
	if c.Type != expected {
		return CanonicalURL{}, &URLError{
			Input:  raw,
			Reason: fmt.Sprintf("expected a %s URL, got %s", expected, c.Type),
		}
	}
	return c, nil
}

// forID builds the canonical identity for a bare entity ID, used when
// IDs come from another entity's relationship data rather than a URL.
func forID(entityType EntityType, id string) (CanonicalURL, error) {
	id = strings.TrimSpace(id)
	if id == "" || strings.ContainsRune(id, '/') {
		return CanonicalURL{}, &URLError{Input: id, Reason: "entity ID must be non-empty with no slash"}
	}
	return CanonicalURL{Type: entityType, ID: id}, nil
}

// page fetches the embed variant of c's page. Transport failures come
// back as *NetworkError.
func (s *Scraper) page(ctx context.Context, c CanonicalURL) (string, error) {
	url := c.EmbedURL()
	s.log.WithFields(logrus.Fields{"type": c.Type, "id": c.ID}).Debug("fetching embed page")
	text, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", &NetworkError{URL: url, Err: err}
	}
	return text, nil
}

// document runs the not-found check and the extraction chain over a
// fetched page. Exactly one of the returns is non-nil.
func (s *Scraper) document(c CanonicalURL, text string) (*ExtractedJSON, error) {
	if IsNotFoundPage(text) {
		s.log.WithFields(logrus.Fields{"type": c.Type, "id": c.ID}).Info("entity not found")
		return nil, &NotFoundError{Type: c.Type, ID: c.ID}
	}
	doc, err := ExtractJSON(text)
	if err != nil {
		s.log.WithFields(logrus.Fields{"type": c.Type, "id": c.ID}).WithError(err).Warn("all extraction strategies failed")
		return nil, &ExtractionError{Type: c.Type, Diagnostic: err.Error()}
	}
	s.log.WithFields(logrus.Fields{
		"type":     c.Type,
		"id":       c.ID,
		"strategy": doc.Strategy,
	}).Debug("extracted page JSON")
	return doc, nil
}

// failed wraps a normalizer-reported failure in the extraction-failed
// classification.
func failed(c CanonicalURL, diagnostic string) string {
	return (&ExtractionError{Type: c.Type, Diagnostic: diagnostic}).Error()
}

// Track extracts a track record from any supported identifier (web
// URL, embed URL, or spotify:track:<id> URI).
//
// The returned record is always non-nil. The error is non-nil only
// when the page fetch itself failed; every other failure mode (bad
// URL, entity not found, page format change) is reported through the
// record's ERROR field so batch callers can treat all results
// uniformly as data.
func (s *Scraper) Track(ctx context.Context, rawURL string) (*model.Track, error) {
	c, err := s.resolve(rawURL, TypeTrack)
	if err != nil {
		return model.ErrorTrack(err.Error()), nil
	}
	return s.track(ctx, c)
}

// TrackByID extracts a track record from a bare track ID.
func (s *Scraper) TrackByID(ctx context.Context, id string) (*model.Track, error) {
	c, err := forID(TypeTrack, id)
	if err != nil {
		return model.ErrorTrack(err.Error()), nil
	}
	return s.track(ctx, c)
}

func (s *Scraper) track(ctx context.Context, c CanonicalURL) (*model.Track, error) {
	text, err := s.page(ctx, c)
	if err != nil {
		return model.ErrorTrack(err.Error()), err
	}
	doc, err := s.document(c, text)
	if err != nil {
		return model.ErrorTrack(err.Error()), nil
	}
	track := NormalizeTrack(doc, doc.EntityPath())
	if track.Failed() {
		return model.ErrorTrack(failed(c, track.Error)), nil
	}
	return track, nil
}

// Album extracts an album record from any supported identifier.
// Same error contract as Track.
func (s *Scraper) Album(ctx context.Context, rawURL string) (*model.Album, error) {
	c, err := s.resolve(rawURL, TypeAlbum)
	if err != nil {
		return model.ErrorAlbum(err.Error()), nil
	}
	return s.album(ctx, c)
}

// AlbumByID extracts an album record from a bare album ID.
func (s *Scraper) AlbumByID(ctx context.Context, id string) (*model.Album, error) {
	c, err := forID(TypeAlbum, id)
	if err != nil {
		return model.ErrorAlbum(err.Error()), nil
	}
	return s.album(ctx, c)
}

func (s *Scraper) album(ctx context.Context, c CanonicalURL) (*model.Album, error) {
	text, err := s.page(ctx, c)
	if err != nil {
		return model.ErrorAlbum(err.Error()), err
	}
	doc, err := s.document(c, text)
	if err != nil {
		return model.ErrorAlbum(err.Error()), nil
	}
	album := NormalizeAlbum(doc, doc.EntityPath())
	if album.Failed() {
		return model.ErrorAlbum(failed(c, album.Error)), nil
	}
	return album, nil
}

// Artist extracts an artist record from any supported identifier.
// Same error contract as Track.
func (s *Scraper) Artist(ctx context.Context, rawURL string) (*model.Artist, error) {
	c, err := s.resolve(rawURL, TypeArtist)
	if err != nil {
		return model.ErrorArtist(err.Error()), nil
	}
	return s.artist(ctx, c)
}

// ArtistByID extracts an artist record from a bare artist ID.
func (s *Scraper) ArtistByID(ctx context.Context, id string) (*model.Artist, error) {
	c, err := forID(TypeArtist, id)
	if err != nil {
		return model.ErrorArtist(err.Error()), nil
	}
	return s.artist(ctx, c)
}

func (s *Scraper) artist(ctx context.Context, c CanonicalURL) (*model.Artist, error) {
	text, err := s.page(ctx, c)
	if err != nil {
		return model.ErrorArtist(err.Error()), err
	}
	doc, err := s.document(c, text)
	if err != nil {
		return model.ErrorArtist(err.Error()), nil
	}
	artist := NormalizeArtist(doc, doc.EntityPath())
	if artist.Failed() {
		return model.ErrorArtist(failed(c, artist.Error)), nil
	}
	return artist, nil
}

// Playlist extracts a playlist record from any supported identifier.
// Same error contract as Track.
func (s *Scraper) Playlist(ctx context.Context, rawURL string) (*model.Playlist, error) {
	c, err := s.resolve(rawURL, TypePlaylist)
	if err != nil {
		return model.ErrorPlaylist(err.Error()), nil
	}
	return s.playlist(ctx, c)
}

// PlaylistByID extracts a playlist record from a bare playlist ID.
func (s *Scraper) PlaylistByID(ctx context.Context, id string) (*model.Playlist, error) {
	c, err := forID(TypePlaylist, id)
	if err != nil {
		return model.ErrorPlaylist(err.Error()), nil
	}
	return s.playlist(ctx, c)
}

func (s *Scraper) playlist(ctx context.Context, c CanonicalURL) (*model.Playlist, error) {
	text, err := s.page(ctx, c)
	if err != nil {
		return model.ErrorPlaylist(err.Error()), err
	}
	doc, err := s.document(c, text)
	if err != nil {
		return model.ErrorPlaylist(err.Error()), nil
	}
	playlist := NormalizePlaylist(doc, doc.EntityPath())
	if playlist.Failed() {
		return model.ErrorPlaylist(failed(c, playlist.Error)), nil
	}
	return playlist, nil
}
