package spotify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// fakeFetcher serves canned pages keyed by URL and records every call,
// so tests can assert on fetch counts and targets.
type fakeFetcher struct {
	pages map[string]string
	err   error
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	if f.err != nil {
		return "", f.err
	}
	page, ok := f.pages[url]
	if !ok {
		return "", fmt.Errorf("no canned page for %s", url)
	}
	return page, nil
}

const trackEmbedPage = `<html><body>
<script id="__NEXT_DATA__" type="application/json">
{"props":{"pageProps":{"state":{"data":{"entity":{
	"type":"track",
	"name":"Canned Song",
	"uri":"spotify:track:6rqhFgbbKwnb9MLmUQDhG6",
	"duration":207959,
	"isPlayable":true,
	"artists":[{"name":"Canned Artist","uri":"spotify:artist:a1"}],
	"audioPreview":{"url":"https://p.scdn.co/mp3-preview/canned"}
}}}}}}
</script>
</body></html>`

func TestScraperTrack(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://open.spotify.com/embed/track/6rqhFgbbKwnb9MLmUQDhG6": trackEmbedPage,
	}}
	s := NewScraper(fetcher, nil)

	track, err := s.Track(context.Background(), "https://open.spotify.com/track/6rqhFgbbKwnb9MLmUQDhG6?si=xyz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if track.Failed() {
		t.Fatalf("unexpected failure: %s", track.Error)
	}

	if track.Name != "Canned Song" {
		t.Errorf("Name = %q", track.Name)
	}
	if track.ID != "6rqhFgbbKwnb9MLmUQDhG6" {
		t.Errorf("ID = %q", track.ID)
	}
	if len(fetcher.calls) != 1 {
		t.Fatalf("fetch count = %d, want 1", len(fetcher.calls))
	}
	if !strings.Contains(fetcher.calls[0], "/embed/") {
		t.Errorf("fetched %q, want the embed variant", fetcher.calls[0])
	}
}

func TestScraperInvalidURLNoFetch(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "wrong entity type", input: "https://open.spotify.com/album/4aawyAB9vmqN3uQ7FjRGTy"},
		{name: "wrong host", input: "https://example.com/track/abc"},
		{name: "garbage", input: "::::"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{}
			s := NewScraper(fetcher, nil)

			track, err := s.Track(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("invalid URL must not surface a transport error, got %v", err)
			}
			if !track.Failed() {
				t.Fatal("expected an error record")
			}
			if len(fetcher.calls) != 0 {
				t.Errorf("fetch count = %d, want 0 for invalid input", len(fetcher.calls))
			}
		})
	}
}

func TestScraperNetworkError(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	s := NewScraper(fetcher, nil)

	track, err := s.Track(context.Background(), "https://open.spotify.com/track/6rqhFgbbKwnb9MLmUQDhG6")
	if err == nil {
		t.Fatal("expected a transport error")
	}

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error is %T, want *NetworkError", err)
	}
	if track == nil || !track.Failed() {
		t.Error("record must still report the failure for batch callers")
	}
}

func TestScraperNotFoundPrecedence(t *testing.T) {
	// A not-found page still carries syntactically valid JSON. The
	// page state must win over any extraction outcome.
	page := `<html><body><h1>Page not found</h1>
<script id="__NEXT_DATA__" type="application/json">{"props":{"pageProps":{}}}</script>
</body></html>`

	fetcher := &fakeFetcher{pages: map[string]string{
		"https://open.spotify.com/embed/track/gone123": page,
	}}
	s := NewScraper(fetcher, nil)

	track, err := s.Track(context.Background(), "https://open.spotify.com/track/gone123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !track.Failed() {
		t.Fatal("expected an error record")
	}
	if !strings.Contains(track.Error, "not found") {
		t.Errorf("ERROR = %q, want a not-found classification", track.Error)
	}
	if strings.Contains(track.Error, "extracting") {
		t.Errorf("ERROR = %q, must not be classified as an extraction failure", track.Error)
	}
}

func TestScraperExtractionFailed(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://open.spotify.com/embed/track/abc": `<html><body>layout changed, no scripts</body></html>`,
	}}
	s := NewScraper(fetcher, nil)

	track, err := s.Track(context.Background(), "https://open.spotify.com/track/abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !track.Failed() {
		t.Fatal("expected an error record")
	}
	if !strings.Contains(track.Error, "extracting track") {
		t.Errorf("ERROR = %q, want an extraction-failed classification", track.Error)
	}
}

func TestScraperTrackByID(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://open.spotify.com/embed/track/6rqhFgbbKwnb9MLmUQDhG6": trackEmbedPage,
	}}
	s := NewScraper(fetcher, nil)

	track, err := s.TrackByID(context.Background(), "6rqhFgbbKwnb9MLmUQDhG6")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if track.Failed() {
		t.Fatalf("unexpected failure: %s", track.Error)
	}
	if track.Name != "Canned Song" {
		t.Errorf("Name = %q", track.Name)
	}
}

func TestScraperByIDRejectsBadIDs(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{name: "empty", id: ""},
		{name: "whitespace", id: "   "},
		{name: "embedded slash", id: "abc/def"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{}
			s := NewScraper(fetcher, nil)

			track, err := s.TrackByID(context.Background(), tt.id)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !track.Failed() {
				t.Fatal("expected an error record")
			}
			if len(fetcher.calls) != 0 {
				t.Errorf("fetch count = %d, want 0", len(fetcher.calls))
			}
		})
	}
}

const showEmbedAsEpisodePage = `<html><body>
<script id="__NEXT_DATA__" type="application/json">
{"props":{"pageProps":{"state":{"data":{"entity":{
	"type":"episode",
	"name":"Latest Episode",
	"uri":"spotify:episode:ep1",
	"subtitle":"The Daily Show",
	"relatedEntityUri":"spotify:show:ABC123",
	"relatedEntityCoverArt":[{"url":"https://i.scdn.co/image/showcover","width":300,"height":300}],
	"duration":1500000
}}}}}}
</script>
</body></html>`

const showRegularPage = `<html><head>
<script type="application/ld+json">
{"@type":"PodcastSeries","name":"The Daily Show","description":"Daily news, daily.","publisher":{"name":"Podcast Network"}}
</script>
<meta property="og:image" content="https://i.scdn.co/image/ogcover"/>
</head></html>`

func TestScraperShowEnrichment(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://open.spotify.com/embed/show/ABC123": showEmbedAsEpisodePage,
		"https://open.spotify.com/show/ABC123":       showRegularPage,
	}}
	s := NewScraper(fetcher, nil)

	show, err := s.Show(context.Background(), "https://open.spotify.com/show/ABC123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if show.Failed() {
		t.Fatalf("unexpected failure: %s", show.Error)
	}

	if !show.FromEpisode {
		t.Error("FromEpisode not set")
	}
	if show.ID != "ABC123" {
		t.Errorf("ID = %q", show.ID)
	}
	if show.Name != "The Daily Show" {
		t.Errorf("Name = %q", show.Name)
	}
	if show.Publisher != "Podcast Network" {
		t.Errorf("Publisher = %q, want value merged from the regular page", show.Publisher)
	}
	if show.Description != "Daily news, daily." {
		t.Errorf("Description = %q", show.Description)
	}
	if len(fetcher.calls) != 2 {
		t.Fatalf("fetch count = %d, want embed page plus enrichment page", len(fetcher.calls))
	}
	if strings.Contains(fetcher.calls[1], "/embed/") {
		t.Errorf("enrichment fetched %q, want the regular page", fetcher.calls[1])
	}
}

func TestScraperShowEnrichmentFailureIsSoft(t *testing.T) {
	// Only the embed page is canned, so the enrichment fetch fails.
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://open.spotify.com/embed/show/ABC123": showEmbedAsEpisodePage,
	}}
	s := NewScraper(fetcher, nil)

	show, err := s.Show(context.Background(), "spotify:show:ABC123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if show.Failed() {
		t.Fatalf("enrichment failure downgraded the record: %s", show.Error)
	}

	if show.ID != "ABC123" || show.Name != "The Daily Show" {
		t.Errorf("reconstructed record lost data: %+v", show)
	}
	if show.Publisher != "" {
		t.Errorf("Publisher = %q, want empty after failed enrichment", show.Publisher)
	}
}

func TestScraperDirectShowSkipsEnrichment(t *testing.T) {
	page := `<html><body>
<script id="__NEXT_DATA__" type="application/json">
{"props":{"pageProps":{"state":{"data":{"entity":{
	"type":"show",
	"name":"The Big Show",
	"uri":"spotify:show:4rOoJ6Egrf8K2IrywzwOMk",
	"publisher":"Podcast Network"
}}}}}}
</script>
</body></html>`

	fetcher := &fakeFetcher{pages: map[string]string{
		"https://open.spotify.com/embed/show/4rOoJ6Egrf8K2IrywzwOMk": page,
	}}
	s := NewScraper(fetcher, nil)

	show, err := s.Show(context.Background(), "https://open.spotify.com/show/4rOoJ6Egrf8K2IrywzwOMk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if show.Failed() {
		t.Fatalf("unexpected failure: %s", show.Error)
	}
	if len(fetcher.calls) != 1 {
		t.Errorf("fetch count = %d, want 1 for a direct show record", len(fetcher.calls))
	}
}

func TestScraperEpisode(t *testing.T) {
	page := `<html><body>
<script id="__NEXT_DATA__" type="application/json">
{"props":{"pageProps":{"state":{"data":{"entity":{
	"type":"episode",
	"name":"Episode 42",
	"uri":"spotify:episode:5Q2dkZHfnGb2Y4BzzoBu2G",
	"subtitle":"The Show",
	"relatedEntityUri":"spotify:show:ABC123",
	"duration":1800000
}}}}}}
</script>
</body></html>`

	fetcher := &fakeFetcher{pages: map[string]string{
		"https://open.spotify.com/embed/episode/5Q2dkZHfnGb2Y4BzzoBu2G": page,
	}}
	s := NewScraper(fetcher, nil)

	episode, err := s.Episode(context.Background(), "spotify:episode:5Q2dkZHfnGb2Y4BzzoBu2G")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if episode.Failed() {
		t.Fatalf("unexpected failure: %s", episode.Error)
	}
	if episode.Show == nil || episode.Show.ID != "ABC123" {
		t.Errorf("Show ref = %+v", episode.Show)
	}
}
