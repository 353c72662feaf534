package spotify

import (
	"testing"
)

// embedDoc wraps an entity JSON literal in the next_data envelope the
// current page generation serves.
func embedDoc(t *testing.T, entityJSON string) *ExtractedJSON {
	t.Helper()
	raw := `{"props":{"pageProps":{"state":{"data":{"entity":` + entityJSON + `}}}}}`
	return &ExtractedJSON{Data: decode(t, raw), Strategy: StrategyNextData}
}

// rootDoc treats an entity JSON literal as a whole document, the way
// the legacy resource script serves it.
func rootDoc(t *testing.T, entityJSON string) *ExtractedJSON {
	t.Helper()
	return &ExtractedJSON{Data: decode(t, entityJSON), Strategy: StrategyResourceScript}
}

func TestNormalizeTrackEmbedShape(t *testing.T) {
	doc := embedDoc(t, `{
		"type": "track",
		"id": "6rqhFgbbKwnb9MLmUQDhG6",
		"name": "Song Title",
		"uri": "spotify:track:6rqhFgbbKwnb9MLmUQDhG6",
		"duration": 207959,
		"isExplicit": true,
		"isPlayable": true,
		"audioPreview": {"url": "https://p.scdn.co/mp3-preview/xyz"},
		"artists": [{"name": "Some Artist", "uri": "spotify:artist:a1"}],
		"coverArt": {"sources": [
			{"url": "https://i.scdn.co/image/small", "width": 64, "height": 64},
			{"url": "https://i.scdn.co/image/large", "width": 640, "height": 640}
		]},
		"relatedEntityUri": "spotify:album:al1",
		"releaseDate": {"isoString": "2013-05-17T00:00:00Z"}
	}`)

	track := NormalizeTrack(doc, doc.EntityPath())
	if track.Failed() {
		t.Fatalf("unexpected failure: %s", track.Error)
	}

	if track.ID != "6rqhFgbbKwnb9MLmUQDhG6" {
		t.Errorf("ID = %q", track.ID)
	}
	if track.DurationMS != 207959 {
		t.Errorf("DurationMS = %d, want 207959", track.DurationMS)
	}
	if !track.IsExplicit || !track.IsPlayable {
		t.Errorf("flags = explicit %v playable %v, want both true", track.IsExplicit, track.IsPlayable)
	}
	if track.PreviewURL != "https://p.scdn.co/mp3-preview/xyz" {
		t.Errorf("PreviewURL = %q", track.PreviewURL)
	}
	if len(track.Artists) != 1 || track.Artists[0].ID != "a1" {
		t.Errorf("Artists = %+v, want one ref with ID derived from URI", track.Artists)
	}
	if track.Album.ID != "al1" || track.Album.URI != "spotify:album:al1" {
		t.Errorf("Album ref = %+v, want ID al1 from relatedEntityUri", track.Album)
	}
	if len(track.Album.Images) != 2 {
		t.Errorf("Album.Images has %d entries, want 2", len(track.Album.Images))
	}
	if track.CoverURL() != "https://i.scdn.co/image/large" {
		t.Errorf("CoverURL = %q, want the larger rendition", track.CoverURL())
	}
	if track.Album.ReleaseDate != "2013-05-17T00:00:00Z" {
		t.Errorf("ReleaseDate = %q", track.Album.ReleaseDate)
	}
}

func TestNormalizeTrackLegacyShape(t *testing.T) {
	doc := rootDoc(t, `{
		"type": "track",
		"id": "t1",
		"name": "Legacy Song",
		"uri": "spotify:track:t1",
		"duration_ms": 100000,
		"is_explicit": false,
		"preview_url": "https://p.scdn.co/mp3-preview/legacy",
		"track_number": 3,
		"disc_number": 1,
		"artists": [{"id": "a9", "name": "Legacy Artist", "uri": "spotify:artist:a9"}],
		"album": {
			"id": "al9",
			"name": "Legacy Album",
			"uri": "spotify:album:al9",
			"images": [{"url": "https://i.scdn.co/image/cover", "width": 300, "height": 300}],
			"release_date": "1999-09-09"
		}
	}`)

	track := NormalizeTrack(doc, doc.EntityPath())
	if track.Failed() {
		t.Fatalf("unexpected failure: %s", track.Error)
	}

	if track.DurationMS != 100000 {
		t.Errorf("DurationMS = %d", track.DurationMS)
	}
	if track.TrackNumber != 3 || track.DiscNumber != 1 {
		t.Errorf("positions = track %d disc %d", track.TrackNumber, track.DiscNumber)
	}
	if track.Album.Name != "Legacy Album" || track.Album.ReleaseDate != "1999-09-09" {
		t.Errorf("Album = %+v", track.Album)
	}
	if track.PreviewURL != "https://p.scdn.co/mp3-preview/legacy" {
		t.Errorf("PreviewURL = %q", track.PreviewURL)
	}
}

func TestNormalizeTrackNullArtists(t *testing.T) {
	doc := embedDoc(t, `{
		"type": "track",
		"id": "t1",
		"name": "Still Works",
		"uri": "spotify:track:t1",
		"artists": null,
		"album": null
	}`)

	track := NormalizeTrack(doc, doc.EntityPath())
	if track.Failed() {
		t.Fatalf("unexpected failure: %s", track.Error)
	}
	if track.Artists == nil || len(track.Artists) != 0 {
		t.Errorf("Artists = %#v, want empty non-nil slice", track.Artists)
	}
	if track.ID == "" || track.Name == "" || track.URI == "" {
		t.Errorf("identity fields lost: %+v", track)
	}
}

func TestNormalizeAllNullCollections(t *testing.T) {
	// Every optional nested key explicitly null, the shape the site
	// actually serves. No normalizer may fail or emit a nil collection.
	t.Run("track", func(t *testing.T) {
		doc := embedDoc(t, `{"id":"t","name":"n","uri":"u","artists":null,"album":null,
			"duration_ms":null,"preview_url":null,"lyrics":null}`)
		track := NormalizeTrack(doc, doc.EntityPath())
		if track.Failed() {
			t.Fatalf("failed: %s", track.Error)
		}
		if track.Artists == nil || track.Album.Images == nil {
			t.Error("nil collection leaked through")
		}
	})

	t.Run("album", func(t *testing.T) {
		doc := embedDoc(t, `{"id":"a","name":"n","uri":"u","artists":null,"images":null,
			"tracks":null,"release_date":null,"label":null,"popularity":null}`)
		album := NormalizeAlbum(doc, doc.EntityPath())
		if album.Failed() {
			t.Fatalf("failed: %s", album.Error)
		}
		if album.Artists == nil || album.Images == nil || album.Tracks == nil {
			t.Error("nil collection leaked through")
		}
		if album.Popularity != nil {
			t.Error("null popularity must stay unset")
		}
	})

	t.Run("artist", func(t *testing.T) {
		doc := embedDoc(t, `{"id":"a","name":"n","uri":"u","images":null,"top_tracks":null,
			"bio":null,"followers":null,"monthly_listeners":null,"is_verified":null}`)
		artist := NormalizeArtist(doc, doc.EntityPath())
		if artist.Failed() {
			t.Fatalf("failed: %s", artist.Error)
		}
		if artist.Images == nil || artist.TopTracks == nil {
			t.Error("nil collection leaked through")
		}
		if artist.Followers != nil || artist.IsVerified != nil {
			t.Error("null scalars must stay unset")
		}
	})

	t.Run("playlist", func(t *testing.T) {
		doc := embedDoc(t, `{"id":"p","name":"n","uri":"u","owner":null,"images":null,
			"tracks":null,"description":null,"collaborative":null,"public":null}`)
		playlist := NormalizePlaylist(doc, doc.EntityPath())
		if playlist.Failed() {
			t.Fatalf("failed: %s", playlist.Error)
		}
		if playlist.Images == nil || playlist.Tracks == nil {
			t.Error("nil collection leaked through")
		}
		if playlist.Owner != nil {
			t.Error("null owner must stay unset")
		}
	})

	t.Run("episode", func(t *testing.T) {
		doc := embedDoc(t, `{"id":"e","name":"n","uri":"u","show":null,
			"audio_preview_url":null,"release_date":null,"has_video":null}`)
		episode := NormalizeEpisode(doc, doc.EntityPath())
		if episode.Failed() {
			t.Fatalf("failed: %s", episode.Error)
		}
		if episode.Show != nil {
			t.Error("null show must stay unset")
		}
	})

	t.Run("show", func(t *testing.T) {
		doc := embedDoc(t, `{"id":"s","name":"n","uri":"u","type":"show","publisher":null,
			"categories":null,"episodes":null,"rating":null,"total_episodes":null}`)
		show := NormalizeShow(doc, doc.EntityPath())
		if show.Failed() {
			t.Fatalf("failed: %s", show.Error)
		}
		if show.Categories == nil || show.Episodes == nil {
			t.Error("nil collection leaked through")
		}
	})
}

func TestNormalizeSkipsNonObjectListElements(t *testing.T) {
	doc := embedDoc(t, `{
		"id": "t1", "name": "n", "uri": "u",
		"artists": [42, null, {"name": "Real Artist", "uri": "spotify:artist:a1"}, "junk"]
	}`)

	track := NormalizeTrack(doc, doc.EntityPath())
	if track.Failed() {
		t.Fatalf("unexpected failure: %s", track.Error)
	}
	if len(track.Artists) != 1 || track.Artists[0].Name != "Real Artist" {
		t.Errorf("Artists = %+v, want only the object element", track.Artists)
	}
}

func TestNormalizeAlbum(t *testing.T) {
	doc := embedDoc(t, `{
		"type": "album",
		"name": "The Album",
		"uri": "spotify:album:4aawyAB9vmqN3uQ7FjRGTy",
		"subtitle": "Some Artist",
		"artists": [{"name": "Some Artist", "uri": "spotify:artist:a1"}],
		"coverArt": {"sources": [{"url": "https://i.scdn.co/image/c", "width": 300, "height": 300}]},
		"releaseDate": {"isoString": "2013-05-17T00:00:00Z"},
		"trackList": [
			{"uri": "spotify:track:t1", "title": "One", "duration": 111000, "isExplicit": false,
			 "isPlayable": true, "audioPreview": {"url": "https://p.scdn.co/1"}},
			{"uri": "spotify:track:t2", "title": "Two", "duration": 222000, "isExplicit": true,
			 "isPlayable": true, "audioPreview": {"url": "https://p.scdn.co/2"}}
		],
		"trackCount": 12
	}`)

	album := NormalizeAlbum(doc, doc.EntityPath())
	if album.Failed() {
		t.Fatalf("unexpected failure: %s", album.Error)
	}

	if album.ID != "4aawyAB9vmqN3uQ7FjRGTy" {
		t.Errorf("ID = %q, want ID derived from URI", album.ID)
	}
	if len(album.Tracks) != 2 {
		t.Fatalf("Tracks has %d entries, want 2", len(album.Tracks))
	}
	if album.Tracks[0].Name != "One" || album.Tracks[0].DurationMS != 111000 {
		t.Errorf("Tracks[0] = %+v", album.Tracks[0])
	}
	if album.Tracks[0].TrackNumber != 1 || album.Tracks[1].TrackNumber != 2 {
		t.Errorf("positions = %d, %d; want list order", album.Tracks[0].TrackNumber, album.Tracks[1].TrackNumber)
	}
	if album.Tracks[1].PreviewURL != "https://p.scdn.co/2" {
		t.Errorf("Tracks[1].PreviewURL = %q", album.Tracks[1].PreviewURL)
	}
	if album.TotalTracks != 12 {
		t.Errorf("TotalTracks = %d, want 12 from trackCount", album.TotalTracks)
	}
	if album.ReleaseDate != "2013-05-17T00:00:00Z" {
		t.Errorf("ReleaseDate = %q", album.ReleaseDate)
	}
}

func TestNormalizeAlbumFromJSONLD(t *testing.T) {
	doc := &ExtractedJSON{
		Strategy: StrategyJSONLD,
		Data: decode(t, `{
			"@type": "MusicAlbum",
			"name": "Reduced Album",
			"byArtist": {"name": "LD Artist"},
			"datePublished": "2013-05-17",
			"numTracks": 10
		}`),
	}

	album := NormalizeAlbum(doc, doc.EntityPath())
	if album.Failed() {
		t.Fatalf("unexpected failure: %s", album.Error)
	}
	if album.Name != "Reduced Album" {
		t.Errorf("Name = %q", album.Name)
	}
	if len(album.Artists) != 1 || album.Artists[0].Name != "LD Artist" {
		t.Errorf("Artists = %+v, want byArtist object", album.Artists)
	}
	if album.ReleaseDate != "2013-05-17" {
		t.Errorf("ReleaseDate = %q, want datePublished fallback", album.ReleaseDate)
	}
	if album.TotalTracks != 10 {
		t.Errorf("TotalTracks = %d, want numTracks fallback", album.TotalTracks)
	}
}

func TestNormalizeArtist(t *testing.T) {
	doc := rootDoc(t, `{
		"type": "artist",
		"id": "a1",
		"name": "The Artist",
		"uri": "spotify:artist:a1",
		"images": [{"url": "https://i.scdn.co/image/avatar", "width": 600, "height": 600}],
		"topTracks": {"items": [
			{"uri": "spotify:track:t1", "name": "Hit", "duration_ms": 180000, "playcount": "12345678"}
		]},
		"followers": {"total": 1000000},
		"monthlyListeners": 2500000,
		"isVerified": true,
		"bio": "A storied career."
	}`)

	artist := NormalizeArtist(doc, doc.EntityPath())
	if artist.Failed() {
		t.Fatalf("unexpected failure: %s", artist.Error)
	}

	if len(artist.TopTracks) != 1 || artist.TopTracks[0].Name != "Hit" {
		t.Fatalf("TopTracks = %+v", artist.TopTracks)
	}
	if artist.TopTracks[0].Playcount != 12345678 {
		t.Errorf("Playcount = %d, want string count parsed", artist.TopTracks[0].Playcount)
	}
	if artist.Followers == nil || *artist.Followers != 1000000 {
		t.Errorf("Followers = %v, want 1000000 from followers.total", artist.Followers)
	}
	if artist.MonthlyListeners == nil || *artist.MonthlyListeners != 2500000 {
		t.Errorf("MonthlyListeners = %v", artist.MonthlyListeners)
	}
	if artist.IsVerified == nil || !*artist.IsVerified {
		t.Errorf("IsVerified = %v, want true", artist.IsVerified)
	}
	if artist.Bio != "A storied career." {
		t.Errorf("Bio = %q", artist.Bio)
	}
}

func TestNormalizePlaylist(t *testing.T) {
	doc := embedDoc(t, `{
		"type": "playlist",
		"name": "Mix of the Week",
		"uri": "spotify:playlist:37i9dQZF1DXcBWIGoYBM5M",
		"description": "Fresh picks.",
		"owner": {"display_name": "Curator", "uri": "spotify:user:curator1"},
		"collaborative": false,
		"followers": {"total": 54321},
		"trackList": [
			{"track": {"uri": "spotify:track:t1", "name": "Wrapped", "duration_ms": 90000}},
			{"uri": "spotify:track:t2", "title": "Bare", "duration": 95000}
		]
	}`)

	playlist := NormalizePlaylist(doc, doc.EntityPath())
	if playlist.Failed() {
		t.Fatalf("unexpected failure: %s", playlist.Error)
	}

	if playlist.ID != "37i9dQZF1DXcBWIGoYBM5M" {
		t.Errorf("ID = %q", playlist.ID)
	}
	if playlist.Owner == nil || playlist.Owner.Name != "Curator" || playlist.Owner.ID != "curator1" {
		t.Errorf("Owner = %+v", playlist.Owner)
	}
	if playlist.Collaborative == nil || *playlist.Collaborative {
		t.Errorf("Collaborative = %v, want false pointer", playlist.Collaborative)
	}
	if playlist.Followers == nil || *playlist.Followers != 54321 {
		t.Errorf("Followers = %v", playlist.Followers)
	}
	if len(playlist.Tracks) != 2 {
		t.Fatalf("Tracks has %d entries, want 2", len(playlist.Tracks))
	}
	// first entry is wrapped one level deeper, second is bare
	if playlist.Tracks[0].Name != "Wrapped" || playlist.Tracks[1].Name != "Bare" {
		t.Errorf("Tracks = %+v", playlist.Tracks)
	}
}

func TestNormalizeEpisode(t *testing.T) {
	doc := embedDoc(t, `{
		"type": "episode",
		"id": "5Q2dkZHfnGb2Y4BzzoBu2G",
		"name": "Episode 42",
		"uri": "spotify:episode:5Q2dkZHfnGb2Y4BzzoBu2G",
		"duration": 1800000,
		"subtitle": "The Show",
		"relatedEntityUri": "spotify:show:ABC123",
		"audioPreview": {"url": "https://p.scdn.co/episode-preview"},
		"releaseDate": {"isoString": "2024-11-01T05:00:00Z"},
		"hasVideo": false,
		"isTrailer": false
	}`)

	episode := NormalizeEpisode(doc, doc.EntityPath())
	if episode.Failed() {
		t.Fatalf("unexpected failure: %s", episode.Error)
	}

	if episode.DurationMS != 1800000 {
		t.Errorf("DurationMS = %d", episode.DurationMS)
	}
	if episode.Show == nil || episode.Show.ID != "ABC123" || episode.Show.Name != "The Show" {
		t.Errorf("Show ref = %+v, want reconstructed from relatedEntityUri", episode.Show)
	}
	if episode.AudioPreviewURL != "https://p.scdn.co/episode-preview" {
		t.Errorf("AudioPreviewURL = %q", episode.AudioPreviewURL)
	}
	if episode.HasVideo == nil || *episode.HasVideo {
		t.Errorf("HasVideo = %v, want false pointer", episode.HasVideo)
	}
}

func TestNormalizeShow(t *testing.T) {
	doc := embedDoc(t, `{
		"type": "show",
		"id": "4rOoJ6Egrf8K2IrywzwOMk",
		"name": "The Big Show",
		"uri": "spotify:show:4rOoJ6Egrf8K2IrywzwOMk",
		"publisher": "Podcast Network",
		"categories": ["News", {"name": "Comedy"}, null],
		"episodes": {"items": [
			{"uri": "spotify:episode:e1", "name": "Pilot", "duration_ms": 1200000}
		]},
		"totalEpisodes": 250,
		"rating": "Clean",
		"description": "A show about everything."
	}`)

	show := NormalizeShow(doc, doc.EntityPath())
	if show.Failed() {
		t.Fatalf("unexpected failure: %s", show.Error)
	}

	if show.FromEpisode {
		t.Error("FromEpisode set on a direct show record")
	}
	if show.Publisher != "Podcast Network" {
		t.Errorf("Publisher = %q", show.Publisher)
	}
	if len(show.Categories) != 2 || show.Categories[0] != "News" || show.Categories[1] != "Comedy" {
		t.Errorf("Categories = %v, want both string and object elements", show.Categories)
	}
	if len(show.Episodes) != 1 || show.Episodes[0].ID != "e1" {
		t.Errorf("Episodes = %+v", show.Episodes)
	}
	if show.TotalEpisodes != 250 {
		t.Errorf("TotalEpisodes = %d", show.TotalEpisodes)
	}
}

func TestNormalizeShowFromEpisode(t *testing.T) {
	doc := embedDoc(t, `{
		"type": "episode",
		"name": "Latest Episode",
		"uri": "spotify:episode:ep1",
		"subtitle": "The Daily Show",
		"relatedEntityUri": "spotify:show:ABC123",
		"relatedEntityCoverArt": [{"url": "https://i.scdn.co/image/showcover", "width": 300, "height": 300}],
		"duration": 1500000
	}`)

	show := NormalizeShow(doc, doc.EntityPath())
	if show.Failed() {
		t.Fatalf("unexpected failure: %s", show.Error)
	}

	if !show.FromEpisode {
		t.Error("FromEpisode not set")
	}
	if show.ID != "ABC123" {
		t.Errorf("ID = %q, want ABC123 from relatedEntityUri", show.ID)
	}
	if show.URI != "spotify:show:ABC123" {
		t.Errorf("URI = %q", show.URI)
	}
	if show.Name != "The Daily Show" {
		t.Errorf("Name = %q, want the episode subtitle", show.Name)
	}
	if len(show.Images) != 1 || show.Images[0].URL != "https://i.scdn.co/image/showcover" {
		t.Errorf("Images = %+v, want relatedEntityCoverArt", show.Images)
	}
	if len(show.Episodes) != 1 || show.Episodes[0].ID != "ep1" {
		t.Errorf("Episodes = %+v, want the source episode retained", show.Episodes)
	}
}

func TestNormalizeMissingEntity(t *testing.T) {
	doc := &ExtractedJSON{
		Strategy: StrategyNextData,
		Data:     decode(t, `{"props":{"pageProps":{}}}`),
	}

	track := NormalizeTrack(doc, doc.EntityPath())
	if !track.Failed() {
		t.Fatal("expected an error record when the entity subtree is missing")
	}
	if track.Type != "track" {
		t.Errorf("Type = %q, want track even on failure", track.Type)
	}
}
