package spotify

import (
	"errors"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantType  EntityType
		wantID    string
		wantEmbed bool
		wantErr   bool
	}{
		{
			name:     "track URL with query string",
			input:    "https://open.spotify.com/track/6rqhFgbbKwnb9MLmUQDhG6?si=xyz",
			wantType: TypeTrack,
			wantID:   "6rqhFgbbKwnb9MLmUQDhG6",
		},
		{
			name:      "embed URL",
			input:     "https://open.spotify.com/embed/track/6rqhFgbbKwnb9MLmUQDhG6",
			wantType:  TypeTrack,
			wantID:    "6rqhFgbbKwnb9MLmUQDhG6",
			wantEmbed: true,
		},
		{
			name:     "URI form",
			input:    "spotify:episode:5Q2dkZHfnGb2Y4BzzoBu2G",
			wantType: TypeEpisode,
			wantID:   "5Q2dkZHfnGb2Y4BzzoBu2G",
		},
		{
			name:     "locale segment skipped",
			input:    "https://open.spotify.com/intl-de/track/6rqhFgbbKwnb9MLmUQDhG6",
			wantType: TypeTrack,
			wantID:   "6rqhFgbbKwnb9MLmUQDhG6",
		},
		{
			name:     "trailing slash stripped",
			input:    "https://open.spotify.com/album/4aawyAB9vmqN3uQ7FjRGTy/",
			wantType: TypeAlbum,
			wantID:   "4aawyAB9vmqN3uQ7FjRGTy",
		},
		{
			name:     "playlist URL",
			input:    "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M",
			wantType: TypePlaylist,
			wantID:   "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:    "wrong host",
			input:   "https://example.com/track/6rqhFgbbKwnb9MLmUQDhG6",
			wantErr: true,
		},
		{
			name:    "unknown entity type",
			input:   "https://open.spotify.com/concert/abc123",
			wantErr: true,
		},
		{
			name:    "too few segments",
			input:   "https://open.spotify.com/track",
			wantErr: true,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
		{
			name:    "malformed URI",
			input:   "spotify:track",
			wantErr: true,
		},
		{
			name:    "URI with unknown type",
			input:   "spotify:concert:abc123",
			wantErr: true,
		},
		{
			name:    "URI with empty ID",
			input:   "spotify:track:",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				var urlErr *URLError
				if !errors.As(err, &urlErr) {
					t.Errorf("error is %T, want *URLError", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", got.Type, tt.wantType)
			}
			if got.ID != tt.wantID {
				t.Errorf("ID = %q, want %q", got.ID, tt.wantID)
			}
			if got.IsEmbed != tt.wantEmbed {
				t.Errorf("IsEmbed = %v, want %v", got.IsEmbed, tt.wantEmbed)
			}
		})
	}
}

func TestClassifyURIMatchesURL(t *testing.T) {
	fromURI, err := Classify("spotify:episode:5Q2dkZHfnGb2Y4BzzoBu2G")
	if err != nil {
		t.Fatalf("classify URI: %v", err)
	}
	fromURL, err := Classify("https://open.spotify.com/episode/5Q2dkZHfnGb2Y4BzzoBu2G")
	if err != nil {
		t.Fatalf("classify URL: %v", err)
	}

	if fromURI.Type != fromURL.Type || fromURI.ID != fromURL.ID {
		t.Errorf("URI parsed to (%s, %s), URL parsed to (%s, %s)",
			fromURI.Type, fromURI.ID, fromURL.Type, fromURL.ID)
	}
}

func TestToEmbed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "regular URL rewritten",
			input: "https://open.spotify.com/track/6rqhFgbbKwnb9MLmUQDhG6?si=xyz",
			want:  "https://open.spotify.com/embed/track/6rqhFgbbKwnb9MLmUQDhG6",
		},
		{
			name:  "embed URL unchanged",
			input: "https://open.spotify.com/embed/track/6rqhFgbbKwnb9MLmUQDhG6",
			want:  "https://open.spotify.com/embed/track/6rqhFgbbKwnb9MLmUQDhG6",
		},
		{
			name:  "URI rewritten",
			input: "spotify:album:4aawyAB9vmqN3uQ7FjRGTy",
			want:  "https://open.spotify.com/embed/album/4aawyAB9vmqN3uQ7FjRGTy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToEmbed(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ToEmbed() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToEmbedIdempotent(t *testing.T) {
	start := "https://open.spotify.com/track/6rqhFgbbKwnb9MLmUQDhG6?si=xyz"

	embed, err := ToEmbed(start)
	if err != nil {
		t.Fatalf("first ToEmbed: %v", err)
	}
	url, err := ToURL(embed)
	if err != nil {
		t.Fatalf("ToURL: %v", err)
	}
	again, err := ToEmbed(url)
	if err != nil {
		t.Fatalf("second ToEmbed: %v", err)
	}

	if again != embed {
		t.Errorf("round-trip changed embed URL: %q vs %q", again, embed)
	}
}

func TestURIRoundTrip(t *testing.T) {
	uri := "spotify:show:4rOoJ6Egrf8K2IrywzwOMk"

	url, err := ToURL(uri)
	if err != nil {
		t.Fatalf("ToURL: %v", err)
	}
	back, err := ToURI(url)
	if err != nil {
		t.Fatalf("ToURI: %v", err)
	}

	if back != uri {
		t.Errorf("round-trip changed URI: %q vs %q", back, uri)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected EntityType
		wantErr  bool
	}{
		{
			name:     "matching type",
			input:    "https://open.spotify.com/track/6rqhFgbbKwnb9MLmUQDhG6",
			expected: TypeTrack,
		},
		{
			name:     "mismatched type",
			input:    "https://open.spotify.com/album/4aawyAB9vmqN3uQ7FjRGTy",
			expected: TypeTrack,
			wantErr:  true,
		},
		{
			name:     "unparseable input",
			input:    "not a url at all",
			expected: TypeTrack,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.input, tt.expected)
			if tt.wantErr && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
