package audio

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PlaylistFormat represents supported playlist file formats.
//
// Each format has different features and compatibility:
//   - M3U: Simple text format, widely supported
//   - PLS: INI-style format, used by Winamp
//   - WPL: XML format, Windows Media Player
//   - ZPL: XML format, Zune/Groove Music
type PlaylistFormat int

const (
	// FormatM3U creates .m3u files (most compatible).
	// Can be extended with EXTINF lines for duration/title info.
	FormatM3U PlaylistFormat = iota

	// FormatPLS creates .pls files (Winamp/SHOUTcast format).
	// INI-style format with file, title, and length info.
	FormatPLS

	// FormatWPL creates .wpl files (Windows Media Player).
	// XML-based SMIL format.
	FormatWPL

	// FormatZPL creates .zpl files (Zune/Groove Music).
	// XML-based SMIL format with extended metadata.
	FormatZPL
)

// PlaylistEntry describes one downloaded preview file.
//
// Entries are assembled by the download manager from the scraped
// records: Title and Artist come from the track or episode record,
// Duration from its duration_ms field, and Path from wherever the
// preview was written.
type PlaylistEntry struct {
	// Path is the downloaded preview file. Only the base name ends up
	// in the playlist, which assumes playlist and previews share a
	// directory.
	Path string

	// Title is the track or episode title.
	Title string

	// Artist is the credited artist line, or the show publisher for
	// episode previews.
	Artist string

	// Duration is the preview source length in seconds.
	Duration int
}

// PlaylistCreator generates playlist files in various formats.
//
// PlaylistCreator takes the downloaded previews of one collection (an
// album, a playlist or a show) and generates a playlist referencing
// them. The output is a string that can be written to a file.
//
// Example:
//
//	// Create M3U playlist with extended info
//	creator := NewPlaylistCreator(FormatM3U, true)
//	content := creator.CreatePlaylist(album.Name, entries)
//	os.WriteFile("/music/Discovery/playlist.m3u", []byte(content), 0644)
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:30,Daft Punk - One More Time
//	// Daft Punk - One More Time.mp3
type PlaylistCreator struct {
	format   PlaylistFormat
	extended bool // For M3U: include EXTINF lines with duration/title
}

// NewPlaylistCreator creates a new PlaylistCreator.
//
// Parameters:
//   - format: The playlist format to generate
//   - extended: For M3U format, whether to include #EXTINF lines
//     (ignored for other formats)
func NewPlaylistCreator(format PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// Extension returns the file extension for the creator's format,
// including the leading dot.
func (p *PlaylistCreator) Extension() string {
	switch p.format {
	case FormatPLS:
		return ".pls"
	case FormatWPL:
		return ".wpl"
	case FormatZPL:
		return ".zpl"
	default:
		return ".m3u"
	}
}

// CreatePlaylist generates playlist content for a collection of
// downloaded previews.
//
// Returns the playlist as a string, ready to be written to a file.
// Entry paths in the playlist are relative (just the filename),
// assuming the playlist file is in the same directory as the previews.
//
// Example:
//
//	content := creator.CreatePlaylist(show.Name, entries)
//	err := os.WriteFile("/music/MyShow/playlist.m3u", []byte(content), 0644)
func (p *PlaylistCreator) CreatePlaylist(title string, entries []PlaylistEntry) string {
	switch p.format {
	case FormatM3U:
		return p.createM3U(entries)
	case FormatPLS:
		return p.createPLS(entries)
	case FormatWPL:
		return p.createWPL(title, entries)
	case FormatZPL:
		return p.createZPL(title, entries)
	default:
		return p.createM3U(entries)
	}
}

// createM3U generates an M3U playlist.
//
// Standard M3U format:
//
//	filename1.mp3
//	filename2.mp3
//
// Extended M3U format (when extended=true):
//
//	#EXTM3U
//	#EXTINF:30,Artist - Title
//	filename1.mp3
func (p *PlaylistCreator) createM3U(entries []PlaylistEntry) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, entry := range entries {
		if p.extended {
			sb.WriteString(fmt.Sprintf("#EXTINF:%d,%s - %s\n", entry.Duration, entry.Artist, entry.Title))
		}
		sb.WriteString(filepath.Base(entry.Path) + "\n")
	}

	return sb.String()
}

// createPLS generates a PLS playlist.
//
// PLS format is an INI-style text file:
//
//	[playlist]
//	File1=filename1.mp3
//	Title1=Song Title
//	Length1=30
//	NumberOfEntries=2
//	Version=2
func (p *PlaylistCreator) createPLS(entries []PlaylistEntry) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, entry := range entries {
		idx := i + 1
		sb.WriteString(fmt.Sprintf("File%d=%s\n", idx, filepath.Base(entry.Path)))
		sb.WriteString(fmt.Sprintf("Title%d=%s\n", idx, entry.Title))
		sb.WriteString(fmt.Sprintf("Length%d=%d\n", idx, entry.Duration))
	}

	sb.WriteString(fmt.Sprintf("NumberOfEntries=%d\n", len(entries)))
	sb.WriteString("Version=2\n")

	return sb.String()
}

// createWPL generates a Windows Media Player playlist.
//
// WPL is an XML-based SMIL format used by Windows Media Player.
func (p *PlaylistCreator) createWPL(title string, entries []PlaylistEntry) string {
	var sb strings.Builder

	sb.WriteString("<?wpl version=\"1.0\"?>\n")
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(title)))
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")

	for _, entry := range entries {
		sb.WriteString(fmt.Sprintf("      <media src=\"%s\"/>\n", escapeXML(filepath.Base(entry.Path))))
	}

	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")

	return sb.String()
}

// createZPL generates a Zune/Groove Music playlist.
//
// ZPL is similar to WPL but includes additional metadata attributes
// like collection title, artist, and track duration.
func (p *PlaylistCreator) createZPL(title string, entries []PlaylistEntry) string {
	var sb strings.Builder

	sb.WriteString("<?zpl version=\"2.0\"?>\n")
	sb.WriteString("<smil>\n")
	sb.WriteString("  <head>\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(title)))
	sb.WriteString("    <meta name=\"Generator\" content=\"spotify-scraper\"/>\n")
	sb.WriteString(fmt.Sprintf("    <meta name=\"ItemCount\" content=\"%d\"/>\n", len(entries)))
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <seq>\n")

	for _, entry := range entries {
		sb.WriteString(fmt.Sprintf("      <media src=\"%s\" albumTitle=\"%s\" albumArtist=\"%s\" trackTitle=\"%s\" trackArtist=\"%s\" duration=\"%d\"/>\n",
			escapeXML(filepath.Base(entry.Path)),
			escapeXML(title),
			escapeXML(entry.Artist),
			escapeXML(entry.Title),
			escapeXML(entry.Artist),
			entry.Duration*1000))
	}

	sb.WriteString("    </seq>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</smil>\n")

	return sb.String()
}

// escapeXML escapes special XML characters in a string.
//
// Replaces: & < > " '
// With:     &amp; &lt; &gt; &quot; &apos;
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
