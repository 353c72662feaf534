// Package audio provides audio file manipulation services for
// downloaded preview clips, including ID3 tag writing and playlist
// generation.
//
// # ID3 Tagging
//
// Preview MP3s from p.scdn.co arrive without any metadata. Use the
// Tagger to write ID3 tags from the scraped track record:
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	err := tagger.SaveTags(path, track, artworkBytes)
//
// The tagger supports:
//   - Artist, Album Artist
//   - Album Title, Track Title
//   - Track Number, Disc Number, Year
//   - Lyrics
//   - Cover Art (embedded in MP3)
//
// # Playlist Generation
//
// Generate playlists over the previews of one collection:
//
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true) // extended M3U
//	content := creator.CreatePlaylist(album.Name, entries)
//	os.WriteFile("playlist.m3u", []byte(content), 0644)
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
//   - WPL (Windows Media Player)
//   - ZPL (Zune Media Player)
package audio
