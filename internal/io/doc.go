// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - File copying and writing
//   - Filename sanitization and template expansion for scraped metadata
//   - Directory creation
//   - Cover art resizing and format conversion
//
// # File Operations
//
//	// Copy a file
//	err := ioutils.CopyFile(ctx, "/src/preview.mp3", "/dst/preview.mp3")
//
//	// Write data to file
//	err := ioutils.WriteFile(ctx, "/music/records.json", recordBytes)
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/music/Spotify/Previews")
//
// # Filename Sanitization
//
// Scraped titles contain whatever the artist typed. Use SanitizeFileName
// before building paths from them, or ExpandTemplate to render a whole
// naming pattern at once:
//
//	safe := ioutils.SanitizeFileName("AM/PM") // Returns "AM_PM"
//
//	name := ioutils.ExpandTemplate("{artist} - {title}.mp3", map[string]string{
//	    "artist": "Daft Punk",
//	    "title":  "Around the World",
//	})
//
// # Image Processing
//
// The ImageService normalizes cover art renditions before they are saved
// or embedded into preview MP3s:
//
//	svc := ioutils.NewImageService()
//
//	// Cap the cover at 500px
//	resized, _ := svc.ResizeImage(ctx, imageData, 500)
//
//	// Convert to JPEG
//	jpeg, _ := svc.ConvertToJPEG(ctx, pngData)
package ioutils
