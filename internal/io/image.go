package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
)

// ImageService provides image processing operations for cover art.
//
// Spotify serves cover art from i.scdn.co in a handful of fixed square
// renditions (64, 300, 640 pixels). The service exists to normalize
// whatever rendition was scraped before it is embedded in a preview MP3
// or written next to it:
//   - Resize images to fit a maximum edge length
//   - Convert images to JPEG format (for ID3 embedding compatibility)
//
// Example usage:
//
//	svc := NewImageService()
//
//	// Download the largest scraped rendition
//	imageData, _ := client.DownloadBytes(ctx, track.Album.Images[0].URL)
//
//	// Cap at 500px and convert to JPEG
//	resized, _ := svc.ResizeImage(ctx, imageData, 500)
//	jpeg, _ := svc.ConvertToJPEG(ctx, resized)
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// ResizeImage resizes an image so that neither edge exceeds maxSize pixels.
//
// The aspect ratio is preserved. Cover art from Spotify is square, so the
// result is normally maxSize x maxSize, but non-square images (for example
// Open Graph fallbacks scraped from show pages) are handled too. If the
// image already fits within maxSize, it is still re-encoded as JPEG.
//
// Parameters:
//   - ctx: Context for cancellation (currently unused)
//   - data: Original image data (JPEG, PNG, etc.)
//   - maxSize: Maximum edge length in pixels
//
// Returns the resized image as JPEG-encoded bytes.
//
// The Catmull-Rom algorithm is used for high-quality resizing.
//
// Example:
//
//	// A 640x640 rendition becomes 500x500
//	resized, err := svc.ResizeImage(ctx, imageData, 500)
func (s *ImageService) ResizeImage(ctx context.Context, data []byte, maxSize int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	// Calculate new dimensions maintaining aspect ratio
	if width > maxSize || height > maxSize {
		ratio := float64(width) / float64(height)
		if ratio >= 1 {
			// Width is the longer edge
			height = int(float64(maxSize) / ratio)
			width = maxSize
		} else {
			// Height is the longer edge
			width = int(float64(maxSize) * ratio)
			height = maxSize
		}
	}

	// Create new image with calculated dimensions
	dst := image.NewRGBA(image.Rect(0, 0, width, height))

	// Use Catmull-Rom for high-quality scaling
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	// Encode to JPEG with high quality
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// ConvertToJPEG converts an image to JPEG format.
//
// This is useful for:
//   - Ensuring consistent format for ID3 cover art embedding
//   - Reducing file size compared to PNG
//   - Better compatibility with older players
//
// Parameters:
//   - ctx: Context for cancellation (currently unused)
//   - data: Original image data (JPEG, PNG, GIF, etc.)
//
// Returns the image as JPEG-encoded bytes with 90% quality.
//
// Note: If the input is already JPEG, it will be re-encoded, which may
// slightly change file size but ensures consistent encoding.
//
// Example:
//
//	pngData, _ := client.DownloadBytes(ctx, coverURL)
//	jpegData, err := svc.ConvertToJPEG(ctx, pngData)
func (s *ImageService) ConvertToJPEG(ctx context.Context, data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
