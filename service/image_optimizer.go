package service

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

const (
	// Telegram photos must stay under 10000px in width + height
	previewMaxDim  = 1280
	previewQuality = 80
)

// OptimizePreview shrinks a rendered quote screenshot to a JPEG suitable for a chat photo.
// The aspect ratio is kept, images already within bounds are only re-encoded.
func OptimizePreview(imageData []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	var resized image.Image = img
	if width > previewMaxDim || height > previewMaxDim {
		if width > height {
			resized = imaging.Resize(img, previewMaxDim, 0, imaging.Lanczos)
		} else {
			resized = imaging.Resize(img, 0, previewMaxDim, imaging.Lanczos)
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: previewQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}
	return buf.Bytes(), nil
}
