// Package service contains the core business logic: the fusion
// orchestrator and the image pipeline for generated combo art.
package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/h2non/bimg"

	"github.com/nexora/brand-mixer/internal/storage"
)

// Image dimensions for stored combo art.
const (
	fullSizePx  = 1024
	thumbSizePx = 256
)

// ImageProcessor normalizes provider output (any format bimg supports:
// PNG, JPEG, WebP) into a full-size PNG plus a thumbnail and stores both.
// bimg wraps libvips — fast, but a C system dependency.
type ImageProcessor struct {
	fs *storage.FileSystem
}

// NewImageProcessor creates a new ImageProcessor.
func NewImageProcessor(fs *storage.FileSystem) *ImageProcessor {
	return &ImageProcessor{fs: fs}
}

// ProcessAndStore converts raw provider bytes into the stored PNG pair and
// returns the full-size filename. The thumbnail is best-effort: a combo
// with full-size art and no thumb is still served.
func (p *ImageProcessor) ProcessAndStore(product1, product2 string, imageData []byte) (string, error) {
	filename := artFilename(product1, product2)

	full, err := resizeToSquarePNG(imageData, fullSizePx)
	if err != nil {
		return "", fmt.Errorf("normalizing image: %w", err)
	}
	if err := p.fs.Write(filename, full); err != nil {
		return "", fmt.Errorf("storing image: %w", err)
	}

	if thumb, err := resizeToSquarePNG(imageData, thumbSizePx); err == nil {
		_ = p.fs.Write(storage.ThumbName(filename), thumb)
	}

	return filename, nil
}

// artFilename builds a collision-free filename like
// "nike_adidas_1a2b3c4d.png".
func artFilename(product1, product2 string) string {
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("%s_%s_%s.png", slug(product1), slug(product2), suffix)
}

// slug lowercases a brand name and flattens anything non-alphanumeric so
// the name is safe as a path component.
func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// resizeToSquarePNG resizes an image to a square PNG of the given pixel
// size. bimg handles aspect ratio and format detection; Embed pads the
// canvas when the aspect ratio doesn't match.
func resizeToSquarePNG(imageData []byte, pixels int) ([]byte, error) {
	img := bimg.NewImage(imageData)

	resized, err := img.Process(bimg.Options{
		Width:   pixels,
		Height:  pixels,
		Type:    bimg.PNG,
		Embed:   true,
		Enlarge: true,
		Background: bimg.Color{
			R: 0, G: 0, B: 0,
		},
		Interpretation: bimg.InterpretationSRGB,
	})
	if err != nil {
		return nil, fmt.Errorf("resizing to %dpx: %w", pixels, err)
	}

	return resized, nil
}
