package batch

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/ironsheep/texpack/internal/atlas"
	"github.com/ironsheep/texpack/internal/imaging"
	"github.com/ironsheep/texpack/internal/manifest"
)

// Encoder returns the imgio encoder that writes format.
func Encoder(format imaging.Format) (imgio.Encoder, error) {
	switch format {
	case imaging.FormatPNG:
		return imgio.PNGEncoder(), nil
	case imaging.FormatBMP:
		return imgio.BMPEncoder(), nil
	case imaging.FormatWebP, imaging.FormatTGA:
		return func(w io.Writer, img image.Image) error {
			return imaging.Encode(w, img, format)
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", imaging.ErrUnsupportedFormat, string(format))
	}
}

// WriteCanvas encodes img in format and saves it at path, creating parent
// directories as needed.
func WriteCanvas(path string, img image.Image, format imaging.Format) error {
	enc, err := Encoder(format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := imgio.Save(path, img, enc); err != nil {
		return fmt.Errorf("failed to write canvas %s: %w", path, err)
	}
	return nil
}

// WriteManifest serializes doc with the given encoding and indent to path.
func WriteManifest(path string, doc *manifest.Document, enc manifest.Encoding, indent string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close manifest: %w", cerr)
		}
	}()

	if err := manifest.Encode(f, doc, enc, indent); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	return nil
}

// Overlay returns a copy of canvas with each frame's stored region outlined.
// A nil outline color gives every frame its own palette color.
func Overlay(canvas *image.NRGBA, frames []atlas.Frame, outline *color.NRGBA) *image.NRGBA {
	rects := make([]image.Rectangle, 0, len(frames))
	for _, f := range frames {
		if f.Placed() {
			rects = append(rects, f.StoredRect().Image())
		}
	}
	return imaging.OutlineOverlay(canvas, rects, outline)
}
