package atlas

import (
	"fmt"
	"image"

	"github.com/ironsheep/texpack/internal/geom"
	"github.com/ironsheep/texpack/internal/imaging"
)

// Compose allocates a transparent canvas of the given size and copies every
// placed frame's pixels into it, rotating clockwise where the frame is marked
// Rotated. Pixels are copied verbatim; nothing is blended or resampled.
func Compose(frames []Frame, size geom.Size) (*image.NRGBA, error) {
	canvas := image.NewNRGBA(image.Rect(0, 0, size.Width, size.Height))

	for _, f := range frames {
		if !f.placed {
			return nil, fmt.Errorf("frame %s has no placement", f.Name)
		}

		src := f.Pixels
		if f.Rotated {
			src = imaging.RotateClockwise(src)
		}

		at := image.Pt(f.Placement.Origin.X, f.Placement.Origin.Y)
		if err := imaging.Blit(canvas, src, at); err != nil {
			return nil, fmt.Errorf("frame %s: %w", f.Name, err)
		}
	}

	return canvas, nil
}

// Extract copies a frame's stored region out of canvas and undoes its
// rotation, yielding the frame's trimmed pixels.
func Extract(canvas *image.NRGBA, f Frame) (*image.NRGBA, error) {
	if !f.placed {
		return nil, fmt.Errorf("frame %s has no placement", f.Name)
	}

	region, err := imaging.Crop(canvas, f.StoredRect().Image())
	if err != nil {
		return nil, fmt.Errorf("frame %s: %w", f.Name, err)
	}
	if f.Rotated {
		region = imaging.RotateCounterClockwise(region)
	}
	return region, nil
}
