package atlas

import (
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/texpack/internal/geom"
	"github.com/ironsheep/texpack/internal/imaging"
)

// Trim crops img to the bounding box of its non-transparent pixels and
// returns an unnamed, unplaced frame holding a copy of the cropped pixels.
func Trim(img *image.NRGBA) (Frame, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return Frame{}, fmt.Errorf("%w: %dx%d", ErrInvalidImage, bounds.Dx(), bounds.Dy())
	}

	box := opaqueBounds(img)
	pixels, err := imaging.Crop(img, box)
	if err != nil {
		return Frame{}, fmt.Errorf("failed to trim image: %w", err)
	}

	source := geom.Size{Width: bounds.Dx(), Height: bounds.Dy()}
	trimmed := geom.Size{Width: box.Dx(), Height: box.Dy()}
	left := box.Min.X - bounds.Min.X
	top := box.Min.Y - bounds.Min.Y

	return Frame{
		SourceSize:  source,
		Pixels:      pixels,
		TrimmedSize: trimmed,
		TrimOrigin:  geom.Point{X: left, Y: top},
		Offset: geom.Point{
			X: left - halfRound(source.Width-trimmed.Width),
			Y: halfRound(source.Height-trimmed.Height) - top,
		},
	}, nil
}

// opaqueBounds returns the smallest rectangle containing every pixel with
// non-zero alpha, or the top-left pixel when there is none.
func opaqueBounds(img *image.NRGBA) image.Rectangle {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1

	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			if row[x*4+3] == 0 {
				continue
			}
			minX = min(minX, b.Min.X+x)
			maxX = max(maxX, b.Min.X+x)
			minY = min(minY, y)
			maxY = max(maxY, y)
		}
	}

	if maxX < minX {
		return image.Rectangle{Min: b.Min, Max: b.Min.Add(image.Pt(1, 1))}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// halfRound returns n/2 rounded half away from zero.
func halfRound(n int) int {
	return int(math.Round(float64(n) / 2))
}
