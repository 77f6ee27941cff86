package imaging

import (
	"image"
	"image/color"
)

// OutlineOverlay returns a copy of canvas with a one pixel outline drawn along
// the inside edge of every rectangle.
//
// When outline is nil each rectangle gets its own PaletteColor so neighbouring
// placements can be told apart. The source canvas is not modified.
func OutlineOverlay(canvas *image.NRGBA, rects []image.Rectangle, outline *color.NRGBA) *image.NRGBA {
	result := ToNRGBA(canvas)
	bounds := result.Bounds()

	for i, r := range rects {
		r = r.Intersect(bounds)
		if r.Empty() {
			continue
		}

		c := PaletteColor(i, len(rects))
		if outline != nil {
			c = *outline
		}

		// Draw horizontal edges
		for x := r.Min.X; x < r.Max.X; x++ {
			result.SetNRGBA(x, r.Min.Y, c)
			result.SetNRGBA(x, r.Max.Y-1, c)
		}

		// Draw vertical edges
		for y := r.Min.Y; y < r.Max.Y; y++ {
			result.SetNRGBA(r.Min.X, y, c)
			result.SetNRGBA(r.Max.X-1, y, c)
		}
	}

	return result
}
