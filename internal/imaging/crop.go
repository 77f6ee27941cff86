package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Crop copies the region r of img into a new image anchored at (0,0).
//
// r is expressed in img's coordinate space and must lie within its bounds
// with a non-zero area. The copy is exact; no resampling is performed.
func Crop(img *image.NRGBA, r image.Rectangle) (*image.NRGBA, error) {
	bounds := img.Bounds()

	if r.Min.X < bounds.Min.X || r.Min.Y < bounds.Min.Y || r.Max.X > bounds.Max.X || r.Max.Y > bounds.Max.Y {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			r.Min.X, r.Min.Y, r.Max.X, r.Max.Y, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	return imaging.Crop(img, r), nil
}

// RotateClockwise returns img rotated 90 degrees clockwise.
//
// The source pixel (x, y) lands at (h-1-y, x) in the result, where h is the
// source height. This is the orientation of every rotated frame in an atlas.
func RotateClockwise(img *image.NRGBA) *image.NRGBA {
	return imaging.Rotate270(img)
}

// RotateCounterClockwise returns img rotated 90 degrees counter-clockwise,
// undoing RotateClockwise.
func RotateCounterClockwise(img *image.NRGBA) *image.NRGBA {
	return imaging.Rotate90(img)
}

// Blit copies src into dst with src's top-left pixel at at. Pixels are
// replaced, not blended. The destination region must lie inside dst.
func Blit(dst, src *image.NRGBA, at image.Point) error {
	sb := src.Bounds()
	target := image.Rectangle{Min: at, Max: at.Add(sb.Size())}
	if !target.In(dst.Bounds()) {
		return fmt.Errorf("blit region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			target.Min.X, target.Min.Y, target.Max.X, target.Max.Y,
			dst.Rect.Min.X, dst.Rect.Min.Y, dst.Rect.Max.X, dst.Rect.Max.Y)
	}

	rowBytes := sb.Dx() * 4
	for y := 0; y < sb.Dy(); y++ {
		si := src.PixOffset(sb.Min.X, sb.Min.Y+y)
		di := dst.PixOffset(at.X, at.Y+y)
		copy(dst.Pix[di:di+rowBytes], src.Pix[si:si+rowBytes])
	}
	return nil
}
