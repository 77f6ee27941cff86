package atlas

import (
	"image"

	"github.com/ironsheep/texpack/internal/geom"
)

// Frame is one named sprite owned by an Atlas.
type Frame struct {
	Name string

	// SourceSize is the size of the original, untrimmed image.
	SourceSize geom.Size
	// Pixels holds the trimmed image anchored at (0,0). It is shared with the
	// atlas and must not be modified.
	Pixels *image.NRGBA
	// TrimmedSize is the size of Pixels.
	TrimmedSize geom.Size
	// TrimOrigin is the top-left corner of the trimmed box in the source image.
	TrimOrigin geom.Point
	// Offset moves the trimmed region back to the sprite's visual center.
	Offset geom.Point

	// Placement is the frame's rectangle in the canvas with the unrotated
	// trimmed size. Only meaningful when Placed reports true.
	Placement geom.Rect
	// Rotated means the pixels are stored rotated 90 degrees clockwise.
	Rotated bool

	placed bool
}

// Placed reports whether the frame has a placement in the current canvas.
// It turns false once the atlas is invalidated, even though Placement and
// Rotated keep their last values.
func (f Frame) Placed() bool {
	return f.placed
}

// StoredRect returns the canvas pixels the frame actually covers, which is
// Placement with its size transposed when the frame is rotated.
func (f Frame) StoredRect() geom.Rect {
	r := f.Placement
	if f.Rotated {
		r.Size = r.Size.Transpose()
	}
	return r
}
