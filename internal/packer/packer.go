package packer

import (
	"errors"
	"fmt"

	"github.com/ironsheep/texpack/internal/geom"
)

// ErrInvalidCapacity is returned when the capacity is not positive.
var ErrInvalidCapacity = errors.New("capacity must be positive")

// ErrInvalidSize is returned when a rectangle has a non-positive dimension.
var ErrInvalidSize = errors.New("rectangle size must be positive")

// OverflowError reports the first rectangle, by input index, that could not be
// placed within the capacity.
type OverflowError struct {
	Index    int
	Size     geom.Size
	Capacity int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("rectangle %d (%dx%d) could not be placed within %dx%d",
		e.Index, e.Size.Width, e.Size.Height, e.Capacity, e.Capacity)
}

// Placement is where one input rectangle ended up.
//
// When Rotated is true the rectangle occupies Size.Transpose() pixels starting
// at Origin.
type Placement struct {
	Origin  geom.Point
	Rotated bool
}

// Result is the outcome of a successful Pack call.
type Result struct {
	// Placements holds one entry per input size, in input order.
	Placements []Placement
	// Size is the bounding box of all placements.
	Size geom.Size
}

// Packer computes non-overlapping placements for a set of rectangles inside a
// canvas no larger than capacity x capacity.
type Packer interface {
	Pack(sizes []geom.Size, capacity int) (Result, error)
}

// Bounds returns the rectangle occupied by placement p of a rectangle of size s.
func Bounds(s geom.Size, p Placement) geom.Rect {
	if p.Rotated {
		s = s.Transpose()
	}
	return geom.Rect{Origin: p.Origin, Size: s}
}

// Validate checks that res is a legal packing of sizes: one placement per size,
// no overlaps, every placement inside the reported canvas, and the canvas within
// capacity.
func Validate(sizes []geom.Size, res Result, capacity int) error {
	if len(res.Placements) != len(sizes) {
		return fmt.Errorf("got %d placements for %d rectangles", len(res.Placements), len(sizes))
	}
	if res.Size.Width > capacity || res.Size.Height > capacity {
		return fmt.Errorf("canvas %s exceeds capacity %d", res.Size, capacity)
	}

	canvas := geom.Rect{Size: res.Size}
	rects := make([]geom.Rect, len(sizes))
	for i, s := range sizes {
		rects[i] = Bounds(s, res.Placements[i])
		if !canvas.Contains(rects[i]) {
			return fmt.Errorf("rectangle %d at %s lies outside canvas %s", i, rects[i], res.Size)
		}
	}

	for i := range rects {
		for j := i + 1; j < len(rects); j++ {
			if rects[i].Overlaps(rects[j]) {
				return fmt.Errorf("rectangle %d at %s overlaps rectangle %d at %s", i, rects[i], j, rects[j])
			}
		}
	}
	return nil
}
