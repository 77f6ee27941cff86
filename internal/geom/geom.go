// Package geom holds the small integer geometry types shared by the packer,
// the atlas engine and the manifest writers.
package geom

import (
	"image"
	"strconv"
)

// Point is a signed 2D coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String formats the point as "{x,y}".
func (p Point) String() string {
	return "{" + strconv.Itoa(p.X) + "," + strconv.Itoa(p.Y) + "}"
}

// Size is a width/height pair.
type Size struct {
	Width  int `json:"w"`
	Height int `json:"h"`
}

// Area returns Width*Height.
func (s Size) Area() int {
	return s.Width * s.Height
}

// Transpose swaps width and height.
func (s Size) Transpose() Size {
	return Size{Width: s.Height, Height: s.Width}
}

// Empty reports whether either dimension is not positive.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// String formats the size as "{w,h}".
func (s Size) String() string {
	return "{" + strconv.Itoa(s.Width) + "," + strconv.Itoa(s.Height) + "}"
}

// Rect is an origin plus a size. Max edges are exclusive.
type Rect struct {
	Origin Point `json:"origin"`
	Size   Size  `json:"size"`
}

// R is shorthand for building a Rect.
func R(x, y, w, h int) Rect {
	return Rect{Origin: Point{X: x, Y: y}, Size: Size{Width: w, Height: h}}
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.Origin.X + r.Size.Width }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Origin.Y + r.Size.Height }

// Area returns the rectangle area.
func (r Rect) Area() int { return r.Size.Area() }

// Overlaps reports whether r and o share at least one pixel.
func (r Rect) Overlaps(o Rect) bool {
	return r.Origin.X < o.Right() && o.Origin.X < r.Right() &&
		r.Origin.Y < o.Bottom() && o.Origin.Y < r.Bottom()
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.Origin.X >= r.Origin.X && o.Origin.Y >= r.Origin.Y &&
		o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Image converts r to an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.Origin.X, r.Origin.Y, r.Right(), r.Bottom())
}

// String formats the rectangle as "{{x,y},{w,h}}".
func (r Rect) String() string {
	return "{" + r.Origin.String() + "," + r.Size.String() + "}"
}
