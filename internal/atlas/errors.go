package atlas

import (
	"errors"
	"fmt"

	"github.com/ironsheep/texpack/internal/geom"
)

var (
	// ErrFrameNotFound is returned when no frame is registered under a name.
	ErrFrameNotFound = errors.New("frame not found")

	// ErrInvalidImage is returned for pixel buffers that do not describe a
	// non-empty RGBA8888 image.
	ErrInvalidImage = errors.New("invalid image")

	// ErrEmptyName is returned when registering a frame without a name.
	ErrEmptyName = errors.New("frame name must not be empty")

	// ErrNotPacked is returned when the canvas or manifest is requested
	// before a successful Pack, or after the frame set changed.
	ErrNotPacked = errors.New("atlas is not packed")
)

// OverflowError reports the first frame, in name order, that could not be
// placed within the capacity. Packing is deterministic, so retrying the same
// input fails the same way.
type OverflowError struct {
	Name     string
	Size     geom.Size
	Capacity int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("packing failed on %s: %dx%d frame could not be placed within %dx%d",
		e.Name, e.Size.Width, e.Size.Height, e.Capacity, e.Capacity)
}
