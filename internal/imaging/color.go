package imaging

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// PaletteColor returns the i-th of n evenly spaced, fully opaque hues.
//
// The sequence is deterministic so that debug overlays of the same atlas are
// identical between runs.
func PaletteColor(i, n int) color.NRGBA {
	if n <= 0 {
		n = 1
	}
	hue := 360.0 * float64(i%n) / float64(n)
	r, g, b := colorful.Hsv(hue, 0.85, 0.95).RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// ParseHexColor parses "#RRGGBB" or "#RRGGBBAA" into an NRGBA color.
func ParseHexColor(s string) (color.NRGBA, error) {
	alpha := uint8(255)
	if len(s) == 9 {
		var a uint8
		if _, err := fmt.Sscanf(s[7:], "%02x", &a); err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid alpha in color %q: %w", s, err)
		}
		alpha = a
		s = s[:7]
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}
