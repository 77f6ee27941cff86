package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

// Format identifies an output encoding for a packed canvas.
type Format string

// Supported canvas encodings.
const (
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
	FormatBMP  Format = "bmp"
	FormatTGA  Format = "tga"
)

// ErrUnsupportedFormat is returned for an unknown canvas encoding name.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ParseFormat maps a case-insensitive name ("png", "webp", "bmp", "tga") to a Format.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(name, "."))); f {
	case FormatPNG, FormatWebP, FormatBMP, FormatTGA:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// Ext returns the file extension for f, including the leading dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// InputExtensions lists the file extensions Decode understands.
var InputExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp", ".tga"}

// DecodeOptions controls pixel normalization after decoding.
type DecodeOptions struct {
	// PremultiplyAlpha scales the color channels by alpha/255.
	PremultiplyAlpha bool
}

// Decode decodes an encoded image into a freshly allocated NRGBA buffer.
//
// Pixels with zero alpha always have their color channels cleared to zero.
// Errors from the underlying decoder are wrapped, not interpreted.
func Decode(data []byte, opts DecodeOptions) (*image.NRGBA, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("failed to decode image: empty input")
	}

	img, err := decodeSniffed(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	n := ToNRGBA(img)
	normalize(n, opts.PremultiplyAlpha)
	return n, nil
}

// decodeSniffed picks a decoder from the leading magic bytes instead of going
// through image.Decode, since the TGA decoder registers an empty magic string
// and would otherwise shadow formats registered after it.
func decodeSniffed(data []byte) (image.Image, error) {
	r := bytes.NewReader(data)
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return png.Decode(r)
	case bytes.HasPrefix(data, []byte("\xff\xd8")):
		return jpeg.Decode(r)
	case bytes.HasPrefix(data, []byte("GIF8")):
		return gif.Decode(r)
	case bytes.HasPrefix(data, []byte("BM")):
		return bmp.Decode(r)
	case len(data) >= 12 && bytes.HasPrefix(data, []byte("RIFF")) && string(data[8:12]) == "WEBP":
		return webp.Decode(r)
	default:
		return tga.Decode(r)
	}
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format Format) error {
	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatWebP:
		err = nativewebp.Encode(w, img, nil)
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatTGA:
		err = tga.Encode(w, img)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s image: %w", format, err)
	}
	return nil
}

// ToNRGBA returns a copy of img as an NRGBA image anchored at (0,0).
// An *image.NRGBA source is copied byte for byte.
func ToNRGBA(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

func normalize(img *image.NRGBA, premultiply bool) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		row := img.Pix[i : i+b.Dx()*4]
		for x := 0; x < len(row); x += 4 {
			a := uint32(row[x+3])
			switch {
			case a == 0:
				row[x], row[x+1], row[x+2] = 0, 0, 0
			case premultiply && a < 255:
				row[x] = uint8((uint32(row[x])*a + 127) / 255)
				row[x+1] = uint8((uint32(row[x+1])*a + 127) / 255)
				row[x+2] = uint8((uint32(row[x+2])*a + 127) / 255)
			}
		}
	}
}
