// Package manifest defines the per-frame placement document produced after
// packing and renders it to structured text.
//
// The Document itself is format agnostic. EncodePlist writes the XML property
// list understood by Cocos2d style loaders (format 3); EncodeJSON writes the
// TexturePacker "JSON hash" layout.
package manifest

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ironsheep/texpack/internal/geom"
)

// FormatVersion is the numeric format tag written to the metadata.
// Existing consumers key off this value; do not change it.
const FormatVersion = 3

// Frame describes how to recover one original sprite from the canvas.
type Frame struct {
	Name string

	// SpriteOffset moves the trimmed region back to the sprite's visual center.
	SpriteOffset geom.Point
	// SpriteSize is the trimmed size.
	SpriteSize geom.Size
	// SpriteSourceSize is the original, untrimmed size.
	SpriteSourceSize geom.Size
	// TextureRect is the placement in the canvas. Its size is the
	// pre-rotation (trimmed) size even when TextureRotated is set.
	TextureRect geom.Rect
	// TextureRotated means the region is stored rotated 90 degrees clockwise.
	TextureRotated bool

	// TrimOrigin is the top-left corner of the trimmed box in the source image.
	TrimOrigin geom.Point
}

// Metadata carries the document level fields.
type Metadata struct {
	Format              int
	RealTextureFileName string
	TextureFileName     string
	Size                geom.Size
}

// Document is the full manifest. Frames are in name order.
type Document struct {
	Frames   []Frame
	Metadata Metadata
}

// Encoding names an output layout for a Document.
type Encoding string

// Supported manifest encodings.
const (
	EncodingPlist Encoding = "plist"
	EncodingJSON  Encoding = "json"
)

// ErrUnsupportedEncoding is returned for an unknown manifest encoding name.
var ErrUnsupportedEncoding = errors.New("unsupported manifest encoding")

// ParseEncoding maps "plist" or "json" (case-insensitive) to an Encoding.
func ParseEncoding(name string) (Encoding, error) {
	switch e := Encoding(strings.ToLower(strings.TrimPrefix(name, "."))); e {
	case EncodingPlist, EncodingJSON:
		return e, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedEncoding, name)
	}
}

// Ext returns the file extension for e, including the leading dot.
func (e Encoding) Ext() string {
	return "." + string(e)
}

// Encode writes doc to w using the given encoding and indent string.
func Encode(w io.Writer, doc *Document, enc Encoding, indent string) error {
	switch enc {
	case EncodingPlist:
		return EncodePlist(w, doc, indent)
	case EncodingJSON:
		return EncodeJSON(w, doc, indent)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedEncoding, string(enc))
	}
}
