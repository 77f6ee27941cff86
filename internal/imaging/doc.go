// Package imaging provides the pixel-level primitives the atlas packer is built on.
//
// All images handled here are *image.NRGBA (non-premultiplied RGBA, 8 bits per
// channel) anchored at (0,0). Anything decoded or converted by this package is a
// fresh copy; no caller buffer is retained.
//
// # Codec
//
// Decode sniffs the leading bytes of an encoded image and dispatches to the
// matching decoder (PNG, JPEG, GIF, BMP, WebP; anything else is tried as TGA,
// which has no magic number). Decoded pixels with zero alpha have their color
// channels cleared so that fully transparent regions compare equal byte for
// byte. Encode writes a canvas as PNG, WebP, BMP or TGA.
//
// # Rotation
//
// RotateClockwise is the only rotation used when a frame is stored rotated in
// an atlas. RotateCounterClockwise is its exact inverse. Both are lossless
// axis permutations.
//
// # Coordinate System
//
// (0,0) is the top-left pixel, X grows rightward and Y grows downward.
// Regions are half-open: Min is inclusive and Max is exclusive.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. The remaining functions are
// stateless and can be called concurrently on different images.
package imaging
