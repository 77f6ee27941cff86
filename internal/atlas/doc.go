// Package atlas builds texture atlases from named sprites.
//
// An Atlas owns a set of frames keyed by name. Every frame is trimmed to the
// bounding box of its non-transparent pixels when it is registered. Pack sorts
// the frames by name, asks a packer.Packer for placements inside the smallest
// canvas not exceeding the capacity, and composites the canvas. Manifest then
// describes how to recover every original sprite from that canvas.
//
// # Trimming
//
// The trimmed box is the smallest rectangle holding every pixel with non-zero
// alpha. A fully transparent image is trimmed to its top-left pixel, a 1x1
// box, so no frame ever has a zero area. The anchor offset is
//
//	offset.x = left - round((sourceWidth - trimmedWidth) / 2)
//	offset.y = round((sourceHeight - trimmedHeight) / 2) - top
//
// with halves rounded away from zero on both axes.
//
// # Rotation
//
// A frame marked Rotated is stored in the canvas rotated 90 degrees clockwise.
// Its Placement keeps the unrotated trimmed size; the pixels it covers are
// Placement.Size transposed.
//
// # Concurrency
//
// An Atlas is not safe for concurrent mutation. Concurrent reads of a packed
// atlas (Frame, Frames, Canvas, Manifest) are safe. AddImages trims frames in
// parallel but registers them in input order.
package atlas
