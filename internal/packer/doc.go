// Package packer places rectangles inside the smallest canvas that fits them.
//
// The Packer interface is deliberately narrow: it receives a list of sizes and a
// capacity and returns one Placement per size, in input order, plus the size of
// the canvas actually used. The atlas engine only depends on this interface, so
// alternative heuristics can be swapped in and benchmarked without touching
// trimming or composition.
//
// # MaxRects
//
// MaxRects tracks the free space of a bin as a list of maximal empty
// rectangles. Every insertion picks the free rectangle and orientation with
// the best score for the configured Heuristic, splits every free rectangle the
// new placement intersects into up to four maximal remainders, and prunes free
// rectangles contained in others.
//
// The canvas search runs several insertion orders (area, perimeter, longest
// side, width, height; each descending with input order as the tie-break),
// binary searches the smallest square bin each order fits, then shrinks width
// and height independently. The candidate with the smallest used area wins,
// then the squarer one, then the narrower one. Every step is deterministic.
package packer
