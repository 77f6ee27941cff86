// Package batch packs a directory of images into an atlas on disk.
//
// A run discovers image files, decodes them on a worker pool, registers the
// decoded frames with an atlas.Atlas, packs it and writes the canvas and
// manifest (plus an optional debug overlay) to the output directory.
package batch
