package atlas

import (
	"sort"

	"github.com/ironsheep/texpack/internal/geom"
	"github.com/ironsheep/texpack/internal/manifest"
)

// Describe builds the manifest document for packed frames on a canvas of the
// given size. Frames are listed in name order whatever order they are passed
// in. textureName is recorded verbatim as the texture file name.
func Describe(frames []Frame, size geom.Size, textureName string) *manifest.Document {
	sorted := make([]Frame, len(frames))
	copy(sorted, frames)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	doc := &manifest.Document{
		Frames: make([]manifest.Frame, 0, len(sorted)),
		Metadata: manifest.Metadata{
			Format:              manifest.FormatVersion,
			RealTextureFileName: textureName,
			TextureFileName:     textureName,
			Size:                size,
		},
	}

	for _, f := range sorted {
		doc.Frames = append(doc.Frames, manifest.Frame{
			Name:             f.Name,
			SpriteOffset:     f.Offset,
			SpriteSize:       f.TrimmedSize,
			SpriteSourceSize: f.SourceSize,
			TextureRect:      f.Placement,
			TextureRotated:   f.Rotated,
			TrimOrigin:       f.TrimOrigin,
		})
	}
	return doc
}
