package manifest

import (
	"encoding/json"
	"fmt"
	"io"
)

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame            jsonRect `json:"frame"`
	Rotated          bool     `json:"rotated"`
	Trimmed          bool     `json:"trimmed"`
	SpriteSourceSize jsonRect `json:"spriteSourceSize"`
	SourceSize       jsonSize `json:"sourceSize"`
}

type jsonMeta struct {
	App     string   `json:"app"`
	Version string   `json:"version"`
	Image   string   `json:"image"`
	Format  string   `json:"format"`
	Size    jsonSize `json:"size"`
	Scale   string   `json:"scale"`
}

type jsonDocument struct {
	Frames map[string]jsonFrame `json:"frames"`
	Meta   jsonMeta             `json:"meta"`
}

// EncodeJSON writes doc in the TexturePacker JSON hash layout.
//
// "frame" carries the pre-rotation size, "rotated" marks a clockwise rotation,
// and "spriteSourceSize" is the trimmed box within the original image.
func EncodeJSON(w io.Writer, doc *Document, indent string) error {
	out := jsonDocument{
		Frames: make(map[string]jsonFrame, len(doc.Frames)),
		Meta: jsonMeta{
			App:     "texpack",
			Version: fmt.Sprint(doc.Metadata.Format),
			Image:   doc.Metadata.TextureFileName,
			Format:  "RGBA8888",
			Size:    jsonSize{W: doc.Metadata.Size.Width, H: doc.Metadata.Size.Height},
			Scale:   "1",
		},
	}

	for _, f := range doc.Frames {
		out.Frames[f.Name] = jsonFrame{
			Frame: jsonRect{
				X: f.TextureRect.Origin.X,
				Y: f.TextureRect.Origin.Y,
				W: f.TextureRect.Size.Width,
				H: f.TextureRect.Size.Height,
			},
			Rotated: f.TextureRotated,
			Trimmed: f.SpriteSize != f.SpriteSourceSize,
			SpriteSourceSize: jsonRect{
				X: f.TrimOrigin.X,
				Y: f.TrimOrigin.Y,
				W: f.SpriteSize.Width,
				H: f.SpriteSize.Height,
			},
			SourceSize: jsonSize{W: f.SpriteSourceSize.Width, H: f.SpriteSourceSize.Height},
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", indent)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to write json manifest: %w", err)
	}
	return nil
}
