package manifest

import (
	"bytes"
	"fmt"
	"io"

	"howett.net/plist"
)

// plistDocument mirrors the layout of the XML property list. The encoder
// writes dictionary keys in sorted order, which for these tags is also the
// order TexturePacker emits them.
type plistDocument struct {
	Frames   map[string]plistFrame `plist:"frames"`
	Metadata plistMetadata         `plist:"metadata"`
}

type plistFrame struct {
	SpriteOffset     string `plist:"spriteOffset"`
	SpriteSize       string `plist:"spriteSize"`
	SpriteSourceSize string `plist:"spriteSourceSize"`
	TextureRect      string `plist:"textureRect"`
	TextureRotated   bool   `plist:"textureRotated"`
}

type plistMetadata struct {
	Format              int    `plist:"format"`
	RealTextureFileName string `plist:"realTextureFileName"`
	Size                string `plist:"size"`
	TextureFileName     string `plist:"textureFileName"`
}

// EncodePlist writes doc as an XML property list:
//
//	<plist version="1.0">
//	  <dict>
//	    <key>frames</key>
//	    <dict>
//	      <key>NAME</key>
//	      <dict>spriteOffset, spriteSize, spriteSourceSize, textureRect, textureRotated</dict>
//	    </dict>
//	    <key>metadata</key>
//	    <dict>format, realTextureFileName, size, textureFileName</dict>
//	  </dict>
//	</plist>
//
// Frames are keyed by name, so they come out sorted by name.
func EncodePlist(w io.Writer, doc *Document, indent string) error {
	pd := plistDocument{
		Frames: make(map[string]plistFrame, len(doc.Frames)),
		Metadata: plistMetadata{
			Format:              doc.Metadata.Format,
			RealTextureFileName: doc.Metadata.RealTextureFileName,
			Size:                doc.Metadata.Size.String(),
			TextureFileName:     doc.Metadata.TextureFileName,
		},
	}
	for _, f := range doc.Frames {
		pd.Frames[f.Name] = plistFrame{
			SpriteOffset:     f.SpriteOffset.String(),
			SpriteSize:       f.SpriteSize.String(),
			SpriteSourceSize: f.SpriteSourceSize.String(),
			TextureRect:      f.TextureRect.String(),
			TextureRotated:   f.TextureRotated,
		}
	}

	// The encoder buffers internally and drops flush errors, so encode into
	// memory and report write failures from w directly.
	var buf bytes.Buffer
	enc := plist.NewEncoderForFormat(&buf, plist.XMLFormat)
	enc.Indent(indent)
	if err := enc.Encode(pd); err != nil {
		return fmt.Errorf("failed to encode plist: %w", err)
	}
	buf.WriteByte('\n')

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write plist: %w", err)
	}
	return nil
}
