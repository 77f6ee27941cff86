package atlas

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ironsheep/texpack/internal/geom"
	"github.com/ironsheep/texpack/internal/packer"
)

func TestAddRaw_CopiesInput(t *testing.T) {
	a := New(Options{})
	pix := rawPixels(patternImage(2, 2, 9))
	orig := append([]byte(nil), pix...)

	if err := a.AddRaw("p", pix, 2, 2); err != nil {
		t.Fatalf("AddRaw failed: %v", err)
	}
	for i := range pix {
		pix[i] = 0
	}

	f, err := a.Frame("p")
	if err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	if !bytes.Equal(f.Pixels.Pix, orig) {
		t.Error("frame pixels changed after the caller reused its buffer")
	}
}

func TestAddRaw_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		pix  []byte
		w, h int
	}{
		{"zero width", nil, 0, 4},
		{"negative height", nil, 4, -1},
		{"short buffer", make([]byte, 15), 2, 2},
		{"long buffer", make([]byte, 17), 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(Options{})
			err := a.AddRaw("x", tt.pix, tt.w, tt.h)
			if !errors.Is(err, ErrInvalidImage) {
				t.Errorf("got %v, want ErrInvalidImage", err)
			}
			if a.Len() != 0 {
				t.Errorf("Len: got %d, want 0", a.Len())
			}
		})
	}
}

func TestAddImage_EmptyName(t *testing.T) {
	a := New(Options{})
	if err := a.AddImage("", patternImage(1, 1, 0)); !errors.Is(err, ErrEmptyName) {
		t.Errorf("got %v, want ErrEmptyName", err)
	}
}

func TestAddImage_ConvertsNonNRGBA(t *testing.T) {
	a := New(Options{})
	gray := image.NewGray(image.Rect(0, 0, 3, 2))
	gray.SetGray(1, 1, color.Gray{Y: 200})

	if err := a.AddImage("g", gray); err != nil {
		t.Fatalf("AddImage failed: %v", err)
	}
	f, _ := a.Frame("g")
	// Gray is fully opaque, so nothing is trimmed.
	if f.TrimmedSize != (geom.Size{Width: 3, Height: 2}) {
		t.Errorf("TrimmedSize: got %s, want {3,2}", f.TrimmedSize)
	}
	if got := f.Pixels.NRGBAAt(1, 1); got != (color.NRGBA{200, 200, 200, 255}) {
		t.Errorf("pixel: got %v", got)
	}
}

func TestAddImage_ReplacesByName(t *testing.T) {
	a := New(Options{})
	if err := a.AddImage("a", patternImage(4, 4, 1)); err != nil {
		t.Fatal(err)
	}
	if err := a.AddImage("a", patternImage(6, 2, 2)); err != nil {
		t.Fatal(err)
	}

	if a.Len() != 1 {
		t.Fatalf("Len: got %d, want 1", a.Len())
	}
	f, _ := a.Frame("a")
	if f.SourceSize != (geom.Size{Width: 6, Height: 2}) {
		t.Errorf("SourceSize: got %s, want {6,2}", f.SourceSize)
	}
}

func TestFrame_NotFound(t *testing.T) {
	a := New(Options{})
	if _, err := a.Frame("missing"); !errors.Is(err, ErrFrameNotFound) {
		t.Errorf("got %v, want ErrFrameNotFound", err)
	}
}

func TestPack_Empty(t *testing.T) {
	a := New(Options{})
	if err := a.Pack(); err != nil {
		t.Fatalf("Pack failed: %v", err)
	}

	canvas, err := a.Canvas()
	if err != nil {
		t.Fatalf("Canvas failed: %v", err)
	}
	if !canvas.Bounds().Empty() {
		t.Errorf("canvas bounds: got %v, want empty", canvas.Bounds())
	}

	doc, err := a.Manifest("atlas.png")
	if err != nil {
		t.Fatalf("Manifest failed: %v", err)
	}
	if len(doc.Frames) != 0 {
		t.Errorf("Frames: got %d, want 0", len(doc.Frames))
	}
}

func TestPack_ThreeFrames(t *testing.T) {
	a := New(Options{Capacity: 32})
	colors := map[string]color.NRGBA{
		"c": {0, 0, 255, 255},
		"a": {255, 0, 0, 255},
		"b": {0, 255, 0, 255},
	}
	for _, name := range []string{"c", "a", "b"} {
		if err := a.AddImage(name, solidImage(10, 10, colors[name])); err != nil {
			t.Fatalf("AddImage(%s) failed: %v", name, err)
		}
	}

	if err := a.Pack(); err != nil {
		t.Fatalf("Pack failed: %v", err)
	}

	doc, err := a.Manifest("atlas.png")
	if err != nil {
		t.Fatalf("Manifest failed: %v", err)
	}

	var names []string
	for _, f := range doc.Frames {
		names = append(names, f.Name)
		if f.TextureRotated {
			t.Errorf("frame %s rotated, squares never need rotation", f.Name)
		}
		if f.SpriteSize != (geom.Size{Width: 10, Height: 10}) {
			t.Errorf("frame %s SpriteSize: got %s", f.Name, f.SpriteSize)
		}
		if f.SpriteOffset != (geom.Point{}) {
			t.Errorf("frame %s SpriteOffset: got %s", f.Name, f.SpriteOffset)
		}
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, names); diff != "" {
		t.Errorf("frame order mismatch (-want +got):\n%s", diff)
	}

	canvas, _ := a.Canvas()
	size := doc.Metadata.Size
	if size.Width > 32 || size.Height > 32 || size.Area() > 400 {
		t.Errorf("canvas size %s exceeds 20x20 worth of pixels", size)
	}
	if canvas.Bounds() != image.Rect(0, 0, size.Width, size.Height) {
		t.Errorf("canvas bounds %v do not match manifest size %s", canvas.Bounds(), size)
	}

	for _, f := range doc.Frames {
		r := f.TextureRect
		if got := canvas.NRGBAAt(r.Origin.X+5, r.Origin.Y+5); got != colors[f.Name] {
			t.Errorf("frame %s center: got %v, want %v", f.Name, got, colors[f.Name])
		}
	}
}

func TestPack_RegistrationOrderIndependent(t *testing.T) {
	build := func(names []string) []Frame {
		a := New(Options{Capacity: 64})
		for _, n := range names {
			w := 3 + len(n)*4
			if err := a.AddImage(n, patternImage(w, 7, uint8(w))); err != nil {
				t.Fatal(err)
			}
		}
		if err := a.Pack(); err != nil {
			t.Fatalf("Pack failed: %v", err)
		}
		return a.Frames()
	}

	first := build([]string{"x", "yy", "zzz", "w"})
	second := build([]string{"zzz", "w", "yy", "x"})

	for i := range first {
		if first[i].Name != second[i].Name || first[i].Placement != second[i].Placement || first[i].Rotated != second[i].Rotated {
			t.Errorf("frame %d differs: %s %s vs %s %s",
				i, first[i].Name, first[i].Placement, second[i].Name, second[i].Placement)
		}
	}
}

func TestPack_Overflow(t *testing.T) {
	a := New(Options{Capacity: 32})
	if err := a.AddImage("small", solidImage(8, 8, color.NRGBA{1, 1, 1, 255})); err != nil {
		t.Fatal(err)
	}
	if err := a.Pack(); err != nil {
		t.Fatalf("initial Pack failed: %v", err)
	}
	before, _ := a.Frame("small")

	if err := a.AddImage("wide", solidImage(40, 4, color.NRGBA{2, 2, 2, 255})); err != nil {
		t.Fatal(err)
	}

	for attempt := 0; attempt < 2; attempt++ {
		err := a.Pack()
		var overflow *OverflowError
		if !errors.As(err, &overflow) {
			t.Fatalf("attempt %d: got %v, want *OverflowError", attempt, err)
		}
		if overflow.Name != "wide" {
			t.Errorf("attempt %d: Name got %q, want %q", attempt, overflow.Name, "wide")
		}
		if overflow.Capacity != 32 {
			t.Errorf("attempt %d: Capacity got %d, want 32", attempt, overflow.Capacity)
		}
	}

	after, _ := a.Frame("small")
	if after.Placement != before.Placement || after.Rotated != before.Rotated {
		t.Errorf("failed Pack modified small: %s -> %s", before.Placement, after.Placement)
	}
	if !before.Placed() || after.Placed() {
		t.Errorf("Placed: got %v before and %v after the failed Pack, want true then false", before.Placed(), after.Placed())
	}
	if _, err := a.Canvas(); !errors.Is(err, ErrNotPacked) {
		t.Errorf("Canvas after failed Pack: got %v, want ErrNotPacked", err)
	}
}

func TestPack_OverflowMessage(t *testing.T) {
	// Each square fits alone; only four of the five fit together.
	a := New(Options{Capacity: 20})
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		if err := a.AddImage(name, solidImage(10, 10, color.NRGBA{3, 3, 3, 255})); err != nil {
			t.Fatal(err)
		}
	}

	err := a.Pack()
	var overflow *OverflowError
	if !errors.As(err, &overflow) {
		t.Fatalf("got %v, want *OverflowError", err)
	}
	want := "packing failed on e: 10x10 frame could not be placed within 20x20"
	if err.Error() != want {
		t.Errorf("message: got %q, want %q", err.Error(), want)
	}
}

func TestPack_RotationRoundTrip(t *testing.T) {
	a := New(Options{Capacity: 20})
	wide := patternImage(20, 10, 1)
	tall := patternImage(10, 20, 2)
	if err := a.AddImage("a", wide); err != nil {
		t.Fatal(err)
	}
	if err := a.AddImage("b", tall); err != nil {
		t.Fatal(err)
	}

	if err := a.Pack(); err != nil {
		t.Fatalf("Pack failed: %v", err)
	}

	fa, _ := a.Frame("a")
	fb, _ := a.Frame("b")
	if fa.Rotated == fb.Rotated {
		t.Fatalf("exactly one frame should be rotated: a=%v b=%v", fa.Rotated, fb.Rotated)
	}

	for name, want := range map[string]*image.NRGBA{"a": wide, "b": tall} {
		got, err := a.ExtractFrame(name)
		if err != nil {
			t.Fatalf("ExtractFrame(%s) failed: %v", name, err)
		}
		if got.Bounds() != want.Bounds() {
			t.Errorf("%s bounds: got %v, want %v", name, got.Bounds(), want.Bounds())
			continue
		}
		if !bytes.Equal(got.Pix, want.Pix) {
			t.Errorf("%s pixels differ after extraction", name)
		}
	}
}

func TestPack_InvalidatedByAdd(t *testing.T) {
	a := New(Options{})
	if err := a.AddImage("a", patternImage(2, 2, 0)); err != nil {
		t.Fatal(err)
	}
	if err := a.Pack(); err != nil {
		t.Fatal(err)
	}
	packed, _ := a.Frame("a")
	if err := a.AddImage("b", patternImage(2, 2, 1)); err != nil {
		t.Fatal(err)
	}

	for _, f := range a.Frames() {
		if f.Placed() {
			t.Errorf("%s still reports Placed after a new registration", f.Name)
		}
	}
	if f, _ := a.Frame("a"); f.Placement != packed.Placement {
		t.Errorf("Placement: got %s, want the retained %s", f.Placement, packed.Placement)
	}

	if _, err := a.Canvas(); !errors.Is(err, ErrNotPacked) {
		t.Errorf("Canvas: got %v, want ErrNotPacked", err)
	}
	if _, err := a.Manifest("x.png"); !errors.Is(err, ErrNotPacked) {
		t.Errorf("Manifest: got %v, want ErrNotPacked", err)
	}
	if _, err := a.ExtractFrame("a"); !errors.Is(err, ErrNotPacked) {
		t.Errorf("ExtractFrame: got %v, want ErrNotPacked", err)
	}
}

func TestSetCapacity(t *testing.T) {
	a := New(Options{Capacity: 8})
	if err := a.AddImage("big", patternImage(10, 10, 0)); err != nil {
		t.Fatal(err)
	}

	var overflow *OverflowError
	if err := a.Pack(); !errors.As(err, &overflow) {
		t.Fatalf("got %v, want *OverflowError", err)
	}

	a.SetCapacity(16)
	if a.Capacity() != 16 {
		t.Errorf("Capacity: got %d, want 16", a.Capacity())
	}
	if err := a.Pack(); err != nil {
		t.Errorf("Pack after raising capacity failed: %v", err)
	}
	if f, _ := a.Frame("big"); !f.Placed() {
		t.Error("big should be placed after a successful Pack")
	}

	a.SetCapacity(32)
	if f, _ := a.Frame("big"); f.Placed() {
		t.Error("SetCapacity should clear the placed state")
	}

	a.SetCapacity(0)
	if a.Capacity() != DefaultCapacity {
		t.Errorf("Capacity: got %d, want %d", a.Capacity(), DefaultCapacity)
	}
}

func TestReset(t *testing.T) {
	a := New(Options{})
	_ = a.AddImage("a", patternImage(2, 2, 0))
	_ = a.Pack()

	a.Reset()
	if a.Len() != 0 {
		t.Errorf("Len: got %d, want 0", a.Len())
	}
	if _, err := a.Canvas(); !errors.Is(err, ErrNotPacked) {
		t.Errorf("Canvas: got %v, want ErrNotPacked", err)
	}
	if _, err := a.Frame("a"); !errors.Is(err, ErrFrameNotFound) {
		t.Errorf("Frame: got %v, want ErrFrameNotFound", err)
	}
}

func TestAddEncoded(t *testing.T) {
	a := New(Options{})

	img := image.NewNRGBA(image.Rect(0, 0, 6, 6))
	img.SetNRGBA(3, 2, color.NRGBA{9, 8, 7, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	if err := a.AddEncoded("dot", buf.Bytes()); err != nil {
		t.Fatalf("AddEncoded failed: %v", err)
	}
	f, _ := a.Frame("dot")
	if f.TrimOrigin != (geom.Point{X: 3, Y: 2}) || f.TrimmedSize != (geom.Size{Width: 1, Height: 1}) {
		t.Errorf("trim: got origin %s size %s", f.TrimOrigin, f.TrimmedSize)
	}

	if err := a.AddEncoded("junk", []byte("xyz")); err == nil {
		t.Error("AddEncoded should fail for garbage input")
	}
	if _, err := a.Frame("junk"); !errors.Is(err, ErrFrameNotFound) {
		t.Error("a failed decode must not register a frame")
	}
}

func TestAddImages(t *testing.T) {
	a := New(Options{Capacity: 256})

	var sources []Source
	for i := 0; i < 20; i++ {
		sources = append(sources, Source{
			Name:  fmt.Sprintf("sprite_%02d", i),
			Image: patternImage(3+i, 4+i%5, uint8(i)),
		})
	}
	sources = append(sources, Source{Name: "sprite_00", Image: patternImage(9, 9, 99)})

	if err := a.AddImages(sources, 4); err != nil {
		t.Fatalf("AddImages failed: %v", err)
	}
	if a.Len() != 20 {
		t.Errorf("Len: got %d, want 20", a.Len())
	}
	f, _ := a.Frame("sprite_00")
	if f.SourceSize != (geom.Size{Width: 9, Height: 9}) {
		t.Errorf("later duplicate should win, got SourceSize %s", f.SourceSize)
	}

	if err := a.Pack(); err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
}

func TestAddImages_AllOrNothing(t *testing.T) {
	a := New(Options{})
	sources := []Source{
		{Name: "ok", Image: patternImage(2, 2, 0)},
		{Name: "", Image: patternImage(2, 2, 0)},
		{Name: "nil", Image: nil},
	}

	err := a.AddImages(sources, 2)
	if !errors.Is(err, ErrEmptyName) {
		t.Errorf("got %v, want ErrEmptyName in the joined error", err)
	}
	if !errors.Is(err, ErrInvalidImage) {
		t.Errorf("got %v, want ErrInvalidImage in the joined error", err)
	}
	if a.Len() != 0 {
		t.Errorf("Len: got %d, want 0", a.Len())
	}
}

type failingPacker struct{ err error }

func (p failingPacker) Pack([]geom.Size, int) (packer.Result, error) {
	return packer.Result{}, p.err
}

type overlappingPacker struct{}

func (overlappingPacker) Pack(sizes []geom.Size, capacity int) (packer.Result, error) {
	res := packer.Result{Size: geom.Size{Width: capacity, Height: capacity}}
	for range sizes {
		res.Placements = append(res.Placements, packer.Placement{})
	}
	return res, nil
}

func TestPack_CustomPacker(t *testing.T) {
	boom := errors.New("boom")
	a := New(Options{Packer: failingPacker{err: boom}})
	_ = a.AddImage("a", patternImage(2, 2, 0))
	if err := a.Pack(); !errors.Is(err, boom) {
		t.Errorf("got %v, want wrapped boom", err)
	}

	b := New(Options{Capacity: 16, Packer: overlappingPacker{}})
	_ = b.AddImage("a", patternImage(2, 2, 0))
	_ = b.AddImage("b", patternImage(2, 2, 1))
	if err := b.Pack(); err == nil {
		t.Error("Pack should reject overlapping placements")
	}
	if f, _ := b.Frame("a"); f.Placed() {
		t.Error("rejected layout must not mark frames placed")
	}
}
