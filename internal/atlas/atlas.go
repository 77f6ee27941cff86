package atlas

import (
	"errors"
	"fmt"
	"image"
	"sort"
	"sync"

	"github.com/ironsheep/texpack/internal/geom"
	"github.com/ironsheep/texpack/internal/imaging"
	"github.com/ironsheep/texpack/internal/manifest"
	"github.com/ironsheep/texpack/internal/packer"
)

// DefaultCapacity is the maximum canvas width and height used when Options
// leaves Capacity unset.
const DefaultCapacity = 10000

// Options configures a new Atlas. The zero value is usable.
type Options struct {
	// Capacity limits the canvas width and height. Defaults to DefaultCapacity.
	Capacity int
	// Packer computes placements. Defaults to a best-area-fit MaxRects packer.
	Packer packer.Packer
	// Decode controls how AddEncoded normalizes decoded pixels.
	Decode imaging.DecodeOptions
}

// Source is a named image awaiting registration.
type Source struct {
	Name  string
	Image image.Image
}

// Atlas owns a set of frames and the canvas produced by the last Pack.
//
// Frames live in a slice in registration order with a name index beside it;
// registering an existing name replaces that frame in place.
type Atlas struct {
	frames   []Frame
	index    map[string]int
	capacity int
	packer   packer.Packer
	decode   imaging.DecodeOptions

	canvas *image.NRGBA
	size   geom.Size
	packed bool
}

// New creates an empty atlas.
func New(opts Options) *Atlas {
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCapacity
	}
	if opts.Packer == nil {
		opts.Packer = packer.NewMaxRects(packer.BestAreaFit)
	}
	return &Atlas{
		index:    make(map[string]int),
		capacity: opts.Capacity,
		packer:   opts.Packer,
		decode:   opts.Decode,
	}
}

// Capacity returns the maximum canvas width and height.
func (a *Atlas) Capacity() int {
	return a.capacity
}

// SetCapacity changes the capacity used by the next Pack and discards the
// current canvas.
func (a *Atlas) SetCapacity(capacity int) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	a.capacity = capacity
	a.invalidate()
}

// AddRaw registers a frame from a tightly packed RGBA8888 buffer of
// width*height*4 bytes. The buffer is copied; the caller may reuse it.
func (a *Atlas) AddRaw(name string, pix []byte, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidImage, width, height)
	}
	if len(pix) != width*height*4 {
		return fmt.Errorf("%w: %d bytes for %dx%d RGBA8888", ErrInvalidImage, len(pix), width, height)
	}

	img := &image.NRGBA{
		Pix:    pix,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}
	return a.AddImage(name, img)
}

// AddImage registers a frame from any image. Non-NRGBA images are converted
// first. The atlas keeps only its own trimmed copy.
func (a *Atlas) AddImage(name string, img image.Image) error {
	f, err := trimSource(Source{Name: name, Image: img})
	if err != nil {
		return err
	}
	a.register(f)
	return nil
}

// AddEncoded decodes an encoded image (PNG, JPEG, GIF, BMP, WebP or TGA) and
// registers it. Decoder errors are returned wrapped.
func (a *Atlas) AddEncoded(name string, data []byte) error {
	img, err := imaging.Decode(data, a.decode)
	if err != nil {
		return fmt.Errorf("frame %s: %w", name, err)
	}
	return a.AddImage(name, img)
}

// AddImages trims sources on up to workers goroutines and then registers them
// in slice order, so a later duplicate name still replaces an earlier one.
// Nothing is registered if any source fails.
func (a *Atlas) AddImages(sources []Source, workers int) error {
	if workers <= 0 {
		workers = 1
	}

	frames := make([]Frame, len(sources))
	errs := make([]error, len(sources))

	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				frames[i], errs[i] = trimSource(sources[i])
			}
		}()
	}
	for i := range sources {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return err
	}
	for _, f := range frames {
		a.register(f)
	}
	return nil
}

func trimSource(src Source) (Frame, error) {
	if src.Name == "" {
		return Frame{}, ErrEmptyName
	}
	if src.Image == nil || src.Image.Bounds().Empty() {
		return Frame{}, fmt.Errorf("frame %s: %w: empty image", src.Name, ErrInvalidImage)
	}

	img, ok := src.Image.(*image.NRGBA)
	if !ok {
		img = imaging.ToNRGBA(src.Image)
	}

	f, err := Trim(img)
	if err != nil {
		return Frame{}, fmt.Errorf("frame %s: %w", src.Name, err)
	}
	f.Name = src.Name
	return f, nil
}

func (a *Atlas) register(f Frame) {
	a.invalidate()
	if i, ok := a.index[f.Name]; ok {
		a.frames[i] = f
		return
	}
	a.index[f.Name] = len(a.frames)
	a.frames = append(a.frames, f)
}

// Frame returns a copy of the frame registered under name.
func (a *Atlas) Frame(name string) (Frame, error) {
	i, ok := a.index[name]
	if !ok {
		return Frame{}, fmt.Errorf("%w: %s", ErrFrameNotFound, name)
	}
	return a.frameAt(i), nil
}

// Frames returns copies of all frames in name order.
func (a *Atlas) Frames() []Frame {
	order := a.sortedIndices()
	frames := make([]Frame, len(order))
	for i, idx := range order {
		frames[i] = a.frameAt(idx)
	}
	return frames
}

// frameAt copies frame i. Placement and Rotated keep their last values, but
// the frame only reports Placed while the canvas it was placed on is current.
func (a *Atlas) frameAt(i int) Frame {
	f := a.frames[i]
	f.placed = f.placed && a.packed
	return f
}

// Len returns the number of registered frames.
func (a *Atlas) Len() int {
	return len(a.frames)
}

// Reset removes every frame and the canvas.
func (a *Atlas) Reset() {
	a.frames = nil
	a.index = make(map[string]int)
	a.invalidate()
}

// Pack places every frame and composites the canvas.
//
// Frames are packed in name order. On success every frame's Placement and
// Rotated are updated and the canvas is replaced. On failure no frame is
// modified and the atlas is left without a canvas; an *OverflowError names
// the first frame that could not be placed.
func (a *Atlas) Pack() error {
	a.invalidate()

	order := a.sortedIndices()
	sizes := make([]geom.Size, len(order))
	for i, idx := range order {
		sizes[i] = a.frames[idx].TrimmedSize
	}

	res, err := a.packer.Pack(sizes, a.capacity)
	if err != nil {
		var overflow *packer.OverflowError
		if errors.As(err, &overflow) && overflow.Index >= 0 && overflow.Index < len(order) {
			f := a.frames[order[overflow.Index]]
			return &OverflowError{Name: f.Name, Size: f.TrimmedSize, Capacity: a.capacity}
		}
		return fmt.Errorf("packing failed: %w", err)
	}
	if err := packer.Validate(sizes, res, a.capacity); err != nil {
		return fmt.Errorf("packer produced an invalid layout: %w", err)
	}

	packed := make([]Frame, len(order))
	for i, idx := range order {
		f := a.frames[idx]
		f.Placement = geom.Rect{Origin: res.Placements[i].Origin, Size: f.TrimmedSize}
		f.Rotated = res.Placements[i].Rotated
		f.placed = true
		packed[i] = f
	}

	canvas, err := Compose(packed, res.Size)
	if err != nil {
		return fmt.Errorf("failed to compose canvas: %w", err)
	}

	for i, idx := range order {
		a.frames[idx] = packed[i]
	}
	a.canvas = canvas
	a.size = res.Size
	a.packed = true
	return nil
}

// Canvas returns the composited canvas from the last successful Pack.
// The image is shared with the atlas and must not be modified.
func (a *Atlas) Canvas() (*image.NRGBA, error) {
	if !a.packed {
		return nil, ErrNotPacked
	}
	return a.canvas, nil
}

// Manifest describes the packed frames. textureName is the file name the
// caller will store the canvas under.
func (a *Atlas) Manifest(textureName string) (*manifest.Document, error) {
	if !a.packed {
		return nil, ErrNotPacked
	}
	return Describe(a.Frames(), a.size, textureName), nil
}

// ExtractFrame recovers the trimmed pixels of a packed frame from the canvas.
func (a *Atlas) ExtractFrame(name string) (*image.NRGBA, error) {
	if !a.packed {
		return nil, ErrNotPacked
	}
	f, err := a.Frame(name)
	if err != nil {
		return nil, err
	}
	return Extract(a.canvas, f)
}

func (a *Atlas) invalidate() {
	a.canvas = nil
	a.size = geom.Size{}
	a.packed = false
}

func (a *Atlas) sortedIndices() []int {
	order := make([]int, len(a.frames))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return a.frames[order[i]].Name < a.frames[order[j]].Name
	})
	return order
}
