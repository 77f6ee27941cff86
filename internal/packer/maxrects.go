package packer

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ironsheep/texpack/internal/geom"
)

// Heuristic selects how MaxRects scores a free rectangle for a placement.
type Heuristic int

const (
	// BestAreaFit picks the free rectangle with the least leftover area,
	// then the smallest leftover short side.
	BestAreaFit Heuristic = iota
	// BestShortSideFit picks the smallest leftover short side, then the
	// smallest leftover long side.
	BestShortSideFit
	// BottomLeft picks the lowest resulting top edge, then the leftmost x.
	BottomLeft
)

var heuristicNames = map[Heuristic]string{
	BestAreaFit:      "area",
	BestShortSideFit: "short-side",
	BottomLeft:       "bottom-left",
}

func (h Heuristic) String() string {
	if name, ok := heuristicNames[h]; ok {
		return name
	}
	return fmt.Sprintf("Heuristic(%d)", int(h))
}

// ParseHeuristic maps "area", "short-side" or "bottom-left" to a Heuristic.
func ParseHeuristic(name string) (Heuristic, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for h, n := range heuristicNames {
		if n == name {
			return h, nil
		}
	}
	return 0, fmt.Errorf("unknown packing heuristic: %q", name)
}

// MaxRects is a maximal-rectangles packer with a minimal canvas search.
// The zero value uses BestAreaFit with rotation enabled.
type MaxRects struct {
	Heuristic       Heuristic
	DisableRotation bool
}

// NewMaxRects returns a MaxRects packer using the given heuristic.
func NewMaxRects(h Heuristic) *MaxRects {
	return &MaxRects{Heuristic: h}
}

type attempt struct {
	placements []Placement
	size       geom.Size
}

// better reports whether a should replace the current best candidate.
func (a attempt) better(best *attempt) bool {
	if best == nil {
		return true
	}
	if a.size.Area() != best.size.Area() {
		return a.size.Area() < best.size.Area()
	}
	aLong := max(a.size.Width, a.size.Height)
	bLong := max(best.size.Width, best.size.Height)
	if aLong != bLong {
		return aLong < bLong
	}
	return a.size.Width < best.size.Width
}

// Pack implements Packer.
func (m *MaxRects) Pack(sizes []geom.Size, capacity int) (Result, error) {
	if len(sizes) == 0 {
		return Result{Placements: []Placement{}}, nil
	}
	if capacity <= 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}

	rotate := !m.DisableRotation
	for i, s := range sizes {
		if s.Empty() {
			return Result{}, fmt.Errorf("%w: rectangle %d is %dx%d", ErrInvalidSize, i, s.Width, s.Height)
		}
		if !fits(s, capacity, capacity, rotate) {
			return Result{}, &OverflowError{Index: i, Size: s, Capacity: capacity}
		}
	}

	var best *attempt
	firstFailure := -1
	for _, key := range orderKeys {
		order := sortedOrder(sizes, key)

		full, failed := m.run(sizes, order, capacity, capacity, false)
		if len(failed) > 0 {
			if firstFailure < 0 {
				firstFailure = minIndex(failed)
			}
			continue
		}
		if full.better(best) {
			best = &full
		}

		for _, a := range m.shrink(sizes, order, capacity, full) {
			if a.better(best) {
				a := a
				best = &a
			}
		}
	}

	if best == nil {
		return Result{}, &OverflowError{Index: firstFailure, Size: sizes[firstFailure], Capacity: capacity}
	}
	return Result{Placements: best.placements, Size: best.size}, nil
}

// shrink searches for smaller bins that still hold every rectangle in the
// given insertion order: first the smallest square, then the narrowest and
// the shortest bin of that square's side. full is the layout found at
// capacity; its bounding square caps the search.
func (m *MaxRects) shrink(sizes []geom.Size, order []int, capacity int, full attempt) []attempt {
	rotate := !m.DisableRotation
	total := 0
	longest := 0
	for _, s := range sizes {
		total += s.Area()
		longest = max(longest, s.Width, s.Height)
	}

	try := func(w, h int) (attempt, bool) {
		a, failed := m.run(sizes, order, w, h, true)
		return a, len(failed) == 0
	}

	lo := max(longest, ceilSqrt(total))
	hi := min(capacity, max(full.size.Width, full.size.Height))
	side, square, ok := smallest(lo, hi-1, func(n int) (attempt, bool) { return try(n, n) })
	if !ok {
		side, square = hi, full
	}
	out := []attempt{square}

	loW := max(minExtent(sizes, side, rotate, false), ceilDiv(total, side))
	if _, a, ok := smallest(loW, side, func(n int) (attempt, bool) { return try(n, side) }); ok {
		out = append(out, a)
	}

	loH := max(minExtent(sizes, side, rotate, true), ceilDiv(total, side))
	if _, a, ok := smallest(loH, side, func(n int) (attempt, bool) { return try(side, n) }); ok {
		out = append(out, a)
	}
	return out
}

// run packs sizes in the given order into a w x h bin and returns the input
// indices that could not be placed. With stopOnFail it returns at the first one.
func (m *MaxRects) run(sizes []geom.Size, order []int, w, h int, stopOnFail bool) (attempt, []int) {
	b := newBin(w, h)
	placements := make([]Placement, len(sizes))
	var failed []int
	var used geom.Size

	for _, idx := range order {
		p, ok := b.insert(sizes[idx], m.Heuristic, !m.DisableRotation)
		if !ok {
			failed = append(failed, idx)
			if stopOnFail {
				return attempt{}, failed
			}
			continue
		}
		placements[idx] = p
		r := Bounds(sizes[idx], p)
		used.Width = max(used.Width, r.Right())
		used.Height = max(used.Height, r.Bottom())
	}
	return attempt{placements: placements, size: used}, failed
}

// bin is the free-space state of one packing attempt.
type bin struct {
	free []geom.Rect
}

func newBin(w, h int) *bin {
	return &bin{free: []geom.Rect{geom.R(0, 0, w, h)}}
}

func (b *bin) insert(s geom.Size, h Heuristic, rotate bool) (Placement, bool) {
	found := false
	var best Placement
	var bestRect geom.Rect
	best1, best2 := math.MaxInt, math.MaxInt

	for _, f := range b.free {
		for o := 0; o < 2; o++ {
			rotated := o == 1
			if rotated && (!rotate || s.Width == s.Height) {
				break
			}
			sz := s
			if rotated {
				sz = s.Transpose()
			}
			if sz.Width > f.Size.Width || sz.Height > f.Size.Height {
				continue
			}

			s1, s2 := score(h, f, sz)
			if s1 < best1 || (s1 == best1 && s2 < best2) {
				found = true
				best1, best2 = s1, s2
				best = Placement{Origin: f.Origin, Rotated: rotated}
				bestRect = geom.Rect{Origin: f.Origin, Size: sz}
			}
		}
	}

	if !found {
		return Placement{}, false
	}
	b.place(bestRect)
	return best, true
}

func score(h Heuristic, free geom.Rect, s geom.Size) (int, int) {
	leftW := free.Size.Width - s.Width
	leftH := free.Size.Height - s.Height
	switch h {
	case BestShortSideFit:
		return min(leftW, leftH), max(leftW, leftH)
	case BottomLeft:
		return free.Origin.Y + s.Height, free.Origin.X
	default:
		return free.Area() - s.Area(), min(leftW, leftH)
	}
}

// place splits every free rectangle that intersects used into its maximal
// remainders. Free rectangles untouched by used are never contained in one
// another, so only the new remainders need pruning.
func (b *bin) place(used geom.Rect) {
	survivors := make([]geom.Rect, 0, len(b.free)+4)
	var pieces []geom.Rect
	for _, f := range b.free {
		if !f.Overlaps(used) {
			survivors = append(survivors, f)
			continue
		}
		if used.Origin.X > f.Origin.X {
			pieces = append(pieces, geom.R(f.Origin.X, f.Origin.Y, used.Origin.X-f.Origin.X, f.Size.Height))
		}
		if used.Right() < f.Right() {
			pieces = append(pieces, geom.R(used.Right(), f.Origin.Y, f.Right()-used.Right(), f.Size.Height))
		}
		if used.Origin.Y > f.Origin.Y {
			pieces = append(pieces, geom.R(f.Origin.X, f.Origin.Y, f.Size.Width, used.Origin.Y-f.Origin.Y))
		}
		if used.Bottom() < f.Bottom() {
			pieces = append(pieces, geom.R(f.Origin.X, used.Bottom(), f.Size.Width, f.Bottom()-used.Bottom()))
		}
	}
	b.free = append(survivors, prune(pieces, survivors)...)
}

// prune drops the pieces contained in a survivor or in another piece.
func prune(pieces, survivors []geom.Rect) []geom.Rect {
	out := make([]geom.Rect, 0, len(pieces))
next:
	for i, r := range pieces {
		for _, o := range survivors {
			if o.Contains(r) {
				continue next
			}
		}
		for j, o := range pieces {
			// Of two identical pieces only the first survives.
			if i == j || !o.Contains(r) || (r == o && i < j) {
				continue
			}
			continue next
		}
		out = append(out, r)
	}
	return out
}

// orderKeys are the insertion orders tried by Pack, each sorted descending.
var orderKeys = []func(geom.Size) int{
	func(s geom.Size) int { return s.Area() },
	func(s geom.Size) int { return s.Width + s.Height },
	func(s geom.Size) int { return max(s.Width, s.Height) },
	func(s geom.Size) int { return s.Width },
	func(s geom.Size) int { return s.Height },
}

func sortedOrder(sizes []geom.Size, key func(geom.Size) int) []int {
	order := make([]int, len(sizes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return key(sizes[order[a]]) > key(sizes[order[b]])
	})
	return order
}

// smallest binary searches [lo, hi] for the smallest n accepted by try.
func smallest(lo, hi int, try func(int) (attempt, bool)) (int, attempt, bool) {
	n := -1
	var found attempt
	for lo <= hi {
		mid := lo + (hi-lo)/2
		if a, ok := try(mid); ok {
			n, found = mid, a
			hi = mid - 1
		} else {
			lo = mid + 1
		}
	}
	return n, found, n >= 0
}

func fits(s geom.Size, w, h int, rotate bool) bool {
	if s.Width <= w && s.Height <= h {
		return true
	}
	return rotate && s.Height <= w && s.Width <= h
}

// minExtent returns the smallest bin width (or height, when vertical is set)
// every rectangle can reach while the other dimension is limited to limit.
func minExtent(sizes []geom.Size, limit int, rotate, vertical bool) int {
	extent := 0
	for _, s := range sizes {
		if vertical {
			s = s.Transpose()
		}
		need := math.MaxInt
		if s.Height <= limit {
			need = s.Width
		}
		if rotate && s.Width <= limit {
			need = min(need, s.Height)
		}
		extent = max(extent, need)
	}
	return extent
}

func minIndex(indices []int) int {
	m := indices[0]
	for _, i := range indices[1:] {
		m = min(m, i)
	}
	return m
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func ceilSqrt(n int) int {
	r := int(math.Sqrt(float64(n)))
	for r*r < n {
		r++
	}
	for r > 0 && (r-1)*(r-1) >= n {
		r--
	}
	return r
}
