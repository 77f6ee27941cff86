package packer

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ironsheep/texpack/internal/geom"
)

func squares(n, side int) []geom.Size {
	sizes := make([]geom.Size, n)
	for i := range sizes {
		sizes[i] = geom.Size{Width: side, Height: side}
	}
	return sizes
}

func randomSizes(seed int64, n, maxSide int) []geom.Size {
	rng := rand.New(rand.NewSource(seed))
	sizes := make([]geom.Size, n)
	for i := range sizes {
		sizes[i] = geom.Size{Width: 1 + rng.Intn(maxSide), Height: 1 + rng.Intn(maxSide)}
	}
	return sizes
}

func TestPack_Empty(t *testing.T) {
	res, err := NewMaxRects(BestAreaFit).Pack(nil, 32)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	if res.Size != (geom.Size{}) {
		t.Errorf("Size: got %s, want {0,0}", res.Size)
	}
	if len(res.Placements) != 0 {
		t.Errorf("Placements: got %d, want 0", len(res.Placements))
	}
}

func TestPack_InvalidInput(t *testing.T) {
	p := NewMaxRects(BestAreaFit)

	if _, err := p.Pack(squares(1, 4), 0); !errors.Is(err, ErrInvalidCapacity) {
		t.Errorf("zero capacity: got %v, want ErrInvalidCapacity", err)
	}
	if _, err := p.Pack([]geom.Size{{Width: 0, Height: 3}}, 10); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("zero width: got %v, want ErrInvalidSize", err)
	}
}

func TestPack_ThreeSquares(t *testing.T) {
	sizes := squares(3, 10)

	res, err := NewMaxRects(BestAreaFit).Pack(sizes, 32)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	if err := Validate(sizes, res, 32); err != nil {
		t.Fatalf("invalid packing: %v", err)
	}
	for i, p := range res.Placements {
		if p.Rotated {
			t.Errorf("placement %d rotated, squares never need rotation", i)
		}
	}
	if res.Size.Area() > 400 {
		t.Errorf("Size: got %s, want at most 400 pixels", res.Size)
	}
}

func TestPack_SingleRectUsesExactSize(t *testing.T) {
	sizes := []geom.Size{{Width: 7, Height: 3}}

	res, err := NewMaxRects(BestAreaFit).Pack(sizes, 100)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	if res.Placements[0].Origin != (geom.Point{}) {
		t.Errorf("Origin: got %s, want {0,0}", res.Placements[0].Origin)
	}
	if got := Bounds(sizes[0], res.Placements[0]).Size; got != res.Size {
		t.Errorf("canvas %s does not match the only placement %s", res.Size, got)
	}
}

func TestPack_RotationRequired(t *testing.T) {
	// A 20x20 canvas only holds both when they share an orientation.
	sizes := []geom.Size{{Width: 20, Height: 10}, {Width: 10, Height: 20}}

	res, err := NewMaxRects(BestAreaFit).Pack(sizes, 20)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	if err := Validate(sizes, res, 20); err != nil {
		t.Fatalf("invalid packing: %v", err)
	}
	if res.Placements[0].Rotated == res.Placements[1].Rotated {
		t.Errorf("exactly one rectangle should be rotated, got %+v", res.Placements)
	}
}

func TestPack_DisableRotation(t *testing.T) {
	sizes := []geom.Size{{Width: 20, Height: 10}, {Width: 10, Height: 20}}
	p := &MaxRects{DisableRotation: true}

	if _, err := p.Pack(sizes, 20); err == nil {
		t.Fatal("Pack should fail without rotation")
	}

	res, err := p.Pack(sizes, 30)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	for i, pl := range res.Placements {
		if pl.Rotated {
			t.Errorf("placement %d rotated with rotation disabled", i)
		}
	}
	if err := Validate(sizes, res, 30); err != nil {
		t.Fatalf("invalid packing: %v", err)
	}
}

func TestPack_OverflowSingle(t *testing.T) {
	sizes := []geom.Size{{Width: 4, Height: 4}, {Width: 40, Height: 50}, {Width: 60, Height: 60}}

	for i := 0; i < 3; i++ {
		_, err := NewMaxRects(BestAreaFit).Pack(sizes, 32)
		var overflow *OverflowError
		if !errors.As(err, &overflow) {
			t.Fatalf("got %v, want *OverflowError", err)
		}
		if overflow.Index != 1 {
			t.Errorf("Index: got %d, want 1", overflow.Index)
		}
	}
}

func TestPack_OverflowAggregate(t *testing.T) {
	// Four 10x10 squares fill a 20x20 canvas; the fifth cannot be placed.
	sizes := squares(5, 10)

	_, err := NewMaxRects(BestAreaFit).Pack(sizes, 20)
	var overflow *OverflowError
	if !errors.As(err, &overflow) {
		t.Fatalf("got %v, want *OverflowError", err)
	}
	if overflow.Index != 4 {
		t.Errorf("Index: got %d, want 4", overflow.Index)
	}
	if want := "rectangle 4 (10x10) could not be placed within 20x20"; overflow.Error() != want {
		t.Errorf("message: got %q, want %q", overflow.Error(), want)
	}
}

func TestPack_ExactFit(t *testing.T) {
	sizes := squares(4, 10)

	res, err := NewMaxRects(BestAreaFit).Pack(sizes, 20)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	if res.Size != (geom.Size{Width: 20, Height: 20}) {
		t.Errorf("Size: got %s, want {20,20}", res.Size)
	}
}

func TestPack_Invariants(t *testing.T) {
	heuristics := []Heuristic{BestAreaFit, BestShortSideFit, BottomLeft}

	for _, h := range heuristics {
		for seed := int64(1); seed <= 5; seed++ {
			sizes := randomSizes(seed, 25, 40)
			res, err := NewMaxRects(h).Pack(sizes, 512)
			if err != nil {
				t.Fatalf("%s seed %d: Pack failed: %v", h, seed, err)
			}
			if err := Validate(sizes, res, 512); err != nil {
				t.Errorf("%s seed %d: %v", h, seed, err)
			}

			area := 0
			for _, s := range sizes {
				area += s.Area()
			}
			if res.Size.Area() < area {
				t.Errorf("%s seed %d: canvas %s smaller than total area %d", h, seed, res.Size, area)
			}
		}
	}
}

func TestPack_Deterministic(t *testing.T) {
	sizes := randomSizes(42, 30, 50)
	p := NewMaxRects(BestAreaFit)

	first, err := p.Pack(sizes, 1024)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := p.Pack(sizes, 1024)
		if err != nil {
			t.Fatalf("Pack failed: %v", err)
		}
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("Pack not deterministic (-first +again):\n%s", diff)
		}
	}
}

func TestValidate(t *testing.T) {
	sizes := squares(2, 10)

	tests := []struct {
		name    string
		res     Result
		wantErr bool
	}{
		{
			"side by side",
			Result{Placements: []Placement{{Origin: geom.Point{X: 0}}, {Origin: geom.Point{X: 10}}}, Size: geom.Size{Width: 20, Height: 10}},
			false,
		},
		{
			"overlapping",
			Result{Placements: []Placement{{Origin: geom.Point{X: 0}}, {Origin: geom.Point{X: 5}}}, Size: geom.Size{Width: 20, Height: 10}},
			true,
		},
		{
			"outside canvas",
			Result{Placements: []Placement{{Origin: geom.Point{X: 0}}, {Origin: geom.Point{X: 10}}}, Size: geom.Size{Width: 15, Height: 10}},
			true,
		},
		{
			"over capacity",
			Result{Placements: []Placement{{Origin: geom.Point{X: 0}}, {Origin: geom.Point{X: 20}}}, Size: geom.Size{Width: 30, Height: 10}},
			true,
		},
		{
			"missing placement",
			Result{Placements: []Placement{{}}, Size: geom.Size{Width: 10, Height: 10}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(sizes, tt.res, 25)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate: got %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseHeuristic(t *testing.T) {
	for h, name := range heuristicNames {
		got, err := ParseHeuristic(name)
		if err != nil {
			t.Fatalf("ParseHeuristic(%q) failed: %v", name, err)
		}
		if got != h {
			t.Errorf("ParseHeuristic(%q): got %v, want %v", name, got, h)
		}
		if h.String() != name {
			t.Errorf("String: got %s, want %s", h.String(), name)
		}
	}

	if _, err := ParseHeuristic("skyline"); err == nil {
		t.Error("ParseHeuristic should fail for unknown names")
	}
}

func TestPrune(t *testing.T) {
	survivors := []geom.Rect{geom.R(0, 0, 10, 10), geom.R(20, 0, 5, 5)}
	pieces := []geom.Rect{
		geom.R(2, 2, 3, 3),
		geom.R(10, 0, 5, 5),
		geom.R(10, 0, 5, 5),
		geom.R(10, 0, 2, 2),
		geom.R(30, 0, 4, 4),
	}
	want := []geom.Rect{geom.R(10, 0, 5, 5), geom.R(30, 0, 4, 4)}

	if diff := cmp.Diff(want, prune(pieces, survivors)); diff != "" {
		t.Errorf("prune mismatch (-want +got):\n%s", diff)
	}
}

func TestBin_FreeListStaysMaximal(t *testing.T) {
	sizes := randomSizes(3, 200, 48)
	b := newBin(512, 512)
	var used []geom.Rect

	for n, s := range sizes {
		p, ok := b.insert(s, BestShortSideFit, true)
		if !ok {
			continue
		}
		used = append(used, Bounds(s, p))

		for i, r := range b.free {
			for j, o := range b.free {
				if i != j && o.Contains(r) {
					t.Fatalf("insert %d: free %s is contained in free %s", n, r, o)
				}
			}
			for _, u := range used {
				if r.Overlaps(u) {
					t.Fatalf("insert %d: free %s overlaps placed %s", n, r, u)
				}
			}
		}
	}
}

func largeSheet(seed int64, n int) []geom.Size {
	rng := rand.New(rand.NewSource(seed))
	sizes := make([]geom.Size, n)
	for i := range sizes {
		sizes[i] = geom.Size{Width: 8 + rng.Intn(121), Height: 8 + rng.Intn(121)}
	}
	return sizes
}

func TestPack_LargeSheet(t *testing.T) {
	if testing.Short() {
		t.Skip("large sheet packing skipped in short mode")
	}
	sizes := largeSheet(11, 1000)

	res, err := NewMaxRects(BestAreaFit).Pack(sizes, 10000)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	if err := Validate(sizes, res, 10000); err != nil {
		t.Fatalf("invalid packing: %v", err)
	}

	area := 0
	for _, s := range sizes {
		area += s.Area()
	}
	// The search must shrink well below the capacity square.
	if res.Size.Area() > 2*area {
		t.Errorf("canvas %s wastes more than half of %d pixels", res.Size, res.Size.Area())
	}
}

func BenchmarkPack(b *testing.B) {
	sizes := randomSizes(7, 100, 64)

	for _, h := range []Heuristic{BestAreaFit, BestShortSideFit, BottomLeft} {
		b.Run(h.String(), func(b *testing.B) {
			p := NewMaxRects(h)
			for i := 0; i < b.N; i++ {
				if _, err := p.Pack(sizes, 4096); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkPack_LargeSheet(b *testing.B) {
	sizes := largeSheet(11, 1000)
	p := NewMaxRects(BestAreaFit)

	for i := 0; i < b.N; i++ {
		if _, err := p.Pack(sizes, 10000); err != nil {
			b.Fatal(err)
		}
	}
}
