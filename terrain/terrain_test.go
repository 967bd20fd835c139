package terrain

import "testing"

func TestWalkable(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{DeepWater, false},
		{Water, false},
		{ShallowWater, false},
		{Sand, true},
		{Grass, true},
		{Forest, true},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := Walkable(tt.kind); got != tt.want {
				t.Errorf("Walkable(%v) = %v, want %v", tt.kind, got, tt.want)
			}
		})
	}
}

func TestIsWalkableOutOfBounds(t *testing.T) {
	g := NewGrid(3, 2, Grass)

	tests := []struct {
		name string
		x, y int
		want bool
	}{
		{"inside", 1, 1, true},
		{"negative x", -1, 0, false},
		{"negative y", 0, -1, false},
		{"past width", 3, 0, false},
		{"past height", 0, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsWalkable(g, tt.x, tt.y); got != tt.want {
				t.Errorf("IsWalkable(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}

	if k := g.TileAt(-5, 7); k != DeepWater {
		t.Errorf("out-of-range TileAt = %v, want deep_water", k)
	}
}

func TestAdjacentShallowWater(t *testing.T) {
	g := FromRows([]string{
		"ggg",
		"~gg",
		"gg~",
	})

	x, y, ok := AdjacentShallowWater(g, 1, 1)
	if !ok {
		t.Fatal("expected (1,1) to touch shallow water")
	}
	// +x is checked before -x, but (2,1) is grass, so -x wins.
	if x != 0 || y != 1 {
		t.Errorf("got (%d,%d), want (0,1)", x, y)
	}

	if _, _, ok := AdjacentShallowWater(g, 1, 0); ok {
		t.Error("(1,0) has no shallow water neighbour")
	}
	// Diagonals do not count.
	if _, _, ok := AdjacentShallowWater(g, 1, 2); !ok {
		t.Error("(1,2) touches (2,2)")
	}
}

func TestFromRows(t *testing.T) {
	g := FromRows([]string{"dw~sgf", "gg"})
	if g.Width() != 6 || g.Height() != 2 {
		t.Fatalf("size = %dx%d, want 6x2", g.Width(), g.Height())
	}
	want := []Kind{DeepWater, Water, ShallowWater, Sand, Grass, Forest}
	for x, k := range want {
		if got := g.TileAt(x, 0); got != k {
			t.Errorf("TileAt(%d,0) = %v, want %v", x, got, k)
		}
	}
	if got := g.TileAt(4, 1); got != DeepWater {
		t.Errorf("padded tile = %v, want deep_water", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		h    float64
		want Kind
	}{
		{0.0, DeepWater},
		{0.099, DeepWater},
		{0.10, Water},
		{0.279, Water},
		{0.28, ShallowWater},
		{0.35, Sand},
		{0.42, Grass},
		{0.799, Grass},
		{0.80, Forest},
		{1.0, Forest},
	}

	for _, tt := range tests {
		if got := Classify(tt.h); got != tt.want {
			t.Errorf("Classify(%v) = %v, want %v", tt.h, got, tt.want)
		}
	}
}

func TestStandardise(t *testing.T) {
	values := []float64{2, 4, 6}
	Standardise(values)
	want := []float64{0, 0.5, 1}
	for i := range values {
		if values[i] != want[i] {
			t.Errorf("values[%d] = %v, want %v", i, values[i], want[i])
		}
	}

	flat := []float64{3, 3}
	Standardise(flat)
	for i, v := range flat {
		if v != 0 {
			t.Errorf("flat[%d] = %v, want 0", i, v)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Width, cfg.Height = 24, 16
	cfg.Seed = 42

	a := Generate(cfg)
	b := Generate(cfg)

	if a.Width() != 24 || a.Height() != 16 {
		t.Fatalf("size = %dx%d, want 24x16", a.Width(), a.Height())
	}
	for y := 0; y < a.Height(); y++ {
		for x := 0; x < a.Width(); x++ {
			if a.TileAt(x, y) != b.TileAt(x, y) {
				t.Fatalf("tile (%d,%d) differs between runs with the same seed", x, y)
			}
		}
	}

	// Standardisation puts the lowest sample in deep water and the highest in forest.
	counts := a.Counts()
	if counts[DeepWater] == 0 {
		t.Error("expected at least one deep water tile")
	}
	if counts[Forest] == 0 {
		t.Error("expected at least one forest tile")
	}
	total := 0
	for _, c := range counts {
		total += c
	}
	if total != 24*16 {
		t.Errorf("counts sum = %d, want %d", total, 24*16)
	}
}

func TestFertilityMap(t *testing.T) {
	g := FromRows([]string{"ggs", "gfg"})
	variants := GrassVariants(g, 7, 4)
	fertile := FertilityMap(g, variants)

	for i := range fertile {
		x, y := i%g.Width(), i/g.Width()
		if fertile[i] && g.TileAt(x, y) != Grass {
			t.Errorf("non-grass tile (%d,%d) marked fertile", x, y)
		}
		if fertile[i] != (g.TileAt(x, y) == Grass && variants[i] == 0) {
			t.Errorf("tile (%d,%d) fertility mismatch", x, y)
		}
	}

	// A single variant makes every grass tile fertile.
	all := FertilityMap(g, GrassVariants(g, 7, 1))
	if !all[0] || all[2] || all[4] {
		t.Errorf("single-variant fertility = %v", all)
	}
}
