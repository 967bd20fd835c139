package game

import (
	"reflect"
	"testing"

	"github.com/Frezo23/Blobs/components"
	"github.com/Frezo23/Blobs/terrain"
)

func TestSeedWorldDeterministic(t *testing.T) {
	cfg := testConfig()
	cfg.World.MapWidth, cfg.World.MapHeight = 40, 40

	a := GenerateWorld(cfg, 99)
	b := GenerateWorld(cfg, 99)

	if !reflect.DeepEqual(a.Decorations, b.Decorations) {
		t.Error("decorations differ for the same seed")
	}
	if !reflect.DeepEqual(a.Blobs, b.Blobs) {
		t.Error("blobs differ for the same seed")
	}
	if a.FlowerTypes != b.FlowerTypes {
		t.Errorf("flower types %v vs %v", a.FlowerTypes, b.FlowerTypes)
	}
}

func TestSeedWorldPlacement(t *testing.T) {
	cfg := testConfig()
	cfg.World.MapWidth, cfg.World.MapHeight = 50, 50
	cfg.Spawning.BlobGrassSand, cfg.Spawning.BlobForest = 0.1, 0.1

	w := GenerateWorld(cfg, 5)
	fertile := terrain.FertilityMap(w.Grid, w.Variants)
	width := w.Grid.Width()

	occupied := make(map[[2]int]string)
	claim := func(x, y int, what string) {
		if prev, ok := occupied[[2]int{x, y}]; ok {
			t.Errorf("tile (%d,%d) holds %s and %s", x, y, prev, what)
		}
		occupied[[2]int{x, y}] = what
	}

	flowers := [2]int{}
	for _, d := range w.Decorations {
		claim(d.X, d.Y, d.Kind.String())
		tile := w.Grid.TileAt(d.X, d.Y)

		switch d.Kind {
		case components.DecorBush:
			if tile != terrain.Forest && !fertile[d.Y*width+d.X] {
				t.Errorf("bush on infertile %s at (%d,%d)", tile, d.X, d.Y)
			}
		case components.DecorFlower:
			if !fertile[d.Y*width+d.X] {
				t.Errorf("flower on infertile tile at (%d,%d)", d.X, d.Y)
			}
			flowers[d.Variant]++
		case components.DecorSugarCane:
			if !nextToShallow(w.Grid, d.X, d.Y) {
				t.Errorf("sugar cane away from shallow water at (%d,%d)", d.X, d.Y)
			}
		case components.DecorTree, components.DecorMushroom:
			if tile != terrain.Forest {
				t.Errorf("%s on %s", d.Kind, tile)
			}
		}
	}
	for _, b := range w.Blobs {
		claim(b.X, b.Y, "blob")
		if !terrain.IsWalkable(w.Grid, b.X, b.Y) {
			t.Errorf("blob on unwalkable tile (%d,%d)", b.X, b.Y)
		}
	}
	if flowers != w.FlowerTypes {
		t.Errorf("flower types = %v, counted %v", w.FlowerTypes, flowers)
	}
}

func TestSpawnedBlobsStartFresh(t *testing.T) {
	cfg := testConfig()
	w := meadow()
	w.Blobs = []BlobSpec{{X: 1, Y: 1}, {X: 3, Y: 3}}
	sim := NewWithWorld(cfg, 11, w)
	defer sim.Close()

	tr := &cfg.Traits
	for _, b := range sim.Blobs() {
		if b.Age != 0 || b.Hunger != 0 || b.Thirst != 0 || b.ReproCooldown != 0 {
			t.Errorf("blob %d not fresh: %+v", b.ID, b)
		}
		if b.HP != cfg.Blob.MaxHP || b.MaxHP != cfg.Blob.MaxHP {
			t.Errorf("blob %d hp = %v/%v, want %v", b.ID, b.HP, b.MaxHP, cfg.Blob.MaxHP)
		}
		g := b.Genome
		if g.Intelligence < tr.IntelligenceMin || g.Intelligence > tr.IntelligenceMax {
			t.Errorf("intelligence %d out of range", g.Intelligence)
		}
		if g.Speed < tr.SpeedMin || g.Speed >= tr.SpeedMax {
			t.Errorf("speed %v out of range", g.Speed)
		}
		if g.Sight < tr.SightMin || g.Sight >= tr.SightMax {
			t.Errorf("sight %v out of range", g.Sight)
		}
		if g.MaxAge < tr.MaxAgeMin || g.MaxAge >= tr.MaxAgeMax {
			t.Errorf("max age %v out of range", g.MaxAge)
		}
		if b.PX != float64(b.X)*cfg.World.TileSize || b.PY != float64(b.Y)*cfg.World.TileSize {
			t.Errorf("blob %d pixel position (%v,%v) not at tile corner", b.ID, b.PX, b.PY)
		}
	}
}
