package game

import (
	"math/rand/v2"

	"github.com/Frezo23/Blobs/components"
	"github.com/Frezo23/Blobs/config"
	"github.com/Frezo23/Blobs/terrain"
)

// BlobSpec describes an initial blob. Zero genome fields are drawn from the
// configured trait ranges when the blob is spawned.
type BlobSpec struct {
	X, Y          int
	Genome        components.Genome
	Age           float64
	Hunger        float64
	Thirst        float64
	HP            float64 // 0 means MaxHP
	MaxHP         float64 // 0 means blob.max_hp
	ReproCooldown float64
}

// World is a seeded map ready to simulate.
type World struct {
	Grid        *terrain.Grid
	Variants    []uint8
	Decorations []components.Decoration
	Blobs       []BlobSpec
	FlowerTypes [2]int
}

// worldStream separates world seeding draws from terrain and agent streams.
const worldStream = 0x776f726c64

// GenerateWorld builds terrain from noise and seeds it.
func GenerateWorld(cfg *config.Config, seed int64) World {
	grid := terrain.Generate(terrain.GenConfig{
		Width:       cfg.World.MapWidth,
		Height:      cfg.World.MapHeight,
		Seed:        seed,
		Scale:       cfg.Noise.Scale,
		Octaves:     cfg.Noise.Octaves,
		Persistence: cfg.Noise.Persistence,
		Lacunarity:  cfg.Noise.Lacunarity,
	})
	return SeedWorld(cfg, grid, seed)
}

// SeedWorld places decorations and initial blobs on grid. Each tile holds at
// most one object. Tiles are visited row-major and each placement draws
// only when the tile is still free, so a seed always yields the same world.
func SeedWorld(cfg *config.Config, grid *terrain.Grid, seed int64) World {
	sp := &cfg.Spawning
	variants := terrain.GrassVariants(grid, seed, sp.GrassVariants)
	fertile := terrain.FertilityMap(grid, variants)
	rng := rand.New(rand.NewPCG(uint64(seed), worldStream))

	w := World{Grid: grid, Variants: variants}
	occupied := make(map[[2]int]struct{})
	free := func(x, y int) bool {
		_, taken := occupied[[2]int{x, y}]
		return !taken
	}
	place := func(d components.Decoration) {
		w.Decorations = append(w.Decorations, d)
		occupied[[2]int{d.X, d.Y}] = struct{}{}
	}
	spawnBlob := func(x, y int) {
		w.Blobs = append(w.Blobs, BlobSpec{X: x, Y: y})
		occupied[[2]int{x, y}] = struct{}{}
	}

	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			tile := grid.TileAt(x, y)
			isFertile := fertile[y*grid.Width()+x]

			switch tile {
			case terrain.Grass, terrain.Sand:
				sandOrFertile := tile == terrain.Sand || isFertile

				if isFertile && free(x, y) && rng.Float64() < sp.BushGrass {
					place(components.NewBush(x, y))
				}
				if isFertile && free(x, y) && rng.Float64() < sp.FlowerGrass {
					variant := uint8(rng.IntN(2))
					place(components.Decoration{Kind: components.DecorFlower, X: x, Y: y, Variant: variant})
					w.FlowerTypes[variant]++
				}
				if free(x, y) && nextToShallow(grid, x, y) && rng.Float64() < sp.SugarCaneShore && sandOrFertile {
					place(components.Decoration{Kind: components.DecorSugarCane, X: x, Y: y})
				}
				if free(x, y) && rng.Float64() < sp.RockGrassSand && sandOrFertile {
					place(components.Decoration{Kind: components.DecorRock, X: x, Y: y})
				}
				if free(x, y) && rng.Float64() < sp.BlobGrassSand && sandOrFertile {
					spawnBlob(x, y)
				}

			case terrain.Forest:
				if free(x, y) && rng.Float64() < sp.TreeForest {
					place(components.Decoration{Kind: components.DecorTree, X: x, Y: y})
				}
				if free(x, y) && rng.Float64() < sp.MushroomForest {
					place(components.Decoration{Kind: components.DecorMushroom, X: x, Y: y})
				}
				if free(x, y) && rng.Float64() < sp.RockForest {
					place(components.Decoration{Kind: components.DecorRock, X: x, Y: y})
				}
				if free(x, y) && rng.Float64() < sp.BushForest {
					place(components.NewBush(x, y))
				}
				if free(x, y) && rng.Float64() < sp.BlobForest {
					spawnBlob(x, y)
				}
			}
		}
	}
	return w
}

func nextToShallow(q terrain.Query, x, y int) bool {
	_, _, ok := terrain.AdjacentShallowWater(q, x, y)
	return ok
}
