package terrain

import (
	"math"
	"math/rand/v2"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds terrain generation parameters.
type GenConfig struct {
	Width, Height int
	Seed          int64
	Scale         float64 // Tiles per noise unit
	Octaves       int
	Persistence   float64
	Lacunarity    float64
}

// DefaultGenConfig returns the standard 60x60 map settings.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Width:       60,
		Height:      60,
		Seed:        1,
		Scale:       20,
		Octaves:     4,
		Persistence: 0.5,
		Lacunarity:  2.0,
	}
}

// Generate builds a grid from octave simplex noise. Heights are stretched to
// fill [0, 1] before classification so every map uses the full band range.
func Generate(cfg GenConfig) *Grid {
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	if cfg.Octaves < 1 {
		cfg.Octaves = 1
	}

	heights := HeightMap(cfg)
	Standardise(heights)

	g := NewGrid(cfg.Width, cfg.Height, DeepWater)
	for i, h := range heights {
		g.tiles[i] = Classify(h)
	}
	return g
}

// HeightMap samples raw normalized noise for every tile, row-major.
func HeightMap(cfg GenConfig) []float64 {
	noise := opensimplex.NewNormalized(cfg.Seed)
	heights := make([]float64, cfg.Width*cfg.Height)
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			nx := float64(x) / cfg.Scale
			ny := float64(y) / cfg.Scale
			heights[y*cfg.Width+x] = octaveNoise(noise, nx, ny, cfg.Octaves, 1.0, cfg.Persistence, cfg.Lacunarity)
		}
	}
	return heights
}

// Standardise rescales values in place to [0, 1].
func Standardise(values []float64) {
	if len(values) == 0 {
		return
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1e-9
	}
	for i, v := range values {
		values[i] = (v - lo) / span
	}
}

// Classify maps a standardised height to a tile kind.
func Classify(h float64) Kind {
	switch {
	case h < 0.10:
		return DeepWater
	case h < 0.28:
		return Water
	case h < 0.35:
		return ShallowWater
	case h < 0.42:
		return Sand
	case h < 0.80:
		return Grass
	default:
		return Forest
	}
}

// GrassVariants assigns a cosmetic variant in [0, n) to every grass tile,
// row-major. Non-grass tiles get 0 but are never fertile.
func GrassVariants(g *Grid, seed int64, n int) []uint8 {
	if n < 1 {
		n = 1
	}
	rng := rand.New(rand.NewPCG(uint64(seed), 0x67726173))
	variants := make([]uint8, len(g.tiles))
	for i, k := range g.tiles {
		if k == Grass {
			variants[i] = uint8(rng.IntN(n))
		}
	}
	return variants
}

// FertilityMap marks grass tiles whose variant is 0. Only fertile grass
// grows bushes and flowers.
func FertilityMap(g *Grid, variants []uint8) []bool {
	fertile := make([]bool, len(g.tiles))
	for i, k := range g.tiles {
		fertile[i] = k == Grass && i < len(variants) && variants[i] == 0
	}
	return fertile
}

// octaveNoise sums several noise layers at increasing frequency.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence, lacunarity float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}

	return total / maxVal
}
