package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/Frezo23/Blobs/config"
	"github.com/Frezo23/Blobs/game"
	"github.com/Frezo23/Blobs/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu          sync.Mutex
	bestFitness float64
	bestWindows []telemetry.WindowStats
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 10.0,
		bestFitness: math.Inf(1),
	}
}

// BestWindows returns the stats windows of the best seed so far.
func (fe *FitnessEvaluator) BestWindows() []telemetry.WindowStats {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestWindows
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// A population below minViablePop for extinctionGraceSec counts as extinct.
const (
	minViablePop       = 4
	extinctionGraceSec = 30.0
)

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int
	windowStats   []telemetry.WindowStats
}

type seedResult struct {
	fitness float64
	quality float64
	windows []telemetry.WindowStats
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			r := fe.runSimulation(x, s)
			results[idx] = seedResult{
				fitness: computeFitness(r),
				quality: computeQuality(r.windowStats),
				windows: r.windowStats,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	bestSeed := -1
	for i, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		if bestSeed < 0 || r.fitness < results[bestSeed].fitness {
			bestSeed = i
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness && bestSeed >= 0 {
		fe.bestFitness = avgFitness
		fe.bestWindows = results[bestSeed].windows
	}
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes one headless run until functional extinction or
// maxTicks.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{}
	sim := game.New(cfg, seed)
	defer sim.Close()
	sim.SetStatsCallback(func(ws telemetry.WindowStats) {
		result.windowStats = append(result.windowStats, ws)
	})

	dt := cfg.Simulation.DT
	graceTicks := int(extinctionGraceSec / dt)
	belowTicks := 0

	for tick := 0; tick < fe.maxTicks; tick++ {
		sim.Step(dt)

		n := sim.Population().Len()
		if n == 0 {
			result.survivalTicks = tick + 1
			return result
		}
		if n < minViablePop {
			belowTicks++
		} else {
			belowTicks = 0
		}
		if belowTicks >= graceTicks {
			result.survivalTicks = tick + 1
			return result
		}
	}

	result.survivalTicks = fe.maxTicks
	return result
}

// copyConfig returns a private copy of the base config. Seeds run
// concurrently, so each simulation keeps to one goroutine.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Simulation.Workers = 1
	cfg.Telemetry.StatsWindow = fe.statsWindow
	return &cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// Survival dominates; quality adds up to 20% to separate configs that
// survive equally long.
func computeFitness(r *runResult) float64 {
	survival := float64(r.survivalTicks)
	quality := computeQuality(r.windowStats)
	return -(survival * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightStability = 0.40
	qualityWeightNeeds     = 0.30
	qualityWeightTurnover  = 0.30

	qualityWarmupWindows = 3
)

// computeQuality scores a run in [0, 1] from its stats windows: a steady
// population, needs kept away from the damage thresholds, and generations
// actually turning over.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	counts := make([]float64, 0, len(valid))
	var needsSum float64
	var needsCount int
	var births, deaths int

	for _, w := range valid {
		births += w.Births
		deaths += w.Deaths
		if w.Blobs < minViablePop {
			continue
		}
		counts = append(counts, float64(w.Blobs))

		hungerH := math.Exp(-math.Pow((w.HungerP50-40)/25, 2))
		thirstH := math.Exp(-math.Pow((w.ThirstP50-40)/25, 2))
		needsSum += (hungerH + thirstH) / 2
		needsCount++
	}

	if needsCount == 0 {
		return 0
	}

	stabilityScore := 0.0
	if len(counts) >= 2 {
		mean, std := stat.MeanStdDev(counts, nil)
		if mean > 0 {
			cv := std / mean
			stabilityScore = math.Exp(-cv * cv)
		}
	}

	needsScore := needsSum / float64(needsCount)

	turnoverScore := 0.0
	if births+deaths > 0 {
		turnoverScore = 1 - math.Abs(float64(births-deaths))/float64(births+deaths)
	}

	quality := qualityWeightStability*stabilityScore +
		qualityWeightNeeds*needsScore +
		qualityWeightTurnover*turnoverScore

	return min(max(quality, 0), 1)
}
