// Package main provides CMA-ES optimization for finding blob ecosystem
// parameters that keep a population alive and stable.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/Frezo23/Blobs/config"
	"github.com/Frezo23/Blobs/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int("max-ticks", 200000, "Maximum simulation duration in ticks (cap)")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}
	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()

	params := NewParamVector()
	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, *maxTicks, evalSeeds, baseCfg)

	prog, err := newProgress(filepath.Join(*outputDir, "optimize_log.csv"), params, *maxEvals, baseCfg.Simulation.DT)
	if err != nil {
		log.Fatal(err)
	}
	defer prog.Close()

	// The search runs in the unit cube; each point is mapped back to raw
	// parameter ranges before evaluation.
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(raw)
			prog.record(raw, fitness, evaluator.LastQuality())
			return fitness
		},
	}

	dim := params.Dim()
	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}
	settings := &optimize.Settings{FuncEvaluations: *maxEvals}

	fmt.Printf("Starting CMA-ES optimization with %d parameters, population=%d, max_evals=%d\n",
		dim, popSize, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, ticks per run: %d\n", *seeds, *maxTicks)

	initX := params.Normalize(params.ExtractFromConfig(baseCfg))
	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	best := prog.bestParams
	if best == nil && result != nil {
		best = params.Clamp(params.Denormalize(result.X))
	}
	if best == nil {
		log.Fatal("no evaluations completed")
	}

	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", prog.evals, formatDuration(time.Since(prog.start)))
	fmt.Printf("Best fitness: %.0f\n", prog.bestFitness)
	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s (%s): %.6f\n", spec.Name, spec.Path, best[i])
	}

	if err := saveResults(*outputDir, *configPath, params, best, evaluator.BestWindows()); err != nil {
		log.Printf("saving results: %v", err)
	}
}

// saveResults writes best_config.yaml and, when available, the stats
// windows of the best seed to best_run.csv.
func saveResults(dir, configPath string, params *ParamVector, best []float64, windows []telemetry.WindowStats) error {
	bestCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("reloading config: %w", err)
	}
	params.ApplyToConfig(bestCfg, best)

	configOut := filepath.Join(dir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOut); err != nil {
		return err
	}
	fmt.Printf("\nBest config saved to: %s\n", configOut)

	if len(windows) == 0 {
		return nil
	}
	runOut := filepath.Join(dir, "best_run.csv")
	f, err := os.Create(runOut)
	if err != nil {
		return err
	}
	if err := gocsv.MarshalFile(&windows, f); err != nil {
		f.Close()
		return err
	}
	fmt.Printf("Best run windows saved to: %s\n", runOut)
	return f.Close()
}
