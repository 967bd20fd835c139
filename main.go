package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Frezo23/Blobs/config"
	"github.com/Frezo23/Blobs/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, event log and telemetry store")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config random_seed, then time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = config max_ticks; 0 there runs until extinction)")
	dt := flag.Float64("dt", 0, "Seconds per tick (0 = use config)")
	workers := flag.Int("workers", 0, "Agent update workers (0 = use config, -1 = GOMAXPROCS)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *dt > 0 {
		cfg.Simulation.DT = *dt
	}
	if *workers != 0 {
		cfg.Simulation.Workers = *workers
	}
	limit := cfg.Simulation.MaxTicks
	if *maxTicks > 0 {
		limit = *maxTicks
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	sim, err := game.NewWithOptions(cfg, game.Options{
		Seed:           *seed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
	})
	if err != nil {
		slog.Error("failed to start simulation", "error", err)
		os.Exit(1)
	}

	slog.Info("world generated", "world", sim.WorldStats())
	slog.Info("starting simulation",
		"seed", sim.Seed(),
		"run_id", sim.RunID(),
		"dt", cfg.Simulation.DT,
		"max_ticks", limit,
		"workers", cfg.Simulation.Workers,
	)

	start := time.Now()
	births, deaths := 0, 0
	for limit <= 0 || int(sim.Tick()) < limit {
		if sim.Population().Len() == 0 {
			slog.Info("population extinct", "tick", sim.Tick())
			break
		}
		r := sim.Step(cfg.Simulation.DT)
		births += len(r.Births)
		deaths += len(r.Deaths)
	}
	elapsed := time.Since(start)

	oldest, hasOldest := sim.Oldest()
	ages := sim.AgeDistribution()
	if err := sim.Close(); err != nil {
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "ran %s ticks (%s simulated) in %s\n",
		humanize.Comma(int64(sim.Tick())), time.Duration(sim.SimTime()*float64(time.Second)).Round(time.Second), elapsed.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "blobs alive: %s (young %d, adult %d, elder %d)\n",
		humanize.Comma(int64(sim.Population().Len())), ages.Young, ages.Adult, ages.Elder)
	fmt.Fprintf(os.Stderr, "births: %s, deaths: %s\n", humanize.Comma(int64(births)), humanize.Comma(int64(deaths)))
	if hasOldest {
		fmt.Fprintf(os.Stderr, "oldest: blob %d, age %.1fs, generation %s\n",
			oldest.ID, oldest.Age, humanize.Ordinal(int(oldest.Generation)))
	}
	if *outputDir != "" {
		fmt.Fprintf(os.Stderr, "outputs written to %s\n", *outputDir)
	}
}
