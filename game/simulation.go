package game

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Frezo23/Blobs/components"
	"github.com/Frezo23/Blobs/config"
	"github.com/Frezo23/Blobs/systems"
	"github.com/Frezo23/Blobs/telemetry"
	"github.com/Frezo23/Blobs/terrain"
)

// Simulation holds the complete world state and drives ticks.
type Simulation struct {
	cfg *config.Config

	grid         *terrain.Grid
	variants     []uint8
	decorations  []components.Decoration
	flowerTypes  [2]int
	initialBlobs int
	bushes       *systems.BushField
	pop          *Population

	seed    int64
	tick    uint64
	simTime float64

	tel *telemetryState
}

// New generates terrain from seed, seeds the world and returns a simulation
// with in-memory telemetry only.
func New(cfg *config.Config, seed int64) *Simulation {
	return NewWithWorld(cfg, seed, GenerateWorld(cfg, seed))
}

// NewWithWorld builds a simulation over an explicit world.
func NewWithWorld(cfg *config.Config, seed int64, w World) *Simulation {
	s := &Simulation{
		cfg:          cfg,
		grid:         w.Grid,
		variants:     w.Variants,
		decorations:  w.Decorations,
		flowerTypes:  w.FlowerTypes,
		initialBlobs: len(w.Blobs),
		seed:         seed,
	}
	s.bushes = systems.NewBushField(s.decorations, cfg.Bush.SproutTime, cfg.Bush.RipeTime)
	s.pop = NewPopulation(cfg, w.Grid.Width(), w.Grid.Height(), seed)
	s.tel = newTelemetryState(cfg, cfg.Telemetry.StatsWindow, cfg.Simulation.DT)
	s.pop.onPhase = s.tel.perf.StartPhase

	for _, spec := range w.Blobs {
		s.tel.lifetimes.Register(s.pop.Spawn(spec), 0, 0, 0)
	}
	return s
}

// NewWithOptions generates a world and attaches the outputs named in opts.
// Overrides in opts apply to a private copy of cfg.
func NewWithOptions(cfg *config.Config, opts Options) (*Simulation, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Simulation.RandomSeed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if opts.Workers > 0 {
		own := *cfg
		own.Simulation.Workers = opts.Workers
		cfg = &own
	}

	s := New(cfg, seed)
	if opts.StatsWindowSec > 0 {
		s.tel.collector = telemetry.NewCollector(opts.StatsWindowSec, cfg.Simulation.DT)
	}
	s.tel.logStats = opts.LogStats

	if err := s.tel.openOutputs(cfg, opts.OutputDir, seed); err != nil {
		s.Close()
		return nil, fmt.Errorf("opening outputs: %w", err)
	}
	return s, nil
}

// Step advances the world by dt seconds: bushes grow, then every agent
// updates against the pre-tick snapshot.
func (s *Simulation) Step(dt float64) TickReport {
	perf := s.tel.perf
	perf.StartTick()
	agents := s.pop.Len()

	perf.StartPhase(telemetry.PhaseBushes)
	s.bushes.Advance(dt)

	report := s.pop.Tick(s.tick, dt, s.grid, s.bushes)
	s.tick++
	s.simTime += dt

	perf.StartPhase(telemetry.PhaseTelemetry)
	s.tel.record(s.tick, report)
	s.flushTelemetry()

	perf.EndTick(agents)
	return report
}

// StepN runs n steps and stops early if the population dies out. It returns
// the number of steps taken.
func (s *Simulation) StepN(n int, dt float64) int {
	for i := 0; i < n; i++ {
		if s.pop.Len() == 0 {
			return i
		}
		s.Step(dt)
	}
	return n
}

// Tick returns the number of completed ticks.
func (s *Simulation) Tick() uint64 { return s.tick }

// SimTime returns elapsed simulated seconds.
func (s *Simulation) SimTime() float64 { return s.simTime }

// Seed returns the seed the world was built from.
func (s *Simulation) Seed() int64 { return s.seed }

// Population returns the agent collection.
func (s *Simulation) Population() *Population { return s.pop }

// Terrain returns the tile grid.
func (s *Simulation) Terrain() *terrain.Grid { return s.grid }

// BushField returns the live bush field.
func (s *Simulation) BushField() *systems.BushField { return s.bushes }

// RunID returns the identifier used in the telemetry store.
func (s *Simulation) RunID() string { return s.tel.runID }

// SetStatsCallback registers fn to receive every flushed stats window.
func (s *Simulation) SetStatsCallback(fn func(telemetry.WindowStats)) {
	s.tel.callback = fn
}

// Close stops workers and flushes and closes every output.
func (s *Simulation) Close() error {
	s.pop.Close()
	err := s.tel.close()
	if err != nil {
		slog.Error("closing telemetry", "error", err)
	}
	return err
}

// closeAll closes each closer and joins the errors.
func closeAll(closers ...func() error) error {
	var errs []error
	for _, c := range closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
