// Package telemetry provides population statistics, run outputs and event records.
package telemetry

import (
	"math"

	"github.com/Frezo23/Blobs/systems"
)

// BlobSample is the per-blob data sampled when a window is flushed.
type BlobSample struct {
	Age        float64
	HP         float64
	Hunger     float64
	Thirst     float64
	Speed      float64
	Sight      float64
	Generation uint32
}

// PopulationSample is the world state handed to Flush.
type PopulationSample struct {
	Blobs          []BlobSample
	RipeBushes     int
	TotalBushes    int
	ActiveLineages int

	// Bucket boundaries: age <= YoungAge is young, age >= ElderAge is elder.
	YoungAge float64
	ElderAge float64
}

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks uint64
	dt                  float64

	windowStartTick uint64

	births        int
	deaths        [systems.CauseOldAge + 1]int
	harvests      int
	drinks        int
	droppedClaims int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := uint64(1)
	if dt > 0 && math.Round(windowDurationSec/dt) >= 1 {
		ticksPerWindow = uint64(math.Round(windowDurationSec / dt))
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordBirth records a birth event.
func (c *Collector) RecordBirth() {
	c.births++
}

// RecordDeath records a death event with its cause.
func (c *Collector) RecordDeath(cause systems.DeathCause) {
	if int(cause) >= len(c.deaths) {
		cause = systems.CauseNone
	}
	c.deaths[cause]++
}

// RecordHarvest records a completed harvest.
func (c *Collector) RecordHarvest() {
	c.harvests++
}

// RecordDrink records a completed drink.
func (c *Collector) RecordDrink() {
	c.drinks++
}

// RecordDroppedClaim records a reproduction claim discarded during merge.
func (c *Collector) RecordDroppedClaim() {
	c.droppedClaims++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick uint64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick uint64, simTime float64, sample PopulationSample) WindowStats {
	n := len(sample.Blobs)
	hunger := make([]float64, n)
	thirst := make([]float64, n)
	hp := make([]float64, n)
	age := make([]float64, n)
	speed := make([]float64, n)
	sight := make([]float64, n)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      simTime,
		Blobs:           n,
		RipeBushes:      sample.RipeBushes,
		TotalBushes:     sample.TotalBushes,
		ActiveLineages:  sample.ActiveLineages,
		Births:          c.births,
		Harvests:        c.harvests,
		Drinks:          c.drinks,
		DroppedClaims:   c.droppedClaims,

		DeathsStarvation:  c.deaths[systems.CauseStarvation],
		DeathsDehydration: c.deaths[systems.CauseDehydration],
		DeathsOldAge:      c.deaths[systems.CauseOldAge],
	}
	for _, d := range c.deaths {
		stats.Deaths += d
	}

	for i, b := range sample.Blobs {
		hunger[i] = b.Hunger
		thirst[i] = b.Thirst
		hp[i] = b.HP
		age[i] = b.Age
		speed[i] = b.Speed
		sight[i] = b.Sight

		switch {
		case b.Age <= sample.YoungAge:
			stats.Young++
		case b.Age >= sample.ElderAge:
			stats.Elder++
		default:
			stats.Adult++
		}
		if b.Generation > stats.MaxGeneration {
			stats.MaxGeneration = b.Generation
		}
	}

	h := Summarize(hunger)
	stats.HungerMean, stats.HungerStd = h.Mean, h.Std
	stats.HungerP10, stats.HungerP50, stats.HungerP90 = h.P10, h.P50, h.P90

	t := Summarize(thirst)
	stats.ThirstMean, stats.ThirstStd = t.Mean, t.Std
	stats.ThirstP10, stats.ThirstP50, stats.ThirstP90 = t.P10, t.P50, t.P90

	p := Summarize(hp)
	stats.HPMean, stats.HPStd = p.Mean, p.Std
	stats.HPP10, stats.HPP50, stats.HPP90 = p.P10, p.P50, p.P90

	a := Summarize(age)
	stats.AgeMean, stats.AgeStd, stats.AgeP50, stats.AgeMax = a.Mean, a.Std, a.P50, a.Max

	sp := Summarize(speed)
	stats.SpeedMean, stats.SpeedStd = sp.Mean, sp.Std
	si := Summarize(sight)
	stats.SightMean, stats.SightStd = si.Mean, si.Std

	// Reset for next window
	c.windowStartTick = currentTick
	c.births = 0
	c.deaths = [systems.CauseOldAge + 1]int{}
	c.harvests = 0
	c.drinks = 0
	c.droppedClaims = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() uint64 {
	return c.windowDurationTicks
}
