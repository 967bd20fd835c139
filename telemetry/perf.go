package telemetry

import (
	"log/slog"
	"time"
)

// Phase is one stage of a simulation step.
type Phase uint8

const (
	PhaseBushes Phase = iota
	PhaseSnapshot
	PhaseBehavior
	PhaseMerge
	PhaseCleanup
	PhaseNewborns
	PhaseTelemetry

	NumPhases
)

var phaseNames = [NumPhases]string{
	PhaseBushes:    "bushes",
	PhaseSnapshot:  "snapshot",
	PhaseBehavior:  "behavior",
	PhaseMerge:     "merge",
	PhaseCleanup:   "cleanup",
	PhaseNewborns:  "newborns",
	PhaseTelemetry: "telemetry",
}

func (p Phase) String() string {
	if p < NumPhases {
		return phaseNames[p]
	}
	return "unknown"
}

// perfSample is the timing of one tick.
type perfSample struct {
	tick   time.Duration
	phases [NumPhases]time.Duration
	agents int
}

// PerfCollector keeps per-phase wall time for the last windowSize ticks.
// It is driven from the simulation goroutine only.
type PerfCollector struct {
	ring   []perfSample
	next   int
	filled int

	cur        perfSample
	tickStart  time.Time
	phaseStart time.Time
	active     Phase
	inPhase    bool
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{ring: make([]perfSample, windowSize)}
}

// StartTick begins timing a new tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.cur = perfSample{}
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and starts ph.
func (p *PerfCollector) StartPhase(ph Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.active = ph
	p.inPhase = ph < NumPhases
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase {
		p.cur.phases[p.active] += now.Sub(p.phaseStart)
	}
}

// EndTick records the tick. agents is how many agents it updated.
func (p *PerfCollector) EndTick(agents int) {
	now := time.Now()
	p.closePhase(now)
	p.inPhase = false

	p.cur.tick = now.Sub(p.tickStart)
	p.cur.agents = agents
	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	p.filled = min(p.filled+1, len(p.ring))
}

// PerfStats aggregates the samples in the window.
type PerfStats struct {
	AvgTick time.Duration
	MinTick time.Duration
	MaxTick time.Duration

	PhaseAvg [NumPhases]time.Duration
	PhasePct [NumPhases]float64 // share of the average tick, 0..100

	TicksPerSecond        float64
	AgentUpdatesPerSecond float64
}

// Stats computes the window aggregates. An empty window yields zeros.
func (p *PerfCollector) Stats() PerfStats {
	var s PerfStats
	if p.filled == 0 {
		return s
	}

	var total time.Duration
	var phaseSum [NumPhases]time.Duration
	agents := 0
	for i, smp := range p.ring[:p.filled] {
		total += smp.tick
		if i == 0 || smp.tick < s.MinTick {
			s.MinTick = smp.tick
		}
		s.MaxTick = max(s.MaxTick, smp.tick)
		for ph, d := range smp.phases {
			phaseSum[ph] += d
		}
		agents += smp.agents
	}

	n := time.Duration(p.filled)
	s.AvgTick = total / n
	for ph := range phaseSum {
		s.PhaseAvg[ph] = phaseSum[ph] / n
		if s.AvgTick > 0 {
			s.PhasePct[ph] = float64(s.PhaseAvg[ph]) / float64(s.AvgTick) * 100
		}
	}
	if total > 0 {
		s.TicksPerSecond = float64(p.filled) / total.Seconds()
		s.AgentUpdatesPerSecond = float64(agents) / total.Seconds()
	}
	return s
}

// LogStats logs the window at info level. Phases under 0.1% are omitted.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTick.Microseconds(),
		"max_tick_us", s.MaxTick.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
		"agent_updates_per_sec", int(s.AgentUpdatesPerSecond),
	}
	for ph := Phase(0); ph < NumPhases; ph++ {
		if pct := s.PhasePct[ph]; pct > 0.1 {
			attrs = append(attrs, ph.String()+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTick.Microseconds()),
		slog.Int64("min_tick_us", s.MinTick.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTick.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
		slog.Float64("agent_updates_per_sec", s.AgentUpdatesPerSecond),
	}
	for ph := Phase(0); ph < NumPhases; ph++ {
		attrs = append(attrs, slog.Float64(ph.String()+"_pct", s.PhasePct[ph]))
	}
	return slog.GroupValue(attrs...)
}

// PerfRow is one line of perf.csv.
type PerfRow struct {
	WindowEnd    uint64  `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	AgentsPerSec float64 `csv:"agent_updates_per_sec"`
	BushesPct    float64 `csv:"bushes_pct"`
	SnapshotPct  float64 `csv:"snapshot_pct"`
	BehaviorPct  float64 `csv:"behavior_pct"`
	MergePct     float64 `csv:"merge_pct"`
	CleanupPct   float64 `csv:"cleanup_pct"`
	NewbornsPct  float64 `csv:"newborns_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// Row flattens the stats for CSV output.
func (s PerfStats) Row(windowEnd uint64) PerfRow {
	return PerfRow{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTick.Microseconds(),
		MinTickUS:    s.MinTick.Microseconds(),
		MaxTickUS:    s.MaxTick.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		AgentsPerSec: s.AgentUpdatesPerSecond,
		BushesPct:    s.PhasePct[PhaseBushes],
		SnapshotPct:  s.PhasePct[PhaseSnapshot],
		BehaviorPct:  s.PhasePct[PhaseBehavior],
		MergePct:     s.PhasePct[PhaseMerge],
		CleanupPct:   s.PhasePct[PhaseCleanup],
		NewbornsPct:  s.PhasePct[PhaseNewborns],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
