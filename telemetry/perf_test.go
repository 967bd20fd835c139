package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollectorPhases(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseSnapshot)
		time.Sleep(50 * time.Microsecond)
		pc.StartPhase(PhaseBehavior)
		time.Sleep(5 * time.Millisecond)
		pc.EndTick(100)
	}

	stats := pc.Stats()
	if stats.AvgTick <= 0 {
		t.Fatal("expected positive average tick duration")
	}
	if stats.PhaseAvg[PhaseSnapshot] <= 0 || stats.PhaseAvg[PhaseBehavior] <= 0 {
		t.Errorf("phase averages = %v", stats.PhaseAvg)
	}
	if stats.PhaseAvg[PhaseMerge] != 0 {
		t.Errorf("untimed phase = %v, want 0", stats.PhaseAvg[PhaseMerge])
	}
	if stats.PhasePct[PhaseBehavior] <= stats.PhasePct[PhaseSnapshot] {
		t.Errorf("behavior %v%% should exceed snapshot %v%%",
			stats.PhasePct[PhaseBehavior], stats.PhasePct[PhaseSnapshot])
	}
	if stats.AgentUpdatesPerSecond <= stats.TicksPerSecond {
		t.Errorf("agent updates/s %v should exceed ticks/s %v", stats.AgentUpdatesPerSecond, stats.TicksPerSecond)
	}
	if stats.MinTick > stats.AvgTick || stats.AvgTick > stats.MaxTick {
		t.Errorf("min/avg/max out of order: %v %v %v", stats.MinTick, stats.AvgTick, stats.MaxTick)
	}
}

func TestPerfCollectorRollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseSnapshot)
		time.Sleep(10 * time.Microsecond)
		pc.EndTick(1)
	}

	if pc.filled != 5 {
		t.Errorf("filled = %d, want 5", pc.filled)
	}
	if pc.Stats().TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollectorEmpty(t *testing.T) {
	stats := NewPerfCollector(10).Stats()
	if stats != (PerfStats{}) {
		t.Errorf("empty stats = %+v, want zero", stats)
	}
}

func TestPerfStatsRow(t *testing.T) {
	var stats PerfStats
	stats.AvgTick = 1500 * time.Microsecond
	stats.TicksPerSecond = 666
	stats.PhasePct[PhaseBehavior] = 70
	stats.PhasePct[PhaseMerge] = 5

	row := stats.Row(1200)
	if row.WindowEnd != 1200 {
		t.Errorf("WindowEnd = %d, want 1200", row.WindowEnd)
	}
	if row.AvgTickUS != 1500 {
		t.Errorf("AvgTickUS = %d, want 1500", row.AvgTickUS)
	}
	if row.BehaviorPct != 70 || row.MergePct != 5 {
		t.Errorf("phase pct = %v/%v, want 70/5", row.BehaviorPct, row.MergePct)
	}
	if row.BushesPct != 0 {
		t.Errorf("untracked phase should be 0, got %v", row.BushesPct)
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseMerge.String() != "merge" {
		t.Errorf("PhaseMerge = %q", PhaseMerge.String())
	}
	if NumPhases.String() != "unknown" {
		t.Errorf("NumPhases = %q", NumPhases.String())
	}
}
