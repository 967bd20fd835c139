package game

import (
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/Frezo23/Blobs/config"
	"github.com/Frezo23/Blobs/systems"
	"github.com/Frezo23/Blobs/telemetry"
)

// StoreName is the SQLite file created in the output directory.
const StoreName = "telemetry.db"

// telemetryState bundles the collectors and the optional outputs.
type telemetryState struct {
	collector *telemetry.Collector
	lifetimes *telemetry.LifetimeTracker
	bookmarks *telemetry.BookmarkDetector
	perf      *telemetry.PerfCollector

	// Nil when disabled.
	output *telemetry.OutputManager
	events *telemetry.EventLog
	store  *telemetry.Store

	runID    string
	logStats bool
	callback func(telemetry.WindowStats)

	// Births since the last window, saved to the store on flush.
	births []telemetry.Event
	last   telemetry.WindowStats
}

func newTelemetryState(cfg *config.Config, windowSec, dt float64) *telemetryState {
	return &telemetryState{
		collector: telemetry.NewCollector(windowSec, dt),
		lifetimes: telemetry.NewLifetimeTracker(),
		bookmarks: telemetry.NewBookmarkDetector(10),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		runID:     uuid.NewString(),
	}
}

// openOutputs creates the CSV files, event log and store under dir.
func (t *telemetryState) openOutputs(cfg *config.Config, dir string, seed int64) error {
	if dir == "" {
		return nil
	}

	var err error
	if t.output, err = telemetry.NewOutputManager(dir); err != nil {
		return err
	}
	if err := t.output.WriteConfig(cfg); err != nil {
		return err
	}

	if cfg.Telemetry.EventLog {
		if t.events, err = telemetry.NewEventLog(dir); err != nil {
			return err
		}
	}

	if cfg.Telemetry.Store {
		if t.store, err = telemetry.OpenStore(filepath.Join(dir, StoreName)); err != nil {
			return err
		}
		if err := t.store.BeginRun(t.runID, seed, cfg.World.MapWidth, cfg.World.MapHeight); err != nil {
			return err
		}
	}

	slog.Info("telemetry outputs", "dir", t.output.Dir(), "run_id", t.runID,
		"event_log", t.events != nil, "store", t.store != nil)
	return nil
}

// record feeds one tick's report to the collectors and the event log.
// tick is the number of the tick that produced the report, counted from 1.
func (t *telemetryState) record(tick uint64, r TickReport) {
	var events []telemetry.Event

	for _, d := range r.Deaths {
		t.collector.RecordDeath(d.Cause)
		life := t.lifetimes.Remove(d.ID)
		events = append(events, telemetry.NewDeathEvent(tick, d.ID, d.X, d.Y, d.Cause.String(), d.Age, life))
	}
	for _, h := range r.Harvests {
		t.collector.RecordHarvest()
		t.lifetimes.RecordHarvest(h.ID)
		events = append(events, telemetry.NewHarvestEvent(tick, h.ID, h.X, h.Y))
	}
	for _, d := range r.Drinks {
		t.collector.RecordDrink()
		t.lifetimes.RecordDrink(d.ID)
		events = append(events, telemetry.NewDrinkEvent(tick, d.ID, d.X, d.Y))
	}
	for _, b := range r.Births {
		t.collector.RecordBirth()
		t.lifetimes.RecordChild(b.ParentID)
		t.lifetimes.RecordChild(b.MateID)
		t.lifetimes.Register(b.ID, tick, b.Generation, b.ParentID)
		e := telemetry.NewBirthEvent(tick, b.ID, b.ParentID, b.MateID, b.Generation, b.X, b.Y)
		events = append(events, e)
		if t.store != nil {
			t.births = append(t.births, e)
		}
	}
	for i := 0; i < r.DroppedClaims; i++ {
		t.collector.RecordDroppedClaim()
	}

	if len(events) > 0 {
		if err := t.events.Write(events...); err != nil {
			slog.Error("failed to write events", "error", err)
		}
	}
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (s *Simulation) flushTelemetry() {
	t := s.tel
	if !t.collector.ShouldFlush(s.tick) {
		return
	}

	stats := t.collector.Flush(s.tick, s.simTime, s.populationSample())
	perfStats := t.perf.Stats()
	t.last = stats

	if t.callback != nil {
		t.callback(stats)
	}

	if t.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := t.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := t.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
	if err := t.store.SaveWindow(t.runID, stats); err != nil {
		slog.Error("failed to store window", "error", err)
	}
	if err := t.store.SaveBirths(t.runID, t.births); err != nil {
		slog.Error("failed to store births", "error", err)
	}
	t.births = t.births[:0]
	if err := t.events.Flush(); err != nil {
		slog.Error("failed to flush events", "error", err)
	}

	for _, bm := range t.bookmarks.Check(stats) {
		if t.logStats {
			bm.LogBookmark()
		}
		if err := t.output.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}

// populationSample collects the per-blob values a stats window summarises.
func (s *Simulation) populationSample() telemetry.PopulationSample {
	sample := telemetry.PopulationSample{
		Blobs:          make([]telemetry.BlobSample, 0, s.pop.Len()),
		RipeBushes:     s.bushes.RipeCount(),
		TotalBushes:    s.bushes.Len(),
		ActiveLineages: s.tel.lifetimes.ActiveLineageCount(),
		YoungAge:       s.cfg.Telemetry.YoungAge,
		ElderAge:       s.cfg.Telemetry.ElderBucketAge,
	}
	s.pop.Each(func(a systems.Agent) {
		sample.Blobs = append(sample.Blobs, telemetry.BlobSample{
			Age:        a.Vitals.Age,
			HP:         a.Vitals.HP,
			Hunger:     a.Vitals.Hunger,
			Thirst:     a.Vitals.Thirst,
			Speed:      a.Genome.Speed,
			Sight:      a.Genome.Sight,
			Generation: a.Org.Generation,
		})
	})
	return sample
}

// LastWindow returns the most recently flushed stats window.
func (s *Simulation) LastWindow() telemetry.WindowStats {
	return s.tel.last
}

// close saves pending births and closes every output.
func (t *telemetryState) close() error {
	if err := t.store.SaveBirths(t.runID, t.births); err != nil {
		slog.Error("failed to store births", "error", err)
	}
	t.births = t.births[:0]
	return closeAll(t.events.Close, t.store.Close, t.output.Close)
}
