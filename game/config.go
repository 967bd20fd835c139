package game

// Options configures a headless simulation run.
type Options struct {
	Seed           int64   // 0 draws a seed from the wall clock
	LogStats       bool    // Log window stats and bookmarks through slog
	StatsWindowSec float64 // Overrides telemetry.stats_window when > 0
	OutputDir      string  // CSV, event log and store directory; empty disables outputs
	Workers        int     // Overrides simulation.workers when > 0
}
