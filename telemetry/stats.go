package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick uint64  `csv:"-"`
	WindowEndTick   uint64  `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	Blobs       int `csv:"blobs"`
	RipeBushes  int `csv:"ripe_bushes"`
	TotalBushes int `csv:"total_bushes"`

	// Events during window
	Births            int `csv:"births"`
	Deaths            int `csv:"deaths"`
	DeathsStarvation  int `csv:"deaths_starvation"`
	DeathsDehydration int `csv:"deaths_dehydration"`
	DeathsOldAge      int `csv:"deaths_old_age"`
	Harvests          int `csv:"harvests"`
	Drinks            int `csv:"drinks"`
	DroppedClaims     int `csv:"dropped_claims"`

	// Need distributions (sampled at window end)
	HungerMean float64 `csv:"hunger_mean"`
	HungerStd  float64 `csv:"hunger_std"`
	HungerP10  float64 `csv:"hunger_p10"`
	HungerP50  float64 `csv:"hunger_p50"`
	HungerP90  float64 `csv:"hunger_p90"`

	ThirstMean float64 `csv:"thirst_mean"`
	ThirstStd  float64 `csv:"thirst_std"`
	ThirstP10  float64 `csv:"thirst_p10"`
	ThirstP50  float64 `csv:"thirst_p50"`
	ThirstP90  float64 `csv:"thirst_p90"`

	HPMean float64 `csv:"hp_mean"`
	HPStd  float64 `csv:"hp_std"`
	HPP10  float64 `csv:"hp_p10"`
	HPP50  float64 `csv:"hp_p50"`
	HPP90  float64 `csv:"hp_p90"`

	AgeMean float64 `csv:"age_mean"`
	AgeStd  float64 `csv:"age_std"`
	AgeP50  float64 `csv:"age_p50"`
	AgeMax  float64 `csv:"age_max"`

	// Heritable traits
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SightMean float64 `csv:"sight_mean"`
	SightStd  float64 `csv:"sight_std"`

	// Age buckets
	Young int `csv:"young"`
	Adult int `csv:"adult"`
	Elder int `csv:"elder"`

	MaxGeneration  uint32 `csv:"max_generation"`
	ActiveLineages int    `csv:"active_lineages"`
}

// Distribution summarises a sample of values.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
	Max           float64
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Summarize computes mean, sample standard deviation, percentiles and max.
// The input slice is not modified.
func Summarize(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	var d Distribution
	if n == 1 {
		d.Mean = values[0]
	} else {
		d.Mean, d.Std = stat.MeanStdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	d.P10 = Percentile(sorted, 0.10)
	d.P50 = Percentile(sorted, 0.50)
	d.P90 = Percentile(sorted, 0.90)
	d.Max = floats.Max(sorted)
	return d
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStartTick),
		slog.Uint64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("blobs", s.Blobs),
		slog.Int("ripe_bushes", s.RipeBushes),
		slog.Int("total_bushes", s.TotalBushes),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
		slog.Int("deaths_starvation", s.DeathsStarvation),
		slog.Int("deaths_dehydration", s.DeathsDehydration),
		slog.Int("deaths_old_age", s.DeathsOldAge),
		slog.Int("harvests", s.Harvests),
		slog.Int("drinks", s.Drinks),
		slog.Int("dropped_claims", s.DroppedClaims),
		slog.Float64("hunger_mean", s.HungerMean),
		slog.Float64("hunger_p90", s.HungerP90),
		slog.Float64("thirst_mean", s.ThirstMean),
		slog.Float64("thirst_p90", s.ThirstP90),
		slog.Float64("hp_mean", s.HPMean),
		slog.Float64("hp_p10", s.HPP10),
		slog.Float64("age_mean", s.AgeMean),
		slog.Float64("age_max", s.AgeMax),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("sight_mean", s.SightMean),
		slog.Int("young", s.Young),
		slog.Int("adult", s.Adult),
		slog.Int("elder", s.Elder),
		slog.Uint64("max_generation", uint64(s.MaxGeneration)),
		slog.Int("active_lineages", s.ActiveLineages),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"blobs", s.Blobs,
		"ripe_bushes", s.RipeBushes,
		"births", s.Births,
		"deaths", s.Deaths,
		"deaths_starvation", s.DeathsStarvation,
		"deaths_dehydration", s.DeathsDehydration,
		"deaths_old_age", s.DeathsOldAge,
		"harvests", s.Harvests,
		"drinks", s.Drinks,
		"hunger_mean", s.HungerMean,
		"thirst_mean", s.ThirstMean,
		"hp_mean", s.HPMean,
		"age_max", s.AgeMax,
		"max_generation", s.MaxGeneration,
		"active_lineages", s.ActiveLineages,
	)
}
