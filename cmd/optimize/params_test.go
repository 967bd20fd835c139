package main

import (
	"math"
	"testing"

	"github.com/Frezo23/Blobs/config"
	"github.com/Frezo23/Blobs/telemetry"
)

func TestParamVectorMatchesConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	pv := NewParamVector()

	got := pv.ExtractFromConfig(cfg)
	if len(got) != pv.Dim() {
		t.Fatalf("extracted %d values, want %d", len(got), pv.Dim())
	}
	defaults := pv.DefaultVector()
	for i, spec := range pv.Specs {
		if got[i] != defaults[i] {
			t.Errorf("%s: config %v, default %v", spec.Path, got[i], defaults[i])
		}
	}

	raw := pv.Denormalize(pv.Normalize(got))
	for i := range raw {
		if math.Abs(raw[i]-got[i]) > 1e-9 {
			t.Errorf("%s: round trip %v -> %v", pv.Specs[i].Name, got[i], raw[i])
		}
	}
}

func TestApplyToConfigClamps(t *testing.T) {
	cfg, _ := config.Load("")
	pv := NewParamVector()

	high := make([]float64, pv.Dim())
	for i := range high {
		high[i] = 1e9
	}
	pv.ApplyToConfig(cfg, high)

	for i, v := range pv.ExtractFromConfig(cfg) {
		if v > pv.Specs[i].Max {
			t.Errorf("%s = %v above max %v", pv.Specs[i].Name, v, pv.Specs[i].Max)
		}
	}
	if cfg.Bush.RipeTime < cfg.Bush.SproutTime {
		t.Errorf("ripe_time %v < sprout_time %v", cfg.Bush.RipeTime, cfg.Bush.SproutTime)
	}
}

func TestComputeQuality(t *testing.T) {
	steady := make([]telemetry.WindowStats, 10)
	for i := range steady {
		steady[i] = telemetry.WindowStats{Blobs: 50, Births: 3, Deaths: 3, HungerP50: 40, ThirstP50: 40}
	}
	if q := computeQuality(steady); math.Abs(q-1) > 1e-9 {
		t.Errorf("steady quality = %v, want 1", q)
	}

	if q := computeQuality(steady[:qualityWarmupWindows]); q != 0 {
		t.Errorf("warmup-only quality = %v, want 0", q)
	}

	swinging := make([]telemetry.WindowStats, 10)
	for i := range swinging {
		swinging[i] = steady[i]
		if i%2 == 0 {
			swinging[i].Blobs = 5
		}
	}
	if computeQuality(swinging) >= computeQuality(steady) {
		t.Error("an unstable population should score lower")
	}
}
