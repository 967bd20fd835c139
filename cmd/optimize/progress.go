package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"
)

// progress logs every evaluation to optimize_log.csv and stdout and keeps
// the best parameters seen.
type progress struct {
	params   *ParamVector
	maxEvals int
	dt       float64

	file *os.File
	csv  *gocsv.SafeCSVWriter

	evals       int
	bestFitness float64
	bestParams  []float64
	start       time.Time
}

func newProgress(path string, params *ParamVector, maxEvals int, dt float64) (*progress, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	p := &progress{
		params:      params,
		maxEvals:    maxEvals,
		dt:          dt,
		file:        f,
		csv:         gocsv.DefaultCSVWriter(f),
		bestFitness: 1e9,
		start:       time.Now(),
	}

	header := []string{"eval", "fitness", "quality"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	if err := p.csv.Write(header); err != nil {
		f.Close()
		return nil, err
	}
	return p, nil
}

// record logs one evaluation of the clamped raw parameters.
func (p *progress) record(raw []float64, fitness, quality float64) {
	p.evals++
	if fitness < p.bestFitness {
		p.bestFitness = fitness
		p.bestParams = append(p.bestParams[:0], raw...)
	}

	row := []string{strconv.Itoa(p.evals), fmt.Sprintf("%.6f", fitness), fmt.Sprintf("%.4f", quality)}
	for _, v := range raw {
		row = append(row, fmt.Sprintf("%.6f", v))
	}
	_ = p.csv.Write(row)
	p.csv.Flush()

	elapsed := time.Since(p.start)
	remaining := time.Duration(p.maxEvals-p.evals) * (elapsed / time.Duration(p.evals))

	// fitness = -(ticks * (1 + 0.2*quality))
	survivalSec := -fitness / (1.0 + 0.2*quality) * p.dt
	fmt.Printf("Eval %d/%d: survived=%.0fs quality=%.2f (best=%.0f) | elapsed: %s, ETA: %s\n",
		p.evals, p.maxEvals, survivalSec, quality, p.bestFitness,
		formatDuration(elapsed), formatDuration(remaining))
}

func (p *progress) Close() error {
	p.csv.Flush()
	return p.file.Close()
}

// formatDuration formats a duration as 1h02m03s or 2m03s.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
