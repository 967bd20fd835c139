package game

import (
	"testing"

	"github.com/Frezo23/Blobs/components"
	"github.com/Frezo23/Blobs/systems"
)

func TestDeadBlobEvictedSameTick(t *testing.T) {
	cfg := testConfig()
	w := meadow()
	w.Blobs = []BlobSpec{
		{X: 0, Y: 0, Genome: adultGenome, HP: 0.01, Hunger: 99},
		{X: 4, Y: 4, Genome: adultGenome},
	}
	sim := NewWithWorld(cfg, 1, w)
	defer sim.Close()

	report := sim.Step(cfg.Simulation.DT)

	if len(report.Deaths) != 1 {
		t.Fatalf("deaths = %d, want 1", len(report.Deaths))
	}
	d := report.Deaths[0]
	if d.ID != 1 {
		t.Errorf("dead id = %d, want 1", d.ID)
	}
	if d.Cause != systems.CauseStarvation {
		t.Errorf("cause = %v, want starvation", d.Cause)
	}
	if sim.Population().Len() != 1 {
		t.Errorf("population = %d, want 1", sim.Population().Len())
	}
	if _, ok := sim.Blob(1); ok {
		t.Error("dead blob still visible after the tick")
	}
	if _, ok := sim.Blob(2); !ok {
		t.Error("healthy blob missing")
	}
}

func TestReproductionAdmitsNewborn(t *testing.T) {
	cfg := testConfig()
	cfg.Reproduction.ProbabilityPerSec = 1e6

	// Both on one tile so any first move keeps them adjacent.
	w := meadow()
	w.Blobs = []BlobSpec{
		{X: 2, Y: 2, Genome: adultGenome, Age: 30},
		{X: 2, Y: 2, Genome: adultGenome, Age: 30},
	}
	sim := NewWithWorld(cfg, 7, w)
	defer sim.Close()

	report := sim.Step(cfg.Simulation.DT)

	if len(report.Births) != 1 {
		t.Fatalf("births = %d, want 1", len(report.Births))
	}
	if report.DroppedClaims != 1 {
		t.Errorf("dropped claims = %d, want 1", report.DroppedClaims)
	}

	b := report.Births[0]
	if b.ID != 3 || b.ParentID != 1 || b.MateID != 2 {
		t.Errorf("birth = %+v, want id 3 from 1 and 2", b)
	}
	if b.Generation != 1 {
		t.Errorf("generation = %d, want 1", b.Generation)
	}

	child, ok := sim.Blob(3)
	if !ok {
		t.Fatal("newborn not in population")
	}
	if child.ReproCooldown != cfg.Reproduction.NewbornCooldown {
		t.Errorf("newborn cooldown = %v, want %v", child.ReproCooldown, cfg.Reproduction.NewbornCooldown)
	}
	if child.Age != 0 || child.Hunger != 0 || child.Thirst != 0 {
		t.Errorf("newborn vitals = age %v hunger %v thirst %v, want zeros", child.Age, child.Hunger, child.Thirst)
	}
	if child.HP != child.MaxHP {
		t.Errorf("newborn hp = %v, want %v", child.HP, child.MaxHP)
	}

	for _, id := range []uint32{1, 2} {
		parent, _ := sim.Blob(id)
		if parent.ReproCooldown != cfg.Reproduction.AdultCooldown {
			t.Errorf("blob %d cooldown = %v, want %v", id, parent.ReproCooldown, cfg.Reproduction.AdultCooldown)
		}
		if parent.Children != 1 {
			t.Errorf("blob %d children = %d, want 1", id, parent.Children)
		}
	}
	if sim.Population().Len() != 3 {
		t.Errorf("population = %d, want 3", sim.Population().Len())
	}
}

func TestNewbornNotUpdatedInBirthTick(t *testing.T) {
	cfg := testConfig()
	cfg.Reproduction.ProbabilityPerSec = 1e6
	w := meadow()
	w.Blobs = []BlobSpec{
		{X: 2, Y: 2, Genome: adultGenome, Age: 30},
		{X: 2, Y: 2, Genome: adultGenome, Age: 30},
	}
	sim := NewWithWorld(cfg, 7, w)
	defer sim.Close()

	sim.Step(cfg.Simulation.DT)
	child, ok := sim.Blob(3)
	if !ok {
		t.Fatal("newborn missing")
	}
	if child.Age != 0 {
		t.Errorf("newborn aged during its birth tick: %v", child.Age)
	}

	sim.Step(cfg.Simulation.DT)
	child, _ = sim.Blob(3)
	if child.Age <= 0 {
		t.Error("newborn did not age on the following tick")
	}
}

func TestHarvestRipeBush(t *testing.T) {
	cfg := testConfig()
	cfg.Bush.SproutTime = 0
	cfg.Bush.RipeTime = 0

	w := meadow()
	w.Decorations = append(w.Decorations, components.NewBush(2, 2))
	w.Blobs = []BlobSpec{{X: 2, Y: 2, Genome: adultGenome, Hunger: 90}}
	sim := NewWithWorld(cfg, 3, w)
	defer sim.Close()

	harvested := false
	for i := 0; i < 600 && !harvested; i++ {
		harvested = len(sim.Step(cfg.Simulation.DT).Harvests) > 0
	}
	if !harvested {
		t.Fatal("blob never harvested the bush")
	}

	b, _ := sim.Blob(1)
	if b.Hunger >= 50 {
		t.Errorf("hunger after harvest = %v, want < 50", b.Hunger)
	}
	if sim.BushField().Ripe(0) {
		t.Error("bush still ripe in the tick it was eaten")
	}
}

func TestSequentialAndParallelMatch(t *testing.T) {
	build := func(workers int) *Simulation {
		cfg := testConfig()
		cfg.World.MapWidth, cfg.World.MapHeight = 30, 30
		cfg.Spawning.BushGrass, cfg.Spawning.BushForest = 0, 0
		cfg.Spawning.BlobGrassSand, cfg.Spawning.BlobForest = 0.3, 0.3
		cfg.Reproduction.ProbabilityPerSec = 5
		cfg.Simulation.Workers = workers
		cfg.Simulation.ParallelThreshold = 1

		w := GenerateWorld(cfg, 42)
		for i := range w.Blobs {
			w.Blobs[i].Age = 30
		}
		return NewWithWorld(cfg, 42, w)
	}

	seq, par := build(1), build(4)
	defer seq.Close()
	defer par.Close()

	if seq.Population().Len() == 0 {
		t.Fatal("world has no blobs")
	}

	dt := seq.cfg.Simulation.DT
	births := 0
	for i := 0; i < 300; i++ {
		rs := seq.Step(dt)
		rp := par.Step(dt)
		if rs.Parallel || !rp.Parallel {
			t.Fatalf("tick %d: parallel flags = %v/%v", i, rs.Parallel, rp.Parallel)
		}
		if len(rs.Births) != len(rp.Births) || len(rs.Deaths) != len(rp.Deaths) {
			t.Fatalf("tick %d: reports differ", i)
		}
		births += len(rs.Births)
	}

	a, b := seq.Blobs(), par.Blobs()
	if len(a) != len(b) {
		t.Fatalf("population %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("blob %d differs:\n seq %+v\n par %+v", a[i].ID, a[i], b[i])
		}
	}
	if births == 0 {
		t.Error("no births; merge path not exercised")
	}
}

func TestEachVisitsInIDOrder(t *testing.T) {
	cfg := testConfig()
	w := meadow()
	for i := 0; i < 5; i++ {
		w.Blobs = append(w.Blobs, BlobSpec{X: 4 - i, Y: i, Genome: adultGenome})
	}
	sim := NewWithWorld(cfg, 1, w)
	defer sim.Close()

	var last uint32
	sim.Population().Each(func(a systems.Agent) {
		if a.Org.ID <= last {
			t.Errorf("id %d after %d", a.Org.ID, last)
		}
		last = a.Org.ID
	})
	if last != 5 {
		t.Errorf("last id = %d, want 5", last)
	}
	if sim.Population().NextID() != 6 {
		t.Errorf("next id = %d, want 6", sim.Population().NextID())
	}
}

func TestSpawnClampsVitals(t *testing.T) {
	cfg := testConfig()
	w := meadow()
	w.Blobs = []BlobSpec{
		{X: 1, Y: 1, Genome: adultGenome, HP: 500, Hunger: 150, Thirst: -5, Age: -3},
	}
	sim := NewWithWorld(cfg, 1, w)
	defer sim.Close()

	b, ok := sim.Blob(1)
	if !ok {
		t.Fatal("spawned blob missing")
	}
	if b.HP != b.MaxHP || b.MaxHP != cfg.Blob.MaxHP {
		t.Errorf("hp = %v max = %v, want clamped to %v", b.HP, b.MaxHP, cfg.Blob.MaxHP)
	}
	if b.Hunger != systems.MaxNeed || b.Thirst != 0 {
		t.Errorf("hunger = %v thirst = %v, want %v and 0", b.Hunger, b.Thirst, systems.MaxNeed)
	}
	if b.Age != 0 {
		t.Errorf("age = %v, want 0", b.Age)
	}
}

func TestBlobLookupByID(t *testing.T) {
	cfg := testConfig()
	w := meadow()
	w.Blobs = []BlobSpec{
		{X: 0, Y: 0, Genome: adultGenome},
		{X: 3, Y: 1, Genome: adultGenome, Hunger: 20},
		{X: 4, Y: 4, Genome: adultGenome},
	}
	sim := NewWithWorld(cfg, 1, w)
	defer sim.Close()

	b, ok := sim.Blob(2)
	if !ok {
		t.Fatal("blob 2 missing")
	}
	if b.ID != 2 || b.X != 3 || b.Y != 1 || b.Hunger != 20 {
		t.Errorf("blob 2 = %+v", b)
	}
	if _, ok := sim.Blob(99); ok {
		t.Error("unknown id reported as present")
	}

	sim.Step(cfg.Simulation.DT)
	for _, v := range sim.Blobs() {
		got, ok := sim.Blob(v.ID)
		if !ok || got != v {
			t.Errorf("lookup of %d = %+v, want %+v", v.ID, got, v)
		}
	}
}
