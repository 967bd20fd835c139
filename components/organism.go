package components

import "github.com/mlange-42/ark/ecs"

// Organism bundles identity, lineage and reproduction state.
type Organism struct {
	ID            uint32
	Generation    uint32  // 0 for seeded agents
	ParentID      uint32  // Initiating parent, 0 for seeded agents
	Children      int     // Offspring this agent initiated or sired
	ReproCooldown float64 // seconds until can reproduce again
	BornTick      uint64
}

// Behavior holds the state machine fields. Targets are weak references: the
// owning collection may drop them between ticks, so every use re-validates.
type Behavior struct {
	State State

	// Unit heading and time until the next random wander heading.
	DirX, DirY     float64
	WanderCooldown float64

	// Valid only while State is StateHarvesting.
	HarvestTarget BushID
	HarvestTimer  float64

	// Tile next to shallow water this agent last chose to drink from.
	WaterX, WaterY int
	HasWater       bool
	DrinkTimer     float64

	// Mate chosen during goal selection. Zero when none.
	MateTarget ecs.Entity
}
