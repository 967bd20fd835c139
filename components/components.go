// Package components defines ECS components for the simulation.
package components

// Vitals holds an agent's needs and health. Hunger and thirst are in
// [0, 100]; HP is in [0, MaxHP]. Age is in simulated seconds.
type Vitals struct {
	HP     float64
	MaxHP  float64
	Hunger float64
	Thirst float64
	Age    float64
	Alive  bool
}

// Genome holds the immutable genetic baseline of an agent.
type Genome struct {
	Intelligence int     // 1..100, static
	Strength     float64 // base strength
	Speed        float64 // base speed, tiles per second
	Sight        float64 // base sight radius, tiles
	MaxAge       float64 // lifespan ceiling, seconds
}

// Stats holds the effective traits recomputed every tick from the genome
// and the agent's current condition.
type Stats struct {
	Speed    float64
	Strength float64
	Sight    float64
}

// State is the agent's current behavior mode.
type State uint8

const (
	StateWandering State = iota
	StateSeekingFood
	StateSeekingWater
	StateSeekingMate
	StateHarvesting
	StateDrinking
)

var stateNames = [...]string{
	StateWandering:    "wandering",
	StateSeekingFood:  "seeking_food",
	StateSeekingWater: "seeking_water",
	StateSeekingMate:  "seeking_mate",
	StateHarvesting:   "harvesting",
	StateDrinking:     "drinking",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}
