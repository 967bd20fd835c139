package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/Frezo23/Blobs/components"
	"github.com/Frezo23/Blobs/config"
	"github.com/Frezo23/Blobs/terrain"
)

// Agent gives the update function write access to one agent's own
// components. Pointers stay valid until the population adds or removes
// entities.
type Agent struct {
	Entity   ecs.Entity
	Pos      *components.Position
	Vitals   *components.Vitals
	Genome   *components.Genome
	Stats    *components.Stats
	Behavior *components.Behavior
	Org      *components.Organism
}

// TickContext is the shared state an agent update reads.
type TickContext struct {
	Terrain  terrain.Query
	Bushes   *BushField
	Snapshot *Snapshot
	RNG      RNG

	// scratch is reused for snapshot grid queries. Not shared between
	// goroutines; each worker owns its context.
	scratch []int32
}

// Outcome reports what one agent update did.
type Outcome struct {
	Birth     *Birth
	Harvested bool
	Drank     bool
	Died      bool
	Cause     DeathCause
}

// goal is the target chosen during goal selection for this tick.
type goal struct {
	state components.State
	x, y  int
	bush  components.BushID
	mate  ecs.Entity
}

// BlobSystem runs the per-tick agent state machine.
type BlobSystem struct {
	cfg      *config.Config
	tileSize float64
}

// NewBlobSystem creates a state machine using the given configuration.
func NewBlobSystem(cfg *config.Config) *BlobSystem {
	return &BlobSystem{cfg: cfg, tileSize: cfg.World.TileSize}
}

// Update advances one agent by dt. Writes go only to the agent's own
// components and, through TryHarvest, to the bush it is eating. A partner's
// side of a reproduction is returned in the Birth for the caller to apply.
func (s *BlobSystem) Update(a Agent, dt float64, ctx *TickContext) Outcome {
	var out Outcome
	v := a.Vitals
	if !v.Alive {
		return out
	}
	bc := &s.cfg.Blob

	AgeAndCooldown(v, a.Org, a.Genome.MaxAge, dt, bc)
	AccumulateNeeds(v, dt, bc)
	ApplyNeedDamage(v, dt, bc)
	EffectiveStats(v, *a.Genome, a.Stats, dt, bc)

	if ClampAndCheckDeath(v) {
		out.Died = true
		out.Cause = CauseOf(*v, *a.Genome, bc)
		return out
	}

	switch a.Behavior.State {
	case components.StateHarvesting:
		out.Harvested = s.harvest(a, dt, ctx)
		return out
	case components.StateDrinking:
		out.Drank = s.drink(a, dt, ctx)
		return out
	}

	g := s.selectGoal(a, ctx)
	if g.state != components.StateWandering {
		SteerToward(a.Behavior, *a.Pos, g.x, g.y, s.tileSize)
	} else {
		Wander(a.Behavior, dt, ctx.RNG, bc)
	}

	if Move(a.Pos, a.Behavior, a.Stats.Speed, dt, s.tileSize, ctx.Terrain, ctx.RNG, bc) && s.arrive(a, g, ctx) {
		return out
	}

	out.Birth = s.reproduce(a, dt, ctx)
	return out
}

// harvest continues an in-progress harvest. Returns true when the bush was
// eaten this tick.
func (s *BlobSystem) harvest(a Agent, dt float64, ctx *TickContext) bool {
	b, v := a.Behavior, a.Vitals
	if !ctx.Bushes.Ripe(b.HarvestTarget) {
		stopHarvest(b)
		return false
	}

	b.HarvestTimer += dt
	if b.HarvestTimer < s.cfg.Blob.HarvestDuration {
		return false
	}

	// Another agent may have finished the same bush first.
	if !ctx.Bushes.TryHarvest(b.HarvestTarget) {
		stopHarvest(b)
		return false
	}

	v.Hunger = math.Max(0, v.Hunger-s.cfg.Blob.HarvestHunger)
	v.HP = math.Min(v.MaxHP, v.HP+s.cfg.Blob.HarvestHeal)
	stopHarvest(b)
	RandomHeading(b, ctx.RNG, &s.cfg.Blob)
	return true
}

func stopHarvest(b *components.Behavior) {
	b.State = components.StateWandering
	b.HarvestTarget = components.NoBush
	b.HarvestTimer = 0
}

// drink continues an in-progress drink. Returns true when the agent drank
// this tick.
func (s *BlobSystem) drink(a Agent, dt float64, ctx *TickContext) bool {
	b, v := a.Behavior, a.Vitals
	if !b.HasWater || v.Thirst <= 0 ||
		pixelDist(*a.Pos, b.WaterX, b.WaterY, s.tileSize) > s.cfg.Derived.DrinkRadius {
		stopDrink(b)
		return false
	}

	b.DrinkTimer += dt
	if b.DrinkTimer < s.cfg.Blob.DrinkDuration {
		return false
	}

	v.Thirst = math.Max(0, v.Thirst-s.cfg.Blob.DrinkThirst)
	v.HP = math.Min(v.MaxHP, v.HP+s.cfg.Blob.DrinkHeal)
	stopDrink(b)
	RandomHeading(b, ctx.RNG, &s.cfg.Blob)
	return true
}

func stopDrink(b *components.Behavior) {
	b.State = components.StateWandering
	b.DrinkTimer = 0
}

// selectGoal searches for food, water and a mate and picks one by priority:
// urgent water, food, mate, water, then wandering.
func (s *BlobSystem) selectGoal(a Agent, ctx *TickContext) goal {
	b, v, pos := a.Behavior, a.Vitals, a.Pos
	bc := &s.cfg.Blob
	sight := a.Stats.Sight

	var food, water, mate goal
	haveFood, haveWater, haveMate := false, false, false

	if v.Hunger > bc.FoodSearchHunger {
		if id, ok := NearestRipeBush(ctx.Bushes, pos.X, pos.Y, sight); ok {
			bx, by, _ := ctx.Bushes.Position(id)
			food = goal{state: components.StateSeekingFood, x: bx, y: by, bush: id}
			haveFood = true
		}
	}

	b.HasWater = false
	if v.Thirst > bc.WaterSearchThirst {
		if wx, wy, ok := NearestWaterTile(ctx.Terrain, pos.X, pos.Y, sight); ok {
			water = goal{state: components.StateSeekingWater, x: wx, y: wy}
			b.WaterX, b.WaterY, b.HasWater = wx, wy, true
			haveWater = true
		}
	}

	if CanMate(a.Org.ReproCooldown, *v, &s.cfg.Reproduction) {
		var other *AgentSnapshot
		other, ctx.scratch = NearestMate(ctx.Snapshot, a.Entity, pos.X, pos.Y, sight, &s.cfg.Reproduction, ctx.scratch)
		if other != nil {
			mate = goal{state: components.StateSeekingMate, x: other.Pos.X, y: other.Pos.Y, mate: other.Entity}
			haveMate = true
		}
	}

	g := goal{state: components.StateWandering}
	switch {
	case haveWater && v.Thirst >= bc.UrgentThirst:
		g = water
	case haveFood:
		g = food
	case haveMate:
		g = mate
	case haveWater:
		g = water
	}

	b.State = g.state
	b.MateTarget = g.mate
	return g
}

// arrive starts harvesting or drinking when a move ended close enough to the
// goal. Returns true if the agent changed state.
func (s *BlobSystem) arrive(a Agent, g goal, ctx *TickContext) bool {
	b, v := a.Behavior, a.Vitals

	switch g.state {
	case components.StateSeekingFood:
		bx, by, ok := ctx.Bushes.Position(g.bush)
		if !ok || !ctx.Bushes.Ripe(g.bush) {
			return false
		}
		if pixelDist(*a.Pos, bx, by, s.tileSize) <= s.cfg.Derived.EatRadius {
			b.State = components.StateHarvesting
			b.HarvestTarget = g.bush
			b.HarvestTimer = 0
			return true
		}
	case components.StateSeekingWater:
		if b.HasWater && v.Thirst > 0 &&
			pixelDist(*a.Pos, b.WaterX, b.WaterY, s.tileSize) <= s.cfg.Derived.DrinkRadius {
			b.State = components.StateDrinking
			b.DrinkTimer = 0
			return true
		}
	}
	return false
}

// reproduce tries to breed with an adjacent partner from the snapshot.
// On success the agent's own cooldown is set; the partner's is left to the
// caller.
func (s *BlobSystem) reproduce(a Agent, dt float64, ctx *TickContext) *Birth {
	rc := &s.cfg.Reproduction
	if !CanBreed(a.Org.ReproCooldown, *a.Vitals, rc) {
		return nil
	}

	var partner *AgentSnapshot
	partner, ctx.scratch = FindAdjacentPartner(ctx.Snapshot, a.Entity, *a.Pos, rc, ctx.scratch)
	if partner == nil {
		return nil
	}
	if ctx.RNG.Float64() >= rc.ProbabilityPerSec*dt {
		return nil
	}

	a.Org.ReproCooldown = rc.AdultCooldown
	a.Org.Children++

	var heading components.Behavior
	RandomHeading(&heading, ctx.RNG, &s.cfg.Blob)

	return &Birth{
		ParentID: a.Org.ID,
		Mate:     partner.Entity,
		MateID:   partner.ID,
		Pos: components.Position{
			X:  a.Pos.X,
			Y:  a.Pos.Y,
			PX: float64(a.Pos.X) * s.tileSize,
			PY: float64(a.Pos.Y) * s.tileSize,
		},
		Genome:         Offspring(*a.Genome, partner.Genome, ctx.RNG, &s.cfg.Mutation),
		MaxHP:          a.Vitals.MaxHP,
		Generation:     max(a.Org.Generation, partner.Generation) + 1,
		DirX:           heading.DirX,
		DirY:           heading.DirY,
		WanderCooldown: heading.WanderCooldown,
	}
}

// NewTickContext bundles the shared state for a pass.
func NewTickContext(q terrain.Query, bushes *BushField, snap *Snapshot, r RNG) *TickContext {
	return &TickContext{Terrain: q, Bushes: bushes, Snapshot: snap, RNG: r}
}

// NewAgentBehavior returns the initial behavior for a fresh agent with the
// given heading.
func NewAgentBehavior(dirX, dirY, wanderCooldown float64) components.Behavior {
	return components.Behavior{
		State:          components.StateWandering,
		DirX:           dirX,
		DirY:           dirY,
		WanderCooldown: wanderCooldown,
		HarvestTarget:  components.NoBush,
	}
}
