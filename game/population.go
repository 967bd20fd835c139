package game

import (
	"math/rand/v2"
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/Frezo23/Blobs/components"
	"github.com/Frezo23/Blobs/config"
	"github.com/Frezo23/Blobs/systems"
	"github.com/Frezo23/Blobs/telemetry"
	"github.com/Frezo23/Blobs/terrain"
)

// setupStream separates initial trait and heading draws from other streams.
const setupStream = 0x7365747570

// Newborn describes an agent admitted at the end of a tick.
type Newborn struct {
	ID         uint32
	ParentID   uint32
	MateID     uint32
	Generation uint32
	X, Y       int
}

// Death describes an agent evicted at the end of a tick.
type Death struct {
	ID    uint32
	X, Y  int
	Age   float64
	Cause systems.DeathCause
}

// Action is a completed harvest or drink.
type Action struct {
	ID   uint32
	X, Y int
}

// TickReport is everything that happened during one population tick.
type TickReport struct {
	Births        []Newborn
	Deaths        []Death
	Harvests      []Action
	Drinks        []Action
	DroppedClaims int
	Parallel      bool
}

// Population owns the agents. Each tick it freezes a snapshot, runs every
// agent's update against it, merges cross-agent writes, then evicts the
// dead and admits newborns for the next tick.
type Population struct {
	cfg    *config.Config
	world  *ecs.World
	system *systems.BlobSystem

	mapper *ecs.Map6[
		components.Position,
		components.Vitals,
		components.Genome,
		components.Stats,
		components.Behavior,
		components.Organism,
	]
	filter *ecs.Filter6[
		components.Position,
		components.Vitals,
		components.Genome,
		components.Stats,
		components.Behavior,
		components.Organism,
	]

	seed     uint64
	setupRNG *rand.Rand
	nextID   uint32
	count    int

	// Per-tick buffers, reused.
	snapshot   *systems.Snapshot
	agents     []systems.Agent
	outcomes   []systems.Outcome
	pending    []systems.Birth
	dead       []ecs.Entity
	usedAsMate map[ecs.Entity]struct{}

	byID map[uint32]ecs.Entity

	parallel *parallelState

	// onPhase, when set, is told when each stage of a tick begins.
	onPhase func(telemetry.Phase)
}

// NewPopulation creates an empty population for a cols x rows map.
func NewPopulation(cfg *config.Config, cols, rows int, seed int64) *Population {
	world := ecs.NewWorld()
	p := &Population{
		cfg:    cfg,
		world:  world,
		system: systems.NewBlobSystem(cfg),
		mapper: ecs.NewMap6[
			components.Position,
			components.Vitals,
			components.Genome,
			components.Stats,
			components.Behavior,
			components.Organism,
		](world),
		filter: ecs.NewFilter6[
			components.Position,
			components.Vitals,
			components.Genome,
			components.Stats,
			components.Behavior,
			components.Organism,
		](world),
		seed:       uint64(seed),
		setupRNG:   rand.New(rand.NewPCG(uint64(seed), setupStream)),
		nextID:     1,
		snapshot:   systems.NewSnapshot(cols, rows),
		usedAsMate: make(map[ecs.Entity]struct{}),
		byID:       make(map[uint32]ecs.Entity),
	}
	p.parallel = newParallelState(cfg.Simulation.Workers)
	return p
}

// Spawn adds an initial agent and returns its ID.
func (p *Population) Spawn(spec BlobSpec) uint32 {
	genome := systems.RandomGenome(spec.Genome, p.setupRNG, &p.cfg.Traits)

	maxHP := spec.MaxHP
	if maxHP <= 0 {
		maxHP = p.cfg.Blob.MaxHP
	}
	hp := spec.HP
	if hp <= 0 {
		hp = maxHP
	}
	hp = min(hp, maxHP)

	var heading components.Behavior
	systems.RandomHeading(&heading, p.setupRNG, &p.cfg.Blob)

	vitals := components.Vitals{
		HP:     hp,
		MaxHP:  maxHP,
		Hunger: clampNeed(spec.Hunger),
		Thirst: clampNeed(spec.Thirst),
		Age:    max(0, spec.Age),
		Alive:  true,
	}
	return p.create(spec.X, spec.Y, vitals, genome,
		systems.NewAgentBehavior(heading.DirX, heading.DirY, heading.WanderCooldown),
		components.Organism{ReproCooldown: spec.ReproCooldown})
}

func clampNeed(v float64) float64 {
	return max(0, min(v, systems.MaxNeed))
}

// create adds an entity and assigns the next ID. Must not be called during a pass.
func (p *Population) create(x, y int, vitals components.Vitals, genome components.Genome, behavior components.Behavior, org components.Organism) uint32 {
	ts := p.cfg.World.TileSize
	pos := components.Position{X: x, Y: y, PX: float64(x) * ts, PY: float64(y) * ts}
	stats := components.Stats{Speed: genome.Speed, Strength: genome.Strength, Sight: genome.Sight}

	org.ID = p.nextID
	p.nextID++

	e := p.mapper.NewEntity(&pos, &vitals, &genome, &stats, &behavior, &org)
	p.byID[org.ID] = e
	p.count++
	return org.ID
}

// Len returns the number of live agents.
func (p *Population) Len() int { return p.count }

// NextID returns the ID the next agent will receive.
func (p *Population) NextID() uint32 { return p.nextID }

// Tick runs one population pass at the given tick number.
func (p *Population) Tick(tick uint64, dt float64, q terrain.Query, bushes *systems.BushField) TickReport {
	var report TickReport

	p.phase(telemetry.PhaseSnapshot)
	p.buildSnapshot()
	n := len(p.agents)
	if n == 0 {
		return report
	}

	if cap(p.outcomes) < n {
		p.outcomes = make([]systems.Outcome, n)
	}
	p.outcomes = p.outcomes[:n]
	clear(p.outcomes)

	p.phase(telemetry.PhaseBehavior)
	if p.parallel.numWorkers > 1 && n >= p.cfg.Simulation.ParallelThreshold {
		p.computeParallel(tick, dt, q, bushes)
		report.Parallel = true
	} else {
		w := &p.parallel.workers[0]
		w.bind(q, bushes, p.snapshot)
		p.computeChunk(0, n, w, tick, dt)
	}

	p.phase(telemetry.PhaseMerge)
	p.merge(&report)
	p.phase(telemetry.PhaseCleanup)
	p.evict()
	p.phase(telemetry.PhaseNewborns)
	p.admit(tick, &report)
	return report
}

func (p *Population) phase(ph telemetry.Phase) {
	if p.onPhase != nil {
		p.onPhase(ph)
	}
}

// buildSnapshot collects live agents in ID order and freezes their state.
func (p *Population) buildSnapshot() {
	p.agents = p.agents[:0]
	p.snapshot.Reset()

	query := p.filter.Query()
	for query.Next() {
		pos, vitals, genome, stats, behavior, org := query.Get()
		if !vitals.Alive {
			continue
		}
		p.agents = append(p.agents, systems.Agent{
			Entity:   query.Entity(),
			Pos:      pos,
			Vitals:   vitals,
			Genome:   genome,
			Stats:    stats,
			Behavior: behavior,
			Org:      org,
		})
	}

	sort.Slice(p.agents, func(i, j int) bool { return p.agents[i].Org.ID < p.agents[j].Org.ID })
	for _, a := range p.agents {
		p.snapshot.Add(systems.AgentSnapshot{
			Entity:        a.Entity,
			ID:            a.Org.ID,
			Pos:           *a.Pos,
			Vitals:        *a.Vitals,
			Genome:        *a.Genome,
			Generation:    a.Org.Generation,
			ReproCooldown: a.Org.ReproCooldown,
		})
	}
	p.snapshot.Finalize()
}

// computeChunk updates agents [i0, i1) using one worker's context.
func (p *Population) computeChunk(i0, i1 int, w *worker, tick uint64, dt float64) {
	for i := i0; i < i1; i++ {
		a := p.agents[i]
		w.ctx.RNG = w.rng.For(p.seed, tick, a.Org.ID)
		p.outcomes[i] = p.system.Update(a, dt, w.ctx)
	}
}

// merge walks outcomes in snapshot order. A reproduction claim is accepted
// unless its initiator was already taken as a mate by an earlier accepted
// claim; accepting sets the mate's cooldown.
func (p *Population) merge(report *TickReport) {
	rc := &p.cfg.Reproduction
	clear(p.usedAsMate)
	p.pending = p.pending[:0]
	p.dead = p.dead[:0]

	for i := range p.outcomes {
		out := &p.outcomes[i]
		a := p.agents[i]

		if out.Harvested {
			report.Harvests = append(report.Harvests, Action{ID: a.Org.ID, X: a.Pos.X, Y: a.Pos.Y})
		}
		if out.Drank {
			report.Drinks = append(report.Drinks, Action{ID: a.Org.ID, X: a.Pos.X, Y: a.Pos.Y})
		}

		if b := out.Birth; b != nil {
			if _, used := p.usedAsMate[a.Entity]; used {
				a.Org.Children--
				report.DroppedClaims++
			} else {
				p.usedAsMate[b.Mate] = struct{}{}
				if mi, ok := p.snapshot.Index(b.Mate); ok {
					mate := p.agents[mi].Org
					mate.ReproCooldown = rc.AdultCooldown
					mate.Children++
				}
				p.pending = append(p.pending, *b)
			}
		}

		if out.Died {
			report.Deaths = append(report.Deaths, Death{
				ID:    a.Org.ID,
				X:     a.Pos.X,
				Y:     a.Pos.Y,
				Age:   a.Vitals.Age,
				Cause: out.Cause,
			})
			p.dead = append(p.dead, a.Entity)
		}
	}
}

// evict removes agents that died this tick.
func (p *Population) evict() {
	for _, e := range p.dead {
		if p.world.Alive(e) {
			_, _, _, _, _, org := p.mapper.Get(e)
			delete(p.byID, org.ID)
			p.world.RemoveEntity(e)
			p.count--
		}
	}
	p.dead = p.dead[:0]
}

// admit creates the newborns collected during merge. They join the next
// tick's snapshot.
func (p *Population) admit(tick uint64, report *TickReport) {
	for _, b := range p.pending {
		vitals := components.Vitals{HP: b.MaxHP, MaxHP: b.MaxHP, Alive: true}
		org := components.Organism{
			Generation:    b.Generation,
			ParentID:      b.ParentID,
			ReproCooldown: p.cfg.Reproduction.NewbornCooldown,
			BornTick:      tick,
		}
		id := p.create(b.Pos.X, b.Pos.Y, vitals, b.Genome,
			systems.NewAgentBehavior(b.DirX, b.DirY, b.WanderCooldown), org)

		report.Births = append(report.Births, Newborn{
			ID:         id,
			ParentID:   b.ParentID,
			MateID:     b.MateID,
			Generation: b.Generation,
			X:          b.Pos.X,
			Y:          b.Pos.Y,
		})
	}
	p.pending = p.pending[:0]
}

// Each calls fn for every live agent in ID order. fn must not keep the
// pointers past the call.
func (p *Population) Each(fn func(systems.Agent)) {
	agents := make([]systems.Agent, 0, p.count)
	query := p.filter.Query()
	for query.Next() {
		pos, vitals, genome, stats, behavior, org := query.Get()
		agents = append(agents, systems.Agent{
			Entity:   query.Entity(),
			Pos:      pos,
			Vitals:   vitals,
			Genome:   genome,
			Stats:    stats,
			Behavior: behavior,
			Org:      org,
		})
	}
	sort.Slice(agents, func(i, j int) bool { return agents[i].Org.ID < agents[j].Org.ID })
	for _, a := range agents {
		fn(a)
	}
}

// Get returns the live agent with the given ID. The pointers are valid
// until the next tick.
func (p *Population) Get(id uint32) (systems.Agent, bool) {
	e, ok := p.byID[id]
	if !ok || !p.world.Alive(e) {
		return systems.Agent{}, false
	}
	pos, vitals, genome, stats, behavior, org := p.mapper.Get(e)
	return systems.Agent{
		Entity:   e,
		Pos:      pos,
		Vitals:   vitals,
		Genome:   genome,
		Stats:    stats,
		Behavior: behavior,
		Org:      org,
	}, true
}

// Close stops the worker pool.
func (p *Population) Close() {
	p.parallel.stopWorkers()
}
