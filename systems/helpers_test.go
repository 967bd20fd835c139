package systems

import (
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"

	"github.com/Frezo23/Blobs/components"
	"github.com/Frezo23/Blobs/config"
	"github.com/Frezo23/Blobs/terrain"
)

func init() {
	config.MustInit("")
}

// testConfig returns a private copy of the defaults that a test may modify.
func testConfig() *config.Config {
	cfg := *config.Cfg()
	return &cfg
}

func testRNG() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

// blob is a standalone set of agent components.
type blob struct {
	entity ecs.Entity
	pos    components.Position
	vitals components.Vitals
	genome components.Genome
	stats  components.Stats
	beh    components.Behavior
	org    components.Organism
}

// entities hands out real entity handles for snapshot tests.
type entities struct {
	world *ecs.World
	m     *ecs.Map1[components.Organism]
}

func newEntities() *entities {
	w := ecs.NewWorld()
	return &entities{world: w, m: ecs.NewMap1[components.Organism](w)}
}

func (e *entities) next() ecs.Entity {
	return e.m.NewEntity(&components.Organism{})
}

// newBlob returns a healthy adult standing at the top-left corner of tile (x, y).
func newBlob(ents *entities, id uint32, x, y int, tileSize float64) *blob {
	return &blob{
		entity: ents.next(),
		pos:    components.Position{X: x, Y: y, PX: float64(x) * tileSize, PY: float64(y) * tileSize},
		vitals: components.Vitals{HP: 100, MaxHP: 100, Hunger: 10, Thirst: 10, Age: 30, Alive: true},
		genome: components.Genome{Intelligence: 50, Strength: 50, Speed: 1, Sight: 5, MaxAge: 250},
		stats:  components.Stats{Speed: 1, Strength: 50, Sight: 5},
		beh:    NewAgentBehavior(1, 0, 1),
		org:    components.Organism{ID: id},
	}
}

// centre moves the blob to the centre of its tile.
func (b *blob) centre(tileSize float64) *blob {
	b.pos.PX = TileCenter(b.pos.X, tileSize)
	b.pos.PY = TileCenter(b.pos.Y, tileSize)
	return b
}

func (b *blob) agent() Agent {
	return Agent{
		Entity:   b.entity,
		Pos:      &b.pos,
		Vitals:   &b.vitals,
		Genome:   &b.genome,
		Stats:    &b.stats,
		Behavior: &b.beh,
		Org:      &b.org,
	}
}

func (b *blob) snapshot() AgentSnapshot {
	return AgentSnapshot{
		Entity:        b.entity,
		ID:            b.org.ID,
		Pos:           b.pos,
		Vitals:        b.vitals,
		Genome:        b.genome,
		Generation:    b.org.Generation,
		ReproCooldown: b.org.ReproCooldown,
	}
}

func snapshotOf(grid terrain.Query, blobs ...*blob) *Snapshot {
	snap := NewSnapshot(grid.Width(), grid.Height())
	for _, b := range blobs {
		snap.Add(b.snapshot())
	}
	snap.Finalize()
	return snap
}

func grassGrid(w, h int) *terrain.Grid {
	return terrain.NewGrid(w, h, terrain.Grass)
}

// ripeBushes builds a bush field with every bush already ripe.
func ripeBushes(cfg *config.Config, tiles ...[2]int) *BushField {
	decor := make([]components.Decoration, 0, len(tiles))
	for _, t := range tiles {
		d := components.NewBush(t[0], t[1])
		d.Growth = components.Growth{Stage: components.StageRipe, Timer: 11}
		decor = append(decor, d)
	}
	return NewBushField(decor, cfg.Bush.SproutTime, cfg.Bush.RipeTime)
}
