package game

import (
	"log/slog"

	"github.com/Frezo23/Blobs/components"
	"github.com/Frezo23/Blobs/systems"
	"github.com/Frezo23/Blobs/terrain"
)

// BlobView is a read-only copy of one agent for renderers and telemetry.
type BlobView struct {
	ID     uint32
	X, Y   int
	PX, PY float64
	State  components.State

	HP, MaxHP      float64
	Hunger, Thirst float64
	Age            float64

	// Effective stats from the last tick.
	Speed, Strength, Sight float64

	Genome        components.Genome
	Generation    uint32
	ParentID      uint32
	Children      int
	ReproCooldown float64
}

func viewOf(a systems.Agent) BlobView {
	return BlobView{
		ID:            a.Org.ID,
		X:             a.Pos.X,
		Y:             a.Pos.Y,
		PX:            a.Pos.PX,
		PY:            a.Pos.PY,
		State:         a.Behavior.State,
		HP:            a.Vitals.HP,
		MaxHP:         a.Vitals.MaxHP,
		Hunger:        a.Vitals.Hunger,
		Thirst:        a.Vitals.Thirst,
		Age:           a.Vitals.Age,
		Speed:         a.Stats.Speed,
		Strength:      a.Stats.Strength,
		Sight:         a.Stats.Sight,
		Genome:        *a.Genome,
		Generation:    a.Org.Generation,
		ParentID:      a.Org.ParentID,
		Children:      a.Org.Children,
		ReproCooldown: a.Org.ReproCooldown,
	}
}

// Blobs returns every live agent in ID order.
func (s *Simulation) Blobs() []BlobView {
	views := make([]BlobView, 0, s.pop.Len())
	s.pop.Each(func(a systems.Agent) {
		views = append(views, viewOf(a))
	})
	return views
}

// Blob returns the agent with the given ID.
func (s *Simulation) Blob(id uint32) (BlobView, bool) {
	a, ok := s.pop.Get(id)
	if !ok {
		return BlobView{}, false
	}
	return viewOf(a), true
}

// Bushes returns every bush in ID order.
func (s *Simulation) Bushes() []systems.BushView {
	return s.bushes.Views()
}

// Decorations returns a copy of every static map object, bushes included.
func (s *Simulation) Decorations() []components.Decoration {
	out := make([]components.Decoration, len(s.decorations))
	copy(out, s.decorations)
	return out
}

// Oldest returns the oldest live agent. Ties go to the lowest ID.
func (s *Simulation) Oldest() (BlobView, bool) {
	var best BlobView
	var found bool
	s.pop.Each(func(a systems.Agent) {
		if !found || a.Vitals.Age > best.Age {
			best, found = viewOf(a), true
		}
	})
	return best, found
}

// AgeDistribution counts live agents per age bucket.
type AgeDistribution struct {
	Young int // age <= telemetry.young_age
	Adult int
	Elder int // age >= telemetry.elder_bucket_age
}

// AgeDistribution buckets the live population by age.
func (s *Simulation) AgeDistribution() AgeDistribution {
	var d AgeDistribution
	young, elder := s.cfg.Telemetry.YoungAge, s.cfg.Telemetry.ElderBucketAge
	s.pop.Each(func(a systems.Agent) {
		switch age := a.Vitals.Age; {
		case age <= young:
			d.Young++
		case age >= elder:
			d.Elder++
		default:
			d.Adult++
		}
	})
	return d
}

// WorldStats are the static facts about a seeded world.
type WorldStats struct {
	Width, Height int
	TileSize      float64
	Seed          int64
	Tiles         [terrain.NumKinds]int
	Fertile       int
	Decorations   [components.NumDecorationKinds]int
	FlowerTypes   [2]int
	InitialBlobs  int
}

// WorldStats counts tiles and decorations.
func (s *Simulation) WorldStats() WorldStats {
	ws := WorldStats{
		Width:        s.grid.Width(),
		Height:       s.grid.Height(),
		TileSize:     s.cfg.World.TileSize,
		Seed:         s.seed,
		Tiles:        s.grid.Counts(),
		FlowerTypes:  s.flowerTypes,
		InitialBlobs: s.initialBlobs,
	}
	for _, f := range terrain.FertilityMap(s.grid, s.variants) {
		if f {
			ws.Fertile++
		}
	}
	for _, d := range s.decorations {
		if d.Kind < components.NumDecorationKinds {
			ws.Decorations[d.Kind]++
		}
	}
	return ws
}

// LogValue implements slog.LogValuer for structured logging.
func (ws WorldStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("width", ws.Width),
		slog.Int("height", ws.Height),
		slog.Int("total_tiles", ws.Width*ws.Height),
		slog.Float64("tile_size", ws.TileSize),
		slog.Int64("seed", ws.Seed),
		slog.Int("fertile", ws.Fertile),
	}
	for k := terrain.Kind(0); k < terrain.NumKinds; k++ {
		attrs = append(attrs, slog.Int(k.String(), ws.Tiles[k]))
	}
	for k := components.DecorationKind(0); k < components.NumDecorationKinds; k++ {
		attrs = append(attrs, slog.Int(k.String()+"s", ws.Decorations[k]))
	}
	attrs = append(attrs,
		slog.Int("flower_1", ws.FlowerTypes[0]),
		slog.Int("flower_2", ws.FlowerTypes[1]),
		slog.Int("initial_blobs", ws.InitialBlobs),
	)
	return slog.GroupValue(attrs...)
}
