package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/Frezo23/Blobs/components"
	"github.com/Frezo23/Blobs/config"
)

// Birth is a newborn proposed by one agent's update. The population
// applies the partner's side of the bargain after the pass.
type Birth struct {
	ParentID   uint32
	Mate       ecs.Entity
	MateID     uint32
	Pos        components.Position
	Genome     components.Genome
	MaxHP      float64
	Generation uint32

	// Initial wander heading.
	DirX, DirY     float64
	WanderCooldown float64
}

func eligible(cooldown float64, v components.Vitals, health float64, rc *config.ReproductionConfig) bool {
	return cooldown <= 0 &&
		v.Age >= rc.AdultAge &&
		v.HP > health*v.MaxHP &&
		v.Hunger < rc.MaxHunger &&
		v.Thirst < rc.MaxThirst
}

// CanMate reports whether an agent may look for a mate.
func CanMate(cooldown float64, v components.Vitals, rc *config.ReproductionConfig) bool {
	return eligible(cooldown, v, rc.MateHealth, rc)
}

// CanBreed reports whether an agent may reproduce with an adjacent partner.
func CanBreed(cooldown float64, v components.Vitals, rc *config.ReproductionConfig) bool {
	return eligible(cooldown, v, rc.BreedHealth, rc)
}

// FindAdjacentPartner returns the first agent in snapshot order, other than
// self, that stands within one tile (Chebyshev) and can breed.
func FindAdjacentPartner(snap *Snapshot, self ecs.Entity, pos components.Position, rc *config.ReproductionConfig, scratch []int32) (*AgentSnapshot, []int32) {
	scratch = snap.Near(scratch[:0], pos.X, pos.Y, 1)

	best := int32(-1)
	for _, i := range scratch {
		other := &snap.Agents[i]
		if other.Entity == self || pos.Chebyshev(other.Pos) > 1 {
			continue
		}
		if !CanBreed(other.ReproCooldown, other.Vitals, rc) {
			continue
		}
		if best < 0 || i < best {
			best = i
		}
	}
	if best < 0 {
		return nil, scratch
	}
	return &snap.Agents[best], scratch
}

// Offspring mixes two genomes: the midpoint of each trait plus a bounded
// random perturbation, then clamped or floored.
func Offspring(a, b components.Genome, r RNG, m *config.MutationConfig) components.Genome {
	intel := int(float64(a.Intelligence+b.Intelligence)/2 + float64(IntRange(r, -m.IntelligenceJitter, m.IntelligenceJitter)))
	strength := int((a.Strength+b.Strength)/2 + float64(IntRange(r, -m.StrengthJitter, m.StrengthJitter)))

	return components.Genome{
		Intelligence: clampInt(intel, m.TraitMin, m.TraitMax),
		Strength:     float64(clampInt(strength, m.TraitMin, m.TraitMax)),
		Speed:        math.Max(m.MinSpeed, (a.Speed+b.Speed)/2+Uniform(r, -m.SpeedJitter, m.SpeedJitter)),
		Sight:        math.Max(m.MinSight, (a.Sight+b.Sight)/2+Uniform(r, -m.SightJitter, m.SightJitter)),
		MaxAge:       math.Max(m.MinMaxAge, (a.MaxAge+b.MaxAge)/2+Uniform(r, -m.MaxAgeJitter, m.MaxAgeJitter)),
	}
}

// RandomGenome draws a genome from the configured trait ranges, keeping any
// trait already set in base.
func RandomGenome(base components.Genome, r RNG, t *config.TraitsConfig) components.Genome {
	g := base
	if g.Intelligence == 0 {
		g.Intelligence = IntRange(r, t.IntelligenceMin, t.IntelligenceMax)
	}
	if g.Strength == 0 {
		g.Strength = float64(IntRange(r, t.StrengthMin, t.StrengthMax))
	}
	if g.Speed == 0 {
		g.Speed = Uniform(r, t.SpeedMin, t.SpeedMax)
	}
	if g.Sight == 0 {
		g.Sight = Uniform(r, t.SightMin, t.SightMax)
	}
	if g.MaxAge == 0 {
		g.MaxAge = Uniform(r, t.MaxAgeMin, t.MaxAgeMax)
	}
	return g
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
