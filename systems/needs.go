package systems

import (
	"math"

	"github.com/Frezo23/Blobs/components"
	"github.com/Frezo23/Blobs/config"
)

// MaxNeed is the ceiling for hunger and thirst.
const MaxNeed = 100.0

// DeathCause records what drained an agent's last hit points.
type DeathCause uint8

const (
	CauseNone DeathCause = iota
	CauseStarvation
	CauseDehydration
	CauseOldAge
)

func (c DeathCause) String() string {
	switch c {
	case CauseStarvation:
		return "starvation"
	case CauseDehydration:
		return "dehydration"
	case CauseOldAge:
		return "old_age"
	default:
		return "none"
	}
}

// AgeAndCooldown counts down the reproduction cooldown, ages the agent and
// applies the old-age drain once the lifespan ceiling is reached.
func AgeAndCooldown(v *components.Vitals, org *components.Organism, maxAge, dt float64, c *config.BlobConfig) {
	if org.ReproCooldown > 0 {
		org.ReproCooldown -= dt
	}
	v.Age += dt
	if v.Age >= maxAge {
		v.HP -= c.OldAgeDrain * dt
	}
}

// AccumulateNeeds grows hunger and thirst, capped at MaxNeed.
func AccumulateNeeds(v *components.Vitals, dt float64, c *config.BlobConfig) {
	v.Hunger = math.Min(v.Hunger+c.HungerRate*dt, MaxNeed)
	v.Thirst = math.Min(v.Thirst+c.ThirstRate*dt, MaxNeed)
}

// ApplyNeedDamage adjusts hp from needs. Each rule is independent.
func ApplyNeedDamage(v *components.Vitals, dt float64, c *config.BlobConfig) {
	if v.Hunger > c.StarvingHunger {
		v.HP -= c.StarvationDamage * dt
	}
	if v.Thirst > c.DehydratedThirst {
		v.HP -= c.DehydrationDamage * dt
	}
	if v.Hunger < c.WellFedHunger {
		v.HP += c.RegenRate * dt
	}
	if v.Thirst < c.HydratedThirst {
		v.HP += c.RegenRate * dt
	}
}

// EffectiveStats recomputes speed, strength and sight from the genome and
// the agent's condition. Elder agents also lose hp here.
func EffectiveStats(v *components.Vitals, g components.Genome, s *components.Stats, dt float64, c *config.BlobConfig) {
	speed, strength, sight := 1.0, 1.0, 1.0
	cc := &c.Condition

	if v.Hunger > cc.WeakHunger {
		speed /= cc.WeakSpeedDiv
		strength /= cc.WeakStrengthDiv
	}
	if v.Thirst > cc.WeakThirst {
		speed /= cc.WeakSpeedDiv
		strength /= cc.WeakStrengthDiv
	}
	if v.Thirst < cc.FreshThirst {
		speed *= cc.FreshSpeed
		strength *= cc.FreshStrength
	}
	if v.Hunger < cc.FreshHunger {
		speed *= cc.FreshSpeed
		strength *= cc.FreshStrength
	}
	if v.HP < cc.LowHP {
		sight *= cc.LowHPSight
	}
	if v.Age > c.MiddleAge && v.Age < c.ElderAge {
		speed *= cc.MiddleSpeed
		strength *= cc.MiddleStrength
		sight *= cc.MiddleSight
	}
	if v.Age >= c.ElderAge {
		speed *= cc.ElderSpeed
		strength *= cc.ElderStrength
		sight *= cc.ElderSight
		v.HP -= c.ElderDrain * dt
	}

	s.Speed = g.Speed * speed
	s.Strength = g.Strength * strength
	s.Sight = g.Sight * sight
}

// ClampAndCheckDeath clamps hp to [0, MaxHP] and marks the agent dead when
// nothing is left. Returns true if the agent died.
func ClampAndCheckDeath(v *components.Vitals) bool {
	v.HP = math.Max(0, math.Min(v.HP, v.MaxHP))
	if v.HP <= 0 {
		v.Alive = false
		return true
	}
	return false
}

// CauseOf names the dominant drain on an agent that just died.
func CauseOf(v components.Vitals, g components.Genome, c *config.BlobConfig) DeathCause {
	switch {
	case v.Age >= g.MaxAge:
		return CauseOldAge
	case v.Thirst > c.DehydratedThirst:
		return CauseDehydration
	case v.Hunger > c.StarvingHunger:
		return CauseStarvation
	default:
		return CauseOldAge
	}
}
