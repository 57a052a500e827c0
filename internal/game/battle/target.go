package battle

import (
	"github.com/cory-johannsen/arcana/internal/game/magic"
	"github.com/cory-johannsen/arcana/internal/game/status"
)

// Combatant is the state the engine reads and mutates on a wizard or monster.
type Combatant interface {
	Vitals() (hp, maxHP uint32)
	SetHP(hp uint32)
	Statuses() *status.Set
	// Attunement is the innate affinity: augmentation when casting, resistance
	// when struck.
	Attunement() magic.Affinity
	// CastAffinity is the extra augmentation from the active spellbook.
	CastAffinity() magic.Affinity
}

// Health buckets hit points as a share of the maximum.
type Health uint8

const (
	NoHealth     Health = iota // 0%
	LowHealth                  // 1-25%
	MediumHealth               // 26-70%
	HighHealth                 // 71-99%
	FullHealth                 // 100% or more
)

// Build buckets the maximum hit point pool.
type Build uint8

const (
	Squishy  Build = iota // up to 50
	MidRange              // 51-100
	Tanky                 // over 100
)

// Target is the read-only projection of one active combatant that scoring,
// sorting and effect math work from.
type Target struct {
	// Position is the index into the battle's roster list.
	Position    int
	Health      Health
	Build       Build
	Statuses    status.Set
	Augment     magic.Affinity
	AugmentCast magic.Affinity
	Resist      magic.Affinity
}

func healthOf(hp, maxHP uint32) Health {
	if maxHP == 0 {
		return NoHealth
	}
	pct := uint64(hp) * 100 / uint64(maxHP)
	switch {
	case pct == 0:
		return NoHealth
	case pct <= 25:
		return LowHealth
	case pct <= 70:
		return MediumHealth
	case pct < 100:
		return HighHealth
	}
	return FullHealth
}

func buildOf(maxHP uint32) Build {
	switch {
	case maxHP <= 50:
		return Squishy
	case maxHP <= 100:
		return MidRange
	}
	return Tanky
}

// Project snapshots c at the given roster position.
//
// Postcondition: the returned Target shares no state with c.
func Project(c Combatant, position int) Target {
	hp, maxHP := c.Vitals()
	aff := c.Attunement()
	return Target{
		Position:    position,
		Health:      healthOf(hp, maxHP),
		Build:       buildOf(maxHP),
		Statuses:    *c.Statuses(),
		Augment:     aff,
		AugmentCast: c.CastAffinity(),
		Resist:      aff,
	}
}
