// Package monster provides AI-controlled combatants, the closed monster type
// table, and the bestiary of innate abilities loaded from YAML.
package monster

import (
	"github.com/cory-johannsen/arcana/internal/game/magic"
	"github.com/cory-johannsen/arcana/internal/game/spell"
	"github.com/cory-johannsen/arcana/internal/game/status"
)

// Monster is an AI-controlled combatant.
type Monster struct {
	Name       string
	Kind       Kind
	HP         uint32
	MaxHP      uint32
	Status     status.Set
	Affinity   magic.Affinity
	Acceptance magic.Acceptance
}

// New creates a monster of kind k at full health for the given difficulty.
//
// Precondition: k must be valid.
// Postcondition: HP == MaxHP == k.HP(difficulty).
func New(name string, k Kind, difficulty uint8) *Monster {
	hp := k.HP(difficulty)
	return &Monster{
		Name:       name,
		Kind:       k,
		HP:         hp,
		MaxHP:      hp,
		Acceptance: magic.NewAcceptance(),
	}
}

// Abilities returns the innate abilities of the monster's kind, each re-tagged
// with the monster's current highest style.
func (m *Monster) Abilities(b *Bestiary) []spell.Spell {
	innate := b.Abilities(m.Kind)
	if len(innate) == 0 {
		return nil
	}
	style := m.Acceptance.Highest()
	out := make([]spell.Spell, len(innate))
	for i, s := range innate {
		out[i] = s.WithStyle(style)
	}
	return out
}

// IsDead reports whether the monster has no hit points left.
func (m *Monster) IsDead() bool {
	return m.HP == 0
}

// Vitals returns the current and maximum hit points.
func (m *Monster) Vitals() (hp, maxHP uint32) { return m.HP, m.MaxHP }

// SetHP stores hp verbatim; callers clamp.
func (m *Monster) SetHP(hp uint32) { m.HP = hp }

// Statuses returns the live status set.
func (m *Monster) Statuses() *status.Set { return &m.Status }

// Attunement returns the innate affinity, used both as augmentation and resistance.
func (m *Monster) Attunement() magic.Affinity { return m.Affinity }

// CastAffinity is always zero: monsters carry no spellbook.
func (m *Monster) CastAffinity() magic.Affinity { return magic.Affinity{} }
