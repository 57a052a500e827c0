package battle

import (
	"math"

	"github.com/cory-johannsen/arcana/internal/game/magic"
	"github.com/cory-johannsen/arcana/internal/game/spell"
)

func clamp16(v uint64) uint16 {
	if v > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(v)
}

func addSat16(a, b uint16) uint16 {
	return clamp16(uint64(a) + uint64(b))
}

func subSat16(a, b uint16) uint16 {
	if b >= a {
		return 0
	}
	return a - b
}

// mitigated applies resistance to raw, never dropping below 1.
func mitigated(raw, resist uint64) uint16 {
	if resist >= raw {
		return 1
	}
	return clamp16(raw - resist)
}

// Resolve turns one effect of a spell of the given glyph and power into the
// mutation it inflicts on target. source is the caster's roster.
//
// Damage and status magnitude: raw = magnitude + (augment + augment_cast) ×
// power, less target resist × power, floored at 1. Heal adds the target's
// augment instead of subtracting its resist.
func Resolve(source Side, caster, target Target, e spell.Effect, glyph magic.Glyph, power uint16) Atom {
	p := uint64(power)
	outgoing := uint64(caster.Augment.Value16(glyph)) + uint64(caster.AugmentCast.Value16(glyph))
	raw := uint64(e.Magnitude) + outgoing*p
	resist := uint64(target.Resist.Value16(glyph)) * p

	switch e.Application.Kind {
	case spell.Damage:
		return DamageAtom(source, caster.Position, target.Position, mitigated(raw, resist), glyph)
	case spell.Heal:
		v := uint64(e.Magnitude) + (outgoing+uint64(target.Augment.Value16(glyph)))*p
		return HealAtom(source, caster.Position, target.Position, clamp16(v))
	case spell.ApplyStatus:
		return IncurAtom(source, caster.Position, target.Position, e.Application.Status, mitigated(raw, resist), e.Application.StatusDuration)
	default:
		return LoseAtom(source, caster.Position, target.Position, e.Application.Status)
	}
}

// Apply commits the mutation a to c.
//
// Postcondition: hp stays within [0, maxHP]; killed is true iff a Damage atom
// took c from positive hit points to zero.
func Apply(a Atom, c Combatant) (killed bool) {
	hp, maxHP := c.Vitals()
	switch a.Kind {
	case Damage:
		next := uint32(0)
		if hp > uint32(a.Value) {
			next = hp - uint32(a.Value)
		}
		c.SetHP(next)
		return hp > 0 && next == 0
	case Heal:
		next := uint64(hp) + uint64(a.Value)
		if next > uint64(maxHP) {
			next = uint64(maxHP)
		}
		if next < uint64(hp) {
			next = uint64(hp)
		}
		c.SetHP(uint32(next))
	case IncurStatus:
		c.Statuses().Insert(a.Status, a.Value, a.Duration)
	case LoseStatus:
		c.Statuses().Remove(a.Status)
	}
	return false
}
