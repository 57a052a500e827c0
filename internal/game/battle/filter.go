package battle

import (
	"github.com/cory-johannsen/arcana/internal/game/magic"
	"github.com/cory-johannsen/arcana/internal/game/status"
)

// residual returns the self-inflicted damage a combatant's lingering statuses
// deal this tick: Burning as fire and Submerged as water.
func residual(side Side, pos int, st *status.Set) []Event {
	var out []Event
	if v := st.Value(status.Burning); v > 0 {
		out = append(out, On(side, DamageAtom(side, pos, pos, v, magic.Fire)))
	}
	if v := st.Value(status.Submerged); v > 0 {
		out = append(out, On(side, DamageAtom(side, pos, pos, v, magic.Water)))
	}
	return out
}

func actedBy(e Event, side Side, pos int) bool {
	return e.Atom.Source == side && e.Atom.Actor == pos
}

func landsOn(e Event, side Side, pos int) bool {
	return e.Side() == side && e.Atom.Subject == pos
}

// filterActor rewrites events that (side, pos) performs: a Stunned caster
// fizzles, a Shocked healer or healee weakens the heal, and damage dealt to
// the other roster is raised by Raging, Fluid and Flying and lowered by
// Weakened and Hardened.
func filterActor(events []Event, side Side, pos int, st *status.Set) {
	for i := range events {
		e := &events[i]
		if e.IsTerminal() {
			continue
		}
		a := &e.Atom
		switch a.Kind {
		case CastSpell, TickEffect:
			if e.Side() == side && a.Actor == pos && st.Has(status.Stunned) {
				*e = On(side, FizzleAtom(side, pos, a.Spell))
			}
		case Heal:
			if actedBy(*e, side, pos) || landsOn(*e, side, pos) {
				a.Value = subSat16(a.Value, st.Value(status.Shocked))
			}
		case Damage:
			if actedBy(*e, side, pos) && e.Side() != side {
				v := addSat16(a.Value, st.Value(status.Raging))
				v = addSat16(v, st.Value(status.Fluid))
				v = addSat16(v, st.Value(status.Flying))
				v = subSat16(v, st.Value(status.Weakened))
				a.Value = subSat16(v, st.Value(status.Hardened))
			}
		}
	}
}

// filterTarget lowers damage landing on (side, pos) by its Barrier for the
// damage glyph and then by Hardened.
func filterTarget(events []Event, side Side, pos int, st *status.Set) {
	for i := range events {
		e := &events[i]
		if e.IsTerminal() || e.Atom.Kind != Damage || !landsOn(*e, side, pos) {
			continue
		}
		v := subSat16(e.Atom.Value, st.Value(status.Barrier(e.Atom.Glyph)))
		e.Atom.Value = subSat16(v, st.Value(status.Hardened))
	}
}
