// Package battle implements the tick-driven battle state machine: target
// projection, greedy spell selection, effect resolution, status filters and
// mutation commit.
package battle

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cory-johannsen/arcana/internal/game/slotmap"
	"github.com/cory-johannsen/arcana/internal/game/spell"
)

// ErrStalemate is returned by Run when no terminal event appears in time.
var ErrStalemate = errors.New("battle did not conclude")

// Registry resolves roster handles to live combatants.
//
// Implementations may panic on a handle they do not hold: a Battle only
// references combatants inserted into the same registry.
type Registry interface {
	Combatant(side Side, h slotmap.Handle) Combatant
	Spells(side Side, h slotmap.Handle) []spell.Spell
}

var sides = [2]Side{Wizards, Monsters}

// Battle is one fight between a roster of wizards (allies) and a roster of
// monsters (enemies).
type Battle struct {
	Allies  []slotmap.Handle
	Enemies []slotmap.Handle
	// ActiveAllies and ActiveEnemies hold the roster positions still standing,
	// in ascending order.
	ActiveAllies  []int
	ActiveEnemies []int
	// AllyCasts and EnemyCasts map a roster position to its in-flight spell.
	AllyCasts  map[int]spell.Spell
	EnemyCasts map[int]spell.Spell
	// PastTicks is the append-only record of every resolved tick.
	PastTicks [][]Event
	// Pending is the list the last Step returned, fed to the next one.
	Pending []Event
}

// New creates a battle with every roster member active and nothing in flight.
//
// Postcondition: ActiveAllies == [0, len(allies)); ActiveEnemies == [0, len(enemies)).
func New(allies, enemies []slotmap.Handle) *Battle {
	b := &Battle{
		Allies:     slices.Clone(allies),
		Enemies:    slices.Clone(enemies),
		AllyCasts:  make(map[int]spell.Spell),
		EnemyCasts: make(map[int]spell.Spell),
	}
	for i := range allies {
		b.ActiveAllies = append(b.ActiveAllies, i)
	}
	for i := range enemies {
		b.ActiveEnemies = append(b.ActiveEnemies, i)
	}
	return b
}

// Roster returns the handles of side's roster.
func (b *Battle) Roster(side Side) []slotmap.Handle {
	if side == Wizards {
		return b.Allies
	}
	return b.Enemies
}

func (b *Battle) active(side Side) *[]int {
	if side == Wizards {
		return &b.ActiveAllies
	}
	return &b.ActiveEnemies
}

// Casts returns the in-flight spells of side keyed by roster position.
func (b *Battle) Casts(side Side) map[int]spell.Spell {
	if side == Wizards {
		if b.AllyCasts == nil {
			b.AllyCasts = make(map[int]spell.Spell)
		}
		return b.AllyCasts
	}
	if b.EnemyCasts == nil {
		b.EnemyCasts = make(map[int]spell.Spell)
	}
	return b.EnemyCasts
}

// Concluded reports whether either roster has been wiped out.
func (b *Battle) Concluded() bool {
	return len(b.ActiveAllies) == 0 || len(b.ActiveEnemies) == 0
}

// Fallen returns the roster positions of side no longer active.
func (b *Battle) Fallen(side Side) []int {
	active := *b.active(side)
	var out []int
	for i := range b.Roster(side) {
		if !slices.Contains(active, i) {
			out = append(out, i)
		}
	}
	return out
}

func (b *Battle) remove(side Side, pos int) {
	active := b.active(side)
	*active = slices.DeleteFunc(*active, func(p int) bool { return p == pos })
	delete(b.Casts(side), pos)
}

// field is the per-tick view of every active combatant.
type field struct {
	positions [2][]int
	units     [2][]Combatant
	targets   [2][]Target
}

func (b *Battle) snapshot(reg Registry) *field {
	f := &field{}
	for _, side := range sides {
		roster := b.Roster(side)
		for _, pos := range *b.active(side) {
			c := reg.Combatant(side, roster[pos])
			f.positions[side] = append(f.positions[side], pos)
			f.units[side] = append(f.units[side], c)
			f.targets[side] = append(f.targets[side], Project(c, pos))
		}
	}
	return f
}

func (f *field) target(side Side, pos int) (Target, bool) {
	for _, t := range f.targets[side] {
		if t.Position == pos {
			return t, true
		}
	}
	return Target{}, false
}

// aim returns the side and the targets an effect of s cast by caster reaches.
func (f *field) aim(side Side, caster Target, s spell.Spell) (Side, []Target) {
	tt := s.Ability.Target
	if tt.Kind == spell.SelfOnly {
		return side, []Target{caster}
	}
	into := side
	if tt.Kind == spell.Enemy {
		into = side.Opponent()
	}
	pool := slices.Clone(f.targets[into])
	SortTargets(s.Ability.Priority, pool)
	if n := int(tt.Count); n < len(pool) {
		pool = pool[:n]
	}
	return into, pool
}

// advance schedules what follows a resolved TickEffect.
func advance(side Side, a Atom, e spell.Effect) Atom {
	if !e.Done(a.Progress + 1) {
		return TickAtom(side, a.Actor, a.Spell, a.EffectIndex, a.Progress+1)
	}
	if _, ok := a.Spell.Effect(a.EffectIndex + 1); ok {
		return TickAtom(side, a.Actor, a.Spell, a.EffectIndex+1, 0)
	}
	return EndAtom(side, a.Actor, a.Spell)
}

// Tick resolves one cycle. current is the list the previous call returned
// (empty on the first call); the returned list is fed to the next call.
//
// Precondition: every roster handle resolves in reg.
// Postcondition: current, extended by the committed mutations, is appended to
// PastTicks; hp and statuses in reg reflect the commit. A returned terminal
// event is the only element of the list.
func (b *Battle) Tick(current []Event, reg Registry) []Event {
	record := slices.Clone(current)

	for _, e := range current {
		if !e.IsTerminal() && e.Atom.Kind == Kill {
			b.remove(e.Side(), e.Atom.Subject)
		}
	}
	if len(b.ActiveAllies) == 0 {
		b.PastTicks = append(b.PastTicks, record)
		return []Event{DefeatEvent()}
	}
	if len(b.ActiveEnemies) == 0 {
		b.PastTicks = append(b.PastTicks, record)
		return []Event{VictoryEvent()}
	}

	f := b.snapshot(reg)
	var out []Event

	for _, e := range current {
		if e.IsTerminal() {
			continue
		}
		side, a := e.Side(), e.Atom
		switch a.Kind {
		case CastSpell:
			if _, ok := f.target(side, a.Actor); !ok {
				continue
			}
			b.Casts(side)[a.Actor] = a.Spell
			out = append(out, On(side, TickAtom(side, a.Actor, a.Spell, 1, 0)))
		case SpellEnd, FizzleSpell:
			delete(b.Casts(side), a.Actor)
		}
	}
	for _, side := range sides {
		casts := b.Casts(side)
		for _, pos := range f.positions[side] {
			if _, busy := casts[pos]; busy {
				continue
			}
			spells := reg.Spells(side, b.Roster(side)[pos])
			if s, ok := PickSpell(spells, f.targets[side], f.targets[side.Opponent()]); ok {
				out = append(out, On(side, CastAtom(side, pos, s)))
			}
		}
	}

	var pending []Event
	for _, e := range current {
		if e.IsTerminal() || e.Atom.Kind != TickEffect {
			continue
		}
		side, a := e.Side(), e.Atom
		caster, ok := f.target(side, a.Actor)
		if !ok {
			delete(b.Casts(side), a.Actor)
			continue
		}
		eff, ok := a.Spell.Effect(a.EffectIndex)
		if !ok {
			out = append(out, On(side, EndAtom(side, a.Actor, a.Spell)))
			continue
		}
		into, targets := f.aim(side, caster, a.Spell)
		for _, t := range targets {
			pending = append(pending, On(into, Resolve(side, caster, t, eff, a.Spell.Glyph, a.Spell.GlyphPower)))
		}
		out = append(out, On(side, advance(side, a, eff)))
	}

	for _, side := range sides {
		for i, pos := range f.positions[side] {
			pending = append(pending, residual(side, pos, f.units[side][i].Statuses())...)
		}
	}
	for _, side := range sides {
		for i, pos := range f.positions[side] {
			st := f.units[side][i].Statuses()
			filterActor(out, side, pos, st)
			filterActor(pending, side, pos, st)
		}
	}
	for _, side := range sides {
		for i, pos := range f.positions[side] {
			st := f.units[side][i].Statuses()
			filterTarget(out, side, pos, st)
			filterTarget(pending, side, pos, st)
		}
	}
	for _, side := range sides {
		for _, c := range f.units[side] {
			c.Statuses().TickAll()
		}
	}

	for _, e := range pending {
		record = append(record, e)
		side := e.Side()
		c := reg.Combatant(side, b.Roster(side)[e.Atom.Subject])
		if Apply(e.Atom, c) {
			out = append(out, On(side, KillAtom(e.Atom.Source, e.Atom.Actor, e.Atom.Subject)))
		}
	}

	b.PastTicks = append(b.PastTicks, record)
	return out
}

// Terminal returns the terminal event of tick, if any.
func Terminal(tick []Event) (Event, bool) {
	for _, e := range tick {
		if e.IsTerminal() {
			return e, true
		}
	}
	return Event{}, false
}

// Step feeds Pending through Tick and keeps the result as the new Pending.
func (b *Battle) Step(reg Registry) []Event {
	b.Pending = b.Tick(b.Pending, reg)
	return b.Pending
}

// Run steps the battle until a terminal event appears, at most maxTicks times.
//
// Postcondition: Returns the terminal event, or ErrStalemate after maxTicks
// ticks without one.
func (b *Battle) Run(reg Registry, maxTicks int) (Event, error) {
	for i := 0; i < maxTicks; i++ {
		if e, ok := Terminal(b.Step(reg)); ok {
			return e, nil
		}
	}
	return Event{}, fmt.Errorf("after %d ticks: %w", maxTicks, ErrStalemate)
}
