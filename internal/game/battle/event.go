package battle

import (
	"fmt"

	"github.com/cory-johannsen/arcana/internal/game/magic"
	"github.com/cory-johannsen/arcana/internal/game/spell"
	"github.com/cory-johannsen/arcana/internal/game/status"
)

// Side names one of the two rosters of a battle. Its value is the wire code of
// an atom event tagged with that roster.
type Side uint8

const (
	Wizards Side = iota
	Monsters
)

// Opponent returns the other roster.
func (s Side) Opponent() Side {
	if s == Wizards {
		return Monsters
	}
	return Wizards
}

func (s Side) String() string {
	switch s {
	case Wizards:
		return "wizards"
	case Monsters:
		return "monsters"
	}
	return fmt.Sprintf("side(%d)", uint8(s))
}

// AtomKind enumerates what happened in one atom. Values are wire codes.
type AtomKind uint8

const (
	CastSpell AtomKind = iota
	FizzleSpell
	SpellEnd
	TickEffect
	Damage
	Heal
	IncurStatus
	LoseStatus
	Kill
)

// AtomKindCount is the number of atom kinds.
const AtomKindCount = 9

var atomKindNames = [AtomKindCount]string{
	"cast_spell", "fizzle_spell", "spell_end", "tick_effect",
	"damage", "heal", "incur_status", "lose_status", "kill",
}

func (k AtomKind) String() string {
	if k >= AtomKindCount {
		return fmt.Sprintf("atom(%d)", uint8(k))
	}
	return atomKindNames[k]
}

// IsMutation reports whether k changes combatant state when committed.
func (k AtomKind) IsMutation() bool {
	return k >= Damage && k <= LoseStatus
}

// IsCast reports whether k concerns a combatant's in-flight spell.
func (k AtomKind) IsCast() bool {
	return k <= TickEffect
}

// Atom is one thing that happened to one roster position.
//
// Actor is the caster of cast atoms, the source of mutations and the killer of
// Kill. Subject is the affected position of mutations and the killed position
// of Kill. Source is the roster Actor belongs to; for cast atoms it equals the
// event side.
type Atom struct {
	Kind    AtomKind
	Actor   int
	Subject int
	Source  Side

	// cast atoms
	Spell       spell.Spell
	EffectIndex uint8
	Progress    uint32

	// mutations
	Value    uint16
	Glyph    magic.Glyph
	Status   status.Status
	Duration uint16
}

// CastAtom records caster beginning s.
func CastAtom(side Side, caster int, s spell.Spell) Atom {
	return Atom{Kind: CastSpell, Actor: caster, Source: side, Spell: s}
}

// FizzleAtom records caster's s being interrupted.
func FizzleAtom(side Side, caster int, s spell.Spell) Atom {
	return Atom{Kind: FizzleSpell, Actor: caster, Source: side, Spell: s}
}

// EndAtom records caster's s completing its last effect.
func EndAtom(side Side, caster int, s spell.Spell) Atom {
	return Atom{Kind: SpellEnd, Actor: caster, Source: side, Spell: s}
}

// TickAtom schedules the 1-based effect index of s at the given progress.
func TickAtom(side Side, caster int, s spell.Spell, index uint8, progress uint32) Atom {
	return Atom{Kind: TickEffect, Actor: caster, Source: side, Spell: s, EffectIndex: index, Progress: progress}
}

// DamageAtom deals value damage of glyph from damager to damagee.
func DamageAtom(source Side, damager, damagee int, value uint16, glyph magic.Glyph) Atom {
	return Atom{Kind: Damage, Actor: damager, Subject: damagee, Source: source, Value: value, Glyph: glyph}
}

// HealAtom restores value hit points of healee.
func HealAtom(source Side, healer, healee int, value uint16) Atom {
	return Atom{Kind: Heal, Actor: healer, Subject: healee, Source: source, Value: value}
}

// IncurAtom inflicts s on statusee.
func IncurAtom(source Side, statuser, statusee int, s status.Status, value, duration uint16) Atom {
	return Atom{Kind: IncurStatus, Actor: statuser, Subject: statusee, Source: source, Status: s, Value: value, Duration: duration}
}

// LoseAtom clears s from statusee.
func LoseAtom(source Side, statuser, statusee int, s status.Status) Atom {
	return Atom{Kind: LoseStatus, Actor: statuser, Subject: statusee, Source: source, Status: s}
}

// KillAtom records killer bringing killed to zero hit points.
func KillAtom(source Side, killer, killed int) Atom {
	return Atom{Kind: Kill, Actor: killer, Subject: killed, Source: source}
}

// EventKind is the wire discriminant of an Event.
type EventKind uint8

const (
	WizardEvent EventKind = iota
	MonsterEvent
	Victory
	Defeat
)

// EventKindCount is the number of event kinds.
const EventKindCount = 4

func (k EventKind) String() string {
	switch k {
	case WizardEvent:
		return "wizard"
	case MonsterEvent:
		return "monster"
	case Victory:
		return "victory"
	case Defeat:
		return "defeat"
	}
	return fmt.Sprintf("event(%d)", uint8(k))
}

// Event is one entry of a tick: an Atom tagged with the roster it concerns,
// or a terminal Victory/Defeat.
type Event struct {
	Kind EventKind
	Atom Atom
}

// On tags a with side.
func On(side Side, a Atom) Event {
	return Event{Kind: EventKind(side), Atom: a}
}

// VictoryEvent ends the battle in the wizards' favour.
func VictoryEvent() Event { return Event{Kind: Victory} }

// DefeatEvent ends the battle in the monsters' favour.
func DefeatEvent() Event { return Event{Kind: Defeat} }

// IsTerminal reports whether e ends the battle.
func (e Event) IsTerminal() bool {
	return e.Kind == Victory || e.Kind == Defeat
}

// Side returns the roster an atom event is tagged with.
//
// Precondition: e is not terminal.
func (e Event) Side() Side {
	return Side(e.Kind)
}

func (e Event) String() string {
	if e.IsTerminal() {
		return e.Kind.String()
	}
	a := e.Atom
	switch {
	case a.Kind.IsCast():
		return fmt.Sprintf("%s[%d] %s %s", e.Kind, a.Actor, a.Kind, a.Spell.Name)
	case a.Kind == Kill:
		return fmt.Sprintf("%s[%d] killed by %s[%d]", e.Kind, a.Subject, a.Source, a.Actor)
	}
	return fmt.Sprintf("%s[%d] %s %d from %s[%d]", e.Kind, a.Subject, a.Kind, a.Value, a.Source, a.Actor)
}
