package persistence

import (
	"github.com/cory-johannsen/arcana/internal/codec"
	"github.com/cory-johannsen/arcana/internal/game/battle"
	"github.com/cory-johannsen/arcana/internal/game/spell"
)

// WriteEvent writes the event byte followed, for atom events, by the atom.
//
// Mutation and Kill atoms carry the source roster byte right after the atom
// byte; cast atoms take their source from the event side.
func WriteEvent(w *codec.Writer, e battle.Event) {
	w.U8(uint8(e.Kind))
	if e.IsTerminal() {
		return
	}
	a := e.Atom
	w.U8(uint8(a.Kind))
	if !a.Kind.IsCast() {
		w.U8(uint8(a.Source))
	}
	w.Int(a.Actor)
	switch a.Kind {
	case battle.CastSpell, battle.FizzleSpell, battle.SpellEnd:
		WriteSpell(w, a.Spell)
	case battle.TickEffect:
		WriteSpell(w, a.Spell)
		w.U8(a.EffectIndex)
		w.U32(a.Progress)
	case battle.Damage:
		w.Int(a.Subject)
		w.U16(a.Value)
		WriteGlyph(w, a.Glyph)
	case battle.Heal:
		w.Int(a.Subject)
		w.U16(a.Value)
	case battle.IncurStatus:
		w.Int(a.Subject)
		w.U8(a.Status.Code())
		w.U16(a.Value)
		w.U16(a.Duration)
	case battle.LoseStatus:
		w.Int(a.Subject)
		w.U8(a.Status.Code())
	case battle.Kill:
		w.Int(a.Subject)
	}
}

// ReadEvent reads one event.
func ReadEvent(r *codec.Reader, cat *spell.Catalog) (battle.Event, error) {
	kind, err := r.U8("event")
	if err != nil {
		return battle.Event{}, err
	}
	switch battle.EventKind(kind) {
	case battle.Victory:
		return battle.VictoryEvent(), nil
	case battle.Defeat:
		return battle.DefeatEvent(), nil
	case battle.WizardEvent, battle.MonsterEvent:
	default:
		return battle.Event{}, codec.Invalid("event", "unknown event kind %d", kind)
	}
	side := battle.Side(kind)
	a, err := readAtom(r, side, cat)
	if err != nil {
		return battle.Event{}, err
	}
	return battle.On(side, a), nil
}

func readAtom(r *codec.Reader, side battle.Side, cat *spell.Catalog) (battle.Atom, error) {
	var a battle.Atom
	kind, err := r.U8("atom")
	if err != nil {
		return a, err
	}
	a.Kind = battle.AtomKind(kind)
	if a.Kind >= battle.AtomKindCount {
		return a, codec.Invalid("atom", "unknown atom kind %d", kind)
	}
	a.Source = side
	if !a.Kind.IsCast() {
		src, err := r.U8("atom.source")
		if err != nil {
			return a, err
		}
		if src > uint8(battle.Monsters) {
			return a, codec.Invalid("atom.source", "unknown side %d", src)
		}
		a.Source = battle.Side(src)
	}
	if a.Actor, err = r.Int("atom.actor"); err != nil {
		return a, err
	}
	if a.Kind.IsCast() {
		if a.Spell, err = ReadSpell(r, cat); err != nil {
			return a, err
		}
		if a.Kind == battle.TickEffect {
			if a.EffectIndex, err = r.U8("atom.effect_index"); err != nil {
				return a, err
			}
			if a.Progress, err = r.U32("atom.progress"); err != nil {
				return a, err
			}
		}
		return a, nil
	}
	if a.Subject, err = r.Int("atom.subject"); err != nil {
		return a, err
	}
	switch a.Kind {
	case battle.Damage:
		if a.Value, err = r.U16("atom.damage"); err != nil {
			return a, err
		}
		a.Glyph, err = ReadGlyph(r, "atom.glyph")
	case battle.Heal:
		a.Value, err = r.U16("atom.heal")
	case battle.IncurStatus:
		if a.Status, err = ReadStatus(r, "atom.status"); err != nil {
			return a, err
		}
		if a.Value, err = r.U16("atom.status.value"); err != nil {
			return a, err
		}
		a.Duration, err = r.U16("atom.status.duration")
	case battle.LoseStatus:
		a.Status, err = ReadStatus(r, "atom.status")
	}
	return a, err
}

// WriteTick writes the event count followed by every event.
func WriteTick(w *codec.Writer, tick []battle.Event) {
	w.Int(len(tick))
	for _, e := range tick {
		WriteEvent(w, e)
	}
}

// ReadTick reads a tick written by WriteTick. An empty tick decodes as nil.
func ReadTick(r *codec.Reader, cat *spell.Catalog) ([]battle.Event, error) {
	n, err := r.Count("tick", 1)
	if err != nil {
		return nil, err
	}
	var tick []battle.Event
	for i := 0; i < n; i++ {
		e, err := ReadEvent(r, cat)
		if err != nil {
			return nil, err
		}
		tick = append(tick, e)
	}
	return tick, nil
}

// EncodeTick encodes one tick as a standalone buffer.
func EncodeTick(tick []battle.Event) []byte {
	w := codec.NewWriter(64 * (len(tick) + 1))
	WriteTick(w, tick)
	return w.Bytes()
}

// DecodeTick decodes a buffer produced by EncodeTick.
//
// Postcondition: Returns invalid data for malformed or trailing input.
func DecodeTick(data []byte, cat *spell.Catalog) ([]battle.Event, error) {
	r := codec.NewReader(data)
	tick, err := ReadTick(r, cat)
	if err != nil {
		return nil, err
	}
	if err := r.Done("tick"); err != nil {
		return nil, err
	}
	return tick, nil
}
