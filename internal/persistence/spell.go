package persistence

import (
	"github.com/cory-johannsen/arcana/internal/codec"
	"github.com/cory-johannsen/arcana/internal/game/spell"
)

// WriteSpell writes s: glyph, glyph power, style, style power, catalog index,
// then its ability.
func WriteSpell(w *codec.Writer, s spell.Spell) {
	WriteGlyph(w, s.Glyph)
	w.U16(s.GlyphPower)
	w.U8(uint8(s.Style))
	w.U16(s.StylePower)
	w.Int(s.Index)
	WriteAbility(w, s.Ability)
}

// ReadSpell reads a spell, restoring its id, name and learnability from the
// catalog entry at the stored index.
//
// Precondition: cat must not be nil.
func ReadSpell(r *codec.Reader, cat *spell.Catalog) (spell.Spell, error) {
	glyph, err := ReadGlyph(r, "spell.glyph")
	if err != nil {
		return spell.Spell{}, err
	}
	glyphPower, err := r.U16("spell.glyph_power")
	if err != nil {
		return spell.Spell{}, err
	}
	style, err := ReadStyle(r, "spell.style")
	if err != nil {
		return spell.Spell{}, err
	}
	stylePower, err := r.U16("spell.style_power")
	if err != nil {
		return spell.Spell{}, err
	}
	index, err := r.Int("spell.index")
	if err != nil {
		return spell.Spell{}, err
	}
	entry, ok := cat.Get(index)
	if !ok {
		return spell.Spell{}, codec.Invalid("spell.index", "no catalog entry at %d of %d", index, cat.Len())
	}
	ability, err := ReadAbility(r)
	if err != nil {
		return spell.Spell{}, err
	}
	return spell.Spell{
		ID:         entry.ID,
		Name:       entry.Name,
		Index:      index,
		Learnable:  entry.Learnable,
		Glyph:      glyph,
		GlyphPower: glyphPower,
		Style:      style,
		StylePower: stylePower,
		Ability:    ability,
	}, nil
}

// WriteAbility writes priorities (3 bytes), target type (2 bytes) and the
// effect progression.
func WriteAbility(w *codec.Writer, a spell.Ability) {
	w.U8(uint8(a.Priority.Combinator))
	w.U8(a.Priority.First.Code())
	if a.Priority.Combinator == spell.Single {
		w.U8(0)
	} else {
		w.U8(a.Priority.Second.Code())
	}
	w.U8(uint8(a.Target.Kind))
	w.U8(uint8(a.Target.Size()))
	w.U8(uint8(len(a.Effects)))
	for _, e := range a.Effects {
		WriteEffect(w, e)
	}
}

// ReadAbility reads an ability.
func ReadAbility(r *codec.Reader) (spell.Ability, error) {
	var a spell.Ability
	comb, err := r.U8("ability.priority")
	if err != nil {
		return a, err
	}
	if comb > uint8(spell.And) {
		return a, codec.Invalid("ability.priority", "unknown combinator %d", comb)
	}
	first, err := readPriority(r)
	if err != nil {
		return a, err
	}
	second, err := readPriority(r)
	if err != nil {
		return a, err
	}
	switch spell.Combinator(comb) {
	case spell.Or:
		a.Priority = spell.OrPriority(first, second)
	case spell.And:
		a.Priority = spell.AndPriority(first, second)
	default:
		a.Priority = spell.SinglePriority(first)
	}

	kind, err := r.U8("ability.target")
	if err != nil {
		return a, err
	}
	count, err := r.U8("ability.target.count")
	if err != nil {
		return a, err
	}
	switch spell.TargetKind(kind) {
	case spell.SelfOnly:
		a.Target = spell.Self()
	case spell.Ally:
		a.Target = spell.Allies(count)
	case spell.Enemy:
		a.Target = spell.Enemies(count)
	default:
		return a, codec.Invalid("ability.target", "unknown target kind %d", kind)
	}

	n, err := r.U8("ability.effects")
	if err != nil {
		return a, err
	}
	if n > spell.MaxEffects {
		return a, codec.Invalid("ability.effects", "unknown progression kind %d", n)
	}
	for i := uint8(0); i < n; i++ {
		e, err := ReadEffect(r)
		if err != nil {
			return a, err
		}
		a.Effects = append(a.Effects, e)
	}
	return a, nil
}

func readPriority(r *codec.Reader) (spell.Priority, error) {
	code, err := r.U8("ability.priority.type")
	if err != nil {
		return spell.Priority{}, err
	}
	p, err := spell.PriorityFromCode(code)
	if err != nil {
		return spell.Priority{}, codec.Invalid("ability.priority.type", "%v", err)
	}
	return p, nil
}

// WriteEffect writes magnitude, duration shape and application.
func WriteEffect(w *codec.Writer, e spell.Effect) {
	w.U16(e.Magnitude)
	w.U8(uint8(e.Duration.Kind))
	switch e.Duration.Kind {
	case spell.OverTime, spell.AfterXTime:
		w.U16(e.Duration.Length)
	case spell.Growth:
		w.U16(e.Duration.Length)
		w.U16(e.Duration.Step)
	}
	w.U8(uint8(e.Application.Kind))
	switch e.Application.Kind {
	case spell.ApplyStatus:
		w.U8(e.Application.Status.Code())
		w.U16(e.Application.StatusDuration)
	case spell.RemoveStatus:
		w.U8(e.Application.Status.Code())
	}
}

// ReadEffect reads one effect.
func ReadEffect(r *codec.Reader) (spell.Effect, error) {
	var e spell.Effect
	mag, err := r.U16("effect.magnitude")
	if err != nil {
		return e, err
	}
	e.Magnitude = mag

	kind, err := r.U8("effect.duration")
	if err != nil {
		return e, err
	}
	switch spell.DurationKind(kind) {
	case spell.Instant:
		e.Duration = spell.InstantDuration()
	case spell.OverTime, spell.AfterXTime:
		n, err := r.U16("effect.duration.length")
		if err != nil {
			return e, err
		}
		e.Duration = spell.Duration{Kind: spell.DurationKind(kind), Length: n}
	case spell.Growth:
		n, err := r.U16("effect.duration.length")
		if err != nil {
			return e, err
		}
		step, err := r.U16("effect.duration.step")
		if err != nil {
			return e, err
		}
		e.Duration = spell.GrowthDuration(n, step)
	default:
		return e, codec.Invalid("effect.duration", "unknown duration kind %d", kind)
	}

	app, err := r.U8("effect.application")
	if err != nil {
		return e, err
	}
	switch spell.ApplicationKind(app) {
	case spell.Damage:
		e.Application = spell.DamageApplication()
	case spell.Heal:
		e.Application = spell.HealApplication()
	case spell.ApplyStatus:
		s, err := ReadStatus(r, "effect.application.status")
		if err != nil {
			return e, err
		}
		d, err := r.U16("effect.application.duration")
		if err != nil {
			return e, err
		}
		e.Application = spell.StatusApplication(s, d)
	case spell.RemoveStatus:
		s, err := ReadStatus(r, "effect.application.status")
		if err != nil {
			return e, err
		}
		e.Application = spell.RemoveStatusApplication(s)
	default:
		return e, codec.Invalid("effect.application", "unknown application kind %d", app)
	}
	return e, nil
}
