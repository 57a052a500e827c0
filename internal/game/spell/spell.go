// Package spell provides the ability data model (effects, priorities, target
// types) and the ordered spell catalog loaded from YAML.
package spell

import "github.com/cory-johannsen/arcana/internal/game/magic"

// Spell is immutable catalog data: a named ability tagged with an elemental
// glyph and a casting style, each with a power.
type Spell struct {
	// ID is the unique catalog key.
	ID string
	// Name is the display name; several spells may share one.
	Name string
	// Index is the position of the spell in the ordered catalog name table.
	Index int
	// Learnable marks spells a wizard may copy into a spellbook.
	Learnable  bool
	Glyph      magic.Glyph
	GlyphPower uint16
	Style      magic.Style
	StylePower uint16
	Ability    Ability
}

// WithStyle returns a copy of s re-tagged with style, keeping its style power.
func (s Spell) WithStyle(style magic.Style) Spell {
	out := s
	out.Style = style
	out.Ability.Effects = append([]Effect(nil), s.Ability.Effects...)
	return out
}

// Effect returns the effect at the 1-based index, or false if there is none.
func (s Spell) Effect(index uint8) (Effect, bool) {
	return s.Ability.Effect(index)
}

// Priorities returns the targeting preference in disjunctive form.
func (s Spell) Priorities() [][]Priority {
	return s.Ability.Priority.Disjuncts()
}
