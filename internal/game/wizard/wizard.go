// Package wizard provides player-controlled combatants and their spellbooks.
package wizard

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/arcana/internal/game/magic"
	"github.com/cory-johannsen/arcana/internal/game/spell"
	"github.com/cory-johannsen/arcana/internal/game/status"
)

// DefaultMaxHP is the hit point pool of a newly created wizard.
const DefaultMaxHP = 100

// ErrNoSpellbook is returned when a spellbook index is out of range.
var ErrNoSpellbook = errors.New("no such spellbook")

// Spellbook is an authored spell list. Its Affinity is added to the owner's
// augmentation while it is selected.
type Spellbook struct {
	Affinity   magic.Affinity
	Acceptance magic.Acceptance
	Spells     []spell.Spell
}

// NewSpellbook returns an empty spellbook with zero affinity.
func NewSpellbook() Spellbook {
	return Spellbook{Acceptance: magic.NewAcceptance()}
}

// Wizard is a player-controlled combatant.
type Wizard struct {
	Name       string
	HP         uint32
	MaxHP      uint32
	Status     status.Set
	Affinity   magic.Affinity
	Acceptance magic.Acceptance
	Spellbooks []Spellbook
	Selected   int
}

// New creates a wizard at full health with no spellbooks.
//
// Postcondition: HP == MaxHP == DefaultMaxHP; Highest acceptance is Void.
func New(name string) *Wizard {
	return &Wizard{
		Name:       name,
		HP:         DefaultMaxHP,
		MaxHP:      DefaultMaxHP,
		Acceptance: magic.NewAcceptance(),
	}
}

// AddSpellbook appends b and returns its index.
func (w *Wizard) AddSpellbook(b Spellbook) int {
	w.Spellbooks = append(w.Spellbooks, b)
	return len(w.Spellbooks) - 1
}

// Select makes spellbook i the active one.
//
// Postcondition: Returns ErrNoSpellbook if i is out of range; Selected is unchanged on error.
func (w *Wizard) Select(i int) error {
	if i < 0 || i >= len(w.Spellbooks) {
		return fmt.Errorf("selecting spellbook %d of %d: %w", i, len(w.Spellbooks), ErrNoSpellbook)
	}
	w.Selected = i
	return nil
}

// SelectedSpellbook returns the active spellbook, or false if the wizard has none.
func (w *Wizard) SelectedSpellbook() (*Spellbook, bool) {
	if w.Selected < 0 || w.Selected >= len(w.Spellbooks) {
		return nil, false
	}
	return &w.Spellbooks[w.Selected], true
}

// AddSpell appends s to spellbook i.
func (w *Wizard) AddSpell(i int, s spell.Spell) error {
	if i < 0 || i >= len(w.Spellbooks) {
		return fmt.Errorf("adding %q to spellbook %d: %w", s.Name, i, ErrNoSpellbook)
	}
	w.Spellbooks[i].Spells = append(w.Spellbooks[i].Spells, s)
	return nil
}

// Spells returns the spells of the active spellbook, or nil without one.
func (w *Wizard) Spells() []spell.Spell {
	b, ok := w.SelectedSpellbook()
	if !ok {
		return nil
	}
	return b.Spells
}

// CastAffinity returns the active spellbook's affinity, or zero without one.
func (w *Wizard) CastAffinity() magic.Affinity {
	b, ok := w.SelectedSpellbook()
	if !ok {
		return magic.Affinity{}
	}
	return b.Affinity
}

// IsDead reports whether the wizard has no hit points left.
func (w *Wizard) IsDead() bool {
	return w.HP == 0
}

// Vitals returns the current and maximum hit points.
func (w *Wizard) Vitals() (hp, maxHP uint32) { return w.HP, w.MaxHP }

// SetHP stores hp verbatim; callers clamp.
func (w *Wizard) SetHP(hp uint32) { w.HP = hp }

// Statuses returns the live status set.
func (w *Wizard) Statuses() *status.Set { return &w.Status }

// Attunement returns the innate affinity, used both as augmentation and resistance.
func (w *Wizard) Attunement() magic.Affinity { return w.Affinity }

// Clone returns a deep copy of w.
func (w *Wizard) Clone() *Wizard {
	out := *w
	out.Spellbooks = make([]Spellbook, len(w.Spellbooks))
	for i, b := range w.Spellbooks {
		b.Spells = append([]spell.Spell(nil), b.Spells...)
		out.Spellbooks[i] = b
	}
	return &out
}
