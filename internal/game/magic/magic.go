// Package magic provides the elemental Glyph and casting Style enumerations and
// the per-combatant Affinity and Acceptance vectors built on them.
package magic

import (
	"fmt"
	"math"
)

// Glyph is the elemental tag of a spell or affinity slot.
type Glyph uint8

const (
	Fire Glyph = iota
	Water
	Earth
	Air
	VoidGlyph
)

// GlyphCount is the number of glyphs.
const GlyphCount = 5

var glyphNames = [GlyphCount]string{"fire", "water", "earth", "air", "void"}

// Glyphs returns every glyph in code order.
func Glyphs() []Glyph {
	return []Glyph{Fire, Water, Earth, Air, VoidGlyph}
}

// Valid reports whether g is one of the five glyphs.
func (g Glyph) Valid() bool { return g < GlyphCount }

func (g Glyph) String() string {
	if !g.Valid() {
		return fmt.Sprintf("glyph(%d)", uint8(g))
	}
	return glyphNames[g]
}

// ParseGlyph maps a lower-case glyph name to its Glyph.
func ParseGlyph(name string) (Glyph, error) {
	for i, n := range glyphNames {
		if n == name {
			return Glyph(i), nil
		}
	}
	return 0, fmt.Errorf("unknown glyph %q", name)
}

// Style is the casting-school tag of a spell or acceptance slot.
type Style uint8

const (
	Elder Style = iota
	Arcane
	Ancient
	Eldrich
	VoidStyle
)

// StyleCount is the number of styles.
const StyleCount = 5

var styleNames = [StyleCount]string{"elder", "arcane", "ancient", "eldrich", "void"}

// Valid reports whether s is one of the five styles.
func (s Style) Valid() bool { return s < StyleCount }

func (s Style) String() string {
	if !s.Valid() {
		return fmt.Sprintf("style(%d)", uint8(s))
	}
	return styleNames[s]
}

// ParseStyle maps a lower-case style name to its Style.
func ParseStyle(name string) (Style, error) {
	for i, n := range styleNames {
		if n == name {
			return Style(i), nil
		}
	}
	return 0, fmt.Errorf("unknown style %q", name)
}

// Affinity holds one scalar per glyph. The same vector serves as outgoing
// augmentation and incoming resistance.
type Affinity [GlyphCount]uint32

// Get returns the affinity for g.
func (a Affinity) Get(g Glyph) uint32 { return a[g] }

// Set stores v for g.
func (a *Affinity) Set(g Glyph, v uint32) { a[g] = v }

// Value16 returns the affinity for g saturated to the 16-bit width used by
// effect arithmetic.
func (a Affinity) Value16(g Glyph) uint16 {
	if a[g] > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(a[g])
}

// Acceptance holds one scalar per style plus the cached highest style.
//
// Invariant: Highest() always equals the argmax over the five scalars; on a
// tie the previously cached style is kept.
type Acceptance struct {
	values  [StyleCount]uint32
	highest Style
}

// NewAcceptance returns a zeroed Acceptance whose highest style is Void.
func NewAcceptance() Acceptance {
	return Acceptance{highest: VoidStyle}
}

// AcceptanceOf builds an Acceptance from raw values, keeping highest as the
// starting point of the argmax.
//
// Precondition: highest must be a valid Style.
func AcceptanceOf(values [StyleCount]uint32, highest Style) Acceptance {
	a := Acceptance{values: values, highest: highest}
	a.recompute()
	return a
}

// Get returns the acceptance for s.
func (a Acceptance) Get(s Style) uint32 { return a.values[s] }

// Values returns a copy of the five scalars.
func (a Acceptance) Values() [StyleCount]uint32 { return a.values }

// Highest returns the cached dominant style.
func (a Acceptance) Highest() Style { return a.highest }

// Set stores v for s and recomputes the dominant style.
//
// Postcondition: Highest() is the argmax, ties keeping the previous value.
func (a *Acceptance) Set(s Style, v uint32) {
	a.values[s] = v
	a.recompute()
}

// Add increases the acceptance for s, saturating at the uint32 maximum.
func (a *Acceptance) Add(s Style, v uint32) {
	sum := uint64(a.values[s]) + uint64(v)
	if sum > uint64(^uint32(0)) {
		sum = uint64(^uint32(0))
	}
	a.Set(s, uint32(sum))
}

func (a *Acceptance) recompute() {
	best := a.highest
	if !best.Valid() {
		best = VoidStyle
	}
	for i, v := range a.values {
		if v > a.values[best] {
			best = Style(i)
		}
	}
	a.highest = best
}

// Equal reports whether a and b hold the same five scalars. The cached
// highest style is derived state and is not compared.
func (a Acceptance) Equal(b Acceptance) bool {
	return a.values == b.values
}
