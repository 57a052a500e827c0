// Package status provides the closed catalog of timed combat statuses and the
// per-combatant StatusSet that tracks them.
package status

import (
	"fmt"

	"github.com/cory-johannsen/arcana/internal/game/magic"
)

// Status identifies one status slot. Its numeric value is the canonical status
// code used everywhere a status is stored or serialized.
type Status uint8

// Barrier statuses occupy codes 0..4, one per glyph in glyph order.
const (
	BarrierFire Status = iota
	BarrierWater
	BarrierEarth
	BarrierAir
	BarrierVoid
	Burning
	Stunned
	Submerged
	Shocked
	Weakened
	Raging
	Hardened
	Fluid
	Flying
)

// Count is the number of status slots.
const Count = 14

var names = [Count]string{
	"barrier_fire", "barrier_water", "barrier_earth", "barrier_air", "barrier_void",
	"burning", "stunned", "submerged", "shocked", "weakened",
	"raging", "hardened", "fluid", "flying",
}

// Barrier returns the barrier status keyed by g.
//
// Precondition: g must be a valid glyph.
func Barrier(g magic.Glyph) Status {
	return BarrierFire + Status(g)
}

// All returns every status in code order.
func All() []Status {
	out := make([]Status, Count)
	for i := range out {
		out[i] = Status(i)
	}
	return out
}

// Valid reports whether s is a known status code.
func (s Status) Valid() bool { return s < Count }

// IsBarrier reports whether s is one of the glyph-keyed barriers.
func (s Status) IsBarrier() bool { return s <= BarrierVoid }

// Glyph returns the glyph of a barrier status.
//
// Precondition: s.IsBarrier() is true.
func (s Status) Glyph() magic.Glyph {
	return magic.Glyph(s - BarrierFire)
}

// Code returns the canonical byte code of s.
func (s Status) Code() uint8 { return uint8(s) }

// FromCode maps a canonical byte code back to its Status.
func FromCode(code uint8) (Status, error) {
	if code >= Count {
		return 0, fmt.Errorf("unknown status code %d", code)
	}
	return Status(code), nil
}

func (s Status) String() string {
	if !s.Valid() {
		return fmt.Sprintf("status(%d)", uint8(s))
	}
	return names[s]
}

// Parse maps a status name such as "burning" or "barrier_earth" to its Status.
func Parse(name string) (Status, error) {
	for i, n := range names {
		if n == name {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", name)
}
