// Package persistence encodes the colosseum registries, their battles and
// battle ticks in the little-endian roster file format.
package persistence

import (
	"github.com/cory-johannsen/arcana/internal/codec"
	"github.com/cory-johannsen/arcana/internal/game/magic"
	"github.com/cory-johannsen/arcana/internal/game/status"
)

// WriteGlyph writes g as one byte.
func WriteGlyph(w *codec.Writer, g magic.Glyph) { w.U8(uint8(g)) }

// ReadGlyph reads a glyph byte, rejecting unknown codes.
func ReadGlyph(r *codec.Reader, field string) (magic.Glyph, error) {
	b, err := r.U8(field)
	if err != nil {
		return 0, err
	}
	g := magic.Glyph(b)
	if !g.Valid() {
		return 0, codec.Invalid(field, "unknown glyph %d", b)
	}
	return g, nil
}

// ReadStyle reads a style byte, rejecting unknown codes.
func ReadStyle(r *codec.Reader, field string) (magic.Style, error) {
	b, err := r.U8(field)
	if err != nil {
		return 0, err
	}
	s := magic.Style(b)
	if !s.Valid() {
		return 0, codec.Invalid(field, "unknown style %d", b)
	}
	return s, nil
}

// ReadStatus reads a status code byte, rejecting unknown codes.
func ReadStatus(r *codec.Reader, field string) (status.Status, error) {
	b, err := r.U8(field)
	if err != nil {
		return 0, err
	}
	s, err := status.FromCode(b)
	if err != nil {
		return 0, codec.Invalid(field, "%v", err)
	}
	return s, nil
}

// WriteAffinity writes the five glyph scalars in glyph order.
func WriteAffinity(w *codec.Writer, a magic.Affinity) {
	for _, v := range a {
		w.U32(v)
	}
}

// ReadAffinity reads five glyph scalars.
func ReadAffinity(r *codec.Reader, field string) (magic.Affinity, error) {
	var a magic.Affinity
	for i := range a {
		v, err := r.U32(field)
		if err != nil {
			return magic.Affinity{}, err
		}
		a[i] = v
	}
	return a, nil
}

// WriteAcceptance writes the five style scalars in style order.
func WriteAcceptance(w *codec.Writer, a magic.Acceptance) {
	for _, v := range a.Values() {
		w.U32(v)
	}
}

// ReadAcceptance reads five style scalars and recomputes the highest style.
func ReadAcceptance(r *codec.Reader, field string) (magic.Acceptance, error) {
	var values [magic.StyleCount]uint32
	for i := range values {
		v, err := r.U32(field)
		if err != nil {
			return magic.Acceptance{}, err
		}
		values[i] = v
	}
	return magic.AcceptanceOf(values, magic.VoidStyle), nil
}

// WriteStatusSet writes every slot as (magnitude, duration) in code order.
func WriteStatusSet(w *codec.Writer, s *status.Set) {
	for _, st := range status.All() {
		e := s.Entry(st)
		w.U16(e.Magnitude)
		w.U16(e.Duration)
	}
}

// ReadStatusSet reads 14 status slots.
//
// Postcondition: Returns invalid data for a slot carrying a magnitude with
// zero duration.
func ReadStatusSet(r *codec.Reader, field string) (status.Set, error) {
	var set status.Set
	for _, st := range status.All() {
		mag, err := r.U16(field)
		if err != nil {
			return status.Set{}, err
		}
		dur, err := r.U16(field)
		if err != nil {
			return status.Set{}, err
		}
		if dur == 0 && mag != 0 {
			return status.Set{}, codec.Invalid(field, "%s has magnitude %d but no duration", st, mag)
		}
		set.Set(st, status.Entry{Magnitude: mag, Duration: dur})
	}
	return set, nil
}
