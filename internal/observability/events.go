package observability

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/arcana/internal/game/battle"
)

// EventFields renders a battle event as structured log fields.
//
// Postcondition: the first field is always "event"; terminal events carry no others.
func EventFields(e battle.Event) []zap.Field {
	fields := []zap.Field{zap.Stringer("event", e.Kind)}
	if e.IsTerminal() {
		return fields
	}
	a := e.Atom
	fields = append(fields,
		zap.Stringer("atom", a.Kind),
		zap.Int("actor", a.Actor),
		zap.Stringer("source", a.Source),
	)
	switch {
	case a.Kind.IsCast():
		fields = append(fields, zap.String("spell", a.Spell.ID))
		if a.Kind == battle.TickEffect {
			fields = append(fields, zap.Uint8("effect", a.EffectIndex), zap.Uint32("progress", a.Progress))
		}
	case a.Kind == battle.Kill:
		fields = append(fields, zap.Int("subject", a.Subject))
	default:
		fields = append(fields, zap.Int("subject", a.Subject), zap.Uint16("value", a.Value))
		switch a.Kind {
		case battle.Damage:
			fields = append(fields, zap.Stringer("glyph", a.Glyph))
		case battle.IncurStatus:
			fields = append(fields, zap.Stringer("status", a.Status), zap.Uint16("duration", a.Duration))
		case battle.LoseStatus:
			fields = append(fields, zap.Stringer("status", a.Status))
		}
	}
	return fields
}
