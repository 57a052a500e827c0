package persistence_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/arcana/internal/codec"
	"github.com/cory-johannsen/arcana/internal/game/battle"
	"github.com/cory-johannsen/arcana/internal/game/magic"
	"github.com/cory-johannsen/arcana/internal/game/spell"
	"github.com/cory-johannsen/arcana/internal/game/status"
	"github.com/cory-johannsen/arcana/internal/persistence"
)

func genEvent(cat *spell.Catalog) *rapid.Generator[battle.Event] {
	return rapid.Custom(func(t *rapid.T) battle.Event {
		kind := rapid.IntRange(0, battle.AtomKindCount+1).Draw(t, "kind")
		switch kind {
		case battle.AtomKindCount:
			return battle.VictoryEvent()
		case battle.AtomKindCount + 1:
			return battle.DefeatEvent()
		}
		side := battle.Side(rapid.IntRange(0, 1).Draw(t, "side"))
		src := battle.Side(rapid.IntRange(0, 1).Draw(t, "source"))
		actor := rapid.IntRange(0, 64).Draw(t, "actor")
		subject := rapid.IntRange(0, 64).Draw(t, "subject")
		value := rapid.Uint16().Draw(t, "value")
		var a battle.Atom
		switch battle.AtomKind(kind) {
		case battle.CastSpell:
			a = battle.CastAtom(side, actor, genSpell(cat).Draw(t, "spell"))
		case battle.FizzleSpell:
			a = battle.FizzleAtom(side, actor, genSpell(cat).Draw(t, "spell"))
		case battle.SpellEnd:
			a = battle.EndAtom(side, actor, genSpell(cat).Draw(t, "spell"))
		case battle.TickEffect:
			a = battle.TickAtom(side, actor, genSpell(cat).Draw(t, "spell"),
				rapid.Uint8().Draw(t, "index"), rapid.Uint32().Draw(t, "progress"))
		case battle.Damage:
			a = battle.DamageAtom(src, actor, subject, value, magic.Glyph(rapid.IntRange(0, 4).Draw(t, "glyph")))
		case battle.Heal:
			a = battle.HealAtom(src, actor, subject, value)
		case battle.IncurStatus:
			a = battle.IncurAtom(src, actor, subject, genStatus().Draw(t, "status"), value, rapid.Uint16().Draw(t, "duration"))
		case battle.LoseStatus:
			a = battle.LoseAtom(src, actor, subject, genStatus().Draw(t, "status"))
		default:
			a = battle.KillAtom(src, actor, subject)
		}
		return battle.On(side, a)
	})
}

func TestPropertyTickRoundTrip(t *testing.T) {
	cat := testCatalog(t)
	rapid.Check(t, func(t *rapid.T) {
		tick := rapid.SliceOfN(genEvent(cat), 1, 12).Draw(t, "tick")
		got, err := persistence.DecodeTick(persistence.EncodeTick(tick), cat)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		assert.Equal(t, tick, got)
	})
}

func TestDecodeTick_Empty(t *testing.T) {
	got, err := persistence.DecodeTick(persistence.EncodeTick(nil), testCatalog(t))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestWriteEvent_Layout(t *testing.T) {
	w := codec.NewWriter(0)
	persistence.WriteEvent(w, battle.On(battle.Monsters, battle.DamageAtom(battle.Wizards, 1, 2, 7, magic.Air)))
	assert.Equal(t, []byte{
		1,    // monster-side event
		4,    // damage
		0,    // dealt by the wizard roster
		1, 0, 0, 0, 0, 0, 0, 0, // damager
		2, 0, 0, 0, 0, 0, 0, 0, // damagee
		7, 0, // value
		3, // air
	}, w.Bytes())

	w = codec.NewWriter(0)
	persistence.WriteEvent(w, battle.DefeatEvent())
	assert.Equal(t, []byte{3}, w.Bytes())
}

func TestDecodeTick_RejectsBadDiscriminants(t *testing.T) {
	cat := testCatalog(t)
	tick := []battle.Event{battle.On(battle.Wizards, battle.IncurAtom(battle.Monsters, 0, 1, status.Shocked, 2, 3))}
	raw := persistence.EncodeTick(tick)
	// count(8), event, atom, source, actor(8), subject(8), status
	cases := map[string]struct {
		offset int
		value  byte
	}{
		"event":  {8, 4},
		"atom":   {9, 9},
		"source": {10, 2},
		"status": {27, 14},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			bad := append([]byte(nil), raw...)
			bad[tc.offset] = tc.value
			_, err := persistence.DecodeTick(bad, cat)
			assert.ErrorIs(t, err, codec.ErrInvalidData)
		})
	}
	_, err := persistence.DecodeTick(append(raw, 0), cat)
	assert.ErrorIs(t, err, codec.ErrInvalidData, "trailing bytes")
}
