package persistence_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/arcana/internal/game/magic"
	"github.com/cory-johannsen/arcana/internal/game/monster"
	"github.com/cory-johannsen/arcana/internal/game/spell"
	"github.com/cory-johannsen/arcana/internal/game/status"
	"github.com/cory-johannsen/arcana/internal/persistence"
)

func testCatalog(t *testing.T) *spell.Catalog {
	t.Helper()
	cat, err := spell.NewCatalog([]spell.Spell{
		{
			ID: "ember", Name: "Ember", Index: 0, Learnable: true,
			Glyph: magic.Fire, GlyphPower: 1, Style: magic.Elder, StylePower: 2,
			Ability: spell.Ability{
				Priority: spell.SinglePriority(spell.Priority{Kind: spell.Squishy}),
				Target:   spell.Enemies(1),
				Effects: []spell.Effect{
					{Magnitude: 4, Duration: spell.InstantDuration(), Application: spell.DamageApplication()},
					{Magnitude: 2, Duration: spell.OverTimeDuration(2), Application: spell.StatusApplication(status.Burning, 3)},
				},
			},
		},
		{
			ID: "mend", Name: "Mend", Index: 1, Learnable: true,
			Glyph: magic.Water, GlyphPower: 2, Style: magic.Arcane, StylePower: 1,
			Ability: spell.Ability{
				Priority: spell.OrPriority(spell.Priority{Kind: spell.LowHealth}, spell.Priority{Kind: spell.HasStatus, Status: status.Burning}),
				Target:   spell.Allies(2),
				Effects: []spell.Effect{
					{Magnitude: 6, Duration: spell.GrowthDuration(3, 1), Application: spell.HealApplication()},
				},
			},
		},
		{
			ID: "bite", Name: "Bite", Index: 2,
			Glyph: magic.Earth, GlyphPower: 1, Style: magic.VoidStyle, StylePower: 1,
			Ability: spell.Ability{
				Priority: spell.AndPriority(spell.Priority{Kind: spell.Tanky}, spell.Priority{Kind: spell.NoStatus, Status: status.BarrierAir}),
				Target:   spell.Enemies(1),
				Effects: []spell.Effect{
					{Magnitude: 3, Duration: spell.InstantDuration(), Application: spell.DamageApplication()},
				},
			},
		},
		{
			ID: "cleanse", Name: "Cleanse", Index: 3,
			Glyph: magic.Air, GlyphPower: 1, Style: magic.Ancient, StylePower: 3,
			Ability: spell.Ability{
				Priority: spell.SinglePriority(spell.Priority{Kind: spell.HasStatus, Status: status.Stunned}),
				Target:   spell.Self(),
				Effects: []spell.Effect{
					{Magnitude: 0, Duration: spell.AfterXTimeDuration(1), Application: spell.RemoveStatusApplication(status.Stunned)},
				},
			},
		},
	})
	require.NoError(t, err)
	return cat
}

func testBestiary(t *testing.T, cat *spell.Catalog) *monster.Bestiary {
	t.Helper()
	bite, err := cat.ByID("bite")
	require.NoError(t, err)
	b := monster.NewBestiary()
	b.Set(monster.Goblin, []spell.Spell{bite})
	return b
}

func testCodec(t *testing.T) *persistence.Codec {
	t.Helper()
	cat := testCatalog(t)
	return persistence.NewCodec(cat, testBestiary(t, cat))
}

func genStatus() *rapid.Generator[status.Status] {
	return rapid.Custom(func(t *rapid.T) status.Status {
		return status.Status(rapid.IntRange(0, status.Count-1).Draw(t, "status"))
	})
}

func genPriority() *rapid.Generator[spell.Priority] {
	return rapid.Custom(func(t *rapid.T) spell.Priority {
		kind := spell.PriorityKind(rapid.IntRange(0, int(spell.NoStatus)).Draw(t, "kind"))
		p := spell.Priority{Kind: kind}
		if kind == spell.HasStatus || kind == spell.NoStatus {
			p.Status = genStatus().Draw(t, "status")
		}
		return p
	})
}

func genEffect() *rapid.Generator[spell.Effect] {
	return rapid.Custom(func(t *rapid.T) spell.Effect {
		e := spell.Effect{Magnitude: rapid.Uint16().Draw(t, "magnitude")}
		n := rapid.Uint16().Draw(t, "length")
		switch rapid.IntRange(0, 3).Draw(t, "duration") {
		case 0:
			e.Duration = spell.OverTimeDuration(n)
		case 1:
			e.Duration = spell.GrowthDuration(n, rapid.Uint16().Draw(t, "step"))
		case 2:
			e.Duration = spell.AfterXTimeDuration(n)
		default:
			e.Duration = spell.InstantDuration()
		}
		switch rapid.IntRange(0, 3).Draw(t, "application") {
		case 0:
			e.Application = spell.DamageApplication()
		case 1:
			e.Application = spell.HealApplication()
		case 2:
			e.Application = spell.StatusApplication(genStatus().Draw(t, "status"), rapid.Uint16().Draw(t, "status_duration"))
		default:
			e.Application = spell.RemoveStatusApplication(genStatus().Draw(t, "status"))
		}
		return e
	})
}

func genAbility() *rapid.Generator[spell.Ability] {
	return rapid.Custom(func(t *rapid.T) spell.Ability {
		var a spell.Ability
		p1, p2 := genPriority().Draw(t, "p1"), genPriority().Draw(t, "p2")
		switch rapid.IntRange(0, 2).Draw(t, "combinator") {
		case 0:
			a.Priority = spell.SinglePriority(p1)
		case 1:
			a.Priority = spell.OrPriority(p1, p2)
		default:
			a.Priority = spell.AndPriority(p1, p2)
		}
		n := rapid.Uint8().Draw(t, "count")
		switch rapid.IntRange(0, 2).Draw(t, "target") {
		case 0:
			a.Target = spell.Self()
		case 1:
			a.Target = spell.Allies(n)
		default:
			a.Target = spell.Enemies(n)
		}
		a.Effects = rapid.SliceOfN(genEffect(), 0, spell.MaxEffects).Draw(t, "effects")
		if len(a.Effects) == 0 {
			a.Effects = nil
		}
		return a
	})
}

// genSpell draws a spell whose identity comes from cat and whose tagging and
// ability are arbitrary.
func genSpell(cat *spell.Catalog) *rapid.Generator[spell.Spell] {
	return rapid.Custom(func(t *rapid.T) spell.Spell {
		s, _ := cat.Get(rapid.IntRange(0, cat.Len()-1).Draw(t, "index"))
		s.Glyph = magic.Glyph(rapid.IntRange(0, magic.GlyphCount-1).Draw(t, "glyph"))
		s.GlyphPower = rapid.Uint16().Draw(t, "glyph_power")
		s.Style = magic.Style(rapid.IntRange(0, magic.StyleCount-1).Draw(t, "style"))
		s.StylePower = rapid.Uint16().Draw(t, "style_power")
		s.Ability = genAbility().Draw(t, "ability")
		return s
	})
}
