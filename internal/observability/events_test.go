package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/arcana/internal/game/battle"
	"github.com/cory-johannsen/arcana/internal/game/magic"
	"github.com/cory-johannsen/arcana/internal/game/spell"
	"github.com/cory-johannsen/arcana/internal/game/status"
)

func logged(t *testing.T, e battle.Event) map[string]interface{} {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	zap.New(core).Debug("tick", EventFields(e)...)
	require.Equal(t, 1, logs.Len())
	return logs.All()[0].ContextMap()
}

func TestEventFields_Terminal(t *testing.T) {
	fields := logged(t, battle.VictoryEvent())
	assert.Equal(t, map[string]interface{}{"event": "victory"}, fields)
}

func TestEventFields_Damage(t *testing.T) {
	e := battle.On(battle.Monsters, battle.DamageAtom(battle.Wizards, 1, 2, 7, magic.Earth))
	fields := logged(t, e)
	assert.Equal(t, "monster", fields["event"])
	assert.Equal(t, "damage", fields["atom"])
	assert.Equal(t, int64(1), fields["actor"])
	assert.Equal(t, int64(2), fields["subject"])
	assert.Equal(t, uint16(7), fields["value"])
	assert.Equal(t, "earth", fields["glyph"])
	assert.Equal(t, "wizards", fields["source"])
}

func TestEventFields_TickAndStatus(t *testing.T) {
	s := spell.Spell{ID: "burn"}
	fields := logged(t, battle.On(battle.Wizards, battle.TickAtom(battle.Wizards, 0, s, 2, 3)))
	assert.Equal(t, "burn", fields["spell"])
	assert.Equal(t, uint8(2), fields["effect"])
	assert.Equal(t, uint32(3), fields["progress"])

	fields = logged(t, battle.On(battle.Wizards, battle.IncurAtom(battle.Monsters, 0, 0, status.Burning, 2, 4)))
	assert.Equal(t, "burning", fields["status"])
	assert.Equal(t, uint16(4), fields["duration"])
}
