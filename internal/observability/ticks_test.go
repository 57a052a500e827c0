package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/arcana/internal/game/battle"
	"github.com/cory-johannsen/arcana/internal/game/slotmap"
	"github.com/cory-johannsen/arcana/internal/game/status"
)

func TestTickLogger_CountsTicksPerBattle(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewTickLogger(zap.New(core), nil)
	a := slotmap.Handle{Slot: 0, Generation: 1}
	b := slotmap.Handle{Slot: 1, Generation: 1}

	require.NoError(t, l.RecordTick(context.Background(), a, nil))
	require.NoError(t, l.RecordTick(context.Background(), b, []battle.Event{battle.VictoryEvent()}))
	require.NoError(t, l.RecordTick(context.Background(), a, []battle.Event{battle.DefeatEvent()}))

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "quiet tick", entries[0].Message)
	assert.Equal(t, int64(1), entries[1].ContextMap()["tick"])
	assert.Equal(t, b.String(), entries[1].ContextMap()["battle"])
	assert.Equal(t, int64(2), entries[2].ContextMap()["tick"])
	assert.Equal(t, "defeat", entries[2].ContextMap()["event"])
}

func TestTickLogger_StatusDisplayName(t *testing.T) {
	reg := status.NewRegistry()
	require.NoError(t, reg.Register(&status.Definition{ID: "burning", Name: "Burning"}))
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewTickLogger(zap.New(core), reg)

	tick := []battle.Event{
		battle.On(battle.Monsters, battle.IncurAtom(battle.Wizards, 0, 1, status.Burning, 2, 3)),
		battle.On(battle.Monsters, battle.LoseAtom(battle.Wizards, 0, 1, status.Stunned)),
	}
	require.NoError(t, l.RecordTick(context.Background(), slotmap.Handle{Generation: 1}, tick))
	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "Burning", entries[0].ContextMap()["status_name"])
	assert.Equal(t, "stunned", entries[1].ContextMap()["status_name"])
}

func TestTickLogger_SilentAboveDebug(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewTickLogger(zap.New(core), nil)
	require.NoError(t, l.RecordTick(context.Background(), slotmap.Handle{Generation: 1}, []battle.Event{battle.VictoryEvent()}))
	assert.Equal(t, 0, logs.Len())
}
