package engine_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/arcana/internal/game/battle"
	"github.com/cory-johannsen/arcana/internal/game/colosseum"
	"github.com/cory-johannsen/arcana/internal/game/engine"
	"github.com/cory-johannsen/arcana/internal/game/magic"
	"github.com/cory-johannsen/arcana/internal/game/monster"
	"github.com/cory-johannsen/arcana/internal/game/slotmap"
	"github.com/cory-johannsen/arcana/internal/game/spell"
	"github.com/cory-johannsen/arcana/internal/game/wizard"
)

type recorded struct {
	battle slotmap.Handle
	tick   []battle.Event
}

type recordingSink struct {
	mu    sync.Mutex
	ticks []recorded
	err   error
}

func (s *recordingSink) RecordTick(_ context.Context, h slotmap.Handle, tick []battle.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticks = append(s.ticks, recorded{battle: h, tick: tick})
	return s.err
}

func (s *recordingSink) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ticks)
}

func missile() spell.Spell {
	return spell.Spell{
		ID: "missile", Name: "Missile", Glyph: magic.VoidGlyph, GlyphPower: 1,
		Ability: spell.Ability{
			Priority: spell.SinglePriority(spell.Priority{Kind: spell.Squishy}),
			Target:   spell.Enemies(1),
			Effects:  []spell.Effect{{Magnitude: 5, Duration: spell.InstantDuration(), Application: spell.DamageApplication()}},
		},
	}
}

// duel registers an armed wizard against a harmless goblin and returns their handles.
func duel(t *testing.T, e *engine.Engine, armed bool) (wh, mh slotmap.Handle) {
	t.Helper()
	require.NoError(t, e.With(func(active, _ *colosseum.Colosseum) error {
		w := wizard.New("Ada")
		if armed {
			i := w.AddSpellbook(wizard.NewSpellbook())
			if err := w.AddSpell(i, missile()); err != nil {
				return err
			}
		}
		wh = active.AddWizard(w)
		mh = active.AddMonster(monster.New("Snik", monster.Goblin, 1))
		return nil
	}))
	return wh, mh
}

func newEngine(t *testing.T, opts ...engine.Option) *engine.Engine {
	t.Helper()
	return engine.New(colosseum.New(nil), colosseum.New(nil), zap.NewNop(), opts...)
}

func TestEngine_RunToEndAndRetire(t *testing.T) {
	sink := &recordingSink{}
	e := newEngine(t, engine.WithSink(sink))
	wh, mh := duel(t, e, true)

	bh, err := e.Start([]slotmap.Handle{wh}, []slotmap.Handle{mh})
	require.NoError(t, err)

	ev, err := e.RunToEnd(context.Background(), bh)
	require.NoError(t, err)
	assert.Equal(t, battle.Victory, ev.Kind)

	_, err = e.Step(context.Background(), bh)
	assert.ErrorIs(t, err, engine.ErrBattleOver)

	require.NoError(t, e.With(func(active, _ *colosseum.Colosseum) error {
		b, err := active.Battle(bh)
		require.NoError(t, err)
		assert.Len(t, b.PastTicks, sink.len(), "every tick reaches the sink")
		return nil
	}))
	last := sink.ticks[len(sink.ticks)-1]
	assert.Equal(t, bh, last.battle)
	_, terminal := battle.Terminal(last.tick)
	assert.True(t, terminal)

	archived, err := e.Retire(bh)
	require.NoError(t, err)
	require.NoError(t, e.With(func(active, dead *colosseum.Colosseum) error {
		_, err := active.Battle(bh)
		assert.ErrorIs(t, err, colosseum.ErrStaleHandle)
		_, err = dead.Battle(archived)
		assert.NoError(t, err)
		return nil
	}))
}

func TestEngine_StartStaleHandle(t *testing.T) {
	e := newEngine(t)
	_, err := e.Start([]slotmap.Handle{{Slot: 3, Generation: 1}}, nil)
	assert.ErrorIs(t, err, colosseum.ErrStaleHandle)
}

func TestEngine_StepStaleHandle(t *testing.T) {
	e := newEngine(t)
	_, err := e.Step(context.Background(), slotmap.Handle{Slot: 0, Generation: 1})
	assert.ErrorIs(t, err, colosseum.ErrStaleHandle)
}

func TestEngine_RetireActiveBattle(t *testing.T) {
	e := newEngine(t)
	wh, mh := duel(t, e, true)
	bh, err := e.Start([]slotmap.Handle{wh}, []slotmap.Handle{mh})
	require.NoError(t, err)
	_, err = e.Retire(bh)
	assert.ErrorIs(t, err, colosseum.ErrBattleActive)
}

func TestEngine_Stalemate(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	e := engine.New(colosseum.New(nil), colosseum.New(nil), zap.New(core), engine.WithMaxTicks(5))
	wh, mh := duel(t, e, false)
	bh, err := e.Start([]slotmap.Handle{wh}, []slotmap.Handle{mh})
	require.NoError(t, err)

	_, err = e.RunToEnd(context.Background(), bh)
	assert.ErrorIs(t, err, battle.ErrStalemate)
	require.Equal(t, 1, logs.FilterMessage("battle stalemated").Len())
	assert.Equal(t, int64(5), logs.All()[0].ContextMap()["max_ticks"])
}

func TestEngine_SinkFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	sink := &recordingSink{err: errors.New("unavailable")}
	e := engine.New(colosseum.New(nil), colosseum.New(nil), zap.New(core), engine.WithSink(sink))
	wh, mh := duel(t, e, true)
	bh, err := e.Start([]slotmap.Handle{wh}, []slotmap.Handle{mh})
	require.NoError(t, err)

	tick, err := e.Step(context.Background(), bh)
	require.NoError(t, err)
	assert.NotEmpty(t, tick)
	entries := logs.FilterMessage("recording tick").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].ContextMap()["tick"])
}

func TestEngine_StepCancelled(t *testing.T) {
	e := newEngine(t)
	wh, mh := duel(t, e, true)
	bh, err := e.Start([]slotmap.Handle{wh}, []slotmap.Handle{mh})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Step(ctx, bh)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_ConcurrentBattles(t *testing.T) {
	e := newEngine(t)
	var handles []slotmap.Handle
	for i := 0; i < 4; i++ {
		wh, mh := duel(t, e, true)
		bh, err := e.Start([]slotmap.Handle{wh}, []slotmap.Handle{mh})
		require.NoError(t, err)
		handles = append(handles, bh)
	}

	var wg sync.WaitGroup
	results := make([]battle.Event, len(handles))
	errs := make([]error, len(handles))
	for i, bh := range handles {
		wg.Add(1)
		go func(i int, bh slotmap.Handle) {
			defer wg.Done()
			results[i], errs[i] = e.RunToEnd(context.Background(), bh)
		}(i, bh)
	}
	wg.Wait()
	for i := range handles {
		require.NoError(t, errs[i])
		assert.Equal(t, battle.Victory, results[i].Kind)
	}
}

func TestEngine_AutoplayPaced(t *testing.T) {
	sink := &recordingSink{}
	e := newEngine(t, engine.WithSink(sink))
	wh, mh := duel(t, e, true)
	bh, err := e.Start([]slotmap.Handle{wh}, []slotmap.Handle{mh})
	require.NoError(t, err)

	var seen int
	ev, err := e.Autoplay(context.Background(), bh, 2*time.Millisecond, func([]battle.Event) { seen++ })
	require.NoError(t, err)
	assert.Equal(t, battle.Victory, ev.Kind)
	assert.Equal(t, sink.len(), seen)
}

func TestEngine_AutoplayCancelled(t *testing.T) {
	e := newEngine(t)
	wh, mh := duel(t, e, false)
	bh, err := e.Start([]slotmap.Handle{wh}, []slotmap.Handle{mh})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = e.Autoplay(ctx, bh, time.Hour, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEngine_AutoplayResolvesNothingAfterCancel(t *testing.T) {
	sink := &recordingSink{}
	e := newEngine(t, engine.WithSink(sink))
	wh, mh := duel(t, e, false)
	bh, err := e.Start([]slotmap.Handle{wh}, []slotmap.Handle{mh})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, err = e.Autoplay(ctx, bh, time.Millisecond, func([]battle.Event) { cancel() })
	assert.ErrorIs(t, err, context.Canceled)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, sink.len(), "no tick resolves once Autoplay has returned")
}

func TestEngine_AutoplayStalemate(t *testing.T) {
	e := newEngine(t, engine.WithMaxTicks(3))
	wh, mh := duel(t, e, false)
	bh, err := e.Start([]slotmap.Handle{wh}, []slotmap.Handle{mh})
	require.NoError(t, err)

	_, err = e.Autoplay(context.Background(), bh, time.Millisecond, nil)
	assert.ErrorIs(t, err, battle.ErrStalemate)
}

// Property: an unarmed battle never concludes and RunToEnd resolves exactly
// the configured number of ticks before reporting a stalemate.
func TestPropertyStalemateAfterMaxTicks(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		limit := rapid.IntRange(1, 40).Draw(rt, "max_ticks")
		sink := &recordingSink{}
		e := engine.New(colosseum.New(nil), colosseum.New(nil), zap.NewNop(),
			engine.WithMaxTicks(limit), engine.WithSink(sink))
		wh, mh := duel(t, e, false)
		bh, err := e.Start([]slotmap.Handle{wh}, []slotmap.Handle{mh})
		if err != nil {
			rt.Fatalf("start: %v", err)
		}
		if _, err := e.RunToEnd(context.Background(), bh); !errors.Is(err, battle.ErrStalemate) {
			rt.Fatalf("expected stalemate, got %v", err)
		}
		if sink.len() != limit {
			rt.Fatalf("recorded %d ticks, want %d", sink.len(), limit)
		}
	})
}
