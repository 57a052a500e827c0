// Package engine serializes access to a colosseum and drives its battles.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arcana/internal/game/battle"
	"github.com/cory-johannsen/arcana/internal/game/colosseum"
	"github.com/cory-johannsen/arcana/internal/game/slotmap"
)

// ErrBattleOver is returned when stepping a battle that already concluded.
var ErrBattleOver = errors.New("battle is over")

// DefaultMaxTicks bounds RunToEnd and Autoplay when no limit is configured.
const DefaultMaxTicks = 1000

// TickSink receives every tick the engine resolves.
type TickSink interface {
	RecordTick(ctx context.Context, h slotmap.Handle, tick []battle.Event) error
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxTicks bounds how many ticks RunToEnd and Autoplay attempt.
// Non-positive values are ignored.
func WithMaxTicks(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxTicks = n
		}
	}
}

// WithSink adds a sink that receives every resolved tick, in registration order.
func WithSink(s TickSink) Option {
	return func(e *Engine) { e.sinks = append(e.sinks, s) }
}

// Engine owns an active and a dead colosseum and is safe for concurrent use.
type Engine struct {
	mu       sync.Mutex
	active   *colosseum.Colosseum
	dead     *colosseum.Colosseum
	logger   *zap.Logger
	maxTicks int
	sinks    []TickSink
}

// New creates an Engine over the given registries.
//
// Precondition: active and dead must be distinct and non-nil; logger must be non-nil.
// Postcondition: Returns an Engine that owns both registries.
func New(active, dead *colosseum.Colosseum, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		active:   active,
		dead:     dead,
		logger:   logger,
		maxTicks: DefaultMaxTicks,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// With runs fn while holding the engine lock. Callers use it to register
// combatants or to read both registries consistently, e.g. for saving.
//
// Postcondition: Returns fn's error.
func (e *Engine) With(fn func(active, dead *colosseum.Colosseum) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.active, e.dead)
}

// Start registers a battle between the given rosters of the active registry.
//
// Precondition: every handle addresses a registered combatant.
// Postcondition: Returns the battle's handle, or colosseum.ErrStaleHandle.
func (e *Engine) Start(wizards, monsters []slotmap.Handle) (slotmap.Handle, error) {
	e.mu.Lock()
	h, err := e.active.StartBattle(wizards, monsters)
	e.mu.Unlock()
	if err != nil {
		return slotmap.Handle{}, err
	}
	e.logger.Info("battle started",
		zap.String("battle", h.String()),
		zap.Int("wizards", len(wizards)),
		zap.Int("monsters", len(monsters)),
	)
	return h, nil
}

// Step resolves one tick of the battle addressed by h and hands it to every sink.
// Sink failures are logged and do not fail the step.
//
// Postcondition: Returns the resolved tick, colosseum.ErrStaleHandle, or
// ErrBattleOver if the battle concluded on an earlier tick.
func (e *Engine) Step(ctx context.Context, h slotmap.Handle) ([]battle.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	b, err := e.active.Battle(h)
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}
	if _, over := battle.Terminal(b.Pending); over {
		e.mu.Unlock()
		return nil, fmt.Errorf("battle %s: %w", h, ErrBattleOver)
	}
	tick := b.Step(e.active)
	n := len(b.PastTicks)
	out := append([]battle.Event(nil), tick...)
	e.mu.Unlock()

	if ev, ok := battle.Terminal(out); ok {
		e.logger.Info("battle concluded",
			zap.String("battle", h.String()),
			zap.Int("tick", n),
			zap.Stringer("outcome", ev.Kind),
		)
	}
	for _, s := range e.sinks {
		if err := s.RecordTick(ctx, h, out); err != nil {
			e.logger.Warn("recording tick",
				zap.String("battle", h.String()),
				zap.Int("tick", n),
				zap.Error(err),
			)
		}
	}
	return out, nil
}

// RunToEnd steps the battle until it concludes.
//
// Postcondition: Returns the terminal event, battle.ErrStalemate after the
// configured tick limit, or the first error from Step or ctx.
func (e *Engine) RunToEnd(ctx context.Context, h slotmap.Handle) (battle.Event, error) {
	return e.runEach(ctx, h, nil)
}

func (e *Engine) stalemate(h slotmap.Handle) error {
	e.logger.Warn("battle stalemated",
		zap.String("battle", h.String()),
		zap.Int("max_ticks", e.maxTicks),
	)
	return fmt.Errorf("battle %s after %d ticks: %w", h, e.maxTicks, battle.ErrStalemate)
}

// Retire moves a concluded battle and its fallen combatants to the dead registry.
//
// Postcondition: Returns the battle's handle in the dead registry,
// colosseum.ErrStaleHandle, or colosseum.ErrBattleActive.
func (e *Engine) Retire(h slotmap.Handle) (slotmap.Handle, error) {
	e.mu.Lock()
	archived, err := e.active.Retire(h, e.dead)
	e.mu.Unlock()
	if err != nil {
		return slotmap.Handle{}, err
	}
	e.logger.Info("battle retired",
		zap.String("battle", h.String()),
		zap.String("archived", archived.String()),
	)
	return archived, nil
}
