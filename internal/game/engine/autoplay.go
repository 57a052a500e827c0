package engine

import (
	"context"
	"sync"
	"time"

	"github.com/cory-johannsen/arcana/internal/game/battle"
	"github.com/cory-johannsen/arcana/internal/game/slotmap"
)

type outcome struct {
	event battle.Event
	err   error
}

// Autoplay steps the battle once per interval until it concludes, calling
// onTick with each resolved tick. A non-positive interval runs ticks back to
// back. onTick may be nil.
//
// Postcondition: Returns the terminal event, battle.ErrStalemate after the
// configured tick limit, ctx's error once it is cancelled, or the first Step error.
func (e *Engine) Autoplay(ctx context.Context, h slotmap.Handle, interval time.Duration, onTick func([]battle.Event)) (battle.Event, error) {
	if interval <= 0 {
		return e.runEach(ctx, h, onTick)
	}

	done := make(chan outcome, 1)
	var timer TickTimer
	// mu serializes fire with cancellation so no tick resolves after return.
	var mu sync.Mutex
	halted := false
	ticks := 0
	var fire func()
	fire = func() {
		mu.Lock()
		defer mu.Unlock()
		if halted {
			return
		}
		tick, err := e.Step(ctx, h)
		if err != nil {
			done <- outcome{err: err}
			return
		}
		if onTick != nil {
			onTick(tick)
		}
		if ev, ok := battle.Terminal(tick); ok {
			done <- outcome{event: ev}
			return
		}
		ticks++
		if ticks >= e.maxTicks {
			done <- outcome{err: e.stalemate(h)}
			return
		}
		if err := ctx.Err(); err != nil {
			done <- outcome{err: err}
			return
		}
		timer.Reset(interval, fire)
	}
	timer.Reset(interval, fire)

	select {
	case o := <-done:
		return o.event, o.err
	case <-ctx.Done():
		mu.Lock()
		halted = true
		timer.Stop()
		mu.Unlock()
		return battle.Event{}, ctx.Err()
	}
}
