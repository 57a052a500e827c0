package observability

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arcana/internal/game/battle"
	"github.com/cory-johannsen/arcana/internal/game/slotmap"
	"github.com/cory-johannsen/arcana/internal/game/status"
)

// TickLogger writes every event of a tick to a logger at debug level.
// It satisfies the engine's tick sink.
type TickLogger struct {
	mu       sync.Mutex
	logger   *zap.Logger
	statuses *status.Registry
	ticks    map[slotmap.Handle]int
}

// NewTickLogger creates a TickLogger. statuses may be nil, in which case
// status events are logged by code name only.
//
// Precondition: logger must be non-nil.
func NewTickLogger(logger *zap.Logger, statuses *status.Registry) *TickLogger {
	return &TickLogger{logger: logger, statuses: statuses, ticks: make(map[slotmap.Handle]int)}
}

// RecordTick logs each event of tick with the battle handle and a per-battle tick counter.
func (l *TickLogger) RecordTick(_ context.Context, h slotmap.Handle, tick []battle.Event) error {
	l.mu.Lock()
	l.ticks[h]++
	n := l.ticks[h]
	l.mu.Unlock()
	if len(tick) == 0 {
		l.logger.Debug("quiet tick", zap.String("battle", h.String()), zap.Int("tick", n))
		return nil
	}
	for _, e := range tick {
		fields := append([]zap.Field{zap.String("battle", h.String()), zap.Int("tick", n)}, EventFields(e)...)
		if l.statuses != nil && !e.IsTerminal() {
			switch e.Atom.Kind {
			case battle.IncurStatus, battle.LoseStatus:
				fields = append(fields, zap.String("status_name", l.statuses.DisplayName(e.Atom.Status)))
			}
		}
		l.logger.Debug("event", fields...)
	}
	return nil
}
