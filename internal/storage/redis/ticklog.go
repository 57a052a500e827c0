// Package redis keeps a replayable log of every resolved battle tick in Redis.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/cory-johannsen/arcana/internal/config"
	"github.com/cory-johannsen/arcana/internal/game/battle"
	"github.com/cory-johannsen/arcana/internal/game/slotmap"
	"github.com/cory-johannsen/arcana/internal/game/spell"
	"github.com/cory-johannsen/arcana/internal/persistence"
)

// TickLog appends encoded ticks to one Redis list per battle.
type TickLog struct {
	client  *goredis.Client
	catalog *spell.Catalog
	ttl     time.Duration
}

// NewClient opens a client for the configured server.
func NewClient(cfg config.RedisConfig) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewTickLog creates a TickLog. A positive ttl expires a battle's list after
// its last append.
//
// Precondition: client and catalog must not be nil.
func NewTickLog(client *goredis.Client, catalog *spell.Catalog, ttl time.Duration) *TickLog {
	return &TickLog{client: client, catalog: catalog, ttl: ttl}
}

// Key returns the list key for a battle.
func Key(h slotmap.Handle) string {
	return fmt.Sprintf("battle:%d:%d:ticks", h.Slot, h.Generation)
}

// Append pushes tick onto the battle's list.
func (l *TickLog) Append(ctx context.Context, h slotmap.Handle, tick []battle.Event) error {
	key := Key(h)
	pipe := l.client.Pipeline()
	pipe.RPush(ctx, key, string(persistence.EncodeTick(tick)))
	if l.ttl > 0 {
		pipe.Expire(ctx, key, l.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("appending tick to %s: %w", key, err)
	}
	return nil
}

// RecordTick appends tick; it lets a TickLog serve as an engine tick sink.
func (l *TickLog) RecordTick(ctx context.Context, h slotmap.Handle, tick []battle.Event) error {
	return l.Append(ctx, h, tick)
}

// Replay returns every logged tick of the battle in append order.
//
// Postcondition: Returns an error matching codec.ErrInvalidData if any entry
// does not decode.
func (l *TickLog) Replay(ctx context.Context, h slotmap.Handle) ([][]battle.Event, error) {
	key := Key(h)
	entries, err := l.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	ticks := make([][]battle.Event, 0, len(entries))
	for i, entry := range entries {
		tick, err := persistence.DecodeTick([]byte(entry), l.catalog)
		if err != nil {
			return nil, fmt.Errorf("decoding %s[%d]: %w", key, i, err)
		}
		ticks = append(ticks, tick)
	}
	return ticks, nil
}

// Len returns the number of logged ticks.
func (l *TickLog) Len(ctx context.Context, h slotmap.Handle) (int64, error) {
	n, err := l.client.LLen(ctx, Key(h)).Result()
	if err != nil {
		return 0, fmt.Errorf("measuring %s: %w", Key(h), err)
	}
	return n, nil
}

// Clear deletes the battle's list.
func (l *TickLog) Clear(ctx context.Context, h slotmap.Handle) error {
	if err := l.client.Del(ctx, Key(h)).Err(); err != nil {
		return fmt.Errorf("clearing %s: %w", Key(h), err)
	}
	return nil
}
