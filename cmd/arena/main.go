// Package main runs one battle against the persisted rosters: it registers the
// requested wizards and monsters, plays the battle to completion, retires it
// and saves both roster files.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arcana/internal/config"
	"github.com/cory-johannsen/arcana/internal/game/battle"
	"github.com/cory-johannsen/arcana/internal/game/colosseum"
	"github.com/cory-johannsen/arcana/internal/game/engine"
	"github.com/cory-johannsen/arcana/internal/game/monster"
	"github.com/cory-johannsen/arcana/internal/game/slotmap"
	"github.com/cory-johannsen/arcana/internal/game/spell"
	"github.com/cory-johannsen/arcana/internal/game/status"
	"github.com/cory-johannsen/arcana/internal/game/wizard"
	"github.com/cory-johannsen/arcana/internal/observability"
	"github.com/cory-johannsen/arcana/internal/persistence"
	"github.com/cory-johannsen/arcana/internal/storage/postgres"
	"github.com/cory-johannsen/arcana/internal/storage/redis"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	wizardNames := flag.String("wizards", "Ada", "comma-separated wizard names")
	spellIDs := flag.String("spells", "fireball,heal", "comma-separated spell ids for each wizard's spellbook")
	monsterType := flag.String("monster", "Goblin", "monster type")
	monsterCount := flag.Int("count", 2, "number of monsters")
	difficulty := flag.Uint("difficulty", 1, "monster difficulty (1-255)")
	keepSnapshots := flag.Int("keep-snapshots", 10, "snapshots kept per roster when archiving; 0 keeps all")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("loading .env: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, "arena")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load content
	catalog, err := spell.LoadCatalog(cfg.Content.SpellsDir)
	if err != nil {
		logger.Fatal("loading spells", zap.Error(err))
	}
	bestiary, err := monster.LoadBestiary(cfg.Content.MonstersDir, catalog)
	if err != nil {
		logger.Fatal("loading bestiary", zap.Error(err))
	}
	statuses, err := status.LoadDirectory(cfg.Content.StatusesDir)
	if err != nil {
		logger.Fatal("loading statuses", zap.Error(err))
	}
	logger.Info("content loaded", zap.Int("spells", catalog.Len()))

	codec := persistence.NewCodec(catalog, bestiary)
	store := persistence.NewFileStore(cfg.Persistence, codec)
	active, dead, err := store.Load(ctx)
	if err != nil {
		logger.Fatal("loading rosters", zap.Error(err))
	}
	logger.Info("rosters loaded",
		zap.Int("active_battles", active.Battles.Len()),
		zap.Int("dead_battles", dead.Battles.Len()),
	)

	opts := []engine.Option{
		engine.WithMaxTicks(cfg.Arena.MaxTicks),
		engine.WithSink(observability.NewTickLogger(logger, statuses)),
	}
	var tickLog *redis.TickLog
	if cfg.Redis.Enabled {
		client := redis.NewClient(cfg.Redis)
		defer func() { _ = client.Close() }()
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Fatal("connecting to redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		tickLog = redis.NewTickLog(client, catalog, cfg.Redis.TTL)
		opts = append(opts, engine.WithSink(tickLog))
	}
	eng := engine.New(active, dead, logger, opts...)

	var wizards, monsters []slotmap.Handle
	err = eng.With(func(active, _ *colosseum.Colosseum) error {
		var err error
		wizards, err = enlist(active, catalog, split(*wizardNames), split(*spellIDs))
		if err != nil {
			return err
		}
		monsters, err = spawn(active, *monsterType, *monsterCount, *difficulty)
		return err
	})
	if err != nil {
		logger.Fatal("registering combatants", zap.Error(err))
	}

	bh, err := eng.Start(wizards, monsters)
	if err != nil {
		logger.Fatal("starting battle", zap.Error(err))
	}
	if tickLog != nil {
		if err := tickLog.Clear(ctx, bh); err != nil {
			logger.Warn("clearing stale tick log", zap.String("battle", bh.String()), zap.Error(err))
		}
	}

	outcome, err := eng.Autoplay(ctx, bh, cfg.Arena.TickInterval, nil)
	switch {
	case err == nil:
		logger.Info("battle finished", zap.String("battle", bh.String()), zap.Stringer("outcome", outcome.Kind))
		if _, err := eng.Retire(bh); err != nil {
			logger.Error("retiring battle", zap.String("battle", bh.String()), zap.Error(err))
		}
	case errors.Is(err, battle.ErrStalemate), errors.Is(err, context.Canceled):
		logger.Warn("battle left active", zap.String("battle", bh.String()), zap.Error(err))
	default:
		logger.Fatal("running battle", zap.String("battle", bh.String()), zap.Error(err))
	}

	// The battle may have been interrupted; saving must still complete.
	saveCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	err = eng.With(func(active, dead *colosseum.Colosseum) error {
		if err := store.Save(saveCtx, active, dead); err != nil {
			return err
		}
		if !cfg.Database.Enabled {
			return nil
		}
		return archive(saveCtx, logger, cfg.Database, codec, *keepSnapshots, active, dead)
	})
	if err != nil {
		logger.Fatal("saving rosters", zap.Error(err))
	}

	logger.Info("arena run complete", zap.Duration("elapsed", time.Since(start)))
}

func split(list string) []string {
	var out []string
	for _, s := range strings.Split(list, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// enlist registers one wizard per name, each with a spellbook of the given
// spells, and groups them into a party.
func enlist(col *colosseum.Colosseum, cat *spell.Catalog, names, spellIDs []string) ([]slotmap.Handle, error) {
	if len(names) == 0 {
		return nil, errors.New("at least one wizard is required")
	}
	book := wizard.NewSpellbook()
	for _, id := range spellIDs {
		s, err := cat.ByID(id)
		if err != nil {
			return nil, err
		}
		book.Spells = append(book.Spells, s)
	}
	var handles []slotmap.Handle
	for _, name := range names {
		w := wizard.New(name)
		b := book
		b.Spells = append([]spell.Spell(nil), book.Spells...)
		w.AddSpellbook(b)
		handles = append(handles, col.AddWizard(w))
	}
	if _, err := col.NewParty(handles...); err != nil {
		return nil, err
	}
	return handles, nil
}

func spawn(col *colosseum.Colosseum, typeName string, count int, difficulty uint) ([]slotmap.Handle, error) {
	kind, err := monster.ParseKind(typeName)
	if err != nil {
		return nil, err
	}
	if count < 1 {
		return nil, fmt.Errorf("monster count must be >= 1, got %d", count)
	}
	if difficulty < 1 || difficulty > 255 {
		return nil, fmt.Errorf("difficulty must be 1-255, got %d", difficulty)
	}
	handles := make([]slotmap.Handle, 0, count)
	for i := 0; i < count; i++ {
		m := monster.New(fmt.Sprintf("%s %d", kind, i+1), kind, uint8(difficulty))
		handles = append(handles, col.AddMonster(m))
	}
	return handles, nil
}

// archive stores a snapshot of each roster in PostgreSQL and prunes old ones.
func archive(ctx context.Context, logger *zap.Logger, cfg config.DatabaseConfig, codec *persistence.Codec, keep int, active, dead *colosseum.Colosseum) error {
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	repo := postgres.NewSnapshotRepository(pool.DB())

	rosters := []struct {
		roster postgres.Roster
		col    *colosseum.Colosseum
	}{
		{postgres.ActiveRoster, active},
		{postgres.DeadRoster, dead},
	}
	for _, r := range rosters {
		payload, err := codec.Encode(r.col)
		if err != nil {
			return fmt.Errorf("encoding %s roster: %w", r.roster, err)
		}
		id, err := repo.Save(ctx, r.roster, payload, postgres.Counts{
			Battles:  r.col.Battles.Len(),
			Wizards:  r.col.Wizards.Len(),
			Monsters: r.col.Monsters.Len(),
		})
		if err != nil {
			return err
		}
		logger.Info("snapshot archived", zap.String("roster", string(r.roster)), zap.Int64("id", id), zap.Int("bytes", len(payload)))
		if keep > 0 {
			pruned, err := repo.Prune(ctx, r.roster, keep)
			if err != nil {
				return err
			}
			logger.Debug("snapshots pruned", zap.String("roster", string(r.roster)), zap.Int64("count", pruned))
		}
	}
	return nil
}
