package persistence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/arcana/internal/config"
	"github.com/cory-johannsen/arcana/internal/game/colosseum"
)

// FileStore keeps the active and dead registries in two roster files.
type FileStore struct {
	ActivePath string
	DeadPath   string
	codec      *Codec
}

// NewFileStore creates a FileStore for the configured paths.
//
// Precondition: c must not be nil.
func NewFileStore(cfg config.PersistenceConfig, c *Codec) *FileStore {
	return &FileStore{ActivePath: cfg.ActivePath, DeadPath: cfg.DeadPath, codec: c}
}

// Load reads both roster files concurrently. A missing file yields an empty
// registry.
//
// Postcondition: Returns both registries, or the first error; a malformed file
// fails the whole load.
func (s *FileStore) Load(ctx context.Context) (active, dead *colosseum.Colosseum, err error) {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		active, err = s.load(ctx, s.ActivePath)
		return err
	})
	g.Go(func() error {
		var err error
		dead, err = s.load(ctx, s.DeadPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return active, dead, nil
}

func (s *FileStore) load(ctx context.Context, path string) (*colosseum.Colosseum, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return colosseum.New(s.codec.bestiary), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	col, err := s.codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %q: %w", path, err)
	}
	return col, nil
}

// Save encodes and writes both registries concurrently. Each file is written
// to a temporary sibling and renamed into place.
func (s *FileStore) Save(ctx context.Context, active, dead *colosseum.Colosseum) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.save(ctx, s.ActivePath, active) })
	g.Go(func() error { return s.save(ctx, s.DeadPath, dead) })
	return g.Wait()
}

func (s *FileStore) save(ctx context.Context, path string, col *colosseum.Colosseum) error {
	data, err := s.codec.Encode(col)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %q: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing %q: %w", path, err)
	}
	return nil
}
