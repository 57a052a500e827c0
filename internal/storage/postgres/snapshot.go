package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Roster names the registry a snapshot was taken from.
type Roster string

const (
	// ActiveRoster holds live battles and combatants.
	ActiveRoster Roster = "active"
	// DeadRoster holds concluded battles and the combatants that fell in them.
	DeadRoster Roster = "dead"
)

// Valid reports whether r is one of the two known rosters.
func (r Roster) Valid() bool { return r == ActiveRoster || r == DeadRoster }

// ErrSnapshotNotFound is returned when no snapshot exists for a roster.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Counts summarises what a snapshot payload contains.
type Counts struct {
	Battles  int
	Wizards  int
	Monsters int
}

// Snapshot is one archived colosseum payload.
type Snapshot struct {
	ID        int64
	Roster    Roster
	Payload   []byte
	Counts    Counts
	CreatedAt time.Time
}

// SnapshotRepository archives encoded colosseum files in PostgreSQL.
type SnapshotRepository struct {
	db *pgxpool.Pool
}

// NewSnapshotRepository creates a SnapshotRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewSnapshotRepository(db *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Save stores payload as the newest snapshot of roster.
//
// Precondition: roster must be valid; payload must be non-empty.
// Postcondition: Returns the new snapshot id or a non-nil error.
func (r *SnapshotRepository) Save(ctx context.Context, roster Roster, payload []byte, counts Counts) (int64, error) {
	if !roster.Valid() {
		return 0, fmt.Errorf("saving snapshot: unknown roster %q", roster)
	}
	if len(payload) == 0 {
		return 0, errors.New("saving snapshot: payload must not be empty")
	}
	var id int64
	err := WithTx(ctx, r.db, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx,
			`INSERT INTO colosseum_snapshots (roster, payload, battles, wizards, monsters)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id`,
			string(roster), payload, counts.Battles, counts.Wizards, counts.Monsters,
		).Scan(&id)
	})
	if err != nil {
		return 0, fmt.Errorf("saving %s snapshot: %w", roster, err)
	}
	return id, nil
}

// Latest returns the newest snapshot of roster.
//
// Postcondition: Returns ErrSnapshotNotFound if roster has never been saved.
func (r *SnapshotRepository) Latest(ctx context.Context, roster Roster) (Snapshot, error) {
	s := Snapshot{Roster: roster}
	err := r.db.QueryRow(ctx,
		`SELECT id, payload, battles, wizards, monsters, created_at
		 FROM colosseum_snapshots
		 WHERE roster = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`,
		string(roster),
	).Scan(&s.ID, &s.Payload, &s.Counts.Battles, &s.Counts.Wizards, &s.Counts.Monsters, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("%s roster: %w", roster, ErrSnapshotNotFound)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("loading %s snapshot: %w", roster, err)
	}
	return s, nil
}

// Prune deletes all but the newest keep snapshots of roster.
//
// Precondition: keep must be >= 1.
// Postcondition: Returns the number of deleted rows.
func (r *SnapshotRepository) Prune(ctx context.Context, roster Roster, keep int) (int64, error) {
	if keep < 1 {
		return 0, fmt.Errorf("pruning snapshots: keep must be >= 1, got %d", keep)
	}
	tag, err := r.db.Exec(ctx,
		`DELETE FROM colosseum_snapshots
		 WHERE roster = $1 AND id NOT IN (
			SELECT id FROM colosseum_snapshots
			WHERE roster = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		 )`,
		string(roster), keep,
	)
	if err != nil {
		return 0, fmt.Errorf("pruning %s snapshots: %w", roster, err)
	}
	return tag.RowsAffected(), nil
}
