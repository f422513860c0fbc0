package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/HerbHall/winegallery/pkg/models"
	"github.com/HerbHall/winegallery/pkg/plugin"
)

// Snapshot describes one imported dataset.
type Snapshot struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	Records    int       `json:"records"`
	ImportedAt time.Time `json:"imported_at"`
}

// WineRepository stores imported catalogs and hands back the latest one in
// its original row order.
type WineRepository interface {
	// Import writes records as a new snapshot and returns it.
	Import(ctx context.Context, source string, records []models.Wine) (*Snapshot, error)

	// Latest returns the most recent snapshot, or ErrNotFound.
	Latest(ctx context.Context) (*Snapshot, error)

	// Load returns the records of the most recent snapshot in import order.
	Load(ctx context.Context) ([]models.Wine, error)

	// LoadSnapshot returns the records of one snapshot in import order.
	LoadSnapshot(ctx context.Context, id string) ([]models.Wine, error)

	// List returns snapshots ordered by import time.
	List(ctx context.Context, opts ListOptions) (*ListResult[Snapshot], error)

	// Prune deletes all but the newest keep snapshots and returns how many
	// were removed.
	Prune(ctx context.Context, keep int) (int, error)
}

// Compile-time interface guard.
var _ WineRepository = (*SQLiteWineRepository)(nil)

// SQLiteWineRepository implements WineRepository using SQLite. Each record
// is stored as a JSON object alongside its position in the source.
type SQLiteWineRepository struct {
	db    *sql.DB
	store plugin.Store
	now   func() time.Time
}

// WineRepositoryOption configures a SQLiteWineRepository.
type WineRepositoryOption func(*SQLiteWineRepository)

// WithClock overrides the time source used for ImportedAt.
func WithClock(now func() time.Time) WineRepositoryOption {
	return func(r *SQLiteWineRepository) { r.now = now }
}

// NewSQLiteWineRepository creates a WineRepository and runs the catalog
// migrations.
func NewSQLiteWineRepository(ctx context.Context, store plugin.Store, opts ...WineRepositoryOption) (*SQLiteWineRepository, error) {
	if err := store.Migrate(ctx, "catalog", wineMigrations); err != nil {
		return nil, fmt.Errorf("catalog migrations: %w", err)
	}
	r := &SQLiteWineRepository{db: store.DB(), store: store, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *SQLiteWineRepository) Import(ctx context.Context, source string, records []models.Wine) (*Snapshot, error) {
	snap := &Snapshot{
		ID:         uuid.New().String(),
		Source:     source,
		Records:    len(records),
		ImportedAt: r.now().UTC(),
	}

	err := r.store.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO wine_snapshots (id, source, records, imported_at) VALUES (?, ?, ?, ?)`,
			snap.ID, snap.Source, snap.Records, snap.ImportedAt,
		); err != nil {
			return fmt.Errorf("insert snapshot: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO wine_records (snapshot_id, position, fields) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare record insert: %w", err)
		}
		defer stmt.Close()

		for i, w := range records {
			fields, err := json.Marshal(w)
			if err != nil {
				return fmt.Errorf("encode record %d: %w", i, err)
			}
			if _, err := stmt.ExecContext(ctx, snap.ID, i, string(fields)); err != nil {
				return fmt.Errorf("insert record %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("import snapshot: %w", err)
	}
	return snap, nil
}

func (r *SQLiteWineRepository) Latest(ctx context.Context) (*Snapshot, error) {
	var s Snapshot
	err := r.db.QueryRowContext(ctx, `
		SELECT id, source, records, imported_at FROM wine_snapshots
		ORDER BY imported_at DESC, rowid DESC LIMIT 1`,
	).Scan(&s.ID, &s.Source, &s.Records, &s.ImportedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	return &s, nil
}

func (r *SQLiteWineRepository) Load(ctx context.Context) ([]models.Wine, error) {
	s, err := r.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return r.LoadSnapshot(ctx, s.ID)
}

func (r *SQLiteWineRepository) LoadSnapshot(ctx context.Context, id string) ([]models.Wine, error) {
	var exists int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM wine_snapshots WHERE id = ?`, id,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check snapshot %q: %w", id, err)
	}
	if exists == 0 {
		return nil, ErrNotFound
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT fields FROM wine_records WHERE snapshot_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("load snapshot %q: %w", id, err)
	}
	defer rows.Close()

	records := []models.Wine{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan record row: %w", err)
		}
		var w models.Wine
		if err := json.Unmarshal([]byte(raw), &w); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		records = append(records, w)
	}
	return records, rows.Err()
}

func (r *SQLiteWineRepository) List(ctx context.Context, opts ListOptions) (*ListResult[Snapshot], error) {
	opts = opts.normalized()

	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM wine_snapshots WHERE ? = '' OR source = ?`,
		opts.Source, opts.Source,
	).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count snapshots: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, source, records, imported_at FROM wine_snapshots
		WHERE ? = '' OR source = ?
		ORDER BY imported_at %[1]s, rowid %[1]s LIMIT ? OFFSET ?`, opts.direction())
	rows, err := r.db.QueryContext(ctx, query, opts.Source, opts.Source, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	result := &ListResult[Snapshot]{Items: []Snapshot{}, Total: total}
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.ID, &s.Source, &s.Records, &s.ImportedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		result.Items = append(result.Items, s)
	}
	return result, rows.Err()
}

func (r *SQLiteWineRepository) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 1 {
		keep = 1
	}
	var removed int
	err := r.store.Tx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `
			SELECT id FROM wine_snapshots
			ORDER BY imported_at DESC, rowid DESC LIMIT -1 OFFSET ?`, keep)
		if err != nil {
			return fmt.Errorf("select stale snapshots: %w", err)
		}
		var stale []string
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return fmt.Errorf("scan stale snapshot: %w", err)
			}
			stale = append(stale, id)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for _, id := range stale {
			if _, err := tx.ExecContext(ctx, `DELETE FROM wine_records WHERE snapshot_id = ?`, id); err != nil {
				return fmt.Errorf("delete records of %q: %w", id, err)
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM wine_snapshots WHERE id = ?`, id); err != nil {
				return fmt.Errorf("delete snapshot %q: %w", id, err)
			}
		}
		removed = len(stale)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// wineMigrations defines the database schema for catalog snapshots.
var wineMigrations = []plugin.Migration{
	{
		Version:     1,
		Description: "create wine_snapshots and wine_records tables",
		Up: func(tx *sql.Tx) error {
			stmts := []string{
				`CREATE TABLE wine_snapshots (
					id          TEXT PRIMARY KEY,
					source      TEXT NOT NULL,
					records     INTEGER NOT NULL,
					imported_at DATETIME NOT NULL
				)`,
				`CREATE TABLE wine_records (
					snapshot_id TEXT    NOT NULL REFERENCES wine_snapshots(id) ON DELETE CASCADE,
					position    INTEGER NOT NULL,
					fields      TEXT    NOT NULL,
					PRIMARY KEY (snapshot_id, position)
				)`,
			}
			for _, s := range stmts {
				if _, err := tx.Exec(s); err != nil {
					return err
				}
			}
			return nil
		},
	},
}
