package lookup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"gorca/domain/core"
	"gorca/ports"
)

// Postgres resolves sample identifiers from a sample_index table keyed
// by identifier.
type Postgres struct {
	db *sqlx.DB
}

// NewPostgres wraps an open connection pool.
func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

// Connect opens a pool against the given DSN and verifies it.
func Connect(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect sample index: %w", err)
	}
	return &Postgres{db: db}, nil
}

// Bootstrap creates the sample_index table when absent.
func (p *Postgres) Bootstrap(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS sample_index (
		sample_id TEXT PRIMARY KEY,
		row_index INTEGER NOT NULL
	)`
	if _, err := p.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to bootstrap sample_index: %w", err)
	}
	return nil
}

// Register upserts one identifier-to-row mapping.
func (p *Postgres) Register(ctx context.Context, id core.SampleID, row int) error {
	query := `INSERT INTO sample_index (sample_id, row_index)
		VALUES ($1, $2)
		ON CONFLICT (sample_id) DO UPDATE SET row_index = EXCLUDED.row_index`
	if _, err := p.db.ExecContext(ctx, query, id.String(), row); err != nil {
		return fmt.Errorf("failed to register sample %s: %w", id.String(), err)
	}
	return nil
}

// RowIndex resolves an identifier, failing with core.ErrNotFound when
// no row is registered for it.
func (p *Postgres) RowIndex(ctx context.Context, id core.SampleID) (int, error) {
	var row int
	query := `SELECT row_index FROM sample_index WHERE sample_id = $1`
	err := p.db.QueryRowContext(ctx, query, id.String()).Scan(&row)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, core.NewNotFoundError("sample", id.String())
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve sample %s: %w", id.String(), err)
	}
	return row, nil
}

// Close releases the underlying pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

var _ ports.SampleLookup = (*Postgres)(nil)
