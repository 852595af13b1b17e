package ledger

import (
	"context"
	"fmt"
	"time"

	"jobalert/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is the SQLite layout on a shared Postgres database, for
// running from hosts that do not keep local state.
type PostgresStore struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

func OpenPostgres(ctx context.Context, dsn string, ttl time.Duration) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse ledger dsn: %w", err)
	}
	cfg.MaxConns = 2
	cfg.MaxConnLifetime = time.Hour
	// works behind transaction-mode poolers
	cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect ledger: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ledger database unreachable: %w", err)
	}

	_, err = pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS seen (
  fingerprint TEXT PRIMARY KEY,
  first_seen TIMESTAMPTZ NOT NULL DEFAULT now()
);`)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate ledger: %w", err)
	}
	return &PostgresStore{pool: pool, ttl: ttl}, nil
}

func (p *PostgresStore) Load(ctx context.Context) (*Set, error) {
	set := NewSet()
	if p.ttl > 0 {
		if _, err := p.Prune(ctx, time.Now().Add(-p.ttl)); err != nil {
			return set, err
		}
	}

	rows, err := p.pool.Query(ctx, `SELECT fingerprint, first_seen FROM seen`)
	if err != nil {
		return set, fmt.Errorf("query ledger: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var fp string
		var at time.Time
		if err := rows.Scan(&fp, &at); err != nil {
			return set, err
		}
		set.restore(domain.Fingerprint(fp), at)
	}
	return set, rows.Err()
}

func (p *PostgresStore) Save(ctx context.Context, set *Set) error {
	added := set.Added()
	if len(added) == 0 {
		return nil
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	b := &pgx.Batch{}
	for _, fp := range added {
		at, _ := set.FirstSeen(fp)
		b.Queue(`INSERT INTO seen (fingerprint, first_seen) VALUES ($1, $2) ON CONFLICT (fingerprint) DO NOTHING`,
			string(fp), at.UTC())
	}
	if err := tx.SendBatch(ctx, b).Close(); err != nil {
		return fmt.Errorf("insert ledger entries: %w", err)
	}
	return tx.Commit(ctx)
}

func (p *PostgresStore) Prune(ctx context.Context, before time.Time) (int64, error) {
	tag, err := p.pool.Exec(ctx, `DELETE FROM seen WHERE first_seen < $1`, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune ledger: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (p *PostgresStore) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}
