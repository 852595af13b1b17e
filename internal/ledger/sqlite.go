package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"jobalert/internal/domain"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps one row per fingerprint with its first-seen time.
type SQLiteStore struct {
	db  *sql.DB
	ttl time.Duration
}

// OpenSQLite opens (and creates) the database at path and migrates it.
// A positive ttl prunes older entries on every Load.
func OpenSQLite(path string, ttl time.Duration) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create ledger dir: %w", err)
		}
	}

	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := migrateSQLite(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate ledger: %w", err)
	}
	return &SQLiteStore{db: db, ttl: ttl}, nil
}

func migrateSQLite(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS seen (
  fingerprint TEXT PRIMARY KEY,
  first_seen TEXT NOT NULL
);
`); err != nil {
		return err
	}
	if _, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_seen_first_seen ON seen(first_seen);`); err != nil {
		return err
	}
	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) Load(ctx context.Context) (*Set, error) {
	set := NewSet()
	if s.ttl > 0 {
		if _, err := s.Prune(ctx, time.Now().Add(-s.ttl)); err != nil {
			return set, err
		}
	}

	rows, err := s.db.QueryContext(ctx, `SELECT fingerprint, first_seen FROM seen;`)
	if err != nil {
		return set, fmt.Errorf("query ledger: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var fp, ts string
		if err := rows.Scan(&fp, &ts); err != nil {
			return set, err
		}
		at, _ := time.Parse(tsLayout, ts)
		set.restore(domain.Fingerprint(fp), at)
	}
	return set, rows.Err()
}

// Save inserts the entries added this run.
func (s *SQLiteStore) Save(ctx context.Context, set *Set) error {
	added := set.Added()
	if len(added) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO seen(fingerprint, first_seen) VALUES(?, ?);`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, fp := range added {
		at, _ := set.FirstSeen(fp)
		if _, err := stmt.ExecContext(ctx, string(fp), formatTS(at)); err != nil {
			return fmt.Errorf("insert %s: %w", fp, err)
		}
	}
	return tx.Commit()
}

// Prune deletes entries first seen before `before`.
func (s *SQLiteStore) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM seen WHERE first_seen < ?;`, formatTS(before))
	if err != nil {
		return 0, fmt.Errorf("prune ledger: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
