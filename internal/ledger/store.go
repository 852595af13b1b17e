package ledger

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"jobalert/internal/config"
)

// Store persists the seen-set. Load runs once at the start of a run and Save
// once at the end.
type Store interface {
	Load(ctx context.Context) (*Set, error)
	Save(ctx context.Context, s *Set) error
	Close() error
}

// Pruner is implemented by stores that keep first-seen times.
type Pruner interface {
	Prune(ctx context.Context, before time.Time) (int64, error)
}

// Open returns the store selected by cfg.Backend. Relative paths are resolved
// against dataDir.
func Open(ctx context.Context, cfg config.Ledger, dataDir string) (Store, error) {
	path := cfg.Path
	if path != "" && !filepath.IsAbs(path) {
		path = filepath.Join(dataDir, path)
	}

	switch cfg.Backend {
	case "", "json":
		return NewJSONStore(path), nil
	case "sqlite":
		return OpenSQLite(path, cfg.TTL)
	case "postgres":
		return OpenPostgres(ctx, cfg.DSN, cfg.TTL)
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", cfg.Backend)
	}
}

// tsLayout sorts lexically in time order, which the SQLite prune relies on.
const tsLayout = "2006-01-02T15:04:05Z"

func formatTS(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(tsLayout)
}
