package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"jobalert/internal/domain"
)

// JSONStore keeps the seen-set as a sorted JSON array of fingerprint strings,
// the same file format the alert script always used.
type JSONStore struct {
	path string
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (j *JSONStore) Path() string { return j.path }

// Load returns an empty set when the file does not exist yet.
func (j *JSONStore) Load(_ context.Context) (*Set, error) {
	s := NewSet()
	b, err := os.ReadFile(j.path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read ledger: %w", err)
	}

	var fps []string
	if err := json.Unmarshal(b, &fps); err != nil {
		return s, fmt.Errorf("decode ledger %s: %w", j.path, err)
	}
	for _, fp := range fps {
		if fp != "" {
			s.restore(domain.Fingerprint(fp), time.Time{})
		}
	}
	return s, nil
}

// Save rewrites the whole file through a temp file and rename.
func (j *JSONStore) Save(_ context.Context, s *Set) error {
	sorted := s.Sorted()
	fps := make([]string, 0, len(sorted))
	for _, fp := range sorted {
		fps = append(fps, string(fp))
	}
	b, err := json.Marshal(fps)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(j.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create ledger dir: %w", err)
		}
	}
	tmp := j.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := os.Rename(tmp, j.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}

func (j *JSONStore) Close() error { return nil }
