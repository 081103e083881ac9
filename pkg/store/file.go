package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/matzehuels/datasprout/pkg/errors"
)

// FileStore is a file-based summary store for CLI applications.
// Records are stored as JSON files in a data directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based summary store.
// If baseDir is empty, defaults to $XDG_DATA_HOME/datasprout/runs/
// (~/.local/share/datasprout/runs/ when unset).
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := defaultDataDir()
		if err != nil {
			return nil, err
		}
		baseDir = filepath.Join(dir, "runs")
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create store dir")
	}
	return &FileStore{baseDir: baseDir}, nil
}

func defaultDataDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "datasprout"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "get home dir")
	}
	return filepath.Join(home, ".local", "share", "datasprout"), nil
}

func (s *FileStore) recordPath(id string) (string, error) {
	if id == "" || filepath.Base(id) != id || id == "." || id == ".." {
		return "", errors.New(errors.ErrCodeInvalidInput, "invalid record id: %q", id)
	}
	return filepath.Join(s.baseDir, id+".json"), nil
}

func (s *FileStore) Save(ctx context.Context, rec *Record) error {
	path, err := s.recordPath(rec.ID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal record")
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write record file")
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*Record, error) {
	path, err := s.recordPath(id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return readRecord(path)
}

func readRecord(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read record file")
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse record %s", filepath.Base(path))
	}
	return &rec, nil
}

// List scans every record file. Unreadable files are skipped.
func (s *FileStore) List(ctx context.Context, q Query) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read store dir")
	}

	var out []*Record
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		rec, err := readRecord(filepath.Join(s.baseDir, entry.Name()))
		if err != nil || rec == nil || !q.matches(rec) {
			continue
		}
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if n := q.limit(); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	path, err := s.recordPath(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeInternal, err, "remove record file")
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for record files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
