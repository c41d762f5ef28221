package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/matzehuels/seatmap/pkg/document"
	"github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/floor"
)

// FileStore stores each layout as <dir>/<id>.json.
type FileStore struct {
	base
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a file store in dir. If dir is empty, it defaults to
// ~/.local/share/seatmap/layouts.
func NewFileStore(dir string, opts ...Option) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		dir = filepath.Join(home, ".local", "share", "seatmap", "layouts")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create layout dir")
	}
	return &FileStore{base: newBase(opts), dir: dir}, nil
}

// Path returns the store directory.
func (s *FileStore) Path() string { return s.dir }

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *FileStore) Save(ctx context.Context, ownerID, name string, tables []floor.Table) (string, error) {
	doc, err := s.prepare(ownerID, name, tables)
	if err != nil {
		return "", err
	}
	data, err := document.Marshal(doc)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "marshal layout")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path(doc.ID), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStorage, err, "create layout file")
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", errors.Wrap(errors.ErrCodeStorage, err, "write layout file")
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", errors.Wrap(errors.ErrCodeStorage, err, "write layout file")
	}
	return doc.ID, nil
}

func (s *FileStore) Load(ctx context.Context, id string) (*document.Document, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(id)
}

func (s *FileStore) read(id string) (*document.Document, error) {
	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read layout file")
	}
	return document.Unmarshal(data)
}

// List scans the directory. Files that fail to decode are skipped.
func (s *FileStore) List(ctx context.Context, ownerID string) ([]document.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read layout dir")
	}

	out := []document.Summary{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "list layouts")
		}
		doc, err := s.read(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil || doc.OwnerID != ownerID {
			continue
		}
		out = append(out, doc.Summary())
	}
	sortSummaries(out)
	return out, nil
}

func (s *FileStore) Delete(ctx context.Context, ownerID, id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read(id)
	if err != nil {
		return err
	}
	if doc.OwnerID != ownerID {
		return forbidden(id)
	}
	if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeStorage, err, "remove layout file")
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
