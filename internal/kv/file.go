package kv

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/julianstephens/micromind/internal/constants"
	"github.com/julianstephens/micromind/internal/logger"
)

// FileStore persists all keys in a single JSON document. Every Set rewrites
// the whole document through a temporary file and an atomic rename.
//
// Running several processes against the same file is supported only in the
// last-write-wins sense: a Set overwrites whatever another process wrote.
type FileStore struct {
	Notifier
	mu     sync.RWMutex
	path   string
	values map[string]string
}

// NewFileStore opens the document at path. A missing file starts empty; a
// corrupt one is logged and also treated as empty.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) reload() error {
	values := make(map[string]string)

	data, err := os.ReadFile(s.path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return fmt.Errorf("failed to read storage: %w", err)
	case len(data) > 0:
		if err := json.Unmarshal(data, &values); err != nil {
			logger.Warn("Storage file is unparseable, starting empty", "path", s.path, "error", err)
			values = make(map[string]string)
		}
	}

	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
	return nil
}

func (s *FileStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(v), nil
}

func (s *FileStore) Set(key string, value []byte) error {
	s.mu.Lock()
	next := make(map[string]string, len(s.values)+1)
	for k, v := range s.values {
		next[k] = v
	}
	next[key] = string(value)
	err := s.write(next)
	if err == nil {
		s.values = next
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.Publish(key, value)
	return nil
}

// save must be called with s.mu held.
func (s *FileStore) save() error {
	return s.write(s.values)
}

func (s *FileStore) write(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

// Refresh reloads the document from disk and notifies subscribers of keys
// changed by another writer.
func (s *FileStore) Refresh() error {
	if err := s.reload(); err != nil {
		return err
	}
	return s.Notifier.Refresh(s.Get)
}

// Init creates the backing document if it does not exist yet.
func (s *FileStore) Init() error {
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// Load re-reads the document, failing if Init was never run.
func (s *FileStore) Load() error {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("%w, run '%s init' first", ErrNotInitialized, constants.AppName)
	}
	return s.reload()
}

// Path returns the location of the backing document.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Close() error {
	return nil
}
