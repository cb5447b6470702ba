// Package tabstate remembers the last viewed tab of each page across runs.
package tabstate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// file is the on-disk layout.
type file struct {
	Tabs map[string]string `yaml:"tabs"`
}

// Store is a YAML-backed page id -> tab map. It is read once on Open and
// written on every Set.
type Store struct {
	mu   sync.Mutex
	path string
	tabs map[string]string
}

// Open loads path, treating a missing file as empty.
func Open(path string) (*Store, error) {
	s := &Store{path: path, tabs: make(map[string]string)}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("tabstate: reading %s: %w", path, err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("tabstate: parsing %s: %w", path, err)
	}
	for page, tab := range f.Tabs {
		s.tabs[page] = tab
	}
	return s, nil
}

// Get returns the remembered tab of page, or def when none is stored.
func (s *Store) Get(page, def string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tab, ok := s.tabs[page]; ok {
		return tab
	}
	return def
}

// Set remembers tab for page and persists the store.
func (s *Store) Set(page, tab string) error {
	if page == "" {
		return errors.New("tabstate: page id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.tabs[page]
	s.tabs[page] = tab
	if err := s.save(); err != nil {
		if had {
			s.tabs[page] = prev
		} else {
			delete(s.tabs, page)
		}
		return err
	}
	return nil
}

// save must be called with mu held. It writes through a temp file so a
// crash never leaves a truncated store.
func (s *Store) save() error {
	data, err := yaml.Marshal(file{Tabs: s.tabs})
	if err != nil {
		return fmt.Errorf("tabstate: encoding: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("tabstate: creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".tabstate-*")
	if err != nil {
		return fmt.Errorf("tabstate: creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("tabstate: writing: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("tabstate: writing: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("tabstate: replacing %s: %w", s.path, err)
	}
	return nil
}
