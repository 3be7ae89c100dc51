package tools

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

// storedSets maps property set name to property name to value.
type storedSets map[string]map[string]any

// PropertyStore keeps tool property values across activations and, when
// flushed, across sessions. The on-disk form is YAML keyed by tool type,
// then property set, then property.
type PropertyStore struct {
	mu    sync.Mutex
	tools map[string]storedSets
	dirty bool
}

// NewPropertyStore creates an empty store.
func NewPropertyStore() *PropertyStore {
	return &PropertyStore{tools: make(map[string]storedSets)}
}

// Save records the current values of sets under toolName.
func (s *PropertyStore) Save(toolName string, sets []*PropertySet) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.tools[toolName]
	if !ok {
		stored = make(storedSets)
		s.tools[toolName] = stored
	}
	for _, ps := range sets {
		stored[ps.Name()] = ps.Values()
	}
	s.dirty = true
}

// Restore copies saved values for toolName into sets and returns how many
// values were applied. Values for properties the sets no longer define are
// skipped; values of the wrong type are reported.
func (s *PropertyStore) Restore(toolName string, sets []*PropertySet) (int, error) {
	s.mu.Lock()
	stored := s.tools[toolName]
	s.mu.Unlock()
	if stored == nil {
		return 0, nil
	}

	var errs []error
	n := 0
	for _, ps := range sets {
		values := stored[ps.Name()]
		for _, name := range ps.Names() {
			v, ok := values[name]
			if !ok {
				continue
			}
			if err := ps.Set(name, v); err != nil {
				errs = append(errs, fmt.Errorf("restore %s: %w", toolName, err))
				continue
			}
			n++
		}
	}
	return n, errors.Join(errs...)
}

// Tools returns the tool types with saved values, sorted.
func (s *PropertyStore) Tools() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.tools))
	for name := range s.tools {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Dirty returns true if values were saved since the last Load or Flush.
func (s *PropertyStore) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Load replaces the store's contents with the YAML file at path. A missing
// file leaves the store empty.
func (s *PropertyStore) Load(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		s.mu.Lock()
		s.tools = make(map[string]storedSets)
		s.dirty = false
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("read property store: %w", err)
	}

	tools := make(map[string]storedSets)
	if err := yaml.Unmarshal(data, &tools); err != nil {
		return fmt.Errorf("parse property store %s: %w", path, err)
	}

	s.mu.Lock()
	s.tools = tools
	s.dirty = false
	s.mu.Unlock()
	return nil
}

// Flush writes the store to path as YAML, creating parent directories.
// The file is replaced atomically.
func (s *PropertyStore) Flush(path string) error {
	s.mu.Lock()
	data, err := yaml.Marshal(s.tools)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("encode property store: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create property store dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write property store: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace property store: %w", err)
	}

	s.mu.Lock()
	s.dirty = false
	s.mu.Unlock()
	return nil
}
