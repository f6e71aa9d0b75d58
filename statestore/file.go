package statestore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/spektr-org/panels/engine"
)

// File is a Store backed by one YAML document mapping instance ids to view
// state. Every write replaces the file atomically (temp file, fsync,
// rename), so a crash leaves either the old or the new document.
//
// File serializes access within a process only.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile returns a store at path. The file is created on first write.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the backing file path.
func (f *File) Path() string { return f.path }

func (f *File) Get(id string) (engine.ViewState, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	states, err := f.load()
	if err != nil {
		return engine.ViewState{}, false, err
	}
	s, ok := states[id]
	return s, ok, nil
}

func (f *File) Set(id string, state engine.ViewState) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	states, err := f.load()
	if err != nil {
		return err
	}
	states[id] = copyState(state)
	return f.save(states)
}

func (f *File) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	states, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := states[id]; !ok {
		return ErrStateNotFound
	}
	delete(states, id)
	return f.save(states)
}

func (f *File) IDs() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	states, err := f.load()
	if err != nil {
		return nil, err
	}
	return sortedIDs(states), nil
}

// load reads the document; a missing file is an empty store.
func (f *File) load() (map[string]engine.ViewState, error) {
	states := make(map[string]engine.ViewState)

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return states, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	if err := yaml.Unmarshal(data, &states); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}
	if states == nil {
		states = make(map[string]engine.ViewState)
	}
	return states, nil
}

func (f *File) save(states map[string]engine.ViewState) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := yaml.Marshal(states)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("sync state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp state file: %w", err)
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename state file: %w", err)
	}
	return nil
}
