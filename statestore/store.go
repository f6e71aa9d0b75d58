package statestore

import (
	"errors"
	"sync"

	"golang.org/x/exp/slices"

	"github.com/spektr-org/panels/engine"
)

// ============================================================================
// STATE STORE — Per-instance table view state
// ============================================================================
// A table's page and sort survive re-renders and, with the file store, CLI
// invocations. Each state belongs to exactly one component instance; the
// store only keys it by instance id.
// ============================================================================

// ErrStateNotFound is returned by Delete for an unknown instance id.
var ErrStateNotFound = errors.New("view state not found")

// Store persists view state per component instance.
type Store interface {
	// Get returns the state of id; ok is false when none was stored.
	Get(id string) (state engine.ViewState, ok bool, err error)
	// Set stores the state of id, replacing any previous one.
	Set(id string, state engine.ViewState) error
	// Delete discards the state of id.
	Delete(id string) error
	// IDs lists stored instance ids in sorted order.
	IDs() ([]string, error)
}

// Memory is an in-process Store, safe for concurrent use.
type Memory struct {
	mu     sync.RWMutex
	states map[string]engine.ViewState
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{states: make(map[string]engine.ViewState)}
}

func (m *Memory) Get(id string) (engine.ViewState, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.states[id]
	if !ok {
		return engine.ViewState{}, false, nil
	}
	return copyState(s), true, nil
}

func (m *Memory) Set(id string, state engine.ViewState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[id] = copyState(state)
	return nil
}

func (m *Memory) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.states[id]; !ok {
		return ErrStateNotFound
	}
	delete(m.states, id)
	return nil
}

func (m *Memory) IDs() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedIDs(m.states), nil
}

func copyState(s engine.ViewState) engine.ViewState {
	s.Sort = slices.Clone(s.Sort)
	return s
}

func sortedIDs(states map[string]engine.ViewState) []string {
	ids := make([]string, 0, len(states))
	for id := range states {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
