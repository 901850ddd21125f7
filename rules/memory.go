package rules

import (
	"context"
	"errors"
	"sync"

	"github.com/goliatone/go-fieldgate/mask"
)

// ErrMemoryStoreRequired signals a missing memory store.
var ErrMemoryStoreRequired = errors.New("rules: memory store is required")

// ErrInvalidKey signals a rule key with an unknown role or empty module.
var ErrInvalidKey = errors.New("rules: valid role and module key required")

// MemoryStore keeps runtime rules in memory for tests and examples.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[mask.RuleKey]Decision
}

// NewMemoryStore constructs an in-memory rule store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[mask.RuleKey]Decision{}}
}

// Get implements Reader.
func (m *MemoryStore) Get(_ context.Context, key mask.RuleKey) (Decision, error) {
	if m == nil {
		return MissingDecision(), ErrMemoryStoreRequired
	}
	normalized, ok := normalizeKey(key)
	if !ok {
		return MissingDecision(), ErrInvalidKey
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	decision, found := m.entries[normalized]
	if !found {
		return MissingDecision(), nil
	}
	if decision.State == "" {
		decision.State = mask.RuleStateMissing
	}
	return decision, nil
}

// Set implements Writer.
func (m *MemoryStore) Set(_ context.Context, key mask.RuleKey, hidden bool, _ mask.ActorRef) error {
	if m == nil {
		return ErrMemoryStoreRequired
	}
	normalized, ok := normalizeKey(key)
	if !ok {
		return ErrInvalidKey
	}
	decision := VisibleDecision()
	if hidden {
		decision = HiddenDecision()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		m.entries = map[mask.RuleKey]Decision{}
	}
	m.entries[normalized] = decision
	return nil
}

// Unset implements Writer.
func (m *MemoryStore) Unset(_ context.Context, key mask.RuleKey, _ mask.ActorRef) error {
	if m == nil {
		return ErrMemoryStoreRequired
	}
	normalized, ok := normalizeKey(key)
	if !ok {
		return ErrInvalidKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		m.entries = map[mask.RuleKey]Decision{}
	}
	m.entries[normalized] = UnsetDecision()
	return nil
}

// Delete removes a stored rule entirely.
func (m *MemoryStore) Delete(key mask.RuleKey) bool {
	if m == nil {
		return false
	}
	normalized, ok := normalizeKey(key)
	if !ok {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, found := m.entries[normalized]; !found {
		return false
	}
	delete(m.entries, normalized)
	return true
}

// Clear removes all stored rules.
func (m *MemoryStore) Clear() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = map[mask.RuleKey]Decision{}
}

var _ ReadWriter = (*MemoryStore)(nil)
