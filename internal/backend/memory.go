// Package backend provides in-process example backends satisfying the
// orchestrator's capability contracts, plus an adapter over a connected
// MCP client session.
package backend

import (
	"context"
	"fmt"
	"sync"
)

// Memory serves context from an in-memory key→value store and accepts
// updates that add or replace entries. It implements both the fetch and
// update capabilities and is safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	store map[string]string
}

// NewMemory creates a Memory backend seeded with the given entries.
// The seed map is copied.
func NewMemory(seed map[string]string) *Memory {
	store := make(map[string]string, len(seed))
	for k, v := range seed {
		store[k] = v
	}
	return &Memory{store: store}
}

// FetchContext looks the query up as a store key. The query must be a
// string. A missing key is not an error; a placeholder message is returned
// instead.
func (m *Memory) FetchContext(_ context.Context, query any) (any, error) {
	key, ok := query.(string)
	if !ok {
		return nil, fmt.Errorf("memory backend expects a string query, got %T", query)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.store[key]; ok {
		return v, nil
	}
	return fmt.Sprintf("no memory entry for query: %s", key), nil
}

// ApplyUpdate merges the payload's entries into the store. The payload
// must be a map[string]string.
func (m *Memory) ApplyUpdate(_ context.Context, payload any) error {
	entries, ok := payload.(map[string]string)
	if !ok {
		return fmt.Errorf("memory backend expects a map[string]string payload, got %T", payload)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range entries {
		m.store[k] = v
	}
	return nil
}

// Entry reports the stored value for key, if any.
func (m *Memory) Entry(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.store[key]
	return v, ok
}
