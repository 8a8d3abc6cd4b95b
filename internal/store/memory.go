package store

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

type key struct {
	doc  string
	name string
}

// Memory is an in-memory store for testing and history-less runs.
type Memory struct {
	mu       sync.RWMutex
	versions map[key][]VersionEntry // oldest first
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{
		versions: make(map[key][]VersionEntry),
	}
}

// Get retrieves the latest body of a comment.
func (m *Memory) Get(doc, name string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	vs := m.versions[key{doc, name}]
	if len(vs) == 0 {
		return "", false, nil
	}
	return vs[len(vs)-1].Body, true, nil
}

// Put stores a body, skipping it when it matches the latest version.
func (m *Memory) Put(doc, name, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key{doc, name}
	vs := m.versions[k]
	if len(vs) > 0 && vs[len(vs)-1].Body == body {
		return nil
	}
	m.versions[k] = append(vs, VersionEntry{
		ID:      uuid.NewString(),
		Version: len(vs) + 1,
		Body:    body,
		Ts:      time.Now().UTC().Format(time.RFC3339Nano),
	})
	return nil
}

// Delete removes a comment and its history.
func (m *Memory) Delete(doc, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.versions, key{doc, name})
	return nil
}

// Names lists the stored comment names of doc.
func (m *Memory) Names(doc string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var names []string
	for k := range m.versions {
		if k.doc == doc {
			names = append(names, k.name)
		}
	}
	slices.Sort(names)
	return names, nil
}

// GetHistory returns versions newest first.
func (m *Memory) GetHistory(doc, name string, limit int) ([]VersionEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	vs := m.versions[key{doc, name}]
	if len(vs) == 0 {
		return nil, nil
	}
	out := make([]VersionEntry, len(vs))
	copy(out, vs)
	slices.Reverse(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close is a no-op for memory store.
func (m *Memory) Close() error {
	return nil
}
