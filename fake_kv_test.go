package eisenhower

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type memKV struct {
	mu     sync.Mutex
	data   map[string]string
	writes int
	// failWrites makes Set and SetMany fail without storing anything
	failWrites bool
	failReads  bool
}

var _ KVRepo = (*memKV)(nil)

func newMemKV() *memKV {
	return &memKV{data: map[string]string{}}
}

func (m *memKV) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failReads {
		return "", errors.New("disk on fire")
	}
	v, ok := m.data[key]
	if !ok {
		return "", fmt.Errorf("get %q: %w", key, ErrNotFound)
	}
	return v, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return errors.New("quota exceeded")
	}
	m.data[key] = value
	m.writes++
	return nil
}

func (m *memKV) SetMany(_ context.Context, entries map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return errors.New("quota exceeded")
	}
	maps.Copy(m.data, entries)
	m.writes++
	return nil
}

func (m *memKV) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memKV) Keys(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.data {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}

func (m *memKV) raw(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *memKV) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

type noSession struct{}

func (noSession) CurrentSession() (Session, bool) {
	return Session{}, false
}

func newSessionStore(t *testing.T, kv *memKV) *SessionStore {
	t.Helper()
	s, err := NewSessionStore(NewPersister(kv, nil, 0), nil)
	require.NoError(t, err)
	return s
}

func newStores(t *testing.T, kv *memKV) (*SessionStore, *TaskStore) {
	t.Helper()
	p := NewPersister(kv, nil, 0)
	sessions, err := NewSessionStore(p, nil)
	require.NoError(t, err)
	tasks, err := NewTaskStore(sessions, p, nil)
	require.NoError(t, err)
	return sessions, tasks
}

func newNoteStore(t *testing.T, kv *memKV) *NoteStore {
	t.Helper()
	s, err := NewNoteStore(NewPersister(kv, nil, 0), nil)
	require.NoError(t, err)
	return s
}
