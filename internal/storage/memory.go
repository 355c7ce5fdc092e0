package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore keeps objects in memory. FailPut and FailResolve, when set, can
// inject per-key failures.
type MemoryStore struct {
	BaseURL     string
	FailPut     func(key string) error
	FailResolve func(key string) error

	mu      sync.Mutex
	objects map[string][]byte
}

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{BaseURL: baseURL, objects: map[string][]byte{}}
}

func (m *MemoryStore) Put(ctx context.Context, key string, data []byte) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return Handle{}, err
	}
	if m.FailPut != nil {
		if err := m.FailPut(key); err != nil {
			return Handle{}, err
		}
	}
	cp := append([]byte(nil), data...)
	m.mu.Lock()
	m.objects[key] = cp
	m.mu.Unlock()
	return Handle{Key: key}, nil
}

func (m *MemoryStore) ResolveURL(_ context.Context, h Handle) (string, error) {
	if m.FailResolve != nil {
		if err := m.FailResolve(h.Key); err != nil {
			return "", err
		}
	}
	m.mu.Lock()
	_, ok := m.objects[h.Key]
	m.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("object %s not found", h.Key)
	}
	return m.BaseURL + "/" + h.Key, nil
}

func (m *MemoryStore) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[key]
	return b, ok
}

// Keys lists stored keys in sorted order.
func (m *MemoryStore) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.objects))
	for k := range m.objects {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
