package storage

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jdziat/simple-serial-queue/pkg/core"
	"github.com/jdziat/simple-serial-queue/pkg/security"
)

// MemoryStorage is a volatile Backend. Stores live as long as the backend,
// so reopening a name returns the same items, which is enough to simulate
// a process restart in tests.
type MemoryStorage struct {
	mu     sync.Mutex
	stores map[string]*memoryStore
	opts   options
}

// NewMemoryStorage creates an empty in-memory backend.
func NewMemoryStorage(opts ...Option) *MemoryStorage {
	return &MemoryStorage{
		stores: make(map[string]*memoryStore),
		opts:   buildOptions(opts),
	}
}

// Open returns the store for name, creating it on first use.
func (m *MemoryStorage) Open(_ context.Context, name string) (core.Store, error) {
	if err := security.ValidateStoreName(name); err != nil {
		return nil, core.WrapStorage("open", name, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if st, ok := m.stores[name]; ok {
		return st, nil
	}
	st := &memoryStore{
		name:   name,
		now:    m.opts.now,
		logger: m.opts.logger.With("store", name),
	}
	m.stores[name] = st
	return st, nil
}

// Close drops every store.
func (m *MemoryStorage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stores = make(map[string]*memoryStore)
	return nil
}

type memoryStore struct {
	mu     sync.Mutex
	name   string
	now    func() time.Time
	logger *slog.Logger
	items  []core.WorkItem
	nextID int64
	newest int64
}

func (s *memoryStore) Name() string { return s.name }

func (s *memoryStore) Append(_ context.Context, payload string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	item := core.WorkItem{
		ID:         s.nextID,
		EnqueuedAt: enqueueStamp(s.now(), s.newest),
		Payload:    payload,
	}
	s.newest = item.EnqueuedAt
	s.items = append(s.items, item)
	return item.ID, nil
}

func (s *memoryStore) PeekEarliest(_ context.Context) (*core.WorkItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		return nil, nil
	}
	item := s.items[0]
	return &item, nil
}

func (s *memoryStore) RemoveEarliest(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		s.logger.Debug("remove earliest on empty store")
		return nil
	}
	s.items = s.items[1:]
	return nil
}

func (s *memoryStore) Remove(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *memoryStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.items)), nil
}

func (s *memoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	return nil
}

func (s *memoryStore) List(_ context.Context, limit int) ([]*core.WorkItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.items)
	if limit > 0 && limit < n {
		n = limit
	}
	items := make([]*core.WorkItem, n)
	for i := 0; i < n; i++ {
		item := s.items[i]
		items[i] = &item
	}
	return items, nil
}

func (s *memoryStore) Close() error { return nil }

var (
	_ core.Backend = (*MemoryStorage)(nil)
	_ core.Store   = (*memoryStore)(nil)
	_ core.Lister  = (*memoryStore)(nil)
)
