package secret

import "sync"

// Store persists SMB credentials per host/share. Implementations are
// safe for concurrent use.
type Store interface {
	Get(host, share string) (domain, user, pass string, found bool, err error)
	Set(host, share, domain, user, pass string) error
	Delete(host, share string) error
}

// Open returns the OS keyring store, or a process-local memory store
// when no keyring backend is available.
func Open() (Store, bool) {
	if s, err := NewKeyringStore(); err == nil {
		return s, true
	}
	return NewMemoryStore(), false
}

type record struct{ domain, user, pass string }

// MemoryStore keeps credentials for the life of the process.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]record
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]record)}
}

func (m *MemoryStore) Get(host, share string) (string, string, string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[makeKey(host, share)]
	return r.domain, r.user, r.pass, ok, nil
}

func (m *MemoryStore) Set(host, share, domain, user, pass string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[makeKey(host, share)] = record{domain, user, pass}
	return nil
}

func (m *MemoryStore) Delete(host, share string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, makeKey(host, share))
	return nil
}
