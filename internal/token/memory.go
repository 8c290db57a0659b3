package token

import "sync"

// MemoryStore keeps the token for the life of the process.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
	set   bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.set = token, true
	return nil
}

func (s *MemoryStore) Read() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.set
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.set = "", false
	return nil
}
