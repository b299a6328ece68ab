package keys

import (
	"encoding/hex"
	"sync"
)

// Store holds key pairs by the hex encoding of their uncompressed public
// point. It is safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	pairs map[string]*KeyPair
}

func NewStore() *Store {
	return &Store{pairs: make(map[string]*KeyPair)}
}

// Put adds kp and returns its handle.
func (s *Store) Put(kp *KeyPair) string {
	id := hex.EncodeToString(kp.Public().Bytes())

	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.pairs[id]; ok && old != kp {
		old.Destroy()
	}
	s.pairs[id] = kp
	return id
}

func (s *Store) Get(id string) (*KeyPair, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kp, ok := s.pairs[id]
	return kp, ok
}

// Forget destroys the key pair stored under id and removes it. It reports
// whether id was present.
func (s *Store) Forget(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	kp, ok := s.pairs[id]
	if !ok {
		return false
	}
	kp.Destroy()
	delete(s.pairs, id)
	return true
}

// Len returns the number of stored key pairs.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pairs)
}
