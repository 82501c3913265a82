package docstore

import (
	"context"
	"sync"

	portsrepo "github.com/givetrack/givetrack_backend/internal/core/ports/repositories"
)

// CachingStore wraps a primary DocumentStore with a write-through in-process
// copy. Reads are served from the primary and fall back to the local copy when
// the primary is unavailable, so evidence stored during this process's
// lifetime stays retrievable across backend hiccups.
type CachingStore struct {
	primary portsrepo.DocumentStore

	mu    sync.RWMutex
	local map[string][]byte
}

// NewCachingStore wraps primary with a local write-through cache.
func NewCachingStore(primary portsrepo.DocumentStore) *CachingStore {
	return &CachingStore{
		primary: primary,
		local:   make(map[string][]byte),
	}
}

var _ portsrepo.DocumentStore = (*CachingStore)(nil)

// Add stores content in the primary and keeps a local copy keyed by the
// primary's hash.
func (s *CachingStore) Add(ctx context.Context, content []byte) (string, error) {
	hash, err := s.primary.Add(ctx, content)
	if err != nil {
		return "", err
	}

	stored := make([]byte, len(content))
	copy(stored, content)
	s.mu.Lock()
	s.local[hash] = stored
	s.mu.Unlock()
	return hash, nil
}

// Get retrieves content from the primary, falling back to the local copy.
func (s *CachingStore) Get(ctx context.Context, hash string) ([]byte, error) {
	content, err := s.primary.Get(ctx, hash)
	if err == nil {
		return content, nil
	}

	s.mu.RLock()
	stored, ok := s.local[hash]
	s.mu.RUnlock()
	if !ok {
		return nil, err
	}

	content = make([]byte, len(stored))
	copy(content, stored)
	return content, nil
}

// Pin delegates to the primary.
func (s *CachingStore) Pin(ctx context.Context, hash string) error {
	return s.primary.Pin(ctx, hash)
}

// Unpin delegates to the primary. The local copy is kept; it only lives as
// long as the process anyway.
func (s *CachingStore) Unpin(ctx context.Context, hash string) error {
	return s.primary.Unpin(ctx, hash)
}

// Mode reports the primary backend's mode.
func (s *CachingStore) Mode() string {
	return s.primary.Mode()
}
