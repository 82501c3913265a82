package docstore

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"

	"github.com/mr-tron/base58"

	"github.com/givetrack/givetrack_backend/internal/apperrors"
	portsrepo "github.com/givetrack/givetrack_backend/internal/core/ports/repositories"
)

// MemoryStore is the degraded-mode DocumentStore used when no IPFS node is
// reachable at startup. Hashes are CIDv0-formatted (base58btc over a sha256
// multihash), so identical content produces the same identifier a real node
// would, and uploads survive a later switch of backends.
type MemoryStore struct {
	mu      sync.RWMutex
	content map[string][]byte
	pinned  map[string]bool
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		content: make(map[string][]byte),
		pinned:  make(map[string]bool),
	}
}

var _ portsrepo.DocumentStore = (*MemoryStore)(nil)

// hashContent derives the CIDv0 identifier: base58btc(0x12 || 0x20 || sha256(content)).
func hashContent(content []byte) string {
	digest := sha256.Sum256(content)
	multihash := append([]byte{0x12, 0x20}, digest[:]...)
	return base58.Encode(multihash)
}

// Add stores content keyed by its content hash. Duplicate content overwrites
// with identical bytes, so Add is idempotent.
func (s *MemoryStore) Add(ctx context.Context, content []byte) (string, error) {
	hash := hashContent(content)
	stored := make([]byte, len(content))
	copy(stored, content)

	s.mu.Lock()
	s.content[hash] = stored
	s.mu.Unlock()
	return hash, nil
}

// Get retrieves content by hash.
func (s *MemoryStore) Get(ctx context.Context, hash string) ([]byte, error) {
	s.mu.RLock()
	stored, ok := s.content[hash]
	s.mu.RUnlock()
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("content %s not found", hash))
	}

	content := make([]byte, len(stored))
	copy(content, stored)
	return content, nil
}

// Pin marks content for retention.
func (s *MemoryStore) Pin(ctx context.Context, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.content[hash]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("content %s not found", hash))
	}
	s.pinned[hash] = true
	return nil
}

// Unpin releases a retention mark.
func (s *MemoryStore) Unpin(ctx context.Context, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.content[hash]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("content %s not found", hash))
	}
	delete(s.pinned, hash)
	return nil
}

// IsPinned reports whether content is currently pinned.
func (s *MemoryStore) IsPinned(hash string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pinned[hash]
}

// Mode identifies this backend for health reporting.
func (s *MemoryStore) Mode() string {
	return "degraded-local"
}
