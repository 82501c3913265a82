package docstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	shell "github.com/ipfs/go-ipfs-api"

	portsrepo "github.com/givetrack/givetrack_backend/internal/core/ports/repositories"
)

// IPFSStore is the primary DocumentStore backend, talking to an IPFS node's
// HTTP API. Timeouts on the data operations are enforced through the
// underlying HTTP client because the shell's high-level calls do not thread
// contexts.
type IPFSStore struct {
	sh *shell.Shell
}

// NewIPFSStore creates an IPFS-backed store against apiURL with a bounded
// request timeout.
func NewIPFSStore(apiURL string, timeout time.Duration) *IPFSStore {
	client := &http.Client{Timeout: timeout}
	return &IPFSStore{sh: shell.NewShellWithClient(apiURL, client)}
}

var _ portsrepo.DocumentStore = (*IPFSStore)(nil)

// Probe checks that the node answers. Called once at startup to decide
// whether to fall back to the local store. Goes through the shell's request
// builder because the high-level ID() call does not thread the context.
func (s *IPFSStore) Probe(ctx context.Context) error {
	if err := s.sh.Request("id").Exec(ctx, nil); err != nil {
		return fmt.Errorf("ipfs node unreachable: %w", err)
	}
	return nil
}

// Add stores content and returns its CID.
func (s *IPFSStore) Add(ctx context.Context, content []byte) (string, error) {
	hash, err := s.sh.Add(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("failed to add content to ipfs: %w", err)
	}
	return hash, nil
}

// Get retrieves content by CID.
func (s *IPFSStore) Get(ctx context.Context, hash string) ([]byte, error) {
	rc, err := s.sh.Cat(hash)
	if err != nil {
		return nil, fmt.Errorf("failed to cat %s from ipfs: %w", hash, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from ipfs: %w", hash, err)
	}
	return content, nil
}

// Pin marks content for retention on the node.
func (s *IPFSStore) Pin(ctx context.Context, hash string) error {
	if err := s.sh.Pin(hash); err != nil {
		return fmt.Errorf("failed to pin %s: %w", hash, err)
	}
	return nil
}

// Unpin releases the retention mark; the node may garbage collect the content.
func (s *IPFSStore) Unpin(ctx context.Context, hash string) error {
	if err := s.sh.Unpin(hash); err != nil {
		return fmt.Errorf("failed to unpin %s: %w", hash, err)
	}
	return nil
}

// Mode identifies this backend for health reporting.
func (s *IPFSStore) Mode() string {
	return "ipfs"
}
