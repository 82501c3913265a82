package services

import (
	"context"

	"github.com/givetrack/givetrack_backend/internal/core/domain"
)

// DocumentSvcFacade defines the content-addressed evidence store service.
// When the primary backend is unreachable at startup the service runs in a
// degraded local mode with format-compatible hashes.
type DocumentSvcFacade interface {
	// UploadDocument stores content and returns its metadata. Identical
	// content yields the same content hash.
	UploadDocument(ctx context.Context, filename string, content []byte, caller domain.Caller) (*domain.Document, error)

	// GetDocument retrieves content by hash along with its sniffed media type.
	GetDocument(ctx context.Context, contentHash string) ([]byte, string, error)

	// PinDocument marks content for retention.
	PinDocument(ctx context.Context, contentHash string, caller domain.Caller) error

	// UnpinDocument releases a retention mark. Admin only.
	UnpinDocument(ctx context.Context, contentHash string, caller domain.Caller) error

	// StoreMode reports which backend is live ("ipfs" or "degraded-local").
	StoreMode() string
}
