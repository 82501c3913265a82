package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/givetrack/givetrack_backend/internal/apperrors"
	"github.com/givetrack/givetrack_backend/internal/core/domain"
	portsrepo "github.com/givetrack/givetrack_backend/internal/core/ports/repositories"
	portssvc "github.com/givetrack/givetrack_backend/internal/core/ports/services"
	"github.com/givetrack/givetrack_backend/internal/metrics"
	"github.com/givetrack/givetrack_backend/internal/middleware"
)

// maxDocumentSize caps evidence uploads at 10 MiB.
const maxDocumentSize = 10 << 20

// documentService implements the content-addressed evidence store on top of
// an injected DocumentStore. Which backend is live (IPFS or the degraded
// local fallback) is decided once at startup.
type documentService struct {
	store      portsrepo.DocumentStore
	gatewayURL string
}

// NewDocumentService creates a new DocumentService. gatewayURL, when set,
// is used to build public URLs for stored content.
func NewDocumentService(store portsrepo.DocumentStore, gatewayURL string) portssvc.DocumentSvcFacade {
	return &documentService{
		store:      store,
		gatewayURL: gatewayURL,
	}
}

var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

// UploadDocument stores content, pins it and returns its metadata. Identical
// content yields the same content hash regardless of filename.
func (s *documentService) UploadDocument(ctx context.Context, filename string, content []byte, caller domain.Caller) (*domain.Document, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := requireRole(caller, domain.RoleCharity, domain.RoleAuditor); err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: document content is empty", apperrors.ErrValidation)
	}
	if len(content) > maxDocumentSize {
		return nil, fmt.Errorf("%w: document exceeds the %d byte limit", apperrors.ErrValidation, maxDocumentSize)
	}

	hash, err := s.store.Add(ctx, content)
	if err != nil {
		logger.Error("Failed to store document", slog.String("error", err.Error()), slog.String("filename", filename))
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	pinned := true
	if err := s.store.Pin(ctx, hash); err != nil {
		// Content is stored; a failed pin only weakens retention.
		logger.Warn("Failed to pin document", slog.String("error", err.Error()), slog.String("content_hash", hash))
		pinned = false
	}

	doc := domain.Document{
		ContentHash: hash,
		Filename:    filename,
		Size:        int64(len(content)),
		MediaType:   http.DetectContentType(content),
		Pinned:      pinned,
		UploadedBy:  caller.UserID,
		UploadedAt:  time.Now().UTC(),
	}
	if s.gatewayURL != "" {
		doc.PublicURL = fmt.Sprintf("%s/ipfs/%s", s.gatewayURL, hash)
	}

	metrics.DocumentsStoredTotal.WithLabelValues(s.store.Mode()).Inc()
	logger.Info("Document stored",
		slog.String("content_hash", hash),
		slog.String("mode", s.store.Mode()),
		slog.Int64("size", doc.Size))
	return &doc, nil
}

// GetDocument retrieves content by hash along with its sniffed media type.
func (s *documentService) GetDocument(ctx context.Context, contentHash string) ([]byte, string, error) {
	if contentHash == "" {
		return nil, "", fmt.Errorf("%w: content hash is required", apperrors.ErrValidation)
	}
	content, err := s.store.Get(ctx, contentHash)
	if err != nil {
		return nil, "", err
	}
	return content, http.DetectContentType(content), nil
}

// PinDocument marks content for retention.
func (s *documentService) PinDocument(ctx context.Context, contentHash string, caller domain.Caller) error {
	if err := requireRole(caller, domain.RoleCharity, domain.RoleAuditor); err != nil {
		return err
	}
	return s.store.Pin(ctx, contentHash)
}

// UnpinDocument releases a retention mark. Admin only; unpinned evidence may
// be garbage collected by the backend.
func (s *documentService) UnpinDocument(ctx context.Context, contentHash string, caller domain.Caller) error {
	if err := requireRole(caller, domain.RoleAdmin); err != nil {
		return err
	}
	return s.store.Unpin(ctx, contentHash)
}

// StoreMode reports which backend is live.
func (s *documentService) StoreMode() string {
	return s.store.Mode()
}
