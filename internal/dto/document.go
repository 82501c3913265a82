package dto

import (
	"time"

	"github.com/givetrack/givetrack_backend/internal/core/domain"
)

// UploadDocumentResponse defines the data returned after a document upload.
// The content hash is stable for identical content regardless of backend.
type UploadDocumentResponse struct {
	ContentHash string    `json:"contentHash"`
	Filename    string    `json:"filename"`
	Size        int64     `json:"size"`
	MediaType   string    `json:"mediaType"`
	Pinned      bool      `json:"pinned"`
	PublicURL   string    `json:"publicURL,omitempty"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// ToUploadDocumentResponse converts a domain.Document to its upload response.
func ToUploadDocumentResponse(d *domain.Document) UploadDocumentResponse {
	return UploadDocumentResponse{
		ContentHash: d.ContentHash,
		Filename:    d.Filename,
		Size:        d.Size,
		MediaType:   d.MediaType,
		Pinned:      d.Pinned,
		PublicURL:   d.PublicURL,
		UploadedAt:  d.UploadedAt,
	}
}

// DocumentStoreStatusResponse reports which blob-store backend is live.
type DocumentStoreStatusResponse struct {
	Mode    string `json:"mode"`
	Healthy bool   `json:"healthy"`
}
