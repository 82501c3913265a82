package domain

import "time"

// Document holds pinning metadata for an uploaded evidence file. The content
// itself lives in the content-addressed store; ContentHash is derived from the
// content bytes, so identical uploads deduplicate to one record.
type Document struct {
	ContentHash string    `json:"contentHash"`
	Filename    string    `json:"filename"`
	Size        int64     `json:"size"`
	MediaType   string    `json:"mediaType"`
	Pinned      bool      `json:"pinned"`
	PublicURL   string    `json:"publicURL"`
	UploadedBy  string    `json:"uploadedBy"`
	UploadedAt  time.Time `json:"uploadedAt"`
}
