package services

import (
	"context"

	"github.com/givetrack/givetrack_backend/internal/core/domain"
	"github.com/givetrack/givetrack_backend/internal/dto"
)

// CharityReaderSvc defines read operations for charity data
type CharityReaderSvc interface {
	// GetCharityByID retrieves a specific charity by its ID.
	GetCharityByID(ctx context.Context, charityID string) (*domain.Charity, error)

	// ListCharities retrieves a paginated list of charities.
	ListCharities(ctx context.Context, params dto.ListCharitiesParams) (*dto.ListCharitiesResponse, error)
}

// CharityWriterSvc defines write operations for charity data
type CharityWriterSvc interface {
	// RegisterCharity persists a new charity in pending status, owned by the caller.
	RegisterCharity(ctx context.Context, req dto.RegisterCharityRequest, caller domain.Caller) (*domain.Charity, error)

	// UpdateCharity updates descriptive charity details (never status or stats).
	UpdateCharity(ctx context.Context, charityID string, req dto.UpdateCharityRequest, caller domain.Caller) (*domain.Charity, error)
}

// CharityVerifierSvc defines the verification workflow operations. All of
// them require the admin role.
type CharityVerifierSvc interface {
	// VerifyCharity transitions pending|suspended -> verified.
	VerifyCharity(ctx context.Context, charityID string, caller domain.Caller) (*domain.Charity, error)

	// RejectCharity transitions pending -> rejected with a mandatory reason.
	RejectCharity(ctx context.Context, charityID string, reason string, caller domain.Caller) (*domain.Charity, error)

	// SuspendCharity transitions verified -> suspended.
	SuspendCharity(ctx context.Context, charityID string, caller domain.Caller) (*domain.Charity, error)
}

// CharitySvcFacade combines all charity-related service interfaces
// This is a facade for clients that need access to all operations
type CharitySvcFacade interface {
	CharityReaderSvc
	CharityWriterSvc
	CharityVerifierSvc
}
