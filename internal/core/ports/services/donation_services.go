package services

import (
	"context"

	"github.com/givetrack/givetrack_backend/internal/core/domain"
	"github.com/givetrack/givetrack_backend/internal/dto"
)

// DonationReaderSvc defines read operations for donation data
type DonationReaderSvc interface {
	// GetDonationByID retrieves a specific donation by its ID.
	GetDonationByID(ctx context.Context, donationID string, caller domain.Caller) (*domain.Donation, error)

	// ListDonations retrieves a paginated list of donations.
	ListDonations(ctx context.Context, params dto.ListDonationsParams, caller domain.Caller) (*dto.ListDonationsResponse, error)
}

// DonationWriterSvc defines write operations for donation data
type DonationWriterSvc interface {
	// CreateDonation records a new pending pledge against an active project.
	CreateDonation(ctx context.Context, req dto.CreateDonationRequest, caller domain.Caller) (*domain.Donation, error)
}

// DonationSettlementSvc defines the settlement transitions driven by the
// external payment notifier.
type DonationSettlementSvc interface {
	// ConfirmDonation transitions pending -> confirmed and moves the money
	// into project and charity totals. Idempotent per transaction hash.
	ConfirmDonation(ctx context.Context, donationID string, req dto.ConfirmDonationRequest, caller domain.Caller) (*domain.Donation, error)

	// FailDonation transitions pending -> failed with a mandatory reason.
	FailDonation(ctx context.Context, donationID string, req dto.FailDonationRequest, caller domain.Caller) (*domain.Donation, error)

	// RefundDonation transitions confirmed -> refunded, backing the amount
	// out of the project's raised total. Admin only.
	RefundDonation(ctx context.Context, donationID string, req dto.RefundDonationRequest, caller domain.Caller) (*domain.Donation, error)
}

// DonationSvcFacade combines all donation-related service interfaces
// This is a facade for clients that need access to all operations
type DonationSvcFacade interface {
	DonationReaderSvc
	DonationWriterSvc
	DonationSettlementSvc
}
