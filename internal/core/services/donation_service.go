package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/givetrack/givetrack_backend/internal/apperrors"
	"github.com/givetrack/givetrack_backend/internal/core/domain"
	portsrepo "github.com/givetrack/givetrack_backend/internal/core/ports/repositories"
	portssvc "github.com/givetrack/givetrack_backend/internal/core/ports/services"
	"github.com/givetrack/givetrack_backend/internal/dto"
	"github.com/givetrack/givetrack_backend/internal/metrics"
	"github.com/givetrack/givetrack_backend/internal/middleware"
)

// donationService implements the donation state machine. Creation freezes the
// core facts; settlement transitions and their ledger side effects run inside
// single repository transactions.
type donationService struct {
	donationRepo portsrepo.DonationRepositoryFacade
	projectRepo  portsrepo.ProjectRepositoryFacade
	charityRepo  portsrepo.CharityRepositoryFacade
}

// NewDonationService creates a new DonationService.
func NewDonationService(donationRepo portsrepo.DonationRepositoryFacade, projectRepo portsrepo.ProjectRepositoryFacade, charityRepo portsrepo.CharityRepositoryFacade) portssvc.DonationSvcFacade {
	return &donationService{
		donationRepo: donationRepo,
		projectRepo:  projectRepo,
		charityRepo:  charityRepo,
	}
}

var _ portssvc.DonationSvcFacade = (*donationService)(nil)

// CreateDonation records a new pending pledge against an active project. The
// charity reference and recipient wallet are resolved from the project at
// creation time and frozen on the donation.
func (s *donationService) CreateDonation(ctx context.Context, req dto.CreateDonationRequest, caller domain.Caller) (*domain.Donation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: donation amount must be positive", apperrors.ErrValidation)
	}
	if req.ExchangeRate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}

	project, err := s.projectRepo.FindProjectByID(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.Status != domain.ProjectActive {
		return nil, fmt.Errorf("%w: project %s is not accepting donations", apperrors.ErrValidation, req.ProjectID)
	}
	if project.IsExpired() {
		return nil, fmt.Errorf("%w: project %s deadline has passed", apperrors.ErrValidation, req.ProjectID)
	}

	charity, err := s.charityRepo.FindCharityByID(ctx, project.CharityID)
	if err != nil {
		return nil, err
	}
	if charity.Status != domain.CharityVerified || !charity.IsActive {
		return nil, fmt.Errorf("%w: charity %s is not accepting donations", apperrors.ErrValidation, project.CharityID)
	}

	now := time.Now().UTC()
	donation := domain.Donation{
		DonationID:             uuid.NewString(),
		DonorID:                caller.UserID,
		ProjectID:              project.ProjectID,
		CharityID:              project.CharityID,
		Amount:                 req.Amount,
		Currency:               domain.Currency(req.Currency),
		ExchangeRate:           req.ExchangeRate,
		USDAmount:              domain.ComputeUSDAmount(req.Amount, req.ExchangeRate),
		Message:                req.Message,
		IsAnonymous:            req.IsAnonymous,
		Status:                 domain.DonationPending,
		GasFee:                 decimal.Zero,
		DonorWalletAddress:     req.DonorWalletAddress,
		RecipientWalletAddress: charity.WalletAddress,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     caller.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: caller.UserID,
		},
	}

	if err := s.donationRepo.SaveDonation(ctx, donation); err != nil {
		logger.Error("Failed to save donation", slog.String("error", err.Error()), slog.String("donation_id", donation.DonationID))
		return nil, fmt.Errorf("failed to save donation: %w", err)
	}

	metrics.DonationsTotal.WithLabelValues("created").Inc()
	logger.Info("Donation created",
		slog.String("donation_id", donation.DonationID),
		slog.String("project_id", project.ProjectID),
		slog.String("amount", req.Amount.String()),
		slog.String("currency", req.Currency))
	return &donation, nil
}

// GetDonationByID retrieves a donation. Donors may only see their own;
// auditors and admins see everything.
func (s *donationService) GetDonationByID(ctx context.Context, donationID string, caller domain.Caller) (*domain.Donation, error) {
	donation, err := s.donationRepo.FindDonationByID(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if caller.Role == domain.RoleDonor && donation.DonorID != caller.UserID {
		return nil, fmt.Errorf("%w: caller may not view this donation", apperrors.ErrForbidden)
	}
	return donation, nil
}

// ConfirmDonation transitions pending -> confirmed and moves the money into
// project and charity totals in one transaction. Re-delivery of the same
// settlement notification is a no-op; a conflicting one is rejected.
func (s *donationService) ConfirmDonation(ctx context.Context, donationID string, req dto.ConfirmDonationRequest, caller domain.Caller) (*domain.Donation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := requireRole(caller, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if req.TransactionHash == "" {
		return nil, fmt.Errorf("%w: confirmation requires a transaction hash", apperrors.ErrValidation)
	}

	meta := domain.SettlementMeta{
		TransactionHash: req.TransactionHash,
		BlockNumber:     req.BlockNumber,
		GasUsed:         req.GasUsed,
		GasFee:          req.GasFee,
	}
	donation, err := s.donationRepo.ConfirmDonation(ctx, donationID, meta, caller.UserID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	metrics.DonationsTotal.WithLabelValues("confirmed").Inc()
	logger.Info("Donation confirmed",
		slog.String("donation_id", donationID),
		slog.String("transaction_hash", req.TransactionHash))
	return donation, nil
}

// FailDonation transitions pending -> failed with a mandatory reason. No
// ledger side effects; the money never arrived.
func (s *donationService) FailDonation(ctx context.Context, donationID string, req dto.FailDonationRequest, caller domain.Caller) (*domain.Donation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := requireRole(caller, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if req.Reason == "" {
		return nil, fmt.Errorf("%w: failing a donation requires a reason", apperrors.ErrMissingReason)
	}

	donation, err := s.donationRepo.FailDonation(ctx, donationID, req.Reason, caller.UserID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	metrics.DonationsTotal.WithLabelValues("failed").Inc()
	logger.Info("Donation failed", slog.String("donation_id", donationID), slog.String("reason", req.Reason))
	return donation, nil
}

// RefundDonation transitions confirmed -> refunded and backs the amount out
// of the project's raised total. Admin only.
func (s *donationService) RefundDonation(ctx context.Context, donationID string, req dto.RefundDonationRequest, caller domain.Caller) (*domain.Donation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := requireRole(caller, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if req.Reason == "" {
		return nil, fmt.Errorf("%w: refunding a donation requires a reason", apperrors.ErrMissingReason)
	}

	donation, err := s.donationRepo.RefundDonation(ctx, donationID, req.Reason, req.RefundTransactionHash, caller.UserID, time.Now().UTC())
	if err != nil {
		logger.Error("Failed to refund donation", slog.String("error", err.Error()), slog.String("donation_id", donationID))
		return nil, err
	}

	metrics.DonationsTotal.WithLabelValues("refunded").Inc()
	logger.Info("Donation refunded", slog.String("donation_id", donationID), slog.String("reason", req.Reason))
	return donation, nil
}

// ListDonations retrieves a paginated list of donations. Donors are always
// scoped to their own donations.
func (s *donationService) ListDonations(ctx context.Context, params dto.ListDonationsParams, caller domain.Caller) (*dto.ListDonationsResponse, error) {
	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	filter := domain.DonationFilter{
		Status:    domain.DonationStatus(params.Status),
		DonorID:   params.DonorID,
		ProjectID: params.ProjectID,
		CharityID: params.CharityID,
		Limit:     limit,
		Offset:    offset,
	}
	if caller.Role == domain.RoleDonor {
		filter.DonorID = caller.UserID
	}

	donations, total, err := s.donationRepo.ListDonations(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}

	revealDonor := caller.Role == domain.RoleAdmin || caller.Role == domain.RoleAuditor
	resp := dto.ListDonationsResponse{
		Donations: make([]dto.DonationResponse, 0, len(donations)),
		Total:     total,
	}
	for i := range donations {
		reveal := revealDonor || donations[i].DonorID == caller.UserID
		resp.Donations = append(resp.Donations, dto.ToDonationResponse(&donations[i], reveal))
	}
	return &resp, nil
}
