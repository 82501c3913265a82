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
	"github.com/givetrack/givetrack_backend/internal/middleware"
)

// charityService implements the charity registration and verification workflow.
type charityService struct {
	charityRepo portsrepo.CharityRepositoryFacade
}

// NewCharityService creates a new CharityService.
func NewCharityService(charityRepo portsrepo.CharityRepositoryFacade) portssvc.CharitySvcFacade {
	return &charityService{charityRepo: charityRepo}
}

var _ portssvc.CharitySvcFacade = (*charityService)(nil)

// RegisterCharity persists a new charity in pending status, owned by the caller.
func (s *charityService) RegisterCharity(ctx context.Context, req dto.RegisterCharityRequest, caller domain.Caller) (*domain.Charity, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := requireRole(caller, domain.RoleCharity); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	charity := domain.Charity{
		CharityID:          uuid.NewString(),
		Name:               req.Name,
		Description:        req.Description,
		Email:              req.Email,
		Website:            req.Website,
		Category:           domain.Category(req.Category),
		RegistrationNumber: req.RegistrationNumber,
		TaxID:              req.TaxID,
		OwnerUserID:        caller.UserID,
		WalletAddress:      req.WalletAddress,
		Status:             domain.CharityPending,
		IsActive:           true,
		Stats: domain.CharityStats{
			TotalReceived: decimal.Zero,
		},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     caller.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: caller.UserID,
		},
	}

	if err := s.charityRepo.SaveCharity(ctx, charity); err != nil {
		logger.Error("Failed to save charity", slog.String("error", err.Error()), slog.String("charity_id", charity.CharityID))
		return nil, fmt.Errorf("failed to save charity: %w", err)
	}

	logger.Info("Charity registered", slog.String("charity_id", charity.CharityID), slog.String("owner_user_id", caller.UserID))
	return &charity, nil
}

// GetCharityByID retrieves a specific charity by its ID.
func (s *charityService) GetCharityByID(ctx context.Context, charityID string) (*domain.Charity, error) {
	charity, err := s.charityRepo.FindCharityByID(ctx, charityID)
	if err != nil {
		return nil, err
	}
	return charity, nil
}

// UpdateCharity updates descriptive charity details. Status, stats and the
// unique identifiers are never touched through this path.
func (s *charityService) UpdateCharity(ctx context.Context, charityID string, req dto.UpdateCharityRequest, caller domain.Caller) (*domain.Charity, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	charity, err := s.charityRepo.FindCharityByID(ctx, charityID)
	if err != nil {
		return nil, err
	}

	if err := requireOwner(caller, charity.OwnerUserID); err != nil {
		logger.Warn("Unauthorized charity update attempt", slog.String("charity_id", charityID), slog.String("caller_user_id", caller.UserID))
		return nil, err
	}

	if req.Name != nil {
		charity.Name = *req.Name
	}
	if req.Description != nil {
		charity.Description = *req.Description
	}
	if req.Email != nil {
		charity.Email = *req.Email
	}
	if req.Website != nil {
		charity.Website = *req.Website
	}
	if req.IsActive != nil {
		charity.IsActive = *req.IsActive
	}
	charity.LastUpdatedAt = time.Now().UTC()
	charity.LastUpdatedBy = caller.UserID

	if err := s.charityRepo.UpdateCharity(ctx, *charity); err != nil {
		logger.Error("Failed to update charity", slog.String("error", err.Error()), slog.String("charity_id", charityID))
		return nil, fmt.Errorf("failed to update charity: %w", err)
	}
	return charity, nil
}

// VerifyCharity transitions pending|suspended -> verified. Admin only. The
// current-status check runs under a row lock, so of two racing reviews exactly
// one wins.
func (s *charityService) VerifyCharity(ctx context.Context, charityID string, caller domain.Caller) (*domain.Charity, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := requireRole(caller, domain.RoleAdmin); err != nil {
		return nil, err
	}

	verifiedBy := caller.UserID
	charity, err := s.charityRepo.UpdateCharityStatus(ctx, charityID,
		[]domain.CharityStatus{domain.CharityPending, domain.CharitySuspended},
		domain.CharityVerified, &verifiedBy, nil, caller.UserID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	logger.Info("Charity verified", slog.String("charity_id", charityID), slog.String("verified_by", caller.UserID))
	return charity, nil
}

// RejectCharity transitions pending -> rejected with a mandatory reason.
// Admin only. Rejection is terminal; corrected paperwork means a fresh
// registration.
func (s *charityService) RejectCharity(ctx context.Context, charityID string, reason string, caller domain.Caller) (*domain.Charity, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := requireRole(caller, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection requires a reason", apperrors.ErrMissingReason)
	}

	charity, err := s.charityRepo.UpdateCharityStatus(ctx, charityID,
		[]domain.CharityStatus{domain.CharityPending},
		domain.CharityRejected, nil, &reason, caller.UserID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	logger.Info("Charity rejected", slog.String("charity_id", charityID), slog.String("rejected_by", caller.UserID))
	return charity, nil
}

// SuspendCharity transitions verified -> suspended. Admin only. Suspension
// blocks new projects and donations but keeps history intact.
func (s *charityService) SuspendCharity(ctx context.Context, charityID string, caller domain.Caller) (*domain.Charity, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := requireRole(caller, domain.RoleAdmin); err != nil {
		return nil, err
	}

	charity, err := s.charityRepo.UpdateCharityStatus(ctx, charityID,
		[]domain.CharityStatus{domain.CharityVerified},
		domain.CharitySuspended, nil, nil, caller.UserID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	logger.Info("Charity suspended", slog.String("charity_id", charityID), slog.String("suspended_by", caller.UserID))
	return charity, nil
}

// ListCharities retrieves a paginated list of charities.
func (s *charityService) ListCharities(ctx context.Context, params dto.ListCharitiesParams) (*dto.ListCharitiesResponse, error) {
	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	filter := domain.CharityFilter{
		Status:   domain.CharityStatus(params.Status),
		Category: domain.Category(params.Category),
		Search:   params.Search,
		Limit:    limit,
		Offset:   offset,
	}

	charities, total, err := s.charityRepo.ListCharities(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list charities: %w", err)
	}

	resp := dto.ListCharitiesResponse{
		Charities: make([]dto.CharityResponse, 0, len(charities)),
		Total:     total,
	}
	for i := range charities {
		resp.Charities = append(resp.Charities, dto.ToCharityResponse(&charities[i]))
	}
	return &resp, nil
}
