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

// projectService implements the project lifecycle and the milestone release
// workflow.
type projectService struct {
	projectRepo portsrepo.ProjectRepositoryFacade
	charityRepo portsrepo.CharityRepositoryFacade
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo portsrepo.ProjectRepositoryFacade, charityRepo portsrepo.CharityRepositoryFacade) portssvc.ProjectSvcFacade {
	return &projectService{
		projectRepo: projectRepo,
		charityRepo: charityRepo,
	}
}

var _ portssvc.ProjectSvcFacade = (*projectService)(nil)

// buildMilestones converts milestone inputs to domain milestones, assigning
// indexes from slice order.
func buildMilestones(inputs []dto.MilestoneInput) ([]domain.Milestone, error) {
	milestones := make([]domain.Milestone, 0, len(inputs))
	for i, in := range inputs {
		if in.TargetAmount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: milestone %d target amount must be positive", apperrors.ErrValidation, i)
		}
		milestones = append(milestones, domain.Milestone{
			Index:          i,
			Title:          in.Title,
			Description:    in.Description,
			TargetAmount:   in.TargetAmount,
			Status:         domain.MilestonePending,
			EvidenceHashes: []string{},
		})
	}
	return milestones, nil
}

// CreateProject persists a new draft project under a verified charity owned
// by the caller.
func (s *projectService) CreateProject(ctx context.Context, req dto.CreateProjectRequest, caller domain.Caller) (*domain.Project, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	charity, err := s.charityRepo.FindCharityByID(ctx, req.CharityID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(caller, charity.OwnerUserID); err != nil {
		return nil, err
	}
	if charity.Status != domain.CharityVerified || !charity.IsActive {
		return nil, fmt.Errorf("%w: charity %s is not verified and active", apperrors.ErrValidation, req.CharityID)
	}

	if req.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: target amount must be positive", apperrors.ErrValidation)
	}
	now := time.Now().UTC()
	if !req.Deadline.After(now) {
		return nil, fmt.Errorf("%w: deadline must be in the future", apperrors.ErrValidation)
	}

	milestones, err := buildMilestones(req.Milestones)
	if err != nil {
		return nil, err
	}
	if !domain.ValidateMilestoneSum(req.TargetAmount, milestones) {
		return nil, fmt.Errorf("%w: milestone amounts do not add up to the project target", apperrors.ErrValidation)
	}

	urgency := domain.Urgency(req.Urgency)
	if urgency == "" {
		urgency = domain.UrgencyMedium
	}

	project := domain.Project{
		ProjectID:        uuid.NewString(),
		CharityID:        req.CharityID,
		Title:            req.Title,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Category:         domain.Category(req.Category),
		TargetAmount:     req.TargetAmount,
		RaisedAmount:     decimal.Zero,
		ReleasedAmount:   decimal.Zero,
		Deadline:         req.Deadline,
		Status:           domain.ProjectDraft,
		Milestones:       milestones,
		Urgency:          urgency,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     caller.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: caller.UserID,
		},
	}

	if err := s.projectRepo.SaveProject(ctx, project); err != nil {
		logger.Error("Failed to save project", slog.String("error", err.Error()), slog.String("project_id", project.ProjectID))
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	logger.Info("Project created", slog.String("project_id", project.ProjectID), slog.String("charity_id", req.CharityID))
	return &project, nil
}

// GetProjectByID retrieves a project and records the view. The view bump is
// best-effort; a failure never blocks the read.
func (s *projectService) GetProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if err := s.projectRepo.IncrementViewCount(ctx, projectID); err != nil {
		logger.Warn("Failed to increment project view count", slog.String("error", err.Error()), slog.String("project_id", projectID))
	} else {
		project.Stats.ViewCount++
	}
	return project, nil
}

// UpdateProject updates project details. Ownership, raised and released
// amounts are untouchable; milestone replacement is only allowed while the
// project is still a draft.
func (s *projectService) UpdateProject(ctx context.Context, projectID string, req dto.UpdateProjectRequest, caller domain.Caller) (*domain.Project, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	charity, err := s.charityRepo.FindCharityByID(ctx, project.CharityID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(caller, charity.OwnerUserID); err != nil {
		logger.Warn("Unauthorized project update attempt", slog.String("project_id", projectID), slog.String("caller_user_id", caller.UserID))
		return nil, err
	}

	if req.Title != nil {
		project.Title = *req.Title
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.ShortDescription != nil {
		project.ShortDescription = *req.ShortDescription
	}
	if req.TargetAmount != nil {
		if req.TargetAmount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: target amount must be positive", apperrors.ErrValidation)
		}
		project.TargetAmount = *req.TargetAmount
	}
	if req.Deadline != nil {
		project.Deadline = *req.Deadline
	}
	if req.Featured != nil {
		// Featuring is curation, not self-promotion.
		if err := requireRole(caller, domain.RoleAdmin); err != nil {
			return nil, err
		}
		project.Featured = *req.Featured
	}
	if req.Urgency != nil {
		project.Urgency = domain.Urgency(*req.Urgency)
	}

	replaceMilestones := false
	if req.Milestones != nil {
		if project.Status != domain.ProjectDraft {
			return nil, fmt.Errorf("%w: milestones can only be replaced while the project is a draft", apperrors.ErrValidation)
		}
		milestones, err := buildMilestones(req.Milestones)
		if err != nil {
			return nil, err
		}
		project.Milestones = milestones
		replaceMilestones = true
	}

	if !domain.ValidateMilestoneSum(project.TargetAmount, project.Milestones) {
		return nil, fmt.Errorf("%w: milestone amounts do not add up to the project target", apperrors.ErrValidation)
	}

	project.LastUpdatedAt = time.Now().UTC()
	project.LastUpdatedBy = caller.UserID

	if err := s.projectRepo.UpdateProject(ctx, *project, replaceMilestones); err != nil {
		logger.Error("Failed to update project", slog.String("error", err.Error()), slog.String("project_id", projectID))
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

// UpdateProjectStatus applies a lifecycle transition. Completion is never
// requested directly; it is derived from milestone approvals.
func (s *projectService) UpdateProjectStatus(ctx context.Context, projectID string, status domain.ProjectStatus, caller domain.Caller) (*domain.Project, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	charity, err := s.charityRepo.FindCharityByID(ctx, project.CharityID)
	if err != nil {
		return nil, err
	}

	var allowedFrom []domain.ProjectStatus
	switch status {
	case domain.ProjectActive:
		if err := requireOwner(caller, charity.OwnerUserID); err != nil {
			return nil, err
		}
		if charity.Status != domain.CharityVerified {
			return nil, fmt.Errorf("%w: only verified charities can activate projects", apperrors.ErrValidation)
		}
		allowedFrom = []domain.ProjectStatus{domain.ProjectDraft}
	case domain.ProjectCancelled:
		if err := requireOwner(caller, charity.OwnerUserID); err != nil {
			return nil, err
		}
		allowedFrom = []domain.ProjectStatus{domain.ProjectDraft, domain.ProjectActive}
	case domain.ProjectSuspended:
		if err := requireRole(caller, domain.RoleAdmin); err != nil {
			return nil, err
		}
		allowedFrom = []domain.ProjectStatus{domain.ProjectActive}
	default:
		return nil, fmt.Errorf("%w: status %s cannot be requested directly", apperrors.ErrInvalidTransition, status)
	}

	if err := s.projectRepo.UpdateProjectStatus(ctx, projectID, allowedFrom, status, caller.UserID, time.Now().UTC()); err != nil {
		return nil, err
	}

	logger.Info("Project status updated", slog.String("project_id", projectID), slog.String("status", string(status)))
	return s.projectRepo.FindProjectByID(ctx, projectID)
}

// SubmitMilestone attaches evidence to a pending or rejected milestone. Only
// the owning charity may submit, and only on an active project.
func (s *projectService) SubmitMilestone(ctx context.Context, projectID string, milestoneIndex int, req dto.SubmitMilestoneRequest, caller domain.Caller) (*domain.Project, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	charity, err := s.charityRepo.FindCharityByID(ctx, project.CharityID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(caller, charity.OwnerUserID); err != nil {
		return nil, err
	}
	if project.Status != domain.ProjectActive {
		return nil, fmt.Errorf("%w: milestones can only be submitted on active projects", apperrors.ErrValidation)
	}
	if milestoneIndex < 0 || milestoneIndex >= len(project.Milestones) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("milestone %d not found on project %s", milestoneIndex, projectID))
	}
	if len(req.EvidenceHashes) == 0 {
		return nil, fmt.Errorf("%w: milestone submission requires evidence", apperrors.ErrValidation)
	}

	updated, err := s.projectRepo.SubmitMilestone(ctx, projectID, milestoneIndex, req.EvidenceHashes, caller.UserID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	logger.Info("Milestone submitted", slog.String("project_id", projectID), slog.Int("milestone_index", milestoneIndex))
	return updated, nil
}

// ReviewMilestone approves or rejects a submitted milestone. Auditor or admin
// only. Approval releases the milestone's funds under the released <= raised
// guard; rejection requires notes and reopens the milestone for resubmission.
func (s *projectService) ReviewMilestone(ctx context.Context, projectID string, milestoneIndex int, req dto.ReviewMilestoneRequest, caller domain.Caller) (*domain.Project, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := requireRole(caller, domain.RoleAuditor); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if req.Approve {
		updated, err := s.projectRepo.ApproveMilestone(ctx, projectID, milestoneIndex, caller.UserID, req.Notes, now)
		if err != nil {
			return nil, err
		}
		metrics.MilestoneReviewsTotal.WithLabelValues("approved").Inc()
		logger.Info("Milestone approved", slog.String("project_id", projectID), slog.Int("milestone_index", milestoneIndex), slog.String("reviewer_id", caller.UserID))
		return updated, nil
	}

	if req.Notes == nil || *req.Notes == "" {
		return nil, fmt.Errorf("%w: milestone rejection requires notes", apperrors.ErrMissingReason)
	}
	updated, err := s.projectRepo.RejectMilestone(ctx, projectID, milestoneIndex, caller.UserID, *req.Notes, now)
	if err != nil {
		return nil, err
	}
	metrics.MilestoneReviewsTotal.WithLabelValues("rejected").Inc()
	logger.Info("Milestone rejected", slog.String("project_id", projectID), slog.Int("milestone_index", milestoneIndex), slog.String("reviewer_id", caller.UserID))
	return updated, nil
}

// ListProjects retrieves a paginated list of projects.
func (s *projectService) ListProjects(ctx context.Context, params dto.ListProjectsParams) (*dto.ListProjectsResponse, error) {
	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	filter := domain.ProjectFilter{
		Status:    domain.ProjectStatus(params.Status),
		Category:  domain.Category(params.Category),
		CharityID: params.CharityID,
		Featured:  params.Featured,
		Urgency:   domain.Urgency(params.Urgency),
		Limit:     limit,
		Offset:    offset,
	}

	projects, total, err := s.projectRepo.ListProjects(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	resp := dto.ListProjectsResponse{
		Projects: make([]dto.ProjectResponse, 0, len(projects)),
		Total:    total,
	}
	for i := range projects {
		resp.Projects = append(resp.Projects, dto.ToProjectResponse(&projects[i]))
	}
	return &resp, nil
}
