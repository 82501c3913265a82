package services

import (
	"context"

	"github.com/givetrack/givetrack_backend/internal/core/domain"
	"github.com/givetrack/givetrack_backend/internal/dto"
)

// ProjectReaderSvc defines read operations for project data
type ProjectReaderSvc interface {
	// GetProjectByID retrieves a specific project and records the view.
	GetProjectByID(ctx context.Context, projectID string) (*domain.Project, error)

	// ListProjects retrieves a paginated list of projects.
	ListProjects(ctx context.Context, params dto.ListProjectsParams) (*dto.ListProjectsResponse, error)
}

// ProjectWriterSvc defines write operations for project data
type ProjectWriterSvc interface {
	// CreateProject persists a new draft project under a verified charity
	// owned by the caller.
	CreateProject(ctx context.Context, req dto.CreateProjectRequest, caller domain.Caller) (*domain.Project, error)

	// UpdateProject updates project details. Milestone replacement is only
	// allowed while the project is a draft.
	UpdateProject(ctx context.Context, projectID string, req dto.UpdateProjectRequest, caller domain.Caller) (*domain.Project, error)

	// UpdateProjectStatus applies a lifecycle transition (activate, cancel,
	// suspend). Completion is never requested directly; it is derived from
	// milestone approvals.
	UpdateProjectStatus(ctx context.Context, projectID string, status domain.ProjectStatus, caller domain.Caller) (*domain.Project, error)
}

// MilestoneSvc defines the milestone release workflow.
type MilestoneSvc interface {
	// SubmitMilestone attaches evidence to a pending or rejected milestone.
	// Only the owning charity may submit.
	SubmitMilestone(ctx context.Context, projectID string, milestoneIndex int, req dto.SubmitMilestoneRequest, caller domain.Caller) (*domain.Project, error)

	// ReviewMilestone approves or rejects a submitted milestone. Auditor or
	// admin only; approval releases funds, rejection requires notes.
	ReviewMilestone(ctx context.Context, projectID string, milestoneIndex int, req dto.ReviewMilestoneRequest, caller domain.Caller) (*domain.Project, error)
}

// ProjectSvcFacade combines all project-related service interfaces
// This is a facade for clients that need access to all operations
type ProjectSvcFacade interface {
	ProjectReaderSvc
	ProjectWriterSvc
	MilestoneSvc
}
