package dto

import (
	"time"

	"github.com/givetrack/givetrack_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MilestoneInput defines one milestone in a create/update request. Indexes are
// assigned from slice order; the sum of target amounts must match the project
// target within the tolerance.
type MilestoneInput struct {
	Title        string          `json:"title" binding:"required"`
	Description  string          `json:"description" binding:"required"`
	TargetAmount decimal.Decimal `json:"targetAmount" binding:"required"`
}

// CreateProjectRequest defines the data needed to create a project. Projects
// always start as drafts.
type CreateProjectRequest struct {
	CharityID        string           `json:"charityID" binding:"required"`
	Title            string           `json:"title" binding:"required"`
	Description      string           `json:"description" binding:"required"`
	ShortDescription string           `json:"shortDescription" binding:"required,max=200"`
	Category         string           `json:"category" binding:"required,oneof=education healthcare environment poverty disaster-relief animal-welfare human-rights arts-culture community-development other"`
	TargetAmount     decimal.Decimal  `json:"targetAmount" binding:"required"`
	Deadline         time.Time        `json:"deadline" binding:"required"`
	Urgency          string           `json:"urgency" binding:"omitempty,oneof=low medium high critical"`
	Milestones       []MilestoneInput `json:"milestones" binding:"omitempty,dive"`
}

// UpdateProjectRequest defines the mutable fields of a project. Ownership and
// money-bearing fields are never updatable through this path. A non-nil
// Milestones replaces the whole milestone set.
type UpdateProjectRequest struct {
	Title            *string          `json:"title"`
	Description      *string          `json:"description"`
	ShortDescription *string          `json:"shortDescription" binding:"omitempty,max=200"`
	TargetAmount     *decimal.Decimal `json:"targetAmount"`
	Deadline         *time.Time       `json:"deadline"`
	Featured         *bool            `json:"featured"`
	Urgency          *string          `json:"urgency" binding:"omitempty,oneof=low medium high critical"`
	Milestones       []MilestoneInput `json:"milestones" binding:"omitempty,dive"`
}

// UpdateProjectStatusRequest requests a project lifecycle transition.
type UpdateProjectStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active cancelled suspended"`
}

// SubmitMilestoneRequest carries the evidence for a milestone submission.
type SubmitMilestoneRequest struct {
	EvidenceHashes []string `json:"evidenceHashes" binding:"required,min=1"`
}

// ReviewMilestoneRequest approves or rejects a submitted milestone. Notes are
// mandatory on rejection.
type ReviewMilestoneRequest struct {
	Approve bool    `json:"approve"`
	Notes   *string `json:"notes"`
}

// MilestoneResponse defines the data returned for a milestone.
type MilestoneResponse struct {
	Index          int             `json:"index"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	TargetAmount   decimal.Decimal `json:"targetAmount"`
	Status         string          `json:"status"`
	EvidenceHashes []string        `json:"evidenceHashes"`
	SubmittedAt    *time.Time      `json:"submittedAt,omitempty"`
	ReviewedAt     *time.Time      `json:"reviewedAt,omitempty"`
	ReviewedBy     *string         `json:"reviewedBy,omitempty"`
	ReviewNotes    *string         `json:"reviewNotes,omitempty"`
}

// ProjectStatsResponse mirrors domain.ProjectStats.
type ProjectStatsResponse struct {
	ViewCount  int64 `json:"viewCount"`
	DonorCount int64 `json:"donorCount"`
}

// ProjectResponse defines the data returned for a project.
type ProjectResponse struct {
	ProjectID          string               `json:"projectID"`
	CharityID          string               `json:"charityID"`
	Title              string               `json:"title"`
	Description        string               `json:"description"`
	ShortDescription   string               `json:"shortDescription"`
	Category           string               `json:"category"`
	TargetAmount       decimal.Decimal      `json:"targetAmount"`
	RaisedAmount       decimal.Decimal      `json:"raisedAmount"`
	ReleasedAmount     decimal.Decimal      `json:"releasedAmount"`
	ProgressPercentage decimal.Decimal      `json:"progressPercentage"`
	Deadline           time.Time            `json:"deadline"`
	Status             string               `json:"status"`
	Milestones         []MilestoneResponse  `json:"milestones"`
	Featured           bool                 `json:"featured"`
	Urgency            string               `json:"urgency"`
	Stats              ProjectStatsResponse `json:"stats"`
	CreatedAt          time.Time            `json:"createdAt"`
	LastUpdatedAt      time.Time            `json:"lastUpdatedAt"`
}

// ToProjectResponse converts a domain.Project to a ProjectResponse DTO.
func ToProjectResponse(p *domain.Project) ProjectResponse {
	milestones := make([]MilestoneResponse, 0, len(p.Milestones))
	for _, m := range p.Milestones {
		milestones = append(milestones, MilestoneResponse{
			Index:          m.Index,
			Title:          m.Title,
			Description:    m.Description,
			TargetAmount:   m.TargetAmount,
			Status:         string(m.Status),
			EvidenceHashes: m.EvidenceHashes,
			SubmittedAt:    m.SubmittedAt,
			ReviewedAt:     m.ReviewedAt,
			ReviewedBy:     m.ReviewedBy,
			ReviewNotes:    m.ReviewNotes,
		})
	}
	return ProjectResponse{
		ProjectID:          p.ProjectID,
		CharityID:          p.CharityID,
		Title:              p.Title,
		Description:        p.Description,
		ShortDescription:   p.ShortDescription,
		Category:           string(p.Category),
		TargetAmount:       p.TargetAmount,
		RaisedAmount:       p.RaisedAmount,
		ReleasedAmount:     p.ReleasedAmount,
		ProgressPercentage: p.ProgressPercentage(),
		Deadline:           p.Deadline,
		Status:             string(p.Status),
		Milestones:         milestones,
		Featured:           p.Featured,
		Urgency:            string(p.Urgency),
		Stats: ProjectStatsResponse{
			ViewCount:  p.Stats.ViewCount,
			DonorCount: p.Stats.DonorCount,
		},
		CreatedAt:     p.CreatedAt,
		LastUpdatedAt: p.LastUpdatedAt,
	}
}

// ListProjectsParams defines query parameters for listing projects.
type ListProjectsParams struct {
	Status    string `form:"status" binding:"omitempty,oneof=draft active completed cancelled suspended"`
	Category  string `form:"category"`
	CharityID string `form:"charityID"`
	Featured  *bool  `form:"featured"`
	Urgency   string `form:"urgency" binding:"omitempty,oneof=low medium high critical"`
	Limit     int    `form:"limit,default=20"`
	Offset    int    `form:"offset,default=0"`
}

// ListProjectsResponse wraps a project listing with its total count.
type ListProjectsResponse struct {
	Projects []ProjectResponse `json:"projects"`
	Total    int64             `json:"total"`
}
