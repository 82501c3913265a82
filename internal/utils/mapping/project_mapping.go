package mapping

import (
	"github.com/givetrack/givetrack_backend/internal/core/domain"
	"github.com/givetrack/givetrack_backend/internal/models"
)

// ToModelProject converts a domain Project to a model Project.
// Milestones are mapped separately; they live in their own table.
func ToModelProject(d domain.Project) models.Project {
	return models.Project{
		ProjectID:        d.ProjectID,
		CharityID:        d.CharityID,
		Title:            d.Title,
		Description:      d.Description,
		ShortDescription: d.ShortDescription,
		Category:         string(d.Category),
		TargetAmount:     d.TargetAmount,
		RaisedAmount:     d.RaisedAmount,
		ReleasedAmount:   d.ReleasedAmount,
		Deadline:         d.Deadline,
		Status:           string(d.Status),
		Featured:         d.Featured,
		Urgency:          string(d.Urgency),
		ViewCount:        d.Stats.ViewCount,
		DonorCount:       d.Stats.DonorCount,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainProject converts a model Project plus its milestones to a domain Project.
func ToDomainProject(m models.Project, milestones []models.Milestone) domain.Project {
	return domain.Project{
		ProjectID:        m.ProjectID,
		CharityID:        m.CharityID,
		Title:            m.Title,
		Description:      m.Description,
		ShortDescription: m.ShortDescription,
		Category:         domain.Category(m.Category),
		TargetAmount:     m.TargetAmount,
		RaisedAmount:     m.RaisedAmount,
		ReleasedAmount:   m.ReleasedAmount,
		Deadline:         m.Deadline,
		Status:           domain.ProjectStatus(m.Status),
		Milestones:       ToDomainMilestoneSlice(milestones),
		Featured:         m.Featured,
		Urgency:          domain.Urgency(m.Urgency),
		Stats: domain.ProjectStats{
			ViewCount:  m.ViewCount,
			DonorCount: m.DonorCount,
		},
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelMilestone converts a domain Milestone to a model Milestone.
func ToModelMilestone(projectID string, d domain.Milestone) models.Milestone {
	return models.Milestone{
		ProjectID:      projectID,
		MilestoneIndex: d.Index,
		Title:          d.Title,
		Description:    d.Description,
		TargetAmount:   d.TargetAmount,
		Status:         string(d.Status),
		EvidenceHashes: d.EvidenceHashes,
		SubmittedAt:    d.SubmittedAt,
		ReviewedAt:     d.ReviewedAt,
		ReviewedBy:     d.ReviewedBy,
		ReviewNotes:    d.ReviewNotes,
	}
}

// ToDomainMilestone converts a model Milestone to a domain Milestone.
func ToDomainMilestone(m models.Milestone) domain.Milestone {
	return domain.Milestone{
		Index:          m.MilestoneIndex,
		Title:          m.Title,
		Description:    m.Description,
		TargetAmount:   m.TargetAmount,
		Status:         domain.MilestoneStatus(m.Status),
		EvidenceHashes: m.EvidenceHashes,
		SubmittedAt:    m.SubmittedAt,
		ReviewedAt:     m.ReviewedAt,
		ReviewedBy:     m.ReviewedBy,
		ReviewNotes:    m.ReviewNotes,
	}
}

// ToDomainMilestoneSlice converts model Milestones to domain Milestones.
func ToDomainMilestoneSlice(ms []models.Milestone) []domain.Milestone {
	ds := make([]domain.Milestone, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainMilestone(m)
	}
	return ds
}
