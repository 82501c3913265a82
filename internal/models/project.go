package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project represents a row in the projects table.
type Project struct {
	ProjectID        string          `db:"project_id"`
	CharityID        string          `db:"charity_id"`
	Title            string          `db:"title"`
	Description      string          `db:"description"`
	ShortDescription string          `db:"short_description"`
	Category         string          `db:"category"`
	TargetAmount     decimal.Decimal `db:"target_amount"`
	RaisedAmount     decimal.Decimal `db:"raised_amount"`
	ReleasedAmount   decimal.Decimal `db:"released_amount"`
	Deadline         time.Time       `db:"deadline"`
	Status           string          `db:"status"`
	Featured         bool            `db:"featured"`
	Urgency          string          `db:"urgency"`
	ViewCount        int64           `db:"view_count"`
	DonorCount       int64           `db:"donor_count"`
	AuditFields
}

// Milestone represents a row in the project_milestones table. The
// (project_id, milestone_index) pair is the primary key; index order is the
// release order.
type Milestone struct {
	ProjectID      string          `db:"project_id"`
	MilestoneIndex int             `db:"milestone_index"`
	Title          string          `db:"title"`
	Description    string          `db:"description"`
	TargetAmount   decimal.Decimal `db:"target_amount"`
	Status         string          `db:"status"`
	EvidenceHashes []string        `db:"evidence_hashes"`
	SubmittedAt    *time.Time      `db:"submitted_at"`
	ReviewedAt     *time.Time      `db:"reviewed_at"`
	ReviewedBy     *string         `db:"reviewed_by"`
	ReviewNotes    *string         `db:"review_notes"`
}
