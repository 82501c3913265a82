package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectStatus indicates the state of a fundraising project.
type ProjectStatus string

const (
	ProjectDraft     ProjectStatus = "draft"
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectCancelled ProjectStatus = "cancelled"
	ProjectSuspended ProjectStatus = "suspended"
)

// MilestoneStatus indicates where a milestone stands in the release workflow.
type MilestoneStatus string

const (
	MilestonePending   MilestoneStatus = "pending"
	MilestoneSubmitted MilestoneStatus = "submitted"
	MilestoneApproved  MilestoneStatus = "approved"
	MilestoneRejected  MilestoneStatus = "rejected"
)

// Urgency prioritizes projects in listings.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// MilestoneSumTolerance is the allowed deviation between the sum of milestone
// target amounts and the project target amount.
var MilestoneSumTolerance = decimal.RequireFromString("0.01")

// Milestone is an ordered sub-entity of a Project gating fund release.
// Transitions are strictly forward except submitted -> rejected -> pending
// (resubmission).
type Milestone struct {
	Index          int             `json:"index"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	TargetAmount   decimal.Decimal `json:"targetAmount"`
	Status         MilestoneStatus `json:"status"`
	EvidenceHashes []string        `json:"evidenceHashes"` // Document content hashes
	SubmittedAt    *time.Time      `json:"submittedAt,omitempty"`
	ReviewedAt     *time.Time      `json:"reviewedAt,omitempty"`
	ReviewedBy     *string         `json:"reviewedBy,omitempty"`
	ReviewNotes    *string         `json:"reviewNotes,omitempty"`
}

// CanSubmit reports whether evidence may be submitted for this milestone.
func (m *Milestone) CanSubmit() bool {
	return m.Status == MilestonePending || m.Status == MilestoneRejected
}

// CanReview reports whether this milestone may be approved or rejected.
func (m *Milestone) CanReview() bool {
	return m.Status == MilestoneSubmitted
}

// ProjectStats holds read-side counters on a project.
type ProjectStats struct {
	ViewCount  int64 `json:"viewCount"`
	DonorCount int64 `json:"donorCount"`
}

// Project belongs to exactly one Charity; ownership is immutable after
// creation. RaisedAmount moves only on donation confirmation/refund,
// ReleasedAmount only on milestone approval, and ReleasedAmount never
// exceeds RaisedAmount.
type Project struct {
	ProjectID        string          `json:"projectID"`
	CharityID        string          `json:"charityID"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	ShortDescription string          `json:"shortDescription"`
	Category         Category        `json:"category"`
	TargetAmount     decimal.Decimal `json:"targetAmount"`
	RaisedAmount     decimal.Decimal `json:"raisedAmount"`
	ReleasedAmount   decimal.Decimal `json:"releasedAmount"`
	Deadline         time.Time       `json:"deadline"`
	Status           ProjectStatus   `json:"status"`
	Milestones       []Milestone     `json:"milestones"`
	Featured         bool            `json:"featured"`
	Urgency          Urgency         `json:"urgency"`
	Stats            ProjectStats    `json:"stats"`
	AuditFields
}

// ValidateMilestoneSum checks that the milestone target amounts add up to the
// project target amount within MilestoneSumTolerance. Enforced at every
// mutation of the milestone set.
func ValidateMilestoneSum(targetAmount decimal.Decimal, milestones []Milestone) bool {
	if len(milestones) == 0 {
		return true
	}
	sum := decimal.Zero
	for _, m := range milestones {
		sum = sum.Add(m.TargetAmount)
	}
	return sum.Sub(targetAmount).Abs().LessThanOrEqual(MilestoneSumTolerance)
}

// AllMilestonesApproved reports whether every milestone has been approved.
// Drives the derived draft->completed transition after the last approval.
func (p *Project) AllMilestonesApproved() bool {
	if len(p.Milestones) == 0 {
		return false
	}
	for _, m := range p.Milestones {
		if m.Status != MilestoneApproved {
			return false
		}
	}
	return true
}

// IsExpired reports whether the project deadline has passed.
func (p *Project) IsExpired() bool {
	return time.Now().After(p.Deadline)
}

// ProgressPercentage returns raised/target as a 0-100 percentage, capped at 100.
func (p *Project) ProgressPercentage() decimal.Decimal {
	if p.TargetAmount.IsZero() {
		return decimal.Zero
	}
	pct := p.RaisedAmount.Div(p.TargetAmount).Mul(decimal.NewFromInt(100))
	hundred := decimal.NewFromInt(100)
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}
