package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/givetrack/givetrack_backend/internal/core/domain"
)

func TestValidateMilestoneSum(t *testing.T) {
	tests := []struct {
		name         string
		targetAmount decimal.Decimal
		milestones   []domain.Milestone
		want         bool
	}{
		{
			name:         "no milestones is always valid",
			targetAmount: decimal.NewFromInt(1000),
			milestones:   nil,
			want:         true,
		},
		{
			name:         "exact sum",
			targetAmount: decimal.NewFromInt(1000),
			milestones: []domain.Milestone{
				{TargetAmount: decimal.NewFromInt(400)},
				{TargetAmount: decimal.NewFromInt(600)},
			},
			want: true,
		},
		{
			name:         "within tolerance",
			targetAmount: decimal.NewFromInt(1000),
			milestones: []domain.Milestone{
				{TargetAmount: decimal.RequireFromString("400.005")},
				{TargetAmount: decimal.RequireFromString("600.00")},
			},
			want: true,
		},
		{
			name:         "just past tolerance",
			targetAmount: decimal.NewFromInt(1000),
			milestones: []domain.Milestone{
				{TargetAmount: decimal.RequireFromString("400.02")},
				{TargetAmount: decimal.NewFromInt(600)},
			},
			want: false,
		},
		{
			name:         "sum well below target",
			targetAmount: decimal.NewFromInt(1000),
			milestones: []domain.Milestone{
				{TargetAmount: decimal.NewFromInt(100)},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.ValidateMilestoneSum(tt.targetAmount, tt.milestones)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProject_AllMilestonesApproved(t *testing.T) {
	tests := []struct {
		name       string
		milestones []domain.Milestone
		want       bool
	}{
		{
			name:       "no milestones never completes via approvals",
			milestones: nil,
			want:       false,
		},
		{
			name: "all approved",
			milestones: []domain.Milestone{
				{Status: domain.MilestoneApproved},
				{Status: domain.MilestoneApproved},
			},
			want: true,
		},
		{
			name: "one still submitted",
			milestones: []domain.Milestone{
				{Status: domain.MilestoneApproved},
				{Status: domain.MilestoneSubmitted},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := domain.Project{Milestones: tt.milestones}
			assert.Equal(t, tt.want, p.AllMilestonesApproved())
		})
	}
}

func TestProject_ProgressPercentage(t *testing.T) {
	tests := []struct {
		name   string
		target decimal.Decimal
		raised decimal.Decimal
		want   decimal.Decimal
	}{
		{
			name:   "zero target",
			target: decimal.Zero,
			raised: decimal.NewFromInt(50),
			want:   decimal.Zero,
		},
		{
			name:   "half funded",
			target: decimal.NewFromInt(200),
			raised: decimal.NewFromInt(100),
			want:   decimal.NewFromInt(50),
		},
		{
			name:   "overfunded caps at 100",
			target: decimal.NewFromInt(100),
			raised: decimal.NewFromInt(250),
			want:   decimal.NewFromInt(100),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := domain.Project{TargetAmount: tt.target, RaisedAmount: tt.raised}
			assert.True(t, tt.want.Equal(p.ProgressPercentage()), "got %s", p.ProgressPercentage())
		})
	}
}

func TestProject_IsExpired(t *testing.T) {
	past := domain.Project{Deadline: time.Now().Add(-time.Minute)}
	future := domain.Project{Deadline: time.Now().Add(time.Hour)}

	assert.True(t, past.IsExpired())
	assert.False(t, future.IsExpired())
}

func TestMilestone_Transitions(t *testing.T) {
	pending := domain.Milestone{Status: domain.MilestonePending}
	submitted := domain.Milestone{Status: domain.MilestoneSubmitted}
	rejected := domain.Milestone{Status: domain.MilestoneRejected}
	approved := domain.Milestone{Status: domain.MilestoneApproved}

	assert.True(t, pending.CanSubmit())
	assert.True(t, rejected.CanSubmit(), "rejected milestones reopen for resubmission")
	assert.False(t, submitted.CanSubmit())
	assert.False(t, approved.CanSubmit())

	assert.True(t, submitted.CanReview())
	assert.False(t, pending.CanReview())
	assert.False(t, approved.CanReview())
}
