package services

import (
	"context"

	"github.com/givetrack/givetrack_backend/internal/core/domain"
	"github.com/givetrack/givetrack_backend/internal/dto"
)

// StatisticsSvcFacade defines the read-only aggregation service. All numbers
// derive from confirmed donations only.
type StatisticsSvcFacade interface {
	// GetDonationStatistics computes filtered aggregates over confirmed
	// donations.
	GetDonationStatistics(ctx context.Context, params dto.StatisticsParams) (*domain.DonationStatistics, error)

	// GetPlatformOverview bundles the unfiltered aggregates, the donor
	// leaderboard and the monthly trend for the dashboard.
	GetPlatformOverview(ctx context.Context, topDonorLimit int, months int) (*dto.PlatformOverviewResponse, error)

	// GetCharityOverview summarizes the charity catalog. Admin or auditor only.
	GetCharityOverview(ctx context.Context, caller domain.Caller) (*domain.CharityOverview, error)
}
