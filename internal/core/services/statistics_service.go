package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/givetrack/givetrack_backend/internal/core/domain"
	portsrepo "github.com/givetrack/givetrack_backend/internal/core/ports/repositories"
	portssvc "github.com/givetrack/givetrack_backend/internal/core/ports/services"
	"github.com/givetrack/givetrack_backend/internal/dto"
	"github.com/givetrack/givetrack_backend/internal/middleware"
)

// statisticsService implements the read-only aggregation service. Aggregates
// are computed in the database over confirmed donations; a TTL cache absorbs
// repeated dashboard queries. Stale reads within the TTL are acceptable.
type statisticsService struct {
	statsRepo portsrepo.StatisticsRepository
	cache     portsrepo.Cache // nil disables caching
	cacheTTL  time.Duration
}

// NewStatisticsService creates a new StatisticsService. cache may be nil.
func NewStatisticsService(statsRepo portsrepo.StatisticsRepository, cache portsrepo.Cache, cacheTTL time.Duration) portssvc.StatisticsSvcFacade {
	return &statisticsService{
		statsRepo: statsRepo,
		cache:     cache,
		cacheTTL:  cacheTTL,
	}
}

var _ portssvc.StatisticsSvcFacade = (*statisticsService)(nil)

// cacheKey builds a deterministic key from the filter fields.
func cacheKey(filter domain.StatisticsFilter) string {
	parts := []string{"stats:donations", filter.DonorID, filter.ProjectID, filter.CharityID}
	if filter.From != nil {
		parts = append(parts, filter.From.Format("2006-01-02"))
	} else {
		parts = append(parts, "")
	}
	if filter.To != nil {
		parts = append(parts, filter.To.Format("2006-01-02"))
	} else {
		parts = append(parts, "")
	}
	return strings.Join(parts, ":")
}

// GetDonationStatistics computes filtered aggregates over confirmed donations.
func (s *statisticsService) GetDonationStatistics(ctx context.Context, params dto.StatisticsParams) (*domain.DonationStatistics, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	filter := params.ToStatisticsFilter()
	key := cacheKey(filter)

	if s.cache != nil {
		if raw, ok, err := s.cache.Get(ctx, key); err != nil {
			logger.Warn("Statistics cache read failed", slog.String("error", err.Error()), slog.String("key", key))
		} else if ok {
			var cached domain.DonationStatistics
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
			logger.Warn("Discarding undecodable statistics cache entry", slog.String("key", key))
		}
	}

	stats, err := s.statsRepo.GetDonationStatistics(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to compute donation statistics: %w", err)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
				logger.Warn("Statistics cache write failed", slog.String("error", err.Error()), slog.String("key", key))
			}
		}
	}
	return stats, nil
}

// GetPlatformOverview bundles the unfiltered aggregates, the donor
// leaderboard and the monthly trend for the dashboard.
func (s *statisticsService) GetPlatformOverview(ctx context.Context, topDonorLimit int, months int) (*dto.PlatformOverviewResponse, error) {
	if topDonorLimit <= 0 || topDonorLimit > 50 {
		topDonorLimit = 10
	}
	if months <= 0 || months > 36 {
		months = 12
	}

	stats, err := s.GetDonationStatistics(ctx, dto.StatisticsParams{})
	if err != nil {
		return nil, err
	}
	topDonors, err := s.statsRepo.GetTopDonors(ctx, topDonorLimit, domain.StatisticsFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load top donors: %w", err)
	}
	monthly, err := s.statsRepo.GetMonthlyDonations(ctx, months)
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly donations: %w", err)
	}

	return &dto.PlatformOverviewResponse{
		Statistics:       dto.ToDonationStatisticsResponse(stats),
		TopDonors:        dto.ToTopDonorResponses(topDonors),
		MonthlyDonations: dto.ToMonthlyDonationResponses(monthly),
	}, nil
}

// GetCharityOverview summarizes the charity catalog. Admin or auditor only.
func (s *statisticsService) GetCharityOverview(ctx context.Context, caller domain.Caller) (*domain.CharityOverview, error) {
	if err := requireRole(caller, domain.RoleAdmin, domain.RoleAuditor); err != nil {
		return nil, err
	}
	overview, err := s.statsRepo.GetCharityOverview(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute charity overview: %w", err)
	}
	return overview, nil
}
