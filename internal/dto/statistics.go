package dto

import (
	"time"

	"github.com/givetrack/givetrack_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StatisticsParams defines query parameters for donation aggregates. All
// filters are optional and compose.
type StatisticsParams struct {
	DonorID   string     `form:"donorID"`
	ProjectID string     `form:"projectID"`
	CharityID string     `form:"charityID"`
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
}

// ToStatisticsFilter converts query params to a domain filter.
func (p StatisticsParams) ToStatisticsFilter() domain.StatisticsFilter {
	return domain.StatisticsFilter{
		DonorID:   p.DonorID,
		ProjectID: p.ProjectID,
		CharityID: p.CharityID,
		From:      p.From,
		To:        p.To,
	}
}

// DonationStatisticsResponse mirrors domain.DonationStatistics.
type DonationStatisticsResponse struct {
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	TotalUSDAmount  decimal.Decimal `json:"totalUsdAmount"`
	TotalDonations  int64           `json:"totalDonations"`
	AverageAmount   decimal.Decimal `json:"averageAmount"`
	UniqueDonors    int64           `json:"uniqueDonors"`
	UniqueProjects  int64           `json:"uniqueProjects"`
	UniqueCharities int64           `json:"uniqueCharities"`
}

// ToDonationStatisticsResponse converts domain statistics to the response DTO.
func ToDonationStatisticsResponse(s *domain.DonationStatistics) DonationStatisticsResponse {
	return DonationStatisticsResponse{
		TotalAmount:     s.TotalAmount,
		TotalUSDAmount:  s.TotalUSDAmount,
		TotalDonations:  s.TotalDonations,
		AverageAmount:   s.AverageAmount,
		UniqueDonors:    s.UniqueDonors,
		UniqueProjects:  s.UniqueProjects,
		UniqueCharities: s.UniqueCharities,
	}
}

// TopDonorResponse is one leaderboard row.
type TopDonorResponse struct {
	DonorID        string          `json:"donorID"`
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	TotalUSDAmount decimal.Decimal `json:"totalUsdAmount"`
	DonationCount  int64           `json:"donationCount"`
	LastDonation   time.Time       `json:"lastDonation"`
}

// MonthlyDonationResponse is one month of confirmed-donation volume.
type MonthlyDonationResponse struct {
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Count       int64           `json:"count"`
}

// PlatformOverviewResponse bundles the dashboard aggregates returned by the
// overview endpoint.
type PlatformOverviewResponse struct {
	Statistics       DonationStatisticsResponse `json:"statistics"`
	TopDonors        []TopDonorResponse         `json:"topDonors"`
	MonthlyDonations []MonthlyDonationResponse  `json:"monthlyDonations"`
}

// CharityOverviewResponse mirrors domain.CharityOverview.
type CharityOverviewResponse struct {
	TotalCharities    int64           `json:"totalCharities"`
	VerifiedCharities int64           `json:"verifiedCharities"`
	PendingCharities  int64           `json:"pendingCharities"`
	TotalProjects     int64           `json:"totalProjects"`
	TotalReceived     decimal.Decimal `json:"totalReceived"`
}

// ToCharityOverviewResponse converts a domain overview to the response DTO.
func ToCharityOverviewResponse(o *domain.CharityOverview) CharityOverviewResponse {
	return CharityOverviewResponse{
		TotalCharities:    o.TotalCharities,
		VerifiedCharities: o.VerifiedCharities,
		PendingCharities:  o.PendingCharities,
		TotalProjects:     o.TotalProjects,
		TotalReceived:     o.TotalReceived,
	}
}

// ToTopDonorResponses converts domain leaderboard rows to response DTOs.
func ToTopDonorResponses(donors []domain.TopDonor) []TopDonorResponse {
	out := make([]TopDonorResponse, 0, len(donors))
	for _, d := range donors {
		out = append(out, TopDonorResponse{
			DonorID:        d.DonorID,
			FirstName:      d.FirstName,
			LastName:       d.LastName,
			TotalAmount:    d.TotalAmount,
			TotalUSDAmount: d.TotalUSDAmount,
			DonationCount:  d.DonationCount,
			LastDonation:   d.LastDonation,
		})
	}
	return out
}

// ToMonthlyDonationResponses converts domain monthly buckets to response DTOs.
func ToMonthlyDonationResponses(buckets []domain.MonthlyDonationBucket) []MonthlyDonationResponse {
	out := make([]MonthlyDonationResponse, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, MonthlyDonationResponse{
			Year:        b.Year,
			Month:       int(b.Month),
			TotalAmount: b.TotalAmount,
			Count:       b.Count,
		})
	}
	return out
}
