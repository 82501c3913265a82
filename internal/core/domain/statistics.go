package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DonationStatistics is an aggregate over confirmed donations only.
// Pending and failed donations never count toward money-moved totals;
// refunded donations are excluded from current totals but kept in history.
type DonationStatistics struct {
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	TotalUSDAmount  decimal.Decimal `json:"totalUsdAmount"`
	TotalDonations  int64           `json:"totalDonations"`
	AverageAmount   decimal.Decimal `json:"averageAmount"`
	UniqueDonors    int64           `json:"uniqueDonors"`
	UniqueProjects  int64           `json:"uniqueProjects"`
	UniqueCharities int64           `json:"uniqueCharities"`
}

// StatisticsFilter narrows an aggregation. Zero values mean no filter.
type StatisticsFilter struct {
	DonorID   string
	ProjectID string
	CharityID string
	From      *time.Time
	To        *time.Time
}

// TopDonor is one leaderboard row. Anonymous donations contribute to
// aggregate totals but never surface a donor identity here.
type TopDonor struct {
	DonorID        string          `json:"donorID"`
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	TotalUSDAmount decimal.Decimal `json:"totalUsdAmount"`
	DonationCount  int64           `json:"donationCount"`
	LastDonation   time.Time       `json:"lastDonation"`
}

// MonthlyDonationBucket is one month of confirmed-donation volume.
type MonthlyDonationBucket struct {
	Year        int             `json:"year"`
	Month       time.Month      `json:"month"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Count       int64           `json:"count"`
}

// CharityOverview summarizes the charity catalog for administrators.
type CharityOverview struct {
	TotalCharities    int64           `json:"totalCharities"`
	VerifiedCharities int64           `json:"verifiedCharities"`
	PendingCharities  int64           `json:"pendingCharities"`
	TotalProjects     int64           `json:"totalProjects"`
	TotalReceived     decimal.Decimal `json:"totalReceived"`
}
