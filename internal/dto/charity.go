package dto

import (
	"time"

	"github.com/givetrack/givetrack_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RegisterCharityRequest defines the data needed to register a charity.
// Registration always produces a pending charity; verification is a separate
// workflow.
type RegisterCharityRequest struct {
	Name               string `json:"name" binding:"required"`
	Description        string `json:"description" binding:"required"`
	Email              string `json:"email" binding:"required,email"`
	Website            string `json:"website" binding:"omitempty,url"`
	Category           string `json:"category" binding:"required,oneof=education healthcare environment poverty disaster-relief animal-welfare human-rights arts-culture community-development other"`
	RegistrationNumber string `json:"registrationNumber" binding:"required"`
	TaxID              string `json:"taxID" binding:"required"`
	WalletAddress      string `json:"walletAddress" binding:"required,walletaddr"`
}

// UpdateCharityRequest defines the mutable descriptive fields of a charity.
// Status and stats are never updatable through this path.
type UpdateCharityRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Website     *string `json:"website" binding:"omitempty,url"`
	IsActive    *bool   `json:"isActive"`
}

// RejectCharityRequest carries the mandatory rejection reason.
type RejectCharityRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CharityStatsResponse mirrors domain.CharityStats.
type CharityStatsResponse struct {
	TotalReceived     decimal.Decimal `json:"totalReceived"`
	TotalProjects     int64           `json:"totalProjects"`
	CompletedProjects int64           `json:"completedProjects"`
	TotalDonors       int64           `json:"totalDonors"`
}

// CharityResponse defines the data returned for a charity.
type CharityResponse struct {
	CharityID          string               `json:"charityID"`
	Name               string               `json:"name"`
	Description        string               `json:"description"`
	Email              string               `json:"email"`
	Website            string               `json:"website"`
	Category           string               `json:"category"`
	RegistrationNumber string               `json:"registrationNumber"`
	TaxID              string               `json:"taxID"`
	OwnerUserID        string               `json:"ownerUserID"`
	WalletAddress      string               `json:"walletAddress"`
	Status             string               `json:"status"`
	VerificationDate   *time.Time           `json:"verificationDate,omitempty"`
	VerifiedBy         *string              `json:"verifiedBy,omitempty"`
	RejectionReason    *string              `json:"rejectionReason,omitempty"`
	IsActive           bool                 `json:"isActive"`
	Stats              CharityStatsResponse `json:"stats"`
	CreatedAt          time.Time            `json:"createdAt"`
	LastUpdatedAt      time.Time            `json:"lastUpdatedAt"`
}

// ToCharityResponse converts a domain.Charity to a CharityResponse DTO.
func ToCharityResponse(c *domain.Charity) CharityResponse {
	return CharityResponse{
		CharityID:          c.CharityID,
		Name:               c.Name,
		Description:        c.Description,
		Email:              c.Email,
		Website:            c.Website,
		Category:           string(c.Category),
		RegistrationNumber: c.RegistrationNumber,
		TaxID:              c.TaxID,
		OwnerUserID:        c.OwnerUserID,
		WalletAddress:      c.WalletAddress,
		Status:             string(c.Status),
		VerificationDate:   c.VerificationDate,
		VerifiedBy:         c.VerifiedBy,
		RejectionReason:    c.RejectionReason,
		IsActive:           c.IsActive,
		Stats: CharityStatsResponse{
			TotalReceived:     c.Stats.TotalReceived,
			TotalProjects:     c.Stats.TotalProjects,
			CompletedProjects: c.Stats.CompletedProjects,
			TotalDonors:       c.Stats.TotalDonors,
		},
		CreatedAt:     c.CreatedAt,
		LastUpdatedAt: c.LastUpdatedAt,
	}
}

// ListCharitiesParams defines query parameters for listing charities.
type ListCharitiesParams struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending verified rejected suspended"`
	Category string `form:"category"`
	Search   string `form:"search"`
	Limit    int    `form:"limit,default=20"`
	Offset   int    `form:"offset,default=0"`
}

// ListCharitiesResponse wraps a charity listing with its total count.
type ListCharitiesResponse struct {
	Charities []CharityResponse `json:"charities"`
	Total     int64             `json:"total"`
}
