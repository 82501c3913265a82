package dto

import (
	"time"

	"github.com/givetrack/givetrack_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateDonationRequest defines the data needed to record a pledge. The
// exchange rate is supplied by the caller at write time and frozen on the
// donation.
type CreateDonationRequest struct {
	ProjectID          string          `json:"projectID" binding:"required"`
	Amount             decimal.Decimal `json:"amount" binding:"required"`
	Currency           string          `json:"currency" binding:"required,oneof=ETH MATIC USD"`
	ExchangeRate       decimal.Decimal `json:"exchangeRate" binding:"required"`
	Message            string          `json:"message" binding:"max=500"`
	IsAnonymous        bool            `json:"isAnonymous"`
	DonorWalletAddress string          `json:"donorWalletAddress" binding:"required,walletaddr"`
}

// ConfirmDonationRequest carries the settlement data from the payment
// notifier. The transaction hash doubles as the idempotency key.
type ConfirmDonationRequest struct {
	TransactionHash string          `json:"transactionHash" binding:"required"`
	BlockNumber     *int64          `json:"blockNumber"`
	GasUsed         *int64          `json:"gasUsed"`
	GasFee          decimal.Decimal `json:"gasFee"`
}

// FailDonationRequest carries the mandatory failure reason.
type FailDonationRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// RefundDonationRequest carries the mandatory refund reason and the optional
// on-chain refund transaction hash.
type RefundDonationRequest struct {
	Reason                string  `json:"reason" binding:"required"`
	RefundTransactionHash *string `json:"refundTransactionHash"`
}

// DonationResponse defines the data returned for a donation. Donor identity
// is blanked for anonymous donations unless the caller may see it.
type DonationResponse struct {
	DonationID             string          `json:"donationID"`
	DonorID                string          `json:"donorID,omitempty"`
	ProjectID              string          `json:"projectID"`
	CharityID              string          `json:"charityID"`
	Amount                 decimal.Decimal `json:"amount"`
	Currency               string          `json:"currency"`
	ExchangeRate           decimal.Decimal `json:"exchangeRate"`
	USDAmount              decimal.Decimal `json:"usdAmount"`
	Message                string          `json:"message"`
	IsAnonymous            bool            `json:"isAnonymous"`
	Status                 string          `json:"status"`
	TransactionHash        *string         `json:"transactionHash,omitempty"`
	BlockNumber            *int64          `json:"blockNumber,omitempty"`
	GasUsed                *int64          `json:"gasUsed,omitempty"`
	GasFee                 decimal.Decimal `json:"gasFee"`
	DonorWalletAddress     string          `json:"donorWalletAddress,omitempty"`
	RecipientWalletAddress string          `json:"recipientWalletAddress"`
	FailureReason          *string         `json:"failureReason,omitempty"`
	RefundReason           *string         `json:"refundReason,omitempty"`
	RefundTransactionHash  *string         `json:"refundTransactionHash,omitempty"`
	RefundedAt             *time.Time      `json:"refundedAt,omitempty"`
	CreatedAt              time.Time       `json:"createdAt"`
	LastUpdatedAt          time.Time       `json:"lastUpdatedAt"`
}

// ToDonationResponse converts a domain.Donation to a DonationResponse DTO.
// When revealDonor is false the donor identity fields are omitted for
// anonymous donations.
func ToDonationResponse(d *domain.Donation, revealDonor bool) DonationResponse {
	resp := DonationResponse{
		DonationID:             d.DonationID,
		DonorID:                d.DonorID,
		ProjectID:              d.ProjectID,
		CharityID:              d.CharityID,
		Amount:                 d.Amount,
		Currency:               string(d.Currency),
		ExchangeRate:           d.ExchangeRate,
		USDAmount:              d.USDAmount,
		Message:                d.Message,
		IsAnonymous:            d.IsAnonymous,
		Status:                 string(d.Status),
		TransactionHash:        d.TransactionHash,
		BlockNumber:            d.BlockNumber,
		GasUsed:                d.GasUsed,
		GasFee:                 d.GasFee,
		DonorWalletAddress:     d.DonorWalletAddress,
		RecipientWalletAddress: d.RecipientWalletAddress,
		FailureReason:          d.FailureReason,
		RefundReason:           d.RefundReason,
		RefundTransactionHash:  d.RefundTransactionHash,
		RefundedAt:             d.RefundedAt,
		CreatedAt:              d.CreatedAt,
		LastUpdatedAt:          d.LastUpdatedAt,
	}
	if d.IsAnonymous && !revealDonor {
		resp.DonorID = ""
		resp.DonorWalletAddress = ""
	}
	return resp
}

// ListDonationsParams defines query parameters for listing donations.
type ListDonationsParams struct {
	Status    string `form:"status" binding:"omitempty,oneof=pending confirmed failed refunded"`
	DonorID   string `form:"donorID"`
	ProjectID string `form:"projectID"`
	CharityID string `form:"charityID"`
	Limit     int    `form:"limit,default=20"`
	Offset    int    `form:"offset,default=0"`
}

// ListDonationsResponse wraps a donation listing with its total count.
type ListDonationsResponse struct {
	Donations []DonationResponse `json:"donations"`
	Total     int64              `json:"total"`
}
