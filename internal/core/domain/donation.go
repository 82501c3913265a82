package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DonationStatus indicates the state of a donation.
type DonationStatus string

const (
	DonationPending   DonationStatus = "pending"
	DonationConfirmed DonationStatus = "confirmed"
	DonationFailed    DonationStatus = "failed"
	DonationRefunded  DonationStatus = "refunded"
)

// SettlementMeta carries the external payment notifier's confirmation data.
// TransactionHash is the idempotency key for confirmations.
type SettlementMeta struct {
	TransactionHash string          `json:"transactionHash"`
	BlockNumber     *int64          `json:"blockNumber,omitempty"`
	GasUsed         *int64          `json:"gasUsed,omitempty"`
	GasFee          decimal.Decimal `json:"gasFee"`
}

// Donation records a single pledge. Core facts (donor, project, charity,
// amount, currency, wallet addresses) are immutable after creation; only
// status and settlement/refund metadata change. CharityID is denormalized
// from the project at creation time and is authoritative thereafter.
type Donation struct {
	DonationID             string          `json:"donationID"`
	DonorID                string          `json:"donorID"`
	ProjectID              string          `json:"projectID"`
	CharityID              string          `json:"charityID"`
	Amount                 decimal.Decimal `json:"amount"`
	Currency               Currency        `json:"currency"`
	ExchangeRate           decimal.Decimal `json:"exchangeRate"`
	USDAmount              decimal.Decimal `json:"usdAmount"`
	Message                string          `json:"message"`
	IsAnonymous            bool            `json:"isAnonymous"`
	Status                 DonationStatus  `json:"status"`
	TransactionHash        *string         `json:"transactionHash,omitempty"`
	BlockNumber            *int64          `json:"blockNumber,omitempty"`
	GasUsed                *int64          `json:"gasUsed,omitempty"`
	GasFee                 decimal.Decimal `json:"gasFee"`
	DonorWalletAddress     string          `json:"donorWalletAddress"`
	RecipientWalletAddress string          `json:"recipientWalletAddress"`
	FailureReason          *string         `json:"failureReason,omitempty"`
	RefundReason           *string         `json:"refundReason,omitempty"`
	RefundTransactionHash  *string         `json:"refundTransactionHash,omitempty"`
	RefundedAt             *time.Time      `json:"refundedAt,omitempty"`
	AuditFields
}

// ComputeUSDAmount derives the USD equivalent from amount and the exchange
// rate supplied at write time. Never recomputed retroactively for historical
// donations.
func ComputeUSDAmount(amount, exchangeRate decimal.Decimal) decimal.Decimal {
	return amount.Mul(exchangeRate)
}

// CanConfirm reports whether the donation may transition to confirmed.
func (d *Donation) CanConfirm() bool {
	return d.Status == DonationPending
}

// CanFail reports whether the donation may transition to failed.
func (d *Donation) CanFail() bool {
	return d.Status == DonationPending
}

// CanRefund reports whether the donation may transition to refunded.
func (d *Donation) CanRefund() bool {
	return d.Status == DonationConfirmed
}
