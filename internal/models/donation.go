package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Donation represents a row in the donations table.
type Donation struct {
	DonationID             string          `db:"donation_id"`
	DonorID                string          `db:"donor_id"`
	ProjectID              string          `db:"project_id"`
	CharityID              string          `db:"charity_id"`
	Amount                 decimal.Decimal `db:"amount"`
	Currency               string          `db:"currency"`
	ExchangeRate           decimal.Decimal `db:"exchange_rate"`
	USDAmount              decimal.Decimal `db:"usd_amount"`
	Message                string          `db:"message"`
	IsAnonymous            bool            `db:"is_anonymous"`
	Status                 string          `db:"status"`
	TransactionHash        *string         `db:"transaction_hash"`
	BlockNumber            *int64          `db:"block_number"`
	GasUsed                *int64          `db:"gas_used"`
	GasFee                 decimal.Decimal `db:"gas_fee"`
	DonorWalletAddress     string          `db:"donor_wallet_address"`
	RecipientWalletAddress string          `db:"recipient_wallet_address"`
	FailureReason          *string         `db:"failure_reason"`
	RefundReason           *string         `db:"refund_reason"`
	RefundTransactionHash  *string         `db:"refund_transaction_hash"`
	RefundedAt             *time.Time      `db:"refunded_at"`
	AuditFields
}
