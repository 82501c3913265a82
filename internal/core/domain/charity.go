package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CharityStatus indicates where a charity stands in the verification workflow.
type CharityStatus string

const (
	CharityPending   CharityStatus = "pending"
	CharityVerified  CharityStatus = "verified"
	CharityRejected  CharityStatus = "rejected"
	CharitySuspended CharityStatus = "suspended"
)

// CharityStats holds running totals maintained by the donation and milestone
// state machines via atomic increments. Never mutated directly.
type CharityStats struct {
	TotalReceived     decimal.Decimal `json:"totalReceived"`
	TotalProjects     int64           `json:"totalProjects"`
	CompletedProjects int64           `json:"completedProjects"`
	TotalDonors       int64           `json:"totalDonors"`
}

// Charity represents a registered organization. Registration creates it in
// pending status; only the verification workflow moves it from there.
// Charities are never hard-deleted; IsActive soft-deletes.
type Charity struct {
	CharityID          string        `json:"charityID"`
	Name               string        `json:"name"`
	Description        string        `json:"description"`
	Email              string        `json:"email"`
	Website            string        `json:"website"`
	Category           Category      `json:"category"`
	RegistrationNumber string        `json:"registrationNumber"` // Unique
	TaxID              string        `json:"taxID"`
	OwnerUserID        string        `json:"ownerUserID"`
	WalletAddress      string        `json:"walletAddress"` // Unique
	Status             CharityStatus `json:"status"`
	VerificationDate   *time.Time    `json:"verificationDate,omitempty"`
	VerifiedBy         *string       `json:"verifiedBy,omitempty"`
	RejectionReason    *string       `json:"rejectionReason,omitempty"`
	IsActive           bool          `json:"isActive"`
	Stats              CharityStats  `json:"stats"`
	AuditFields
}

// CanVerify reports whether the charity may transition to verified.
// pending -> verified on first review; suspended -> verified on reinstatement.
func (c *Charity) CanVerify() bool {
	return c.Status == CharityPending || c.Status == CharitySuspended
}

// CanReject reports whether the charity may transition to rejected.
// Rejection is terminal for the review cycle; corrected data means a new
// registration, not a reopened one.
func (c *Charity) CanReject() bool {
	return c.Status == CharityPending
}

// CanSuspend reports whether the charity may transition to suspended.
func (c *Charity) CanSuspend() bool {
	return c.Status == CharityVerified
}
