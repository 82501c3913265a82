package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Charity represents a row in the charities table.
type Charity struct {
	CharityID          string          `db:"charity_id"`
	Name               string          `db:"name"`
	Description        string          `db:"description"`
	Email              string          `db:"email"`
	Website            string          `db:"website"`
	Category           string          `db:"category"`
	RegistrationNumber string          `db:"registration_number"`
	TaxID              string          `db:"tax_id"`
	OwnerUserID        string          `db:"owner_user_id"`
	WalletAddress      string          `db:"wallet_address"`
	Status             string          `db:"status"`
	VerificationDate   *time.Time      `db:"verification_date"`
	VerifiedBy         *string         `db:"verified_by"`
	RejectionReason    *string         `db:"rejection_reason"`
	IsActive           bool            `db:"is_active"`
	TotalReceived      decimal.Decimal `db:"total_received"`
	TotalProjects      int64           `db:"total_projects"`
	CompletedProjects  int64           `db:"completed_projects"`
	TotalDonors        int64           `db:"total_donors"`
	AuditFields
}
