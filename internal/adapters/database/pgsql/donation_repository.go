package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/givetrack/givetrack_backend/internal/apperrors"
	"github.com/givetrack/givetrack_backend/internal/core/domain"
	portsrepo "github.com/givetrack/givetrack_backend/internal/core/ports/repositories"
	"github.com/givetrack/givetrack_backend/internal/models"
	"github.com/givetrack/givetrack_backend/internal/utils/mapping"
)

const donationColumns = `donation_id, donor_id, project_id, charity_id, amount, currency, exchange_rate, usd_amount, message, is_anonymous, status, transaction_hash, block_number, gas_used, gas_fee, donor_wallet_address, recipient_wallet_address, failure_reason, refund_reason, refund_transaction_hash, refunded_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxDonationRepository struct {
	pool *pgxpool.Pool
}

// NewPgxDonationRepository creates a new repository for donation data.
func NewPgxDonationRepository(pool *pgxpool.Pool) portsrepo.DonationRepositoryFacade {
	return &PgxDonationRepository{pool: pool}
}

func scanDonation(row pgx.Row) (*models.Donation, error) {
	var d models.Donation
	err := row.Scan(
		&d.DonationID,
		&d.DonorID,
		&d.ProjectID,
		&d.CharityID,
		&d.Amount,
		&d.Currency,
		&d.ExchangeRate,
		&d.USDAmount,
		&d.Message,
		&d.IsAnonymous,
		&d.Status,
		&d.TransactionHash,
		&d.BlockNumber,
		&d.GasUsed,
		&d.GasFee,
		&d.DonorWalletAddress,
		&d.RecipientWalletAddress,
		&d.FailureReason,
		&d.RefundReason,
		&d.RefundTransactionHash,
		&d.RefundedAt,
		&d.CreatedAt,
		&d.CreatedBy,
		&d.LastUpdatedAt,
		&d.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// SaveDonation inserts a new pending donation row. Creation has no ledger
// side effects; money only moves on confirmation.
func (r *PgxDonationRepository) SaveDonation(ctx context.Context, donation domain.Donation) error {
	m := mapping.ToModelDonation(donation)
	query := `
		INSERT INTO donations (` + donationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25);
	`
	_, err := r.pool.Exec(ctx, query,
		m.DonationID, m.DonorID, m.ProjectID, m.CharityID, m.Amount, m.Currency,
		m.ExchangeRate, m.USDAmount, m.Message, m.IsAnonymous, m.Status,
		m.TransactionHash, m.BlockNumber, m.GasUsed, m.GasFee,
		m.DonorWalletAddress, m.RecipientWalletAddress, m.FailureReason,
		m.RefundReason, m.RefundTransactionHash, m.RefundedAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert donation %s: %w", m.DonationID, err)
	}
	return nil
}

// FindDonationByID retrieves a donation by its ID.
func (r *PgxDonationRepository) FindDonationByID(ctx context.Context, donationID string) (*domain.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE donation_id = $1;`
	m, err := scanDonation(r.pool.QueryRow(ctx, query, donationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("donation %s not found", donationID))
		}
		return nil, fmt.Errorf("failed to find donation by ID %s: %w", donationID, err)
	}
	donation := mapping.ToDomainDonation(*m)
	return &donation, nil
}

// lockDonation locks one donation row and returns the fields the settlement
// transitions need.
func lockDonation(ctx context.Context, tx pgx.Tx, donationID string) (*models.Donation, error) {
	m, err := scanDonation(tx.QueryRow(ctx, `SELECT `+donationColumns+` FROM donations WHERE donation_id = $1 FOR UPDATE;`, donationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("donation %s not found", donationID))
		}
		return nil, fmt.Errorf("failed to lock donation %s: %w", donationID, err)
	}
	return m, nil
}

// ConfirmDonation transitions pending -> confirmed and applies the ledger
// side effects within one DB transaction: the project's raised amount grows
// by the donation amount, the charity's received total by the USD amount, and
// first-time donors bump the donor counters. Re-delivery with the same
// transaction hash is a no-op; a different hash is a conflict.
func (r *PgxDonationRepository) ConfirmDonation(ctx context.Context, donationID string, meta domain.SettlementMeta, updatedBy string, updatedAt time.Time) (*domain.Donation, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	m, err := lockDonation(ctx, tx, donationID)
	if err != nil {
		return nil, err
	}

	switch domain.DonationStatus(m.Status) {
	case domain.DonationConfirmed:
		if m.TransactionHash != nil && *m.TransactionHash == meta.TransactionHash {
			// Idempotent re-delivery of the same settlement notification.
			donation := mapping.ToDomainDonation(*m)
			return &donation, nil
		}
		return nil, fmt.Errorf("%w: donation %s already confirmed with a different transaction hash", apperrors.ErrConflictingSettlement, donationID)
	case domain.DonationPending:
		// proceed
	default:
		return nil, fmt.Errorf("%w: donation %s cannot be confirmed from %s", apperrors.ErrInvalidTransition, donationID, m.Status)
	}

	_, err = tx.Exec(ctx, `
		UPDATE donations
		SET status = $2, transaction_hash = $3, block_number = $4, gas_used = $5, gas_fee = $6,
			last_updated_at = $7, last_updated_by = $8
		WHERE donation_id = $1;
	`, donationID, string(domain.DonationConfirmed), meta.TransactionHash, meta.BlockNumber, meta.GasUsed, meta.GasFee, updatedAt, updatedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm donation %s: %w", donationID, err)
	}

	// Lock the project row before mutating its totals.
	var raised decimal.Decimal
	err = tx.QueryRow(ctx, `SELECT raised_amount FROM projects WHERE project_id = $1 FOR UPDATE;`, m.ProjectID).Scan(&raised)
	if err != nil {
		return nil, fmt.Errorf("failed to lock project %s: %w", m.ProjectID, err)
	}

	var priorToProject int64
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM donations
		WHERE project_id = $1 AND donor_id = $2 AND status = $3 AND donation_id <> $4;
	`, m.ProjectID, m.DonorID, string(domain.DonationConfirmed), donationID).Scan(&priorToProject)
	if err != nil {
		return nil, fmt.Errorf("failed to count prior donations to project %s: %w", m.ProjectID, err)
	}
	donorDelta := int64(0)
	if priorToProject == 0 {
		donorDelta = 1
	}

	_, err = tx.Exec(ctx, `
		UPDATE projects
		SET raised_amount = raised_amount + $2, donor_count = donor_count + $3
		WHERE project_id = $1;
	`, m.ProjectID, m.Amount, donorDelta)
	if err != nil {
		return nil, fmt.Errorf("failed to update raised amount for project %s: %w", m.ProjectID, err)
	}

	var priorToCharity int64
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM donations
		WHERE charity_id = $1 AND donor_id = $2 AND status = $3 AND donation_id <> $4;
	`, m.CharityID, m.DonorID, string(domain.DonationConfirmed), donationID).Scan(&priorToCharity)
	if err != nil {
		return nil, fmt.Errorf("failed to count prior donations to charity %s: %w", m.CharityID, err)
	}
	charityDonorDelta := int64(0)
	if priorToCharity == 0 {
		charityDonorDelta = 1
	}

	_, err = tx.Exec(ctx, `
		UPDATE charities
		SET total_received = total_received + $2, total_donors = total_donors + $3
		WHERE charity_id = $1;
	`, m.CharityID, m.USDAmount, charityDonorDelta)
	if err != nil {
		return nil, fmt.Errorf("failed to update received total for charity %s: %w", m.CharityID, err)
	}

	updated, err := scanDonation(tx.QueryRow(ctx, `SELECT `+donationColumns+` FROM donations WHERE donation_id = $1;`, donationID))
	if err != nil {
		return nil, fmt.Errorf("failed to reread donation %s: %w", donationID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit donation %s confirmation: %w", donationID, err)
	}

	donation := mapping.ToDomainDonation(*updated)
	return &donation, nil
}

// FailDonation transitions pending -> failed with the given reason. No
// ledger side effects.
func (r *PgxDonationRepository) FailDonation(ctx context.Context, donationID string, reason string, updatedBy string, updatedAt time.Time) (*domain.Donation, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	m, err := lockDonation(ctx, tx, donationID)
	if err != nil {
		return nil, err
	}
	if domain.DonationStatus(m.Status) != domain.DonationPending {
		return nil, fmt.Errorf("%w: donation %s cannot be failed from %s", apperrors.ErrInvalidTransition, donationID, m.Status)
	}

	_, err = tx.Exec(ctx, `
		UPDATE donations
		SET status = $2, failure_reason = $3, last_updated_at = $4, last_updated_by = $5
		WHERE donation_id = $1;
	`, donationID, string(domain.DonationFailed), reason, updatedAt, updatedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to fail donation %s: %w", donationID, err)
	}

	updated, err := scanDonation(tx.QueryRow(ctx, `SELECT `+donationColumns+` FROM donations WHERE donation_id = $1;`, donationID))
	if err != nil {
		return nil, fmt.Errorf("failed to reread donation %s: %w", donationID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit donation %s failure: %w", donationID, err)
	}

	donation := mapping.ToDomainDonation(*updated)
	return &donation, nil
}

// RefundDonation transitions confirmed -> refunded and backs the amount out
// of the project and charity totals within one DB transaction. A project
// decrement below zero aborts with ErrLedgerUnderflow and leaves every row
// untouched.
func (r *PgxDonationRepository) RefundDonation(ctx context.Context, donationID string, reason string, refundTxHash *string, updatedBy string, updatedAt time.Time) (*domain.Donation, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	m, err := lockDonation(ctx, tx, donationID)
	if err != nil {
		return nil, err
	}
	if domain.DonationStatus(m.Status) != domain.DonationConfirmed {
		return nil, fmt.Errorf("%w: donation %s cannot be refunded from %s", apperrors.ErrInvalidTransition, donationID, m.Status)
	}

	var raised decimal.Decimal
	err = tx.QueryRow(ctx, `SELECT raised_amount FROM projects WHERE project_id = $1 FOR UPDATE;`, m.ProjectID).Scan(&raised)
	if err != nil {
		return nil, fmt.Errorf("failed to lock project %s: %w", m.ProjectID, err)
	}

	newRaised := raised.Sub(m.Amount)
	if newRaised.IsNegative() {
		return nil, fmt.Errorf("%w: refunding %s would drive project %s raised amount below zero",
			apperrors.ErrLedgerUnderflow, m.Amount.String(), m.ProjectID)
	}

	_, err = tx.Exec(ctx, `
		UPDATE projects SET raised_amount = $2 WHERE project_id = $1;
	`, m.ProjectID, newRaised)
	if err != nil {
		return nil, fmt.Errorf("failed to update raised amount for project %s: %w", m.ProjectID, err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE charities SET total_received = total_received - $2 WHERE charity_id = $1;
	`, m.CharityID, m.USDAmount)
	if err != nil {
		return nil, fmt.Errorf("failed to update received total for charity %s: %w", m.CharityID, err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE donations
		SET status = $2, refund_reason = $3, refund_transaction_hash = $4, refunded_at = $5,
			last_updated_at = $5, last_updated_by = $6
		WHERE donation_id = $1;
	`, donationID, string(domain.DonationRefunded), reason, refundTxHash, updatedAt, updatedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to refund donation %s: %w", donationID, err)
	}

	updated, err := scanDonation(tx.QueryRow(ctx, `SELECT `+donationColumns+` FROM donations WHERE donation_id = $1;`, donationID))
	if err != nil {
		return nil, fmt.Errorf("failed to reread donation %s: %w", donationID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit donation %s refund: %w", donationID, err)
	}

	donation := mapping.ToDomainDonation(*updated)
	return &donation, nil
}

// ListDonations retrieves a filtered page of donations with the total count.
func (r *PgxDonationRepository) ListDonations(ctx context.Context, filter domain.DonationFilter) ([]domain.Donation, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, string(filter.Status))
		argPos++
	}
	if filter.DonorID != "" {
		conditions = append(conditions, fmt.Sprintf("donor_id = $%d", argPos))
		args = append(args, filter.DonorID)
		argPos++
	}
	if filter.ProjectID != "" {
		conditions = append(conditions, fmt.Sprintf("project_id = $%d", argPos))
		args = append(args, filter.ProjectID)
		argPos++
	}
	if filter.CharityID != "" {
		conditions = append(conditions, fmt.Sprintf("charity_id = $%d", argPos))
		args = append(args, filter.CharityID)
		argPos++
	}
	where := strings.Join(conditions, " AND ")

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM donations WHERE `+where+`;`, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count donations: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM donations WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d;`, donationColumns, where, argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query donations: %w", err)
	}
	defer rows.Close()

	donationModels := []models.Donation{}
	for rows.Next() {
		m, err := scanDonation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan donation row: %w", err)
		}
		donationModels = append(donationModels, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating donation rows: %w", err)
	}

	return mapping.ToDomainDonationSlice(donationModels), total, nil
}
