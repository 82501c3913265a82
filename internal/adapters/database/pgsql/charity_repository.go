package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/givetrack/givetrack_backend/internal/apperrors"
	"github.com/givetrack/givetrack_backend/internal/core/domain"
	portsrepo "github.com/givetrack/givetrack_backend/internal/core/ports/repositories"
	"github.com/givetrack/givetrack_backend/internal/models"
	"github.com/givetrack/givetrack_backend/internal/utils/mapping"
)

const charityColumns = `charity_id, name, description, email, website, category, registration_number, tax_id, owner_user_id, wallet_address, status, verification_date, verified_by, rejection_reason, is_active, total_received, total_projects, completed_projects, total_donors, created_at, created_by, last_updated_at, last_updated_by`

type PgxCharityRepository struct {
	pool *pgxpool.Pool
}

// NewPgxCharityRepository creates a new repository for charity data.
func NewPgxCharityRepository(pool *pgxpool.Pool) portsrepo.CharityRepositoryFacade {
	return &PgxCharityRepository{pool: pool}
}

func scanCharity(row pgx.Row) (*models.Charity, error) {
	var c models.Charity
	err := row.Scan(
		&c.CharityID,
		&c.Name,
		&c.Description,
		&c.Email,
		&c.Website,
		&c.Category,
		&c.RegistrationNumber,
		&c.TaxID,
		&c.OwnerUserID,
		&c.WalletAddress,
		&c.Status,
		&c.VerificationDate,
		&c.VerifiedBy,
		&c.RejectionReason,
		&c.IsActive,
		&c.TotalReceived,
		&c.TotalProjects,
		&c.CompletedProjects,
		&c.TotalDonors,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SaveCharity inserts a new charity row. Registration number and wallet
// address are unique; a collision maps to ErrDuplicate.
func (r *PgxCharityRepository) SaveCharity(ctx context.Context, charity domain.Charity) error {
	m := mapping.ToModelCharity(charity)
	query := `
		INSERT INTO charities (` + charityColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23);
	`
	_, err := r.pool.Exec(ctx, query,
		m.CharityID, m.Name, m.Description, m.Email, m.Website, m.Category,
		m.RegistrationNumber, m.TaxID, m.OwnerUserID, m.WalletAddress, m.Status,
		m.VerificationDate, m.VerifiedBy, m.RejectionReason, m.IsActive,
		m.TotalReceived, m.TotalProjects, m.CompletedProjects, m.TotalDonors,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: charity with the same registration number or wallet address exists", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert charity %s: %w", m.CharityID, err)
	}
	return nil
}

// FindCharityByID retrieves a charity by its ID.
func (r *PgxCharityRepository) FindCharityByID(ctx context.Context, charityID string) (*domain.Charity, error) {
	query := `SELECT ` + charityColumns + ` FROM charities WHERE charity_id = $1;`
	m, err := scanCharity(r.pool.QueryRow(ctx, query, charityID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("charity %s not found", charityID))
		}
		return nil, fmt.Errorf("failed to find charity by ID %s: %w", charityID, err)
	}
	charity := mapping.ToDomainCharity(*m)
	return &charity, nil
}

// UpdateCharity rewrites descriptive fields. Status, stats and the unique
// identifiers are deliberately excluded from the statement.
func (r *PgxCharityRepository) UpdateCharity(ctx context.Context, charity domain.Charity) error {
	m := mapping.ToModelCharity(charity)
	query := `
		UPDATE charities
		SET name = $2, description = $3, email = $4, website = $5, is_active = $6,
			last_updated_at = $7, last_updated_by = $8
		WHERE charity_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query,
		m.CharityID, m.Name, m.Description, m.Email, m.Website, m.IsActive,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update charity %s: %w", m.CharityID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("charity %s not found", m.CharityID))
	}
	return nil
}

// UpdateCharityStatus applies a verification workflow transition under a row
// lock. The current status must be in allowedFrom; of two racing reviewers
// exactly one commits.
func (r *PgxCharityRepository) UpdateCharityStatus(ctx context.Context, charityID string, allowedFrom []domain.CharityStatus, to domain.CharityStatus, verifiedBy *string, rejectionReason *string, updatedBy string, updatedAt time.Time) (*domain.Charity, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var current string
	err = tx.QueryRow(ctx, `SELECT status FROM charities WHERE charity_id = $1 FOR UPDATE;`, charityID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("charity %s not found", charityID))
		}
		return nil, fmt.Errorf("failed to lock charity %s: %w", charityID, err)
	}

	allowed := false
	for _, from := range allowedFrom {
		if domain.CharityStatus(current) == from {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: charity %s cannot move from %s to %s", apperrors.ErrInvalidTransition, charityID, current, to)
	}

	var verificationDate *time.Time
	if to == domain.CharityVerified {
		verificationDate = &updatedAt
	}
	_, err = tx.Exec(ctx, `
		UPDATE charities
		SET status = $2, verification_date = COALESCE($3, verification_date),
			verified_by = COALESCE($4, verified_by), rejection_reason = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE charity_id = $1;
	`, charityID, string(to), verificationDate, verifiedBy, rejectionReason, updatedAt, updatedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to update charity %s status: %w", charityID, err)
	}

	m, err := scanCharity(tx.QueryRow(ctx, `SELECT `+charityColumns+` FROM charities WHERE charity_id = $1;`, charityID))
	if err != nil {
		return nil, fmt.Errorf("failed to reread charity %s: %w", charityID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit charity %s status change: %w", charityID, err)
	}

	charity := mapping.ToDomainCharity(*m)
	return &charity, nil
}

// ListCharities retrieves a filtered page of charities with the total count.
func (r *PgxCharityRepository) ListCharities(ctx context.Context, filter domain.CharityFilter) ([]domain.Charity, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, string(filter.Status))
		argPos++
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argPos))
		args = append(args, string(filter.Category))
		argPos++
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+filter.Search+"%")
		argPos++
	}
	where := strings.Join(conditions, " AND ")

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM charities WHERE `+where+`;`, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count charities: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM charities WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d;`, charityColumns, where, argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query charities: %w", err)
	}
	defer rows.Close()

	charityModels := []models.Charity{}
	for rows.Next() {
		m, err := scanCharity(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan charity row: %w", err)
		}
		charityModels = append(charityModels, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating charity rows: %w", err)
	}

	return mapping.ToDomainCharitySlice(charityModels), total, nil
}
