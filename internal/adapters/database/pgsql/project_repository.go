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

const projectColumns = `project_id, charity_id, title, description, short_description, category, target_amount, raised_amount, released_amount, deadline, status, featured, urgency, view_count, donor_count, created_at, created_by, last_updated_at, last_updated_by`

const milestoneColumns = `project_id, milestone_index, title, description, target_amount, status, evidence_hashes, submitted_at, reviewed_at, reviewed_by, review_notes`

type PgxProjectRepository struct {
	pool *pgxpool.Pool
}

// NewPgxProjectRepository creates a new repository for project and milestone data.
func NewPgxProjectRepository(pool *pgxpool.Pool) portsrepo.ProjectRepositoryFacade {
	return &PgxProjectRepository{pool: pool}
}

func scanProject(row pgx.Row) (*models.Project, error) {
	var p models.Project
	err := row.Scan(
		&p.ProjectID,
		&p.CharityID,
		&p.Title,
		&p.Description,
		&p.ShortDescription,
		&p.Category,
		&p.TargetAmount,
		&p.RaisedAmount,
		&p.ReleasedAmount,
		&p.Deadline,
		&p.Status,
		&p.Featured,
		&p.Urgency,
		&p.ViewCount,
		&p.DonorCount,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanMilestone(row pgx.Row) (*models.Milestone, error) {
	var m models.Milestone
	err := row.Scan(
		&m.ProjectID,
		&m.MilestoneIndex,
		&m.Title,
		&m.Description,
		&m.TargetAmount,
		&m.Status,
		&m.EvidenceHashes,
		&m.SubmittedAt,
		&m.ReviewedAt,
		&m.ReviewedBy,
		&m.ReviewNotes,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

type queryRunner interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func findMilestones(ctx context.Context, q queryRunner, projectID string) ([]models.Milestone, error) {
	rows, err := q.Query(ctx, `SELECT `+milestoneColumns+` FROM project_milestones WHERE project_id = $1 ORDER BY milestone_index;`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query milestones for project %s: %w", projectID, err)
	}
	defer rows.Close()

	milestones := []models.Milestone{}
	for rows.Next() {
		m, err := scanMilestone(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan milestone row: %w", err)
		}
		milestones = append(milestones, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating milestone rows: %w", err)
	}
	return milestones, nil
}

func findProjectWithMilestones(ctx context.Context, q queryRunner, projectID string) (*domain.Project, error) {
	m, err := scanProject(q.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE project_id = $1;`, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("project %s not found", projectID))
		}
		return nil, fmt.Errorf("failed to find project by ID %s: %w", projectID, err)
	}
	milestones, err := findMilestones(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	project := mapping.ToDomainProject(*m, milestones)
	return &project, nil
}

func insertMilestones(ctx context.Context, tx pgx.Tx, projectID string, milestones []domain.Milestone) error {
	if len(milestones) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `
		INSERT INTO project_milestones (` + milestoneColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	for _, d := range milestones {
		m := mapping.ToModelMilestone(projectID, d)
		batch.Queue(query,
			m.ProjectID, m.MilestoneIndex, m.Title, m.Description, m.TargetAmount,
			m.Status, m.EvidenceHashes, m.SubmittedAt, m.ReviewedAt, m.ReviewedBy, m.ReviewNotes,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to execute milestone batch for project %s: %w", projectID, err)
	}
	return nil
}

// SaveProject persists a new project with its milestone set and bumps the
// owning charity's project counter, all within one DB transaction.
func (r *PgxProjectRepository) SaveProject(ctx context.Context, project domain.Project) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	m := mapping.ToModelProject(project)
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err = tx.Exec(ctx, query,
		m.ProjectID, m.CharityID, m.Title, m.Description, m.ShortDescription,
		m.Category, m.TargetAmount, m.RaisedAmount, m.ReleasedAmount, m.Deadline,
		m.Status, m.Featured, m.Urgency, m.ViewCount, m.DonorCount,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert project %s: %w", m.ProjectID, err)
	}

	if err := insertMilestones(ctx, tx, project.ProjectID, project.Milestones); err != nil {
		return err
	}

	cmdTag, err := tx.Exec(ctx, `
		UPDATE charities
		SET total_projects = total_projects + 1, last_updated_at = $2, last_updated_by = $3
		WHERE charity_id = $1;
	`, m.CharityID, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to bump project counter for charity %s: %w", m.CharityID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("charity %s not found", m.CharityID))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit project %s: %w", m.ProjectID, err)
	}
	return nil
}

// FindProjectByID retrieves a project with its milestones.
func (r *PgxProjectRepository) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	return findProjectWithMilestones(ctx, r.pool, projectID)
}

// UpdateProject rewrites descriptive fields and, when replaceMilestones is
// set, swaps the whole milestone set. It never touches raised_amount,
// released_amount or charity_id.
func (r *PgxProjectRepository) UpdateProject(ctx context.Context, project domain.Project, replaceMilestones bool) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	m := mapping.ToModelProject(project)
	query := `
		UPDATE projects
		SET title = $2, description = $3, short_description = $4, target_amount = $5,
			deadline = $6, featured = $7, urgency = $8, last_updated_at = $9, last_updated_by = $10
		WHERE project_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.ProjectID, m.Title, m.Description, m.ShortDescription, m.TargetAmount,
		m.Deadline, m.Featured, m.Urgency, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update project %s: %w", m.ProjectID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("project %s not found", m.ProjectID))
	}

	if replaceMilestones {
		if _, err := tx.Exec(ctx, `DELETE FROM project_milestones WHERE project_id = $1;`, m.ProjectID); err != nil {
			return fmt.Errorf("failed to clear milestones for project %s: %w", m.ProjectID, err)
		}
		if err := insertMilestones(ctx, tx, project.ProjectID, project.Milestones); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit project %s update: %w", m.ProjectID, err)
	}
	return nil
}

// UpdateProjectStatus applies a lifecycle transition under a row lock. The
// current status must be in allowedFrom.
func (r *PgxProjectRepository) UpdateProjectStatus(ctx context.Context, projectID string, allowedFrom []domain.ProjectStatus, to domain.ProjectStatus, updatedBy string, updatedAt time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var current string
	err = tx.QueryRow(ctx, `SELECT status FROM projects WHERE project_id = $1 FOR UPDATE;`, projectID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFoundError(fmt.Sprintf("project %s not found", projectID))
		}
		return fmt.Errorf("failed to lock project %s: %w", projectID, err)
	}

	allowed := false
	for _, from := range allowedFrom {
		if domain.ProjectStatus(current) == from {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: project %s cannot move from %s to %s", apperrors.ErrInvalidTransition, projectID, current, to)
	}

	_, err = tx.Exec(ctx, `
		UPDATE projects
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE project_id = $1;
	`, projectID, string(to), updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update project %s status: %w", projectID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit project %s status change: %w", projectID, err)
	}
	return nil
}

// IncrementViewCount bumps the view counter without touching audit fields;
// a view is not an edit.
func (r *PgxProjectRepository) IncrementViewCount(ctx context.Context, projectID string) error {
	cmdTag, err := r.pool.Exec(ctx, `UPDATE projects SET view_count = view_count + 1 WHERE project_id = $1;`, projectID)
	if err != nil {
		return fmt.Errorf("failed to increment view count for project %s: %w", projectID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("project %s not found", projectID))
	}
	return nil
}

// lockMilestoneStatus locks one milestone row and returns its current status.
func lockMilestoneStatus(ctx context.Context, tx pgx.Tx, projectID string, milestoneIndex int) (domain.MilestoneStatus, error) {
	var status string
	err := tx.QueryRow(ctx, `
		SELECT status FROM project_milestones
		WHERE project_id = $1 AND milestone_index = $2
		FOR UPDATE;
	`, projectID, milestoneIndex).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewNotFoundError(fmt.Sprintf("milestone %d not found on project %s", milestoneIndex, projectID))
		}
		return "", fmt.Errorf("failed to lock milestone %d of project %s: %w", milestoneIndex, projectID, err)
	}
	return domain.MilestoneStatus(status), nil
}

// SubmitMilestone records evidence for a pending or rejected milestone.
// Resubmission after rejection replaces the previous evidence set.
func (r *PgxProjectRepository) SubmitMilestone(ctx context.Context, projectID string, milestoneIndex int, evidenceHashes []string, submittedBy string, submittedAt time.Time) (*domain.Project, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	status, err := lockMilestoneStatus(ctx, tx, projectID, milestoneIndex)
	if err != nil {
		return nil, err
	}
	if status != domain.MilestonePending && status != domain.MilestoneRejected {
		return nil, fmt.Errorf("%w: milestone %d of project %s cannot be submitted from %s", apperrors.ErrInvalidTransition, milestoneIndex, projectID, status)
	}

	_, err = tx.Exec(ctx, `
		UPDATE project_milestones
		SET status = $3, evidence_hashes = $4, submitted_at = $5,
			reviewed_at = NULL, reviewed_by = NULL, review_notes = NULL
		WHERE project_id = $1 AND milestone_index = $2;
	`, projectID, milestoneIndex, string(domain.MilestoneSubmitted), evidenceHashes, submittedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to submit milestone %d of project %s: %w", milestoneIndex, projectID, err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE projects SET last_updated_at = $2, last_updated_by = $3 WHERE project_id = $1;
	`, projectID, submittedAt, submittedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to touch project %s: %w", projectID, err)
	}

	project, err := findProjectWithMilestones(ctx, tx, projectID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit milestone submission: %w", err)
	}
	return project, nil
}

// ApproveMilestone releases the milestone's target amount under the
// released <= raised guard and flips the project to completed when the
// approval was the last outstanding one, all within one DB transaction.
func (r *PgxProjectRepository) ApproveMilestone(ctx context.Context, projectID string, milestoneIndex int, reviewerID string, notes *string, reviewedAt time.Time) (*domain.Project, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	// Lock the project row first: it owns the money totals. Milestone rows
	// are only ever locked after their project, which keeps lock order
	// consistent across SubmitMilestone and the donation transitions.
	var charityID, projectStatus string
	var raised, released decimal.Decimal
	err = tx.QueryRow(ctx, `
		SELECT charity_id, status, raised_amount, released_amount
		FROM projects WHERE project_id = $1 FOR UPDATE;
	`, projectID).Scan(&charityID, &projectStatus, &raised, &released)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("project %s not found", projectID))
		}
		return nil, fmt.Errorf("failed to lock project %s: %w", projectID, err)
	}

	status, err := lockMilestoneStatus(ctx, tx, projectID, milestoneIndex)
	if err != nil {
		return nil, err
	}
	if status != domain.MilestoneSubmitted {
		return nil, fmt.Errorf("%w: milestone %d of project %s cannot be approved from %s", apperrors.ErrInvalidTransition, milestoneIndex, projectID, status)
	}

	var milestoneTarget decimal.Decimal
	err = tx.QueryRow(ctx, `
		SELECT target_amount FROM project_milestones
		WHERE project_id = $1 AND milestone_index = $2;
	`, projectID, milestoneIndex).Scan(&milestoneTarget)
	if err != nil {
		return nil, fmt.Errorf("failed to read milestone %d target: %w", milestoneIndex, err)
	}

	newReleased := released.Add(milestoneTarget)
	if newReleased.GreaterThan(raised) {
		return nil, fmt.Errorf("%w: releasing %s would exceed raised amount %s on project %s",
			apperrors.ErrInsufficientFunds, newReleased.String(), raised.String(), projectID)
	}

	_, err = tx.Exec(ctx, `
		UPDATE project_milestones
		SET status = $3, reviewed_at = $4, reviewed_by = $5, review_notes = $6
		WHERE project_id = $1 AND milestone_index = $2;
	`, projectID, milestoneIndex, string(domain.MilestoneApproved), reviewedAt, reviewerID, notes)
	if err != nil {
		return nil, fmt.Errorf("failed to approve milestone %d of project %s: %w", milestoneIndex, projectID, err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE projects
		SET released_amount = $2, last_updated_at = $3, last_updated_by = $4
		WHERE project_id = $1;
	`, projectID, newReleased, reviewedAt, reviewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to update released amount for project %s: %w", projectID, err)
	}

	var remaining int64
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM project_milestones
		WHERE project_id = $1 AND status <> $2;
	`, projectID, string(domain.MilestoneApproved)).Scan(&remaining)
	if err != nil {
		return nil, fmt.Errorf("failed to count outstanding milestones for project %s: %w", projectID, err)
	}

	if remaining == 0 && domain.ProjectStatus(projectStatus) == domain.ProjectActive {
		_, err = tx.Exec(ctx, `
			UPDATE projects SET status = $2 WHERE project_id = $1;
		`, projectID, string(domain.ProjectCompleted))
		if err != nil {
			return nil, fmt.Errorf("failed to complete project %s: %w", projectID, err)
		}
		_, err = tx.Exec(ctx, `
			UPDATE charities
			SET completed_projects = completed_projects + 1, last_updated_at = $2, last_updated_by = $3
			WHERE charity_id = $1;
		`, charityID, reviewedAt, reviewerID)
		if err != nil {
			return nil, fmt.Errorf("failed to bump completed counter for charity %s: %w", charityID, err)
		}
	}

	project, err := findProjectWithMilestones(ctx, tx, projectID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit milestone approval: %w", err)
	}
	return project, nil
}

// RejectMilestone sends a submitted milestone back for resubmission with the
// reviewer's notes. No money moves.
func (r *PgxProjectRepository) RejectMilestone(ctx context.Context, projectID string, milestoneIndex int, reviewerID string, notes string, reviewedAt time.Time) (*domain.Project, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	status, err := lockMilestoneStatus(ctx, tx, projectID, milestoneIndex)
	if err != nil {
		return nil, err
	}
	if status != domain.MilestoneSubmitted {
		return nil, fmt.Errorf("%w: milestone %d of project %s cannot be rejected from %s", apperrors.ErrInvalidTransition, milestoneIndex, projectID, status)
	}

	_, err = tx.Exec(ctx, `
		UPDATE project_milestones
		SET status = $3, reviewed_at = $4, reviewed_by = $5, review_notes = $6
		WHERE project_id = $1 AND milestone_index = $2;
	`, projectID, milestoneIndex, string(domain.MilestoneRejected), reviewedAt, reviewerID, notes)
	if err != nil {
		return nil, fmt.Errorf("failed to reject milestone %d of project %s: %w", milestoneIndex, projectID, err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE projects SET last_updated_at = $2, last_updated_by = $3 WHERE project_id = $1;
	`, projectID, reviewedAt, reviewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to touch project %s: %w", projectID, err)
	}

	project, err := findProjectWithMilestones(ctx, tx, projectID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit milestone rejection: %w", err)
	}
	return project, nil
}

// ListProjects retrieves a filtered page of projects, each with its
// milestones, plus the total count.
func (r *PgxProjectRepository) ListProjects(ctx context.Context, filter domain.ProjectFilter) ([]domain.Project, int64, error) {
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
	if filter.CharityID != "" {
		conditions = append(conditions, fmt.Sprintf("charity_id = $%d", argPos))
		args = append(args, filter.CharityID)
		argPos++
	}
	if filter.Featured != nil {
		conditions = append(conditions, fmt.Sprintf("featured = $%d", argPos))
		args = append(args, *filter.Featured)
		argPos++
	}
	if filter.Urgency != "" {
		conditions = append(conditions, fmt.Sprintf("urgency = $%d", argPos))
		args = append(args, string(filter.Urgency))
		argPos++
	}
	where := strings.Join(conditions, " AND ")

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM projects WHERE `+where+`;`, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM projects WHERE %s ORDER BY featured DESC, created_at DESC LIMIT $%d OFFSET $%d;`, projectColumns, where, argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	projectModels := []models.Project{}
	projectIDs := []string{}
	for rows.Next() {
		m, err := scanProject(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan project row: %w", err)
		}
		projectModels = append(projectModels, *m)
		projectIDs = append(projectIDs, m.ProjectID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating project rows: %w", err)
	}

	milestonesByProject := map[string][]models.Milestone{}
	if len(projectIDs) > 0 {
		msRows, err := r.pool.Query(ctx, `
			SELECT `+milestoneColumns+` FROM project_milestones
			WHERE project_id = ANY($1) ORDER BY project_id, milestone_index;
		`, projectIDs)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to query milestones for project page: %w", err)
		}
		defer msRows.Close()
		for msRows.Next() {
			m, err := scanMilestone(msRows)
			if err != nil {
				return nil, 0, fmt.Errorf("failed to scan milestone row: %w", err)
			}
			milestonesByProject[m.ProjectID] = append(milestonesByProject[m.ProjectID], *m)
		}
		if err := msRows.Err(); err != nil {
			return nil, 0, fmt.Errorf("error iterating milestone rows: %w", err)
		}
	}

	projects := make([]domain.Project, 0, len(projectModels))
	for _, m := range projectModels {
		projects = append(projects, mapping.ToDomainProject(m, milestonesByProject[m.ProjectID]))
	}
	return projects, total, nil
}
