package pgsql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/givetrack/givetrack_backend/internal/core/domain"
	portsrepo "github.com/givetrack/givetrack_backend/internal/core/ports/repositories"
)

type PgxStatisticsRepository struct {
	pool *pgxpool.Pool
}

// NewPgxStatisticsRepository creates a new repository for aggregate queries.
// All aggregates run over confirmed donations only.
func NewPgxStatisticsRepository(pool *pgxpool.Pool) portsrepo.StatisticsRepository {
	return &PgxStatisticsRepository{pool: pool}
}

// buildStatsWhere assembles the confirmed-only WHERE clause plus the optional
// filter conditions. prefix qualifies the donation columns when the query
// joins other tables.
func buildStatsWhere(filter domain.StatisticsFilter, prefix string) (string, []interface{}) {
	conditions := []string{prefix + "status = 'confirmed'"}
	args := []interface{}{}
	argPos := 1

	if filter.DonorID != "" {
		conditions = append(conditions, fmt.Sprintf("%sdonor_id = $%d", prefix, argPos))
		args = append(args, filter.DonorID)
		argPos++
	}
	if filter.ProjectID != "" {
		conditions = append(conditions, fmt.Sprintf("%sproject_id = $%d", prefix, argPos))
		args = append(args, filter.ProjectID)
		argPos++
	}
	if filter.CharityID != "" {
		conditions = append(conditions, fmt.Sprintf("%scharity_id = $%d", prefix, argPos))
		args = append(args, filter.CharityID)
		argPos++
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("%screated_at >= $%d", prefix, argPos))
		args = append(args, *filter.From)
		argPos++
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("%screated_at < $%d", prefix, argPos))
		args = append(args, *filter.To)
		argPos++
	}
	return strings.Join(conditions, " AND "), args
}

// GetDonationStatistics computes the filtered aggregates in a single query.
func (r *PgxStatisticsRepository) GetDonationStatistics(ctx context.Context, filter domain.StatisticsFilter) (*domain.DonationStatistics, error) {
	where, args := buildStatsWhere(filter, "")
	query := `
		SELECT
			COALESCE(SUM(amount), 0),
			COALESCE(SUM(usd_amount), 0),
			COUNT(*),
			COALESCE(AVG(amount), 0),
			COUNT(DISTINCT donor_id),
			COUNT(DISTINCT project_id),
			COUNT(DISTINCT charity_id)
		FROM donations
		WHERE ` + where + `;
	`

	var stats domain.DonationStatistics
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&stats.TotalAmount,
		&stats.TotalUSDAmount,
		&stats.TotalDonations,
		&stats.AverageAmount,
		&stats.UniqueDonors,
		&stats.UniqueProjects,
		&stats.UniqueCharities,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute donation statistics: %w", err)
	}
	return &stats, nil
}

// GetTopDonors returns the donor leaderboard by confirmed USD volume.
// Anonymous donations count toward the platform totals but never appear here.
func (r *PgxStatisticsRepository) GetTopDonors(ctx context.Context, limit int, filter domain.StatisticsFilter) ([]domain.TopDonor, error) {
	where, args := buildStatsWhere(filter, "d.")
	where += " AND d.is_anonymous = FALSE"

	query := fmt.Sprintf(`
		SELECT d.donor_id, u.first_name, u.last_name,
			SUM(d.amount), SUM(d.usd_amount), COUNT(*), MAX(d.created_at)
		FROM donations d
		JOIN users u ON u.user_id = d.donor_id
		WHERE %s
		GROUP BY d.donor_id, u.first_name, u.last_name
		ORDER BY SUM(d.usd_amount) DESC
		LIMIT $%d;
	`, where, len(args)+1)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query top donors: %w", err)
	}
	defer rows.Close()

	donors := []domain.TopDonor{}
	for rows.Next() {
		var d domain.TopDonor
		if err := rows.Scan(&d.DonorID, &d.FirstName, &d.LastName, &d.TotalAmount, &d.TotalUSDAmount, &d.DonationCount, &d.LastDonation); err != nil {
			return nil, fmt.Errorf("failed to scan top donor row: %w", err)
		}
		donors = append(donors, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top donor rows: %w", err)
	}
	return donors, nil
}

// GetMonthlyDonations returns confirmed-donation volume bucketed by month for
// the trailing window.
func (r *PgxStatisticsRepository) GetMonthlyDonations(ctx context.Context, months int) ([]domain.MonthlyDonationBucket, error) {
	query := `
		SELECT
			EXTRACT(YEAR FROM date_trunc('month', created_at))::int,
			EXTRACT(MONTH FROM date_trunc('month', created_at))::int,
			COALESCE(SUM(amount), 0),
			COUNT(*)
		FROM donations
		WHERE status = 'confirmed'
			AND created_at >= date_trunc('month', now()) - make_interval(months => $1)
		GROUP BY date_trunc('month', created_at)
		ORDER BY date_trunc('month', created_at);
	`
	rows, err := r.pool.Query(ctx, query, months)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly donations: %w", err)
	}
	defer rows.Close()

	buckets := []domain.MonthlyDonationBucket{}
	for rows.Next() {
		var year, month int
		var b domain.MonthlyDonationBucket
		if err := rows.Scan(&year, &month, &b.TotalAmount, &b.Count); err != nil {
			return nil, fmt.Errorf("failed to scan monthly donation row: %w", err)
		}
		b.Year = year
		b.Month = time.Month(month)
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly donation rows: %w", err)
	}
	return buckets, nil
}

// GetCharityOverview summarizes the charity catalog in one query.
func (r *PgxStatisticsRepository) GetCharityOverview(ctx context.Context) (*domain.CharityOverview, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'verified'),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COALESCE(SUM(total_projects), 0),
			COALESCE(SUM(total_received), 0)
		FROM charities;
	`
	var overview domain.CharityOverview
	err := r.pool.QueryRow(ctx, query).Scan(
		&overview.TotalCharities,
		&overview.VerifiedCharities,
		&overview.PendingCharities,
		&overview.TotalProjects,
		&overview.TotalReceived,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute charity overview: %w", err)
	}
	return &overview, nil
}
