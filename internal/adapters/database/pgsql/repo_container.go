package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/givetrack/givetrack_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all pgx-backed repositories over one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CharityRepo:  NewPgxCharityRepository(dbPool),
		ProjectRepo:  NewPgxProjectRepository(dbPool),
		DonationRepo: NewPgxDonationRepository(dbPool),
		StatsRepo:    NewPgxStatisticsRepository(dbPool),
	}
}
