package services

import (
	portsrepo "github.com/givetrack/givetrack_backend/internal/core/ports/repositories"
	portssvc "github.com/givetrack/givetrack_backend/internal/core/ports/services"
	"github.com/givetrack/givetrack_backend/pkg/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies. cache may be nil when no cache backend is
// configured; docStore is whichever blob-store backend survived startup.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, cache portsrepo.Cache, docStore portsrepo.DocumentStore) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Charity = NewCharityService(repos.CharityRepo)
	container.Project = NewProjectService(repos.ProjectRepo, repos.CharityRepo)
	container.Donation = NewDonationService(repos.DonationRepo, repos.ProjectRepo, repos.CharityRepo)
	container.Statistics = NewStatisticsService(repos.StatsRepo, cache, cfg.StatsCacheTTL)
	container.Document = NewDocumentService(docStore, cfg.IPFSGatewayURL)

	return container
}
