package repositories

import (
	"context"
	"time"

	"github.com/givetrack/givetrack_backend/internal/core/domain"
)

// CharityRepositoryFacade defines the persistence operations for Charities.
type CharityRepositoryFacade interface {
	SaveCharity(ctx context.Context, charity domain.Charity) error
	FindCharityByID(ctx context.Context, charityID string) (*domain.Charity, error)
	UpdateCharity(ctx context.Context, charity domain.Charity) error
	// UpdateCharityStatus applies a verification workflow transition. The
	// transition only succeeds if the row's current status is one of
	// allowedFrom; otherwise ErrInvalidTransition is returned. Exactly one
	// of two racing transitions wins.
	UpdateCharityStatus(ctx context.Context, charityID string, allowedFrom []domain.CharityStatus, to domain.CharityStatus, verifiedBy *string, rejectionReason *string, updatedBy string, updatedAt time.Time) (*domain.Charity, error)
	ListCharities(ctx context.Context, filter domain.CharityFilter) ([]domain.Charity, int64, error)
}

// ProjectRepositoryFacade defines the persistence operations for Projects and
// their embedded Milestones. Operations that touch money-bearing fields run
// as single row-locked transactions.
type ProjectRepositoryFacade interface {
	// SaveProject persists a new project with its milestone set and bumps the
	// owning charity's project counter in the same transaction.
	SaveProject(ctx context.Context, project domain.Project) error
	FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error)
	// UpdateProject rewrites descriptive fields and, when milestones is
	// non-nil, replaces the milestone set. It never touches raisedAmount,
	// releasedAmount or charityID.
	UpdateProject(ctx context.Context, project domain.Project, replaceMilestones bool) error
	UpdateProjectStatus(ctx context.Context, projectID string, allowedFrom []domain.ProjectStatus, to domain.ProjectStatus, updatedBy string, updatedAt time.Time) error
	IncrementViewCount(ctx context.Context, projectID string) error
	// SubmitMilestone records evidence for a pending or rejected milestone.
	SubmitMilestone(ctx context.Context, projectID string, milestoneIndex int, evidenceHashes []string, submittedBy string, submittedAt time.Time) (*domain.Project, error)
	// ApproveMilestone releases the milestone's target amount under the
	// releasedAmount <= raisedAmount guard, and flips the project to
	// completed (bumping the charity's completed counter) when the approval
	// was the last outstanding one. All inside one transaction.
	ApproveMilestone(ctx context.Context, projectID string, milestoneIndex int, reviewerID string, notes *string, reviewedAt time.Time) (*domain.Project, error)
	RejectMilestone(ctx context.Context, projectID string, milestoneIndex int, reviewerID string, notes string, reviewedAt time.Time) (*domain.Project, error)
	ListProjects(ctx context.Context, filter domain.ProjectFilter) ([]domain.Project, int64, error)
}

// DonationRepositoryFacade defines the persistence operations for Donations.
// Status transitions and their totals side effects are single logical
// transactions with current-state checks under row locks.
type DonationRepositoryFacade interface {
	SaveDonation(ctx context.Context, donation domain.Donation) error
	FindDonationByID(ctx context.Context, donationID string) (*domain.Donation, error)
	// ConfirmDonation transitions pending -> confirmed and applies the
	// project/charity totals increments atomically. Re-confirming with the
	// same transaction hash is a no-op; a different hash yields
	// ErrConflictingSettlement.
	ConfirmDonation(ctx context.Context, donationID string, meta domain.SettlementMeta, updatedBy string, updatedAt time.Time) (*domain.Donation, error)
	FailDonation(ctx context.Context, donationID string, reason string, updatedBy string, updatedAt time.Time) (*domain.Donation, error)
	// RefundDonation transitions confirmed -> refunded and decrements the
	// project's raised amount. A decrement below zero fails with
	// ErrLedgerUnderflow and leaves all rows untouched.
	RefundDonation(ctx context.Context, donationID string, reason string, refundTxHash *string, updatedBy string, updatedAt time.Time) (*domain.Donation, error)
	ListDonations(ctx context.Context, filter domain.DonationFilter) ([]domain.Donation, int64, error)
}

// StatisticsRepository defines read-only aggregate queries. Implementations
// must never mutate the entity store.
type StatisticsRepository interface {
	GetDonationStatistics(ctx context.Context, filter domain.StatisticsFilter) (*domain.DonationStatistics, error)
	GetTopDonors(ctx context.Context, limit int, filter domain.StatisticsFilter) ([]domain.TopDonor, error)
	GetMonthlyDonations(ctx context.Context, months int) ([]domain.MonthlyDonationBucket, error)
	GetCharityOverview(ctx context.Context) (*domain.CharityOverview, error)
}

// DocumentStore abstracts a content-addressed blob store. Implementations:
// an IPFS-backed store and a process-local fallback with format-compatible
// hashes. Injected into the document service, never a package-level
// singleton.
type DocumentStore interface {
	// Add stores content and returns its content hash. The hash depends only
	// on the content bytes, so identical content deduplicates.
	Add(ctx context.Context, content []byte) (string, error)
	Get(ctx context.Context, hash string) ([]byte, error)
	Pin(ctx context.Context, hash string) error
	Unpin(ctx context.Context, hash string) error
	// Mode identifies the backend ("ipfs" or "degraded-local") for health
	// reporting.
	Mode() string
}

// RepositoryProvider bundles all repository implementations for service wiring.
type RepositoryProvider struct {
	CharityRepo  CharityRepositoryFacade
	ProjectRepo  ProjectRepositoryFacade
	DonationRepo DonationRepositoryFacade
	StatsRepo    StatisticsRepository
}
