//go:build integration

package pgsql_test

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/givetrack/givetrack_backend/internal/adapters/database/pgsql"
	"github.com/givetrack/givetrack_backend/internal/apperrors"
	"github.com/givetrack/givetrack_backend/internal/core/domain"
	portsrepo "github.com/givetrack/givetrack_backend/internal/core/ports/repositories"
	"github.com/givetrack/givetrack_backend/pkg/testutil/containers"
)

// LedgerIntegrationTestSuite runs the money-moving repository transitions
// against a real Postgres so the guard arithmetic, idempotence and completion
// logic execute for real instead of being mocked.
type LedgerIntegrationTestSuite struct {
	suite.Suite
	ctx       context.Context
	pg        *containers.PostgresContainer
	donations portsrepo.DonationRepositoryFacade
	projects  portsrepo.ProjectRepositoryFacade
	charities portsrepo.CharityRepositoryFacade

	adminID   string
	auditorID string
	ownerID   string
	donorID   string
	charity   domain.Charity
	project   domain.Project
}

func TestLedgerIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerIntegrationTestSuite))
}

func (s *LedgerIntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()
	s.pg = containers.NewPostgresContainer(s.T())
	s.pg.Migrate(s.T(), "file://../../../../migrations")
	s.donations = pgsql.NewPgxDonationRepository(s.pg.Pool)
	s.projects = pgsql.NewPgxProjectRepository(s.pg.Pool)
	s.charities = pgsql.NewPgxCharityRepository(s.pg.Pool)
}

func (s *LedgerIntegrationTestSuite) TearDownSuite() {
	s.pg.Terminate(s.ctx)
}

// SetupTest resets the schema and seeds one verified charity with an active
// project: target 300, two milestones of 150 each.
func (s *LedgerIntegrationTestSuite) SetupTest() {
	_, err := s.pg.Pool.Exec(s.ctx, `TRUNCATE donations, project_milestones, projects, charities, users;`)
	s.Require().NoError(err)

	s.adminID = s.createUser("admin")
	s.auditorID = s.createUser("auditor")
	s.ownerID = s.createUser("charity")
	s.donorID = s.createUser("donor")
	s.charity = s.createVerifiedCharity(s.ownerID)
	s.project = s.createActiveProject(s.charity.CharityID, "300", "150", "150")
}

func (s *LedgerIntegrationTestSuite) createUser(role string) string {
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := s.pg.Pool.Exec(s.ctx, `
		INSERT INTO users (user_id, email, first_name, last_name, role, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, 'Test', 'User', $3, TRUE, $4, $1, $4, $1);
	`, id, id+"@example.org", role, now)
	s.Require().NoError(err)
	return id
}

func randomWallet() string {
	b := make([]byte, 20)
	_, _ = rand.Read(b)
	return "0x" + hex.EncodeToString(b)
}

func (s *LedgerIntegrationTestSuite) createVerifiedCharity(ownerID string) domain.Charity {
	now := time.Now().UTC()
	charity := domain.Charity{
		CharityID:          uuid.NewString(),
		Name:               "Clean Water Initiative",
		Email:              "contact@cleanwater.example.org",
		Category:           domain.CategoryEnvironment,
		RegistrationNumber: uuid.NewString(),
		OwnerUserID:        ownerID,
		WalletAddress:      randomWallet(),
		Status:             domain.CharityVerified,
		IsActive:           true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerID,
		},
	}
	s.Require().NoError(s.charities.SaveCharity(s.ctx, charity))
	return charity
}

func (s *LedgerIntegrationTestSuite) createActiveProject(charityID, target string, milestoneTargets ...string) domain.Project {
	now := time.Now().UTC()
	milestones := make([]domain.Milestone, 0, len(milestoneTargets))
	for i, mt := range milestoneTargets {
		milestones = append(milestones, domain.Milestone{
			Index:        i,
			Title:        "Phase",
			TargetAmount: decimal.RequireFromString(mt),
			Status:       domain.MilestonePending,
		})
	}
	project := domain.Project{
		ProjectID:    uuid.NewString(),
		CharityID:    charityID,
		Title:        "Well Construction",
		Category:     domain.CategoryEnvironment,
		TargetAmount: decimal.RequireFromString(target),
		Deadline:     now.Add(90 * 24 * time.Hour),
		Status:       domain.ProjectActive,
		Milestones:   milestones,
		Urgency:      domain.UrgencyMedium,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     s.ownerID,
			LastUpdatedAt: now,
			LastUpdatedBy: s.ownerID,
		},
	}
	s.Require().NoError(s.projects.SaveProject(s.ctx, project))
	return project
}

func (s *LedgerIntegrationTestSuite) createPendingDonation(donorID, amount, exchangeRate string) domain.Donation {
	now := time.Now().UTC()
	amt := decimal.RequireFromString(amount)
	rate := decimal.RequireFromString(exchangeRate)
	donation := domain.Donation{
		DonationID:             uuid.NewString(),
		DonorID:                donorID,
		ProjectID:              s.project.ProjectID,
		CharityID:              s.charity.CharityID,
		Amount:                 amt,
		Currency:               domain.CurrencyETH,
		ExchangeRate:           rate,
		USDAmount:              domain.ComputeUSDAmount(amt, rate),
		Status:                 domain.DonationPending,
		GasFee:                 decimal.Zero,
		DonorWalletAddress:     randomWallet(),
		RecipientWalletAddress: s.charity.WalletAddress,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     donorID,
			LastUpdatedAt: now,
			LastUpdatedBy: donorID,
		},
	}
	s.Require().NoError(s.donations.SaveDonation(s.ctx, donation))
	return donation
}

func (s *LedgerIntegrationTestSuite) confirm(donationID, txHash string) *domain.Donation {
	donation, err := s.donations.ConfirmDonation(s.ctx, donationID, domain.SettlementMeta{TransactionHash: txHash}, s.adminID, time.Now().UTC())
	s.Require().NoError(err)
	return donation
}

func (s *LedgerIntegrationTestSuite) projectTotals() (raised, released decimal.Decimal, donorCount int64, status string) {
	err := s.pg.Pool.QueryRow(s.ctx, `
		SELECT raised_amount, released_amount, donor_count, status FROM projects WHERE project_id = $1;
	`, s.project.ProjectID).Scan(&raised, &released, &donorCount, &status)
	s.Require().NoError(err)
	return
}

func (s *LedgerIntegrationTestSuite) charityTotals() (received decimal.Decimal, donors, completed int64) {
	err := s.pg.Pool.QueryRow(s.ctx, `
		SELECT total_received, total_donors, completed_projects FROM charities WHERE charity_id = $1;
	`, s.charity.CharityID).Scan(&received, &donors, &completed)
	s.Require().NoError(err)
	return
}

func (s *LedgerIntegrationTestSuite) assertDecimal(expected string, actual decimal.Decimal) {
	s.True(actual.Equal(decimal.RequireFromString(expected)), "expected %s, got %s", expected, actual.String())
}

func (s *LedgerIntegrationTestSuite) TestConfirmDonation_MovesMoneyIntoTotals() {
	d1 := s.createPendingDonation(s.donorID, "100", "2")
	confirmed := s.confirm(d1.DonationID, "0xaaa1")

	s.Equal(domain.DonationConfirmed, confirmed.Status)
	s.Require().NotNil(confirmed.TransactionHash)
	s.Equal("0xaaa1", *confirmed.TransactionHash)

	raised, released, donorCount, _ := s.projectTotals()
	s.assertDecimal("100", raised)
	s.assertDecimal("0", released)
	s.Equal(int64(1), donorCount)

	received, donors, _ := s.charityTotals()
	s.assertDecimal("200", received)
	s.Equal(int64(1), donors)

	// A second gift from the same donor moves money but counts no new donor.
	d2 := s.createPendingDonation(s.donorID, "50", "2")
	s.confirm(d2.DonationID, "0xaaa2")

	raised, _, donorCount, _ = s.projectTotals()
	s.assertDecimal("150", raised)
	s.Equal(int64(1), donorCount)

	received, donors, _ = s.charityTotals()
	s.assertDecimal("300", received)
	s.Equal(int64(1), donors)

	// A different donor does.
	otherDonor := s.createUser("donor")
	d3 := s.createPendingDonation(otherDonor, "25", "2")
	s.confirm(d3.DonationID, "0xaaa3")

	_, _, donorCount, _ = s.projectTotals()
	s.Equal(int64(2), donorCount)
	_, donors, _ = s.charityTotals()
	s.Equal(int64(2), donors)
}

func (s *LedgerIntegrationTestSuite) TestConfirmDonation_RedeliverySameHashIsNoOp() {
	d := s.createPendingDonation(s.donorID, "100", "2")
	s.confirm(d.DonationID, "0xsettled")

	again, err := s.donations.ConfirmDonation(s.ctx, d.DonationID, domain.SettlementMeta{TransactionHash: "0xsettled"}, s.adminID, time.Now().UTC())
	s.Require().NoError(err)
	s.Equal(domain.DonationConfirmed, again.Status)

	raised, _, donorCount, _ := s.projectTotals()
	s.assertDecimal("100", raised)
	s.Equal(int64(1), donorCount)

	received, donors, _ := s.charityTotals()
	s.assertDecimal("200", received)
	s.Equal(int64(1), donors)
}

func (s *LedgerIntegrationTestSuite) TestConfirmDonation_DifferentHashConflicts() {
	d := s.createPendingDonation(s.donorID, "100", "2")
	s.confirm(d.DonationID, "0xsettled")

	_, err := s.donations.ConfirmDonation(s.ctx, d.DonationID, domain.SettlementMeta{TransactionHash: "0xother"}, s.adminID, time.Now().UTC())
	s.Require().ErrorIs(err, apperrors.ErrConflictingSettlement)

	raised, _, _, _ := s.projectTotals()
	s.assertDecimal("100", raised)
}

func (s *LedgerIntegrationTestSuite) TestConfirmDonation_FromFailedIsInvalid() {
	d := s.createPendingDonation(s.donorID, "100", "2")
	_, err := s.donations.FailDonation(s.ctx, d.DonationID, "insufficient gas", s.adminID, time.Now().UTC())
	s.Require().NoError(err)

	_, err = s.donations.ConfirmDonation(s.ctx, d.DonationID, domain.SettlementMeta{TransactionHash: "0xlate"}, s.adminID, time.Now().UTC())
	s.Require().ErrorIs(err, apperrors.ErrInvalidTransition)

	raised, _, donorCount, _ := s.projectTotals()
	s.assertDecimal("0", raised)
	s.Equal(int64(0), donorCount)
}

func (s *LedgerIntegrationTestSuite) TestRefundDonation_BacksOutTotals() {
	d := s.createPendingDonation(s.donorID, "100", "2")
	s.confirm(d.DonationID, "0xsettled")

	refundHash := "0xrefund"
	refunded, err := s.donations.RefundDonation(s.ctx, d.DonationID, "duplicate payment", &refundHash, s.adminID, time.Now().UTC())
	s.Require().NoError(err)
	s.Equal(domain.DonationRefunded, refunded.Status)
	s.Require().NotNil(refunded.RefundTransactionHash)
	s.Equal(refundHash, *refunded.RefundTransactionHash)
	s.NotNil(refunded.RefundedAt)

	raised, _, donorCount, _ := s.projectTotals()
	s.assertDecimal("0", raised)
	s.Equal(int64(1), donorCount)

	received, _, _ := s.charityTotals()
	s.assertDecimal("0", received)
}

func (s *LedgerIntegrationTestSuite) TestRefundDonation_UnderflowAbortsUntouched() {
	d := s.createPendingDonation(s.donorID, "100", "2")
	s.confirm(d.DonationID, "0xsettled")

	// Force an inconsistent ledger so the refund would drive raised negative.
	_, err := s.pg.Pool.Exec(s.ctx, `UPDATE projects SET raised_amount = 40 WHERE project_id = $1;`, s.project.ProjectID)
	s.Require().NoError(err)

	_, err = s.donations.RefundDonation(s.ctx, d.DonationID, "duplicate payment", nil, s.adminID, time.Now().UTC())
	s.Require().ErrorIs(err, apperrors.ErrLedgerUnderflow)

	still, err := s.donations.FindDonationByID(s.ctx, d.DonationID)
	s.Require().NoError(err)
	s.Equal(domain.DonationConfirmed, still.Status)

	raised, _, _, _ := s.projectTotals()
	s.assertDecimal("40", raised)
	received, _, _ := s.charityTotals()
	s.assertDecimal("200", received)
}

func (s *LedgerIntegrationTestSuite) TestApproveMilestone_ReleasesFundsAndCompletesProject() {
	d1 := s.createPendingDonation(s.donorID, "100", "1")
	s.confirm(d1.DonationID, "0xfund1")

	_, err := s.projects.SubmitMilestone(s.ctx, s.project.ProjectID, 0, []string{"QmEvidencePhase1"}, s.ownerID, time.Now().UTC())
	s.Require().NoError(err)

	// Only 100 raised against a 150 release: the guard must hold.
	_, err = s.projects.ApproveMilestone(s.ctx, s.project.ProjectID, 0, s.auditorID, nil, time.Now().UTC())
	s.Require().ErrorIs(err, apperrors.ErrInsufficientFunds)

	_, released, _, status := s.projectTotals()
	s.assertDecimal("0", released)
	s.Equal("active", status)

	blocked, err := s.projects.FindProjectByID(s.ctx, s.project.ProjectID)
	s.Require().NoError(err)
	s.Equal(domain.MilestoneSubmitted, blocked.Milestones[0].Status)

	d2 := s.createPendingDonation(s.donorID, "200", "1")
	s.confirm(d2.DonationID, "0xfund2")

	approved, err := s.projects.ApproveMilestone(s.ctx, s.project.ProjectID, 0, s.auditorID, nil, time.Now().UTC())
	s.Require().NoError(err)
	s.Equal(domain.MilestoneApproved, approved.Milestones[0].Status)
	s.Equal(domain.ProjectActive, approved.Status)

	raised, released, _, _ := s.projectTotals()
	s.assertDecimal("300", raised)
	s.assertDecimal("150", released)

	_, err = s.projects.SubmitMilestone(s.ctx, s.project.ProjectID, 1, []string{"QmEvidencePhase2"}, s.ownerID, time.Now().UTC())
	s.Require().NoError(err)

	completed, err := s.projects.ApproveMilestone(s.ctx, s.project.ProjectID, 1, s.auditorID, nil, time.Now().UTC())
	s.Require().NoError(err)
	s.Equal(domain.ProjectCompleted, completed.Status)

	_, released, _, status = s.projectTotals()
	s.assertDecimal("300", released)
	s.Equal("completed", status)

	_, _, completedProjects := s.charityTotals()
	s.Equal(int64(1), completedProjects)
}

func (s *LedgerIntegrationTestSuite) TestApproveMilestone_RequiresSubmission() {
	_, err := s.projects.ApproveMilestone(s.ctx, s.project.ProjectID, 0, s.auditorID, nil, time.Now().UTC())
	s.Require().ErrorIs(err, apperrors.ErrInvalidTransition)

	_, released, _, _ := s.projectTotals()
	s.assertDecimal("0", released)
}
