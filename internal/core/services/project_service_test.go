package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/givetrack/givetrack_backend/internal/apperrors"
	"github.com/givetrack/givetrack_backend/internal/core/domain"
	portssvc "github.com/givetrack/givetrack_backend/internal/core/ports/services"
	"github.com/givetrack/givetrack_backend/internal/core/services"
	"github.com/givetrack/givetrack_backend/internal/dto"
)

// --- Mock ProjectRepository ---
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) SaveProject(ctx context.Context, project domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) UpdateProject(ctx context.Context, project domain.Project, replaceMilestones bool) error {
	args := m.Called(ctx, project, replaceMilestones)
	return args.Error(0)
}

func (m *MockProjectRepository) UpdateProjectStatus(ctx context.Context, projectID string, allowedFrom []domain.ProjectStatus, to domain.ProjectStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, projectID, allowedFrom, to, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockProjectRepository) IncrementViewCount(ctx context.Context, projectID string) error {
	args := m.Called(ctx, projectID)
	return args.Error(0)
}

func (m *MockProjectRepository) SubmitMilestone(ctx context.Context, projectID string, milestoneIndex int, evidenceHashes []string, submittedBy string, submittedAt time.Time) (*domain.Project, error) {
	args := m.Called(ctx, projectID, milestoneIndex, evidenceHashes, submittedBy, submittedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) ApproveMilestone(ctx context.Context, projectID string, milestoneIndex int, reviewerID string, notes *string, reviewedAt time.Time) (*domain.Project, error) {
	args := m.Called(ctx, projectID, milestoneIndex, reviewerID, notes, reviewedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) RejectMilestone(ctx context.Context, projectID string, milestoneIndex int, reviewerID string, notes string, reviewedAt time.Time) (*domain.Project, error) {
	args := m.Called(ctx, projectID, milestoneIndex, reviewerID, notes, reviewedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) ListProjects(ctx context.Context, filter domain.ProjectFilter) ([]domain.Project, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Project), args.Get(1).(int64), args.Error(2)
}

// --- Test Suite ---
type ProjectServiceTestSuite struct {
	suite.Suite
	mockProjectRepo *MockProjectRepository
	mockCharityRepo *MockCharityRepository
	service         portssvc.ProjectSvcFacade

	ownerID string
	charity *domain.Charity
}

func (suite *ProjectServiceTestSuite) SetupTest() {
	suite.mockProjectRepo = new(MockProjectRepository)
	suite.mockCharityRepo = new(MockCharityRepository)
	suite.service = services.NewProjectService(suite.mockProjectRepo, suite.mockCharityRepo)

	suite.ownerID = uuid.NewString()
	suite.charity = &domain.Charity{
		CharityID:   uuid.NewString(),
		OwnerUserID: suite.ownerID,
		Status:      domain.CharityVerified,
		IsActive:    true,
	}
}

func (suite *ProjectServiceTestSuite) ownerCaller() domain.Caller {
	return domain.Caller{UserID: suite.ownerID, Role: domain.RoleCharity}
}

func (suite *ProjectServiceTestSuite) validCreateRequest() dto.CreateProjectRequest {
	return dto.CreateProjectRequest{
		CharityID:        suite.charity.CharityID,
		Title:            "School Rebuild",
		Description:      "Rebuild the flood-damaged primary school",
		ShortDescription: "Rebuild the school",
		Category:         "education",
		TargetAmount:     decimal.NewFromInt(1000),
		Deadline:         time.Now().Add(90 * 24 * time.Hour),
		Milestones: []dto.MilestoneInput{
			{Title: "Foundation", Description: "Pour the foundation", TargetAmount: decimal.NewFromInt(400)},
			{Title: "Walls and roof", Description: "Raise walls, fit the roof", TargetAmount: decimal.NewFromInt(600)},
		},
	}
}

// --- Test Cases ---

func (suite *ProjectServiceTestSuite) TestCreateProject_Success() {
	ctx := context.Background()
	req := suite.validCreateRequest()

	suite.mockCharityRepo.On("FindCharityByID", ctx, suite.charity.CharityID).Return(suite.charity, nil).Once()
	suite.mockProjectRepo.On("SaveProject", ctx, mock.MatchedBy(func(p domain.Project) bool {
		return p.Status == domain.ProjectDraft &&
			p.CharityID == suite.charity.CharityID &&
			p.Urgency == domain.UrgencyMedium &&
			p.RaisedAmount.IsZero() &&
			len(p.Milestones) == 2 &&
			p.Milestones[0].Index == 0 &&
			p.Milestones[1].Index == 1 &&
			p.Milestones[0].Status == domain.MilestonePending
	})).Return(nil).Once()

	project, err := suite.service.CreateProject(ctx, req, suite.ownerCaller())

	suite.Require().NoError(err)
	suite.Require().NotNil(project)
	suite.Equal(domain.ProjectDraft, project.Status)
	suite.mockProjectRepo.AssertExpectations(suite.T())
	suite.mockCharityRepo.AssertExpectations(suite.T())
}

func (suite *ProjectServiceTestSuite) TestCreateProject_MilestoneSumMismatch() {
	ctx := context.Background()
	req := suite.validCreateRequest()
	req.Milestones[1].TargetAmount = decimal.NewFromInt(500) // sum 900 vs target 1000

	suite.mockCharityRepo.On("FindCharityByID", ctx, suite.charity.CharityID).Return(suite.charity, nil).Once()

	project, err := suite.service.CreateProject(ctx, req, suite.ownerCaller())

	suite.Require().Error(err)
	suite.Nil(project)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockProjectRepo.AssertNotCalled(suite.T(), "SaveProject")
}

func (suite *ProjectServiceTestSuite) TestCreateProject_UnverifiedCharity() {
	ctx := context.Background()
	suite.charity.Status = domain.CharityPending
	req := suite.validCreateRequest()

	suite.mockCharityRepo.On("FindCharityByID", ctx, suite.charity.CharityID).Return(suite.charity, nil).Once()

	project, err := suite.service.CreateProject(ctx, req, suite.ownerCaller())

	suite.Require().Error(err)
	suite.Nil(project)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockProjectRepo.AssertNotCalled(suite.T(), "SaveProject")
}

func (suite *ProjectServiceTestSuite) TestCreateProject_NonOwnerForbidden() {
	ctx := context.Background()
	req := suite.validCreateRequest()
	stranger := domain.Caller{UserID: uuid.NewString(), Role: domain.RoleCharity}

	suite.mockCharityRepo.On("FindCharityByID", ctx, suite.charity.CharityID).Return(suite.charity, nil).Once()

	project, err := suite.service.CreateProject(ctx, req, stranger)

	suite.Require().Error(err)
	suite.Nil(project)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *ProjectServiceTestSuite) TestCreateProject_PastDeadline() {
	ctx := context.Background()
	req := suite.validCreateRequest()
	req.Deadline = time.Now().Add(-time.Hour)

	suite.mockCharityRepo.On("FindCharityByID", ctx, suite.charity.CharityID).Return(suite.charity, nil).Once()

	project, err := suite.service.CreateProject(ctx, req, suite.ownerCaller())

	suite.Require().Error(err)
	suite.Nil(project)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ProjectServiceTestSuite) TestGetProjectByID_ViewBumpFailureDoesNotBlock() {
	ctx := context.Background()
	projectID := uuid.NewString()
	project := &domain.Project{ProjectID: projectID, Stats: domain.ProjectStats{ViewCount: 7}}

	suite.mockProjectRepo.On("FindProjectByID", ctx, projectID).Return(project, nil).Once()
	suite.mockProjectRepo.On("IncrementViewCount", ctx, projectID).Return(assert.AnError).Once()

	got, err := suite.service.GetProjectByID(ctx, projectID)

	suite.Require().NoError(err)
	suite.Equal(int64(7), got.Stats.ViewCount)
	suite.mockProjectRepo.AssertExpectations(suite.T())
}

func (suite *ProjectServiceTestSuite) TestUpdateProject_FeaturedRequiresAdmin() {
	ctx := context.Background()
	projectID := uuid.NewString()
	project := &domain.Project{ProjectID: projectID, CharityID: suite.charity.CharityID, Status: domain.ProjectDraft, TargetAmount: decimal.NewFromInt(100)}
	featured := true

	suite.mockProjectRepo.On("FindProjectByID", ctx, projectID).Return(project, nil).Once()
	suite.mockCharityRepo.On("FindCharityByID", ctx, suite.charity.CharityID).Return(suite.charity, nil).Once()

	updated, err := suite.service.UpdateProject(ctx, projectID, dto.UpdateProjectRequest{Featured: &featured}, suite.ownerCaller())

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockProjectRepo.AssertNotCalled(suite.T(), "UpdateProject")
}

func (suite *ProjectServiceTestSuite) TestUpdateProject_MilestoneReplaceOnlyInDraft() {
	ctx := context.Background()
	projectID := uuid.NewString()
	project := &domain.Project{ProjectID: projectID, CharityID: suite.charity.CharityID, Status: domain.ProjectActive, TargetAmount: decimal.NewFromInt(100)}
	req := dto.UpdateProjectRequest{
		Milestones: []dto.MilestoneInput{{Title: "M", Description: "D", TargetAmount: decimal.NewFromInt(100)}},
	}

	suite.mockProjectRepo.On("FindProjectByID", ctx, projectID).Return(project, nil).Once()
	suite.mockCharityRepo.On("FindCharityByID", ctx, suite.charity.CharityID).Return(suite.charity, nil).Once()

	updated, err := suite.service.UpdateProject(ctx, projectID, req, suite.ownerCaller())

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockProjectRepo.AssertNotCalled(suite.T(), "UpdateProject")
}

func (suite *ProjectServiceTestSuite) TestUpdateProjectStatus_ActivateFromDraft() {
	ctx := context.Background()
	projectID := uuid.NewString()
	draft := &domain.Project{ProjectID: projectID, CharityID: suite.charity.CharityID, Status: domain.ProjectDraft}
	active := &domain.Project{ProjectID: projectID, CharityID: suite.charity.CharityID, Status: domain.ProjectActive}

	suite.mockProjectRepo.On("FindProjectByID", ctx, projectID).Return(draft, nil).Once()
	suite.mockCharityRepo.On("FindCharityByID", ctx, suite.charity.CharityID).Return(suite.charity, nil).Once()
	suite.mockProjectRepo.On("UpdateProjectStatus", ctx, projectID,
		[]domain.ProjectStatus{domain.ProjectDraft},
		domain.ProjectActive, suite.ownerID, mock.AnythingOfType("time.Time"),
	).Return(nil).Once()
	suite.mockProjectRepo.On("FindProjectByID", ctx, projectID).Return(active, nil).Once()

	updated, err := suite.service.UpdateProjectStatus(ctx, projectID, domain.ProjectActive, suite.ownerCaller())

	suite.Require().NoError(err)
	suite.Equal(domain.ProjectActive, updated.Status)
	suite.mockProjectRepo.AssertExpectations(suite.T())
}

func (suite *ProjectServiceTestSuite) TestUpdateProjectStatus_CompletedNotRequestable() {
	ctx := context.Background()
	projectID := uuid.NewString()
	project := &domain.Project{ProjectID: projectID, CharityID: suite.charity.CharityID, Status: domain.ProjectActive}

	suite.mockProjectRepo.On("FindProjectByID", ctx, projectID).Return(project, nil).Once()
	suite.mockCharityRepo.On("FindCharityByID", ctx, suite.charity.CharityID).Return(suite.charity, nil).Once()

	updated, err := suite.service.UpdateProjectStatus(ctx, projectID, domain.ProjectCompleted, suite.ownerCaller())

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.mockProjectRepo.AssertNotCalled(suite.T(), "UpdateProjectStatus")
}

func (suite *ProjectServiceTestSuite) TestSubmitMilestone_RequiresActiveProject() {
	ctx := context.Background()
	projectID := uuid.NewString()
	project := &domain.Project{
		ProjectID:  projectID,
		CharityID:  suite.charity.CharityID,
		Status:     domain.ProjectDraft,
		Milestones: []domain.Milestone{{Index: 0, Status: domain.MilestonePending}},
	}

	suite.mockProjectRepo.On("FindProjectByID", ctx, projectID).Return(project, nil).Once()
	suite.mockCharityRepo.On("FindCharityByID", ctx, suite.charity.CharityID).Return(suite.charity, nil).Once()

	updated, err := suite.service.SubmitMilestone(ctx, projectID, 0, dto.SubmitMilestoneRequest{EvidenceHashes: []string{"QmHash"}}, suite.ownerCaller())

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockProjectRepo.AssertNotCalled(suite.T(), "SubmitMilestone")
}

func (suite *ProjectServiceTestSuite) TestSubmitMilestone_IndexOutOfRange() {
	ctx := context.Background()
	projectID := uuid.NewString()
	project := &domain.Project{
		ProjectID:  projectID,
		CharityID:  suite.charity.CharityID,
		Status:     domain.ProjectActive,
		Milestones: []domain.Milestone{{Index: 0, Status: domain.MilestonePending}},
	}

	suite.mockProjectRepo.On("FindProjectByID", ctx, projectID).Return(project, nil).Once()
	suite.mockCharityRepo.On("FindCharityByID", ctx, suite.charity.CharityID).Return(suite.charity, nil).Once()

	updated, err := suite.service.SubmitMilestone(ctx, projectID, 5, dto.SubmitMilestoneRequest{EvidenceHashes: []string{"QmHash"}}, suite.ownerCaller())

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ProjectServiceTestSuite) TestSubmitMilestone_Success() {
	ctx := context.Background()
	projectID := uuid.NewString()
	evidence := []string{"QmEvidence1", "QmEvidence2"}
	project := &domain.Project{
		ProjectID:  projectID,
		CharityID:  suite.charity.CharityID,
		Status:     domain.ProjectActive,
		Milestones: []domain.Milestone{{Index: 0, Status: domain.MilestonePending}},
	}
	submitted := &domain.Project{
		ProjectID:  projectID,
		CharityID:  suite.charity.CharityID,
		Status:     domain.ProjectActive,
		Milestones: []domain.Milestone{{Index: 0, Status: domain.MilestoneSubmitted, EvidenceHashes: evidence}},
	}

	suite.mockProjectRepo.On("FindProjectByID", ctx, projectID).Return(project, nil).Once()
	suite.mockCharityRepo.On("FindCharityByID", ctx, suite.charity.CharityID).Return(suite.charity, nil).Once()
	suite.mockProjectRepo.On("SubmitMilestone", ctx, projectID, 0, evidence, suite.ownerID, mock.AnythingOfType("time.Time")).Return(submitted, nil).Once()

	updated, err := suite.service.SubmitMilestone(ctx, projectID, 0, dto.SubmitMilestoneRequest{EvidenceHashes: evidence}, suite.ownerCaller())

	suite.Require().NoError(err)
	suite.Equal(domain.MilestoneSubmitted, updated.Milestones[0].Status)
	suite.mockProjectRepo.AssertExpectations(suite.T())
}

func (suite *ProjectServiceTestSuite) TestReviewMilestone_CharityForbidden() {
	ctx := context.Background()

	updated, err := suite.service.ReviewMilestone(ctx, uuid.NewString(), 0, dto.ReviewMilestoneRequest{Approve: true}, suite.ownerCaller())

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockProjectRepo.AssertNotCalled(suite.T(), "ApproveMilestone")
}

func (suite *ProjectServiceTestSuite) TestReviewMilestone_RejectRequiresNotes() {
	ctx := context.Background()
	auditor := domain.Caller{UserID: uuid.NewString(), Role: domain.RoleAuditor}

	updated, err := suite.service.ReviewMilestone(ctx, uuid.NewString(), 0, dto.ReviewMilestoneRequest{Approve: false}, auditor)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrMissingReason)
	suite.mockProjectRepo.AssertNotCalled(suite.T(), "RejectMilestone")
}

func (suite *ProjectServiceTestSuite) TestReviewMilestone_ApproveSuccess() {
	ctx := context.Background()
	auditor := domain.Caller{UserID: uuid.NewString(), Role: domain.RoleAuditor}
	projectID := uuid.NewString()
	approved := &domain.Project{
		ProjectID:  projectID,
		Status:     domain.ProjectActive,
		Milestones: []domain.Milestone{{Index: 0, Status: domain.MilestoneApproved}},
	}

	suite.mockProjectRepo.On("ApproveMilestone", ctx, projectID, 0, auditor.UserID, (*string)(nil), mock.AnythingOfType("time.Time")).Return(approved, nil).Once()

	updated, err := suite.service.ReviewMilestone(ctx, projectID, 0, dto.ReviewMilestoneRequest{Approve: true}, auditor)

	suite.Require().NoError(err)
	suite.Equal(domain.MilestoneApproved, updated.Milestones[0].Status)
	suite.mockProjectRepo.AssertExpectations(suite.T())
}

func (suite *ProjectServiceTestSuite) TestReviewMilestone_ApproveInsufficientFunds() {
	ctx := context.Background()
	auditor := domain.Caller{UserID: uuid.NewString(), Role: domain.RoleAuditor}
	projectID := uuid.NewString()

	suite.mockProjectRepo.On("ApproveMilestone", ctx, projectID, 0, auditor.UserID, (*string)(nil), mock.AnythingOfType("time.Time")).Return(nil, apperrors.ErrInsufficientFunds).Once()

	updated, err := suite.service.ReviewMilestone(ctx, projectID, 0, dto.ReviewMilestoneRequest{Approve: true}, auditor)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.mockProjectRepo.AssertExpectations(suite.T())
}

// --- Run Suite ---
func TestProjectService(t *testing.T) {
	suite.Run(t, new(ProjectServiceTestSuite))
}
