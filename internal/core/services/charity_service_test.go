package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/givetrack/givetrack_backend/internal/apperrors"
	"github.com/givetrack/givetrack_backend/internal/core/domain"
	portssvc "github.com/givetrack/givetrack_backend/internal/core/ports/services"
	"github.com/givetrack/givetrack_backend/internal/core/services"
	"github.com/givetrack/givetrack_backend/internal/dto"
)

// --- Mock CharityRepository ---
type MockCharityRepository struct {
	mock.Mock
}

func (m *MockCharityRepository) SaveCharity(ctx context.Context, charity domain.Charity) error {
	args := m.Called(ctx, charity)
	return args.Error(0)
}

func (m *MockCharityRepository) FindCharityByID(ctx context.Context, charityID string) (*domain.Charity, error) {
	args := m.Called(ctx, charityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Charity), args.Error(1)
}

func (m *MockCharityRepository) UpdateCharity(ctx context.Context, charity domain.Charity) error {
	args := m.Called(ctx, charity)
	return args.Error(0)
}

func (m *MockCharityRepository) UpdateCharityStatus(ctx context.Context, charityID string, allowedFrom []domain.CharityStatus, to domain.CharityStatus, verifiedBy *string, rejectionReason *string, updatedBy string, updatedAt time.Time) (*domain.Charity, error) {
	args := m.Called(ctx, charityID, allowedFrom, to, verifiedBy, rejectionReason, updatedBy, updatedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Charity), args.Error(1)
}

func (m *MockCharityRepository) ListCharities(ctx context.Context, filter domain.CharityFilter) ([]domain.Charity, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Charity), args.Get(1).(int64), args.Error(2)
}

// --- Test Suite ---
type CharityServiceTestSuite struct {
	suite.Suite
	mockRepo *MockCharityRepository
	service  portssvc.CharitySvcFacade
}

func (suite *CharityServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockCharityRepository)
	suite.service = services.NewCharityService(suite.mockRepo)
}

// --- Test Cases ---

func (suite *CharityServiceTestSuite) TestRegisterCharity_Success() {
	ctx := context.Background()
	caller := domain.Caller{UserID: uuid.NewString(), Role: domain.RoleCharity}
	req := dto.RegisterCharityRequest{
		Name:               "Clean Water Initiative",
		Description:        "Wells and filtration for rural communities",
		Email:              "contact@cleanwater.org",
		Category:           "healthcare",
		RegistrationNumber: "REG-12345",
		TaxID:              "TAX-9876",
		WalletAddress:      "0x1111111111111111111111111111111111111111",
	}

	suite.mockRepo.On("SaveCharity", ctx, mock.MatchedBy(func(c domain.Charity) bool {
		return c.Name == req.Name &&
			c.Status == domain.CharityPending &&
			c.OwnerUserID == caller.UserID &&
			c.IsActive &&
			c.Stats.TotalReceived.IsZero() &&
			c.CreatedBy == caller.UserID
	})).Return(nil).Once()

	charity, err := suite.service.RegisterCharity(ctx, req, caller)

	suite.Require().NoError(err)
	suite.Require().NotNil(charity)
	suite.Equal(domain.CharityPending, charity.Status)
	suite.Equal(caller.UserID, charity.OwnerUserID)
	suite.NotEmpty(charity.CharityID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CharityServiceTestSuite) TestRegisterCharity_DonorForbidden() {
	ctx := context.Background()
	caller := domain.Caller{UserID: uuid.NewString(), Role: domain.RoleDonor}

	charity, err := suite.service.RegisterCharity(ctx, dto.RegisterCharityRequest{}, caller)

	suite.Require().Error(err)
	suite.Nil(charity)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveCharity")
}

func (suite *CharityServiceTestSuite) TestUpdateCharity_OwnerMergesFields() {
	ctx := context.Background()
	ownerID := uuid.NewString()
	caller := domain.Caller{UserID: ownerID, Role: domain.RoleCharity}
	charityID := uuid.NewString()
	existing := &domain.Charity{
		CharityID:   charityID,
		Name:        "Old Name",
		Description: "Old description",
		OwnerUserID: ownerID,
		Status:      domain.CharityVerified,
		IsActive:    true,
	}
	newName := "New Name"
	req := dto.UpdateCharityRequest{Name: &newName}

	suite.mockRepo.On("FindCharityByID", ctx, charityID).Return(existing, nil).Once()
	suite.mockRepo.On("UpdateCharity", ctx, mock.MatchedBy(func(c domain.Charity) bool {
		return c.Name == newName && c.Description == "Old description" && c.LastUpdatedBy == ownerID
	})).Return(nil).Once()

	charity, err := suite.service.UpdateCharity(ctx, charityID, req, caller)

	suite.Require().NoError(err)
	suite.Equal(newName, charity.Name)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CharityServiceTestSuite) TestUpdateCharity_NonOwnerForbidden() {
	ctx := context.Background()
	charityID := uuid.NewString()
	existing := &domain.Charity{CharityID: charityID, OwnerUserID: uuid.NewString()}
	caller := domain.Caller{UserID: uuid.NewString(), Role: domain.RoleCharity}

	suite.mockRepo.On("FindCharityByID", ctx, charityID).Return(existing, nil).Once()

	charity, err := suite.service.UpdateCharity(ctx, charityID, dto.UpdateCharityRequest{}, caller)

	suite.Require().Error(err)
	suite.Nil(charity)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateCharity")
}

func (suite *CharityServiceTestSuite) TestVerifyCharity_Success() {
	ctx := context.Background()
	admin := domain.Caller{UserID: uuid.NewString(), Role: domain.RoleAdmin}
	charityID := uuid.NewString()
	verified := &domain.Charity{CharityID: charityID, Status: domain.CharityVerified}

	suite.mockRepo.On("UpdateCharityStatus", ctx, charityID,
		[]domain.CharityStatus{domain.CharityPending, domain.CharitySuspended},
		domain.CharityVerified, &admin.UserID, (*string)(nil), admin.UserID, mock.AnythingOfType("time.Time"),
	).Return(verified, nil).Once()

	charity, err := suite.service.VerifyCharity(ctx, charityID, admin)

	suite.Require().NoError(err)
	suite.Equal(domain.CharityVerified, charity.Status)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CharityServiceTestSuite) TestVerifyCharity_NonAdminForbidden() {
	ctx := context.Background()
	caller := domain.Caller{UserID: uuid.NewString(), Role: domain.RoleAuditor}

	charity, err := suite.service.VerifyCharity(ctx, uuid.NewString(), caller)

	suite.Require().Error(err)
	suite.Nil(charity)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateCharityStatus")
}

func (suite *CharityServiceTestSuite) TestVerifyCharity_InvalidTransition() {
	ctx := context.Background()
	admin := domain.Caller{UserID: uuid.NewString(), Role: domain.RoleAdmin}
	charityID := uuid.NewString()

	suite.mockRepo.On("UpdateCharityStatus", ctx, charityID, mock.Anything, domain.CharityVerified,
		mock.Anything, mock.Anything, admin.UserID, mock.AnythingOfType("time.Time"),
	).Return(nil, apperrors.ErrInvalidTransition).Once()

	charity, err := suite.service.VerifyCharity(ctx, charityID, admin)

	suite.Require().Error(err)
	suite.Nil(charity)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CharityServiceTestSuite) TestRejectCharity_RequiresReason() {
	ctx := context.Background()
	admin := domain.Caller{UserID: uuid.NewString(), Role: domain.RoleAdmin}

	charity, err := suite.service.RejectCharity(ctx, uuid.NewString(), "", admin)

	suite.Require().Error(err)
	suite.Nil(charity)
	suite.ErrorIs(err, apperrors.ErrMissingReason)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateCharityStatus")
}

func (suite *CharityServiceTestSuite) TestRejectCharity_Success() {
	ctx := context.Background()
	admin := domain.Caller{UserID: uuid.NewString(), Role: domain.RoleAdmin}
	charityID := uuid.NewString()
	reason := "Registration number could not be verified"
	rejected := &domain.Charity{CharityID: charityID, Status: domain.CharityRejected, RejectionReason: &reason}

	suite.mockRepo.On("UpdateCharityStatus", ctx, charityID,
		[]domain.CharityStatus{domain.CharityPending},
		domain.CharityRejected, (*string)(nil), &reason, admin.UserID, mock.AnythingOfType("time.Time"),
	).Return(rejected, nil).Once()

	charity, err := suite.service.RejectCharity(ctx, charityID, reason, admin)

	suite.Require().NoError(err)
	suite.Equal(domain.CharityRejected, charity.Status)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CharityServiceTestSuite) TestSuspendCharity_Success() {
	ctx := context.Background()
	admin := domain.Caller{UserID: uuid.NewString(), Role: domain.RoleAdmin}
	charityID := uuid.NewString()
	suspended := &domain.Charity{CharityID: charityID, Status: domain.CharitySuspended}

	suite.mockRepo.On("UpdateCharityStatus", ctx, charityID,
		[]domain.CharityStatus{domain.CharityVerified},
		domain.CharitySuspended, (*string)(nil), (*string)(nil), admin.UserID, mock.AnythingOfType("time.Time"),
	).Return(suspended, nil).Once()

	charity, err := suite.service.SuspendCharity(ctx, charityID, admin)

	suite.Require().NoError(err)
	suite.Equal(domain.CharitySuspended, charity.Status)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CharityServiceTestSuite) TestGetCharityByID_NotFound() {
	ctx := context.Background()
	charityID := uuid.NewString()

	suite.mockRepo.On("FindCharityByID", ctx, charityID).Return(nil, apperrors.ErrNotFound).Once()

	charity, err := suite.service.GetCharityByID(ctx, charityID)

	suite.Require().Error(err)
	suite.Nil(charity)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CharityServiceTestSuite) TestListCharities_ClampsLimit() {
	ctx := context.Background()

	suite.mockRepo.On("ListCharities", ctx, mock.MatchedBy(func(f domain.CharityFilter) bool {
		return f.Limit == 20 && f.Offset == 0
	})).Return([]domain.Charity{}, int64(0), nil).Once()

	resp, err := suite.service.ListCharities(ctx, dto.ListCharitiesParams{Limit: 5000, Offset: -3})

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.Empty(resp.Charities)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CharityServiceTestSuite) TestListCharities_RepoError() {
	ctx := context.Background()
	expectedErr := assert.AnError

	suite.mockRepo.On("ListCharities", ctx, mock.AnythingOfType("domain.CharityFilter")).Return(nil, int64(0), expectedErr).Once()

	resp, err := suite.service.ListCharities(ctx, dto.ListCharitiesParams{})

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, expectedErr)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- Run Suite ---
func TestCharityService(t *testing.T) {
	suite.Run(t, new(CharityServiceTestSuite))
}
