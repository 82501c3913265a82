package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/givetrack/givetrack_backend/internal/apperrors"
	"github.com/givetrack/givetrack_backend/internal/core/domain"
	"github.com/givetrack/givetrack_backend/internal/core/services"
)

// --- Mock DocumentStore ---
type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Add(ctx context.Context, content []byte) (string, error) {
	args := m.Called(ctx, content)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentStore) Get(ctx context.Context, hash string) ([]byte, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockDocumentStore) Pin(ctx context.Context, hash string) error {
	args := m.Called(ctx, hash)
	return args.Error(0)
}

func (m *MockDocumentStore) Unpin(ctx context.Context, hash string) error {
	args := m.Called(ctx, hash)
	return args.Error(0)
}

func (m *MockDocumentStore) Mode() string {
	args := m.Called()
	return args.String(0)
}

// --- Test Suite ---
type DocumentServiceTestSuite struct {
	suite.Suite
	mockStore *MockDocumentStore
}

func (suite *DocumentServiceTestSuite) SetupTest() {
	suite.mockStore = new(MockDocumentStore)
}

// --- Test Cases ---

func (suite *DocumentServiceTestSuite) TestUploadDocument_Success() {
	ctx := context.Background()
	svc := services.NewDocumentService(suite.mockStore, "https://gateway.example.org")
	caller := domain.Caller{UserID: uuid.NewString(), Role: domain.RoleCharity}
	content := []byte("receipt for cement delivery")
	hash := "QmTestHash"

	suite.mockStore.On("Add", ctx, content).Return(hash, nil).Once()
	suite.mockStore.On("Pin", ctx, hash).Return(nil).Once()
	suite.mockStore.On("Mode").Return("ipfs")

	doc, err := svc.UploadDocument(ctx, "receipt.txt", content, caller)

	suite.Require().NoError(err)
	suite.Require().NotNil(doc)
	suite.Equal(hash, doc.ContentHash)
	suite.Equal("receipt.txt", doc.Filename)
	suite.Equal(int64(len(content)), doc.Size)
	suite.True(doc.Pinned)
	suite.Equal("https://gateway.example.org/ipfs/"+hash, doc.PublicURL)
	suite.Equal(caller.UserID, doc.UploadedBy)
	suite.mockStore.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestUploadDocument_PinFailureIsNotFatal() {
	ctx := context.Background()
	svc := services.NewDocumentService(suite.mockStore, "")
	caller := domain.Caller{UserID: uuid.NewString(), Role: domain.RoleAuditor}
	content := []byte("inspection photos")
	hash := "QmUnpinnable"

	suite.mockStore.On("Add", ctx, content).Return(hash, nil).Once()
	suite.mockStore.On("Pin", ctx, hash).Return(assert.AnError).Once()
	suite.mockStore.On("Mode").Return("degraded-local")

	doc, err := svc.UploadDocument(ctx, "photos.zip", content, caller)

	suite.Require().NoError(err)
	suite.False(doc.Pinned)
	suite.Empty(doc.PublicURL)
	suite.mockStore.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestUploadDocument_DonorForbidden() {
	ctx := context.Background()
	svc := services.NewDocumentService(suite.mockStore, "")
	donor := domain.Caller{UserID: uuid.NewString(), Role: domain.RoleDonor}

	doc, err := svc.UploadDocument(ctx, "file.txt", []byte("content"), donor)

	suite.Require().Error(err)
	suite.Nil(doc)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockStore.AssertNotCalled(suite.T(), "Add")
}

func (suite *DocumentServiceTestSuite) TestUploadDocument_EmptyContent() {
	ctx := context.Background()
	svc := services.NewDocumentService(suite.mockStore, "")
	caller := domain.Caller{UserID: uuid.NewString(), Role: domain.RoleCharity}

	doc, err := svc.UploadDocument(ctx, "empty.txt", nil, caller)

	suite.Require().Error(err)
	suite.Nil(doc)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockStore.AssertNotCalled(suite.T(), "Add")
}

func (suite *DocumentServiceTestSuite) TestUploadDocument_OversizedContent() {
	ctx := context.Background()
	svc := services.NewDocumentService(suite.mockStore, "")
	caller := domain.Caller{UserID: uuid.NewString(), Role: domain.RoleCharity}
	content := make([]byte, (10<<20)+1)

	doc, err := svc.UploadDocument(ctx, "huge.bin", content, caller)

	suite.Require().Error(err)
	suite.Nil(doc)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockStore.AssertNotCalled(suite.T(), "Add")
}

func (suite *DocumentServiceTestSuite) TestGetDocument_SniffsMediaType() {
	ctx := context.Background()
	svc := services.NewDocumentService(suite.mockStore, "")
	hash := "QmHtmlDoc"
	content := []byte("<!DOCTYPE html><html><body>report</body></html>")

	suite.mockStore.On("Get", ctx, hash).Return(content, nil).Once()

	got, mediaType, err := svc.GetDocument(ctx, hash)

	suite.Require().NoError(err)
	suite.Equal(content, got)
	suite.Contains(mediaType, "text/html")
	suite.mockStore.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestGetDocument_NotFound() {
	ctx := context.Background()
	svc := services.NewDocumentService(suite.mockStore, "")
	hash := "QmMissing"

	suite.mockStore.On("Get", ctx, hash).Return(nil, apperrors.ErrNotFound).Once()

	got, _, err := svc.GetDocument(ctx, hash)

	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *DocumentServiceTestSuite) TestPinDocument_CharityAllowed() {
	ctx := context.Background()
	svc := services.NewDocumentService(suite.mockStore, "")
	caller := domain.Caller{UserID: uuid.NewString(), Role: domain.RoleCharity}
	hash := "QmPinMe"

	suite.mockStore.On("Pin", ctx, hash).Return(nil).Once()

	err := svc.PinDocument(ctx, hash, caller)

	suite.Require().NoError(err)
	suite.mockStore.AssertExpectations(suite.T())
}

func (suite *DocumentServiceTestSuite) TestUnpinDocument_AdminOnly() {
	ctx := context.Background()
	svc := services.NewDocumentService(suite.mockStore, "")
	auditor := domain.Caller{UserID: uuid.NewString(), Role: domain.RoleAuditor}

	err := svc.UnpinDocument(ctx, "QmKeepMe", auditor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockStore.AssertNotCalled(suite.T(), "Unpin")
}

func (suite *DocumentServiceTestSuite) TestStoreMode_Passthrough() {
	svc := services.NewDocumentService(suite.mockStore, "")

	suite.mockStore.On("Mode").Return("degraded-local").Once()

	suite.Equal("degraded-local", svc.StoreMode())
	suite.mockStore.AssertExpectations(suite.T())
}

// --- Run Suite ---
func TestDocumentService(t *testing.T) {
	suite.Run(t, new(DocumentServiceTestSuite))
}
