package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"commerce-admin-service/internal/apierrors"
	"commerce-admin-service/internal/clients"
	"commerce-admin-service/internal/models"
	"commerce-admin-service/internal/repository"
)

// MockApplicationRepository is a mock implementation of ApplicationRepository
type MockApplicationRepository struct {
	mock.Mock
}

var _ repository.ApplicationRepository = (*MockApplicationRepository)(nil)

func (m *MockApplicationRepository) Create(ctx context.Context, app *models.VendorApplication) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *MockApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.VendorApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VendorApplication), args.Error(1)
}

func (m *MockApplicationRepository) GetByUserID(ctx context.Context, userID string) (*models.VendorApplication, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VendorApplication), args.Error(1)
}

func (m *MockApplicationRepository) List(ctx context.Context, page, limit int) ([]models.VendorApplication, *models.PaginationInfo, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]models.VendorApplication), args.Get(1).(*models.PaginationInfo), args.Error(2)
}

func (m *MockApplicationRepository) MarkReviewed(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockApplicationRepository) CreateProfile(ctx context.Context, profile *models.VendorProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockApplicationRepository) GetProfile(ctx context.Context, id string) (*models.VendorProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VendorProfile), args.Error(1)
}

// MockIdentityClient is a mock implementation of clients.IdentityClient
type MockIdentityClient struct {
	mock.Mock
}

var _ clients.IdentityClient = (*MockIdentityClient)(nil)

func (m *MockIdentityClient) GetUser(ctx context.Context, userID string) (*clients.IdentityUser, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.IdentityUser), args.Error(1)
}

func (m *MockIdentityClient) ListUsers(ctx context.Context) ([]clients.IdentityUser, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]clients.IdentityUser), args.Error(1)
}

func (m *MockIdentityClient) SetUserFlags(ctx context.Context, userID string, flags map[string]bool) error {
	args := m.Called(ctx, userID, flags)
	return args.Error(0)
}

func newTestVendorService(repo *MockApplicationRepository, identity *MockIdentityClient) *VendorService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewVendorService(repo, identity, nil, logger)
}

func validSubmitRequest() *models.SubmitApplicationRequest {
	return &models.SubmitApplicationRequest{
		UserID:  "user-1",
		Name:    "Jane Seller",
		Email:   "jane@example.com",
		Message: "I would like to sell things",
	}
}

func TestSubmit_CreatesApplication(t *testing.T) {
	repo := new(MockApplicationRepository)
	identity := new(MockIdentityClient)
	service := newTestVendorService(repo, identity)

	identity.On("GetUser", mock.Anything, "user-1").Return(&clients.IdentityUser{ID: "user-1"}, nil)
	repo.On("GetByUserID", mock.Anything, "user-1").Return(nil, repository.ErrNotFound)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.VendorApplication")).Return(nil)

	app, err := service.Submit(context.Background(), validSubmitRequest())

	assert.NoError(t, err)
	assert.NotNil(t, app)
	assert.Equal(t, "user-1", app.UserID)
	assert.False(t, app.Reviewed)
	repo.AssertExpectations(t)
	identity.AssertExpectations(t)
}

func TestSubmit_MissingFieldsRejected(t *testing.T) {
	repo := new(MockApplicationRepository)
	identity := new(MockIdentityClient)
	service := newTestVendorService(repo, identity)

	req := validSubmitRequest()
	req.Message = "   "

	_, err := service.Submit(context.Background(), req)

	assert.Error(t, err)
	assert.Equal(t, apierrors.KindValidation, apierrors.KindOf(err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmit_UnknownIdentityRejected(t *testing.T) {
	repo := new(MockApplicationRepository)
	identity := new(MockIdentityClient)
	service := newTestVendorService(repo, identity)

	identity.On("GetUser", mock.Anything, "user-1").Return(nil, clients.ErrIdentityNotFound)

	_, err := service.Submit(context.Background(), validSubmitRequest())

	assert.Error(t, err)
	assert.Equal(t, apierrors.KindUnauthenticated, apierrors.KindOf(err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmit_DuplicateUserConflicts(t *testing.T) {
	repo := new(MockApplicationRepository)
	identity := new(MockIdentityClient)
	service := newTestVendorService(repo, identity)

	identity.On("GetUser", mock.Anything, "user-1").Return(&clients.IdentityUser{ID: "user-1"}, nil)
	repo.On("GetByUserID", mock.Anything, "user-1").Return(&models.VendorApplication{ID: uuid.New(), UserID: "user-1"}, nil)

	_, err := service.Submit(context.Background(), validSubmitRequest())

	assert.Error(t, err)
	assert.Equal(t, apierrors.KindConflict, apierrors.KindOf(err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReview_UnknownApplicationNotFound(t *testing.T) {
	repo := new(MockApplicationRepository)
	identity := new(MockIdentityClient)
	service := newTestVendorService(repo, identity)

	id := uuid.New()
	repo.On("MarkReviewed", mock.Anything, id).Return(repository.ErrNotFound)

	_, err := service.Review(context.Background(), id.String())

	assert.Error(t, err)
	assert.Equal(t, apierrors.KindNotFound, apierrors.KindOf(err))
}

func TestReview_IsIdempotent(t *testing.T) {
	repo := new(MockApplicationRepository)
	identity := new(MockIdentityClient)
	service := newTestVendorService(repo, identity)

	id := uuid.New()
	reviewed := &models.VendorApplication{ID: id, UserID: "user-1", Email: "jane@example.com", Reviewed: true}
	repo.On("MarkReviewed", mock.Anything, id).Return(nil).Twice()
	repo.On("GetByID", mock.Anything, id).Return(reviewed, nil).Twice()

	first, err := service.Review(context.Background(), id.String())
	assert.NoError(t, err)
	second, err := service.Review(context.Background(), id.String())
	assert.NoError(t, err)

	assert.True(t, first.Reviewed)
	assert.True(t, second.Reviewed)
	repo.AssertExpectations(t)
}

func TestPromote_FlagsIdentityAndCreatesProfile(t *testing.T) {
	repo := new(MockApplicationRepository)
	identity := new(MockIdentityClient)
	service := newTestVendorService(repo, identity)

	id := uuid.New()
	category := "crafts"
	app := &models.VendorApplication{ID: id, UserID: "user-1", Email: "jane@example.com", Category: &category}
	repo.On("GetByID", mock.Anything, id).Return(app, nil)
	identity.On("ListUsers", mock.Anything).Return([]clients.IdentityUser{
		{ID: "other", Email: "other@example.com"},
		{ID: "identity-9", Email: "jane@example.com"},
	}, nil)
	identity.On("SetUserFlags", mock.Anything, "identity-9", map[string]bool{"isVendor": true}).Return(nil)
	repo.On("CreateProfile", mock.Anything, mock.AnythingOfType("*models.VendorProfile")).Return(nil)

	result, err := service.Promote(context.Background(), id.String())

	assert.NoError(t, err)
	assert.Equal(t, "identity-9", result.IdentityID)
	assert.Equal(t, "identity-9", result.Profile.ID)
	assert.Equal(t, &category, result.Profile.Category)
	assert.True(t, result.Profile.Verified)
	repo.AssertExpectations(t)
	identity.AssertExpectations(t)
}

func TestPromote_UnmatchedEmailPerformsNoWrites(t *testing.T) {
	repo := new(MockApplicationRepository)
	identity := new(MockIdentityClient)
	service := newTestVendorService(repo, identity)

	id := uuid.New()
	app := &models.VendorApplication{ID: id, UserID: "user-1", Email: "jane@example.com"}
	repo.On("GetByID", mock.Anything, id).Return(app, nil)
	identity.On("ListUsers", mock.Anything).Return([]clients.IdentityUser{
		{ID: "other", Email: "other@example.com"},
	}, nil)

	_, err := service.Promote(context.Background(), id.String())

	assert.Error(t, err)
	assert.Equal(t, apierrors.KindNotFound, apierrors.KindOf(err))
	identity.AssertNotCalled(t, "SetUserFlags", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "CreateProfile", mock.Anything, mock.Anything)
}

func TestPromote_MissingEmailNotFound(t *testing.T) {
	repo := new(MockApplicationRepository)
	identity := new(MockIdentityClient)
	service := newTestVendorService(repo, identity)

	id := uuid.New()
	app := &models.VendorApplication{ID: id, UserID: "user-1", Email: ""}
	repo.On("GetByID", mock.Anything, id).Return(app, nil)

	_, err := service.Promote(context.Background(), id.String())

	assert.Error(t, err)
	assert.Equal(t, apierrors.KindNotFound, apierrors.KindOf(err))
	identity.AssertNotCalled(t, "ListUsers", mock.Anything)
}

func TestPromote_ProfileInsertFailureSurfacesAsUpstream(t *testing.T) {
	repo := new(MockApplicationRepository)
	identity := new(MockIdentityClient)
	service := newTestVendorService(repo, identity)

	id := uuid.New()
	app := &models.VendorApplication{ID: id, UserID: "user-1", Email: "jane@example.com"}
	repo.On("GetByID", mock.Anything, id).Return(app, nil)
	identity.On("ListUsers", mock.Anything).Return([]clients.IdentityUser{
		{ID: "identity-9", Email: "jane@example.com"},
	}, nil)
	identity.On("SetUserFlags", mock.Anything, "identity-9", map[string]bool{"isVendor": true}).Return(nil)
	repo.On("CreateProfile", mock.Anything, mock.AnythingOfType("*models.VendorProfile")).Return(assert.AnError)

	_, err := service.Promote(context.Background(), id.String())

	assert.Error(t, err)
	assert.Equal(t, apierrors.KindUpstream, apierrors.KindOf(err))
	// The vendor flag was already set before the profile insert failed.
	identity.AssertCalled(t, "SetUserFlags", mock.Anything, "identity-9", map[string]bool{"isVendor": true})
}
