package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"commerce-admin-service/internal/clients"
	"commerce-admin-service/internal/models"
	"commerce-admin-service/internal/repository"
	"commerce-admin-service/internal/services"
)

type mockApplicationRepo struct {
	mock.Mock
}

var _ repository.ApplicationRepository = (*mockApplicationRepo)(nil)

func (m *mockApplicationRepo) Create(ctx context.Context, app *models.VendorApplication) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *mockApplicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.VendorApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VendorApplication), args.Error(1)
}

func (m *mockApplicationRepo) GetByUserID(ctx context.Context, userID string) (*models.VendorApplication, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VendorApplication), args.Error(1)
}

func (m *mockApplicationRepo) List(ctx context.Context, page, limit int) ([]models.VendorApplication, *models.PaginationInfo, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]models.VendorApplication), args.Get(1).(*models.PaginationInfo), args.Error(2)
}

func (m *mockApplicationRepo) MarkReviewed(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockApplicationRepo) CreateProfile(ctx context.Context, profile *models.VendorProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *mockApplicationRepo) GetProfile(ctx context.Context, id string) (*models.VendorProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VendorProfile), args.Error(1)
}

type mockIdentityClient struct {
	mock.Mock
}

var _ clients.IdentityClient = (*mockIdentityClient)(nil)

func (m *mockIdentityClient) GetUser(ctx context.Context, userID string) (*clients.IdentityUser, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.IdentityUser), args.Error(1)
}

func (m *mockIdentityClient) ListUsers(ctx context.Context) ([]clients.IdentityUser, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]clients.IdentityUser), args.Error(1)
}

func (m *mockIdentityClient) SetUserFlags(ctx context.Context, userID string, flags map[string]bool) error {
	args := m.Called(ctx, userID, flags)
	return args.Error(0)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func setupApplicationRouter(repo *mockApplicationRepo, identity *mockIdentityClient) *gin.Engine {
	gin.SetMode(gin.TestMode)
	service := services.NewVendorService(repo, identity, nil, testLogger())
	handler := NewApplicationHandler(service, testLogger())

	router := gin.New()
	router.POST("/api/v1/vendor-applications", handler.Submit)
	router.GET("/api/v1/vendor-applications", handler.List)
	router.PATCH("/api/v1/vendor-applications/:id/review", handler.Review)
	router.PATCH("/api/v1/vendor-applications/:id/promote", handler.Promote)
	return router
}

func submitBody() []byte {
	body, _ := json.Marshal(map[string]string{
		"user_id": "user-1",
		"name":    "Jane Seller",
		"email":   "jane@example.com",
		"message": "I would like to sell things",
	})
	return body
}

func TestSubmitApplication_Created(t *testing.T) {
	repo := new(mockApplicationRepo)
	identity := new(mockIdentityClient)
	router := setupApplicationRouter(repo, identity)

	identity.On("GetUser", mock.Anything, "user-1").Return(&clients.IdentityUser{ID: "user-1"}, nil)
	repo.On("GetByUserID", mock.Anything, "user-1").Return(nil, repository.ErrNotFound)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.VendorApplication")).Return(nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/vendor-applications", bytes.NewReader(submitBody()))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp models.ApplicationResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "user-1", resp.Data.UserID)
}

func TestSubmitApplication_SecondSubmitConflicts(t *testing.T) {
	repo := new(mockApplicationRepo)
	identity := new(mockIdentityClient)
	router := setupApplicationRouter(repo, identity)

	identity.On("GetUser", mock.Anything, "user-1").Return(&clients.IdentityUser{ID: "user-1"}, nil)
	repo.On("GetByUserID", mock.Anything, "user-1").Return(nil, repository.ErrNotFound).Once()
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.VendorApplication")).Return(nil).Once()
	repo.On("GetByUserID", mock.Anything, "user-1").Return(&models.VendorApplication{ID: uuid.New(), UserID: "user-1"}, nil).Once()

	first := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/vendor-applications", bytes.NewReader(submitBody()))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(first, req)

	second := httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodPost, "/api/v1/vendor-applications", bytes.NewReader(submitBody()))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(second, req)

	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusConflict, second.Code)

	var resp models.ErrorResponse
	assert.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "CONFLICT", resp.Error.Code)
}

func TestSubmitApplication_MissingBodyRejected(t *testing.T) {
	repo := new(mockApplicationRepo)
	identity := new(mockIdentityClient)
	router := setupApplicationRouter(repo, identity)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/vendor-applications", bytes.NewReader([]byte(`{"user_id":"u"}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewApplication_NotFound(t *testing.T) {
	repo := new(mockApplicationRepo)
	identity := new(mockIdentityClient)
	router := setupApplicationRouter(repo, identity)

	id := uuid.New()
	repo.On("MarkReviewed", mock.Anything, id).Return(repository.ErrNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPatch, "/api/v1/vendor-applications/"+id.String()+"/review", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPromoteApplication_UnmatchedEmailNotFound(t *testing.T) {
	repo := new(mockApplicationRepo)
	identity := new(mockIdentityClient)
	router := setupApplicationRouter(repo, identity)

	id := uuid.New()
	app := &models.VendorApplication{ID: id, UserID: "user-1", Email: "jane@example.com"}
	repo.On("GetByID", mock.Anything, id).Return(app, nil)
	identity.On("ListUsers", mock.Anything).Return([]clients.IdentityUser{}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPatch, "/api/v1/vendor-applications/"+id.String()+"/promote", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	identity.AssertNotCalled(t, "SetUserFlags", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "CreateProfile", mock.Anything, mock.Anything)
}

func TestListApplications_OK(t *testing.T) {
	repo := new(mockApplicationRepo)
	identity := new(mockIdentityClient)
	router := setupApplicationRouter(repo, identity)

	apps := []models.VendorApplication{{ID: uuid.New(), UserID: "user-1", Name: "Jane"}}
	pagination := &models.PaginationInfo{Page: 1, Limit: 20, Total: 1, TotalPages: 1}
	repo.On("List", mock.Anything, 1, 20).Return(apps, pagination, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/vendor-applications", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.ApplicationListResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.Applications, 1)
}
