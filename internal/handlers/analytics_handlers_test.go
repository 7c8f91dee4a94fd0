package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"

	"commerce-admin-service/internal/models"
	"commerce-admin-service/internal/repository"
	"commerce-admin-service/internal/services"
)

type mockOrderRepo struct {
	mock.Mock
}

var _ repository.OrderRepository = (*mockOrderRepo)(nil)

func (m *mockOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *mockOrderRepo) List(ctx context.Context, page, limit int) ([]models.Order, *models.PaginationInfo, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]models.Order), args.Get(1).(*models.PaginationInfo), args.Error(2)
}

func (m *mockOrderRepo) ListInWindow(ctx context.Context, start, end time.Time) ([]models.Order, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockOrderRepo) ListAll(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

type mockProductRepo struct {
	mock.Mock
}

var _ repository.ProductRepository = (*mockProductRepo)(nil)

func (m *mockProductRepo) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *mockProductRepo) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *mockProductRepo) List(ctx context.Context, page, limit int) ([]models.Product, *models.PaginationInfo, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]models.Product), args.Get(1).(*models.PaginationInfo), args.Error(2)
}

func (m *mockProductRepo) ListAll(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *mockProductRepo) Update(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) error {
	args := m.Called(ctx, id, req)
	return args.Error(0)
}

func (m *mockProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProductRepo) BulkCreate(ctx context.Context, products []*models.Product, skipDuplicates bool) (*repository.BulkCreateResult, error) {
	args := m.Called(ctx, products, skipDuplicates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.BulkCreateResult), args.Error(1)
}

func fixedClock(t time.Time) services.Clock {
	return func() time.Time { return t }
}

func setupAnalyticsRouter(orders *mockOrderRepo, products *mockProductRepo, now time.Time) *gin.Engine {
	gin.SetMode(gin.TestMode)
	service := services.NewAnalyticsService(orders, products, fixedClock(now), testLogger())
	handler := NewAnalyticsHandler(service, testLogger())

	router := gin.New()
	router.GET("/api/v1/analytics", handler.Overview)
	router.GET("/api/v1/analytics/sales", handler.Sales)
	router.GET("/api/v1/analytics/inventory", handler.Inventory)
	return router
}

func TestAnalyticsOverview_CurrentMonth(t *testing.T) {
	orders := new(mockOrderRepo)
	products := new(mockProductRepo)
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)
	router := setupAnalyticsRouter(orders, products, now)

	windowStart := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

	orderRows := []models.Order{
		{ID: uuid.New(), Items: datatypes.JSON([]byte(`[{"productName":"A","quantity":2,"price":10,"costPerUnit":4}]`))},
	}
	orders.On("ListInWindow", mock.Anything, windowStart, windowEnd).Return(orderRows, nil)
	products.On("ListAll", mock.Anything).Return([]models.Product{
		{ID: uuid.New(), Name: "A", SKU: "A-1", Stock: 7, CostPrice: 4, SellPrice: 10},
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/analytics?period=current_month", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.AnalyticsResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, float64(20), resp.Revenue)
	assert.Equal(t, float64(8), resp.COGS)
	assert.Equal(t, float64(12), resp.GrossProfit)
	assert.Equal(t, float64(2), resp.TotalUnitsSold)
	assert.Len(t, resp.Stock, 1)
	assert.Equal(t, 7, resp.Stock[0].Stock)
	orders.AssertExpectations(t)
}

func TestAnalyticsOverview_PreviousMonthWindow(t *testing.T) {
	orders := new(mockOrderRepo)
	products := new(mockProductRepo)
	now := time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)
	router := setupAnalyticsRouter(orders, products, now)

	windowStart := time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	orders.On("ListInWindow", mock.Anything, windowStart, windowEnd).Return([]models.Order{}, nil)
	products.On("ListAll", mock.Anything).Return([]models.Product{}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/analytics?period=previous_month", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	orders.AssertExpectations(t)
}

func TestAnalyticsOverview_UnknownPeriodRejected(t *testing.T) {
	orders := new(mockOrderRepo)
	products := new(mockProductRepo)
	router := setupAnalyticsRouter(orders, products, time.Now())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/analytics?period=last_week", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	orders.AssertNotCalled(t, "ListInWindow", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyticsInventory_Totals(t *testing.T) {
	orders := new(mockOrderRepo)
	products := new(mockProductRepo)
	router := setupAnalyticsRouter(orders, products, time.Now())

	products.On("ListAll", mock.Anything).Return([]models.Product{
		{ID: uuid.New(), Name: "A", Stock: 10, CostPrice: 2, SellPrice: 5},
		{ID: uuid.New(), Name: "B", Stock: 3, CostPrice: 1, SellPrice: 4},
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/analytics/inventory", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.InventoryReportResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(13), resp.TotalUnits)
	assert.Equal(t, float64(23), resp.TotalCostValue)
	assert.Equal(t, float64(62), resp.TotalSellValue)
	assert.Equal(t, int64(1), resp.LowStockCount)
}
