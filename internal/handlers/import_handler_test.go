package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"commerce-admin-service/internal/models"
	"commerce-admin-service/internal/repository"
)

func setupImportRouter(repo *mockProductRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewImportHandler(repo, testLogger())

	router := gin.New()
	router.GET("/api/v1/products/import/template", handler.GetImportTemplate)
	router.POST("/api/v1/products/import", handler.ImportProducts)
	return router
}

func importRequest(t *testing.T, filename, content string, fields map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	assert.NoError(t, err)
	_, err = part.Write([]byte(content))
	assert.NoError(t, err)
	for key, value := range fields {
		writer.WriteField(key, value)
	}
	assert.NoError(t, writer.Close())

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/products/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestImportProducts_CSV(t *testing.T) {
	repo := new(mockProductRepo)
	router := setupImportRouter(repo)

	csvContent := "name,sku,stock,costPrice,sellPrice\n" +
		"Wireless Mouse,WM-1,25,4.50,12.99\n" +
		"USB-C Cable,UC-1,100,0.80,5.99\n"

	repo.On("BulkCreate", mock.Anything, mock.AnythingOfType("[]*models.Product"), false).
		Run(func(args mock.Arguments) {
			products := args.Get(1).([]*models.Product)
			assert.Len(t, products, 2)
			assert.Equal(t, "Wireless Mouse", products[0].Name)
			assert.Equal(t, "WM-1", products[0].SKU)
			assert.Equal(t, 25, products[0].Stock)
			assert.Equal(t, 4.50, products[0].CostPrice)
		}).
		Return(&repository.BulkCreateResult{
			Created: []*models.Product{{}, {}},
			Errors:  []repository.BulkCreateError{},
			Total:   2,
			Success: 2,
		}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, importRequest(t, "products.csv", csvContent, nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var result ImportResult
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.TotalRows)
	assert.Equal(t, 2, result.SuccessCount)
	repo.AssertExpectations(t)
}

func TestImportProducts_ValidateOnlySkipsCreate(t *testing.T) {
	repo := new(mockProductRepo)
	router := setupImportRouter(repo)

	csvContent := "name,sellPrice\nWireless Mouse,12.99\n"

	w := httptest.NewRecorder()
	router.ServeHTTP(w, importRequest(t, "products.csv", csvContent, map[string]string{"validateOnly": "true"}))

	assert.Equal(t, http.StatusOK, w.Code)

	var result ImportResult
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.SuccessCount)
	repo.AssertNotCalled(t, "BulkCreate", mock.Anything, mock.Anything, mock.Anything)
}

func TestImportProducts_MissingRequiredField(t *testing.T) {
	repo := new(mockProductRepo)
	router := setupImportRouter(repo)

	csvContent := "name,sellPrice\n,12.99\n"

	w := httptest.NewRecorder()
	router.ServeHTTP(w, importRequest(t, "products.csv", csvContent, map[string]string{"validateOnly": "true"}))

	assert.Equal(t, http.StatusOK, w.Code)

	var result ImportResult
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Equal(t, 1, result.FailedCount)
	assert.NotEmpty(t, result.Errors)
	assert.Equal(t, "REQUIRED_FIELD", result.Errors[0].Code)
}

func TestImportProducts_UnsupportedExtensionRejected(t *testing.T) {
	repo := new(mockProductRepo)
	router := setupImportRouter(repo)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, importRequest(t, "products.txt", "name\nA\n", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportProducts_InvalidNumberReported(t *testing.T) {
	repo := new(mockProductRepo)
	router := setupImportRouter(repo)

	csvContent := "name,stock,sellPrice\nWidget,lots,9.99\n"

	w := httptest.NewRecorder()
	router.ServeHTTP(w, importRequest(t, "products.csv", csvContent, map[string]string{"validateOnly": "true"}))

	assert.Equal(t, http.StatusOK, w.Code)

	var result ImportResult
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Equal(t, "INVALID_NUMBER", result.Errors[0].Code)
}

func TestGetImportTemplate_JSON(t *testing.T) {
	repo := new(mockProductRepo)
	router := setupImportRouter(repo)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/products/import/template", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success  bool           `json:"success"`
		Template ImportTemplate `json:"template"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "products", resp.Template.Entity)
	assert.NotEmpty(t, resp.Template.Columns)
}

func TestGetImportTemplate_CSV(t *testing.T) {
	repo := new(mockProductRepo)
	router := setupImportRouter(repo)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/products/import/template?format=csv", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Body.String(), "name,sku,stock")
}
