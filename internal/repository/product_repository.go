package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"commerce-admin-service/internal/models"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetBySKU(ctx context.Context, sku string) (*models.Product, error)
	List(ctx context.Context, page, limit int) ([]models.Product, *models.PaginationInfo, error)
	ListAll(ctx context.Context) ([]models.Product, error)
	Update(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
	BulkCreate(ctx context.Context, products []*models.Product, skipDuplicates bool) (*BulkCreateResult, error)
}

// BulkCreateResult represents the outcome of a bulk product create.
type BulkCreateResult struct {
	Created []*models.Product
	Errors  []BulkCreateError
	Total   int
	Success int
	Failed  int
	Skipped int
}

// BulkCreateError represents a failure for a single item in bulk create.
type BulkCreateError struct {
	Index   int
	Code    string
	Message string
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, page, limit int) ([]models.Product, *models.PaginationInfo, error) {
	var products []models.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Product{})
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).
		Order("name ASC").
		Find(&products).Error; err != nil {
		return nil, nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	pagination := &models.PaginationInfo{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}

	return products, pagination, nil
}

func (r *productRepository) ListAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepository) Update(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) error {
	updateMap := make(map[string]interface{})

	if req.Name != nil {
		updateMap["name"] = *req.Name
	}
	if req.SKU != nil {
		updateMap["sku"] = *req.SKU
	}
	if req.Stock != nil {
		updateMap["stock"] = *req.Stock
	}
	if req.CostPrice != nil {
		updateMap["cost_price"] = *req.CostPrice
	}
	if req.SellPrice != nil {
		updateMap["sell_price"] = *req.SellPrice
	}
	if req.ImageURL != nil {
		updateMap["image_url"] = *req.ImageURL
	}
	if req.IsActive != nil {
		updateMap["is_active"] = *req.IsActive
	}

	if len(updateMap) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		Updates(updateMap)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// BulkCreate inserts products in a transaction, checking SKU uniqueness
// per row so one bad row does not abort the whole import.
func (r *productRepository) BulkCreate(ctx context.Context, products []*models.Product, skipDuplicates bool) (*BulkCreateResult, error) {
	result := &BulkCreateResult{
		Created: make([]*models.Product, 0, len(products)),
		Errors:  make([]BulkCreateError, 0),
		Total:   len(products),
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, product := range products {
			if product.SKU != "" {
				var existingCount int64
				if err := tx.Model(&models.Product{}).
					Where("sku = ?", product.SKU).
					Count(&existingCount).Error; err != nil {
					result.Errors = append(result.Errors, BulkCreateError{
						Index:   i,
						Code:    "DB_ERROR",
						Message: "Failed to check for duplicate SKU",
					})
					continue
				}
				if existingCount > 0 {
					if skipDuplicates {
						result.Skipped++
						continue
					}
					result.Errors = append(result.Errors, BulkCreateError{
						Index:   i,
						Code:    "DUPLICATE_SKU",
						Message: "Product with this SKU already exists",
					})
					continue
				}
			}

			if err := tx.Create(product).Error; err != nil {
				result.Errors = append(result.Errors, BulkCreateError{
					Index:   i,
					Code:    "CREATE_FAILED",
					Message: err.Error(),
				})
				continue
			}

			result.Created = append(result.Created, product)
		}

		result.Success = len(result.Created)
		result.Failed = len(result.Errors)

		if result.Success == 0 && result.Total > 0 && result.Skipped == 0 {
			return errors.New("all products failed to create")
		}
		return nil
	})

	if err != nil && result.Success == 0 {
		return result, err
	}
	return result, nil
}
