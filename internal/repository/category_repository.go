package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"commerce-admin-service/internal/models"
)

// Cache TTL constants
const (
	categoryCacheTTL     = 30 * time.Minute
	categoryListCacheTTL = 15 * time.Minute
)

var ErrDuplicateSlug = errors.New("category slug already exists")

// CategoryRepository reads and writes categories with a redis
// read-through cache. A nil redis client disables caching.
type CategoryRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewCategoryRepository(db *gorm.DB, redis *redis.Client) *CategoryRepository {
	return &CategoryRepository{
		db:    db,
		redis: redis,
	}
}

func (r *CategoryRepository) invalidateCaches(ctx context.Context, categoryID *string) {
	if r.redis == nil {
		return
	}

	if categoryID != nil {
		r.redis.Del(ctx, fmt.Sprintf("storefront:categories:category:%s", *categoryID))
	}
	keys, _ := r.redis.Keys(ctx, "storefront:categories:list:*").Result()
	if len(keys) > 0 {
		r.redis.Del(ctx, keys...)
	}
}

// Create creates a new category, rejecting duplicate slugs.
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	exists, err := r.SlugExists(ctx, category.Slug)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateSlug
	}

	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return err
	}
	r.invalidateCaches(ctx, nil)
	return nil
}

// GetByID retrieves a category by ID with caching.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	cacheKey := fmt.Sprintf("storefront:categories:category:%s", id)

	if r.redis != nil {
		val, err := r.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var category models.Category
			if err := json.Unmarshal([]byte(val), &category); err == nil {
				return &category, nil
			}
		}
	}

	var category models.Category
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if r.redis != nil {
		if data, err := json.Marshal(category); err == nil {
			r.redis.Set(ctx, cacheKey, data, categoryCacheTTL)
		}
	}

	return &category, nil
}

// GetAll retrieves categories ordered by position with caching.
func (r *CategoryRepository) GetAll(ctx context.Context, limit, offset int) ([]models.Category, int64, error) {
	cacheKey := fmt.Sprintf("storefront:categories:list:%d:%d", limit, offset)

	type listResult struct {
		Categories []models.Category `json:"categories"`
		Total      int64             `json:"total"`
	}

	if r.redis != nil {
		val, err := r.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var result listResult
			if err := json.Unmarshal([]byte(val), &result); err == nil {
				return result.Categories, result.Total, nil
			}
		}
	}

	var categories []models.Category
	var total int64
	query := r.db.WithContext(ctx).Model(&models.Category{})
	query.Count(&total)
	err := query.Order("position ASC, name ASC").
		Limit(limit).Offset(offset).
		Find(&categories).Error
	if err != nil {
		return nil, 0, err
	}

	if r.redis != nil {
		result := listResult{Categories: categories, Total: total}
		if data, err := json.Marshal(result); err == nil {
			r.redis.Set(ctx, cacheKey, data, categoryListCacheTTL)
		}
	}

	return categories, total, nil
}

// Update applies a partial update to a category.
func (r *CategoryRepository) Update(ctx context.Context, id string, req *models.UpdateCategoryRequest) (*models.Category, error) {
	updateMap := make(map[string]interface{})

	if req.Name != nil {
		updateMap["name"] = *req.Name
	}
	if req.Slug != nil {
		updateMap["slug"] = *req.Slug
	}
	if req.Description != nil {
		updateMap["description"] = *req.Description
	}
	if req.ImageURL != nil {
		updateMap["image_url"] = *req.ImageURL
	}
	if req.Position != nil {
		updateMap["position"] = *req.Position
	}
	if req.IsActive != nil {
		updateMap["is_active"] = *req.IsActive
	}

	if len(updateMap) > 0 {
		updateMap["updated_at"] = time.Now()
		result := r.db.WithContext(ctx).Model(&models.Category{}).
			Where("id = ?", id).
			Updates(updateMap)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, ErrNotFound
		}
		r.invalidateCaches(ctx, &id)
	}

	return r.GetByID(ctx, id)
}

// Delete soft deletes a category.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	r.invalidateCaches(ctx, &id)
	return nil
}

// SlugExists checks whether a slug is already taken.
func (r *CategoryRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Category{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}
