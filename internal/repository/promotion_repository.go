package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"commerce-admin-service/internal/models"
)

type PromotionRepository struct {
	db *gorm.DB
}

func NewPromotionRepository(db *gorm.DB) *PromotionRepository {
	return &PromotionRepository{db: db}
}

func (r *PromotionRepository) Create(ctx context.Context, promo *models.FeaturedProduct) error {
	return r.db.WithContext(ctx).Create(promo).Error
}

func (r *PromotionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.FeaturedProduct, error) {
	var promo models.FeaturedProduct
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("id = ?", id).
		First(&promo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &promo, nil
}

// ListActive returns promotions whose window contains now, newest first.
func (r *PromotionRepository) ListActive(ctx context.Context, now time.Time) ([]models.FeaturedProduct, error) {
	var promos []models.FeaturedProduct
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("starts_at <= ? AND ends_at > ?", now, now).
		Order("starts_at DESC").
		Find(&promos).Error
	return promos, err
}

func (r *PromotionRepository) List(ctx context.Context, page, limit int) ([]models.FeaturedProduct, *models.PaginationInfo, error) {
	var promos []models.FeaturedProduct
	var total int64

	query := r.db.WithContext(ctx).Model(&models.FeaturedProduct{})
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	offset := (page - 1) * limit
	err := query.Preload("Product").
		Order("starts_at DESC").
		Limit(limit).Offset(offset).
		Find(&promos).Error
	if err != nil {
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

	return promos, pagination, nil
}

func (r *PromotionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.FeaturedProduct{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
