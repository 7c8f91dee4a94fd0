package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"commerce-admin-service/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("record not found")

type ApplicationRepository interface {
	Create(ctx context.Context, app *models.VendorApplication) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.VendorApplication, error)
	GetByUserID(ctx context.Context, userID string) (*models.VendorApplication, error)
	List(ctx context.Context, page, limit int) ([]models.VendorApplication, *models.PaginationInfo, error)
	MarkReviewed(ctx context.Context, id uuid.UUID) error
	CreateProfile(ctx context.Context, profile *models.VendorProfile) error
	GetProfile(ctx context.Context, id string) (*models.VendorProfile, error)
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, app *models.VendorApplication) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *applicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.VendorApplication, error) {
	var app models.VendorApplication
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) GetByUserID(ctx context.Context, userID string) (*models.VendorApplication, error) {
	var app models.VendorApplication
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) List(ctx context.Context, page, limit int) ([]models.VendorApplication, *models.PaginationInfo, error) {
	var apps []models.VendorApplication
	var total int64

	query := r.db.WithContext(ctx).Model(&models.VendorApplication{})
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).
		Order("inserted_at DESC").
		Find(&apps).Error; err != nil {
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

	return apps, pagination, nil
}

func (r *applicationRepository) MarkReviewed(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.VendorApplication{}).
		Where("id = ?", id).
		Update("reviewed", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *applicationRepository) CreateProfile(ctx context.Context, profile *models.VendorProfile) error {
	profile.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *applicationRepository) GetProfile(ctx context.Context, id string) (*models.VendorProfile, error) {
	var profile models.VendorProfile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}
