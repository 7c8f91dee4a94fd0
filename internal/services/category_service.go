package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"commerce-admin-service/internal/apierrors"
	"commerce-admin-service/internal/clients"
	"commerce-admin-service/internal/events"
	"commerce-admin-service/internal/models"
	"commerce-admin-service/internal/repository"
)

const maxCategoryImageSize = 5 << 20 // 5MB

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug converts a display name into a URL slug.
func GenerateSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// CategoryService manages storefront categories and their images.
type CategoryService struct {
	repo      *repository.CategoryRepository
	storage   clients.StorageClient
	bucket    string
	publisher *events.Publisher
	logger    *logrus.Entry
}

func NewCategoryService(repo *repository.CategoryRepository, storage clients.StorageClient, bucket string, publisher *events.Publisher, logger *logrus.Logger) *CategoryService {
	return &CategoryService{
		repo:      repo,
		storage:   storage,
		bucket:    bucket,
		publisher: publisher,
		logger:    logger.WithField("component", "category_service"),
	}
}

func (s *CategoryService) Create(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
	slug := req.Slug
	if slug == "" {
		slug = GenerateSlug(req.Name)
	}
	if slug == "" {
		return nil, apierrors.Validation("category name must contain at least one alphanumeric character")
	}

	category := &models.Category{
		ID:          uuid.New(),
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		Position:    req.Position,
		IsActive:    true,
	}

	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return nil, apierrors.Conflict(fmt.Sprintf("category slug %q already exists", slug))
		}
		return nil, apierrors.Upstream("failed to create category", err)
	}

	if err := s.publisher.PublishCategoryEvent(ctx, events.CategoryCreated, category.ID.String(), category.Name, category.Slug); err != nil {
		s.logger.WithError(err).Warn("Failed to publish category created event")
	}

	return category, nil
}

func (s *CategoryService) Get(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierrors.NotFound("category not found")
		}
		return nil, apierrors.Upstream("failed to load category", err)
	}
	return category, nil
}

func (s *CategoryService) List(ctx context.Context, page, limit int) ([]models.Category, *models.PaginationInfo, error) {
	offset := (page - 1) * limit
	categories, total, err := s.repo.GetAll(ctx, limit, offset)
	if err != nil {
		return nil, nil, apierrors.Upstream("failed to list categories", err)
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
	return categories, pagination, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, req *models.UpdateCategoryRequest) (*models.Category, error) {
	if req.Slug != nil {
		taken, err := s.repo.SlugExists(ctx, *req.Slug)
		if err != nil {
			return nil, apierrors.Upstream("failed to check slug", err)
		}
		if taken {
			existing, err := s.repo.GetByID(ctx, id)
			if err == nil && existing.Slug != *req.Slug {
				return nil, apierrors.Conflict(fmt.Sprintf("category slug %q already exists", *req.Slug))
			}
		}
	}

	category, err := s.repo.Update(ctx, id, req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierrors.NotFound("category not found")
		}
		return nil, apierrors.Upstream("failed to update category", err)
	}

	if err := s.publisher.PublishCategoryEvent(ctx, events.CategoryUpdated, category.ID.String(), category.Name, category.Slug); err != nil {
		s.logger.WithError(err).Warn("Failed to publish category updated event")
	}

	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, id string) error {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apierrors.NotFound("category not found")
		}
		return apierrors.Upstream("failed to load category", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apierrors.NotFound("category not found")
		}
		return apierrors.Upstream("failed to delete category", err)
	}

	if err := s.publisher.PublishCategoryEvent(ctx, events.CategoryDeleted, category.ID.String(), category.Name, category.Slug); err != nil {
		s.logger.WithError(err).Warn("Failed to publish category deleted event")
	}

	return nil
}

// UploadImage stores a category image in object storage and, when a
// category id accompanies the upload, attaches the public URL to it.
func (s *CategoryService) UploadImage(ctx context.Context, categoryID string, header *multipart.FileHeader) (string, *models.Category, error) {
	if header == nil {
		return "", nil, apierrors.Validation("image file is required")
	}
	if header.Size > maxCategoryImageSize {
		return "", nil, apierrors.Validation("image exceeds the 5MB limit")
	}

	contentType := clients.DetectContentType(header)
	if !strings.HasPrefix(contentType, "image/") {
		return "", nil, apierrors.Validation("only image uploads are accepted")
	}

	file, err := header.Open()
	if err != nil {
		return "", nil, apierrors.Upstream("failed to read upload", err)
	}
	defer file.Close()

	ext := filepath.Ext(header.Filename)
	objectName := fmt.Sprintf("categories/%s%s", uuid.New().String(), ext)

	url, err := s.storage.UploadObject(ctx, s.bucket, objectName, contentType, file)
	if err != nil {
		return "", nil, apierrors.Upstream("failed to store image", err)
	}

	var category *models.Category
	if categoryID != "" {
		category, err = s.Update(ctx, categoryID, &models.UpdateCategoryRequest{ImageURL: &url})
		if err != nil {
			return "", nil, err
		}
	}

	s.logger.WithFields(logrus.Fields{
		"object": objectName,
		"size":   header.Size,
	}).Info("Category image uploaded")

	return url, category, nil
}
