package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"commerce-admin-service/internal/apierrors"
	"commerce-admin-service/internal/models"
	"commerce-admin-service/internal/repository"
)

// ProductService manages the product catalog.
type ProductService struct {
	repo   repository.ProductRepository
	logger *logrus.Entry
}

func NewProductService(repo repository.ProductRepository, logger *logrus.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		logger: logger.WithField("component", "product_service"),
	}
}

// GenerateSKU derives a SKU from a product name.
func GenerateSKU(name string) string {
	base := strings.ToUpper(GenerateSlug(name))
	if len(base) > 24 {
		base = base[:24]
	}
	suffix := strings.Split(uuid.New().String(), "-")[0]
	return fmt.Sprintf("%s-%s", base, strings.ToUpper(suffix))
}

func (s *ProductService) Create(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	sku := strings.TrimSpace(req.SKU)
	if sku == "" {
		sku = GenerateSKU(req.Name)
	} else {
		existing, err := s.repo.GetBySKU(ctx, sku)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, apierrors.Upstream("failed to check sku", err)
		}
		if existing != nil {
			return nil, apierrors.Conflict(fmt.Sprintf("sku %q already exists", sku))
		}
	}

	product := &models.Product{
		ID:        uuid.New(),
		Name:      req.Name,
		SKU:       sku,
		Stock:     req.Stock,
		CostPrice: req.CostPrice,
		SellPrice: req.SellPrice,
		ImageURL:  req.ImageURL,
		IsActive:  true,
	}

	if req.Category != nil && *req.Category != "" {
		categoryID, err := uuid.Parse(*req.Category)
		if err != nil {
			return nil, apierrors.Validation("invalid category id")
		}
		product.CategoryID = &categoryID
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, apierrors.Upstream("failed to create product", err)
	}

	s.logger.WithFields(logrus.Fields{
		"product_id": product.ID,
		"sku":        product.SKU,
	}).Info("Product created")

	return product, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, apierrors.Validation("invalid product id")
	}

	product, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierrors.NotFound("product not found")
		}
		return nil, apierrors.Upstream("failed to load product", err)
	}
	return product, nil
}

func (s *ProductService) List(ctx context.Context, page, limit int) ([]models.Product, *models.PaginationInfo, error) {
	products, pagination, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, nil, apierrors.Upstream("failed to list products", err)
	}
	return products, pagination, nil
}

func (s *ProductService) Update(ctx context.Context, id string, req *models.UpdateProductRequest) (*models.Product, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, apierrors.Validation("invalid product id")
	}

	if req.SKU != nil && *req.SKU != "" {
		existing, err := s.repo.GetBySKU(ctx, *req.SKU)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, apierrors.Upstream("failed to check sku", err)
		}
		if existing != nil && existing.ID != productID {
			return nil, apierrors.Conflict(fmt.Sprintf("sku %q already exists", *req.SKU))
		}
	}

	if err := s.repo.Update(ctx, productID, req); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierrors.NotFound("product not found")
		}
		return nil, apierrors.Upstream("failed to update product", err)
	}

	return s.Get(ctx, id)
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	productID, err := uuid.Parse(id)
	if err != nil {
		return apierrors.Validation("invalid product id")
	}

	if err := s.repo.Delete(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apierrors.NotFound("product not found")
		}
		return apierrors.Upstream("failed to delete product", err)
	}
	return nil
}
