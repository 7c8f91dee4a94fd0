package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"commerce-admin-service/internal/apierrors"
	"commerce-admin-service/internal/models"
	"commerce-admin-service/internal/repository"
)

// PromotionService manages time-boxed featured product placements.
type PromotionService struct {
	repo        *repository.PromotionRepository
	productRepo repository.ProductRepository
	now         Clock
	logger      *logrus.Entry
}

func NewPromotionService(repo *repository.PromotionRepository, productRepo repository.ProductRepository, now Clock, logger *logrus.Logger) *PromotionService {
	if now == nil {
		now = time.Now
	}
	return &PromotionService{
		repo:        repo,
		productRepo: productRepo,
		now:         now,
		logger:      logger.WithField("component", "promotion_service"),
	}
}

func (s *PromotionService) Create(ctx context.Context, req *models.CreateFeaturedProductRequest) (*models.FeaturedProduct, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apierrors.Validation("invalid product id")
	}
	if !req.EndsAt.After(req.StartsAt) {
		return nil, apierrors.Validation("endsAt must be after startsAt")
	}

	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierrors.NotFound("product not found")
		}
		return nil, apierrors.Upstream("failed to load product", err)
	}

	promo := &models.FeaturedProduct{
		ID:        uuid.New(),
		ProductID: productID,
		VendorID:  req.VendorID,
		Headline:  req.Headline,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
	}
	if err := s.repo.Create(ctx, promo); err != nil {
		return nil, apierrors.Upstream("failed to create featured product", err)
	}

	s.logger.WithFields(logrus.Fields{
		"promotion_id": promo.ID,
		"product_id":   promo.ProductID,
	}).Info("Featured product created")

	return promo, nil
}

// ListActive returns promotions whose window contains the current time.
func (s *PromotionService) ListActive(ctx context.Context) ([]models.FeaturedProduct, error) {
	promos, err := s.repo.ListActive(ctx, s.now().UTC())
	if err != nil {
		return nil, apierrors.Upstream("failed to list active promotions", err)
	}
	return promos, nil
}

func (s *PromotionService) List(ctx context.Context, page, limit int) ([]models.FeaturedProduct, *models.PaginationInfo, error) {
	promos, pagination, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, nil, apierrors.Upstream("failed to list promotions", err)
	}
	return promos, pagination, nil
}

func (s *PromotionService) Delete(ctx context.Context, id string) error {
	promoID, err := uuid.Parse(id)
	if err != nil {
		return apierrors.Validation("invalid promotion id")
	}
	if err := s.repo.Delete(ctx, promoID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apierrors.NotFound("promotion not found")
		}
		return apierrors.Upstream("failed to delete promotion", err)
	}
	return nil
}
