package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"commerce-admin-service/internal/apierrors"
	"commerce-admin-service/internal/clients"
	"commerce-admin-service/internal/events"
	"commerce-admin-service/internal/models"
	"commerce-admin-service/internal/repository"
)

// VendorService implements the vendor application lifecycle:
// submit, review and promote.
type VendorService struct {
	repo      repository.ApplicationRepository
	identity  clients.IdentityClient
	publisher *events.Publisher
	logger    *logrus.Entry
}

func NewVendorService(repo repository.ApplicationRepository, identity clients.IdentityClient, publisher *events.Publisher, logger *logrus.Logger) *VendorService {
	return &VendorService{
		repo:      repo,
		identity:  identity,
		publisher: publisher,
		logger:    logger.WithField("component", "vendor_service"),
	}
}

// Submit creates a vendor application for an existing identity user.
// The one-application-per-user rule is a read-then-insert check, so
// concurrent submissions for the same user can both pass it.
func (s *VendorService) Submit(ctx context.Context, req *models.SubmitApplicationRequest) (*models.VendorApplication, error) {
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.Name) == "" ||
		strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Message) == "" {
		return nil, apierrors.Validation("user_id, name, email and message are required")
	}

	if _, err := s.identity.GetUser(ctx, req.UserID); err != nil {
		if errors.Is(err, clients.ErrIdentityNotFound) {
			return nil, apierrors.Unauthenticated("no account found for user_id")
		}
		return nil, apierrors.Upstream("identity lookup failed", err)
	}

	existing, err := s.repo.GetByUserID(ctx, req.UserID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apierrors.Upstream("failed to check existing application", err)
	}
	if existing != nil {
		return nil, apierrors.Conflict("an application already exists for this user")
	}

	app := &models.VendorApplication{
		ID:       uuid.New(),
		UserID:   req.UserID,
		Name:     req.Name,
		Email:    req.Email,
		Message:  req.Message,
		Phone:    req.Phone,
		Category: req.Category,
		Reviewed: false,
	}
	if err := s.repo.Create(ctx, app); err != nil {
		return nil, apierrors.Upstream("failed to create application", err)
	}

	if err := s.publisher.PublishApplicationEvent(ctx, events.ApplicationSubmitted, app.ID.String(), app.UserID, app.Email, ""); err != nil {
		s.logger.WithError(err).Warn("Failed to publish application submitted event")
	}

	s.logger.WithFields(logrus.Fields{
		"application_id": app.ID,
		"user_id":        app.UserID,
	}).Info("Vendor application submitted")

	return app, nil
}

// Review marks an application as reviewed. Reviewing an already
// reviewed application succeeds and is a no-op.
func (s *VendorService) Review(ctx context.Context, id string) (*models.VendorApplication, error) {
	appID, err := uuid.Parse(id)
	if err != nil {
		return nil, apierrors.Validation("invalid application id")
	}

	if err := s.repo.MarkReviewed(ctx, appID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierrors.NotFound("application not found")
		}
		return nil, apierrors.Upstream("failed to mark application reviewed", err)
	}

	app, err := s.repo.GetByID(ctx, appID)
	if err != nil {
		return nil, apierrors.Upstream("failed to reload application", err)
	}

	if err := s.publisher.PublishApplicationEvent(ctx, events.ApplicationReviewed, app.ID.String(), app.UserID, app.Email, ""); err != nil {
		s.logger.WithError(err).Warn("Failed to publish application reviewed event")
	}

	return app, nil
}

// Promote grants vendor status to the identity whose email matches
// the application. The flag update and the profile insert are two
// separate writes with no surrounding transaction: if the insert
// fails the identity stays flagged as a vendor without a profile,
// and the error surfaces as an upstream failure.
func (s *VendorService) Promote(ctx context.Context, id string) (*models.PromotionResult, error) {
	appID, err := uuid.Parse(id)
	if err != nil {
		return nil, apierrors.Validation("invalid application id")
	}

	app, err := s.repo.GetByID(ctx, appID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierrors.NotFound("application not found")
		}
		return nil, apierrors.Upstream("failed to load application", err)
	}
	if strings.TrimSpace(app.Email) == "" {
		return nil, apierrors.NotFound("application has no email")
	}

	users, err := s.identity.ListUsers(ctx)
	if err != nil {
		return nil, apierrors.Upstream("failed to list identity users", err)
	}

	var match *clients.IdentityUser
	for i := range users {
		if strings.EqualFold(users[i].Email, app.Email) {
			match = &users[i]
			break
		}
	}
	if match == nil {
		return nil, apierrors.NotFound("no account matches the application email")
	}

	if err := s.identity.SetUserFlags(ctx, match.ID, map[string]bool{"isVendor": true}); err != nil {
		return nil, apierrors.Upstream("failed to set vendor flag", err)
	}

	profile := &models.VendorProfile{
		ID:       match.ID,
		Category: app.Category,
		Verified: true,
	}
	if err := s.repo.CreateProfile(ctx, profile); err != nil {
		// The vendor flag is already set at this point.
		return nil, apierrors.Upstream("failed to create vendor profile", err)
	}

	if err := s.publisher.PublishApplicationEvent(ctx, events.ApplicationPromoted, app.ID.String(), app.UserID, app.Email, match.ID); err != nil {
		s.logger.WithError(err).Warn("Failed to publish application promoted event")
	}

	s.logger.WithFields(logrus.Fields{
		"application_id": app.ID,
		"identity_id":    match.ID,
	}).Info("Vendor application promoted")

	return &models.PromotionResult{
		Application: app,
		Profile:     profile,
		IdentityID:  match.ID,
	}, nil
}

// List returns applications newest first.
func (s *VendorService) List(ctx context.Context, page, limit int) ([]models.VendorApplication, *models.PaginationInfo, error) {
	apps, pagination, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, nil, apierrors.Upstream("failed to list applications", err)
	}
	return apps, pagination, nil
}
