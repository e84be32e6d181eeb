package service

import (
	"context"
	"fmt"

	"github.com/atelier-market/atelier-api/internal/constants"
	"github.com/atelier-market/atelier-api/internal/logger"
	"github.com/atelier-market/atelier-api/internal/models"
	"github.com/atelier-market/atelier-api/internal/repository"
)

// ToggleLimiter caps toggle actions per actor. Implementations must fail
// open on backend trouble so engagement never hard-depends on the cache.
type ToggleLimiter interface {
	Allow(ctx context.Context, action string, actorKey string) (allowed bool, retryAfterSeconds int, err error)
}

// EngagementResult is the post-toggle state of one (viewer, product) pair.
type EngagementResult struct {
	Active bool  `json:"active"`
	Count  int64 `json:"count"`
}

// EngagementService owns like and bookmark toggles.
type EngagementService struct {
	engagementRepo  repository.EngagementRepository
	productRepo     repository.ProductRepository
	notificationSvc *NotificationService
	limiter         ToggleLimiter
}

// NewEngagementService creates an engagement service. limiter may be nil.
func NewEngagementService(
	engagementRepo repository.EngagementRepository,
	productRepo repository.ProductRepository,
	notificationSvc *NotificationService,
	limiter ToggleLimiter,
) *EngagementService {
	return &EngagementService{
		engagementRepo:  engagementRepo,
		productRepo:     productRepo,
		notificationSvc: notificationSvc,
		limiter:         limiter,
	}
}

// Toggle flips the engagement row for (user, product). Toggling on
// notifies the product owner unless the actor owns the product. A rate
// limited call mutates nothing and reports when to retry.
func (s *EngagementService) Toggle(ctx context.Context, kind string, userID, productID uint) (*EngagementResult, error) {
	product, err := s.productRepo.GetActiveByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if s.limiter != nil {
		action := constants.RateActionToggleLike
		if kind == constants.EngagementKindBookmark {
			action = constants.RateActionToggleBookmark
		}
		allowed, retryAfter, err := s.limiter.Allow(ctx, action, fmt.Sprintf("%d", userID))
		if err != nil {
			logger.Warnw("toggle_rate_limit_check_failed", "action", action, "user_id", userID, "error", err)
		} else if !allowed {
			return nil, &RateLimitedError{RetryAfterSeconds: retryAfter}
		}
	}

	exists, err := s.engagementRepo.Exists(kind, userID, productID)
	if err != nil {
		return nil, err
	}
	if exists {
		if err := s.engagementRepo.Delete(kind, userID, productID); err != nil {
			return nil, err
		}
	} else {
		if err := s.engagementRepo.Create(kind, userID, productID); err != nil {
			return nil, err
		}
		if product.OwnerID != userID {
			notificationKind := constants.NotificationKindLike
			if kind == constants.EngagementKindBookmark {
				notificationKind = constants.NotificationKindBookmark
			}
			s.notificationSvc.Notify(product.OwnerID, notificationKind, models.JSON{
				"product_id": product.ID,
				"user_id":    userID,
			})
		}
	}

	count, err := s.engagementRepo.CountByProduct(kind, productID)
	if err != nil {
		return nil, err
	}
	return &EngagementResult{Active: !exists, Count: count}, nil
}

// Status reports the viewer's engagement state and the product count.
// viewerID 0 means anonymous, so Active is always false.
func (s *EngagementService) Status(kind string, productID, viewerID uint) (*EngagementResult, error) {
	count, err := s.engagementRepo.CountByProduct(kind, productID)
	if err != nil {
		return nil, err
	}
	active := false
	if viewerID != 0 {
		active, err = s.engagementRepo.Exists(kind, viewerID, productID)
		if err != nil {
			return nil, err
		}
	}
	return &EngagementResult{Active: active, Count: count}, nil
}
