package service

import (
	"context"
	"fmt"

	"github.com/atelier-market/atelier-api/internal/constants"
	"github.com/atelier-market/atelier-api/internal/logger"
	"github.com/atelier-market/atelier-api/internal/models"
	"github.com/atelier-market/atelier-api/internal/repository"
)

// FollowResult is the post-toggle state of one (follower, followee) pair.
type FollowResult struct {
	Active    bool  `json:"active"`
	Followers int64 `json:"followers"`
}

// FollowService owns user-to-user follow toggles.
type FollowService struct {
	followRepo      repository.FollowRepository
	userRepo        repository.UserRepository
	notificationSvc *NotificationService
	limiter         ToggleLimiter
}

// NewFollowService creates a follow service. limiter may be nil.
func NewFollowService(
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	notificationSvc *NotificationService,
	limiter ToggleLimiter,
) *FollowService {
	return &FollowService{
		followRepo:      followRepo,
		userRepo:        userRepo,
		notificationSvc: notificationSvc,
		limiter:         limiter,
	}
}

// Toggle flips the follow pair. Following notifies the followee.
func (s *FollowService) Toggle(ctx context.Context, followerID, followeeID uint) (*FollowResult, error) {
	if followerID == followeeID {
		return nil, ErrSelfFollow
	}
	followee, err := s.userRepo.GetByID(followeeID)
	if err != nil {
		return nil, err
	}
	if followee == nil {
		return nil, ErrUserNotFound
	}

	if s.limiter != nil {
		allowed, retryAfter, err := s.limiter.Allow(ctx, constants.RateActionToggleFollow, fmt.Sprintf("%d", followerID))
		if err != nil {
			logger.Warnw("toggle_rate_limit_check_failed", "action", constants.RateActionToggleFollow, "user_id", followerID, "error", err)
		} else if !allowed {
			return nil, &RateLimitedError{RetryAfterSeconds: retryAfter}
		}
	}

	exists, err := s.followRepo.Exists(followerID, followeeID)
	if err != nil {
		return nil, err
	}
	if exists {
		if err := s.followRepo.Delete(followerID, followeeID); err != nil {
			return nil, err
		}
	} else {
		if err := s.followRepo.Create(followerID, followeeID); err != nil {
			return nil, err
		}
		s.notificationSvc.Notify(followeeID, constants.NotificationKindFollow, models.JSON{
			"follower_id": followerID,
		})
	}

	followers, err := s.followRepo.CountFollowers(followeeID)
	if err != nil {
		return nil, err
	}
	return &FollowResult{Active: !exists, Followers: followers}, nil
}
