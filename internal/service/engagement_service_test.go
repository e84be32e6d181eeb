package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/atelier-market/atelier-api/internal/constants"
	"github.com/atelier-market/atelier-api/internal/models"
	"github.com/atelier-market/atelier-api/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type stubLimiter struct {
	allowed    bool
	retryAfter int
	err        error
	calls      int
}

func (l *stubLimiter) Allow(ctx context.Context, action string, actorKey string) (bool, int, error) {
	l.calls++
	return l.allowed, l.retryAfter, l.err
}

func setupEngagementServiceTest(t *testing.T, limiter ToggleLimiter) (*EngagementService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:engagement_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Product{},
		&models.Like{},
		&models.Bookmark{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	notificationSvc := NewNotificationService(repository.NewNotificationRepository(db))
	svc := NewEngagementService(
		repository.NewEngagementRepository(db),
		repository.NewProductRepository(db),
		notificationSvc,
		limiter,
	)
	return svc, db
}

func createEngagementProduct(t *testing.T, db *gorm.DB, ownerID uint) *models.Product {
	t.Helper()
	product := &models.Product{
		OwnerID:  ownerID,
		Title:    "poster",
		Price:    models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		IsActive: true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestToggleLikeOnThenOff(t *testing.T) {
	svc, db := setupEngagementServiceTest(t, nil)
	product := createEngagementProduct(t, db, 1)

	on, err := svc.Toggle(context.Background(), constants.EngagementKindLike, 2, product.ID)
	if err != nil {
		t.Fatalf("toggle on failed: %v", err)
	}
	if !on.Active || on.Count != 1 {
		t.Fatalf("expected active with count 1, got %+v", on)
	}

	off, err := svc.Toggle(context.Background(), constants.EngagementKindLike, 2, product.ID)
	if err != nil {
		t.Fatalf("toggle off failed: %v", err)
	}
	if off.Active || off.Count != 0 {
		t.Fatalf("expected inactive with count 0, got %+v", off)
	}

	var rows int64
	if err := db.Model(&models.Like{}).Count(&rows).Error; err != nil {
		t.Fatalf("count likes failed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected 0 like rows after involution, got %d", rows)
	}
}

func TestToggleBookmarkIndependentOfLike(t *testing.T) {
	svc, db := setupEngagementServiceTest(t, nil)
	product := createEngagementProduct(t, db, 1)

	if _, err := svc.Toggle(context.Background(), constants.EngagementKindLike, 2, product.ID); err != nil {
		t.Fatalf("toggle like failed: %v", err)
	}
	bookmark, err := svc.Toggle(context.Background(), constants.EngagementKindBookmark, 2, product.ID)
	if err != nil {
		t.Fatalf("toggle bookmark failed: %v", err)
	}
	if !bookmark.Active || bookmark.Count != 1 {
		t.Fatalf("expected bookmark active with count 1, got %+v", bookmark)
	}

	like, err := svc.Status(constants.EngagementKindLike, product.ID, 2)
	if err != nil {
		t.Fatalf("like status failed: %v", err)
	}
	if !like.Active || like.Count != 1 {
		t.Fatalf("expected like untouched, got %+v", like)
	}
}

func TestToggleNotifiesOwnerOnceOnActivation(t *testing.T) {
	svc, db := setupEngagementServiceTest(t, nil)
	product := createEngagementProduct(t, db, 1)

	if _, err := svc.Toggle(context.Background(), constants.EngagementKindLike, 2, product.ID); err != nil {
		t.Fatalf("toggle on failed: %v", err)
	}
	if _, err := svc.Toggle(context.Background(), constants.EngagementKindLike, 2, product.ID); err != nil {
		t.Fatalf("toggle off failed: %v", err)
	}

	var notifications []models.Notification
	if err := db.Find(&notifications).Error; err != nil {
		t.Fatalf("load notifications failed: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("expected exactly 1 notification, got %d", len(notifications))
	}
	if notifications[0].RecipientID != 1 || notifications[0].Kind != constants.NotificationKindLike {
		t.Fatalf("unexpected notification: %+v", notifications[0])
	}
}

func TestToggleOwnProductSkipsNotification(t *testing.T) {
	svc, db := setupEngagementServiceTest(t, nil)
	product := createEngagementProduct(t, db, 2)

	if _, err := svc.Toggle(context.Background(), constants.EngagementKindLike, 2, product.ID); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	var rows int64
	if err := db.Model(&models.Notification{}).Count(&rows).Error; err != nil {
		t.Fatalf("count notifications failed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected no self-notification, got %d rows", rows)
	}
}

func TestToggleRateLimitedMutatesNothing(t *testing.T) {
	limiter := &stubLimiter{allowed: false, retryAfter: 42}
	svc, db := setupEngagementServiceTest(t, limiter)
	product := createEngagementProduct(t, db, 1)

	var limitErr *RateLimitedError
	_, err := svc.Toggle(context.Background(), constants.EngagementKindLike, 2, product.ID)
	if !errors.As(err, &limitErr) {
		t.Fatalf("expected RateLimitedError, got %v", err)
	}
	if limitErr.RetryAfterSeconds != 42 {
		t.Fatalf("expected retry after 42, got %d", limitErr.RetryAfterSeconds)
	}
	if limiter.calls != 1 {
		t.Fatalf("expected 1 limiter call, got %d", limiter.calls)
	}

	var rows int64
	if err := db.Model(&models.Like{}).Count(&rows).Error; err != nil {
		t.Fatalf("count likes failed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected no like rows, got %d", rows)
	}
}

func TestToggleLimiterErrorFailsOpen(t *testing.T) {
	limiter := &stubLimiter{err: errors.New("redis gone")}
	svc, db := setupEngagementServiceTest(t, limiter)
	product := createEngagementProduct(t, db, 1)

	got, err := svc.Toggle(context.Background(), constants.EngagementKindLike, 2, product.ID)
	if err != nil {
		t.Fatalf("expected fail-open toggle, got %v", err)
	}
	if !got.Active {
		t.Fatalf("expected toggle to land despite limiter error")
	}
}

func TestToggleUnknownProduct(t *testing.T) {
	svc, _ := setupEngagementServiceTest(t, nil)

	if _, err := svc.Toggle(context.Background(), constants.EngagementKindLike, 2, 999); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestStatusAnonymousViewer(t *testing.T) {
	svc, db := setupEngagementServiceTest(t, nil)
	product := createEngagementProduct(t, db, 1)
	if _, err := svc.Toggle(context.Background(), constants.EngagementKindLike, 2, product.ID); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	got, err := svc.Status(constants.EngagementKindLike, product.ID, 0)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if got.Active {
		t.Fatalf("anonymous viewer must never read active")
	}
	if got.Count != 1 {
		t.Fatalf("expected count 1, got %d", got.Count)
	}
}
