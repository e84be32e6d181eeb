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
	"gorm.io/gorm"
)

func setupFollowServiceTest(t *testing.T) (*FollowService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:follow_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Follow{}, &models.Notification{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	svc := NewFollowService(
		repository.NewFollowRepository(db),
		repository.NewUserRepository(db),
		NewNotificationService(repository.NewNotificationRepository(db)),
		nil,
	)
	return svc, db
}

func createFollowUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: name + "@example.com", Password: "x"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func TestFollowToggleOnThenOff(t *testing.T) {
	svc, db := setupFollowServiceTest(t)
	follower := createFollowUser(t, db, "mika")
	followee := createFollowUser(t, db, "ren")

	on, err := svc.Toggle(context.Background(), follower.ID, followee.ID)
	if err != nil {
		t.Fatalf("toggle on failed: %v", err)
	}
	if !on.Active || on.Followers != 1 {
		t.Fatalf("expected active with 1 follower, got %+v", on)
	}

	off, err := svc.Toggle(context.Background(), follower.ID, followee.ID)
	if err != nil {
		t.Fatalf("toggle off failed: %v", err)
	}
	if off.Active || off.Followers != 0 {
		t.Fatalf("expected inactive with 0 followers, got %+v", off)
	}
}

func TestFollowSelfRejected(t *testing.T) {
	svc, db := setupFollowServiceTest(t)
	user := createFollowUser(t, db, "mika")

	if _, err := svc.Toggle(context.Background(), user.ID, user.ID); !errors.Is(err, ErrSelfFollow) {
		t.Fatalf("expected ErrSelfFollow, got %v", err)
	}
}

func TestFollowUnknownUser(t *testing.T) {
	svc, db := setupFollowServiceTest(t)
	follower := createFollowUser(t, db, "mika")

	if _, err := svc.Toggle(context.Background(), follower.ID, 999); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestFollowNotifiesFollowee(t *testing.T) {
	svc, db := setupFollowServiceTest(t)
	follower := createFollowUser(t, db, "mika")
	followee := createFollowUser(t, db, "ren")

	if _, err := svc.Toggle(context.Background(), follower.ID, followee.ID); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	var notifications []models.Notification
	if err := db.Find(&notifications).Error; err != nil {
		t.Fatalf("load notifications failed: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifications))
	}
	if notifications[0].RecipientID != followee.ID || notifications[0].Kind != constants.NotificationKindFollow {
		t.Fatalf("unexpected notification: %+v", notifications[0])
	}
}
