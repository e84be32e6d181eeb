package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/atelier-market/atelier-api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupViewRepositoryTest(t *testing.T) (*GormViewRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:view_repository_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.ProductView{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewViewRepository(db), db
}

func TestRecentExistsKeysByUserWhenSignedIn(t *testing.T) {
	repo, _ := setupViewRepositoryTest(t)
	if err := repo.Create(&models.ProductView{UserID: 7, ProductID: 10, IP: "10.0.0.1"}); err != nil {
		t.Fatalf("create view failed: %v", err)
	}

	exists, err := repo.RecentExists(7, "10.0.0.2", 10, time.Hour)
	if err != nil {
		t.Fatalf("recent exists failed: %v", err)
	}
	if !exists {
		t.Fatalf("expected dedup hit for the same user regardless of IP")
	}

	exists, err = repo.RecentExists(8, "10.0.0.1", 10, time.Hour)
	if err != nil {
		t.Fatalf("recent exists failed: %v", err)
	}
	if exists {
		t.Fatalf("expected no hit for a different user")
	}
}

func TestRecentExistsKeysByIPWhenAnonymous(t *testing.T) {
	repo, _ := setupViewRepositoryTest(t)
	if err := repo.Create(&models.ProductView{UserID: 0, ProductID: 10, IP: "10.0.0.1"}); err != nil {
		t.Fatalf("create view failed: %v", err)
	}

	exists, err := repo.RecentExists(0, "10.0.0.1", 10, time.Hour)
	if err != nil {
		t.Fatalf("recent exists failed: %v", err)
	}
	if !exists {
		t.Fatalf("expected dedup hit for the same anonymous IP")
	}

	exists, err = repo.RecentExists(0, "10.0.0.9", 10, time.Hour)
	if err != nil {
		t.Fatalf("recent exists failed: %v", err)
	}
	if exists {
		t.Fatalf("expected no hit for a different IP")
	}
}

func TestRecentExistsWindowExpires(t *testing.T) {
	repo, db := setupViewRepositoryTest(t)
	if err := repo.Create(&models.ProductView{UserID: 7, ProductID: 10, IP: "10.0.0.1"}); err != nil {
		t.Fatalf("create view failed: %v", err)
	}
	stale := time.Now().Add(-2 * time.Hour)
	if err := db.Model(&models.ProductView{}).Where("user_id = ?", 7).Update("created_at", stale).Error; err != nil {
		t.Fatalf("age view failed: %v", err)
	}

	exists, err := repo.RecentExists(7, "", 10, time.Hour)
	if err != nil {
		t.Fatalf("recent exists failed: %v", err)
	}
	if exists {
		t.Fatalf("expected stale view outside the window to be ignored")
	}
}

func TestListProductIDsByUserDistinct(t *testing.T) {
	repo, _ := setupViewRepositoryTest(t)
	for i := 0; i < 3; i++ {
		if err := repo.Create(&models.ProductView{UserID: 7, ProductID: 10, IP: "10.0.0.1"}); err != nil {
			t.Fatalf("create view failed: %v", err)
		}
	}
	if err := repo.Create(&models.ProductView{UserID: 7, ProductID: 11, IP: "10.0.0.1"}); err != nil {
		t.Fatalf("create view failed: %v", err)
	}

	ids, err := repo.ListProductIDsByUser(7)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 distinct product ids, got %v", ids)
	}
}
