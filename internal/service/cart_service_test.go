package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/atelier-market/atelier-api/internal/models"
	"github.com/atelier-market/atelier-api/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T) (*CartService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:cart_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.CartItem{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	return NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db)), db
}

func createCartProduct(t *testing.T, db *gorm.DB, title string, price string, active bool) *models.Product {
	t.Helper()
	amount, err := decimal.NewFromString(price)
	if err != nil {
		t.Fatalf("bad price %q: %v", price, err)
	}
	product := &models.Product{
		OwnerID:  1,
		Title:    title,
		Price:    models.NewMoneyFromDecimal(amount),
		IsActive: active,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestAddItemIdempotent(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createCartProduct(t, db, "print", "10.00", true)

	if err := svc.AddItem(7, product.ID); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if err := svc.AddItem(7, product.ID); err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	items, err := svc.ListByUser(7)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 cart item, got %d", len(items))
	}
}

func TestAddItemRejectsInactiveProduct(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createCartProduct(t, db, "retired", "10.00", false)

	if err := svc.AddItem(7, product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestValidateForCheckoutEmptyCart(t *testing.T) {
	svc, _ := setupCartServiceTest(t)

	var validationErr *ValidationError
	_, err := svc.ValidateForCheckout(7)
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestValidateForCheckoutInactiveProduct(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createCartProduct(t, db, "soon-retired", "10.00", true)
	if err := svc.AddItem(7, product.ID); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := db.Model(product).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	var validationErr *ValidationError
	_, err := svc.ValidateForCheckout(7)
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestValidateForCheckoutTotalsLivePrices(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	first := createCartProduct(t, db, "first", "12.50", true)
	second := createCartProduct(t, db, "second", "7.25", true)
	if err := svc.AddItem(7, first.ID); err != nil {
		t.Fatalf("add first failed: %v", err)
	}
	if err := svc.AddItem(7, second.ID); err != nil {
		t.Fatalf("add second failed: %v", err)
	}

	// Price changes after the item entered the cart; checkout must use the
	// live price.
	if err := db.Model(second).Update("price", "9.75").Error; err != nil {
		t.Fatalf("reprice failed: %v", err)
	}

	checkout, err := svc.ValidateForCheckout(7)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if len(checkout.Items) != 2 {
		t.Fatalf("expected 2 checkout items, got %d", len(checkout.Items))
	}
	if got := checkout.Total.String(); got != "22.25" {
		t.Fatalf("expected total 22.25, got %s", got)
	}
}

func TestValidateForCheckoutInvalidPrice(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createCartProduct(t, db, "freebie", "1.00", true)
	if err := svc.AddItem(7, product.ID); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := db.Model(product).Update("price", "0").Error; err != nil {
		t.Fatalf("zero price failed: %v", err)
	}

	var validationErr *ValidationError
	_, err := svc.ValidateForCheckout(7)
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
