package service

import (
	"github.com/shopspring/decimal"

	"github.com/atelier-market/atelier-api/internal/models"
	"github.com/atelier-market/atelier-api/internal/repository"
)

// CheckoutItem is a validated cart line with its live price.
type CheckoutItem struct {
	ProductID uint         `json:"product_id"`
	Title     string       `json:"title"`
	Price     models.Money `json:"price"`
}

// CheckoutCart is a cart that passed checkout validation.
type CheckoutCart struct {
	Items []CheckoutItem `json:"items"`
	Total models.Money   `json:"total"`
}

// CartService owns cart contents and checkout validation.
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService creates a cart service.
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo}
}

// ListByUser returns a user's cart items with products preloaded.
func (s *CartService) ListByUser(userID uint) ([]models.CartItem, error) {
	return s.cartRepo.ListByUser(userID)
}

// AddItem puts a product into the cart. Adding an already-carted product
// is a no-op.
func (s *CartService) AddItem(userID, productID uint) error {
	product, err := s.productRepo.GetActiveByID(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	return s.cartRepo.Add(&models.CartItem{UserID: userID, ProductID: productID})
}

// RemoveItem deletes one cart line.
func (s *CartService) RemoveItem(userID, productID uint) error {
	return s.cartRepo.DeleteByUserAndProduct(userID, productID)
}

// ValidateForCheckout re-checks every cart line against live product state
// and totals live prices. Any failed line aborts the whole validation with
// a *ValidationError; nothing is mutated either way.
func (s *CartService) ValidateForCheckout(userID uint) (*CheckoutCart, error) {
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, NewValidationError("cart is empty")
	}

	checkout := &CheckoutCart{Items: make([]CheckoutItem, 0, len(items))}
	total := decimal.Zero
	for _, item := range items {
		product := item.Product
		if product == nil || product.ID == 0 {
			product, err = s.productRepo.GetByID(item.ProductID)
			if err != nil {
				return nil, err
			}
		}
		if product == nil {
			return nil, NewValidationError("product %d no longer exists", item.ProductID)
		}
		if !product.IsActive {
			return nil, NewValidationError("product %d is no longer available", product.ID)
		}
		if product.Price.LessThanOrEqual(decimal.Zero) {
			return nil, NewValidationError("product %d has an invalid price", product.ID)
		}

		checkout.Items = append(checkout.Items, CheckoutItem{
			ProductID: product.ID,
			Title:     product.Title,
			Price:     product.Price,
		})
		total = total.Add(product.Price.Decimal)
	}

	if total.LessThanOrEqual(decimal.Zero) {
		return nil, NewValidationError("cart total must be greater than zero")
	}
	checkout.Total = models.NewMoneyFromDecimal(total)
	return checkout, nil
}
