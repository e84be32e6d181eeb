package service

import (
	"context"
	"time"

	"github.com/atelier-market/atelier-api/internal/constants"
	"github.com/atelier-market/atelier-api/internal/logger"
	"github.com/atelier-market/atelier-api/internal/models"
	"github.com/atelier-market/atelier-api/internal/payment/cardgate"
	"github.com/atelier-market/atelier-api/internal/repository"

	"gorm.io/gorm"
)

// SubmitOrderInput confirms a checkout.
type SubmitOrderInput struct {
	UserID         uint
	OrderID        uint // optional: reuse the pending order OpenCheckout created
	BillingAddress models.BillingAddress
}

// OrderService owns the order lifecycle: pending at checkout, then exactly
// one of completed (payment confirmed) or cancelled.
type OrderService struct {
	orderRepo          repository.OrderRepository
	productRepo        repository.ProductRepository
	cartRepo           repository.CartRepository
	cartSvc            *CartService
	paymentSvc         *PaymentService
	notificationSvc    *NotificationService
	debugGatewayErrors bool
}

// NewOrderService creates an order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
	cartSvc *CartService,
	paymentSvc *PaymentService,
	notificationSvc *NotificationService,
	debugGatewayErrors bool,
) *OrderService {
	return &OrderService{
		orderRepo:          orderRepo,
		productRepo:        productRepo,
		cartRepo:           cartRepo,
		cartSvc:            cartSvc,
		paymentSvc:         paymentSvc,
		notificationSvc:    notificationSvc,
		debugGatewayErrors: debugGatewayErrors,
	}
}

// OpenCheckout validates the cart, opens a pending order for the validated
// total, and attaches a freshly created payment intent. When the gateway
// call fails the pending order is removed so no orphan rows accumulate.
func (s *OrderService) OpenCheckout(ctx context.Context, userID uint) (*models.Order, *cardgate.Intent, error) {
	checkout, err := s.cartSvc.ValidateForCheckout(userID)
	if err != nil {
		return nil, nil, err
	}

	order := &models.Order{
		UserID:      userID,
		Status:      constants.OrderStatusPending,
		TotalAmount: checkout.Total,
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, nil, err
	}

	intent, err := s.paymentSvc.CreateIntentForOrder(ctx, order)
	if err != nil {
		if deleteErr := s.orderRepo.Delete(order.ID); deleteErr != nil {
			logger.Errorw("checkout_order_cleanup_failed", "order_id", order.ID, "error", deleteErr)
		}
		message := "payment gateway is unavailable, try again later"
		if s.debugGatewayErrors {
			message = err.Error()
		}
		return nil, nil, &GatewayError{Message: message, Err: err}
	}

	if err := s.orderRepo.SetPaymentIntentID(order.ID, intent.ID); err != nil {
		return nil, nil, err
	}
	order.PaymentIntentID = intent.ID
	return order, intent, nil
}

// SubmitOrder confirms the checkout: it re-validates the cart, reuses the
// caller's still-pending order (or opens a fresh one), then in a single
// transaction stores the billing address, snapshots order items, and
// clears the cart. Resubmitting is safe; items are only snapshotted once.
func (s *OrderService) SubmitOrder(ctx context.Context, input SubmitOrderInput) (*models.Order, error) {
	checkout, err := s.cartSvc.ValidateForCheckout(input.UserID)
	if err != nil {
		return nil, err
	}

	var order *models.Order
	if input.OrderID != 0 {
		existing, err := s.orderRepo.GetByIDAndUser(input.OrderID, input.UserID)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.Status == constants.OrderStatusPending {
			order = existing
		}
	}
	if order == nil {
		order = &models.Order{
			UserID:      input.UserID,
			Status:      constants.OrderStatusPending,
			TotalAmount: checkout.Total,
		}
		if err := s.orderRepo.Create(order); err != nil {
			return nil, err
		}
	}

	address := input.BillingAddress
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		if err := orderRepo.SetBillingAddress(order.ID, &address); err != nil {
			return err
		}

		hasItems, err := orderRepo.HasItems(order.ID)
		if err != nil {
			return err
		}
		if !hasItems {
			items := make([]models.OrderItem, 0, len(checkout.Items))
			for _, item := range checkout.Items {
				items = append(items, models.OrderItem{
					ProductID: item.ProductID,
					Title:     item.Title,
					Price:     item.Price,
				})
			}
			if err := orderRepo.CreateItems(order.ID, items); err != nil {
				return err
			}
		}

		return s.cartRepo.WithTx(tx).ClearByUser(input.UserID)
	})
	if err != nil {
		return nil, err
	}

	return s.orderRepo.GetByIDAndUser(order.ID, input.UserID)
}

// GetOrder fetches an order owned by the user.
func (s *OrderService) GetOrder(userID, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders pages a user's orders.
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListByUser(filter)
}

// CancelOrder removes the caller's own pending order. Completed or
// cancelled orders are immutable.
func (s *OrderService) CancelOrder(userID, orderID uint) error {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusPending {
		return ErrOrderNotPending
	}
	return s.orderRepo.Delete(orderID)
}

// CompleteOrder flips a pending order to completed, bumps each product's
// sales count once, and notifies the buyer. Exactly one caller wins the
// conditional update; everyone else (replays, the reconciliation race
// loser) no-ops. Missing orders no-op too, keeping the at-least-once queue
// safe to retry.
func (s *OrderService) CompleteOrder(orderID uint, intentID string) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		logger.Debugw("complete_order_missing", "order_id", orderID)
		return nil
	}
	if order.Status != constants.OrderStatusPending {
		logger.Debugw("complete_order_not_pending", "order_id", orderID, "status", order.Status)
		return nil
	}
	if intentID != "" && order.PaymentIntentID != "" && order.PaymentIntentID != intentID {
		logger.Warnw("complete_order_intent_mismatch",
			"order_id", orderID,
			"stored_intent", order.PaymentIntentID,
			"given_intent", intentID,
		)
		return nil
	}

	won := false
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		ok, err := s.orderRepo.WithTx(tx).CompleteIfPending(orderID, time.Now())
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		won = true

		productIDs := make([]uint, 0, len(order.Items))
		for _, item := range order.Items {
			productIDs = append(productIDs, item.ProductID)
		}
		return s.productRepo.WithTx(tx).IncrementSalesCounts(productIDs)
	})
	if err != nil {
		return err
	}
	if !won {
		logger.Debugw("complete_order_lost_race", "order_id", orderID)
		return nil
	}

	s.notificationSvc.Notify(order.UserID, constants.NotificationKindOrderCompleted, models.JSON{
		"order_id": order.ID,
	})
	logger.Infow("order_completed", "order_id", orderID, "intent_id", intentID)
	return nil
}

// FailOrder cancels a pending order after the gateway reported failure.
// Anything not pending is left alone.
func (s *OrderService) FailOrder(orderID uint, intentID string) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		logger.Debugw("fail_order_missing", "order_id", orderID)
		return nil
	}
	if intentID != "" && order.PaymentIntentID != "" && order.PaymentIntentID != intentID {
		logger.Warnw("fail_order_intent_mismatch", "order_id", orderID, "given_intent", intentID)
		return nil
	}

	cancelled, err := s.orderRepo.CancelIfPending(orderID, time.Now())
	if err != nil {
		return err
	}
	if cancelled {
		logger.Infow("order_cancelled_on_payment_failure", "order_id", orderID, "intent_id", intentID)
	}
	return nil
}

// ReconcileOnView lets an order page catch up with the gateway before the
// webhook lands: if the caller's pending order verifies against the given
// intent, it completes through the same conditional path the worker uses.
// Without a caller-supplied intent the order's stored reference is used, so
// a buyer opening the page without the return-URL parameter still settles.
func (s *OrderService) ReconcileOnView(ctx context.Context, userID, orderID uint, intentID string) (*models.Order, error) {
	order, err := s.GetOrder(userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != constants.OrderStatusPending {
		return order, nil
	}
	if intentID == "" {
		intentID = order.PaymentIntentID
	}
	if intentID == "" {
		return order, nil
	}

	if s.paymentSvc.VerifyPayment(ctx, order, intentID) {
		if err := s.CompleteOrder(order.ID, intentID); err != nil {
			return nil, err
		}
		return s.GetOrder(userID, orderID)
	}
	return order, nil
}
