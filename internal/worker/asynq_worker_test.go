package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/atelier-market/atelier-api/internal/constants"
	"github.com/atelier-market/atelier-api/internal/models"
	"github.com/atelier-market/atelier-api/internal/provider"
	"github.com/atelier-market/atelier-api/internal/queue"
	"github.com/atelier-market/atelier-api/internal/repository"
	"github.com/atelier-market/atelier-api/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupConsumerTest(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	cartSvc := service.NewCartService(cartRepo, productRepo)
	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}
	paymentSvc := service.NewPaymentService(nil, queueClient, "USD")
	notificationSvc := service.NewNotificationService(repository.NewNotificationRepository(db))
	orderSvc := service.NewOrderService(orderRepo, productRepo, cartRepo, cartSvc, paymentSvc, notificationSvc, false)

	return NewConsumer(&provider.Container{OrderService: orderSvc}), db
}

func createWorkerOrder(t *testing.T, db *gorm.DB, intentID string) (*models.Order, *models.Product) {
	t.Helper()
	product := &models.Product{
		OwnerID:  1,
		Title:    "print",
		Price:    models.NewMoneyFromDecimal(decimal.NewFromInt(20)),
		IsActive: true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	order := &models.Order{
		UserID:          7,
		Status:          constants.OrderStatusPending,
		TotalAmount:     product.Price,
		PaymentIntentID: intentID,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	item := &models.OrderItem{OrderID: order.ID, ProductID: product.ID, Title: product.Title, Price: product.Price}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("create order item failed: %v", err)
	}
	return order, product
}

func succeededTask(t *testing.T, payload queue.OrderPaymentSucceededPayload) *asynq.Task {
	t.Helper()
	task, err := queue.NewOrderPaymentSucceededTask(payload)
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	return task
}

func TestHandleOrderPaymentSucceededCompletes(t *testing.T) {
	consumer, db := setupConsumerTest(t)
	order, product := createWorkerOrder(t, db, "pi_1")

	task := succeededTask(t, queue.OrderPaymentSucceededPayload{OrderID: order.ID, IntentID: "pi_1"})
	if err := consumer.handleOrderPaymentSucceeded(context.Background(), task); err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	var got models.Order
	if err := db.First(&got, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if got.Status != constants.OrderStatusCompleted {
		t.Fatalf("expected completed, got %s", got.Status)
	}

	var gotProduct models.Product
	if err := db.First(&gotProduct, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if gotProduct.SalesCount != 1 {
		t.Fatalf("expected sales count 1, got %d", gotProduct.SalesCount)
	}
}

func TestHandleOrderPaymentSucceededRedelivery(t *testing.T) {
	consumer, db := setupConsumerTest(t)
	order, product := createWorkerOrder(t, db, "pi_1")

	task := succeededTask(t, queue.OrderPaymentSucceededPayload{OrderID: order.ID, IntentID: "pi_1"})
	if err := consumer.handleOrderPaymentSucceeded(context.Background(), task); err != nil {
		t.Fatalf("first delivery failed: %v", err)
	}
	if err := consumer.handleOrderPaymentSucceeded(context.Background(), task); err != nil {
		t.Fatalf("redelivery failed: %v", err)
	}

	var gotProduct models.Product
	if err := db.First(&gotProduct, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if gotProduct.SalesCount != 1 {
		t.Fatalf("expected a single sales bump across redeliveries, got %d", gotProduct.SalesCount)
	}
}

func TestHandleOrderPaymentSucceededMissingOrder(t *testing.T) {
	consumer, _ := setupConsumerTest(t)

	task := succeededTask(t, queue.OrderPaymentSucceededPayload{OrderID: 999, IntentID: "pi_gone"})
	if err := consumer.handleOrderPaymentSucceeded(context.Background(), task); err != nil {
		t.Fatalf("expected missing order no-op, got %v", err)
	}
}

func TestHandleOrderPaymentSucceededBadPayload(t *testing.T) {
	consumer, _ := setupConsumerTest(t)

	task := asynq.NewTask(queue.TaskOrderPaymentSucceeded, []byte("not json"))
	if err := consumer.handleOrderPaymentSucceeded(context.Background(), task); err == nil {
		t.Fatalf("expected unmarshal error to surface for retry visibility")
	}
}

func TestHandleOrderPaymentSucceededZeroOrderID(t *testing.T) {
	consumer, _ := setupConsumerTest(t)

	body, err := json.Marshal(queue.OrderPaymentSucceededPayload{OrderID: 0, IntentID: "pi_zero"})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	task := asynq.NewTask(queue.TaskOrderPaymentSucceeded, body)
	if err := consumer.handleOrderPaymentSucceeded(context.Background(), task); err != nil {
		t.Fatalf("expected zero order id to be dropped, got %v", err)
	}
}

func TestHandleOrderPaymentFailedCancels(t *testing.T) {
	consumer, db := setupConsumerTest(t)
	order, _ := createWorkerOrder(t, db, "pi_1")

	task, err := queue.NewOrderPaymentFailedTask(queue.OrderPaymentFailedPayload{OrderID: order.ID, IntentID: "pi_1"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleOrderPaymentFailed(context.Background(), task); err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	var got models.Order
	if err := db.First(&got, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if got.Status != constants.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", got.Status)
	}
}
