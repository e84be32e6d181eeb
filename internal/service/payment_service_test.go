package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/atelier-market/atelier-api/internal/constants"
	"github.com/atelier-market/atelier-api/internal/models"
	"github.com/atelier-market/atelier-api/internal/payment/cardgate"
	"github.com/atelier-market/atelier-api/internal/queue"

	"github.com/shopspring/decimal"
)

type stubGateway struct {
	createIntent *cardgate.Intent
	createErr    error
	retrieved    map[string]*cardgate.Intent
	retrieveErr  error
	lastCreate   cardgate.CreateInput
	verifyEvent  *cardgate.WebhookEvent
	verifyErr    error
}

func (g *stubGateway) CreateIntent(ctx context.Context, input cardgate.CreateInput) (*cardgate.Intent, error) {
	g.lastCreate = input
	return g.createIntent, g.createErr
}

func (g *stubGateway) RetrieveIntent(ctx context.Context, intentID string) (*cardgate.Intent, error) {
	if g.retrieveErr != nil {
		return nil, g.retrieveErr
	}
	return g.retrieved[intentID], nil
}

func (g *stubGateway) VerifyWebhook(headers map[string]string, body []byte, now time.Time) (*cardgate.WebhookEvent, error) {
	return g.verifyEvent, g.verifyErr
}

func disabledQueueClient(t *testing.T) *queue.Client {
	t.Helper()
	client, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}
	return client
}

func paidOrder(id uint, total string, intentID string) *models.Order {
	amount, _ := decimal.NewFromString(total)
	return &models.Order{
		ID:              id,
		UserID:          1,
		Status:          constants.OrderStatusPending,
		TotalAmount:     models.NewMoneyFromDecimal(amount),
		PaymentIntentID: intentID,
	}
}

func succeededIntent(id string, orderID string, amountReceived int64) *cardgate.Intent {
	return &cardgate.Intent{
		ID:             id,
		Status:         constants.IntentStatusSucceeded,
		AmountReceived: amountReceived,
		Currency:       "usd",
		Metadata:       map[string]string{"order_id": orderID},
	}
}

func TestCreateIntentForOrderTagsOrderID(t *testing.T) {
	gateway := &stubGateway{createIntent: &cardgate.Intent{ID: "pi_1"}}
	svc := NewPaymentService(gateway, disabledQueueClient(t), "USD")

	intent, err := svc.CreateIntentForOrder(context.Background(), paidOrder(42, "20.00", ""))
	if err != nil {
		t.Fatalf("create intent failed: %v", err)
	}
	if intent.ID != "pi_1" {
		t.Fatalf("expected pi_1, got %s", intent.ID)
	}
	if gateway.lastCreate.Amount != "20.00" {
		t.Fatalf("expected amount 20.00, got %s", gateway.lastCreate.Amount)
	}
	if gateway.lastCreate.Metadata["order_id"] != "42" {
		t.Fatalf("expected order_id metadata 42, got %q", gateway.lastCreate.Metadata["order_id"])
	}
}

func TestVerifyPaymentSucceeds(t *testing.T) {
	gateway := &stubGateway{retrieved: map[string]*cardgate.Intent{
		"pi_1": succeededIntent("pi_1", "42", 2000),
	}}
	svc := NewPaymentService(gateway, disabledQueueClient(t), "USD")

	if !svc.VerifyPayment(context.Background(), paidOrder(42, "20.00", "pi_1"), "pi_1") {
		t.Fatalf("expected verification to pass")
	}
}

func TestVerifyPaymentRejections(t *testing.T) {
	order := paidOrder(42, "20.00", "pi_1")

	cases := []struct {
		name    string
		gateway *stubGateway
		order   *models.Order
		intent  string
	}{
		{
			name:    "stored intent mismatch",
			gateway: &stubGateway{retrieved: map[string]*cardgate.Intent{"pi_other": succeededIntent("pi_other", "42", 2000)}},
			order:   order,
			intent:  "pi_other",
		},
		{
			name:    "unknown intent",
			gateway: &stubGateway{retrieved: map[string]*cardgate.Intent{}},
			order:   order,
			intent:  "pi_1",
		},
		{
			name:    "retrieve error",
			gateway: &stubGateway{retrieveErr: errors.New("gateway down")},
			order:   order,
			intent:  "pi_1",
		},
		{
			name: "not succeeded",
			gateway: &stubGateway{retrieved: map[string]*cardgate.Intent{"pi_1": {
				ID:             "pi_1",
				Status:         constants.IntentStatusProcessing,
				AmountReceived: 2000,
				Metadata:       map[string]string{"order_id": "42"},
			}}},
			order:  order,
			intent: "pi_1",
		},
		{
			name:    "amount mismatch",
			gateway: &stubGateway{retrieved: map[string]*cardgate.Intent{"pi_1": succeededIntent("pi_1", "42", 1999)}},
			order:   order,
			intent:  "pi_1",
		},
		{
			name:    "order metadata mismatch",
			gateway: &stubGateway{retrieved: map[string]*cardgate.Intent{"pi_1": succeededIntent("pi_1", "41", 2000)}},
			order:   order,
			intent:  "pi_1",
		},
		{
			name:    "empty intent id",
			gateway: &stubGateway{retrieved: map[string]*cardgate.Intent{}},
			order:   order,
			intent:  "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewPaymentService(tc.gateway, disabledQueueClient(t), "USD")
			if svc.VerifyPayment(context.Background(), tc.order, tc.intent) {
				t.Fatalf("expected verification to fail")
			}
		})
	}
}

func TestHandleWebhookSignatureError(t *testing.T) {
	gateway := &stubGateway{verifyErr: cardgate.ErrSignatureInvalid}
	svc := NewPaymentService(gateway, disabledQueueClient(t), "USD")

	err := svc.HandleWebhook(map[string]string{}, []byte("{}"))
	if !IsSignatureError(err) {
		t.Fatalf("expected signature error, got %v", err)
	}
}

func TestHandleWebhookIgnoresUnknownEvents(t *testing.T) {
	gateway := &stubGateway{verifyEvent: &cardgate.WebhookEvent{
		EventID:   "evt_1",
		EventType: "payment_intent.created",
		Intent:    succeededIntent("pi_1", "42", 2000),
	}}
	svc := NewPaymentService(gateway, disabledQueueClient(t), "USD")

	if err := svc.HandleWebhook(map[string]string{}, []byte("{}")); err != nil {
		t.Fatalf("expected unknown event to be acknowledged, got %v", err)
	}
}

func TestHandleWebhookWithoutOrderRef(t *testing.T) {
	gateway := &stubGateway{verifyEvent: &cardgate.WebhookEvent{
		EventID:   "evt_2",
		EventType: constants.WebhookEventPaymentSucceeded,
		Intent:    &cardgate.Intent{ID: "pi_1", Metadata: map[string]string{}},
	}}
	svc := NewPaymentService(gateway, disabledQueueClient(t), "USD")

	if err := svc.HandleWebhook(map[string]string{}, []byte("{}")); err != nil {
		t.Fatalf("expected eventless ack, got %v", err)
	}
}
