package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/atelier-market/atelier-api/internal/config"
	"github.com/atelier-market/atelier-api/internal/constants"
	"github.com/atelier-market/atelier-api/internal/logger"
	"github.com/atelier-market/atelier-api/internal/models"
	"github.com/atelier-market/atelier-api/internal/payment/cardgate"
	"github.com/atelier-market/atelier-api/internal/queue"
)

// PaymentGateway is the service-level view of the card gateway. Tests
// substitute fakes; production wires the HTTP implementation.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, input cardgate.CreateInput) (*cardgate.Intent, error)
	RetrieveIntent(ctx context.Context, intentID string) (*cardgate.Intent, error)
	VerifyWebhook(headers map[string]string, body []byte, now time.Time) (*cardgate.WebhookEvent, error)
}

// HTTPGateway backs PaymentGateway with the real gateway API.
type HTTPGateway struct {
	cfg *cardgate.Config
}

// NewHTTPGateway builds the production gateway from config.
func NewHTTPGateway(cfg config.GatewayConfig) *HTTPGateway {
	gatewayCfg := &cardgate.Config{
		SecretKey:               cfg.SecretKey,
		WebhookSecret:           cfg.WebhookSecret,
		APIBaseURL:              cfg.APIBaseURL,
		TimeoutSeconds:          cfg.TimeoutSeconds,
		WebhookToleranceSeconds: cfg.WebhookToleranceSeconds,
	}
	gatewayCfg.Normalize()
	return &HTTPGateway{cfg: gatewayCfg}
}

// CreateIntent creates a payment intent.
func (g *HTTPGateway) CreateIntent(ctx context.Context, input cardgate.CreateInput) (*cardgate.Intent, error) {
	return cardgate.CreateIntent(ctx, g.cfg, input)
}

// RetrieveIntent fetches a payment intent, nil when unknown.
func (g *HTTPGateway) RetrieveIntent(ctx context.Context, intentID string) (*cardgate.Intent, error) {
	return cardgate.RetrieveIntent(ctx, g.cfg, intentID)
}

// VerifyWebhook checks the delivery signature and decodes the event.
func (g *HTTPGateway) VerifyWebhook(headers map[string]string, body []byte, now time.Time) (*cardgate.WebhookEvent, error) {
	return cardgate.VerifyAndParseWebhook(g.cfg, headers, body, now)
}

// PaymentService sits between the order workflow and the gateway.
type PaymentService struct {
	gateway     PaymentGateway
	queueClient *queue.Client
	currency    string
}

// NewPaymentService creates a payment service.
func NewPaymentService(gateway PaymentGateway, queueClient *queue.Client, currency string) *PaymentService {
	if currency == "" {
		currency = constants.SiteCurrencyDefault
	}
	return &PaymentService{
		gateway:     gateway,
		queueClient: queueClient,
		currency:    currency,
	}
}

// Currency is the site settlement currency.
func (s *PaymentService) Currency() string {
	return s.currency
}

// CreateIntentForOrder opens a payment intent for the order total, tagging
// it with the order id so webhooks and verification can tie back.
func (s *PaymentService) CreateIntentForOrder(ctx context.Context, order *models.Order) (*cardgate.Intent, error) {
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return s.gateway.CreateIntent(ctx, cardgate.CreateInput{
		Amount:   order.TotalAmount.String(),
		Currency: s.currency,
		Metadata: map[string]string{
			"order_id": strconv.FormatUint(uint64(order.ID), 10),
		},
	})
}

// VerifyPayment asks the gateway whether the intent settles this order.
// Verified means all of: the intent exists and succeeded, the received
// amount equals the order total in minor units, the intent's order_id
// metadata names this order, and the order's stored intent reference (when
// set) matches the one being checked. Retrieval trouble reads as
// unverified, never as an error.
func (s *PaymentService) VerifyPayment(ctx context.Context, order *models.Order, intentID string) bool {
	if order == nil || intentID == "" {
		return false
	}
	if order.PaymentIntentID != "" && order.PaymentIntentID != intentID {
		return false
	}

	intent, err := s.gateway.RetrieveIntent(ctx, intentID)
	if err != nil {
		logger.Warnw("payment_verify_retrieve_failed",
			"order_id", order.ID,
			"intent_id", intentID,
			"error", err,
		)
		return false
	}
	if intent == nil {
		return false
	}
	if intent.Status != constants.IntentStatusSucceeded {
		return false
	}

	expectedMinor, err := cardgate.ToMinorAmount(order.TotalAmount.String(), s.currency)
	if err != nil {
		logger.Errorw("payment_verify_amount_invalid", "order_id", order.ID, "error", err)
		return false
	}
	if intent.AmountReceived != expectedMinor {
		return false
	}
	return intent.Metadata["order_id"] == strconv.FormatUint(uint64(order.ID), 10)
}

// HandleWebhook verifies a gateway delivery and enqueues the matching
// order task. Unrecognized event types are acknowledged without action so
// the gateway stops retrying them.
func (s *PaymentService) HandleWebhook(headers map[string]string, body []byte) error {
	event, err := s.gateway.VerifyWebhook(headers, body, time.Now())
	if err != nil {
		return err
	}

	orderID, intentID := webhookOrderRef(event)
	if orderID == 0 {
		logger.Debugw("webhook_without_order_ref", "event_id", event.EventID, "event_type", event.EventType)
		return nil
	}

	switch event.EventType {
	case constants.WebhookEventPaymentSucceeded:
		return s.queueClient.EnqueueOrderPaymentSucceeded(queue.OrderPaymentSucceededPayload{
			OrderID:  orderID,
			IntentID: intentID,
		})
	case constants.WebhookEventPaymentFailed, constants.WebhookEventPaymentCanceled:
		return s.queueClient.EnqueueOrderPaymentFailed(queue.OrderPaymentFailedPayload{
			OrderID:  orderID,
			IntentID: intentID,
		})
	default:
		logger.Debugw("webhook_event_ignored", "event_id", event.EventID, "event_type", event.EventType)
		return nil
	}
}

// IsSignatureError reports whether a webhook failure came from signature
// verification rather than payload decoding.
func IsSignatureError(err error) bool {
	return errors.Is(err, cardgate.ErrSignatureInvalid)
}

// IsPayloadError reports whether a webhook failure came from an
// undecodable delivery. Anything else (an enqueue failure, say) is a
// server-side problem the gateway should retry.
func IsPayloadError(err error) bool {
	return errors.Is(err, cardgate.ErrResponseInvalid)
}

func webhookOrderRef(event *cardgate.WebhookEvent) (uint, string) {
	if event == nil || event.Intent == nil {
		return 0, ""
	}
	raw := event.Intent.Metadata["order_id"]
	if raw == "" {
		return 0, event.Intent.ID
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, event.Intent.ID
	}
	return uint(id), event.Intent.ID
}
