package public

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/atelier-market/atelier-api/internal/constants"
	"github.com/atelier-market/atelier-api/internal/payment/cardgate"
	"github.com/atelier-market/atelier-api/internal/provider"
	"github.com/atelier-market/atelier-api/internal/queue"
	"github.com/atelier-market/atelier-api/internal/service"

	"github.com/gin-gonic/gin"
)

type webhookStubGateway struct {
	event *cardgate.WebhookEvent
	err   error
}

func (g *webhookStubGateway) CreateIntent(ctx context.Context, input cardgate.CreateInput) (*cardgate.Intent, error) {
	return nil, nil
}

func (g *webhookStubGateway) RetrieveIntent(ctx context.Context, intentID string) (*cardgate.Intent, error) {
	return nil, nil
}

func (g *webhookStubGateway) VerifyWebhook(headers map[string]string, body []byte, now time.Time) (*cardgate.WebhookEvent, error) {
	return g.event, g.err
}

func setupWebhookHandlerTest(t *testing.T, gateway service.PaymentGateway) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}
	handler := New(&provider.Container{
		PaymentService: service.NewPaymentService(gateway, queueClient, "USD"),
	})

	r := gin.New()
	r.POST("/api/v1/payments/webhook", handler.PaymentWebhook)
	return r
}

func postWebhook(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", strings.NewReader(body))
	req.Header.Set("Stripe-Signature", "t=1,v1=ff")
	r.ServeHTTP(w, req)
	return w
}

func TestPaymentWebhookAccepted(t *testing.T) {
	gateway := &webhookStubGateway{event: &cardgate.WebhookEvent{
		EventID:   "evt_1",
		EventType: constants.WebhookEventPaymentSucceeded,
		Intent: &cardgate.Intent{
			ID:       "pi_1",
			Metadata: map[string]string{"order_id": "42"},
		},
	}}
	r := setupWebhookHandlerTest(t, gateway)

	w := postWebhook(t, r, `{"id":"evt_1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	var resp struct {
		StatusCode int `json:"status_code"`
		Data       struct {
			Accepted bool `json:"accepted"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if resp.StatusCode != 0 || !resp.Data.Accepted {
		t.Fatalf("expected accepted envelope, got %s", w.Body.String())
	}
}

func TestPaymentWebhookBadSignature(t *testing.T) {
	gateway := &webhookStubGateway{err: cardgate.ErrSignatureInvalid}
	r := setupWebhookHandlerTest(t, gateway)

	w := postWebhook(t, r, `{"id":"evt_1"}`)
	var resp struct {
		StatusCode int    `json:"status_code"`
		Msg        string `json:"msg"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if resp.StatusCode != 400 || resp.Msg != "invalid signature" {
		t.Fatalf("expected signature rejection, got %s", w.Body.String())
	}
}

func TestPaymentWebhookServerFailureAsksForRetry(t *testing.T) {
	gateway := &webhookStubGateway{err: errors.New("enqueue: connection refused")}
	r := setupWebhookHandlerTest(t, gateway)

	w := postWebhook(t, r, `{"id":"evt_1"}`)
	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if resp.StatusCode != 500 {
		t.Fatalf("expected internal code so the gateway retries, got %s", w.Body.String())
	}
}

func TestPaymentWebhookBadPayload(t *testing.T) {
	gateway := &webhookStubGateway{err: cardgate.ErrResponseInvalid}
	r := setupWebhookHandlerTest(t, gateway)

	w := postWebhook(t, r, `not json`)
	var resp struct {
		StatusCode int    `json:"status_code"`
		Msg        string `json:"msg"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if resp.StatusCode != 400 || resp.Msg != "invalid payload" {
		t.Fatalf("expected payload rejection, got %s", w.Body.String())
	}
}
