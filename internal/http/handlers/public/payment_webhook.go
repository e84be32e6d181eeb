package public

import (
	"io"

	"github.com/atelier-market/atelier-api/internal/http/response"
	"github.com/atelier-market/atelier-api/internal/logger"
	"github.com/atelier-market/atelier-api/internal/service"

	"github.com/gin-gonic/gin"
)

// PaymentWebhook receives gateway deliveries. The handler only verifies
// and enqueues; order state changes happen in the worker. A bad signature
// is rejected without touching any order, and unrecognized events are
// acknowledged so the gateway stops retrying them.
func (h *Handler) PaymentWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		logger.Warnw("payment_webhook_body_read_failed", "error", err)
		response.BadRequest(c, "invalid body")
		return
	}

	headers := make(map[string]string)
	for key, values := range c.Request.Header {
		if len(values) == 0 {
			continue
		}
		headers[key] = values[0]
	}

	if err := h.PaymentService.HandleWebhook(headers, body); err != nil {
		if service.IsSignatureError(err) {
			logger.Warnw("payment_webhook_signature_invalid", "client_ip", c.ClientIP())
			response.BadRequest(c, "invalid signature")
			return
		}
		if service.IsPayloadError(err) {
			logger.Warnw("payment_webhook_payload_invalid", "error", err)
			response.BadRequest(c, "invalid payload")
			return
		}
		// Enqueue failures are ours, not the gateway's. An internal code
		// keeps the delivery in the gateway's retry schedule.
		logger.Errorw("payment_webhook_enqueue_failed", "error", err)
		response.Error(c, response.CodeInternal, "delivery not processed")
		return
	}
	response.Success(c, gin.H{"accepted": true})
}
