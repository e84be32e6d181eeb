package public

import (
	"errors"
	"strconv"

	"github.com/atelier-market/atelier-api/internal/http/response"
	"github.com/atelier-market/atelier-api/internal/logger"
	"github.com/atelier-market/atelier-api/internal/service"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps service errors onto envelope codes. Anything
// unrecognized is logged and reported as an internal error without
// leaking details.
func respondServiceError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		response.BadRequest(c, validationErr.Reason)
		return
	}
	var rateLimitedErr *service.RateLimitedError
	if errors.As(err, &rateLimitedErr) {
		c.Header("Retry-After", strconv.Itoa(rateLimitedErr.RetryAfterSeconds))
		response.ErrorWithData(c, response.CodeTooManyRequests, "too many requests", gin.H{
			"retry_after_seconds": rateLimitedErr.RetryAfterSeconds,
		})
		return
	}
	var gatewayErr *service.GatewayError
	if errors.As(err, &gatewayErr) {
		response.Error(c, response.CodeInternal, gatewayErr.Message)
		return
	}

	switch {
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrOrderNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrOrderForbidden):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrOrderNotPending),
		errors.Is(err, service.ErrSelfFollow):
		response.BadRequest(c, err.Error())
	default:
		logger.Errorw("request_failed", "path", c.FullPath(), "error", err)
		response.Error(c, response.CodeInternal, "internal error")
	}
}
