package public

import "github.com/atelier-market/atelier-api/internal/provider"

// Handler serves the consumer-facing API.
type Handler struct {
	*provider.Container
}

// New creates the public handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
