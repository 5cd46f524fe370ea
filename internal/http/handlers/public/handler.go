package public

import "github.com/belleza-studio/belleza-api/internal/provider"

// Handler serves the client-facing API: booking, catalog, webhooks and
// the wallet pass web service.
type Handler struct {
	*provider.Container
}

// New creates the public handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
