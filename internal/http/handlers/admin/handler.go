package admin

import "github.com/belleza-studio/belleza-api/internal/provider"

// Handler serves the dashboard API.
type Handler struct {
	*provider.Container
}

// New creates the admin handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
