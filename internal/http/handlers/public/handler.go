package public

import (
	"github.com/dorada-store/internal/provider"
)

// Handler serves the storefront API. Nothing here requires a login; cart,
// wishlist and checkout are scoped by the device id header.
type Handler struct {
	*provider.Container
}

func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
