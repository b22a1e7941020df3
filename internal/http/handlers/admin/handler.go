package admin

import "github.com/dorada-store/internal/provider"

// Handler serves the admin API. Routes other than access, setup and login
// run behind the session and RBAC middleware.
type Handler struct {
	*provider.Container
}

func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
