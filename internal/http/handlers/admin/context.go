package admin

import (
	handlershared "github.com/dorada-store/internal/http/handlers/shared"
	"github.com/dorada-store/internal/service"

	"github.com/gin-gonic/gin"
)

func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, handlershared.ContextAdminID, "error.unauthorized", "error.internal_error")
}

// currentIdentity rebuilds the identity the session middleware resolved.
func currentIdentity(c *gin.Context) (service.AdminIdentity, bool) {
	adminID, ok := getAdminID(c)
	if !ok {
		return service.AdminIdentity{}, false
	}
	return service.AdminIdentity{
		AdminID:  adminID,
		Username: c.GetString(handlershared.ContextAdminUsername),
		IsSuper:  c.GetBool(handlershared.ContextAdminIsSuper),
	}, true
}
