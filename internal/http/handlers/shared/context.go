package shared

import (
	"strconv"
	"strings"

	"github.com/dorada-store/internal/http/response"

	"github.com/gin-gonic/gin"
)

// Context keys set by the router middleware
const (
	ContextAdminID       = "admin_id"
	ContextAdminUsername = "username"
	ContextAdminIsSuper  = "admin_is_super"
	ContextDeviceID      = "device_id"
	ContextRequestID     = response.RequestIDKey
)

// GetContextUintWithKeys reads a uint set by middleware and replies on failure.
func GetContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, typeInvalidKey, nil)
		return 0, false
	}
}

// ParamUint parses a positive path parameter; it replies 400 otherwise.
func ParamUint(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id == 0 {
		RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(id), true
}

// DeviceID returns the id stored by the device middleware.
func DeviceID(c *gin.Context) string {
	return c.GetString(ContextDeviceID)
}

// RequestID returns the id stored by the request id middleware.
func RequestID(c *gin.Context) string {
	return c.GetString(ContextRequestID)
}
