package admin

import (
	handlershared "github.com/dorada-store/internal/http/handlers/shared"
	"github.com/dorada-store/internal/http/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondServiceError(c *gin.Context, err error, fallbackKey string) {
	handlershared.RespondServiceError(c, err, handlershared.AuthErrorRules, response.CodeInternal, fallbackKey)
}
