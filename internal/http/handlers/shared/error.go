package shared

import (
	"errors"

	"github.com/dorada-store/internal/http/response"
	"github.com/dorada-store/internal/i18n"
	"github.com/dorada-store/internal/logger"
	"github.com/dorada-store/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog returns a logger tagged with the request id.
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if id := c.GetString(response.RequestIDKey); id != "" {
		return logger.SW(response.RequestIDKey, id)
	}
	return logger.S()
}

// RespondError replies with the translated key and logs err when present.
func RespondError(c *gin.Context, code int, key string, err error) {
	RespondErrorWithMsg(c, code, i18n.T(i18n.ResolveLocale(c), key), err)
}

// RespondErrorWithMsg replies with an already translated message.
func RespondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", code,
			"message", msg,
			"error", err,
		)
	}
	response.Error(c, code, msg)
}

// MappedError maps a service error onto a business code and message key.
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// CommonErrorRules covers the errors every storefront and admin route can see.
var CommonErrorRules = []MappedError{
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrCategoryNotFound, Code: response.CodeNotFound, Key: "error.category_not_found"},
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrAdminNotFound, Code: response.CodeNotFound, Key: "error.admin_not_found"},
	{Target: service.ErrCategoryInUse, Code: response.CodeConflict, Key: "error.category_in_use"},
	{Target: service.ErrCategorySystem, Code: response.CodeBadRequest, Key: "error.category_system_locked"},
	{Target: service.ErrSKUExists, Code: response.CodeConflict, Key: "error.product_sku_exists"},
	{Target: service.ErrStockConflict, Code: response.CodeConflict, Key: "error.stock_conflict"},
	{Target: service.ErrOutOfStock, Code: response.CodeBadRequest, Key: "error.out_of_stock"},
	{Target: service.ErrEmptyCart, Code: response.CodeBadRequest, Key: "error.cart_empty"},
	{Target: service.ErrTooManyItems, Code: response.CodeBadRequest, Key: "error.cart_too_many_items"},
	{Target: service.ErrInvalidOrderStatus, Code: response.CodeBadRequest, Key: "error.order_status_invalid"},
	{Target: service.ErrOrderStatusConflict, Code: response.CodeConflict, Key: "error.order_status_conflict"},
	{Target: service.ErrWishlistDuplicate, Code: response.CodeConflict, Key: "error.wishlist_duplicate"},
	{Target: service.ErrInvalidDevice, Code: response.CodeBadRequest, Key: "error.device_id_invalid"},
	{Target: service.ErrCaptchaRequired, Code: response.CodeBadRequest, Key: "error.captcha_required"},
	{Target: service.ErrCaptchaInvalid, Code: response.CodeBadRequest, Key: "error.captcha_invalid"},
	{Target: service.ErrStorage, Code: response.CodeUnavailable, Key: "error.storage_unavailable"},
}

// AuthErrorRules covers the admin session flow.
var AuthErrorRules = []MappedError{
	{Target: service.ErrSetupDisabled, Code: response.CodeForbidden, Key: "error.setup_disabled"},
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.login_invalid"},
	{Target: service.ErrAccessRequired, Code: response.CodeUnauthorized, Key: "error.access_required"},
	{Target: service.ErrAccessKeyInvalid, Code: response.CodeUnauthorized, Key: "error.access_key_invalid"},
	{Target: service.ErrSessionExpired, Code: response.CodeUnauthorized, Key: "error.session_expired"},
	{Target: service.ErrInvalidPassword, Code: response.CodeBadRequest, Key: "error.password_invalid"},
	{Target: service.ErrUsernameExists, Code: response.CodeConflict, Key: "error.username_exists"},
	{Target: service.ErrRoleInvalid, Code: response.CodeBadRequest, Key: "error.role_invalid"},
}

type keyedError interface {
	Key() string
	Args() []interface{}
}

// RespondServiceError translates a service error. Validation and stock
// errors carry their own message key; everything else goes through rules
// and falls back to fallbackKey with the cause logged.
func RespondServiceError(c *gin.Context, err error, rules []MappedError, fallbackCode int, fallbackKey string) {
	locale := i18n.ResolveLocale(c)

	var stockErr *service.InsufficientStockError
	if errors.As(err, &stockErr) {
		RespondErrorWithMsg(c, response.CodeBadRequest, i18n.Sprintf(locale, "error.insufficient_stock", stockErr.ProductName), nil)
		return
	}
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		response.ErrorWithData(c, response.CodeBadRequest, i18n.T(locale, validationErr.Key), gin.H{"field": validationErr.Field})
		return
	}
	var keyed keyedError
	if errors.As(err, &keyed) {
		RespondErrorWithMsg(c, response.CodeBadRequest, i18n.Sprintf(locale, keyed.Key(), keyed.Args()...), nil)
		return
	}
	for _, group := range [][]MappedError{rules, CommonErrorRules} {
		for _, rule := range group {
			if errors.Is(err, rule.Target) {
				logged := error(nil)
				if response.IsServerSide(rule.Code) {
					logged = err
				}
				RespondError(c, rule.Code, rule.Key, logged)
				return
			}
		}
	}
	RespondError(c, fallbackCode, fallbackKey, err)
}
