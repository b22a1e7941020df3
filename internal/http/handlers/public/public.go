package public

import (
	"strings"
	"time"

	"github.com/dorada-store/internal/cache"
	"github.com/dorada-store/internal/constants"
	"github.com/dorada-store/internal/currency"
	handlershared "github.com/dorada-store/internal/http/handlers/shared"
	"github.com/dorada-store/internal/http/response"
	"github.com/dorada-store/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	publicConfigCacheKey = "public:config"
	publicConfigCacheTTL = 60 * time.Second
)

// GetConfig returns the storefront settings the client needs before rendering.
func (h *Handler) GetConfig(c *gin.Context) {
	var cached gin.H
	if hit, err := cache.GetJSON(c.Request.Context(), publicConfigCacheKey, &cached); err == nil && hit {
		response.Success(c, cached)
		return
	}

	shipping := h.OrderService.ShippingFee()
	data := gin.H{
		"name":               h.Config.App.Name,
		"name_ar":            h.Config.App.NameAr,
		"default_locale":     h.Config.App.DefaultLocale,
		"languages":          constants.SupportedLocales,
		"currency":           constants.CurrencyIQD,
		"shipping_fee":       shipping,
		"shipping_formatted": currency.Format(shipping),
		"phone_policy":       h.Config.Order.PhonePolicy,
		"order_statuses":     constants.OrderStatusLabelsAr,
		"captcha":            h.CaptchaService.PublicSetting(),
	}
	if err := cache.SetJSON(c.Request.Context(), publicConfigCacheKey, data, publicConfigCacheTTL); err != nil {
		handlershared.RequestLog(c).Debugw("public_config_cache_set_failed", "error", err)
	}
	response.Success(c, data)
}

// GetCategories lists every category by Arabic name.
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.CategoryService.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.Success(c, categories)
}

// GetProducts lists the catalog. category accepts an id or a name in either
// language; featured=true narrows to the homepage selection.
func (h *Handler) GetProducts(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	query := service.ProductQuery{
		CategoryRef: strings.TrimSpace(c.Query("category")),
		Search:      strings.TrimSpace(c.Query("search")),
		StockStatus: strings.TrimSpace(c.Query("stock")),
		Page:        page,
		PageSize:    pageSize,
	}
	if raw := strings.TrimSpace(c.Query("featured")); raw != "" {
		featured := raw == "true" || raw == "1"
		query.Featured = &featured
	}
	result, err := h.CatalogService.ListProducts(c.Request.Context(), query)
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.SuccessWithPage(c, result.Items, handlershared.BuildPagination(page, pageSize, result.Total))
}

// GetFeaturedProducts lists the homepage selection.
func (h *Handler) GetFeaturedProducts(c *gin.Context) {
	products, err := h.CatalogService.GetFeaturedProducts(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	response.Success(c, products)
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}
	product, err := h.CatalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "error.internal_error")
		return
	}
	h.recordView(c, product.ID)
	response.Success(c, product)
}
