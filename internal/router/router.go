package router

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/dorada-store/internal/authz"
	"github.com/dorada-store/internal/cache"
	"github.com/dorada-store/internal/config"
	adminhandlers "github.com/dorada-store/internal/http/handlers/admin"
	publichandlers "github.com/dorada-store/internal/http/handlers/public"
	"github.com/dorada-store/internal/http/response"
	"github.com/dorada-store/internal/logger"
	"github.com/dorada-store/internal/models"
	"github.com/dorada-store/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter builds the engine with the storefront, admin and ops routes.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisClient := cache.Client()
	limits := newRateLimitRules(cfg)

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(logger.Z()))
	r.Use(CORSMiddleware(cfg.CORS))
	if c.Metrics != nil {
		r.Use(c.Metrics.Middleware())
	}

	uploadDir := strings.TrimSpace(cfg.Upload.Dir)
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	uploadPath := strings.TrimSpace(cfg.Upload.PublicPath)
	if uploadPath == "" {
		uploadPath = "/uploads"
	}
	r.Static(uploadPath, uploadDir)

	apiV1 := r.Group("/api/v1")
	{
		public := apiV1.Group("/public")
		{
			public.GET("/config", publicHandler.GetConfig)
			public.GET("/categories", publicHandler.GetCategories)
			public.GET("/products", publicHandler.GetProducts)
			public.GET("/products/featured", publicHandler.GetFeaturedProducts)
			public.GET("/products/:id", publicHandler.GetProduct)
			public.GET("/orders/track", publicHandler.TrackOrder)
			public.GET("/captcha/image", publicHandler.GetImageCaptcha)

			device := public.Group("")
			device.Use(DeviceMiddleware())
			{
				device.GET("/cart", publicHandler.GetCart)
				device.POST("/cart/items", publicHandler.AddCartItem)
				device.PUT("/cart/items/:product_id", publicHandler.UpdateCartItem)
				device.DELETE("/cart/items/:product_id", publicHandler.RemoveCartItem)
				device.DELETE("/cart", publicHandler.ClearCart)

				device.GET("/wishlist", publicHandler.GetWishlist)
				device.POST("/wishlist/items", publicHandler.AddWishlistItem)
				device.GET("/wishlist/items/:product_id", publicHandler.HasWishlistItem)
				device.DELETE("/wishlist/items/:product_id", publicHandler.RemoveWishlistItem)
				device.DELETE("/wishlist", publicHandler.ClearWishlist)

				device.GET("/recently-viewed", publicHandler.GetRecentlyViewed)
				device.DELETE("/recently-viewed", publicHandler.ClearRecentlyViewed)

				device.POST("/orders", RateLimitMiddleware(redisClient, limits.checkout, checkoutKey), publicHandler.Checkout)
			}
		}

		admin := apiV1.Group("/admin")
		{
			admin.POST("/access", RateLimitMiddleware(redisClient, limits.adminLogin, adminAccessKey), adminHandler.GrantAccess)
			admin.GET("/setup/status", adminHandler.GetSetupStatus)
			admin.POST("/setup", adminHandler.Setup)
			admin.POST("/login", RateLimitMiddleware(redisClient, limits.adminLogin, adminLoginKey), adminHandler.Login)

			authorized := admin.Group("")
			authorized.Use(AdminAuthMiddleware(c.AdminAuthService), AdminRBACMiddleware(c.AuthzService))
			{
				authorized.POST("/logout", adminHandler.Logout)
				authorized.GET("/me", adminHandler.GetMe)
				authorized.PUT("/password", adminHandler.ChangePassword)

				authorized.GET("/dashboard", adminHandler.GetDashboard)

				authorized.GET("/products", adminHandler.ListProducts)
				authorized.GET("/products/:id", adminHandler.GetProduct)
				authorized.POST("/products", adminHandler.CreateProduct)
				authorized.PUT("/products/:id", adminHandler.UpdateProduct)
				authorized.DELETE("/products/:id", adminHandler.DeleteProduct)
				authorized.POST("/products/:id/stock", adminHandler.AdjustStock)

				authorized.GET("/categories", adminHandler.ListCategories)
				authorized.GET("/categories/:id", adminHandler.GetCategory)
				authorized.POST("/categories", adminHandler.CreateCategory)
				authorized.PUT("/categories/:id", adminHandler.UpdateCategory)
				authorized.DELETE("/categories/:id", adminHandler.DeleteCategory)

				authorized.GET("/orders", adminHandler.ListOrders)
				authorized.GET("/orders/:id", adminHandler.GetOrder)
				authorized.PUT("/orders/:id/status", adminHandler.UpdateOrderStatus)

				authorized.GET("/settings/telegram", adminHandler.GetTelegramSetting)
				authorized.PUT("/settings/telegram", adminHandler.UpdateTelegramSetting)
				authorized.POST("/settings/telegram/test", adminHandler.TestTelegram)

				authorized.POST("/upload", adminHandler.Upload)

				authorized.GET("/admins", adminHandler.ListAdmins)
				authorized.POST("/admins", adminHandler.CreateAdmin)
				authorized.GET("/authz/roles", adminHandler.ListRoles)
				authorized.GET("/authz/admins", adminHandler.ListAssignments)
				authorized.PUT("/authz/admins/:id/roles", adminHandler.AssignRoles)
				authorized.GET("/authz/audit-logs", adminHandler.ListAuditLogs)
				authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})
			}
		}
	}

	if c.Metrics != nil {
		path := strings.TrimSpace(cfg.Metrics.Path)
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(c.Metrics.Handler()))
	}

	r.GET("/health", func(ctx *gin.Context) {
		status := gin.H{"status": "ok", "database": "ok", "redis": "ok"}
		code := http.StatusOK
		if err := pingDatabase(); err != nil {
			status["database"] = err.Error()
			status["status"] = "degraded"
			code = http.StatusServiceUnavailable
		}
		if err := cache.Ping(ctx.Request.Context()); err != nil {
			status["redis"] = err.Error()
			status["status"] = "degraded"
		}
		ctx.JSON(code, status)
	})

	return r
}

func pingDatabase() error {
	if models.DB == nil {
		return fmt.Errorf("not initialized")
	}
	sqlDB, err := models.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

// buildAdminPermissionCatalog lists every admin route a role policy can name.
func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		switch item.Path {
		case "/api/v1/admin/access", "/api/v1/admin/login", "/api/v1/admin/setup", "/api/v1/admin/setup/status":
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	return segments[1]
}
