package provider

import (
	"strings"
	"time"

	"github.com/dorada-store/internal/authz"
	"github.com/dorada-store/internal/cache"
	"github.com/dorada-store/internal/config"
	"github.com/dorada-store/internal/constants"
	"github.com/dorada-store/internal/events"
	"github.com/dorada-store/internal/localstore"
	"github.com/dorada-store/internal/logger"
	"github.com/dorada-store/internal/metrics"
	"github.com/dorada-store/internal/models"
	"github.com/dorada-store/internal/queue"
	"github.com/dorada-store/internal/repository"
	"github.com/dorada-store/internal/service"
)

const notifyObserverTimeout = 15 * time.Second

// Container holds the process-wide dependencies.
type Container struct {
	Config      *config.Config
	Metrics     *metrics.Metrics
	QueueClient *queue.Client

	// Storage
	Store             repository.Store
	DeviceStore       localstore.Store
	AdminRepo         repository.AdminRepository
	AuthzAuditLogRepo repository.AuthzAuditLogRepository

	// Events
	Publisher  events.Publisher
	Dispatcher *events.Dispatcher
	kafka      *events.KafkaPublisher

	// Services
	AuthzService        *authz.Service
	CaptchaService      *service.CaptchaService
	AdminAuthService    *service.AdminAuthService
	SettingService      *service.SettingService
	CatalogService      *service.CatalogService
	CategoryService     *service.CategoryService
	OrderService        *service.OrderService
	CartService         *service.CartService
	WishlistService     *service.WishlistService
	RecentlyViewed      *service.RecentlyViewedService
	NotificationService *service.NotificationService
	UploadService       *service.UploadService
	DashboardService    *service.DashboardService
	AuthzAuditService   *service.AuthzAuditService
}

// NewContainer wires everything on top of the already opened models.DB.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient = nil
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}
	if cfg.Metrics.Enabled {
		c.Metrics = metrics.NewDefault()
	}

	c.initStorage()
	c.initServices()
	c.initEvents()
	return c
}

func (c *Container) initStorage() {
	db := models.DB
	switch strings.ToLower(strings.TrimSpace(c.Config.Storage.Backend)) {
	case constants.StorageBackendMemory:
		c.Store = repository.NewMemoryStore()
		logger.Warnw("provider_store_memory", "reason", "configured", "persistent", false)
	default:
		c.Store = repository.NewGormStore(db)
	}
	c.AdminRepo = repository.NewAdminRepository(db)
	c.AuthzAuditLogRepo = repository.NewAuthzAuditLogRepository(db)

	ttl := time.Duration(c.Config.Storage.DeviceTTLDays) * 24 * time.Hour
	backend := strings.ToLower(strings.TrimSpace(c.Config.Storage.DeviceBackend))
	if backend == constants.DeviceBackendRedis && cache.Enabled() {
		c.DeviceStore = localstore.NewRedisStore(cache.Client(), ttl)
		return
	}
	if backend == constants.DeviceBackendRedis {
		logger.Warnw("provider_device_store_fallback", "wanted", backend, "using", constants.DeviceBackendMemory)
	}
	c.DeviceStore = localstore.NewMemoryStore(ttl)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AdminAuthService = service.NewAdminAuthService(c.Config, c.AdminRepo, c.CaptchaService)
	c.SettingService = service.NewSettingService(c.Store.Settings())

	catalogCache := cache.NewCatalogCache(c.Config.Catalog.CacheTTL())
	c.CatalogService = service.NewCatalogService(c.Store, catalogCache, c.Metrics, c.Config.Catalog)
	c.CategoryService = service.NewCategoryService(c.Store, catalogCache, c.Config.Catalog.CategoryDeletePolicy)

	c.NotificationService = service.NewNotificationService(
		c.SettingService,
		service.NewTelegramClient(c.Config.Telegram),
		c.Store,
		c.Metrics,
	)
	c.UploadService = service.NewUploadService(c.Config.Upload)
	c.DashboardService = service.NewDashboardService(c.Store, c.Config.Catalog.LowStockThreshold)
	c.AuthzAuditService = service.NewAuthzAuditService(c.AuthzService, c.AdminRepo, c.AuthzAuditLogRepo)
}

// initEvents builds the order event fan-out and the order services that
// publish into it. With the queue enabled, notifications run in the worker;
// otherwise an in-process dispatcher sends them.
func (c *Container) initEvents() {
	multi := events.NewMulti()
	if c.QueueClient.Enabled() {
		multi.Add("queue", events.NewQueuePublisher(c.QueueClient))
	} else {
		c.Dispatcher = events.NewDispatcher(notifyObserverTimeout)
		c.Dispatcher.Subscribe(constants.EventOrderCreated, "telegram", c.NotificationService.HandleEvent)
		c.Dispatcher.Subscribe(constants.EventOrderStatusChanged, "telegram", c.NotificationService.HandleEvent)
		multi.Add("dispatcher", c.Dispatcher)
	}
	if c.Config.Kafka.Enabled {
		kafka, err := events.NewKafkaPublisher(c.Config.Kafka)
		if err != nil {
			logger.Warnw("provider_init_kafka_failed", "error", err, "brokers", c.Config.Kafka.Brokers)
		} else {
			c.kafka = kafka
			multi.Add("kafka", kafka)
		}
	}
	c.Publisher = multi

	orders, err := service.NewOrderService(c.Store, c.CatalogService, c.Publisher, c.Metrics, c.Config.Order)
	if err != nil {
		logger.Errorw("provider_init_order_service_failed", "error", err)
		panic(err)
	}
	c.OrderService = orders
	c.NotificationService.SetMessageRecorder(orders)
	c.CartService = service.NewCartService(c.DeviceStore, c.CatalogService, c.OrderService)
	c.WishlistService = service.NewWishlistService(c.DeviceStore, c.CatalogService)
	c.RecentlyViewed = service.NewRecentlyViewedService(c.DeviceStore, c.CatalogService)
}

// Close drains in-flight observers and releases broker connections.
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.Dispatcher != nil {
		c.Dispatcher.Wait()
	}
	if c.kafka != nil {
		if err := c.kafka.Close(); err != nil {
			logger.Warnw("provider_close_kafka_failed", "error", err)
		}
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_failed", "error", err)
	}
}
