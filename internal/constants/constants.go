package constants

// Order statuses
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// OrderStatuses lists every status in display order.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// Arabic labels persisted alongside the status
var OrderStatusLabelsAr = map[string]string{
	OrderStatusPending:    "قيد الانتظار",
	OrderStatusProcessing: "قيد المعالجة",
	OrderStatusShipped:    "تم الشحن",
	OrderStatusDelivered:  "تم التوصيل",
	OrderStatusCancelled:  "ملغي",
}

// Order number prefix
const OrderNoPrefix = "DR"

// Phone validation policies
const (
	PhonePolicyIraqi   = "iraqi"
	PhonePolicyGeneric = "generic"
	IraqCountryCode    = "964"
)

// Catalog storage backends
const (
	StorageBackendDatabase = "database"
	StorageBackendMemory   = "memory"
	DeviceBackendRedis     = "redis"
	DeviceBackendMemory    = "memory"
)

// Category delete policies
const (
	CategoryDeleteRestrict = "restrict"
	CategoryDeleteOrphan   = "orphan"
)

// Captcha providers
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// Captcha scenes
const (
	CaptchaSceneAdminLogin = "admin_login"
	CaptchaSceneCheckout   = "checkout"
)

// Queue names and task types
const (
	QueueNotify     = "notify"
	QueueDefault    = "default"
	TaskOrderNotify = "order:notify"
)

// Order event types
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// Cache defaults
const (
	RedisPrefixDefault = "dorada"
	DeviceKeyPrefix    = "dorada_"
)

// Device store keys
const (
	DeviceKeyCart           = "cart"
	DeviceKeyWishlist       = "wishlist"
	DeviceKeyRecentlyViewed = "recently_viewed"
)

// Recently viewed limits
const (
	RecentlyViewedMax          = 8
	RecentlyViewedDisplayLimit = 4
)

// Setting keys
const (
	SettingKeyTelegramConfig = "telegram_config"
	SettingKeyStoreConfig    = "store_config"
)

// Locales
const (
	LocaleAr = "ar"
	LocaleEn = "en"
)

// SupportedLocales in fallback order
var SupportedLocales = []string{LocaleAr, LocaleEn}

// Currency
const CurrencyIQD = "IQD"

// Field limits
const (
	MaxCustomerFieldLength = 500
	MaxImageUploadBytes    = 20 * 1024 * 1024
)

// Request headers
const (
	HeaderDeviceID    = "X-Device-ID"
	HeaderAdminAccess = "X-Admin-Access"
	HeaderRequestID   = "X-Request-ID"
)
