package i18n

import "github.com/dorada-store/internal/constants"

var messages = map[string]map[string]string{
	constants.LocaleAr: {
		"success":                              "تمت العملية بنجاح",
		"error.bad_request":                    "طلب غير صالح",
		"error.unauthorized":                   "يجب تسجيل الدخول",
		"error.forbidden":                      "ليس لديك صلاحية",
		"error.not_found":                      "غير موجود",
		"error.internal_error":                 "حدث خطأ غير متوقع",
		"error.too_many_requests":              "محاولات كثيرة، حاول لاحقاً",
		"error.checkout_rate_limited":          "طلبات كثيرة من هذا الاتصال، حاول لاحقاً",
		"error.storage_unavailable":            "تعذر الوصول إلى قاعدة البيانات",
		"error.customer_name_required":         "الرجاء إدخال الاسم",
		"error.customer_phone_required":        "الرجاء إدخال رقم الهاتف",
		"error.customer_phone_invalid":         "رقم الهاتف غير صحيح. يجب أن يكون 10 أرقام تبدأ بـ 7",
		"error.customer_phone_invalid_generic": "رقم الهاتف غير صحيح",
		"error.customer_address_required":      "الرجاء إدخال العنوان بالتفصيل",
		"error.customer_city_required":         "الرجاء إدخال المدينة",
		"error.cart_empty":                     "السلة فارغة",
		"error.cart_too_many_items":            "عدد المنتجات في السلة كبير جداً",
		"error.insufficient_stock":             "الكمية المطلوبة غير متوفرة لـ %s",
		"error.out_of_stock":                   "المنتج غير متوفر حالياً",
		"error.quantity_invalid":               "الكمية غير صحيحة",
		"error.order_not_found":                "الطلب غير موجود",
		"error.order_status_invalid":           "حالة الطلب غير صحيحة",
		"error.order_status_conflict":          "تم تعديل الطلب من مستخدم آخر، أعد المحاولة",
		"error.order_status_update_failed":     "حدث خطأ أثناء تحديث الحالة",
		"error.order_create_failed":            "حدث خطأ أثناء إنشاء الطلب",
		"error.product_not_found":              "المنتج غير موجود",
		"error.product_name_required":          "الرجاء إدخال اسم المنتج",
		"error.product_price_invalid":          "السعر يجب أن يكون أكبر من صفر",
		"error.product_original_price_invalid": "السعر الأصلي غير صحيح",
		"error.product_images_required":        "الرجاء إضافة صورة واحدة على الأقل",
		"error.product_category_required":      "الرجاء اختيار القسم",
		"error.product_category_invalid":       "القسم غير موجود",
		"error.product_sku_required":           "الرجاء إدخال رمز المنتج",
		"error.product_quantity_invalid":       "الكمية لا يمكن أن تكون سالبة",
		"error.product_sku_exists":             "رمز المنتج مستخدم مسبقاً",
		"error.stock_conflict":                 "تغيرت الكمية أثناء التعديل، أعد تحميل المنتج",
		"error.category_not_found":             "القسم غير موجود",
		"error.category_name_required":         "الرجاء إدخال اسم القسم",
		"error.category_in_use":                "لا يمكن حذف قسم يحتوي على منتجات",
		"error.category_system_locked":         "لا يمكن حذف هذا القسم",
		"error.wishlist_duplicate":             "المنتج موجود في المفضلة",
		"error.device_id_invalid":              "معرف الجهاز غير صالح",
		"error.setup_disabled":                 "تم تعطيل التسجيل",
		"error.login_invalid":                  "اسم المستخدم أو كلمة المرور غير صحيحة",
		"error.access_required":                "يجب إدخال مفتاح الوصول أولاً",
		"error.access_key_invalid":             "مفتاح الوصول غير صحيح",
		"error.session_expired":                "انتهت الجلسة، الرجاء تسجيل الدخول مجدداً",
		"error.password_invalid":               "كلمة المرور الحالية غير صحيحة",
		"error.password_too_short":             "كلمة المرور قصيرة جداً",
		"error.password_weak":                  "يجب أن تحتوي كلمة المرور على أحرف وأرقام",
		"error.username_required":              "الرجاء إدخال اسم المستخدم",
		"error.username_exists":                "اسم المستخدم مستخدم مسبقاً",
		"error.captcha_required":               "الرجاء إدخال رمز التحقق",
		"error.captcha_invalid":                "رمز التحقق غير صحيح",
		"error.telegram_credentials_required":  "Bot Token و Chat ID مطلوبان",
		"error.telegram_connect_failed":        "فشل الاتصال",
		"error.telegram_network":               "خطأ في الاتصال بالشبكة",
		"error.upload_type_invalid":            "نوع الملف غير مدعوم. استخدم JPG, PNG, أو WebP",
		"error.upload_too_large":               "حجم الملف كبير جداً. الحد الأقصى 20 ميجابايت",
		"error.upload_failed":                  "فشل رفع الملف",
		"error.role_invalid":                   "الدور غير صالح",
		"error.admin_not_found":                "المسؤول غير موجود",
		"message.telegram_connected":           "تم الاتصال بنجاح!",
		"message.order_created":                "تم إرسال طلبك بنجاح",
		"message.order_status_updated":         "تم تحديث حالة الطلب",
		"message.settings_saved":               "تم حفظ الإعدادات",
		"message.logged_out":                   "تم تسجيل الخروج",
		"message.password_changed":             "تم تغيير كلمة المرور",
		"message.cart_cleared":                 "تم إفراغ السلة",
		"message.wishlist_cleared":             "تم إفراغ المفضلة",
		"message.recently_viewed_cleared":      "تم مسح المنتجات التي شاهدتها مؤخراً",
		"message.product_deleted":              "تم حذف المنتج",
		"message.category_deleted":             "تم حذف القسم",
	},
	constants.LocaleEn: {
		"success":                              "success",
		"error.bad_request":                    "Invalid request",
		"error.unauthorized":                   "Login required",
		"error.forbidden":                      "Permission denied",
		"error.not_found":                      "Not found",
		"error.internal_error":                 "Unexpected error",
		"error.too_many_requests":              "Too many attempts, try again later",
		"error.checkout_rate_limited":          "Too many orders from this connection, try again later",
		"error.storage_unavailable":            "Storage is unavailable",
		"error.customer_name_required":         "Please enter your name",
		"error.customer_phone_required":        "Please enter your phone number",
		"error.customer_phone_invalid":         "Invalid phone number. It must be 10 digits starting with 7",
		"error.customer_phone_invalid_generic": "Invalid phone number",
		"error.customer_address_required":      "Please enter a detailed address",
		"error.customer_city_required":         "Please enter your city",
		"error.cart_empty":                     "Your cart is empty",
		"error.cart_too_many_items":            "Too many items in the cart",
		"error.insufficient_stock":             "Requested quantity is not available for %s",
		"error.out_of_stock":                   "This product is out of stock",
		"error.quantity_invalid":               "Invalid quantity",
		"error.order_not_found":                "Order not found",
		"error.order_status_invalid":           "Invalid order status",
		"error.order_status_conflict":          "The order was changed by someone else, please retry",
		"error.order_status_update_failed":     "Failed to update the order status",
		"error.order_create_failed":            "Failed to create the order",
		"error.product_not_found":              "Product not found",
		"error.product_name_required":          "Product name is required",
		"error.product_price_invalid":          "Price must be greater than zero",
		"error.product_original_price_invalid": "Invalid original price",
		"error.product_images_required":        "At least one image is required",
		"error.product_category_required":      "Category is required",
		"error.product_category_invalid":       "Category does not exist",
		"error.product_sku_required":           "SKU is required",
		"error.product_quantity_invalid":       "Quantity cannot be negative",
		"error.product_sku_exists":             "SKU already exists",
		"error.stock_conflict":                 "Stock changed while editing, reload the product",
		"error.category_not_found":             "Category not found",
		"error.category_name_required":         "Category name is required",
		"error.category_in_use":                "Category still has products",
		"error.category_system_locked":         "This category cannot be deleted",
		"error.wishlist_duplicate":             "Product is already in your wishlist",
		"error.device_id_invalid":              "Invalid device id",
		"error.setup_disabled":                 "Registration is disabled",
		"error.login_invalid":                  "Invalid username or password",
		"error.access_required":                "Enter the access key first",
		"error.access_key_invalid":             "Invalid access key",
		"error.session_expired":                "Session expired, please log in again",
		"error.password_invalid":               "Current password is incorrect",
		"error.password_too_short":             "Password is too short",
		"error.password_weak":                  "Password must contain letters and digits",
		"error.username_required":              "Username is required",
		"error.username_exists":                "Username already exists",
		"error.captcha_required":               "Captcha is required",
		"error.captcha_invalid":                "Invalid captcha",
		"error.telegram_credentials_required":  "Bot Token and Chat ID are required",
		"error.telegram_connect_failed":        "Connection failed",
		"error.telegram_network":               "Network error",
		"error.upload_type_invalid":            "Unsupported file type. Use JPG, PNG or WebP",
		"error.upload_too_large":               "File too large. Maximum is 20 MB",
		"error.upload_failed":                  "Upload failed",
		"error.role_invalid":                   "Invalid role",
		"error.admin_not_found":                "Admin not found",
		"message.telegram_connected":           "Connected successfully!",
		"message.order_created":                "Your order was placed",
		"message.order_status_updated":         "Order status updated",
		"message.settings_saved":               "Settings saved",
		"message.logged_out":                   "Logged out",
		"message.password_changed":             "Password changed",
		"message.cart_cleared":                 "Cart cleared",
		"message.wishlist_cleared":             "Wishlist cleared",
		"message.recently_viewed_cleared":      "Recently viewed cleared",
		"message.product_deleted":              "Product deleted",
		"message.category_deleted":             "Category deleted",
	},
}
