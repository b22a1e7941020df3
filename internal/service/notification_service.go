package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/dorada-store/internal/constants"
	"github.com/dorada-store/internal/currency"
	"github.com/dorada-store/internal/events"
	"github.com/dorada-store/internal/logger"
	"github.com/dorada-store/internal/metrics"
	"github.com/dorada-store/internal/models"
	"github.com/dorada-store/internal/repository"
)

const telegramTestMessage = "✅ <b>تم الاتصال بنجاح!</b>\n\nبوت دورادا جاهز لاستقبال الطلبات. 🎉"

// TelegramMessageRecorder stores the chat message id on the announced order.
// OrderService implements it.
type TelegramMessageRecorder interface {
	RecordTelegramMessage(ctx context.Context, id uint, messageID int64) error
}

// NotificationService sends order notifications to the shop's Telegram chat.
// Failures never reach the order workflow: callers log and drop them.
type NotificationService struct {
	settings *SettingService
	telegram *TelegramClient
	store    repository.Store
	metrics  *metrics.Metrics
	recorder TelegramMessageRecorder
}

func NewNotificationService(settings *SettingService, telegram *TelegramClient, store repository.Store, m *metrics.Metrics) *NotificationService {
	return &NotificationService{settings: settings, telegram: telegram, store: store, metrics: m}
}

// SetMessageRecorder routes message id writes through the order owner. The
// order service publishes into the notifier, so it is attached after both exist.
func (s *NotificationService) SetMessageRecorder(recorder TelegramMessageRecorder) {
	s.recorder = recorder
}

// HandleEvent loads the order behind event and sends the matching message.
func (s *NotificationService) HandleEvent(ctx context.Context, event events.Event) error {
	order, err := s.store.Orders().GetByID(event.OrderID)
	if err != nil {
		return storageError("get order", err)
	}
	if order == nil {
		logger.Warnw("notify_order_missing", "order_id", event.OrderID, "event", event.Type)
		return nil
	}
	switch event.Type {
	case constants.EventOrderCreated:
		return s.Notify(ctx, order)
	case constants.EventOrderStatusChanged:
		return s.NotifyStatusChange(ctx, order, event.PreviousStatus)
	}
	return nil
}

// Notify announces a new order. A disabled or incomplete configuration is a no-op.
func (s *NotificationService) Notify(ctx context.Context, order *models.Order) error {
	setting, err := s.settings.GetTelegram(ctx)
	if err != nil {
		return err
	}
	if !setting.Ready() {
		s.metrics.Notification(telegramChannel, constants.EventOrderCreated, "skipped")
		return nil
	}
	messageID, err := s.telegram.SendMessage(ctx, setting.BotToken, setting.ChatID, FormatOrderMessage(order))
	if err != nil {
		s.metrics.Notification(telegramChannel, constants.EventOrderCreated, "failed")
		return err
	}
	s.metrics.Notification(telegramChannel, constants.EventOrderCreated, "sent")
	if s.recorder == nil {
		logger.Warnw("notify_record_message_skipped", "order_id", order.ID, "message_id", messageID)
		return nil
	}
	if err := s.recorder.RecordTelegramMessage(ctx, order.ID, messageID); err != nil {
		logger.Warnw("notify_record_message_failed", "order_id", order.ID, "error", err)
	}
	return nil
}

// NotifyStatusChange announces a status change when the shop opted in.
func (s *NotificationService) NotifyStatusChange(ctx context.Context, order *models.Order, previous string) error {
	setting, err := s.settings.GetTelegram(ctx)
	if err != nil {
		return err
	}
	if !setting.Ready() || !setting.NotifyStatusChanges {
		s.metrics.Notification(telegramChannel, constants.EventOrderStatusChanged, "skipped")
		return nil
	}
	if _, err := s.telegram.SendMessage(ctx, setting.BotToken, setting.ChatID, FormatStatusMessage(order, previous)); err != nil {
		s.metrics.Notification(telegramChannel, constants.EventOrderStatusChanged, "failed")
		return err
	}
	s.metrics.Notification(telegramChannel, constants.EventOrderStatusChanged, "sent")
	return nil
}

// TestConnection checks the token with getMe and posts the test message.
// It returns the bot username.
func (s *NotificationService) TestConnection(ctx context.Context, token, chatID string) (string, error) {
	token = strings.TrimSpace(token)
	chatID = strings.TrimSpace(chatID)
	if token == "" || chatID == "" {
		return "", invalid("botToken", "error.telegram_credentials_required")
	}
	if strings.Trim(token, "*") != token {
		// masked value from the settings form, test the stored token
		stored, err := s.settings.GetTelegram(ctx)
		if err != nil {
			return "", err
		}
		token = stored.BotToken
	}
	username, err := s.telegram.GetMe(ctx, token)
	if err != nil {
		return "", err
	}
	if _, err := s.telegram.SendMessage(ctx, token, chatID, telegramTestMessage); err != nil {
		return "", err
	}
	logger.Infow("telegram_connection_tested", "bot", username)
	return username, nil
}

// FormatOrderMessage renders the new-order summary in Telegram HTML.
func FormatOrderMessage(order *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🛍️ <b>طلب جديد #%s</b>\n\n", html.EscapeString(order.OrderNo))
	fmt.Fprintf(&b, "👤 <b>الاسم:</b> %s\n", html.EscapeString(order.CustomerName))
	fmt.Fprintf(&b, "📱 <b>الهاتف:</b> %s\n", html.EscapeString(order.CustomerPhone))
	fmt.Fprintf(&b, "🏙️ <b>المدينة:</b> %s\n", html.EscapeString(order.CustomerCity))
	fmt.Fprintf(&b, "📍 <b>العنوان:</b> %s\n", html.EscapeString(order.CustomerAddress))
	if order.Notes != "" {
		fmt.Fprintf(&b, "📝 <b>ملاحظات:</b> %s\n", html.EscapeString(order.Notes))
	}
	b.WriteString("\n📦 <b>المنتجات:</b>\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "• %s × %d = %s\n", html.EscapeString(item.NameAr), item.Quantity, currency.Format(item.LineTotal()))
	}
	fmt.Fprintf(&b, "\n💰 <b>المجموع الفرعي:</b> %s\n", currency.Format(order.Subtotal))
	fmt.Fprintf(&b, "🚚 <b>التوصيل:</b> %s\n", currency.Format(order.ShippingFee))
	fmt.Fprintf(&b, "💵 <b>الإجمالي:</b> %s", currency.Format(order.Total))
	return b.String()
}

// FormatStatusMessage renders a status change line in Telegram HTML.
func FormatStatusMessage(order *models.Order, previous string) string {
	return fmt.Sprintf("🔄 <b>تحديث حالة الطلب #%s</b>\n\n%s ← %s\n👤 %s",
		html.EscapeString(order.OrderNo),
		html.EscapeString(StatusLabelAr(previous)),
		html.EscapeString(StatusLabelAr(order.Status)),
		html.EscapeString(order.CustomerName),
	)
}
