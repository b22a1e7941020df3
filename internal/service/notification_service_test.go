package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/dorada-store/internal/config"
	"github.com/dorada-store/internal/constants"
	"github.com/dorada-store/internal/events"
	"github.com/dorada-store/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBotToken = "123456:ABCDEF-secret-token"

type fakeTelegram struct {
	mu       sync.Mutex
	messages []map[string]interface{}
	paths    []string
	fail     bool
}

func (f *fakeTelegram) handler(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, r.URL.Path)
	w.Header().Set("Content-Type", "application/json")
	if f.fail || !strings.HasPrefix(r.URL.Path, "/bot"+testBotToken+"/") {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
		return
	}
	switch {
	case strings.HasSuffix(r.URL.Path, "/getMe"):
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"username":"dorada_bot"}}`))
	case strings.HasSuffix(r.URL.Path, "/sendMessage"):
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.messages = append(f.messages, body)
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":77}}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"ok":false,"description":"Not Found"}`))
	}
}

func (f *fakeTelegram) sent() []map[string]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]interface{}(nil), f.messages...)
}

type notifyFixture struct {
	*shopFixture
	telegram *fakeTelegram
	settings *SettingService
	notifier *NotificationService
}

func newNotifyFixture(t *testing.T, store repository.Store) *notifyFixture {
	t.Helper()
	fake := &fakeTelegram{}
	server := httptest.NewServer(http.HandlerFunc(fake.handler))
	t.Cleanup(server.Close)

	settings := NewSettingService(store.Settings())
	client := NewTelegramClient(config.TelegramConfig{APIBase: server.URL, TimeoutMS: 2000})
	shop := newShopFixture(t, store)
	notifier := NewNotificationService(settings, client, store, nil)
	notifier.SetMessageRecorder(shop.orders)
	return &notifyFixture{
		shopFixture: shop,
		telegram:    fake,
		settings:    settings,
		notifier:    notifier,
	}
}

type recordedMessage struct {
	orderID   uint
	messageID int64
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls []recordedMessage
	err   error
}

func (r *fakeRecorder) RecordTelegramMessage(_ context.Context, id uint, messageID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recordedMessage{orderID: id, messageID: messageID})
	return r.err
}

func (f *notifyFixture) enable(t *testing.T, statusChanges bool) {
	t.Helper()
	_, err := f.settings.UpdateTelegram(context.Background(), TelegramSettingPatch{
		BotToken:            strPtr(testBotToken),
		ChatID:              strPtr("-100200300"),
		Enabled:             boolPtr(true),
		NotifyStatusChanges: boolPtr(statusChanges),
	})
	require.NoError(t, err)
}

func TestNotifyOrderCreated(t *testing.T) {
	eachBackend(t, func(t *testing.T, store repository.Store) {
		f := newNotifyFixture(t, store)
		ctx := context.Background()
		p := f.product(t, "T-1", 3, 1250000)
		order := f.order(t, OrderLine{ProductID: p.ID, Quantity: 2})

		// disabled: nothing is sent
		require.NoError(t, f.notifier.HandleEvent(ctx, events.OrderCreated(order)))
		assert.Empty(t, f.telegram.sent())

		f.enable(t, false)
		require.NoError(t, f.notifier.HandleEvent(ctx, events.OrderCreated(order)))
		sent := f.telegram.sent()
		require.Len(t, sent, 1)
		assert.Equal(t, "-100200300", sent[0]["chat_id"])
		assert.Equal(t, "HTML", sent[0]["parse_mode"])
		text, _ := sent[0]["text"].(string)
		assert.Contains(t, text, order.OrderNo)
		assert.Contains(t, text, "زينب علي")
		assert.Contains(t, text, "2,500,000 IQD")
		assert.Contains(t, text, "2,505,000 IQD")

		reloaded, err := f.orders.GetOrder(ctx, order.ID)
		require.NoError(t, err)
		require.NotNil(t, reloaded.TelegramMessageID)
		assert.EqualValues(t, 77, *reloaded.TelegramMessageID)
	})
}

func TestNotifyRecordsMessageThroughRecorder(t *testing.T) {
	store := repository.NewMemoryStore()
	f := newNotifyFixture(t, store)
	ctx := context.Background()
	p := f.product(t, "T-5", 3, 1000)
	order := f.order(t, OrderLine{ProductID: p.ID, Quantity: 1})
	f.enable(t, false)

	recorder := &fakeRecorder{}
	f.notifier.SetMessageRecorder(recorder)
	require.NoError(t, f.notifier.Notify(ctx, order))
	assert.Equal(t, []recordedMessage{{orderID: order.ID, messageID: 77}}, recorder.calls)

	// the recorder owns the write, the store is untouched
	reloaded, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.TelegramMessageID)

	// a failed write is logged, the notification still counts as sent
	recorder.err = ErrOrderNotFound
	require.NoError(t, f.notifier.Notify(ctx, order))
	assert.Len(t, f.telegram.sent(), 2)
}

func TestNotifyStatusChangeRequiresOptIn(t *testing.T) {
	store := repository.NewMemoryStore()
	f := newNotifyFixture(t, store)
	ctx := context.Background()
	p := f.product(t, "T-2", 3, 1000)
	order := f.order(t, OrderLine{ProductID: p.ID, Quantity: 1})
	shipped, err := f.orders.SetOrderStatus(ctx, order.ID, constants.OrderStatusShipped)
	require.NoError(t, err)

	f.enable(t, false)
	require.NoError(t, f.notifier.HandleEvent(ctx, events.OrderStatusChanged(shipped, constants.OrderStatusPending)))
	assert.Empty(t, f.telegram.sent())

	f.enable(t, true)
	require.NoError(t, f.notifier.HandleEvent(ctx, events.OrderStatusChanged(shipped, constants.OrderStatusPending)))
	sent := f.telegram.sent()
	require.Len(t, sent, 1)
	text, _ := sent[0]["text"].(string)
	assert.Contains(t, text, "قيد الانتظار ← تم الشحن")
}

func TestNotifyFailureIsReported(t *testing.T) {
	store := repository.NewMemoryStore()
	f := newNotifyFixture(t, store)
	p := f.product(t, "T-3", 3, 1000)
	order := f.order(t, OrderLine{ProductID: p.ID, Quantity: 1})
	f.enable(t, false)
	f.telegram.fail = true

	err := f.notifier.Notify(context.Background(), order)
	require.ErrorIs(t, err, ErrNotify)
	assert.NotContains(t, err.Error(), testBotToken)

	reloaded, err := f.orders.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.TelegramMessageID)
}

func TestNotifyMissingOrderIsIgnored(t *testing.T) {
	f := newNotifyFixture(t, repository.NewMemoryStore())
	f.enable(t, true)
	err := f.notifier.HandleEvent(context.Background(), events.Event{Type: constants.EventOrderCreated, OrderID: 404})
	require.NoError(t, err)
	assert.Empty(t, f.telegram.sent())
}

func TestTelegramTestConnection(t *testing.T) {
	f := newNotifyFixture(t, repository.NewMemoryStore())
	ctx := context.Background()

	username, err := f.notifier.TestConnection(ctx, testBotToken, "-100200300")
	require.NoError(t, err)
	assert.Equal(t, "dorada_bot", username)
	sent := f.telegram.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, telegramTestMessage, sent[0]["text"])

	_, err = f.notifier.TestConnection(ctx, "bad-token", "-1")
	assert.ErrorIs(t, err, ErrNotify)

	_, err = f.notifier.TestConnection(ctx, "", "-1")
	assert.ErrorIs(t, err, ErrValidation)

	// a masked token from the settings form tests the stored one
	f.enable(t, false)
	stored, err := f.settings.GetTelegram(ctx)
	require.NoError(t, err)
	username, err = f.notifier.TestConnection(ctx, stored.Masked().BotToken, "-100200300")
	require.NoError(t, err)
	assert.Equal(t, "dorada_bot", username)
}

func TestFormatOrderMessageEscapesHTML(t *testing.T) {
	store := repository.NewMemoryStore()
	f := newShopFixture(t, store)
	p := f.product(t, "T-4", 3, 1000)
	customer := testCustomer()
	customer.Name = "<b>Ali</b> & co"
	order, err := f.orders.CreateOrder(context.Background(), CreateOrderInput{Customer: customer, Items: []OrderLine{{ProductID: p.ID, Quantity: 1}}})
	require.NoError(t, err)

	text := FormatOrderMessage(order)
	assert.Contains(t, text, "&lt;b&gt;Ali&lt;/b&gt; &amp; co")
	assert.NotContains(t, text, "<b>Ali</b>")
}
