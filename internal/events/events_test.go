package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dorada-store/internal/models"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() *models.Order {
	return &models.Order{
		ID:       3,
		OrderNo:  "DR20260301120000ABCDEF",
		Status:   "pending",
		Total:    35000,
		Currency: "IQD",
		Items:    []models.OrderItem{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 1}},
	}
}

func TestDispatcherRunsObserversAndSurvivesPanics(t *testing.T) {
	d := NewDispatcher(time.Second)
	var calls int32
	var failed int32
	d.Subscribe("order.created", "counter", func(ctx context.Context, e Event) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	d.Subscribe("order.created", "panicky", func(ctx context.Context, e Event) error {
		panic("boom")
	})
	d.Subscribe("order.created", "failing", func(ctx context.Context, e Event) error {
		return errors.New("telegram down")
	})
	d.OnError(func(name string, e Event, err error) {
		atomic.AddInt32(&failed, 1)
	})

	event := OrderCreated(sampleOrder())
	require.NoError(t, d.Publish(context.Background(), event))
	d.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, int32(2), atomic.LoadInt32(&failed))
	assert.Equal(t, 3, event.ItemCount)
}

func TestDispatcherIgnoresCancelledCaller(t *testing.T) {
	d := NewDispatcher(time.Second)
	var sawErr atomic.Value
	d.Subscribe("order.created", "ctx", func(ctx context.Context, e Event) error {
		sawErr.Store(ctx.Err() == nil)
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, d.Publish(ctx, OrderCreated(sampleOrder())))
	d.Wait()
	assert.Equal(t, true, sawErr.Load())
}

func TestKafkaPublisherSendsKeyedMessage(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		key, _ := msg.Key.Encode()
		if string(key) != "DR20260301120000ABCDEF" {
			return errors.New("unexpected key " + string(key))
		}
		value, _ := msg.Value.Encode()
		var decoded Event
		if err := json.Unmarshal(value, &decoded); err != nil {
			return err
		}
		if decoded.Type != "order.status_changed" || decoded.PreviousStatus != "pending" {
			return errors.New("unexpected payload")
		}
		return nil
	})
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	pub := NewKafkaPublisherWithProducer(producer, "")
	order := sampleOrder()
	order.Status = "processing"

	require.NoError(t, pub.Publish(context.Background(), OrderStatusChanged(order, "pending")))
	err := pub.Publish(context.Background(), OrderCreated(order))
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, pub.Close())
}

func TestMultiAttemptsEverySink(t *testing.T) {
	var delivered int32
	ok := PublisherFunc(func(ctx context.Context, e Event) error {
		atomic.AddInt32(&delivered, 1)
		return nil
	})
	broken := PublisherFunc(func(ctx context.Context, e Event) error {
		return errors.New("kafka unavailable")
	})

	m := NewMulti().Add("broken", broken).Add("ok", ok).Add("nil", nil)
	err := m.Publish(context.Background(), OrderCreated(sampleOrder()))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.Equal(t, int32(1), delivered)
	assert.Equal(t, 2, m.Len())
}
