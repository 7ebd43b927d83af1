package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/jobhunter/internal/models"
)

type fakeChannel struct {
	exchange string
	key      string
	msgs     []amqp.Publishing
	err      error
}

func (f *fakeChannel) Publish(exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.exchange = exchange
	f.key = key
	f.msgs = append(f.msgs, msg)
	return nil
}

func TestPublishMessage_Envelope(t *testing.T) {
	ch := &fakeChannel{}
	note := models.TrialNotification{Email: "a@b.com", Country: "Kenya", UpgradeURL: "/api/v1/upgrade?email=a%40b.com"}

	require.NoError(t, PublishMessage(ch, ExchangeNotifications, RoutingKeyTrialExpiring, note))
	require.NoError(t, PublishMessage(ch, ExchangeNotifications, RoutingKeyTrialExpiring, note))

	assert.Equal(t, ExchangeNotifications, ch.exchange)
	assert.Equal(t, RoutingKeyTrialExpiring, ch.key)
	require.Len(t, ch.msgs, 2)

	msg := ch.msgs[0]
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	_, err := uuid.Parse(msg.MessageId)
	require.NoError(t, err)
	assert.NotEqual(t, ch.msgs[0].MessageId, ch.msgs[1].MessageId)

	var got models.TrialNotification
	require.NoError(t, json.Unmarshal(msg.Body, &got))
	assert.Equal(t, note, got)
}

func TestPublishMessage_Errors(t *testing.T) {
	t.Run("marshal error", func(t *testing.T) {
		badMsg := struct {
			Ch chan int `json:"ch"`
		}{Ch: make(chan int)}

		err := PublishMessage(&fakeChannel{}, "", "q", badMsg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rabbitmq.PublishMessage")
	})

	t.Run("channel error", func(t *testing.T) {
		boom := errors.New("channel closed")
		err := PublishMessage(&fakeChannel{err: boom}, "", "q", map[string]int{"a": 1})
		require.ErrorIs(t, err, boom)
	})
}

func TestPublishMessage_ThroughExchange(t *testing.T) {
	url := amqpURL(t)

	conn, err := Connect(context.Background(), url, 3, time.Second)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	ch, err := SetupChannel(conn, NotificationQueues())
	require.NoError(t, err)
	defer func() { _ = ch.Close() }()

	note := models.TrialNotification{Email: "a@b.com", Country: "Kenya"}
	require.NoError(t, PublishMessage(ch, ExchangeNotifications, RoutingKeyTrialExpiring, note))

	deliveries, err := ch.Consume(QueueTrialExpiring, "publisher-test", true, false, false, false, nil)
	require.NoError(t, err)

	select {
	case d := <-deliveries:
		var got models.TrialNotification
		require.NoError(t, json.Unmarshal(d.Body, &got))
		assert.Equal(t, note.Email, got.Email)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for message via exchange")
	}
}
