package mq

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
	closed   bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange = exchange
	f.key = key
	f.msg = msg
	return f.err
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

type savedEvent struct {
	Books int `json:"books"`
}

func TestPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := &Publisher{channel: ch, exchange: "bookshelf.events", log: zap.NewNop()}

	err := p.Publish(context.Background(), "shelf.saved", savedEvent{Books: 2})
	require.NoError(t, err)

	assert.Equal(t, "bookshelf.events", ch.exchange)
	assert.Equal(t, "shelf.saved", ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)

	var got savedEvent
	require.NoError(t, json.Unmarshal(ch.msg.Body, &got))
	assert.Equal(t, 2, got.Books)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestPublisher_PublishError(t *testing.T) {
	p := &Publisher{channel: &fakeChannel{err: errors.New("channel closed")}, exchange: "x", log: zap.NewNop()}

	err := p.Publish(context.Background(), "shelf.saved", savedEvent{})
	assert.ErrorContains(t, err, "发布消息失败")
}

func TestPublisher_UnmarshalableMessage(t *testing.T) {
	p := &Publisher{channel: &fakeChannel{}, exchange: "x", log: zap.NewNop()}

	err := p.Publish(context.Background(), "shelf.saved", func() {})
	assert.ErrorContains(t, err, "消息序列化失败")
}

// TestNewPublisher_Live 需要本地RabbitMQ，设置BOOKSHELF_TEST_AMQP_URL后运行
func TestNewPublisher_Live(t *testing.T) {
	url := os.Getenv("BOOKSHELF_TEST_AMQP_URL")
	if url == "" {
		t.Skip("未设置BOOKSHELF_TEST_AMQP_URL，跳过RabbitMQ集成测试")
	}

	p, err := NewPublisher(url, "bookshelf.test.events", "topic", zap.NewNop())
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, p.Publish(context.Background(), "shelf.saved", savedEvent{Books: 1}))
}
