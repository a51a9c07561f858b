package mq

import (
	"context"
	"time"

	"chat_inbox_server/pkg/errorx"
	"chat_inbox_server/pkg/util/backoff"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Dispatcher 事件回流的目标，一般是本地 Hub
type Dispatcher interface {
	Dispatch(event Event)
}

// RedisBridge 通过 Redis pub/sub 在多个服务进程间传递变更事件
// Publish 写到频道；Run 订阅同一频道并把收到的事件投递到本地 Hub
type RedisBridge struct {
	client  *redis.Client
	channel string
	target  Dispatcher
	initial time.Duration
	maxWait time.Duration
}

// NewRedisBridge 创建 Redis 桥接
func NewRedisBridge(client *redis.Client, channel string, target Dispatcher, initial, maxWait time.Duration) *RedisBridge {
	return &RedisBridge{
		client:  client,
		channel: channel,
		target:  target,
		initial: initial,
		maxWait: maxWait,
	}
}

// Publish 发布变更事件
func (b *RedisBridge) Publish(ctx context.Context, event Event) error {
	payload, err := event.Encode()
	if err != nil {
		return errorx.Wrap(err, errorx.CodeFeedError, "编码变更事件")
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "发布变更事件到 %s", b.channel)
	}
	return nil
}

// Run 订阅频道直到 ctx 取消
// 连接失败按指数退避重连，重连成功后投递 RESYNC
func (b *RedisBridge) Run(ctx context.Context) {
	supervise(ctx, "redis:"+b.channel, backoff.New(b.initial, b.maxWait), b.target, b.consume)
}

// consume 打开一次订阅并持续读取，返回导致断开的错误
func (b *RedisBridge) consume(ctx context.Context, onReady func()) error {
	pubsub := b.client.Subscribe(ctx, b.channel)
	defer pubsub.Close()

	// 等待订阅确认
	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}
	onReady()

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			return err
		}
		event, err := DecodeEvent([]byte(msg.Payload))
		if err != nil {
			zap.L().Warn("drop malformed change event", zap.String("payload", msg.Payload), zap.Error(err))
			continue
		}
		b.target.Dispatch(event)
	}
}

// Close 关闭 Redis 客户端
func (b *RedisBridge) Close() error {
	return b.client.Close()
}

var _ Bridge = (*RedisBridge)(nil)
