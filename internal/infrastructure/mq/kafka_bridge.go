package mq

import (
	"context"
	"errors"
	"io"
	"time"

	"chat_inbox_server/pkg/errorx"
	"chat_inbox_server/pkg/util/backoff"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaBridge 通过 Kafka 主题在多个服务进程间传递变更事件
// 每个进程使用独立的消费组，保证所有进程都能收到全部事件
type KafkaBridge struct {
	producer *kafka.Writer
	brokers  []string
	topic    string
	groupId  string
	timeout  time.Duration
	target   Dispatcher
	initial  time.Duration
	maxWait  time.Duration
}

// KafkaOptions Kafka 桥接参数
type KafkaOptions struct {
	HostPort    string
	Topic       string
	GroupPrefix string
	Timeout     time.Duration
	Initial     time.Duration
	MaxWait     time.Duration
}

// NewKafkaBridge 创建 Kafka 桥接
func NewKafkaBridge(opts KafkaOptions, target Dispatcher) *KafkaBridge {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = time.Second
	}
	return &KafkaBridge{
		producer: &kafka.Writer{
			Addr:                   kafka.TCP(opts.HostPort),
			Topic:                  opts.Topic,
			Balancer:               &kafka.Hash{},
			WriteTimeout:           timeout,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
		brokers: []string{opts.HostPort},
		topic:   opts.Topic,
		groupId: opts.GroupPrefix + "-" + uuid.NewString(),
		timeout: timeout,
		target:  target,
		initial: opts.Initial,
		maxWait: opts.MaxWait,
	}
}

// Publish 以 session_id 为 key 写入主题，同一会话的事件落在同一分区
func (b *KafkaBridge) Publish(ctx context.Context, event Event) error {
	payload, err := event.Encode()
	if err != nil {
		return errorx.Wrap(err, errorx.CodeFeedError, "编码变更事件")
	}
	err = b.producer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.SessionId),
		Value: payload,
	})
	if err != nil {
		return errorx.Wrapf(err, errorx.CodeFeedError, "写入变更事件到 %s", b.topic)
	}
	return nil
}

// Run 消费主题直到 ctx 取消，读取失败时退避重建 Reader，恢复后投递 RESYNC
func (b *KafkaBridge) Run(ctx context.Context) {
	supervise(ctx, "kafka:"+b.topic, backoff.New(b.initial, b.maxWait), b.target, b.consume)
}

// consume 先确认 broker 可达且主题存在，再创建 Reader 持续读取
// 就绪不依赖新消息到达，主题安静时也能及时触发 RESYNC
func (b *KafkaBridge) consume(ctx context.Context, onReady func()) error {
	if err := b.probe(ctx); err != nil {
		return err
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        b.brokers,
		Topic:          b.topic,
		GroupID:        b.groupId,
		CommitInterval: b.timeout,
		StartOffset:    kafka.LastOffset,
	})
	defer func() {
		if err := reader.Close(); err != nil {
			zap.L().Warn("close kafka reader", zap.Error(err))
		}
	}()
	onReady()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return errorx.ErrFeedClosed
			}
			return err
		}
		event, err := DecodeEvent(msg.Value)
		if err != nil {
			zap.L().Warn("drop malformed change event", zap.ByteString("payload", msg.Value), zap.Error(err))
			continue
		}
		b.target.Dispatch(event)
	}
}

// probe 连接 broker 读取主题分区元数据
func (b *KafkaBridge) probe(ctx context.Context) error {
	dialCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	conn, err := kafka.DialContext(dialCtx, "tcp", b.brokers[0])
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(b.timeout)); err != nil {
		return err
	}
	partitions, err := conn.ReadPartitions(b.topic)
	if err != nil {
		return err
	}
	if len(partitions) == 0 {
		return errorx.Newf(errorx.CodeFeedError, "主题 %s 没有分区", b.topic)
	}
	return nil
}

// Close 关闭生产者
func (b *KafkaBridge) Close() error {
	return b.producer.Close()
}

var _ Bridge = (*KafkaBridge)(nil)
