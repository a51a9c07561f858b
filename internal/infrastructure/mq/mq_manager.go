package mq

import (
	"context"
	"strconv"
	"sync"
	"time"

	myconfig "chat_inbox_server/internal/config"
	"chat_inbox_server/pkg/errorx"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	ModeChannel = "channel"
	ModeRedis   = "redis"
	ModeKafka   = "kafka"
)

// Manager 持有本地 Hub 和按 messageMode 选择的传输
// channel 模式下 Publisher 就是 Hub 本身，没有桥接协程
type Manager struct {
	Hub       *Hub
	Publisher Publisher

	bridge Bridge
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager 根据配置构建变更订阅
func NewManager(conf *myconfig.Config) (*Manager, error) {
	hub := NewHub()
	m := &Manager{Hub: hub, Publisher: hub}
	initial, maxWait := conf.ReconnectBackoff()

	switch conf.MessageMode {
	case ModeChannel, "":
	case ModeRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     conf.RedisConfig.Host + ":" + strconv.Itoa(conf.RedisConfig.Port),
			Password: conf.RedisConfig.Password,
			DB:       conf.Db,
		})
		m.bridge = NewRedisBridge(client, conf.Channel, hub, initial, maxWait)
	case ModeKafka:
		timeout := conf.KafkaConfig.Timeout * time.Second
		createTopic(conf.HostPort, conf.ChangeTopic, conf.Partition)
		m.bridge = NewKafkaBridge(KafkaOptions{
			HostPort:    conf.HostPort,
			Topic:       conf.ChangeTopic,
			GroupPrefix: conf.GroupPrefix,
			Timeout:     timeout,
			Initial:     initial,
			MaxWait:     maxWait,
		}, hub)
	default:
		return nil, errorx.Newf(errorx.CodeInvalidParam, "未知的 messageMode: %s", conf.MessageMode)
	}
	if m.bridge != nil {
		m.Publisher = m.bridge
	}
	zap.L().Info("change feed initialized", zap.String("mode", conf.MessageMode))
	return m, nil
}

// Start 启动桥接协程（channel 模式下为空操作）
func (m *Manager) Start(ctx context.Context) {
	if m.bridge == nil {
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.bridge.Run(ctx)
	}()
}

// Close 停止桥接并关闭 Hub
func (m *Manager) Close() error {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
	if m.bridge != nil {
		if err := m.bridge.Close(); err != nil {
			zap.L().Error("close change feed bridge", zap.Error(err))
		}
	}
	return m.Hub.Close()
}

// createTopic 主题不存在时创建，已存在或失败只记录日志
func createTopic(hostPort, topic string, partitions int) {
	conn, err := kafka.Dial("tcp", hostPort)
	if err != nil {
		zap.L().Error("dial kafka", zap.String("addr", hostPort), zap.Error(err))
		return
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     partitions,
		ReplicationFactor: 1,
	})
	if err != nil {
		zap.L().Warn("create kafka topic", zap.String("topic", topic), zap.Error(err))
	}
}
