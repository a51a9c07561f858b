// Package config 提供应用程序的配置加载和管理功能
// 使用 TOML 格式的配置文件，支持多路径查找
package config

import (
	"fmt"
	"time"

	"chat_inbox_server/pkg/constants"

	"github.com/BurntSushi/toml"
)

// MainConfig 主配置，包含应用基本信息
type MainConfig struct {
	AppName string `toml:"appName"` // 应用名称
	Host    string `toml:"host"`    // 监听地址，如 "0.0.0.0"
	Port    int    `toml:"port"`    // 监听端口，如 8000
	Mode    string `toml:"mode"`    // 运行模式："dev" 或 "release"
}

// DatabaseConfig 消息库连接配置
// driver 为 "mysql" 时使用 MySQL 连接参数，为 "sqlite" 时使用 SqlitePath
type DatabaseConfig struct {
	Driver       string `toml:"driver"`       // "mysql" 或 "sqlite"
	Host         string `toml:"host"`         // MySQL 服务器地址
	Port         int    `toml:"port"`         // MySQL 端口，默认 3306
	User         string `toml:"user"`         // 数据库用户名
	Password     string `toml:"password"`     // 数据库密码
	DatabaseName string `toml:"databaseName"` // 数据库名称
	SqlitePath   string `toml:"sqlitePath"`   // SQLite 文件路径，":memory:" 表示内存库
	TableName    string `toml:"tableName"`    // 聊天记录表名
}

// RedisConfig Redis 连接配置（messageMode = "redis" 时使用）
type RedisConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Password string `toml:"password"`
	Db       int    `toml:"db"`
	Channel  string `toml:"channel"` // 变更事件的 pub/sub 频道
}

// KafkaConfig 变更事件传输配置
type KafkaConfig struct {
	MessageMode string        `toml:"messageMode"` // "channel"、"redis" 或 "kafka"
	HostPort    string        `toml:"hostPort"`    // Kafka 地址，如 "localhost:9092"
	ChangeTopic string        `toml:"changeTopic"` // 变更事件主题
	GroupPrefix string        `toml:"groupPrefix"` // 消费组前缀，每个进程追加唯一后缀
	Partition   int           `toml:"partition"`   // 创建主题时的分区数
	Timeout     time.Duration `toml:"timeout"`     // 超时时间（秒）
}

// LogConfig 日志配置，使用 lumberjack 进行日志轮转
type LogConfig struct {
	LogPath    string `toml:"logPath"`
	FileName   string `toml:"fileName"`
	MaxSize    int    `toml:"maxSize"`    // 单个日志文件最大大小（MB）
	MaxBackups int    `toml:"maxBackups"` // 保留旧日志文件的最大个数
	MaxAge     int    `toml:"maxAge"`     // 保留旧日志文件的最大天数
	Level      string `toml:"level"`      // debug, info, warn, error
}

// JWTConfig API 认证配置，Secret 为空时不启用认证
type JWTConfig struct {
	Secret            string `toml:"secret"`
	AccessTokenExpiry int    `toml:"accessTokenExpiry"` // Access Token 有效期（分钟）
}

// ResponderConfig 自动回复配置
type ResponderConfig struct {
	DelayMillis int `toml:"delayMillis"` // 回复前的模拟思考时间
	WorkerNum   int `toml:"workerNum"`   // 异步回复协程数
	QueueSize   int `toml:"queueSize"`   // 异步回复队列长度
}

// LiveConfig 实时刷新配置
type LiveConfig struct {
	ReconnectInitialMillis int `toml:"reconnectInitialMillis"` // 订阅断线后首次重连等待
	ReconnectMaxMillis     int `toml:"reconnectMaxMillis"`     // 重连等待上限
}

// TLSConfig HTTPS 重定向配置
type TLSConfig struct {
	Redirect bool `toml:"redirect"`
}

// Config 应用程序总配置
type Config struct {
	MainConfig      `toml:"mainConfig"`
	DatabaseConfig  `toml:"databaseConfig"`
	RedisConfig     `toml:"redisConfig"`
	KafkaConfig     `toml:"kafkaConfig"`
	LogConfig       `toml:"logConfig"`
	JWTConfig       `toml:"jwtConfig"`
	ResponderConfig `toml:"responderConfig"`
	LiveConfig      `toml:"liveConfig"`
	TLSConfig       `toml:"tlsConfig"`
}

// config 全局配置单例，延迟加载
var config *Config

// candidatePaths 候选配置文件路径（优先加载本地配置）
var candidatePaths = []string{
	"configs/config_local.toml",
	"configs/config.toml",
	"../../configs/config_local.toml",
	"../../configs/config.toml",
}

// LoadConfig 按顺序尝试候选路径，找到第一个可用的配置文件即停止
func LoadConfig(cfg *Config, paths ...string) error {
	if len(paths) == 0 {
		paths = candidatePaths
	}
	for _, path := range paths {
		if _, err := toml.DecodeFile(path, cfg); err == nil {
			cfg.ApplyDefaults()
			return nil
		}
	}
	cfg.ApplyDefaults()
	return fmt.Errorf("could not find configuration file in any of the search paths")
}

// Decode 从 TOML 文本解析配置，主要供测试使用
func Decode(data string) (*Config, error) {
	cfg := new(Config)
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("decode toml: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults 为未配置的字段填充默认值
func (c *Config) ApplyDefaults() {
	if c.AppName == "" {
		c.AppName = "chat_inbox_server"
	}
	if c.MainConfig.Host == "" {
		c.MainConfig.Host = "0.0.0.0"
	}
	if c.MainConfig.Port == 0 {
		c.MainConfig.Port = 8000
	}
	if c.Mode == "" {
		c.Mode = "dev"
	}
	if c.Driver == "" {
		c.Driver = "sqlite"
	}
	if c.SqlitePath == "" {
		c.SqlitePath = "./data/chat_inbox.db"
	}
	if c.TableName == "" {
		c.TableName = constants.DEFAULT_TABLE_NAME
	}
	if c.Channel == "" {
		c.Channel = constants.DEFAULT_REDIS_CHANNEL
	}
	if c.MessageMode == "" {
		c.MessageMode = "channel"
	}
	if c.ChangeTopic == "" {
		c.ChangeTopic = constants.DEFAULT_CHANGE_TOPIC
	}
	if c.GroupPrefix == "" {
		c.GroupPrefix = "chat_inbox"
	}
	if c.Partition == 0 {
		c.Partition = 1
	}
	if c.KafkaConfig.Timeout == 0 {
		c.KafkaConfig.Timeout = 1
	}
	if c.LogPath == "" {
		c.LogPath = "./logs"
	}
	if c.AccessTokenExpiry == 0 {
		c.AccessTokenExpiry = 60
	}
	if c.DelayMillis == 0 {
		c.DelayMillis = 1000
	}
	if c.WorkerNum == 0 {
		c.WorkerNum = 4
	}
	if c.QueueSize == 0 {
		c.QueueSize = 256
	}
	if c.ReconnectInitialMillis == 0 {
		c.ReconnectInitialMillis = 500
	}
	if c.ReconnectMaxMillis == 0 {
		c.ReconnectMaxMillis = 30000
	}
}

// ResponderDelay 回复前等待时长
func (c *Config) ResponderDelay() time.Duration {
	if c.DelayMillis < 0 {
		return 0
	}
	return time.Duration(c.DelayMillis) * time.Millisecond
}

// ReconnectBackoff 订阅重连的初始与最大等待时长
func (c *Config) ReconnectBackoff() (initial, maxWait time.Duration) {
	return time.Duration(c.ReconnectInitialMillis) * time.Millisecond,
		time.Duration(c.ReconnectMaxMillis) * time.Millisecond
}

// GetConfig 获取全局配置实例（单例模式）
// 首次调用时会自动加载配置文件，找不到文件时使用默认值
func GetConfig() *Config {
	if config == nil {
		config = new(Config)
		_ = LoadConfig(config)
	}
	return config
}
