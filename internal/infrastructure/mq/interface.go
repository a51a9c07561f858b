package mq

import "context"

// Handler 收到范围内事件时调用
type Handler func(Event)

// Subscription 一个已打开的订阅，由创建者独占
type Subscription interface {
	// ID 订阅标识
	ID() string
	// Filter 订阅范围
	Filter() Filter
	// Unsubscribe 释放订阅，可重复调用；之后投递协程不再取出新事件
	Unsubscribe() error
	// Done 投递协程退出后关闭
	Done() <-chan struct{}
}

// Feed 变更订阅入口
type Feed interface {
	Subscribe(filter Filter, handler Handler) (Subscription, error)
}

// Publisher 发布变更事件
// channel 模式直接投递到本地 Hub；redis/kafka 模式发往外部，由桥接协程回流到 Hub
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Bridge 外部传输到本地 Hub 的桥接，Run 阻塞直到 ctx 取消
type Bridge interface {
	Publisher
	Run(ctx context.Context)
	Close() error
}
