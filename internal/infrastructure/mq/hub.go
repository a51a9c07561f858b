package mq

import (
	"context"
	"sync"

	"chat_inbox_server/pkg/constants"
	"chat_inbox_server/pkg/errorx"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Hub 进程内变更事件扇出
// 每个订阅持有自己的缓冲队列和投递协程，慢 handler 不会阻塞发布方
type Hub struct {
	mu     sync.RWMutex
	closed bool
	subs   map[string]*hubSubscription
}

// hubSubscription Hub 上的一个订阅
type hubSubscription struct {
	id      string
	filter  Filter
	handler Handler
	queue   chan Event
	quit    chan struct{}
	done    chan struct{}
	once    sync.Once
	hub     *Hub
}

// NewHub 创建 Hub
func NewHub() *Hub {
	return &Hub{subs: make(map[string]*hubSubscription)}
}

// Subscribe 打开一个订阅
func (h *Hub) Subscribe(filter Filter, handler Handler) (Subscription, error) {
	if handler == nil {
		return nil, errorx.New(errorx.CodeInvalidParam, "订阅 handler 不能为空")
	}
	sub := &hubSubscription{
		id:      uuid.NewString(),
		filter:  filter,
		handler: handler,
		queue:   make(chan Event, constants.CHANNEL_SIZE),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
		hub:     h,
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, errorx.ErrFeedClosed
	}
	h.subs[sub.id] = sub
	h.mu.Unlock()

	go sub.deliver()
	zap.L().Debug("change feed subscribed", zap.String("sub_id", sub.id), zap.Stringer("filter", filter))
	return sub, nil
}

// Dispatch 把事件投递给所有范围匹配的订阅
// 队列已满时丢弃该事件：队列里尚未处理的事件同样会触发全量刷新
func (h *Hub) Dispatch(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	for _, sub := range h.subs {
		if !sub.filter.Matches(event) {
			continue
		}
		select {
		case sub.queue <- event:
		default:
			zap.L().Warn("change feed queue full, event coalesced",
				zap.String("sub_id", sub.id),
				zap.String("session_id", event.SessionId),
			)
		}
	}
}

// Publish 实现 Publisher，channel 模式下直接投递
func (h *Hub) Publish(_ context.Context, event Event) error {
	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		return errorx.ErrFeedClosed
	}
	h.Dispatch(event)
	return nil
}

// Count 当前活跃订阅数
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close 关闭 Hub，释放所有订阅并等待投递协程退出
func (h *Hub) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	subs := make([]*hubSubscription, 0, len(h.subs))
	for _, sub := range h.subs {
		subs = append(subs, sub)
	}
	h.subs = make(map[string]*hubSubscription)
	h.mu.Unlock()

	for _, sub := range subs {
		sub.stop()
		<-sub.done
	}
	return nil
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	delete(h.subs, id)
	h.mu.Unlock()
}

func (s *hubSubscription) deliver() {
	defer close(s.done)
	for {
		select {
		case <-s.quit:
			return
		case event := <-s.queue:
			// quit 与 queue 同时就绪时 select 随机选择，这里再确认一次
			select {
			case <-s.quit:
				return
			default:
			}
			s.invoke(event)
		}
	}
}

func (s *hubSubscription) invoke(event Event) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("change feed handler panic", zap.String("sub_id", s.id), zap.Any("recover", rec))
		}
	}()
	s.handler(event)
}

func (s *hubSubscription) stop() {
	s.once.Do(func() { close(s.quit) })
}

func (s *hubSubscription) ID() string { return s.id }

func (s *hubSubscription) Filter() Filter { return s.filter }

func (s *hubSubscription) Done() <-chan struct{} { return s.done }

// Unsubscribe 从 Hub 移除并停止投递
// 不等待正在执行的 handler，因此可以在 handler 内部调用
func (s *hubSubscription) Unsubscribe() error {
	s.hub.remove(s.id)
	s.stop()
	zap.L().Debug("change feed unsubscribed", zap.String("sub_id", s.id))
	return nil
}

var (
	_ Feed      = (*Hub)(nil)
	_ Publisher = (*Hub)(nil)
)
