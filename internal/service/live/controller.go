// Package live 管理视图的实时刷新订阅
// 一个 Controller 任意时刻最多持有一个订阅，切换范围时先释放旧订阅再打开新订阅
package live

import (
	"context"
	"sync"
	"sync/atomic"

	"chat_inbox_server/internal/infrastructure/mq"
	"chat_inbox_server/pkg/errorx"

	"go.uber.org/zap"
)

// Source 订阅来源，store.MessageStore 满足该接口
type Source interface {
	Subscribe(ctx context.Context, filter mq.Filter, handler mq.Handler) (mq.Subscription, error)
	Unsubscribe(sub mq.Subscription) error
}

// RefreshFunc 范围内有变更时调用，调用方应重新拉取全量数据
// current 报告产生该事件的订阅是否仍是当前订阅；调用方把刷新投递到别的协程时，
// 应在真正执行前再检查一次
type RefreshFunc func(event mq.Event, current func() bool)

// Controller 单个视图区域的订阅控制器
type Controller struct {
	name    string
	source  Source
	refresh RefreshFunc

	mu    sync.Mutex
	sub   mq.Subscription
	scope mq.Filter

	// generation 每次换订阅或关闭时递增，旧订阅的回调据此丢弃
	generation atomic.Uint64
}

// New 创建控制器，name 只用于日志
func New(name string, source Source, refresh RefreshFunc) *Controller {
	return &Controller{name: name, source: source, refresh: refresh}
}

// Subscribe 订阅 scope；已有订阅时先释放
// 打开失败时控制器处于未订阅状态并返回错误
func (c *Controller) Subscribe(ctx context.Context, scope mq.Filter) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	gen := c.generation.Add(1)
	c.releaseLocked()

	current := func() bool { return c.generation.Load() == gen }
	sub, err := c.source.Subscribe(ctx, scope, func(event mq.Event) {
		if !current() {
			return
		}
		c.refresh(event, current)
	})
	if err != nil {
		zap.L().Error("live subscribe failed",
			zap.String("controller", c.name),
			zap.Stringer("scope", scope),
			zap.Error(err),
		)
		return errorx.Wrapf(err, errorx.CodeFeedError, "%s 订阅失败", c.name)
	}
	c.sub = sub
	c.scope = scope
	zap.L().Debug("live subscribed", zap.String("controller", c.name), zap.Stringer("scope", scope))
	return nil
}

// Close 释放订阅，可重复调用
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation.Add(1)
	c.releaseLocked()
}

// Active 是否持有订阅
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sub != nil
}

// Scope 当前订阅范围，未订阅时 ok 为 false
func (c *Controller) Scope() (scope mq.Filter, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scope, c.sub != nil
}

func (c *Controller) releaseLocked() {
	if c.sub == nil {
		return
	}
	if err := c.source.Unsubscribe(c.sub); err != nil {
		zap.L().Warn("live unsubscribe failed", zap.String("controller", c.name), zap.Error(err))
	}
	c.sub = nil
	c.scope = mq.Filter{}
}
