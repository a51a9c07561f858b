package mq

import (
	"context"
	"time"

	"chat_inbox_server/pkg/util/backoff"

	"go.uber.org/zap"
)

// sessionFunc 打开一次外部连接并阻塞读取
// 连接可用后调用 onReady，返回导致断开的错误
type sessionFunc func(ctx context.Context, onReady func()) error

// supervise 反复运行 session 直到 ctx 取消
// 断开后按指数退避重连；除第一次外，每次连接就绪都向 target 投递 RESYNC
func supervise(ctx context.Context, name string, bo *backoff.Backoff, target Dispatcher, session sessionFunc) {
	connected := false
	for ctx.Err() == nil {
		err := session(ctx, func() {
			if connected {
				zap.L().Info("change feed reconnected", zap.String("feed", name), zap.Int("attempts", bo.Attempts()))
				target.Dispatch(Event{Type: EventResync, At: time.Now()})
			}
			connected = true
			bo.Reset()
		})
		if ctx.Err() != nil {
			return
		}
		wait := bo.Next()
		zap.L().Error("change feed disconnected",
			zap.String("feed", name),
			zap.Error(err),
			zap.Duration("retry_in", wait),
		)
		if !backoff.Sleep(ctx, wait) {
			return
		}
	}
}
