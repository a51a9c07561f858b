// Package backoff 提供指数退避等待，用于订阅断线重连
package backoff

import (
	"context"
	"time"
)

// Backoff 指数退避：Initial, 2*Initial, 4*Initial ... 直到 Max
// 非并发安全，每个重连循环持有自己的实例
type Backoff struct {
	Initial time.Duration
	Max     time.Duration
	attempt int
}

// New 创建退避器，参数非法时使用 500ms / 30s
func New(initial, maxWait time.Duration) *Backoff {
	if initial <= 0 {
		initial = 500 * time.Millisecond
	}
	if maxWait < initial {
		maxWait = 30 * time.Second
		if maxWait < initial {
			maxWait = initial
		}
	}
	return &Backoff{Initial: initial, Max: maxWait}
}

// Next 返回下一次等待时长并推进计数
func (b *Backoff) Next() time.Duration {
	d := b.Initial
	for i := 0; i < b.attempt && d < b.Max; i++ {
		d *= 2
	}
	if d > b.Max {
		d = b.Max
	}
	b.attempt++
	return d
}

// Attempts 自上次 Reset 以来的失败次数
func (b *Backoff) Attempts() int {
	return b.attempt
}

// Reset 连接成功后清零
func (b *Backoff) Reset() {
	b.attempt = 0
}

// Sleep 等待 d，ctx 取消时提前返回 false
func Sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
