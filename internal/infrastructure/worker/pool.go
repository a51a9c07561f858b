// Package worker 提供固定协程数的异步任务池
// 队列满时降级为同步执行，保证任务不会被丢弃
package worker

import (
	"sync"

	"go.uber.org/zap"
)

// task 纯闭包任务
type task struct {
	Action func()
}

// Pool 异步任务池
type Pool struct {
	name  string
	tasks chan *task
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewPool 创建并启动任务池
// workerNum: 后台协程数量
// bufferSize: 通道缓冲区大小
func NewPool(name string, workerNum, bufferSize int) *Pool {
	if workerNum <= 0 {
		workerNum = 1
	}
	if bufferSize < 0 {
		bufferSize = 0
	}
	p := &Pool{name: name, tasks: make(chan *task, bufferSize)}
	p.wg.Add(workerNum)
	for i := 0; i < workerNum; i++ {
		go p.startWorker()
	}
	zap.L().Info("worker pool started", zap.String("pool", name), zap.Int("workers", workerNum), zap.Int("buffer", bufferSize))
	return p
}

// Submit 提交任务
// 使用示例:
//
//	pool.Submit(func() {
//	    replier.Reply(ctx, sessionId, content)
//	})
func (p *Pool) Submit(action func()) {
	if action == nil {
		return
	}
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		zap.L().Warn("worker pool closed, executing synchronously", zap.String("pool", p.name))
		runSafely(p.name, action)
		return
	}
	select {
	case p.tasks <- &task{Action: action}:
		p.mu.RUnlock()
	default:
		p.mu.RUnlock()
		// 降级：同步执行
		zap.L().Warn("worker pool channel full, executing synchronously", zap.String("pool", p.name))
		runSafely(p.name, action)
	}
}

// Close 停止接收任务，等待队列中的任务执行完
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()
	p.wg.Wait()
}

// startWorker 单个 Worker 消费循环，任务 panic 不会导致 Worker 退出
func (p *Pool) startWorker() {
	defer p.wg.Done()
	for t := range p.tasks {
		runSafely(p.name, t.Action)
	}
}

func runSafely(name string, action func()) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("worker task panic", zap.String("pool", name), zap.Any("recover", r))
		}
	}()
	action()
}
