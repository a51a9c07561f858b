// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"chat_inbox_server/internal/config"
	"chat_inbox_server/internal/dao/store"
	"chat_inbox_server/internal/infrastructure/worker"
	"chat_inbox_server/internal/service/inbox"
	"chat_inbox_server/internal/service/message"
	"chat_inbox_server/internal/service/responder"
)

// Services 聚合所有 Service 实例
// 作为依赖注入的入口，Handler 层通过此结构访问各个 Service
type Services struct {
	Inbox     InboxService
	Message   MessageService
	Responder ResponderService
}

// NewServices 创建所有 Service 实例
// 自动回复在独立的 worker pool 中执行，队列满时在请求协程中同步执行
func NewServices(s store.MessageStore, conf *config.Config) *Services {
	delay := conf.ResponderDelay()
	replier := responder.NewService(s, delay)
	pool := worker.NewPool("auto_reply", conf.WorkerNum, conf.QueueSize)
	return &Services{
		Inbox:     inbox.NewInboxService(s),
		Message:   message.NewMessageService(s, replier, pool, delay),
		Responder: replier,
	}
}

// Close 等待后台任务结束
func (s *Services) Close() {
	s.Message.Close()
}
