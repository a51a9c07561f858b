// Package service 定义业务层接口
// 本文件定义所有 Service 接口，供 Handler 层和 websocket 网关调用
package service

import (
	"context"

	"chat_inbox_server/internal/dto/request"
	"chat_inbox_server/internal/dto/respond"
	"chat_inbox_server/internal/service/inbox"
)

// InboxService 收件箱查询
type InboxService interface {
	// ListSessions 聚合后的会话列表，最近活跃的在前
	ListSessions(ctx context.Context) ([]respond.SessionView, error)
	// ListMessages 单个会话的消息，按时间升序
	ListMessages(ctx context.Context, sessionId string) (*respond.SessionMessagesRespond, error)
	// Platforms 新建会话可选平台
	Platforms() []respond.PlatformOption
	// NewView 为 websocket 连接创建实时视图
	NewView(sink inbox.Sink) *inbox.View
}

// MessageService 发送消息和新建会话
type MessageService interface {
	// Send 写入 human 消息并异步触发自动回复
	Send(ctx context.Context, sessionId, content string) (int64, error)
	// CreateSession 以 <platform>_<identifier> 新建会话
	CreateSession(ctx context.Context, req request.CreateSessionRequest) (*respond.CreateSessionRespond, error)
	// Close 等待进行中的自动回复
	Close()
}

// ResponderService 自动回复
type ResponderService interface {
	// Reply 延迟后写入 ai 回复
	Reply(ctx context.Context, sessionId, humanText string) (string, int64, error)
}
