package repository

import (
	"context"

	"chat_inbox_server/internal/model"
)

// ChatHistoryRepository 聊天记录数据访问接口
// 表是追加写入的，因此只有查询和插入
type ChatHistoryRepository interface {
	// FindAll 查询全部聊天记录，按 id 升序
	FindAll(ctx context.Context) ([]model.ChatHistory, error)
	// FindBySessionId 查询单个会话的聊天记录，按 created_at、id 升序
	FindBySessionId(ctx context.Context, sessionId string) ([]model.ChatHistory, error)
	// Create 插入一条聊天记录，回填 Id 和 CreatedAt
	Create(ctx context.Context, row *model.ChatHistory) error
}
