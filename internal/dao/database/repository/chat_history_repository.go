package repository

import (
	"context"
	"database/sql"
	"time"

	"chat_inbox_server/internal/model"

	"gorm.io/gorm"
)

// chatHistoryRepository ChatHistoryRepository 的 gorm 实现
type chatHistoryRepository struct {
	db    *gorm.DB
	table string           // 表名，允许指向外部系统已有的表
	now   func() time.Time // 写入时间来源
}

// NewChatHistoryRepository 创建聊天记录 Repository
// table 为空时使用模型默认表名
func NewChatHistoryRepository(db *gorm.DB, table string) ChatHistoryRepository {
	if table == "" {
		table = model.ChatHistory{}.TableName()
	}
	return &chatHistoryRepository{db: db, table: table, now: time.Now}
}

func (r *chatHistoryRepository) query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table(r.table)
}

// FindAll 查询全部聊天记录
func (r *chatHistoryRepository) FindAll(ctx context.Context) ([]model.ChatHistory, error) {
	var rows []model.ChatHistory
	if err := r.query(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, wrapDBError(err, "查询聊天记录")
	}
	return rows, nil
}

// FindBySessionId 按会话查询聊天记录
func (r *chatHistoryRepository) FindBySessionId(ctx context.Context, sessionId string) ([]model.ChatHistory, error) {
	var rows []model.ChatHistory
	if err := r.query(ctx).
		Where("session_id = ?", sessionId).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询聊天记录 session_id=%s", sessionId)
	}
	return rows, nil
}

// Create 插入聊天记录
// CreatedAt 未赋值时使用当前时间
func (r *chatHistoryRepository) Create(ctx context.Context, row *model.ChatHistory) error {
	if !row.CreatedAt.Valid {
		row.CreatedAt = sql.NullTime{Time: r.now(), Valid: true}
	}
	if err := r.query(ctx).Create(row).Error; err != nil {
		return wrapDBErrorf(err, "写入聊天记录 session_id=%s", row.SessionId)
	}
	return nil
}
