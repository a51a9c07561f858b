package database

import (
	"chat_inbox_server/internal/config"
	"chat_inbox_server/internal/dao/database/repository"

	"gorm.io/gorm"
)

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Store 和 Service 层通过此结构访问数据层
type Repositories struct {
	db          *gorm.DB
	ChatHistory repository.ChatHistoryRepository
}

// NewRepositories 创建所有 Repository 实例
func NewRepositories(db *gorm.DB, cfg *config.DatabaseConfig) *Repositories {
	return &Repositories{
		db:          db,
		ChatHistory: repository.NewChatHistoryRepository(db, tableName(cfg)),
	}
}

// Close 关闭底层连接
func (r *Repositories) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
