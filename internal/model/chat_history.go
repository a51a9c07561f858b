// Package model 定义数据库实体模型
// 本文件定义聊天记录模型，对应多平台（LINE、Messenger、Instagram）共享的消息表
package model

import (
	"database/sql"

	"chat_inbox_server/pkg/constants"
)

// MessagePayload 消息体，以 JSON 形式存储在 message 列
// 例如 {"type":"human","content":"你好"}
type MessagePayload struct {
	// Type 消息类型，human 或 ai，参见 pkg/enum/message_type_enum
	Type string `json:"type"`
	// Content 消息文本
	Content string `json:"content"`
}

// ChatHistory 聊天记录模型
// 一行就是一条消息，写入后不再修改
type ChatHistory struct {
	// Id 自增主键，由存储在插入时分配
	Id int64 `gorm:"column:id;primaryKey;autoIncrement"`

	// SessionId 会话标识，格式 <platform>_<identifier>
	// 其他进程（如 n8n 工作流）写入的会话 id 可能不带平台前缀
	SessionId string `gorm:"column:session_id;index;type:varchar(255);not null"`

	// Message 消息体
	Message MessagePayload `gorm:"column:message;serializer:json;type:json;not null"`

	// CreatedAt 写入时间，由存储在插入时赋值
	// 外部进程写入的行可能为 NULL，聚合时按 0 时间处理
	CreatedAt sql.NullTime `gorm:"column:created_at;index;autoCreateTime:false"`
}

// TableName 默认表名，可通过配置 databaseConfig.tableName 覆盖
func (ChatHistory) TableName() string {
	return constants.DEFAULT_TABLE_NAME
}
