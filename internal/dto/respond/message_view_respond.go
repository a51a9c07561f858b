package respond

import "time"

// MessageView 会话中的一条消息
type MessageView struct {
	Id            int64      `json:"id"`
	Type          string     `json:"type"`
	Content       string     `json:"content"`
	CreatedAt     *time.Time `json:"created_at"`
	DateSeparator string     `json:"date_separator,omitempty"` // 与上一条不在同一天时为日期，如 2024-05-01
}

// SessionMessagesRespond 单个会话的消息列表
// 使用位置:
//   - internal/handler/session_handler.go: ListMessages
type SessionMessagesRespond struct {
	SessionId string        `json:"session_id"`
	Platform  PlatformInfo  `json:"platform"`
	Messages  []MessageView `json:"messages"`
}

// CreateSessionRespond 新建会话结果
type CreateSessionRespond struct {
	SessionId string `json:"session_id"`
	MessageId int64  `json:"message_id"`
}

// SendMessageRespond 发送消息结果
type SendMessageRespond struct {
	MessageId int64 `json:"message_id"`
}

// PlatformOption 新建会话时可选的平台
type PlatformOption struct {
	Value string       `json:"value"`
	Info  PlatformInfo `json:"info"`
}
