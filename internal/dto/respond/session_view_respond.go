package respond

import "time"

// PlatformInfo 会话来源平台的展示信息
type PlatformInfo struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// SessionView 会话列表中的一项
// 使用位置:
//   - internal/service/inbox/aggregator.go: Aggregate
//   - internal/handler/session_handler.go: ListSessions
type SessionView struct {
	SessionId   string       `json:"session_id"`
	LastMessage string       `json:"last_message"`
	Preview     string       `json:"preview"`
	UpdatedAt   *time.Time   `json:"updated_at"` // 最后一条消息没有时间戳时为 null
	Platform    PlatformInfo `json:"platform"`
}
