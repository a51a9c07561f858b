// Package mq 实现聊天记录表的变更订阅（change feed）
// 本地通过 Hub 扇出给订阅者；跨进程时由 Redis pub/sub 或 Kafka 传输事件
package mq

import (
	"encoding/json"
	"time"
)

// EventType 变更类型
type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
	// EventResync 订阅重连后发出，期间可能漏掉了事件，所有订阅者都应全量刷新
	EventResync EventType = "RESYNC"
)

// Event 一条变更通知，只携带定位信息，不携带行内容
type Event struct {
	Type      EventType `json:"type"`
	SessionId string    `json:"session_id,omitempty"`
	RowId     int64     `json:"row_id,omitempty"`
	At        time.Time `json:"at"`
}

// Encode 序列化为传输格式
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// DecodeEvent 反序列化传输格式
func DecodeEvent(data []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(data, &e)
	return e, err
}

// Filter 订阅范围：SessionId 为空表示全部会话，否则按 session_id 等值匹配
type Filter struct {
	SessionId string
}

// AllSessions 订阅全部会话
func AllSessions() Filter {
	return Filter{}
}

// ForSession 订阅单个会话
func ForSession(sessionId string) Filter {
	return Filter{SessionId: sessionId}
}

// IsAll 是否为全部会话
func (f Filter) IsAll() bool {
	return f.SessionId == ""
}

// Matches 判断事件是否在订阅范围内，RESYNC 匹配所有范围
func (f Filter) Matches(e Event) bool {
	return e.Type == EventResync || f.IsAll() || f.SessionId == e.SessionId
}

// String 用于日志
func (f Filter) String() string {
	if f.IsAll() {
		return "*"
	}
	return "session_id=eq." + f.SessionId
}
