// Package message_type_enum 定义聊天记录 message.type 的取值
package message_type_enum

const (
	Human = "human" // 用户（客户）发送的消息
	AI    = "ai"    // 自动回复
)

// IsValid 判断 type 是否为已知取值
func IsValid(t string) bool {
	return t == Human || t == AI
}
