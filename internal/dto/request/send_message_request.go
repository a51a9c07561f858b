package request

// SendMessageRequest 客服在当前会话发送消息
// 使用位置:
//   - internal/handler/message_handler.go: SendMessage
type SendMessageRequest struct {
	SessionId string `json:"session_id" binding:"required"`
	Content   string `json:"content" binding:"required"`
}
