package request

// ChatRequest 自动回复请求
// 使用位置:
//   - internal/handler/chat_handler.go: Chat
type ChatRequest struct {
	SessionId string `json:"session_id" binding:"required"`
	Message   string `json:"message" binding:"required"`
}
