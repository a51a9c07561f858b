package request

// CreateSessionRequest 新建会话请求，session_id 由 platform 和 identifier 拼接
// 使用位置:
//   - internal/handler/session_handler.go: CreateSession
//   - internal/service/message/service.go: CreateSession
type CreateSessionRequest struct {
	Platform   string `json:"platform" binding:"required,oneof=line messenger instagram"`
	Identifier string `json:"identifier" binding:"required,max=200"`
	Message    string `json:"message" binding:"required"`
}
