package request

// ViewCommand websocket 客户端发来的指令
// 使用位置:
//   - internal/gateway/websocket/client.go: Read
type ViewCommand struct {
	Action    string `json:"action"`
	SessionId string `json:"session_id"`
}

// ActionSelect 切换当前会话
const ActionSelect = "select"
