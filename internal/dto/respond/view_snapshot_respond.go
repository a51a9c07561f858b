package respond

// 推送帧类型
const (
	FrameSnapshot = "snapshot"
	FrameError    = "error"
)

// ViewSnapshot 收件箱视图的完整状态，每次状态变化推送一次
// 使用位置:
//   - internal/service/inbox/view.go: publish
//   - internal/gateway/websocket/client.go: Push
type ViewSnapshot struct {
	Type              string        `json:"type"`
	Sessions          []SessionView `json:"sessions"`
	SelectedSessionId string        `json:"selected_session_id,omitempty"`
	Platform          *PlatformInfo `json:"platform,omitempty"`
	Messages          []MessageView `json:"messages"`
	Error             string        `json:"error,omitempty"`
}
