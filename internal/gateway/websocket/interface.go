// Package websocket 把收件箱视图挂到 websocket 连接上
// 每个连接一个 Client：写协程推送视图快照，读协程接收切换会话指令
package websocket

import "chat_inbox_server/internal/service/inbox"

// ViewFactory 为连接创建视图，inbox 服务满足该接口
type ViewFactory interface {
	NewView(sink inbox.Sink) *inbox.View
}
