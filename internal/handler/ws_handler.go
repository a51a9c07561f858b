// Package handler 提供 HTTP 请求处理器
// 本文件处理 WebSocket 连接
package handler

import (
	"chat_inbox_server/internal/gateway/websocket"
	"chat_inbox_server/internal/service"

	"github.com/gin-gonic/gin"
)

// WsHandler websocket 入口
type WsHandler struct {
	inboxSvc service.InboxService
	conns    *websocket.ConnManager
}

// NewWsHandler 创建 websocket 处理器实例
func NewWsHandler(inboxSvc service.InboxService, conns *websocket.ConnManager) *WsHandler {
	return &WsHandler{inboxSvc: inboxSvc, conns: conns}
}

// Connect 升级为 websocket 并挂载实时收件箱视图
// GET /wss
// 连接后服务端推送 {"type":"snapshot",...}，客户端发送 {"action":"select","session_id":"..."} 切换会话
func (h *WsHandler) Connect(c *gin.Context) {
	websocket.ServeWs(c, h.inboxSvc, h.conns)
}
