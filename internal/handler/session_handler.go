// Package handler 提供 HTTP 请求处理器
// 本文件处理会话相关的 API 请求
package handler

import (
	"chat_inbox_server/internal/dto/request"
	"chat_inbox_server/internal/service"

	"github.com/gin-gonic/gin"
)

// SessionHandler 会话请求处理器
type SessionHandler struct {
	inboxSvc   service.InboxService
	messageSvc service.MessageService
}

// NewSessionHandler 创建会话处理器实例
func NewSessionHandler(inboxSvc service.InboxService, messageSvc service.MessageService) *SessionHandler {
	return &SessionHandler{inboxSvc: inboxSvc, messageSvc: messageSvc}
}

// ListSessions 获取会话列表
// GET /api/sessions
// 响应: []respond.SessionView
func (h *SessionHandler) ListSessions(c *gin.Context) {
	data, err := h.inboxSvc.ListSessions(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ListMessages 获取单个会话的消息
// GET /api/sessions/:session_id/messages
// 响应: respond.SessionMessagesRespond
func (h *SessionHandler) ListMessages(c *gin.Context) {
	data, err := h.inboxSvc.ListMessages(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// CreateSession 新建会话并发送第一条消息
// POST /api/sessions
// 请求体: request.CreateSessionRequest
// 响应: respond.CreateSessionRespond
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req request.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.messageSvc.CreateSession(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Platforms 新建会话可选平台
// GET /api/platforms
func (h *SessionHandler) Platforms(c *gin.Context) {
	HandleSuccess(c, h.inboxSvc.Platforms())
}
