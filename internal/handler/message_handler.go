// Package handler 提供 HTTP 请求处理器
// 本文件处理消息发送
package handler

import (
	"chat_inbox_server/internal/dto/request"
	"chat_inbox_server/internal/dto/respond"
	"chat_inbox_server/internal/service"

	"github.com/gin-gonic/gin"
)

// MessageHandler 消息请求处理器
type MessageHandler struct {
	messageSvc service.MessageService
}

// NewMessageHandler 创建消息处理器实例
func NewMessageHandler(messageSvc service.MessageService) *MessageHandler {
	return &MessageHandler{messageSvc: messageSvc}
}

// SendMessage 在已有会话发送消息，自动回复异步写入
// POST /api/messages
// 请求体: request.SendMessageRequest
// 响应: respond.SendMessageRespond
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req request.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	id, err := h.messageSvc.Send(c.Request.Context(), req.SessionId, req.Content)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, respond.SendMessageRespond{MessageId: id})
}
