// Package handler 提供 HTTP 请求处理器
// 本文件处理自动回复接口
package handler

import (
	"net/http"

	"chat_inbox_server/internal/dto/request"
	"chat_inbox_server/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const missingChatFields = "Missing session_id or message"

// ChatHandler 自动回复请求处理器
// 该接口供外部调用，响应格式为 {success} / {error}，不使用统一的 code/msg 结构
type ChatHandler struct {
	responderSvc service.ResponderService
}

// NewChatHandler 创建自动回复处理器实例
func NewChatHandler(responderSvc service.ResponderService) *ChatHandler {
	return &ChatHandler{responderSvc: responderSvc}
}

// Chat 生成回复并写入同一会话
// POST /api/chat
// 请求体: request.ChatRequest
// 响应: {"success": true}；缺少字段 400 {"error"}；写入失败 500 {"error"}
func (h *ChatHandler) Chat(c *gin.Context) {
	var req request.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		zap.L().Debug("chat request rejected", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": missingChatFields})
		return
	}
	if _, _, err := h.responderSvc.Reply(c.Request.Context(), req.SessionId, req.Message); err != nil {
		HandleStatusError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
