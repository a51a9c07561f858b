// Package router 提供 HTTP 路由注册
// 本文件定义消息和自动回复相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterMessageRoutes 注册消息发送路由
func (rt *Router) RegisterMessageRoutes(rg *gin.RouterGroup) {
	rg.POST("/messages", rt.handlers.Message.SendMessage) // 发送消息
}

// RegisterChatRoutes 注册自动回复路由
func (rt *Router) RegisterChatRoutes(rg *gin.RouterGroup) {
	rg.POST("/chat", rt.handlers.Chat.Chat) // 生成并写入自动回复
}
