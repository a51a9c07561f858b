// Package router 提供 HTTP 路由注册
// 本文件定义会话相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterSessionRoutes 注册会话相关路由
func (rt *Router) RegisterSessionRoutes(rg *gin.RouterGroup) {
	rg.GET("/platforms", rt.handlers.Session.Platforms) // 新建会话可选平台

	sessionGroup := rg.Group("/sessions")
	{
		sessionGroup.GET("", rt.handlers.Session.ListSessions)                     // 会话列表
		sessionGroup.POST("", rt.handlers.Session.CreateSession)                   // 新建会话
		sessionGroup.GET("/:session_id/messages", rt.handlers.Session.ListMessages) // 会话消息
	}
}
