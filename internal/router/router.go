// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"net/http"

	"chat_inbox_server/internal/handler"
	"chat_inbox_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// Router 持有 Handler 聚合，按模块注册路由
type Router struct {
	handlers *handler.Handlers
}

// NewRouter 创建路由管理器
func NewRouter(handlers *handler.Handlers) *Router {
	return &Router{handlers: handlers}
}

// RegisterRoutes 注册所有路由
// 在 https_server.Init() 中调用
func (rt *Router) RegisterRoutes(r *gin.Engine) {
	// 健康检查，不需要认证
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := r.Group("/api", middleware.JWTAuth())
	rt.RegisterChatRoutes(api)    // 自动回复
	rt.RegisterSessionRoutes(api) // 会话
	rt.RegisterMessageRoutes(api) // 消息

	ws := r.Group("", middleware.JWTAuth())
	rt.RegisterWebSocketRoutes(ws) // WebSocket
}
