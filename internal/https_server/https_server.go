// Package https_server 创建 Gin 引擎并配置中间件和路由
package https_server

import (
	"chat_inbox_server/internal/config"
	"chat_inbox_server/internal/handler"
	"chat_inbox_server/internal/infrastructure/logger"
	"chat_inbox_server/internal/infrastructure/middleware"
	"chat_inbox_server/internal/router"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Init 创建 Gin 引擎并返回
// 配置顺序：日志和恢复中间件、CORS、可选的 TLS 重定向、业务路由
func Init(conf *config.Config, handlers *handler.Handlers) *gin.Engine {
	if conf.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	engine.Use(logger.GinLogger())
	engine.Use(logger.GinRecovery(true))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"} // 允许所有来源（生产环境应指定具体域名）
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	engine.Use(cors.New(corsConfig))

	// 由 Nginx 处理 SSL 时关闭
	if conf.Redirect {
		engine.Use(middleware.TlsHandler(conf.MainConfig.Host, conf.MainConfig.Port, conf.Mode == "dev"))
	}

	rt := router.NewRouter(handlers)
	rt.RegisterRoutes(engine)
	return engine
}
