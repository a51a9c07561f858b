package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chat_inbox_server/internal/config"
	"chat_inbox_server/internal/dao/database"
	"chat_inbox_server/internal/dao/store"
	"chat_inbox_server/internal/gateway/websocket"
	"chat_inbox_server/internal/handler"
	"chat_inbox_server/internal/https_server"
	"chat_inbox_server/internal/infrastructure/logger"
	"chat_inbox_server/internal/infrastructure/mq"
	"chat_inbox_server/internal/service"
	"chat_inbox_server/pkg/util/jwt"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, conf.Mode); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	zap.L().Info("日志初始化成功")

	// 3. 初始化数据库
	db, err := database.Open(&conf.DatabaseConfig)
	if err != nil {
		zap.L().Fatal("数据库初始化失败", zap.Error(err))
	}
	repos := database.NewRepositories(db, &conf.DatabaseConfig)

	// 4. 初始化变更订阅
	feed, err := mq.NewManager(conf)
	if err != nil {
		zap.L().Fatal("变更订阅初始化失败", zap.Error(err))
	}
	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	feed.Start(rootCtx)

	// 5. 初始化 JWT，secret 为空时不启用认证
	jwt.Init(conf.JWTConfig.Secret, conf.AccessTokenExpiry)
	if jwt.Enabled() {
		zap.L().Info("JWT 认证已启用")
	}

	// 6. 初始化 Service 层 (依赖注入)
	messages := store.New(repos.ChatHistory, feed.Hub, feed.Publisher)
	svc := service.NewServices(messages, conf)

	// 7. 初始化 Handler 和 HTTP 服务器
	if err := handler.InitTrans("zh"); err != nil {
		zap.L().Fatal("init validator translator failed", zap.Error(err))
	}
	conns := websocket.NewConnManager()
	engine := https_server.Init(conf, handler.NewHandlers(svc, conns))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port),
		Handler: engine,
	}
	go func() {
		zap.L().Info("服务启动", zap.String("addr", srv.Addr), zap.String("message_mode", conf.MessageMode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()

	// 设置信号监听
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("关闭服务器...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("http server shutdown", zap.Error(err))
	}
	conns.CloseAll()
	svc.Close()
	cancel()
	if err := feed.Close(); err != nil {
		zap.L().Error("close change feed", zap.Error(err))
	}
	if err := repos.Close(); err != nil {
		zap.L().Error("close database", zap.Error(err))
	}

	zap.L().Info("服务器已关闭")
	_ = zap.L().Sync()
}
