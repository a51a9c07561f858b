// Package database 负责建立数据库连接、迁移聊天记录表并构造 Repository
// 支持 MySQL（生产）和 SQLite（本地开发、测试）两种驱动
package database

import (
	"fmt"
	"os"
	"path/filepath"

	"chat_inbox_server/internal/config"
	"chat_inbox_server/internal/model"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	mysqldriver "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open 根据配置打开数据库连接并迁移聊天记录表
func Open(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	if cfg.Driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("get sqlite database object: %w", err)
		}
		// SQLite 只支持单个写入连接
		sqlDB.SetMaxOpenConns(1)
	}

	// 只创建缺失的表和列，不会删除外部系统已有的数据
	if err := db.Table(tableName(cfg)).AutoMigrate(&model.ChatHistory{}); err != nil {
		return nil, fmt.Errorf("auto migrate %s: %w", tableName(cfg), err)
	}

	zap.L().Info("数据库初始化成功",
		zap.String("driver", cfg.Driver),
		zap.String("table", tableName(cfg)),
	)
	return db, nil
}

func dialectorFor(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "mysql":
		// 格式：user:password@tcp(host:port)/database?params
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DatabaseName)
		return mysqldriver.Open(dsn), nil
	case "sqlite", "":
		path := cfg.SqlitePath
		if path != ":memory:" && path != "" {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite directory: %w", err)
			}
		}
		return sqlite.Open(path), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func tableName(cfg *config.DatabaseConfig) string {
	if cfg.TableName != "" {
		return cfg.TableName
	}
	return model.ChatHistory{}.TableName()
}
