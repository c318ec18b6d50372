/*
 * @Description: 数据库连接的建立，支持 SQLite 与 PostgreSQL
 * @Author: 安知鱼
 * @Date: 2025-09-02 15:30:27
 * @LastEditTime: 2026-02-21 12:02:48
 * @LastEditors: 安知鱼
 */
package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/anzhiyu-c/aurora-app/pkg/config"
)

// NewDB 根据配置建立数据库连接。
// Database.Type 为 "postgres" 时使用 PostgreSQL，否则回落到本地 SQLite 文件。
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.GetBool(config.KeyServerDebug) {
		logLevel = gormlogger.Info
	}
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	}

	dbType := cfg.GetString(config.KeyDBType)
	switch dbType {
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.GetString(config.KeyDBHost),
			cfg.GetIntOrDefault(config.KeyDBPort, 5432),
			cfg.GetString(config.KeyDBUser),
			cfg.GetString(config.KeyDBPassword),
			cfg.GetString(config.KeyDBName),
		)
		db, err := gorm.Open(postgres.Open(dsn), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("连接 PostgreSQL 数据库失败: %w", err)
		}
		log.Println("✅ 已连接 PostgreSQL 数据库。")
		return db, nil

	case "", "sqlite":
		path := cfg.GetString(config.KeyDBPath)
		if path == "" {
			path = "data/aurora_app.db"
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("创建数据库目录失败: %w", err)
		}
		db, err := gorm.Open(sqlite.Open(path), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("打开 SQLite 数据库 '%s' 失败: %w", path, err)
		}
		log.Printf("✅ 已打开 SQLite 数据库: %s", path)
		return db, nil

	default:
		return nil, fmt.Errorf("不支持的数据库类型: %s", dbType)
	}
}
