// internal/app/bootstrap/bootstrap.go
package bootstrap

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/anzhiyu-c/aurora-app/internal/infra/persistence/gormimpl"
)

type Bootstrapper struct {
	db *gorm.DB
}

func NewBootstrapper(db *gorm.DB) *Bootstrapper {
	return &Bootstrapper{db: db}
}

// InitializeDatabase 同步全部数据表结构。
func (b *Bootstrapper) InitializeDatabase() error {
	log.Println("--- 开始执行数据库初始化引导程序 ---")

	if err := b.db.AutoMigrate(gormimpl.AllModels()...); err != nil {
		return fmt.Errorf("数据库 schema 创建/更新失败: %w", err)
	}
	log.Println("--- 数据库 Schema 同步成功 ---")

	return nil
}
