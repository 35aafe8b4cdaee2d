// Package testutil 提供测试用的数据库与数据构造工具
package testutil

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"mana-universe-api/internal/domain/entity"
)

// DB 返回迁移完成的测试数据库
// 设置 TEST_POSTGRES_DSN 时使用真实 PostgreSQL，否则使用独立的内存 SQLite
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	cfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	}

	var dialector gorm.Dialector
	if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
		dialector = postgres.Open(dsn)
	} else {
		name := strings.ReplaceAll(tb.Name(), "/", "_")
		dialector = sqlite.Open(fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", name, uuid.NewString()[:8]))
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(entity.AllModels()...); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}
	return db
}
