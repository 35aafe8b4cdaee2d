package testutil

import (
	"testing"

	"gorm.io/gorm"

	"mana-universe-api/internal/domain/entity"
)

// SeedUser 创建测试用户
func SeedUser(tb testing.TB, db *gorm.DB, email string) *entity.User {
	tb.Helper()
	u := entity.NewUser(email, email)
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedUniverse 创建测试宇宙
func SeedUniverse(tb testing.TB, db *gorm.DB, ownerID, name string) *entity.Universe {
	tb.Helper()
	u := entity.NewUniverse(ownerID, name, "a premise")
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("seed universe: %v", err)
	}
	return u
}

// SeedShare 创建共享记录
func SeedShare(tb testing.TB, db *gorm.DB, universeID, userID string, level entity.PermissionLevel) *entity.UniverseShare {
	tb.Helper()
	s := entity.NewUniverseShare(universeID, userID, level)
	if err := db.Create(s).Error; err != nil {
		tb.Fatalf("seed share: %v", err)
	}
	return s
}

// SeedTemplate 创建提示词模板
func SeedTemplate(tb testing.TB, db *gorm.DB, userID, content string) *entity.PromptTemplate {
	tb.Helper()
	tpl := entity.NewPromptTemplate(userID, "Template", content, "")
	if err := db.Create(tpl).Error; err != nil {
		tb.Fatalf("seed template: %v", err)
	}
	return tpl
}
