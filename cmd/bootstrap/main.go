package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"mana-universe-api/internal/config"
	"mana-universe-api/internal/domain/entity"
	"mana-universe-api/internal/wire"
)

func main() {
	_ = godotenv.Load()

	fmt.Println("Starting system bootstrap...")

	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	// 2. 初始化数据层
	deps, cleanup, err := wire.InitializeBootstrap(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize data layer: %v", err)
	}
	defer cleanup()

	// 3. 迁移表结构
	if err := deps.PgClient.AutoMigrate(ctx); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}
	fmt.Println("Schema migrated.")

	// 4. 创建开发用户
	email := os.Getenv("BOOTSTRAP_USER_EMAIL")
	if email == "" {
		email = "dev@mana.local"
	}

	user, err := deps.UserRepo.GetByEmail(ctx, email)
	if err != nil {
		log.Fatalf("failed to check user existence: %v", err)
	}
	if user == nil {
		fmt.Printf("Creating user: %s...\n", email)
		user = entity.NewUser(email, "Developer")
		if err := deps.UserRepo.Create(ctx, user); err != nil {
			log.Fatalf("failed to create user: %v", err)
		}
	} else {
		fmt.Printf("User %s already exists.\n", email)
	}

	// 5. 默认提示词模板
	tpl, err := deps.Templates.EnsureDefault(ctx, user.ID)
	if err != nil {
		log.Fatalf("failed to ensure default template: %v", err)
	}
	fmt.Printf("Default template: %s (%s)\n", tpl.Name, tpl.ID)

	// 6. 开发令牌
	ttl := cfg.Security.JWT.Expiration
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	token, err := deps.JWT.GenerateToken(user.ID, user.Email, ttl)
	if err != nil {
		log.Fatalf("failed to issue token: %v", err)
	}
	fmt.Printf("User ID: %s\nBearer token (expires in %s):\n%s\n", user.ID, ttl, token)

	fmt.Println("Bootstrap completed successfully.")
}
