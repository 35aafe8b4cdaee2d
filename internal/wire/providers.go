// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"mana-universe-api/internal/application/audit"
	"mana-universe-api/internal/application/prompttemplate"
	"mana-universe-api/internal/application/universe"
	"mana-universe-api/internal/config"
	"mana-universe-api/internal/domain/repository"
	"mana-universe-api/internal/domain/service"
	"mana-universe-api/internal/infrastructure/messaging"
	"mana-universe-api/internal/infrastructure/persistence/postgres"
	"mana-universe-api/internal/infrastructure/persistence/redis"
	"mana-universe-api/internal/interfaces/http/handler"
	"mana-universe-api/internal/workflow/prompt"
	"mana-universe-api/pkg/logger"
	"mana-universe-api/pkg/utils"
)

// Bootstrap 初始化命令依赖
type Bootstrap struct {
	PgClient  *postgres.Client
	UserRepo  *postgres.UserRepository
	Templates *prompttemplate.Service
	JWT       *utils.JWTManager
}

// AuditWorker 审计归档进程依赖
type AuditWorker struct {
	RedisClient *redis.Client
	Archiver    *audit.Archiver
}

// ProvidePostgresClient 提供 PostgreSQL 客户端，按配置自动迁移
func ProvidePostgresClient(ctx context.Context, cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	if cfg.Database.Postgres.AutoMigrate {
		if err := client.AutoMigrate(ctx); err != nil {
			cleanup()
			return nil, nil, err
		}
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideMessagingProducer 提供消息生产者
func ProvideMessagingProducer(redisClient *redis.Client, cfg *config.Config) *messaging.Producer {
	return messaging.NewProducer(redisClient.Redis(), int64(cfg.Messaging.RedisStream.MaxLen), cfg.Messaging.RedisStream.AuditStream)
}

// ProvideAuditPublisher 审计流关闭时不发布
func ProvideAuditPublisher(cfg *config.Config, producer *messaging.Producer) service.AuditPublisher {
	if !cfg.Messaging.RedisStream.Enabled {
		return nil
	}
	return producer
}

// ProvidePromptRegistry 提供提示词注册表
func ProvidePromptRegistry(cfg *config.Config) *prompt.Registry {
	return prompt.NewRegistry(cfg.LLM.SystemPrompt)
}

// ProvideContentRepos 组装内容仓储
func ProvideContentRepos(
	universes repository.UniverseRepository,
	characters repository.CharacterRepository,
	locations repository.LocationRepository,
	chapters repository.ChapterRepository,
	beats repository.BeatRepository,
) universe.ContentRepos {
	return universe.ContentRepos{
		Universes:  universes,
		Characters: characters,
		Locations:  locations,
		Chapters:   chapters,
		Beats:      beats,
	}
}

// ProvideDraftStore 提供草稿存储
func ProvideDraftStore(client *redis.Client, cfg *config.Config) *redis.DraftStore {
	return redis.NewDraftStore(client, cfg.Features.Drafts.TTL)
}

// ProvideUniverseOptions 按功能开关组装可选依赖
func ProvideUniverseOptions(cfg *config.Config, client *redis.Client, cache *redis.Cache, publisher service.AuditPublisher) universe.Options {
	opts := universe.Options{Audit: publisher}
	if cfg.Features.UniverseLock.Enabled {
		opts.Locker = redis.NewUniverseLocker(client, cfg.Features.UniverseLock.TTL)
	}
	if cfg.Features.ContentCache.Enabled {
		opts.Cache = cache
		opts.CacheTTL = cfg.Features.ContentCache.TTL
	}
	logger.Info(context.Background(), "universe features configured",
		"universe_lock", opts.Locker != nil,
		"content_cache", opts.Cache != nil,
		"audit_stream", publisher != nil,
	)
	return opts
}

// ProvideHealthHandler 提供健康检查处理器
func ProvideHealthHandler(cfg *config.Config, pg *postgres.Client, rdb *redis.Client) *handler.HealthHandler {
	return handler.NewHealthHandler(cfg.App.Version, pg, rdb)
}

// ProvideJWTManager 提供 JWT 管理器
func ProvideJWTManager(cfg *config.Config) *utils.JWTManager {
	return utils.NewJWTManager(cfg.Security.JWT.Secret, cfg.Security.JWT.Issuer)
}
