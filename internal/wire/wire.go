//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"mana-universe-api/internal/application/access"
	"mana-universe-api/internal/application/audit"
	"mana-universe-api/internal/application/prompttemplate"
	"mana-universe-api/internal/application/share"
	"mana-universe-api/internal/application/universe"
	"mana-universe-api/internal/config"
	"mana-universe-api/internal/domain/repository"
	"mana-universe-api/internal/infrastructure/llm"
	"mana-universe-api/internal/infrastructure/persistence/postgres"
	"mana-universe-api/internal/infrastructure/persistence/redis"
	"mana-universe-api/internal/interfaces/http/handler"
	"mana-universe-api/internal/interfaces/http/middleware"
	"mana-universe-api/internal/interfaces/http/router"
	"mana-universe-api/internal/workflow/chain"
	workflowport "mana-universe-api/internal/workflow/port"
	"mana-universe-api/internal/workflow/prompt"
)

// InitializeApp 初始化 HTTP 应用
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		MessagingSet,
		LLMSet,
		ApplicationSet,
		RouterSet,
	)
	return nil, nil, nil
}

// InitializeBootstrap 初始化 bootstrap 命令
func InitializeBootstrap(ctx context.Context, cfg *config.Config) (*Bootstrap, func(), error) {
	wire.Build(
		RepoSet,
		llm.NewModelCatalog,
		ProvidePromptRegistry,
		ProvideJWTManager,
		wire.Bind(new(prompttemplate.DefaultSource), new(*prompt.Registry)),
		wire.Bind(new(prompttemplate.ModelCatalog), new(*llm.ModelCatalog)),
		prompttemplate.NewService,
		wire.Struct(new(Bootstrap), "*"),
	)
	return nil, nil, nil
}

// InitializeAuditWorker 初始化审计归档进程
func InitializeAuditWorker(ctx context.Context, cfg *config.Config) (*AuditWorker, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		audit.NewArchiver,
		wire.Struct(new(AuditWorker), "*"),
	)
	return nil, nil, nil
}

// PostgresSet PostgreSQL 提供者集合
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewTxManager,
	postgres.NewUserRepository,
	postgres.NewPromptTemplateRepository,
	postgres.NewUniverseRepository,
	postgres.NewUniverseShareRepository,
	postgres.NewCharacterRepository,
	postgres.NewLocationRepository,
	postgres.NewChapterRepository,
	postgres.NewBeatRepository,
	postgres.NewAuditEventRepository,
)

// RepoSet 具体实现与接口绑定
var RepoSet = wire.NewSet(
	PostgresSet,
	wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
	wire.Bind(new(repository.UserRepository), new(*postgres.UserRepository)),
	wire.Bind(new(repository.PromptTemplateRepository), new(*postgres.PromptTemplateRepository)),
	wire.Bind(new(repository.UniverseRepository), new(*postgres.UniverseRepository)),
	wire.Bind(new(repository.UniverseShareRepository), new(*postgres.UniverseShareRepository)),
	wire.Bind(new(repository.CharacterRepository), new(*postgres.CharacterRepository)),
	wire.Bind(new(repository.LocationRepository), new(*postgres.LocationRepository)),
	wire.Bind(new(repository.ChapterRepository), new(*postgres.ChapterRepository)),
	wire.Bind(new(repository.BeatRepository), new(*postgres.BeatRepository)),
	wire.Bind(new(repository.AuditEventRepository), new(*postgres.AuditEventRepository)),
)

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	redis.NewCache,
	redis.NewRateLimiter,
	ProvideDraftStore,
	wire.Bind(new(middleware.RateLimiter), new(*redis.RateLimiter)),
	wire.Bind(new(universe.DraftStore), new(*redis.DraftStore)),
)

// MessagingSet 消息队列提供者集合
var MessagingSet = wire.NewSet(
	ProvideMessagingProducer,
	ProvideAuditPublisher,
)

// LLMSet 模型调用与生成链
var LLMSet = wire.NewSet(
	llm.NewEinoFactory,
	llm.NewModelCatalog,
	ProvidePromptRegistry,
	llm.NewCompletionClient,
	chain.NewGenerationChain,
	wire.Bind(new(workflowport.ChatModelFactory), new(*llm.EinoFactory)),
	wire.Bind(new(llm.MessageBuilder), new(*prompt.Registry)),
	wire.Bind(new(workflowport.CompletionClient), new(*llm.CompletionClient)),
)

// ApplicationSet 应用服务
var ApplicationSet = wire.NewSet(
	access.NewGate,
	prompttemplate.NewService,
	share.NewService,
	audit.NewHistory,
	ProvideContentRepos,
	ProvideUniverseOptions,
	universe.NewGenerator,
	universe.NewMaterializer,
	universe.NewService,
	wire.Bind(new(prompttemplate.DefaultSource), new(*prompt.Registry)),
	wire.Bind(new(prompttemplate.ModelCatalog), new(*llm.ModelCatalog)),
	wire.Bind(new(universe.TemplateSource), new(*prompttemplate.Service)),
	wire.Bind(new(universe.GenerationRunner), new(*chain.GenerationChain)),
	wire.Bind(new(universe.DefaultModel), new(*llm.ModelCatalog)),
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideHealthHandler,
	handler.NewUniverseHandler,
	handler.NewShareHandler,
	handler.NewPromptTemplateHandler,
	handler.NewHistoryHandler,
	wire.Bind(new(handler.UniverseService), new(*universe.Service)),
	wire.Bind(new(handler.ShareService), new(*share.Service)),
	wire.Bind(new(handler.PromptTemplateService), new(*prompttemplate.Service)),
	wire.Bind(new(handler.ModelCatalog), new(*llm.ModelCatalog)),
	wire.Bind(new(handler.HistoryService), new(*audit.History)),
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)
