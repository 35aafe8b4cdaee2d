// Package main API Gateway 服务入口
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"mana-universe-api/internal/config"
	einoobs "mana-universe-api/internal/observability/eino"
	"mana-universe-api/internal/wire"
	"mana-universe-api/pkg/logger"
	"mana-universe-api/pkg/tracer"

	"github.com/joho/godotenv"
)

// Version 版本信息，构建时注入
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// insecureJWTSecret 配置文件中的占位密钥
const insecureJWTSecret = "change-me-in-production"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.App.Version == "" {
		cfg.App.Version = Version
	}

	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

	ctx := context.Background()
	logger.Info(ctx, "starting api-gateway",
		"version", cfg.App.Version,
		"build_time", BuildTime,
		"env", cfg.App.Env,
	)
	warnOnUnsafeConfig(ctx, cfg)

	shutdownTracer, err := tracer.Init(ctx, tracer.Config{
		ServiceName: cfg.App.Name,
		Version:     cfg.App.Version,
		Environment: cfg.App.Env,
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		Enabled:     cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to init tracer", err)
	}
	defer func() {
		if err := shutdownTracer(ctx); err != nil {
			logger.Error(ctx, "failed to shutdown tracer", err)
		}
	}()

	einoobs.Init()

	app, cleanupApp, err := wire.InitializeApp(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "failed to initialize app", err)
	}
	defer cleanupApp()

	addr := fmt.Sprintf("%s:%d", cfg.Server.HTTP.Host, cfg.Server.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      app.Engine(),
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
		IdleTimeout:  cfg.Server.HTTP.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info(ctx, "http server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		logger.Info(ctx, "shutting down server", "signal", sig.String())
	case err := <-serveErr:
		logger.Error(ctx, "http server error", err)
	}

	// 等待进行中的生成请求完成，模型调用可能耗时较长
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "server forced to shutdown", err)
	}

	logger.Info(ctx, "server exited")
}

// warnOnUnsafeConfig 对生产环境不应出现的配置给出告警
func warnOnUnsafeConfig(ctx context.Context, cfg *config.Config) {
	if cfg.Security.JWT.Secret == "" || cfg.Security.JWT.Secret == insecureJWTSecret {
		logger.Warn(ctx, "jwt secret is empty or the placeholder value", "env", cfg.App.Env)
	}
	provider, ok := cfg.LLM.Providers[cfg.LLM.DefaultProvider]
	if !ok {
		logger.Warn(ctx, "default llm provider is not configured", "provider", cfg.LLM.DefaultProvider)
	} else if strings.TrimSpace(provider.APIKey) == "" {
		logger.Warn(ctx, "llm api key is empty, generation requests will fail", "provider", cfg.LLM.DefaultProvider)
	}
}
