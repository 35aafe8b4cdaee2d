// Package main 审计归档进程入口（audit-worker）
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mana-universe-api/internal/config"
	"mana-universe-api/internal/domain/service"
	"mana-universe-api/internal/infrastructure/messaging"
	"mana-universe-api/internal/wire"
	"mana-universe-api/pkg/logger"
	"mana-universe-api/pkg/tracer"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	ctx := context.Background()

	shutdown, err := tracer.Init(ctx, tracer.Config{
		ServiceName: "audit-worker",
		Version:     cfg.App.Version,
		Environment: cfg.App.Env,
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		Enabled:     cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to init tracer", err)
	}
	defer func() { _ = shutdown(ctx) }()

	worker, cleanup, err := wire.InitializeAuditWorker(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "failed to initialize audit worker", err)
	}
	defer cleanup()

	stream := messaging.Stream(cfg.Messaging.RedisStream.AuditStream)
	if stream == "" {
		stream = messaging.DefaultAuditStream
	}

	consumer := messaging.NewConsumer(worker.RedisClient.Redis(), messaging.ConsumerConfig{
		Stream:       stream,
		Group:        messaging.ConsumerGroupAuditArchiver,
		ConsumerName: hostnameConsumerName(),
		BlockTimeout: cfg.Messaging.RedisStream.BlockTimeout,
		RetryLimit:   cfg.Messaging.RedisStream.RetryLimit,
		Backoff: messaging.BackoffConfig{
			Initial:    cfg.Messaging.RedisStream.RetryBackoff.Initial,
			Max:        cfg.Messaging.RedisStream.RetryBackoff.Max,
			Multiplier: cfg.Messaging.RedisStream.RetryBackoff.Multiplier,
		},
	})

	consumer.RegisterHandler(messaging.TypeUniverseSaved, func(ctx context.Context, msg *messaging.Message) error {
		var event service.UniverseSavedEvent
		if err := msg.UnmarshalPayload(&event); err != nil {
			return err
		}
		if event.RequestID == "" {
			event.RequestID = msg.GetMetadata("request_id")
		}
		return worker.Archiver.Archive(ctx, msg.ID, &event)
	})

	if err := consumer.Start(ctx); err != nil {
		logger.Fatal(ctx, "failed to start consumer", err)
	}
	logger.Info(ctx, "audit-worker started", "stream", string(stream))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "audit-worker shutting down")
	consumer.Stop()
}

func hostnameConsumerName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "worker"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}
